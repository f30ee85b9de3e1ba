// Package extract walks classified stylesheet nodes and produces the raw
// inputs of theme construction: custom-property declarations with scope
// provenance, literal rule overrides found inside variant scopes, raw
// keyframe blocks, and the variant scopes themselves in discovery order.
package extract

import (
	"strings"

	"bennypowers.dev/cte/internal/collections"
	"bennypowers.dev/cte/internal/cssom"
	"bennypowers.dev/cte/internal/log"
	"bennypowers.dev/cte/internal/namespace"
	"bennypowers.dev/cte/internal/tokens"
)

// Keyframe is a raw @keyframes block captured verbatim.
type Keyframe struct {
	// Name is the animation name from the at-rule prelude.
	Name string

	// Raw is the verbatim block text, braces included.
	Raw string
}

// Result is everything one walk of a node sequence produced.
type Result struct {
	// Declarations are the custom-property declarations in source order,
	// across all scopes.
	Declarations []tokens.Declaration

	// Overrides are the literal rule declarations found inside variant
	// scopes that shadow a themeable property.
	Overrides []tokens.RuleOverride

	// Variants are the variant scopes in discovery order, one entry per
	// distinct identifier.
	Variants []tokens.Variant

	// Keyframes are the raw keyframe blocks in discovery order.
	Keyframes []Keyframe
}

// Extractor walks stylesheet nodes.
type Extractor struct {
	caches *namespace.Caches
}

// New returns an Extractor sharing the given memo caches. A nil caches
// disables memoization.
func New(caches *namespace.Caches) *Extractor {
	return &Extractor{caches: caches}
}

// scope is one variant frame of the walk.
type scope struct {
	// name is the compound variant identifier, dot-joined.
	name string

	// selector is the variant's registered activating selector. For
	// compounds this is the composite selector.
	selector string

	// ancestors are the enclosing variant identifiers, outermost first.
	ancestors []string

	// media is the innermost enclosing media query params, if any.
	media string
}

// walk accumulates one extraction pass.
type walk struct {
	res  *Result
	seen collections.Set[string]
}

// Extract walks the top-level nodes once. Theme at-rule blocks yield base
// declarations, :root rules yield root declarations, and any other rule or
// media block yields a variant scope when an identifier derives from its
// selector; otherwise the node is ignored.
func (e *Extractor) Extract(nodes []cssom.Node) *Result {
	w := &walk{res: &Result{}, seen: collections.NewSet[string]()}
	for _, node := range nodes {
		switch n := node.(type) {
		case *cssom.AtRule:
			e.topAtRule(n, w)
		case *cssom.Rule:
			e.topRule(n, w)
		}
	}
	return w.res
}

func (e *Extractor) topAtRule(a *cssom.AtRule, w *walk) {
	switch {
	case a.Name == "theme":
		for _, d := range a.Decls {
			e.addDeclaration(w, tokens.Declaration{
				Name:  d.Property,
				Value: d.Value,
				Scope: tokens.ScopeBase,
				Line:  d.Line,
			})
		}
		for _, child := range a.Children {
			if kf, ok := child.(*cssom.AtRule); ok && kf.IsKeyframes() {
				addKeyframe(w.res, kf)
			}
		}
	case a.IsKeyframes():
		addKeyframe(w.res, a)
	case a.Name == "media":
		seg, ok := e.mediaVariant(a.Params)
		if !ok {
			log.Debug("ignoring media block with no derivable variant: @media %s", a.Params)
			return
		}
		sc := scope{
			name:     seg,
			selector: "@media " + strings.TrimSpace(a.Params),
			media:    strings.TrimSpace(a.Params),
		}
		e.visitVariant(sc, sc.selector, a.Decls, a.Children, w)
	default:
		log.Debug("ignoring @%s block", a.Name)
	}
}

func (e *Extractor) topRule(r *cssom.Rule, w *walk) {
	if isRootSelector(r.Selector) {
		for _, d := range r.Decls {
			e.addDeclaration(w, tokens.Declaration{
				Name:  d.Property,
				Value: d.Value,
				Scope: tokens.ScopeRoot,
				Line:  d.Line,
			})
		}
		return
	}
	seg, ok := e.deriveVariant(r.Selector)
	if !ok {
		log.Debug("ignoring rule with no derivable variant: %s", r.Selector)
		return
	}
	sc := scope{name: seg, selector: strings.TrimSpace(r.Selector)}
	e.visitVariant(sc, r.Selector, r.Decls, r.Children, w)
}

func (e *Extractor) visitVariant(sc scope, blockSelector string, decls []cssom.Decl, children []cssom.Node, w *walk) {
	if !w.seen.Has(sc.name) {
		w.seen.Add(sc.name)
		w.res.Variants = append(w.res.Variants, tokens.Variant{
			Name:      sc.name,
			Selector:  sc.selector,
			Ancestors: append([]string(nil), sc.ancestors...),
		})
	}
	e.consumeDecls(sc, blockSelector, decls, w)
	e.consumeChildren(sc, children, w)
}

func (e *Extractor) consumeDecls(sc scope, selector string, decls []cssom.Decl, w *walk) {
	for _, d := range decls {
		if tokens.IsCustomProperty(d.Property) {
			e.addDeclaration(w, tokens.Declaration{
				Name:     d.Property,
				Value:    d.Value,
				Scope:    tokens.ScopeVariant,
				Selector: sc.selector,
				Variant:  sc.name,
				Line:     d.Line,
			})
			continue
		}
		e.addOverride(sc, selector, d, len(decls), w)
	}
}

func (e *Extractor) consumeChildren(sc scope, children []cssom.Node, w *walk) {
	for _, child := range children {
		switch n := child.(type) {
		case *cssom.Rule:
			switch seg, ok := e.deriveVariant(n.Selector); {
			case isRootSelector(n.Selector):
				// :root inside a variant scope restates the variant's own
				// declarations (the dark-mode media idiom).
				e.consumeDecls(sc, n.Selector, n.Decls, w)
				e.consumeChildren(sc, n.Children, w)
			case ok:
				sub := scope{
					name:      sc.name + "." + seg,
					selector:  compositeSelector(sc.selector, seg),
					ancestors: append(append([]string(nil), sc.ancestors...), sc.name),
					media:     sc.media,
				}
				e.visitVariant(sub, n.Selector, n.Decls, n.Children, w)
			default:
				for _, d := range n.Decls {
					if tokens.IsCustomProperty(d.Property) {
						continue
					}
					e.addOverride(sc, n.Selector, d, len(n.Decls), w)
				}
			}
		case *cssom.AtRule:
			switch {
			case n.IsKeyframes():
				addKeyframe(w.res, n)
			case n.Name == "media":
				seg, ok := e.mediaVariant(n.Params)
				if !ok {
					continue
				}
				sub := scope{
					name:      sc.name + "." + seg,
					selector:  compositeSelector(sc.selector, seg),
					ancestors: append(append([]string(nil), sc.ancestors...), sc.name),
					media:     strings.TrimSpace(n.Params),
				}
				e.visitVariant(sub, sub.selector, n.Decls, n.Children, w)
			}
		}
	}
}

func (e *Extractor) addDeclaration(w *walk, d tokens.Declaration) {
	if !tokens.IsCustomProperty(d.Name) {
		return
	}
	// Direct self-references drop so an external baseline value can
	// survive the later merge.
	if ref, ok := tokens.BareReference(d.Value); ok && ref.Name == d.Name {
		log.Debug("dropping self-referential declaration %s", d.Name)
		return
	}
	w.res.Declarations = append(w.res.Declarations, d)
}

func (e *Extractor) addOverride(sc scope, selector string, d cssom.Decl, propsInRule int, w *walk) {
	if _, ok := namespace.RuleFor(d.Property); !ok {
		return
	}
	complexity, reason := classify(selector, d.Value, propsInRule, sc.media)
	w.res.Overrides = append(w.res.Overrides, tokens.RuleOverride{
		Selector:         strings.TrimSpace(selector),
		Property:         d.Property,
		Value:            d.Value,
		VariantName:      sc.name,
		OriginalSelector: sc.selector,
		Complexity:       complexity,
		Reason:           reason,
		MediaQuery:       sc.media,
		Line:             d.Line,
	})
}

func addKeyframe(res *Result, a *cssom.AtRule) {
	name := strings.TrimSpace(a.Params)
	if name == "" {
		return
	}
	res.Keyframes = append(res.Keyframes, Keyframe{Name: name, Raw: a.Raw})
}

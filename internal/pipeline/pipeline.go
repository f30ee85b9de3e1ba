// Package pipeline runs the full extraction flow over a stylesheet node
// sequence: extract, inject overrides, resolve, build themes, detect
// rule conflicts, diff unresolved references, and apply the override
// set. It owns the ordering between those stages; each stage lives in
// its own package.
package pipeline

import (
	"bennypowers.dev/cte/internal/builder"
	"bennypowers.dev/cte/internal/collections"
	"bennypowers.dev/cte/internal/conflict"
	"bennypowers.dev/cte/internal/cssom"
	"bennypowers.dev/cte/internal/extract"
	"bennypowers.dev/cte/internal/log"
	"bennypowers.dev/cte/internal/namespace"
	"bennypowers.dev/cte/internal/override"
	"bennypowers.dev/cte/internal/resolve"
	"bennypowers.dev/cte/internal/theme"
	"bennypowers.dev/cte/internal/tokens"
	"bennypowers.dev/cte/internal/unresolved"
)

// Options configures one pipeline run.
type Options struct {
	// Caches are the shared namespace memo caches. Nil disables
	// memoization.
	Caches *namespace.Caches

	// NamespaceDepths maps namespace names to their sub-key nesting
	// depth (today only "color" is meaningful).
	NamespaceDepths map[string]int

	// Baseline are defaults-scope declarations from an external token
	// set. They resolve below every source declaration and fold into a
	// baseline theme that the built themes overlay.
	Baseline []tokens.Declaration

	// Overrides is the declarative override set, or nil.
	Overrides *override.Set
}

// Result is everything one pipeline run produced.
type Result struct {
	// Base is the merged base theme.
	Base *theme.Theme

	// Variants maps variant names to their merged themes.
	Variants map[string]theme.VariantTheme

	// VariantOrder lists variant names in discovery order.
	VariantOrder []string

	// Conflicts are the literal-rule shadowing findings, applied or not.
	Conflicts []tokens.Conflict

	// Applied is the subset of Conflicts written back into variant
	// themes automatically.
	Applied []tokens.Conflict

	// Unresolved are the references that survived resolution.
	Unresolved []tokens.UnresolvedReference

	// Deprecations are the deprecated-name warnings, one per variable.
	Deprecations []tokens.DeprecationWarning

	// Resolved are all declarations after scope-aware resolution, in
	// source order (baseline first).
	Resolved []tokens.Declaration
}

// Run executes the pipeline over nodes.
func Run(nodes []cssom.Node, opts Options) *Result {
	ex := extract.New(opts.Caches)
	res := ex.Extract(nodes)
	log.Debug("Extracted %d declarations, %d variants, %d rule overrides",
		len(res.Declarations), len(res.Variants), len(res.Overrides))

	decls := res.Declarations
	if opts.Overrides != nil {
		prepend, appendAfter := opts.Overrides.InjectionDeclarations()
		if len(prepend)+len(appendAfter) > 0 {
			log.Debug("Injecting %d override declarations", len(prepend)+len(appendAfter))
			merged := make([]tokens.Declaration, 0, len(prepend)+len(decls)+len(appendAfter))
			merged = append(merged, prepend...)
			merged = append(merged, decls...)
			merged = append(merged, appendAfter...)
			decls = merged
		}
	}

	all := make([]tokens.Declaration, 0, len(opts.Baseline)+len(decls))
	all = append(all, opts.Baseline...)
	all = append(all, decls...)

	forwards := resolve.BuildForwardMap(all, opts.Caches)
	b := builder.New(opts.Caches, opts.NamespaceDepths)

	var baseline *theme.Theme
	var warnings []tokens.DeprecationWarning
	if len(opts.Baseline) > 0 {
		var w []tokens.DeprecationWarning
		baseline, w = b.BuildDefaults(all)
		warnings = append(warnings, w...)
	}

	built, w := b.BuildBase(all, forwards, res.Keyframes)
	warnings = append(warnings, w...)
	base := built
	if baseline != nil {
		base = theme.Merge(baseline, built)
	}

	variants := make(map[string]theme.VariantTheme, len(res.Variants))
	order := make([]string, 0, len(res.Variants))
	for _, v := range res.Variants {
		vt, w := b.BuildVariant(all, v, forwards, res.Keyframes)
		warnings = append(warnings, w...)
		if baseline != nil {
			vt = theme.Merge(baseline, vt)
		}
		variants[v.Name] = theme.VariantTheme{Selector: v.Selector, Theme: vt}
		order = append(order, v.Name)
	}

	resolved := resolveScoped(all, res.Variants)
	unresolvedRefs := unresolved.Analyze(all, resolved)

	conflicts := conflict.Detect(res.Overrides, variants)
	applied := conflict.ApplyResolvableConflicts(conflicts, variants)

	if opts.Overrides != nil {
		n := opts.Overrides.Apply(base, variants)
		if n > 0 {
			log.Debug("Applied %d override entries", n)
		}
	}

	return &Result{
		Base:         base,
		Variants:     variants,
		VariantOrder: order,
		Conflicts:    conflicts,
		Applied:      applied,
		Unresolved:   unresolvedRefs,
		Deprecations: dedupeWarnings(warnings),
		Resolved:     resolved,
	}
}

// resolveScoped resolves every declaration in the context its scope
// sees: defaults, base and root in the base context, variant
// declarations in their own variant context.
func resolveScoped(all []tokens.Declaration, variants []tokens.Variant) []tokens.Declaration {
	byName := make(map[string]tokens.Variant, len(variants))
	for _, v := range variants {
		byName[v.Name] = v
	}

	baseCtx := resolve.BaseContext(all)
	ctxs := make(map[string]*resolve.Context, len(variants))

	out := make([]tokens.Declaration, len(all))
	for i, d := range all {
		ctx := baseCtx
		if d.Scope == tokens.ScopeVariant {
			c, ok := ctxs[d.Variant]
			if !ok {
				c = resolve.VariantContext(all, d.Variant, byName[d.Variant].Ancestors)
				ctxs[d.Variant] = c
			}
			ctx = c
		}
		out[i] = d
		out[i].Value = ctx.Resolve(d.Value)
	}
	return out
}

// dedupeWarnings keeps the first warning per variable name. The same
// deprecated name surfaces once even when declared in several scopes.
func dedupeWarnings(warnings []tokens.DeprecationWarning) []tokens.DeprecationWarning {
	if len(warnings) == 0 {
		return nil
	}
	seen := collections.NewSet[string]()
	out := make([]tokens.DeprecationWarning, 0, len(warnings))
	for _, w := range warnings {
		if seen.Has(w.Variable) {
			continue
		}
		seen.Add(w.Variable)
		out = append(out, w)
	}
	return out
}

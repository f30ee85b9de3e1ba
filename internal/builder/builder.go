// Package builder turns resolved declarations into Theme value trees. The
// base theme builds from base and root declarations; each variant theme is
// seeded with base, root and ancestor-variant declarations plus the
// variant's own, so a variant only declares what it overrides.
package builder

import (
	"regexp"
	"strings"

	"bennypowers.dev/cte/internal/extract"
	"bennypowers.dev/cte/internal/log"
	"bennypowers.dev/cte/internal/namespace"
	"bennypowers.dev/cte/internal/resolve"
	"bennypowers.dev/cte/internal/theme"
	"bennypowers.dev/cte/internal/tokens"
)

// defaultScaleKey holds a flat color value that shares its key with a
// color scale (--color-primary next to --color-primary-500).
const defaultScaleKey = "DEFAULT"

// lineHeightSuffix marks a font-size companion declaration
// (--text-lg--line-height pairs with --text-lg).
const lineHeightSuffix = "--line-height"

// scalePattern splits a color key into scale name and variant:
// primary-500 and primary-500-soft are scale entries, primary is flat.
var scalePattern = regexp.MustCompile(`^(.+)-(\d+)(-.+)?$`)

// Builder constructs themes from declarations.
type Builder struct {
	caches      *namespace.Caches
	scaleColors bool
}

// New returns a Builder sharing the given memo caches. depths maps a
// namespace to its nesting depth; only the color namespace nests (depth
// 1, the default), and depth 0 flattens scale keys into flat entries.
// Depths beyond 1 are unspecified and clamp to 1.
func New(caches *namespace.Caches, depths map[string]int) *Builder {
	scale := true
	if d, ok := depths["color"]; ok {
		if d != 0 && d != 1 {
			log.Debug("clamping color namespace depth %d to 1", d)
			d = 1
		}
		scale = d == 1
	}
	return &Builder{caches: caches, scaleColors: scale}
}

// BuildBase builds the base theme from the base and root declarations in
// all, resolved against the full declaration set (defaults included).
func (b *Builder) BuildBase(all []tokens.Declaration, forwards map[string]namespace.Parsed, keyframes []extract.Keyframe) (*theme.Theme, []tokens.DeprecationWarning) {
	ctx := resolve.BaseContext(all)
	return b.build(filter(all, isBaseOrRoot), ctx, forwards, keyframes)
}

// BuildDefaults builds the baseline theme from defaults-scope
// declarations. Resolution still sees the full declaration set, so a
// baseline token may reference a user-declared variable.
func (b *Builder) BuildDefaults(all []tokens.Declaration) (*theme.Theme, []tokens.DeprecationWarning) {
	ctx := resolve.BaseContext(all)
	return b.build(filter(all, isDefaults), ctx, nil, nil)
}

// BuildVariant builds one variant's theme, seeded with base, root and
// ancestor-variant declarations plus the variant's own.
func (b *Builder) BuildVariant(all []tokens.Declaration, v tokens.Variant, forwards map[string]namespace.Parsed, keyframes []extract.Keyframe) (*theme.Theme, []tokens.DeprecationWarning) {
	seeded := filter(all, isBaseOrRoot)
	for _, ancestor := range v.Ancestors {
		seeded = append(seeded, filter(all, isVariant(ancestor))...)
	}
	seeded = append(seeded, filter(all, isVariant(v.Name))...)

	ctx := resolve.VariantContext(all, v.Name, v.Ancestors)
	return b.build(seeded, ctx, forwards, keyframes)
}

func isBaseOrRoot(d tokens.Declaration) bool {
	return d.Scope == tokens.ScopeBase || d.Scope == tokens.ScopeRoot
}

func isDefaults(d tokens.Declaration) bool {
	return d.Scope == tokens.ScopeDefaults
}

func isVariant(name string) func(tokens.Declaration) bool {
	return func(d tokens.Declaration) bool {
		return d.Scope == tokens.ScopeVariant && d.Variant == name
	}
}

func filter(decls []tokens.Declaration, match func(tokens.Declaration) bool) []tokens.Declaration {
	var out []tokens.Declaration
	for _, d := range decls {
		if match(d) {
			out = append(out, d)
		}
	}
	return out
}

// build places each declaration's resolved value into a fresh theme, in
// order, so later declarations overwrite earlier ones.
func (b *Builder) build(decls []tokens.Declaration, ctx *resolve.Context, forwards map[string]namespace.Parsed, keyframes []extract.Keyframe) (*theme.Theme, []tokens.DeprecationWarning) {
	t := theme.New()
	pending := make(map[string]string)
	var warnings []tokens.DeprecationWarning

	for _, d := range decls {
		value := ctx.Resolve(d.Value)

		if p, ok := forwards[d.Name]; ok {
			b.place(t, pending, p, value)
			continue
		}
		p, ok := b.caches.Parse(d.Name)
		if !ok {
			log.Debug("skipping declaration with unknown namespace: %s", d.Name)
			continue
		}
		if p.Deprecated {
			warnings = append(warnings, tokens.DeprecationWarning{
				Variable:    d.Name,
				Message:     p.DeprecationMessage(),
				Replacement: p.ReplacementName(),
			})
		}
		b.place(t, pending, p, value)
	}

	for root, lh := range pending {
		cur, ok := t.Get(theme.GroupFontSize, root)
		if !ok {
			log.Debug("dropping line height for missing font size key %q", root)
			continue
		}
		if fs, ok := cur.(theme.FontSize); ok {
			fs.LineHeight = lh
			t.Set(theme.GroupFontSize, root, fs)
		}
	}

	for _, kf := range keyframes {
		t.Set(theme.GroupKeyframes, kf.Name, theme.Keyframes(kf.Raw))
	}

	return t, warnings
}

func (b *Builder) place(t *theme.Theme, pending map[string]string, p namespace.Parsed, value string) {
	switch p.Group {
	case theme.GroupColors:
		b.placeColor(t, p.Key, value)
	case theme.GroupFontSize:
		b.placeFontSize(t, pending, p.Key, value)
	default:
		t.Set(p.Group, p.Key, theme.Scalar(value))
	}
}

func (b *Builder) placeColor(t *theme.Theme, key, value string) {
	if b.scaleColors {
		if m := scalePattern.FindStringSubmatch(key); m != nil {
			name := b.caches.CamelCase(m[1])
			scaleKey := m[2] + m[3]
			existing, _ := t.Get(theme.GroupColors, name)
			var scale theme.Scale
			switch cur := existing.(type) {
			case theme.Scale:
				scale = cur
			case theme.Scalar:
				// A flat color becoming a scale survives as the scale's
				// default entry.
				scale = theme.Scale{defaultScaleKey: string(cur)}
				t.Set(theme.GroupColors, name, scale)
			default:
				scale = theme.Scale{}
				t.Set(theme.GroupColors, name, scale)
			}
			scale[scaleKey] = value
			return
		}
	}

	name := b.caches.CamelCase(key)
	if cur, ok := t.Get(theme.GroupColors, name); ok {
		if scale, isScale := cur.(theme.Scale); isScale {
			scale[defaultScaleKey] = value
			return
		}
	}
	t.Set(theme.GroupColors, name, theme.Scalar(value))
}

func (b *Builder) placeFontSize(t *theme.Theme, pending map[string]string, key, value string) {
	if root, ok := strings.CutSuffix(key, lineHeightSuffix); ok && root != "" {
		pending[root] = value
		return
	}
	t.Set(theme.GroupFontSize, key, theme.FontSize{Size: value})
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cte/internal/cssom"
	"bennypowers.dev/cte/internal/tokens"
)

func d(property, value string) cssom.Decl {
	return cssom.Decl{Property: property, Value: value}
}

func rule(selector string, decls []cssom.Decl, children ...cssom.Node) *cssom.Rule {
	return &cssom.Rule{Selector: selector, Decls: decls, Children: children}
}

func atRule(name, params string, decls []cssom.Decl, children ...cssom.Node) *cssom.AtRule {
	return &cssom.AtRule{Name: name, Params: params, Decls: decls, Children: children}
}

func extract(t *testing.T, nodes ...cssom.Node) *Result {
	t.Helper()
	return New(nil).Extract(nodes)
}

func TestExtractScopes(t *testing.T) {
	res := extract(t,
		atRule("theme", "", []cssom.Decl{
			d("--color-primary", "#3b82f6"),
			d("--spacing-4", "1rem"),
		}),
		rule(":root", []cssom.Decl{d("--color-accent", "var(--color-primary)")}),
		rule(":root, :host", []cssom.Decl{d("--radius-lg", "0.5rem")}),
	)

	require.Len(t, res.Declarations, 4)
	assert.Equal(t, tokens.ScopeBase, res.Declarations[0].Scope)
	assert.Equal(t, tokens.ScopeBase, res.Declarations[1].Scope)
	assert.Equal(t, tokens.ScopeRoot, res.Declarations[2].Scope)
	assert.Equal(t, tokens.ScopeRoot, res.Declarations[3].Scope)
	assert.Equal(t, "--radius-lg", res.Declarations[3].Name)
	assert.Empty(t, res.Variants)
}

func TestExtractVariants(t *testing.T) {
	t.Run("attribute value", func(t *testing.T) {
		res := extract(t, rule(`[data-theme="high-contrast"]`, []cssom.Decl{
			d("--color-primary", "black"),
		}))
		require.Len(t, res.Variants, 1)
		assert.Equal(t, "highContrast", res.Variants[0].Name)
		assert.Equal(t, `[data-theme="high-contrast"]`, res.Variants[0].Selector)
		require.Len(t, res.Declarations, 1)
		decl := res.Declarations[0]
		assert.Equal(t, tokens.ScopeVariant, decl.Scope)
		assert.Equal(t, "highContrast", decl.Variant)
		assert.Equal(t, `[data-theme="high-contrast"]`, decl.Selector)
	})

	t.Run("unquoted attribute value", func(t *testing.T) {
		res := extract(t, rule(`[data-theme=dark]`, []cssom.Decl{d("--x-y", "1")}))
		require.Len(t, res.Variants, 1)
		assert.Equal(t, "dark", res.Variants[0].Name)
	})

	t.Run("theme class", func(t *testing.T) {
		res := extract(t, rule(".theme-mono", []cssom.Decl{d("--color-primary", "black")}))
		require.Len(t, res.Variants, 1)
		assert.Equal(t, "mono", res.Variants[0].Name)
	})

	t.Run("attribute wins over class", func(t *testing.T) {
		res := extract(t, rule(`.theme-mono[data-theme="dark"]`, nil))
		require.Len(t, res.Variants, 1)
		assert.Equal(t, "dark", res.Variants[0].Name)
	})

	t.Run("plain class is ignored", func(t *testing.T) {
		res := extract(t, rule(".card", []cssom.Decl{d("--color-primary", "red")}))
		assert.Empty(t, res.Variants)
		assert.Empty(t, res.Declarations)
	})

	t.Run("duplicate identifiers register once", func(t *testing.T) {
		res := extract(t,
			rule(`[data-theme="dark"]`, []cssom.Decl{d("--color-primary", "black")}),
			rule(".theme-dark", []cssom.Decl{d("--color-accent", "white")}),
		)
		require.Len(t, res.Variants, 1)
		assert.Equal(t, `[data-theme="dark"]`, res.Variants[0].Selector)
		assert.Len(t, res.Declarations, 2)
		assert.Equal(t, "dark", res.Declarations[1].Variant)
	})
}

func TestExtractMediaVariants(t *testing.T) {
	res := extract(t, atRule("media", "(prefers-color-scheme: dark)", nil,
		rule(":root", []cssom.Decl{d("--color-primary", "white")}),
		rule(".rounded-lg", []cssom.Decl{d("border-radius", "0")}),
	))

	require.Len(t, res.Variants, 1)
	assert.Equal(t, "dark", res.Variants[0].Name)
	assert.Equal(t, "@media (prefers-color-scheme: dark)", res.Variants[0].Selector)

	require.Len(t, res.Declarations, 1)
	assert.Equal(t, "dark", res.Declarations[0].Variant)
	assert.Equal(t, "@media (prefers-color-scheme: dark)", res.Declarations[0].Selector)

	require.Len(t, res.Overrides, 1)
	ov := res.Overrides[0]
	assert.Equal(t, tokens.Complex, ov.Complexity)
	assert.Equal(t, "rule is nested inside a conditional block", ov.Reason)
	assert.Equal(t, "(prefers-color-scheme: dark)", ov.MediaQuery)
}

func TestExtractCompoundVariants(t *testing.T) {
	res := extract(t, rule(`[data-theme="dark"]`,
		[]cssom.Decl{d("--color-primary", "white")},
		rule(".theme-high-contrast",
			[]cssom.Decl{d("--color-primary", "yellow")},
			rule(".theme-mono", []cssom.Decl{d("--color-primary", "gray")}),
		),
	))

	require.Len(t, res.Variants, 3)
	assert.Equal(t, "dark", res.Variants[0].Name)

	hc := res.Variants[1]
	assert.Equal(t, "dark.highContrast", hc.Name)
	assert.Equal(t, `[data-theme="dark"].highContrast`, hc.Selector)
	assert.Equal(t, []string{"dark"}, hc.Ancestors)

	mono := res.Variants[2]
	assert.Equal(t, "dark.highContrast.mono", mono.Name)
	assert.Equal(t, `[data-theme="dark"].highContrast.mono`, mono.Selector)
	assert.Equal(t, []string{"dark", "dark.highContrast"}, mono.Ancestors)

	require.Len(t, res.Declarations, 3)
	assert.Equal(t, "dark.highContrast", res.Declarations[1].Variant)
	assert.Equal(t, `[data-theme="dark"].highContrast`, res.Declarations[1].Selector)
	assert.Equal(t, "dark.highContrast.mono", res.Declarations[2].Variant)
}

func TestCompositeSelector(t *testing.T) {
	for _, tt := range []struct {
		parent, child, want string
	}{
		{`[data-theme="dark"]`, "red", `[data-theme="dark"].red`},
		{`[data-theme="dark"] .x, .y`, "red", `[data-theme="dark"].red .x, .y.red`},
		{".theme-dark .content", "mono", ".theme-dark.mono .content"},
		{"@media (prefers-color-scheme: dark)", "mono", "@media (prefers-color-scheme: dark) .mono"},
	} {
		assert.Equal(t, tt.want, compositeSelector(tt.parent, tt.child), "%s + %s", tt.parent, tt.child)
	}
}

func TestExtractOverrides(t *testing.T) {
	t.Run("simple override", func(t *testing.T) {
		res := extract(t, rule(".theme-mono", nil,
			rule(".rounded-lg", []cssom.Decl{d("border-radius", "0")}),
		))
		require.Len(t, res.Overrides, 1)
		ov := res.Overrides[0]
		assert.Equal(t, ".rounded-lg", ov.Selector)
		assert.Equal(t, "border-radius", ov.Property)
		assert.Equal(t, "0", ov.Value)
		assert.Equal(t, "mono", ov.VariantName)
		assert.Equal(t, ".theme-mono", ov.OriginalSelector)
		assert.Equal(t, tokens.Simple, ov.Complexity)
		assert.Empty(t, ov.Reason)
	})

	t.Run("unmapped property is skipped", func(t *testing.T) {
		res := extract(t, rule(".theme-mono", nil,
			rule(".card", []cssom.Decl{d("color", "red"), d("display", "flex")}),
		))
		assert.Empty(t, res.Overrides)
	})

	t.Run("custom properties in plain nested rules are dropped", func(t *testing.T) {
		res := extract(t, rule(".theme-mono", nil,
			rule(".card", []cssom.Decl{d("--card-bg", "red")}),
		))
		assert.Empty(t, res.Overrides)
		assert.Empty(t, res.Declarations)
	})

	t.Run("pseudo-class", func(t *testing.T) {
		res := extract(t, rule(".theme-mono", nil,
			rule(".rounded-lg:hover", []cssom.Decl{d("border-radius", "0")}),
		))
		require.Len(t, res.Overrides, 1)
		assert.Equal(t, tokens.Complex, res.Overrides[0].Complexity)
		assert.Equal(t, "selector contains a pseudo-class or pseudo-element", res.Overrides[0].Reason)
	})

	t.Run("combinator", func(t *testing.T) {
		res := extract(t, rule(".theme-mono", nil,
			rule(".sidebar .rounded-lg", []cssom.Decl{d("border-radius", "0")}),
		))
		require.Len(t, res.Overrides, 1)
		assert.Equal(t, tokens.Complex, res.Overrides[0].Complexity)
		assert.Equal(t, "selector contains a combinator", res.Overrides[0].Reason)
	})

	t.Run("crowded rule", func(t *testing.T) {
		res := extract(t, rule(".theme-mono", nil,
			rule(".shadow-md", []cssom.Decl{
				d("box-shadow", "none"),
				d("color", "black"),
				d("background", "white"),
				d("border", "0"),
			}),
		))
		require.Len(t, res.Overrides, 1)
		assert.Equal(t, tokens.Complex, res.Overrides[0].Complexity)
		assert.Equal(t, "rule declares more than 3 properties", res.Overrides[0].Reason)
	})

	t.Run("dynamic value", func(t *testing.T) {
		res := extract(t, rule(".theme-mono", nil,
			rule(".text-lg", []cssom.Decl{d("font-size", "calc(1rem + 1px)")}),
		))
		require.Len(t, res.Overrides, 1)
		assert.Equal(t, tokens.Complex, res.Overrides[0].Complexity)
		assert.Equal(t, "value contains a dynamic function call", res.Overrides[0].Reason)
	})

	t.Run("literal declarations on the variant block itself", func(t *testing.T) {
		res := extract(t, rule(".theme-mono", []cssom.Decl{
			d("--color-primary", "black"),
			d("z-index", "10"),
		}))
		require.Len(t, res.Overrides, 1)
		assert.Equal(t, ".theme-mono", res.Overrides[0].Selector)
		assert.Equal(t, "z-index", res.Overrides[0].Property)
	})
}

func TestExtractSelfReferenceDrop(t *testing.T) {
	res := extract(t, atRule("theme", "", []cssom.Decl{
		d("--color-primary", "var(--color-primary, #3b82f6)"),
		d("--color-accent", "var(--color-accent)"),
		d("--color-info", "var(--color-primary)"),
		d("--spacing-4", "calc(var(--spacing-4) + 1px)"),
	}))

	// Bare self-references drop; embedded ones survive for the analyzer.
	require.Len(t, res.Declarations, 2)
	assert.Equal(t, "--color-info", res.Declarations[0].Name)
	assert.Equal(t, "--spacing-4", res.Declarations[1].Name)
}

func TestExtractKeyframes(t *testing.T) {
	spin := atRule("keyframes", "spin", nil)
	spin.Raw = "{ to { transform: rotate(360deg) } }"
	pulse := atRule("keyframes", "pulse", nil)
	pulse.Raw = "{ 50% { opacity: .5 } }"
	webkit := atRule("-webkit-keyframes", "spin", nil)
	webkit.Raw = "{ to { transform: rotate(360deg) } }"

	res := extract(t,
		atRule("theme", "", []cssom.Decl{d("--animate-spin", "spin 1s linear infinite")}, spin),
		pulse,
		rule(".theme-mono", nil, webkit),
	)

	require.Len(t, res.Keyframes, 3)
	assert.Equal(t, "spin", res.Keyframes[0].Name)
	assert.Equal(t, "{ to { transform: rotate(360deg) } }", res.Keyframes[0].Raw)
	assert.Equal(t, "pulse", res.Keyframes[1].Name)
	assert.Equal(t, "spin", res.Keyframes[2].Name)
}

func TestExtractNestedMedia(t *testing.T) {
	res := extract(t, rule(".theme-dark",
		[]cssom.Decl{d("--color-primary", "white")},
		atRule("media", "(prefers-contrast: more)", nil,
			rule(":root", []cssom.Decl{d("--color-primary", "yellow")}),
		),
	))

	require.Len(t, res.Variants, 2)
	assert.Equal(t, "dark.more", res.Variants[1].Name)
	assert.Equal(t, ".theme-dark.more", res.Variants[1].Selector)
	assert.Equal(t, []string{"dark"}, res.Variants[1].Ancestors)

	require.Len(t, res.Declarations, 2)
	assert.Equal(t, "dark.more", res.Declarations[1].Variant)
}

func TestExtractIgnoresUnknownAtRules(t *testing.T) {
	res := extract(t,
		atRule("layer", "utilities", []cssom.Decl{d("--color-primary", "red")}),
		atRule("media", "print", nil,
			rule(":root", []cssom.Decl{d("--color-primary", "black")}),
		),
	)
	assert.Empty(t, res.Declarations)
	assert.Empty(t, res.Variants)
}

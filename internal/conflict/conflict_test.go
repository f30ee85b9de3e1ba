package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cte/internal/theme"
	"bennypowers.dev/cte/internal/tokens"
)

func variantTheme(selector string, populate func(*theme.Theme)) theme.VariantTheme {
	t := theme.New()
	if populate != nil {
		populate(t)
	}
	return theme.VariantTheme{Selector: selector, Theme: t}
}

func TestDetect(t *testing.T) {
	t.Run("reports a shadowed scalar value", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"mono": variantTheme(".theme-mono", func(th *theme.Theme) {
				th.Set(theme.GroupRadius, "lg", theme.Scalar("1rem"))
			}),
		}
		overrides := []tokens.RuleOverride{{
			Selector:         ".rounded-lg",
			Property:         "border-radius",
			Value:            "0",
			VariantName:      "mono",
			OriginalSelector: ".theme-mono",
			Complexity:       tokens.Simple,
		}}

		conflicts := Detect(overrides, variants)
		require.Len(t, conflicts, 1)
		c := conflicts[0]
		assert.Equal(t, "mono", c.VariantName)
		assert.Equal(t, "borderRadius", c.ThemeProperty)
		assert.Equal(t, "lg", c.ThemeKey)
		assert.Equal(t, "1rem", c.VariableValue)
		assert.Equal(t, "0", c.RuleValue)
		assert.Equal(t, ".rounded-lg", c.RuleSelector)
		assert.True(t, c.CanResolve)
		assert.Equal(t, tokens.ConfidenceHigh, c.Confidence)
	})

	t.Run("grades matching units high", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"dark": variantTheme(".theme-dark", func(th *theme.Theme) {
				th.Set(theme.GroupTracking, "wide", theme.Scalar("0.025em"))
			}),
		}
		overrides := []tokens.RuleOverride{{
			Selector:    ".tracking-wide",
			Property:    "letter-spacing",
			Value:       "0.05em",
			VariantName: "dark",
			Complexity:  tokens.Simple,
		}}

		conflicts := Detect(overrides, variants)
		require.Len(t, conflicts, 1)
		assert.Equal(t, tokens.ConfidenceHigh, conflicts[0].Confidence)
	})

	t.Run("grades differing units medium", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"dark": variantTheme(".theme-dark", func(th *theme.Theme) {
				th.Set(theme.GroupTracking, "wide", theme.Scalar("0.025em"))
			}),
		}
		overrides := []tokens.RuleOverride{{
			Selector:    ".tracking-wide",
			Property:    "letter-spacing",
			Value:       "2px",
			VariantName: "dark",
			Complexity:  tokens.Simple,
		}}

		conflicts := Detect(overrides, variants)
		require.Len(t, conflicts, 1)
		assert.Equal(t, tokens.ConfidenceMedium, conflicts[0].Confidence)
		assert.True(t, conflicts[0].CanResolve)
	})

	t.Run("grades complex rules low and unresolvable", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"dark": variantTheme(".theme-dark", func(th *theme.Theme) {
				th.Set(theme.GroupOpacity, "50", theme.Scalar("0.5"))
			}),
		}
		overrides := []tokens.RuleOverride{{
			Selector:    ".opacity-50",
			Property:    "opacity",
			Value:       "0.4",
			VariantName: "dark",
			Complexity:  tokens.Complex,
			Reason:      "selector contains a pseudo-class or pseudo-element",
		}}

		conflicts := Detect(overrides, variants)
		require.Len(t, conflicts, 1)
		assert.Equal(t, tokens.ConfidenceLow, conflicts[0].Confidence)
		assert.False(t, conflicts[0].CanResolve)
	})

	t.Run("skips unmapped properties and selectors", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"dark": variantTheme(".theme-dark", func(th *theme.Theme) {
				th.Set(theme.GroupRadius, "lg", theme.Scalar("1rem"))
			}),
		}
		overrides := []tokens.RuleOverride{
			{Selector: ".hero", Property: "color", Value: "red", VariantName: "dark", Complexity: tokens.Simple},
			{Selector: ".hero", Property: "border-radius", Value: "0", VariantName: "dark", Complexity: tokens.Simple},
		}

		assert.Empty(t, Detect(overrides, variants))
	})

	t.Run("skips composite theme values", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"dark": variantTheme(".theme-dark", func(th *theme.Theme) {
				th.Set(theme.GroupFontSize, "lg", theme.FontSize{Size: "1.125rem", LineHeight: "1.75rem"})
			}),
		}
		overrides := []tokens.RuleOverride{{
			Selector:    ".text-lg",
			Property:    "font-size",
			Value:       "2rem",
			VariantName: "dark",
			Complexity:  tokens.Simple,
		}}

		assert.Empty(t, Detect(overrides, variants))
	})

	t.Run("skips keys absent from the theme", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"dark": variantTheme(".theme-dark", nil),
		}
		overrides := []tokens.RuleOverride{{
			Selector:    ".rounded-xl",
			Property:    "border-radius",
			Value:       "0",
			VariantName: "dark",
			Complexity:  tokens.Simple,
		}}

		assert.Empty(t, Detect(overrides, variants))
	})

	t.Run("falls back to selector matching", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"dark": variantTheme(`[data-theme="dark"]`, func(th *theme.Theme) {
				th.Set(theme.GroupZIndex, "10", theme.Scalar("10"))
			}),
		}
		overrides := []tokens.RuleOverride{{
			Selector:         ".z-10",
			Property:         "z-index",
			Value:            "20",
			OriginalSelector: `[data-theme="dark"]`,
			Complexity:       tokens.Simple,
		}}

		conflicts := Detect(overrides, variants)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "dark", conflicts[0].VariantName)
	})

	t.Run("strips pseudo suffixes when extracting keys", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"dark": variantTheme(".theme-dark", func(th *theme.Theme) {
				th.Set(theme.GroupRadius, "lg", theme.Scalar("1rem"))
			}),
		}
		overrides := []tokens.RuleOverride{{
			Selector:    ".rounded-lg:hover",
			Property:    "border-radius",
			Value:       "0",
			VariantName: "dark",
			Complexity:  tokens.Complex,
			Reason:      "selector contains a pseudo-class or pseudo-element",
		}}

		conflicts := Detect(overrides, variants)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "lg", conflicts[0].ThemeKey)
		assert.Equal(t, tokens.ConfidenceLow, conflicts[0].Confidence)
	})
}

func TestApplyResolvableConflicts(t *testing.T) {
	t.Run("applies high confidence resolvable conflicts", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"mono": variantTheme(".theme-mono", func(th *theme.Theme) {
				th.Set(theme.GroupRadius, "lg", theme.Scalar("1rem"))
			}),
		}
		conflicts := []tokens.Conflict{{
			VariantName:   "mono",
			ThemeProperty: "borderRadius",
			ThemeKey:      "lg",
			VariableValue: "1rem",
			RuleValue:     "0",
			CanResolve:    true,
			Confidence:    tokens.ConfidenceHigh,
		}}

		applied := ApplyResolvableConflicts(conflicts, variants)
		require.Len(t, applied, 1)

		v, ok := variants["mono"].Theme.Get(theme.GroupRadius, "lg")
		require.True(t, ok)
		assert.Equal(t, theme.Scalar("0"), v)
	})

	t.Run("leaves medium confidence conflicts alone", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"mono": variantTheme(".theme-mono", func(th *theme.Theme) {
				th.Set(theme.GroupTracking, "wide", theme.Scalar("0.025em"))
			}),
		}
		conflicts := []tokens.Conflict{{
			VariantName:   "mono",
			ThemeProperty: "letterSpacing",
			ThemeKey:      "wide",
			RuleValue:     "2px",
			CanResolve:    true,
			Confidence:    tokens.ConfidenceMedium,
		}}

		assert.Empty(t, ApplyResolvableConflicts(conflicts, variants))

		v, ok := variants["mono"].Theme.Get(theme.GroupTracking, "wide")
		require.True(t, ok)
		assert.Equal(t, theme.Scalar("0.025em"), v)
	})

	t.Run("leaves unresolvable conflicts alone", func(t *testing.T) {
		variants := map[string]theme.VariantTheme{
			"mono": variantTheme(".theme-mono", func(th *theme.Theme) {
				th.Set(theme.GroupOpacity, "50", theme.Scalar("0.5"))
			}),
		}
		conflicts := []tokens.Conflict{{
			VariantName:   "mono",
			ThemeProperty: "opacity",
			ThemeKey:      "50",
			RuleValue:     "0.4",
			CanResolve:    false,
			Confidence:    tokens.ConfidenceHigh,
		}}

		assert.Empty(t, ApplyResolvableConflicts(conflicts, variants))
	})

	t.Run("ignores conflicts for missing variants", func(t *testing.T) {
		conflicts := []tokens.Conflict{{
			VariantName:   "gone",
			ThemeProperty: "borderRadius",
			ThemeKey:      "lg",
			RuleValue:     "0",
			CanResolve:    true,
			Confidence:    tokens.ConfidenceHigh,
		}}

		assert.Empty(t, ApplyResolvableConflicts(conflicts, map[string]theme.VariantTheme{}))
	})
}

func TestUnit(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"1rem", "rem"},
		{"1.125rem", "rem"},
		{"-0.5em", "em"},
		{".5em", "em"},
		{"100%", "%"},
		{"0", ""},
		{"700", ""},
		{"#fff", ""},
		{"0 4px 6px rgb(0 0 0 / 0.1)", ""},
		{"cubic-bezier(0.2, 0, 0, 1)", ""},
		{" 2PX ", "px"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, unit(tc.value), "unit(%q)", tc.value)
	}
}

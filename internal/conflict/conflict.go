// Package conflict cross-references the literal style rules found inside
// variant blocks against the variant themes built from custom properties.
// A rule that targets a utility class whose key also exists in the theme
// is shadowing a token; depending on the rule's complexity and how its
// value compares to the token's, the conflict may be safe to fold back
// into the theme automatically.
package conflict

import (
	"regexp"
	"sort"
	"strings"

	"bennypowers.dev/cte/internal/log"
	"bennypowers.dev/cte/internal/namespace"
	"bennypowers.dev/cte/internal/theme"
	"bennypowers.dev/cte/internal/tokens"
)

// unitPattern matches a single numeric value with an optional trailing
// unit. Values that are not a lone number (shadows, colors, function
// calls) carry no unit.
var unitPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)([a-zA-Z%]+)?$`)

// Detect reports one Conflict per rule override that shadows a scalar
// theme value, in override order. Overrides whose property or selector
// maps to no theme slot are skipped, as are slots holding composite
// values.
func Detect(overrides []tokens.RuleOverride, variants map[string]theme.VariantTheme) []tokens.Conflict {
	var conflicts []tokens.Conflict
	for _, o := range overrides {
		rule, ok := namespace.RuleFor(o.Property)
		if !ok {
			continue
		}
		key, ok := rule.Key(o.Selector)
		if !ok {
			continue
		}
		name, vt, ok := locate(variants, o)
		if !ok {
			log.Debug("no variant theme for rule %q under %q", o.Selector, o.OriginalSelector)
			continue
		}
		value, ok := vt.Theme.Get(rule.Group, key)
		if !ok {
			continue
		}
		scalar, ok := value.(theme.Scalar)
		if !ok {
			continue
		}
		conflicts = append(conflicts, tokens.Conflict{
			VariantName:   name,
			ThemeProperty: string(rule.Group),
			ThemeKey:      key,
			VariableValue: string(scalar),
			RuleValue:     o.Value,
			RuleSelector:  o.Selector,
			CanResolve:    o.Complexity == tokens.Simple,
			Confidence:    confidence(o.Complexity, string(scalar), o.Value),
		})
	}
	return conflicts
}

// ApplyResolvableConflicts writes the rule value over the theme value for
// every conflict that is both resolvable and high confidence, returning
// the conflicts it applied. Medium-confidence conflicts stay resolvable
// on paper but are never applied here; they are surfaced for review.
func ApplyResolvableConflicts(conflicts []tokens.Conflict, variants map[string]theme.VariantTheme) []tokens.Conflict {
	var applied []tokens.Conflict
	for _, c := range conflicts {
		if !c.CanResolve || c.Confidence != tokens.ConfidenceHigh {
			continue
		}
		vt, ok := variants[c.VariantName]
		if !ok {
			continue
		}
		if vt.Theme.SetPath([]string{c.ThemeProperty, c.ThemeKey}, c.RuleValue, false) {
			applied = append(applied, c)
		} else {
			log.Debug("conflict on %s.%s no longer resolvable for variant %s",
				c.ThemeProperty, c.ThemeKey, c.VariantName)
		}
	}
	return applied
}

// locate finds the variant theme an override belongs to, preferring the
// recorded variant name and falling back to selector equality.
func locate(variants map[string]theme.VariantTheme, o tokens.RuleOverride) (string, theme.VariantTheme, bool) {
	if vt, ok := variants[o.VariantName]; ok {
		return o.VariantName, vt, true
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if variants[name].Selector == o.OriginalSelector {
			return name, variants[name], true
		}
	}
	return "", theme.VariantTheme{}, false
}

// confidence grades a conflict. Complex rules are always low. Simple
// rules are high when the two values agree on units, where a unitless
// value (zero, a keyword, a composite value) agrees with anything;
// two present units that differ grade medium.
func confidence(c tokens.Complexity, themeValue, ruleValue string) tokens.Confidence {
	if c == tokens.Complex {
		return tokens.ConfidenceLow
	}
	a, b := unit(themeValue), unit(ruleValue)
	if a == b || a == "" || b == "" {
		return tokens.ConfidenceHigh
	}
	return tokens.ConfidenceMedium
}

// unit extracts the trailing unit of a lone numeric value.
func unit(value string) string {
	m := unitPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

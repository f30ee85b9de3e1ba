package extract

import (
	"fmt"
	"regexp"
	"strings"

	"bennypowers.dev/cte/internal/tokens"
)

// maxSimpleProps is the largest declaration count a rule may have and
// still classify as Simple.
const maxSimpleProps = 3

// Variant identifiers derive from, in order: an attribute value, a
// .theme-<name> class, or a media feature value.
var (
	attrValuePattern    = regexp.MustCompile(`\[[^\]=]+=\s*(?:"([^"]+)"|'([^']+)'|([^"'\]\s]+))\s*\]`)
	themeClassPattern   = regexp.MustCompile(`\.theme-([A-Za-z0-9_-]+)`)
	mediaFeaturePattern = regexp.MustCompile(`\(\s*[A-Za-z-]+\s*:\s*([^)]+)\)`)
)

// deriveVariant derives a camelCased variant identifier segment from a
// rule selector. The second return is false when no pattern matches; such
// nodes are ignored.
func (e *Extractor) deriveVariant(selector string) (string, bool) {
	if m := attrValuePattern.FindStringSubmatch(selector); m != nil {
		for _, group := range m[1:] {
			if group != "" {
				return e.caches.CamelCase(group), true
			}
		}
	}
	if m := themeClassPattern.FindStringSubmatch(selector); m != nil {
		return e.caches.CamelCase(m[1]), true
	}
	return "", false
}

// mediaVariant derives a variant identifier segment from media query
// params, using the first feature's value.
func (e *Extractor) mediaVariant(params string) (string, bool) {
	if m := mediaFeaturePattern.FindStringSubmatch(params); m != nil {
		return e.caches.CamelCase(strings.TrimSpace(m[1])), true
	}
	return "", false
}

// isRootSelector reports whether the selector is :root, alone or as a
// member of a comma-separated list.
func isRootSelector(selector string) bool {
	for _, part := range strings.Split(selector, ",") {
		if strings.TrimSpace(part) == ":root" {
			return true
		}
	}
	return false
}

// compositeSelector appends the child identifier as a class modifier onto
// the first segment of each comma-separated parent selector:
//
//	[data-theme="dark"] .x, .y  +  red  →  [data-theme="dark"].red .x, .y.red
//
// Media-derived parents take the child class as a descendant instead.
func compositeSelector(parent, child string) string {
	if strings.HasPrefix(parent, "@media") {
		return parent + " ." + child
	}
	parts := strings.Split(parent, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		head, rest, found := strings.Cut(part, " ")
		if found {
			parts[i] = head + "." + child + " " + rest
		} else {
			parts[i] = head + "." + child
		}
	}
	return strings.Join(parts, ", ")
}

// dynamicFuncs are value function heads that make a rule value dynamic.
var dynamicFuncs = []string{"var(", "calc(", "clamp(", "min(", "max(", "env(", "color-mix("}

func hasDynamicValue(value string) bool {
	for _, fn := range dynamicFuncs {
		if strings.Contains(value, fn) {
			return true
		}
	}
	return false
}

// classify grades a literal rule declaration. Complex rules cannot be
// applied back into a theme mechanically; the reason names the first
// disqualifier found.
func classify(selector, value string, propsInRule int, media string) (tokens.Complexity, string) {
	sel := strings.TrimSpace(selector)
	switch {
	case strings.Contains(sel, ":"):
		return tokens.Complex, "selector contains a pseudo-class or pseudo-element"
	case strings.ContainsAny(sel, " >+~"):
		return tokens.Complex, "selector contains a combinator"
	case propsInRule > maxSimpleProps:
		return tokens.Complex, fmt.Sprintf("rule declares more than %d properties", maxSimpleProps)
	case media != "":
		return tokens.Complex, "rule is nested inside a conditional block"
	case hasDynamicValue(value):
		return tokens.Complex, "value contains a dynamic function call"
	}
	return tokens.Simple, ""
}

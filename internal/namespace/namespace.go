// Package namespace holds the static mapping tables between stylesheet
// names and theme property groups. Custom property names split into a
// namespace and key: --color-primary-500 selects the colors group with key
// "primary-500", and two-segment namespaces bind more tightly than their
// first segment, so --font-weight-bold lands in fontWeight, not
// fontFamily. A second table maps literal CSS properties onto the groups
// they can shadow, for rule override extraction and conflict detection.
package namespace

import (
	"fmt"
	"strings"

	"bennypowers.dev/cte/internal/theme"
	"bennypowers.dev/cte/internal/tokens"
)

// Parsed is the namespace decomposition of a custom property name.
type Parsed struct {
	// Namespace is the matched namespace segment(s), without the leading
	// dashes (e.g. "color", "font-weight").
	Namespace string
	// Group is the theme property group the namespace selects.
	Group theme.GroupName
	// Key is the remainder of the name after the namespace (e.g.
	// "primary-500", "lg--line-height").
	Key string
	// Deprecated marks legacy namespaces kept for compatibility.
	Deprecated bool
	// Replacement is the modern namespace for a deprecated one.
	Replacement string
}

var singleWord = map[string]theme.GroupName{
	"color":      theme.GroupColors,
	"spacing":    theme.GroupSpacing,
	"font":       theme.GroupFontFamily,
	"text":       theme.GroupFontSize,
	"tracking":   theme.GroupTracking,
	"leading":    theme.GroupLeading,
	"radius":     theme.GroupRadius,
	"shadow":     theme.GroupShadow,
	"blur":       theme.GroupBlur,
	"opacity":    theme.GroupOpacity,
	"breakpoint": theme.GroupScreens,
	"container":  theme.GroupContainers,
	"ease":       theme.GroupEase,
	"duration":   theme.GroupDuration,
	"animate":    theme.GroupAnimation,
	"aspect":     theme.GroupAspect,
	"z":          theme.GroupZIndex,
}

var multiWord = map[string]theme.GroupName{
	"font-weight":  theme.GroupFontWeight,
	"drop-shadow":  theme.GroupDropShadow,
	"border-width": theme.GroupBorderWidth,
}

// legacy namespaces still map, but flag a deprecation pointing at the
// modern short form.
var legacy = map[string]struct {
	group       theme.GroupName
	replacement string
}{
	"font-size":      {theme.GroupFontSize, "text"},
	"line-height":    {theme.GroupLeading, "leading"},
	"letter-spacing": {theme.GroupTracking, "tracking"},
	"border-radius":  {theme.GroupRadius, "radius"},
	"box-shadow":     {theme.GroupShadow, "shadow"},
}

// Parse decomposes a custom property name into namespace, group and key.
// The second return is false for names outside every namespace, names
// without the custom property prefix, and bare namespace names with no
// key. A matched two-segment namespace commits: --font-weight alone does
// not fall back to the font namespace.
func Parse(name string) (Parsed, bool) {
	rest, ok := strings.CutPrefix(name, tokens.Prefix)
	if !ok || rest == "" {
		return Parsed{}, false
	}

	if two, key, ok := cutSegments(rest, 2); ok {
		if group, found := multiWord[two]; found {
			return commit(two, group, key, "")
		}
		if entry, found := legacy[two]; found {
			return commit(two, entry.group, key, entry.replacement)
		}
	}
	one, key, _ := cutSegments(rest, 1)
	if group, found := singleWord[one]; found {
		return commit(one, group, key, "")
	}
	return Parsed{}, false
}

func commit(ns string, group theme.GroupName, key, replacement string) (Parsed, bool) {
	if key == "" {
		return Parsed{}, false
	}
	return Parsed{
		Namespace:   ns,
		Group:       group,
		Key:         key,
		Deprecated:  replacement != "",
		Replacement: replacement,
	}, true
}

// cutSegments splits s after its first n hyphen-separated segments,
// returning the head, the remainder past the separating hyphen, and
// whether s has at least n segments.
func cutSegments(s string, n int) (head, tail string, ok bool) {
	end := 0
	for i := 0; i < n; i++ {
		j := strings.IndexByte(s[end:], '-')
		if j < 0 {
			if i == n-1 {
				return s, "", true
			}
			return "", "", false
		}
		end += j + 1
	}
	return s[:end-1], s[end:], true
}

// DeprecationMessage renders the warning text for a deprecated namespace.
func (p Parsed) DeprecationMessage() string {
	if !p.Deprecated {
		return ""
	}
	return fmt.Sprintf("%s%s-* is deprecated, use %s%s-* instead",
		tokens.Prefix, p.Namespace, tokens.Prefix, p.Replacement)
}

// ReplacementName returns the modern spelling of a deprecated property
// name (e.g. --box-shadow-md becomes --shadow-md).
func (p Parsed) ReplacementName() string {
	if !p.Deprecated {
		return ""
	}
	return tokens.Prefix + p.Replacement + "-" + p.Key
}

// Foreign reports whether a custom property name belongs to an external
// framework's reserved namespace rather than this system's theme
// conventions.
func Foreign(name string) bool {
	rest, ok := strings.CutPrefix(name, tokens.Prefix)
	if !ok {
		return false
	}
	return strings.HasPrefix(rest, "tw-") || strings.Contains(rest, "-tw-")
}

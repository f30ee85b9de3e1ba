package namespace

import (
	"strings"

	"bennypowers.dev/cte/internal/theme"
)

// PropertyRule maps a literal CSS property onto the theme group it can
// shadow, plus the utility-class prefix whose suffix names the theme key.
type PropertyRule struct {
	// Group is the theme property group the CSS property writes to.
	Group theme.GroupName

	// ClassPrefix is the utility-class selector prefix (e.g. ".rounded-")
	// whose remainder is the theme key.
	ClassPrefix string
}

var propertyRules = map[string]PropertyRule{
	"border-radius":              {theme.GroupRadius, ".rounded-"},
	"font-size":                  {theme.GroupFontSize, ".text-"},
	"box-shadow":                 {theme.GroupShadow, ".shadow-"},
	"letter-spacing":             {theme.GroupTracking, ".tracking-"},
	"line-height":                {theme.GroupLeading, ".leading-"},
	"transition-timing-function": {theme.GroupEase, ".ease-"},
	"opacity":                    {theme.GroupOpacity, ".opacity-"},
	"z-index":                    {theme.GroupZIndex, ".z-"},
}

// RuleFor returns the conflict rule for a literal CSS property. The second
// return is false for properties outside the table; such rules never
// conflict with theme values.
func RuleFor(property string) (PropertyRule, bool) {
	r, ok := propertyRules[property]
	return r, ok
}

// Key extracts the theme key from a utility-class selector. The key is the
// identifier run following the class prefix, so ".rounded-lg" and
// ".rounded-lg:hover" both yield "lg" for the border-radius rule. The
// second return is false when the selector does not start with the
// rule's class prefix.
func (r PropertyRule) Key(selector string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(selector), r.ClassPrefix)
	if !ok {
		return "", false
	}
	end := len(rest)
	for i := 0; i < len(rest); i++ {
		if !isKeyByte(rest[i]) {
			end = i
			break
		}
	}
	if end == 0 {
		return "", false
	}
	return rest[:end], true
}

func isKeyByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_':
		return true
	}
	return false
}

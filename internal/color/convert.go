// Package color parses and renders CSS color values. The pipeline treats
// colors as opaque strings; this package is for the edges that need more:
// the report normalizes swatch values for display, and the defaults
// provider renders structured token colors (color space + components)
// into CSS strings.
package color

import (
	"fmt"
	"math"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// Parse parses any CSS color form (hex, rgb, hsl, named colors, and the
// rest). The second return is false for values that are not a color.
func Parse(value string) (csscolorparser.Color, bool) {
	parsed, err := csscolorparser.Parse(strings.TrimSpace(value))
	if err != nil {
		return csscolorparser.Color{}, false
	}
	return parsed, true
}

// Normalize renders a color value as a hex string. Non-color values
// return false.
func Normalize(value string) (string, bool) {
	c, ok := Parse(value)
	if !ok {
		return "", false
	}
	return c.HexString(), true
}

// Equivalent reports whether two values parse to the same color
// ("white" and "#ffffff" are equivalent). False when either is not a
// color.
func Equivalent(a, b string) bool {
	ca, ok := Parse(a)
	if !ok {
		return false
	}
	cb, ok := Parse(b)
	if !ok {
		return false
	}
	return ca.HexString() == cb.HexString()
}

// FromComponents renders a structured color (a color space name plus
// component values, as design token files carry them) into a CSS string.
// A non-empty hex short-circuits. Unknown color spaces render through
// the CSS color() function so downstream consumers can still interpret
// them. Returns "" for component lists too short to be a color.
func FromComponents(space string, components []any, alpha float64, hex string) string {
	if hex != "" {
		return hex
	}
	if len(components) < 3 {
		return ""
	}
	switch strings.ToLower(space) {
	case "srgb":
		return srgbString(components, alpha)
	case "hsl":
		return angleString("hsl", components, alpha, "%.1f %.1f%% %.1f%%")
	case "hwb":
		return angleString("hwb", components, alpha, "%.1f %.1f%% %.1f%%")
	case "oklch":
		return angleString("oklch", components, alpha, "%.2f %.2f %.1f")
	case "oklab":
		return angleString("oklab", components, alpha, "%.2f %.2f %.2f")
	case "lch":
		return angleString("lch", components, alpha, "%.1f %.1f %.1f")
	case "lab":
		return angleString("lab", components, alpha, "%.1f %.1f %.1f")
	default:
		return colorFunction(strings.ToLower(space), components, alpha)
	}
}

// srgbString renders sRGB components as hex when opaque, rgba otherwise.
func srgbString(components []any, alpha float64) string {
	r := clamp01(componentFloat(components[0]))
	g := clamp01(componentFloat(components[1]))
	b := clamp01(componentFloat(components[2]))

	ri := int(math.Round(r * 255))
	gi := int(math.Round(g * 255))
	bi := int(math.Round(b * 255))

	if alpha >= 0.999 {
		return fmt.Sprintf("#%02x%02x%02x", ri, gi, bi)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", ri, gi, bi, alpha)
}

// angleString renders a three-component functional color, appending
// alpha with the slash syntax when translucent.
func angleString(fn string, components []any, alpha float64, layout string) string {
	body := fmt.Sprintf(layout,
		componentFloat(components[0]),
		componentFloat(components[1]),
		componentFloat(components[2]))
	if alpha >= 0.999 {
		return fmt.Sprintf("%s(%s)", fn, body)
	}
	return fmt.Sprintf("%s(%s / %.2f)", fn, body, alpha)
}

// colorFunction renders the CSS color() form for wide-gamut and unknown
// color spaces.
func colorFunction(space string, components []any, alpha float64) string {
	c0 := componentString(components[0])
	c1 := componentString(components[1])
	c2 := componentString(components[2])
	if alpha >= 0.999 {
		return fmt.Sprintf("color(%s %s %s %s)", space, c0, c1, c2)
	}
	return fmt.Sprintf("color(%s %s %s %s / %.2f)", space, c0, c1, c2, alpha)
}

// componentFloat reads a numeric component; the "none" keyword reads as
// zero.
func componentFloat(component any) float64 {
	switch v := component.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// componentString preserves the "none" keyword for color() components.
func componentString(component any) string {
	switch v := component.(type) {
	case float64:
		return fmt.Sprintf("%.4f", v)
	case int:
		return fmt.Sprintf("%d", v)
	case string:
		return v
	}
	return "0"
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Package theme defines the canonical resolved value tree produced by the
// extraction pipeline: a fixed set of property groups, each mapping keys to
// scalar values, color scales, composite font sizes, or raw keyframe blocks.
package theme

// GroupName identifies one of the theme's property groups.
type GroupName string

// The fixed property groups. Every constructed Theme carries all of them,
// possibly empty.
const (
	GroupColors      GroupName = "colors"
	GroupSpacing     GroupName = "spacing"
	GroupFontFamily  GroupName = "fontFamily"
	GroupFontSize    GroupName = "fontSize"
	GroupFontWeight  GroupName = "fontWeight"
	GroupTracking    GroupName = "letterSpacing"
	GroupLeading     GroupName = "lineHeight"
	GroupRadius      GroupName = "borderRadius"
	GroupBorderWidth GroupName = "borderWidth"
	GroupShadow      GroupName = "boxShadow"
	GroupDropShadow  GroupName = "dropShadow"
	GroupBlur        GroupName = "blur"
	GroupOpacity     GroupName = "opacity"
	GroupScreens     GroupName = "screens"
	GroupContainers  GroupName = "containers"
	GroupEase        GroupName = "transitionTimingFunction"
	GroupDuration    GroupName = "transitionDuration"
	GroupAnimation   GroupName = "animation"
	GroupKeyframes   GroupName = "keyframes"
	GroupAspect      GroupName = "aspectRatio"
	GroupZIndex      GroupName = "zIndex"
)

// GroupNames lists every property group in canonical output order.
var GroupNames = []GroupName{
	GroupColors,
	GroupSpacing,
	GroupFontFamily,
	GroupFontSize,
	GroupFontWeight,
	GroupTracking,
	GroupLeading,
	GroupRadius,
	GroupBorderWidth,
	GroupShadow,
	GroupDropShadow,
	GroupBlur,
	GroupOpacity,
	GroupScreens,
	GroupContainers,
	GroupEase,
	GroupDuration,
	GroupAnimation,
	GroupKeyframes,
	GroupAspect,
	GroupZIndex,
}

// Value is a theme leaf: a Scalar, a color Scale, a composite FontSize, or
// a raw Keyframes block.
type Value interface {
	value()
}

// Scalar is a plain string value.
type Scalar string

// Scale is a color scale keyed by scale variant (e.g. "50", "500",
// "900-soft"). Purely numeric keys sort numerically on output.
type Scale map[string]string

// FontSize is a font-size entry with an optional paired line height.
type FontSize struct {
	Size       string `json:"size"`
	LineHeight string `json:"lineHeight,omitempty"`
}

// Keyframes is a raw @keyframes block body carried through verbatim.
type Keyframes string

func (Scalar) value()    {}
func (Scale) value()     {}
func (FontSize) value()  {}
func (Keyframes) value() {}

// Group is one property group's key→value mapping.
type Group map[string]Value

// Theme is the fully resolved, namespaced value tree.
type Theme struct {
	groups map[GroupName]Group
}

// New returns a Theme with every property group materialized and empty.
func New() *Theme {
	t := &Theme{groups: make(map[GroupName]Group, len(GroupNames))}
	for _, name := range GroupNames {
		t.groups[name] = Group{}
	}
	return t
}

// Group returns the named property group. The second return is false for
// names outside the fixed group set.
func (t *Theme) Group(name GroupName) (Group, bool) {
	g, ok := t.groups[name]
	return g, ok
}

// Set places a value at group/key. Unknown group names are ignored.
func (t *Theme) Set(name GroupName, key string, v Value) {
	if g, ok := t.groups[name]; ok {
		g[key] = v
	}
}

// Get returns the value at group/key.
func (t *Theme) Get(name GroupName, key string) (Value, bool) {
	g, ok := t.groups[name]
	if !ok {
		return nil, false
	}
	v, ok := g[key]
	return v, ok
}

// Len returns the total number of entries across all groups.
func (t *Theme) Len() int {
	n := 0
	for _, g := range t.groups {
		n += len(g)
	}
	return n
}

// Clone returns a deep copy of the theme.
func (t *Theme) Clone() *Theme {
	out := New()
	for name, g := range t.groups {
		for k, v := range g {
			out.groups[name][k] = cloneValue(v)
		}
	}
	return out
}

func cloneValue(v Value) Value {
	if s, ok := v.(Scale); ok {
		c := make(Scale, len(s))
		for k, vv := range s {
			c[k] = vv
		}
		return c
	}
	// Scalar, FontSize and Keyframes are value types.
	return v
}

// VariantTheme pairs a variant's activating selector with its resolved
// theme.
type VariantTheme struct {
	Selector string
	Theme    *Theme
}

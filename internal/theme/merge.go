package theme

// Merge layers overlay on top of base and returns a new theme. Neither
// argument is modified. Overlay values win per key; when both sides hold a
// scale for the same key the scales merge per variant with overlay winning.
func Merge(base, overlay *Theme) *Theme {
	switch {
	case base == nil && overlay == nil:
		return New()
	case base == nil:
		return overlay.Clone()
	case overlay == nil:
		return base.Clone()
	}
	out := base.Clone()
	for _, name := range GroupNames {
		dst := out.groups[name]
		for key, ov := range overlay.groups[name] {
			os, ovIsScale := ov.(Scale)
			bs, baseIsScale := dst[key].(Scale)
			if ovIsScale && baseIsScale {
				for variant, v := range os {
					bs[variant] = v
				}
				continue
			}
			dst[key] = cloneValue(ov)
		}
	}
	return out
}

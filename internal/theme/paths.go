package theme

// Lookup navigates the theme by path components: group, key, and for
// composite leaves an optional subkey (a scale variant, or "size"/
// "lineHeight" on a font size). Returns false when any component is
// missing.
func (t *Theme) Lookup(path []string) (Value, bool) {
	if len(path) < 2 || len(path) > 3 {
		return nil, false
	}
	g, ok := t.groups[GroupName(path[0])]
	if !ok {
		return nil, false
	}
	v, ok := g[path[1]]
	if !ok {
		return nil, false
	}
	if len(path) == 2 {
		return v, true
	}
	switch leaf := v.(type) {
	case Scale:
		if s, ok := leaf[path[2]]; ok {
			return Scalar(s), true
		}
	case FontSize:
		switch path[2] {
		case "size":
			return Scalar(leaf.Size), true
		case "lineHeight":
			if leaf.LineHeight != "" {
				return Scalar(leaf.LineHeight), true
			}
		}
	}
	return nil, false
}

// SetPath overwrites the leaf at path with value, reporting whether the
// write happened. Paths never create new structure: every intermediate and
// the final key must already exist. Without force only scalar leaves (and
// existing subkeys of composite leaves) are overwritten; force additionally
// allows replacing a whole composite leaf with a scalar.
func (t *Theme) SetPath(path []string, value string, force bool) bool {
	if len(path) < 2 || len(path) > 3 {
		return false
	}
	g, ok := t.groups[GroupName(path[0])]
	if !ok {
		return false
	}
	cur, ok := g[path[1]]
	if !ok {
		return false
	}

	if len(path) == 2 {
		if _, isScalar := cur.(Scalar); isScalar || force {
			g[path[1]] = Scalar(value)
			return true
		}
		return false
	}

	switch leaf := cur.(type) {
	case Scale:
		if _, ok := leaf[path[2]]; !ok {
			return false
		}
		leaf[path[2]] = value
		return true
	case FontSize:
		switch path[2] {
		case "size":
			leaf.Size = value
			g[path[1]] = leaf
			return true
		case "lineHeight":
			if leaf.LineHeight == "" {
				return false
			}
			leaf.LineHeight = value
			g[path[1]] = leaf
			return true
		}
	}
	return false
}

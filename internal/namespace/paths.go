package namespace

import "bennypowers.dev/cte/internal/theme"

// groupNames indexes the theme group identifiers so path vocabulary
// checks are a map probe.
var groupNames = func() map[string]theme.GroupName {
	m := make(map[string]theme.GroupName, len(theme.GroupNames))
	for _, g := range theme.GroupNames {
		m[string(g)] = g
	}
	return m
}()

// canonical maps each group back to the modern namespace that feeds it.
// Legacy namespaces never appear here; keyframes has no namespace at all.
var canonical = func() map[theme.GroupName]string {
	m := make(map[theme.GroupName]string, len(singleWord)+len(multiWord))
	for ns, g := range singleWord {
		m[g] = ns
	}
	for ns, g := range multiWord {
		m[g] = ns
	}
	return m
}()

// GroupFor maps the first segment of a theme path to its group. Both
// vocabularies are accepted: the group identifier itself ("borderRadius")
// and any namespace that feeds it ("radius", "border-radius").
func GroupFor(segment string) (theme.GroupName, bool) {
	if g, ok := groupNames[segment]; ok {
		return g, true
	}
	if g, ok := singleWord[segment]; ok {
		return g, true
	}
	if g, ok := multiWord[segment]; ok {
		return g, true
	}
	if l, ok := legacy[segment]; ok {
		return l.group, true
	}
	return "", false
}

// CanonicalNamespace returns the modern namespace producing a group's
// entries. False for groups no custom property namespace feeds.
func CanonicalNamespace(g theme.GroupName) (string, bool) {
	ns, ok := canonical[g]
	return ns, ok
}

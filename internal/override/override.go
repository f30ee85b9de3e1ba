// Package override applies user-declared theme overrides. A config maps
// target keys (a variant name, a CSS selector fragment, "*" for
// everything, "default"/"base" for the base theme) to dotted paths or
// nested objects ending in a value. Overrides land two ways: entries for
// base-wide targets that want reference resolution inject synthetic
// declarations before the pipeline resolves, everything else overwrites
// theme paths after the themes are built.
package override

import (
	"sort"
	"strconv"
	"strings"

	"bennypowers.dev/cte/internal/log"
	"bennypowers.dev/cte/internal/namespace"
	"bennypowers.dev/cte/internal/theme"
	"bennypowers.dev/cte/internal/tokens"
)

// maxDepth bounds nested override object flattening.
const maxDepth = 10

// Entry is one flattened override: a theme path, the value to write, and
// its flags. Force widens what Apply may overwrite; ResolveVars opts the
// entry into pre-resolution injection when its target allows it.
type Entry struct {
	Path        []string
	Value       string
	Force       bool
	ResolveVars bool
}

// Target groups the entries declared under one config key.
type Target struct {
	Name    string
	Entries []Entry
}

// Set is a parsed override configuration, targets in name order.
type Set struct {
	Targets []Target
}

// Parse normalizes a raw override config (as unmarshalled from JSON or
// YAML) into a Set. Malformed targets and entries are skipped with a
// debug log; Parse never fails.
func Parse(raw map[string]any) *Set {
	s := &Set{}
	for _, name := range sortedKeys(raw) {
		body, ok := raw[name].(map[string]any)
		if !ok {
			log.Debug("override target %q is not an object, ignoring", name)
			continue
		}
		var entries []Entry
		flatten(nil, body, 0, &entries)
		if len(entries) == 0 {
			continue
		}
		s.Targets = append(s.Targets, Target{Name: name, Entries: entries})
	}
	return s
}

// Empty reports whether the set holds no entries.
func (s *Set) Empty() bool {
	return s == nil || len(s.Targets) == 0
}

// InjectionDeclarations synthesizes base-scope declarations for entries
// that participate in reference resolution: base-wide targets ("*",
// "default", "base") with ResolveVars set, on paths a namespace can
// express. Forced entries return in the second slice so the caller can
// append them after the source declarations (they win last-write-wins);
// the rest prepend, acting as defaults the source can shadow.
func (s *Set) InjectionDeclarations() (prepend, appendAfter []tokens.Declaration) {
	if s == nil {
		return nil, nil
	}
	for _, tgt := range s.Targets {
		if !baseWide(tgt.Name) {
			continue
		}
		for _, e := range tgt.Entries {
			if !e.ResolveVars {
				continue
			}
			name, ok := injectionName(e.Path)
			if !ok {
				continue
			}
			d := tokens.Declaration{Name: name, Value: e.Value, Scope: tokens.ScopeBase}
			if e.Force {
				appendAfter = append(appendAfter, d)
			} else {
				prepend = append(prepend, d)
			}
		}
	}
	return prepend, appendAfter
}

// Apply writes every post-resolution entry onto the themes its target
// names, returning how many writes landed. Entries already handled by
// injection are skipped; path misses are no-ops with a debug log.
func (s *Set) Apply(base *theme.Theme, variants map[string]theme.VariantTheme) int {
	if s == nil {
		return 0
	}
	applied := 0
	for _, tgt := range s.Targets {
		for _, e := range tgt.Entries {
			if injected(tgt.Name, e) {
				continue
			}
			path, ok := themePath(e.Path)
			if !ok {
				log.Debug("override path %q names no theme property", strings.Join(e.Path, "."))
				continue
			}
			for _, th := range resolveTargets(tgt.Name, base, variants) {
				if th.SetPath(path, e.Value, e.Force) {
					applied++
				} else {
					log.Debug("override %q skipped for target %q: path not present",
						strings.Join(e.Path, "."), tgt.Name)
				}
			}
		}
	}
	return applied
}

// baseWide reports whether a target names the base theme for injection
// purposes.
func baseWide(name string) bool {
	return name == "*" || name == "default" || name == "base"
}

// injected reports whether an entry is handled by pre-resolution
// injection rather than path application. Keeping the two paths
// exclusive preserves shadowing: a prepended injection the source
// overrode must stay overridden.
func injected(target string, e Entry) bool {
	if !baseWide(target) || !e.ResolveVars {
		return false
	}
	_, ok := injectionName(e.Path)
	return ok
}

// resolveTargets maps a target key to the themes it addresses: "*" is
// the base theme plus every variant, "default"/"base" the base theme,
// an exact variant name that variant, and anything else every variant
// whose selector contains the target as a substring. Unknown targets
// resolve to nothing.
func resolveTargets(name string, base *theme.Theme, variants map[string]theme.VariantTheme) []*theme.Theme {
	switch name {
	case "*":
		out := make([]*theme.Theme, 0, len(variants)+1)
		if base != nil {
			out = append(out, base)
		}
		for _, n := range sortedNames(variants) {
			out = append(out, variants[n].Theme)
		}
		return out
	case "default", "base":
		if base == nil {
			return nil
		}
		return []*theme.Theme{base}
	}
	if vt, ok := variants[name]; ok {
		return []*theme.Theme{vt.Theme}
	}
	var out []*theme.Theme
	for _, n := range sortedNames(variants) {
		if strings.Contains(variants[n].Selector, name) {
			out = append(out, variants[n].Theme)
		}
	}
	return out
}

// themePath normalizes an override path for Theme.SetPath: the first
// segment may be a group identifier or a namespace.
func themePath(path []string) ([]string, bool) {
	g, ok := namespace.GroupFor(path[0])
	if !ok {
		return nil, false
	}
	normalized := make([]string, 0, len(path))
	normalized = append(normalized, string(g))
	normalized = append(normalized, path[1:]...)
	return normalized, true
}

// injectionName derives the custom property a path injects as:
// "color.primary.500" and "colors.primary.500" both become
// "--color-primary-500". Font-size subpaths map onto the companion
// convention, and paths whose group no namespace feeds cannot inject.
func injectionName(path []string) (string, bool) {
	g, ok := namespace.GroupFor(path[0])
	if !ok {
		return "", false
	}
	ns, ok := namespace.CanonicalNamespace(g)
	if !ok {
		return "", false
	}
	rest := path[1:]
	if g == theme.GroupFontSize && len(rest) == 2 {
		switch rest[1] {
		case "size":
			rest = rest[:1]
		case "lineHeight":
			return tokens.Prefix + ns + "-" + rest[0] + "--line-height", true
		}
	}
	return tokens.Prefix + ns + "-" + strings.Join(rest, "-"), true
}

// flatten walks one level of override config, splitting dotted keys and
// recursing into nested objects until a value terminates the path.
func flatten(prefix []string, body map[string]any, depth int, out *[]Entry) {
	if depth > maxDepth {
		log.Debug("override nesting beyond %d levels ignored at %q", maxDepth, strings.Join(prefix, "."))
		return
	}
	for _, key := range sortedKeys(body) {
		path := joinPath(prefix, key)
		switch v := body[key].(type) {
		case map[string]any:
			if raw, ok := v["value"]; ok {
				value, ok := stringValue(raw)
				if !ok {
					log.Debug("override %q has a non-scalar value", strings.Join(path, "."))
					continue
				}
				emit(Entry{
					Path:        path,
					Value:       value,
					Force:       boolField(v, "force", false),
					ResolveVars: boolField(v, "resolveVars", true),
				}, out)
				continue
			}
			flatten(path, v, depth+1, out)
		default:
			value, ok := stringValue(v)
			if !ok {
				log.Debug("override %q has an unsupported value type", strings.Join(path, "."))
				continue
			}
			emit(Entry{Path: path, Value: value, ResolveVars: true}, out)
		}
	}
}

// emit records an entry, dropping paths too short to address a theme
// slot.
func emit(e Entry, out *[]Entry) {
	if len(e.Path) < 2 {
		log.Debug("override path %q is too short", strings.Join(e.Path, "."))
		return
	}
	*out = append(*out, e)
}

// joinPath appends a possibly dotted key onto a path prefix, always into
// fresh backing storage.
func joinPath(prefix []string, key string) []string {
	segments := strings.Split(key, ".")
	path := make([]string, 0, len(prefix)+len(segments))
	path = append(path, prefix...)
	for _, s := range segments {
		if s != "" {
			path = append(path, s)
		}
	}
	return path
}

func stringValue(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	}
	return "", false
}

func boolField(m map[string]any, key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedNames(m map[string]theme.VariantTheme) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

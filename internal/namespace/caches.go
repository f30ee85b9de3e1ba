package namespace

import (
	"github.com/hashicorp/golang-lru/v2"
	"github.com/iancoleman/strcase"
)

// DefaultCacheSize bounds each memo cache when the caller does not pick a
// size.
const DefaultCacheSize = 1024

type parseResult struct {
	parsed Parsed
	ok     bool
}

// Caches memoizes the hot-path string work of a pipeline run: namespace
// parsing and camel-casing. A single Caches value is shared by the
// resolver, extractor and builder of one run; construct a fresh one per
// run rather than sharing across inputs.
type Caches struct {
	camel  *lru.Cache[string, string]
	parsed *lru.Cache[string, parseResult]
}

// NewCaches returns memo caches bounded at size entries each.
// Non-positive sizes fall back to DefaultCacheSize.
func NewCaches(size int) (*Caches, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	camel, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	parsed, err := lru.New[string, parseResult](size)
	if err != nil {
		return nil, err
	}
	return &Caches{camel: camel, parsed: parsed}, nil
}

// Parse is a memoized Parse.
func (c *Caches) Parse(name string) (Parsed, bool) {
	if c == nil {
		return Parse(name)
	}
	if r, ok := c.parsed.Get(name); ok {
		return r.parsed, r.ok
	}
	parsed, ok := Parse(name)
	c.parsed.Add(name, parseResult{parsed: parsed, ok: ok})
	return parsed, ok
}

// CamelCase converts a hyphenated or underscored name to lowerCamelCase,
// memoized. Variant names derive through this ("high-contrast" becomes
// "highContrast").
func (c *Caches) CamelCase(s string) string {
	if c == nil {
		return strcase.ToLowerCamel(s)
	}
	if v, ok := c.camel.Get(s); ok {
		return v
	}
	v := strcase.ToLowerCamel(s)
	c.camel.Add(s, v)
	return v
}

// Package resolve substitutes var() references in declaration values.
// A Context is the name→value lookup visible at one point of the scope
// tree; resolution walks reference chains through it, leaving references
// it cannot resolve in place so later analysis can report them.
package resolve

import (
	"strings"

	"bennypowers.dev/cte/internal/collections"
	"bennypowers.dev/cte/internal/tokens"
)

// maxPasses bounds embedded-reference substitution per value.
const maxPasses = 100

// Context is a resolution scope: the declarations visible to a value,
// flattened into a last-write-wins lookup.
type Context struct {
	lookup map[string]string
}

// BaseContext builds the resolution context of the base theme: defaults
// first, then base and root declarations in source order.
func BaseContext(decls []tokens.Declaration) *Context {
	c := &Context{lookup: make(map[string]string, len(decls))}
	c.layer(decls, func(d tokens.Declaration) bool {
		return d.Scope == tokens.ScopeDefaults
	})
	c.layer(decls, func(d tokens.Declaration) bool {
		return d.Scope == tokens.ScopeBase || d.Scope == tokens.ScopeRoot
	})
	return c
}

// VariantContext builds the resolution context of one variant: the base
// layers, each ancestor variant outermost first, then the variant's own
// declarations.
func VariantContext(decls []tokens.Declaration, name string, ancestors []string) *Context {
	c := BaseContext(decls)
	for _, ancestor := range ancestors {
		c.layer(decls, func(d tokens.Declaration) bool {
			return d.Scope == tokens.ScopeVariant && d.Variant == ancestor
		})
	}
	c.layer(decls, func(d tokens.Declaration) bool {
		return d.Scope == tokens.ScopeVariant && d.Variant == name
	})
	return c
}

func (c *Context) layer(decls []tokens.Declaration, match func(tokens.Declaration) bool) {
	for _, d := range decls {
		if match(d) {
			c.lookup[d.Name] = d.Value
		}
	}
}

// Value returns the visible value of a custom property in this context.
func (c *Context) Value(name string) (string, bool) {
	v, ok := c.lookup[name]
	return v, ok
}

// Resolve substitutes the references in value that resolve in this
// context. Unresolvable references, fallbacks included, stay in place
// verbatim; cycles stop with the value substituted as far as it got.
func (c *Context) Resolve(value string) string {
	return c.resolve(value, collections.NewSet[string]())
}

// ResolveAll returns a copy of decls with every value resolved in this
// context.
func (c *Context) ResolveAll(decls []tokens.Declaration) []tokens.Declaration {
	out := make([]tokens.Declaration, len(decls))
	for i, d := range decls {
		out[i] = d
		out[i].Value = c.Resolve(d.Value)
	}
	return out
}

func (c *Context) resolve(value string, visited collections.Set[string]) string {
	if !tokens.ContainsReference(value) {
		return value
	}

	// A value that is exactly one reference resolves by direct recursion.
	if ref, ok := tokens.BareReference(value); ok {
		target, present := c.lookup[ref.Name]
		if !present || visited.Has(ref.Name) {
			return value
		}
		branch := visited.Clone()
		branch.Add(ref.Name)
		return c.resolve(target, branch)
	}

	// References embedded in a larger expression substitute in place.
	// Names substituted in one pass are treated as visited by later
	// passes, so a cycle surfacing mid-expression expands once and
	// stops.
	seen := visited.Clone()
	for pass := 0; pass < maxPasses; pass++ {
		refs := tokens.ParseReferences(value)
		if len(refs) == 0 {
			return value
		}
		var b strings.Builder
		last := 0
		changed := false
		for _, ref := range refs {
			target, present := c.lookup[ref.Name]
			if !present || seen.Has(ref.Name) {
				continue
			}
			branch := seen.Clone()
			branch.Add(ref.Name)
			b.WriteString(value[last:ref.Start])
			b.WriteString(c.resolve(target, branch))
			last = ref.End
			seen.Add(ref.Name)
			changed = true
		}
		if !changed {
			return value
		}
		b.WriteString(value[last:])
		value = b.String()
	}
	return value
}

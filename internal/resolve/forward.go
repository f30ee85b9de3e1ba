package resolve

import (
	"bennypowers.dev/cte/internal/namespace"
	"bennypowers.dev/cte/internal/tokens"
)

// BuildForwardMap scans declarations for namespaced custom properties
// whose value is a bare reference to a name outside every namespace. Each
// such name forwards to the referencing declaration's group and key, so a
// later root or variant declaration of the unnamespaced name lands at the
// forwarded theme location instead of being dropped.
//
// Given
//
//	--color-primary: var(--brand);
//
// a declaration of --brand anywhere places its value at colors/primary.
func BuildForwardMap(decls []tokens.Declaration, caches *namespace.Caches) map[string]namespace.Parsed {
	forwards := make(map[string]namespace.Parsed)
	for _, d := range decls {
		parsed, ok := caches.Parse(d.Name)
		if !ok {
			continue
		}
		ref, ok := tokens.BareReference(d.Value)
		if !ok {
			continue
		}
		if _, namespaced := caches.Parse(ref.Name); namespaced {
			continue
		}
		forwards[ref.Name] = parsed
	}
	return forwards
}

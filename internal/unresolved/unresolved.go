// Package unresolved reports var() references that survived resolution.
// It diffs the declaration set before and after resolution: a reference
// still present afterwards had no visible target, and each one is
// classified by its likely cause so reports can separate a foreign
// framework's variables from genuine mistakes.
package unresolved

import (
	"bennypowers.dev/cte/internal/namespace"
	"bennypowers.dev/cte/internal/tokens"
)

// Analyze pairs each pre-resolution declaration with its post-resolution
// counterpart and emits one entry per reference remaining in the
// resolved value. Declarations whose original value carried no
// references, and declarations with no resolved counterpart, produce
// nothing.
func Analyze(pre, post []tokens.Declaration) []tokens.UnresolvedReference {
	resolved := make(map[string]tokens.Declaration, len(post))
	for _, d := range post {
		resolved[d.Identity()] = d
	}

	var out []tokens.UnresolvedReference
	for _, d := range pre {
		if !tokens.ContainsReference(d.Value) {
			continue
		}
		after, ok := resolved[d.Identity()]
		if !ok {
			continue
		}
		for _, ref := range tokens.AllReferences(after.Value) {
			out = append(out, tokens.UnresolvedReference{
				VariableName:       d.Name,
				OriginalValue:      d.Value,
				ReferencedVariable: ref.Name,
				FallbackValue:      ref.Fallback,
				Source:             d.Scope,
				VariantName:        d.Variant,
				Selector:           d.Selector,
				LikelyCause:        cause(d.Name, ref.Name),
			})
		}
	}
	return out
}

// cause classifies a surviving reference. Foreign-prefixed names belong
// to another tool's variable convention; a declaration referring to its
// own name is the intentional fall-back-to-baseline idiom.
func cause(declaring, referenced string) tokens.Cause {
	switch {
	case namespace.Foreign(referenced):
		return tokens.CauseExternal
	case referenced == declaring:
		return tokens.CauseSelfReferential
	default:
		return tokens.CauseUnknown
	}
}

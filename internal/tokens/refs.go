package tokens

import "strings"

// refFunc is the reference-expression function head.
const refFunc = "var("

// Reference is one var() reference expression found in a value.
type Reference struct {
	// Name is the referenced custom property, including its "--" prefix.
	Name string

	// Fallback is the text after the first top-level comma, trimmed.
	// Empty when the reference carries no fallback.
	Fallback string

	// Start is the byte offset of "var(" within the scanned value.
	Start int

	// End is the byte offset just past the closing ")".
	End int
}

// String reconstructs the reference expression.
func (r Reference) String() string {
	if r.Fallback != "" {
		return refFunc + r.Name + ", " + r.Fallback + ")"
	}
	return refFunc + r.Name + ")"
}

// ContainsReference reports whether the value contains a reference
// expression.
func ContainsReference(value string) bool {
	return indexRef(value, 0) >= 0
}

// ParseReferences returns the outermost reference expressions in value,
// left to right. References nested inside another reference's fallback are
// not returned; see AllReferences.
func ParseReferences(value string) []Reference {
	var refs []Reference
	i := 0
	for {
		j := indexRef(value, i)
		if j < 0 {
			return refs
		}
		ref, end, ok := parseRefAt(value, j)
		if !ok {
			// Unbalanced parentheses: nothing further can parse.
			return refs
		}
		if IsCustomProperty(ref.Name) {
			refs = append(refs, ref)
		}
		i = end
	}
}

// AllReferences returns every reference expression in value, including
// those nested inside fallbacks. Offsets of nested references are relative
// to the fallback text they were found in.
func AllReferences(value string) []Reference {
	refs := ParseReferences(value)
	all := make([]Reference, 0, len(refs))
	for _, ref := range refs {
		all = append(all, ref)
		if ref.Fallback != "" {
			all = append(all, AllReferences(ref.Fallback)...)
		}
	}
	return all
}

// BareReference reports whether the value consists of exactly one
// reference expression, returning it when so.
func BareReference(value string) (Reference, bool) {
	trimmed := strings.TrimSpace(value)
	j := indexRef(trimmed, 0)
	if j != 0 {
		return Reference{}, false
	}
	ref, end, ok := parseRefAt(trimmed, 0)
	if !ok || end != len(trimmed) || !IsCustomProperty(ref.Name) {
		return Reference{}, false
	}
	return ref, true
}

// indexRef finds the next "var(" at or after from that starts a reference
// expression rather than the tail of a longer identifier.
func indexRef(value string, from int) int {
	for from < len(value) {
		j := strings.Index(value[from:], refFunc)
		if j < 0 {
			return -1
		}
		j += from
		if j > 0 && isIdentByte(value[j-1]) {
			from = j + len(refFunc)
			continue
		}
		return j
	}
	return -1
}

// parseRefAt parses the reference expression whose "var(" begins at start.
// Fallback text may itself contain balanced parentheses.
func parseRefAt(value string, start int) (Reference, int, bool) {
	argStart := start + len(refFunc)
	depth := 0
	comma := -1
	for i := argStart; i < len(value); i++ {
		switch value[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				ref := Reference{Start: start, End: i + 1}
				if comma >= 0 {
					ref.Name = strings.TrimSpace(value[argStart:comma])
					ref.Fallback = strings.TrimSpace(value[comma+1 : i])
				} else {
					ref.Name = strings.TrimSpace(value[argStart:i])
				}
				return ref, i + 1, true
			}
			depth--
		case ',':
			if depth == 0 && comma < 0 {
				comma = i
			}
		}
	}
	return Reference{}, 0, false
}

func isIdentByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_':
		return true
	}
	return false
}

package theme

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// MarshalJSON emits the theme as a JSON object with groups in canonical
// order. Empty groups are omitted.
func (t *Theme) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, name := range GroupNames {
		g := t.groups[name]
		if len(g) == 0 {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeMember(&buf, string(name), g); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON emits group entries with numeric keys first in ascending
// order, then the remaining keys lexically.
func (g Group) MarshalJSON() ([]byte, error) {
	return marshalOrdered(g)
}

// MarshalJSON orders scale variants the same way group keys are ordered.
func (s Scale) MarshalJSON() ([]byte, error) {
	return marshalOrdered(s)
}

func marshalOrdered[V any](m map[string]V) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range sortedKeys(m) {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, key, m[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, v any) error {
	kb, err := json.Marshal(key)
	if err != nil {
		return err
	}
	vb, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	return keys
}

// keyLess sorts fully numeric keys ascending ahead of everything else, so
// scales read 50, 100, ... 950 instead of the lexical 100, 50, 950.
func keyLess(a, b string) bool {
	na, aErr := strconv.ParseFloat(a, 64)
	nb, bErr := strconv.ParseFloat(b, 64)
	switch {
	case aErr == nil && bErr == nil:
		if na != nb {
			return na < nb
		}
		return a < b
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

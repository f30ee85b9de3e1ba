// Package defaults loads an optional baseline token set from a DTCG
// design-tokens file. Tokens become defaults-scope declarations named
// by their hyphenated path, so they join resolution as the lowest
// layer and the builder can fold them into a baseline theme.
package defaults

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	asimonimParser "bennypowers.dev/asimonim/parser"
	"bennypowers.dev/asimonim/schema"
	"bennypowers.dev/cte/internal/color"
	"bennypowers.dev/cte/internal/log"
	"bennypowers.dev/cte/internal/tokens"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// aliasPattern matches a whole-value DTCG alias such as {color.primary.500}.
var aliasPattern = regexp.MustCompile(`^\{([a-zA-Z0-9_$-]+(?:\.[a-zA-Z0-9_$-]+)*)\}$`)

// Load reads a DTCG token file (.json, .jsonc, .yaml or .yml) and
// returns its tokens as defaults-scope declarations. prefix, when not
// empty, is prepended to every custom-property name.
func Load(path, prefix string) ([]tokens.Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return Parse(jsonc.ToJSON(data), prefix)
	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse baseline %s: %w", path, err)
		}
		jsonData, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to convert baseline %s: %w", path, err)
		}
		return Parse(jsonData, prefix)
	default:
		return nil, fmt.Errorf("unsupported baseline format: %s", path)
	}
}

// Parse converts DTCG token JSON into defaults-scope declarations.
// Schema version is auto-detected. Values are rendered to CSS: whole-value
// aliases become var() references, structured colors and dimensions are
// serialized, and value shapes with no CSS rendering are skipped.
func Parse(jsonData []byte, prefix string) ([]tokens.Declaration, error) {
	parsed, err := asimonimParser.NewJSONParser().Parse(jsonData, asimonimParser.Options{
		Prefix:        prefix,
		SchemaVersion: schema.Unknown,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse design tokens: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(jsonData, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse design tokens: %w", err)
	}

	decls := make([]tokens.Declaration, 0, len(parsed))
	for _, tok := range parsed {
		value, ok := renderValue(rawValue(raw, tok.Path), prefix)
		if !ok {
			log.Debug("Skipping baseline token %s: no CSS rendering for its value", tok.Name)
			continue
		}
		decls = append(decls, tokens.Declaration{
			Name:  tok.CSSVariableName(),
			Value: value,
			Scope: tokens.ScopeDefaults,
			Line:  tok.Line,
		})
	}
	return decls, nil
}

// rawValue walks the token's path in the raw document and returns its
// $value, which preserves structured shapes the flat token list loses.
func rawValue(raw map[string]any, path []string) any {
	cur := any(raw)
	for _, seg := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[seg]
		if !ok {
			return nil
		}
	}
	m, ok := cur.(map[string]any)
	if !ok {
		return nil
	}
	return m["$value"]
}

// renderValue turns a DTCG $value into CSS text.
func renderValue(v any, prefix string) (string, bool) {
	switch v := v.(type) {
	case string:
		if ref, ok := aliasToVar(v, prefix); ok {
			return ref, true
		}
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case map[string]any:
		return renderObject(v, prefix)
	case []any:
		return renderList(v)
	}
	return "", false
}

// renderObject handles the structured value forms: colors
// (colorSpace/components/alpha/hex) and dimensions (value/unit).
func renderObject(m map[string]any, prefix string) (string, bool) {
	_, hasSpace := m["colorSpace"]
	_, hasHex := m["hex"]
	if hasSpace || hasHex {
		space, _ := m["colorSpace"].(string)
		components, _ := m["components"].([]any)
		alpha := 1.0
		if a, ok := m["alpha"].(float64); ok {
			alpha = a
		}
		hex, _ := m["hex"].(string)
		if s := color.FromComponents(space, components, alpha, hex); s != "" {
			return s, true
		}
		return "", false
	}

	if value, ok := m["value"].(float64); ok {
		if unit, ok := m["unit"].(string); ok {
			return strconv.FormatFloat(value, 'f', -1, 64) + unit, true
		}
	}
	return "", false
}

// renderList joins string lists (font stacks), quoting names that
// contain spaces. Lists of structured values are skipped.
func renderList(items []any) (string, bool) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return "", false
		}
		if strings.ContainsRune(s, ' ') {
			s = strconv.Quote(s)
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ", "), true
}

// aliasToVar converts a whole-value alias to the var() reference of the
// declaration the aliased token produces.
func aliasToVar(value, prefix string) (string, bool) {
	m := aliasPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return "", false
	}
	name := strings.ReplaceAll(m[1], ".", "-")
	if prefix != "" {
		name = prefix + "-" + name
	}
	return "var(--" + name + ")", true
}

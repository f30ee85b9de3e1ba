// Package config loads the extractor configuration file. Fields with a
// path meaning resolve relative to the config file's directory, so a
// config checked into a project root behaves the same from any working
// directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DefaultNames are the config file names probed, in order, when no
// explicit path is given.
var DefaultNames = []string{
	"cte.config.json",
	"cte.config.jsonc",
	"cte.config.yaml",
	"cte.config.yml",
}

// Config is the extractor configuration.
type Config struct {
	// Input are the stylesheet entry patterns (literal paths or globs).
	Input []string

	// Baseline is the optional DTCG token file providing defaults.
	Baseline string

	// Prefix is the custom-property prefix of baseline tokens.
	Prefix string

	// Output is the artifact directory.
	Output string

	// Format selects the report files: markdown, json or both.
	Format string

	// Overrides is the raw declarative override set.
	Overrides map[string]any

	// NamespaceDepths maps namespace names to sub-key nesting depth.
	NamespaceDepths map[string]int
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}

	return fromMap(raw, filepath.Dir(path)), nil
}

// Discover probes dir for the default config names. A missing config is
// not an error: the first return is nil.
func Discover(dir string) (*Config, error) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return Load(path)
	}
	return nil, nil
}

// fromMap extracts typed fields, tolerating the string-or-list and
// number-or-object shapes config authors reach for.
func fromMap(raw map[string]any, dir string) *Config {
	c := &Config{
		Baseline:        stringField(raw, "baseline"),
		Prefix:          stringField(raw, "prefix"),
		Output:          stringField(raw, "output"),
		Format:          stringField(raw, "format"),
		NamespaceDepths: depthsField(raw, "namespaceDepth"),
	}

	c.Input = stringListField(raw, "input")
	for i, in := range c.Input {
		c.Input[i] = resolvePath(dir, in)
	}
	if c.Baseline != "" {
		c.Baseline = resolvePath(dir, c.Baseline)
	}
	if c.Output != "" {
		c.Output = resolvePath(dir, c.Output)
	}

	if o, ok := raw["overrides"].(map[string]any); ok {
		c.Overrides = o
	}
	return c
}

func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// stringListField accepts both a single string and a list.
func stringListField(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// depthsField accepts a bare number, meaning the color namespace depth,
// or an object of per-namespace depths.
func depthsField(m map[string]any, key string) map[string]int {
	switch v := m[key].(type) {
	case map[string]any:
		out := make(map[string]int, len(v))
		for name, d := range v {
			if n, ok := intValue(d); ok {
				out[name] = n
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		if n, ok := intValue(v); ok {
			return map[string]int{"color": n}
		}
	}
	return nil
}

// intValue accepts the numeric types JSON and YAML decoding produce.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

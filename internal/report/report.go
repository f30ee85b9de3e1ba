// Package report renders a pipeline run as human-readable Markdown and
// machine-readable JSON, and writes the output artifacts (theme.json
// plus the report files) to a directory.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"bennypowers.dev/cte/internal/color"
	"bennypowers.dev/cte/internal/pipeline"
	"bennypowers.dev/cte/internal/theme"
	"bennypowers.dev/cte/internal/tokens"
)

// Format selects which report files WriteFiles produces. theme.json is
// always written.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatBoth     Format = "both"
)

// ParseFormat validates a format name from config or flags.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatJSON, FormatBoth:
		return Format(s), nil
	case "":
		return FormatBoth, nil
	}
	return "", fmt.Errorf("unknown report format %q (want markdown, json or both)", s)
}

// Data is one pipeline run plus its provenance.
type Data struct {
	// Source describes the loaded inputs, for the report header.
	Source string

	// Result is the pipeline output.
	Result *pipeline.Result
}

var markdownTemplate = template.Must(template.New("report").Parse(`# Theme Extraction Report
{{if .Source}}
Source: {{.Source}}
{{end}}
## Themes

| Theme | Selector | Values |
| --- | --- | --- |
{{range .Themes}}| {{.Name}} | {{if .Selector}}` + "`{{.Selector}}`" + `{{else}}-{{end}} | {{.Values}} |
{{end}}{{if .Colors}}
## Base colors

| Token | Value | Normalized |
| --- | --- | --- |
{{range .Colors}}| {{.Key}} | ` + "`{{.Value}}`" + ` | {{if .Hex}}` + "`{{.Hex}}`" + `{{else}}-{{end}} |
{{end}}{{end}}{{if .Duplicates}}
### Duplicate color values

{{range .Duplicates}}- ` + "`{{.Value}}`" + ` is declared by {{.KeyList}}
{{end}}{{end}}{{if .Conflicts}}
## Rule conflicts

{{len .Conflicts}} literal rule{{if gt (len .Conflicts) 1}}s{{end}} shadow theme values; {{.NeedsReview}} need{{if eq .NeedsReview 1}}s{{end}} review.

| Variant | Rule | Theme value | Rule value | Confidence | Status |
| --- | --- | --- | --- | --- | --- |
{{range .Conflicts}}| {{.VariantName}} | ` + "`{{.RuleSelector}}`" + ` | {{.ThemeProperty}}.{{.ThemeKey}} = ` + "`{{.VariableValue}}`" + ` | ` + "`{{.RuleValue}}`" + ` | {{.Confidence}} | {{if .Applied}}auto-applied{{else}}⚠️ review{{end}} |
{{end}}{{end}}{{if .Unresolved}}
## Unresolved references

{{range .Unresolved}}- ` + "`{{.VariableName}}`" + ` references ` + "`{{.ReferencedVariable}}`" + ` ({{.LikelyCause}}{{if .FallbackValue}}, falls back to ` + "`{{.FallbackValue}}`" + `{{end}}) in {{.Source}}{{if .VariantName}} scope of variant {{.VariantName}}{{end}}
{{end}}{{end}}{{if .Deprecations}}
## Deprecated names

{{range .Deprecations}}- ` + "`{{.Variable}}`" + `: {{.Message}}
{{end}}{{end}}`))

// Markdown renders the run report as Markdown.
func Markdown(d Data) (string, error) {
	var buf bytes.Buffer
	if err := markdownTemplate.Execute(&buf, buildView(d)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type view struct {
	Source       string
	Themes       []themeRow
	Colors       []colorRow
	Duplicates   []duplicateRow
	Conflicts    []conflictRow
	NeedsReview  int
	Unresolved   []tokens.UnresolvedReference
	Deprecations []tokens.DeprecationWarning
}

type themeRow struct {
	Name     string
	Selector string
	Values   int
}

type colorRow struct {
	Key   string
	Value string
	Hex   string
}

type duplicateRow struct {
	Value   string
	KeyList string
}

type conflictRow struct {
	tokens.Conflict
	Applied bool
}

func buildView(d Data) view {
	res := d.Result
	v := view{
		Source:       d.Source,
		Unresolved:   res.Unresolved,
		Deprecations: res.Deprecations,
	}

	v.Themes = append(v.Themes, themeRow{Name: "base", Values: res.Base.Len()})
	for _, name := range res.VariantOrder {
		vt := res.Variants[name]
		v.Themes = append(v.Themes, themeRow{
			Name:     name,
			Selector: vt.Selector,
			Values:   vt.Theme.Len(),
		})
	}

	v.Colors = colorRows(res.Base)
	v.Duplicates = duplicateRows(v.Colors)

	applied := appliedSet(res.Applied)
	for _, c := range res.Conflicts {
		row := conflictRow{Conflict: c, Applied: applied[conflictKey(c)]}
		if !row.Applied {
			v.NeedsReview++
		}
		v.Conflicts = append(v.Conflicts, row)
	}
	return v
}

// colorRows flattens the base color group, scales included, with a
// normalized hex rendering where the value parses as a color.
func colorRows(t *theme.Theme) []colorRow {
	g, ok := t.Group(theme.GroupColors)
	if !ok || len(g) == 0 {
		return nil
	}

	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rows []colorRow
	add := func(key, value string) {
		row := colorRow{Key: key, Value: value}
		if hex, ok := color.Normalize(value); ok {
			row.Hex = hex
		}
		rows = append(rows, row)
	}
	for _, k := range keys {
		switch val := g[k].(type) {
		case theme.Scalar:
			add(k, string(val))
		case theme.Scale:
			sub := make([]string, 0, len(val))
			for sk := range val {
				sub = append(sub, sk)
			}
			sort.Strings(sub)
			for _, sk := range sub {
				add(k+"."+sk, val[sk])
			}
		}
	}
	return rows
}

// duplicateRows groups color tokens whose values normalize to the same
// color.
func duplicateRows(rows []colorRow) []duplicateRow {
	byHex := make(map[string][]string)
	for _, r := range rows {
		if r.Hex != "" {
			byHex[r.Hex] = append(byHex[r.Hex], r.Key)
		}
	}

	hexes := make([]string, 0, len(byHex))
	for hex, keys := range byHex {
		if len(keys) > 1 {
			hexes = append(hexes, hex)
		}
	}
	sort.Strings(hexes)

	dups := make([]duplicateRow, 0, len(hexes))
	for _, hex := range hexes {
		dups = append(dups, duplicateRow{
			Value:   hex,
			KeyList: strings.Join(byHex[hex], ", "),
		})
	}
	return dups
}

func appliedSet(applied []tokens.Conflict) map[string]bool {
	set := make(map[string]bool, len(applied))
	for _, c := range applied {
		set[conflictKey(c)] = true
	}
	return set
}

func conflictKey(c tokens.Conflict) string {
	return strings.Join([]string{c.VariantName, c.ThemeProperty, c.ThemeKey, c.RuleSelector}, "\x00")
}

type jsonVariant struct {
	Name     string       `json:"name"`
	Selector string       `json:"selector"`
	Theme    *theme.Theme `json:"theme"`
}

type jsonConflict struct {
	tokens.Conflict
	Applied bool `json:"applied"`
}

type jsonReport struct {
	Source       string                       `json:"source,omitempty"`
	Base         *theme.Theme                 `json:"base"`
	Variants     []jsonVariant                `json:"variants"`
	Conflicts    []jsonConflict               `json:"conflicts"`
	Unresolved   []tokens.UnresolvedReference `json:"unresolvedReferences"`
	Deprecations []tokens.DeprecationWarning  `json:"deprecations"`
}

// JSON renders the machine-readable report.
func JSON(d Data) ([]byte, error) {
	res := d.Result
	out := jsonReport{
		Source:       d.Source,
		Base:         res.Base,
		Variants:     make([]jsonVariant, 0, len(res.VariantOrder)),
		Conflicts:    make([]jsonConflict, 0, len(res.Conflicts)),
		Unresolved:   res.Unresolved,
		Deprecations: res.Deprecations,
	}
	for _, name := range res.VariantOrder {
		vt := res.Variants[name]
		out.Variants = append(out.Variants, jsonVariant{Name: name, Selector: vt.Selector, Theme: vt.Theme})
	}
	applied := appliedSet(res.Applied)
	for _, c := range res.Conflicts {
		out.Conflicts = append(out.Conflicts, jsonConflict{Conflict: c, Applied: applied[conflictKey(c)]})
	}
	return json.MarshalIndent(out, "", "  ")
}

type themeVariant struct {
	Selector string       `json:"selector"`
	Theme    *theme.Theme `json:"theme"`
}

type themeFile struct {
	Base     *theme.Theme            `json:"base"`
	Variants map[string]themeVariant `json:"variants,omitempty"`
}

// ThemeJSON renders the theme artifact: the base theme plus every
// variant theme keyed by name.
func ThemeJSON(d Data) ([]byte, error) {
	res := d.Result
	out := themeFile{Base: res.Base}
	if len(res.Variants) > 0 {
		out.Variants = make(map[string]themeVariant, len(res.Variants))
		for name, vt := range res.Variants {
			out.Variants[name] = themeVariant{Selector: vt.Selector, Theme: vt.Theme}
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// WriteFiles writes theme.json and the selected report files into dir,
// creating it if needed.
func WriteFiles(dir string, d Data, format Format) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	themeData, err := ThemeJSON(d)
	if err != nil {
		return fmt.Errorf("failed to render theme.json: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "theme.json"), themeData, 0o644); err != nil {
		return fmt.Errorf("failed to write theme.json: %w", err)
	}

	if format == FormatMarkdown || format == FormatBoth {
		md, err := Markdown(d)
		if err != nil {
			return fmt.Errorf("failed to render report.md: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "report.md"), []byte(md), 0o644); err != nil {
			return fmt.Errorf("failed to write report.md: %w", err)
		}
	}

	if format == FormatJSON || format == FormatBoth {
		data, err := JSON(d)
		if err != nil {
			return fmt.Errorf("failed to render report.json: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "report.json"), data, 0o644); err != nil {
			return fmt.Errorf("failed to write report.json: %w", err)
		}
	}
	return nil
}

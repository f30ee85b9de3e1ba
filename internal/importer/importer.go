// Package importer loads stylesheet sources from disk and inlines
// their @import statements, producing the flat node sequence the
// extraction pipeline consumes. Imports are resolved relative to the
// importing file, fetched at most once, and may use glob patterns
// (@import "./themes/**/*.css"). url() and remote imports are left
// out: they name resources the pipeline cannot read.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bennypowers.dev/cte/internal/cssom"
	"bennypowers.dev/cte/internal/log"
	"bennypowers.dev/cte/internal/parser"
	"github.com/bmatcuk/doublestar/v4"
)

// Load reads the entry patterns (literal paths or doublestar globs),
// parses each matched file, and returns the stylesheet nodes with
// @import statements recursively inlined in import order. A file
// reached more than once, whether through a cycle or a diamond, is
// included only the first time.
func Load(patterns ...string) ([]cssom.Node, error) {
	l := &loader{visited: make(map[string]struct{})}

	var nodes []cssom.Node
	for _, pattern := range patterns {
		paths, err := expand(pattern)
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			loaded, err := l.loadFile(path)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, loaded...)
		}
	}
	return nodes, nil
}

type loader struct {
	visited map[string]struct{}
}

// loadFile parses one file and splices the contents of its imports in
// place of each @import statement.
func (l *loader) loadFile(path string) ([]cssom.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if _, seen := l.visited[abs]; seen {
		log.Debug("Skipping already-loaded file %s", path)
		return nil, nil
	}
	l.visited[abs] = struct{}{}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	parsed, err := parser.Parse(abs, string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	var nodes []cssom.Node
	for _, n := range parsed {
		at, ok := n.(*cssom.AtRule)
		if !ok || at.Name != "import" {
			nodes = append(nodes, n)
			continue
		}

		target, ok := importTarget(at.Params)
		if !ok {
			log.Debug("Skipping unsupported import %q", at.Params)
			continue
		}
		if isRemote(target) {
			log.Debug("Skipping remote import %q", target)
			continue
		}

		targets, err := resolveTargets(dir, target)
		if err != nil {
			return nil, err
		}
		for _, t := range targets {
			imported, err := l.loadFile(t)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, imported...)
		}
	}
	return nodes, nil
}

// expand turns an entry pattern into concrete file paths. Literal
// paths must exist; glob patterns may match nothing.
func expand(pattern string) ([]string, error) {
	if !isGlob(pattern) {
		if _, err := os.Stat(pattern); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", pattern, err)
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	sort.Strings(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if parser.IsSupportedPath(m) {
			paths = append(paths, m)
		}
	}
	return paths, nil
}

// resolveTargets resolves an import path, glob or literal, relative to
// the importing file's directory.
func resolveTargets(dir, target string) ([]string, error) {
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	if !isGlob(target) {
		return []string{target}, nil
	}
	return expand(target)
}

// importTarget extracts the quoted path from an @import prelude.
// Trailing media or layer conditions are ignored; the url() form is
// rejected.
func importTarget(params string) (string, bool) {
	params = strings.TrimSpace(params)
	if params == "" {
		return "", false
	}
	quote := params[0]
	if quote != '"' && quote != '\'' {
		return "", false
	}
	end := strings.IndexByte(params[1:], quote)
	if end < 0 {
		return "", false
	}
	return params[1 : 1+end], true
}

func isRemote(target string) bool {
	return strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "//")
}

func isGlob(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// Package parser dispatches source files to the language-specific
// parsers and returns classified stylesheet nodes. CSS files are
// parsed whole; HTML and JS/TS files contribute the nodes of every
// embedded CSS region, in source order.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/cte/internal/cssom"
	"bennypowers.dev/cte/internal/log"
	"bennypowers.dev/cte/internal/parser/css"
	"bennypowers.dev/cte/internal/parser/html"
	"bennypowers.dev/cte/internal/parser/js"
)

// cssLanguages maps file extensions to the parser category they use.
// "css" → direct CSS, "html" → HTML parser, "js" → JS parser.
var cssLanguages = map[string]string{
	".css":  "css",
	".html": "html",
	".htm":  "html",
	".js":   "js",
	".mjs":  "js",
	".cjs":  "js",
	".jsx":  "js",
	".ts":   "js",
	".mts":  "js",
	".cts":  "js",
	".tsx":  "js",
}

// IsSupportedPath reports whether CSS can be extracted from the named
// file type.
func IsSupportedPath(path string) bool {
	_, ok := cssLanguages[strings.ToLower(filepath.Ext(path))]
	return ok
}

// span is a CSS text fragment with its line offset in the host document.
type span struct {
	content string
	line    uint32
}

// Parse extracts stylesheet nodes from a source file's content,
// dispatching on the file extension. Node lines are mapped back to the
// host document.
func Parse(path, content string) ([]cssom.Node, error) {
	switch cssLanguages[strings.ToLower(filepath.Ext(path))] {
	case "css":
		p := css.AcquireParser()
		defer css.ReleaseParser(p)
		return p.Parse(content)

	case "html":
		p := html.AcquireParser()
		defer html.ReleaseParser(p)
		regions := p.ParseCSSRegions(content)
		spans := make([]span, 0, len(regions))
		for _, r := range regions {
			spans = append(spans, span{content: r.Content, line: r.Line})
		}
		return parseSpans(spans), nil

	case "js":
		p := js.AcquireParser()
		defer js.ReleaseParser(p)
		regions := p.ParseCSSRegions(content)
		spans := make([]span, 0, len(regions))
		for _, r := range regions {
			spans = append(spans, span{content: r.Content, line: r.Line})
		}
		return parseSpans(spans), nil

	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

// parseSpans parses each CSS fragment and offsets node lines by the
// fragment's position. Fragments that fail to parse are skipped.
func parseSpans(spans []span) []cssom.Node {
	if len(spans) == 0 {
		return nil
	}

	p := css.AcquireParser()
	defer css.ReleaseParser(p)

	var nodes []cssom.Node
	for _, s := range spans {
		parsed, err := p.Parse(s.content)
		if err != nil {
			log.Debug("Failed to parse CSS region at line %d: %v", s.line, err)
			continue
		}
		offsetNodes(parsed, s.line)
		nodes = append(nodes, parsed...)
	}
	return nodes
}

// offsetNodes shifts node and declaration lines by delta, recursively.
func offsetNodes(nodes []cssom.Node, delta uint32) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *cssom.Rule:
			n.Line += delta
			offsetDecls(n.Decls, delta)
			offsetNodes(n.Children, delta)
		case *cssom.AtRule:
			n.Line += delta
			offsetDecls(n.Decls, delta)
			offsetNodes(n.Children, delta)
		}
	}
}

func offsetDecls(decls []cssom.Decl, delta uint32) {
	for i := range decls {
		decls[i].Line += delta
	}
}

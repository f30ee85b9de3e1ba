// Package css parses stylesheet text into the classified node model the
// extraction pipeline walks. Parsing is syntactic only: selectors, at-rule
// params and declaration values stay raw strings, and keyframes keep
// their full source text so themes can carry the blocks verbatim.
package css

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"

	"bennypowers.dev/cte/internal/cssom"
)

// Parser handles parsing CSS with tree-sitter.
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers.
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
	},
}

// AcquireParser gets a parser from the pool.
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool.
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ClosePool closes all parsers in the pool.
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// Parse parses stylesheet text into top-level nodes.
func (p *Parser) Parse(source string) ([]cssom.Node, error) {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	_, nodes := convertBlock(tree.RootNode(), src)
	return nodes, nil
}

// convertBlock converts the children of a block (or the stylesheet root)
// into declarations and nested nodes. Comments, punctuation and anything
// the grammar could not classify are skipped.
func convertBlock(block *sitter.Node, src []byte) ([]cssom.Decl, []cssom.Node) {
	var decls []cssom.Decl
	var nodes []cssom.Node
	for i := uint(0); i < block.NamedChildCount(); i++ {
		child := block.NamedChild(i)
		switch child.Kind() {
		case "declaration":
			if d, ok := convertDeclaration(child, src); ok {
				decls = append(decls, d)
			}
		case "rule_set":
			nodes = append(nodes, convertRule(child, src))
		case "media_statement":
			nodes = append(nodes, convertConditional(child, "media", src))
		case "supports_statement":
			nodes = append(nodes, convertConditional(child, "supports", src))
		case "keyframes_statement":
			nodes = append(nodes, convertKeyframes(child, src))
		case "import_statement":
			nodes = append(nodes, convertImport(child, src))
		case "at_rule":
			nodes = append(nodes, convertAtRule(child, src))
		}
	}
	return decls, nodes
}

// convertDeclaration splits a declaration at the first colon. The value
// keeps its raw text, semicolon stripped.
func convertDeclaration(node *sitter.Node, src []byte) (cssom.Decl, bool) {
	property, value, ok := strings.Cut(nodeText(node, src), ":")
	if !ok {
		return cssom.Decl{}, false
	}
	return cssom.Decl{
		Property: strings.TrimSpace(property),
		Value:    strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), ";")),
		Line:     line(node),
	}, true
}

func convertRule(node *sitter.Node, src []byte) *cssom.Rule {
	rule := &cssom.Rule{Line: line(node)}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "selectors":
			rule.Selector = strings.TrimSpace(nodeText(child, src))
		case "block":
			rule.Decls, rule.Children = convertBlock(child, src)
		}
	}
	return rule
}

// convertConditional converts @media and @supports: params are the raw
// text between the keyword and the block.
func convertConditional(node *sitter.Node, name string, src []byte) *cssom.AtRule {
	at := &cssom.AtRule{Name: name, Raw: nodeText(node, src), Line: line(node)}
	if block := childOfKind(node, "block"); block != nil {
		at.Params = paramSpan(node, block, src)
		at.Decls, at.Children = convertBlock(block, src)
	} else {
		at.Params = paramSpan(node, nil, src)
	}
	return at
}

// convertKeyframes keeps the whole statement raw; the name lands in
// Params so consumers need not reparse.
func convertKeyframes(node *sitter.Node, src []byte) *cssom.AtRule {
	at := &cssom.AtRule{
		Name: atName(node, src),
		Raw:  nodeText(node, src),
		Line: line(node),
	}
	if name := childOfKind(node, "keyframes_name"); name != nil {
		at.Params = nodeText(name, src)
	}
	return at
}

func convertImport(node *sitter.Node, src []byte) *cssom.AtRule {
	return &cssom.AtRule{
		Name:   "import",
		Params: strings.TrimSuffix(paramSpan(node, nil, src), ";"),
		Raw:    nodeText(node, src),
		Line:   line(node),
	}
}

// convertAtRule handles at-rules outside the grammar's named statements,
// @theme among them.
func convertAtRule(node *sitter.Node, src []byte) *cssom.AtRule {
	at := &cssom.AtRule{Name: atName(node, src), Raw: nodeText(node, src), Line: line(node)}
	if block := childOfKind(node, "block"); block != nil {
		at.Params = paramSpan(node, block, src)
		at.Decls, at.Children = convertBlock(block, src)
	} else {
		at.Params = strings.TrimSuffix(paramSpan(node, nil, src), ";")
	}
	return at
}

// atName returns the at-rule's keyword without the leading "@". The
// keyword is always the rule's first token, which also covers prefixed
// forms like @-webkit-keyframes.
func atName(node *sitter.Node, src []byte) string {
	kw := node.Child(0)
	if kw == nil {
		return ""
	}
	return strings.TrimPrefix(nodeText(kw, src), "@")
}

// paramSpan is the trimmed source text between the at-rule keyword and
// the block, or to the rule's end when there is none.
func paramSpan(node, block *sitter.Node, src []byte) string {
	kw := node.Child(0)
	if kw == nil {
		return ""
	}
	start := kw.EndByte()
	end := node.EndByte()
	if block != nil {
		end = block.StartByte()
	}
	if start >= end {
		return ""
	}
	return strings.TrimSpace(string(src[start:end]))
}

func childOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child.Kind() == kind {
			return child
		}
	}
	return nil
}

func nodeText(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}

func line(node *sitter.Node) uint32 {
	return uint32(node.StartPosition().Row)
}

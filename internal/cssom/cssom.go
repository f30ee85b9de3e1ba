// Package cssom defines the classified stylesheet node model consumed by the
// extraction pipeline. Parsers (tree-sitter CSS, and the HTML/JS embedded-CSS
// extractors) produce these nodes; nothing in this package depends on any
// particular parser, so pipeline code can be tested against hand-built trees.
package cssom

// Node is a classified stylesheet node: either a *Rule or an *AtRule.
type Node interface {
	node()
}

// Decl is a single property declaration within a rule or at-rule block.
type Decl struct {
	// Property is the declared property name (e.g. "--color-primary",
	// "border-radius").
	Property string

	// Value is the declared value text, verbatim from the source.
	Value string

	// Line is the 0-based source line the declaration starts on.
	Line uint32
}

// Rule is a plain style rule: a selector with a declaration block.
type Rule struct {
	// Selector is the full selector text, including comma-separated lists.
	Selector string

	// Decls are the declarations directly inside the rule's block.
	Decls []Decl

	// Children are rules and at-rules nested inside the block.
	Children []Node

	// Line is the 0-based source line the rule starts on.
	Line uint32
}

// AtRule is an at-rule node such as @theme, @media, @keyframes or @import.
type AtRule struct {
	// Name is the at-keyword without the leading "@" (e.g. "theme", "media").
	Name string

	// Params is the prelude text between the at-keyword and the block
	// (e.g. a media query, a keyframes name, an import path).
	Params string

	// Decls are the declarations directly inside the block, if any.
	Decls []Decl

	// Children are rules and at-rules nested inside the block.
	Children []Node

	// Raw is the verbatim block text including braces. Populated for
	// blocks that are carried through untouched (keyframes).
	Raw string

	// Line is the 0-based source line the at-rule starts on.
	Line uint32
}

func (*Rule) node()   {}
func (*AtRule) node() {}

// IsKeyframes reports whether the at-rule is a keyframes block, including
// vendor-prefixed forms.
func (a *AtRule) IsKeyframes() bool {
	switch a.Name {
	case "keyframes", "-webkit-keyframes", "-moz-keyframes":
		return true
	}
	return false
}

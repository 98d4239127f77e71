// Package syntax provides a small, grammar-independent view of a concrete
// syntax tree and a depth-first walker over it. The tree-sitter adapter in
// this package is the production implementation; tests may supply any
// other Node.
package syntax

import "strings"

// Node is a named node in a concrete syntax tree. Anonymous tokens
// (punctuation, keywords) are not exposed as children. Methods returning a
// Node return nil when there is no such node.
type Node interface {
	// Kind is the grammar's node type, e.g. "object" or "member_expression".
	Kind() string
	// Text is the exact source text spanned by the node.
	Text() string
	NamedChildCount() int
	NamedChild(i int) Node
	// ChildByField returns the child bound to a grammar field name.
	ChildByField(name string) Node
}

// Children returns the named children of n in source order.
func Children(n Node) []Node {
	if n == nil {
		return nil
	}
	count := n.NamedChildCount()
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.NamedChild(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildOfKind returns the first named child of n with the given kind.
func FirstChildOfKind(n Node, kind string) Node {
	for _, c := range Children(n) {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// Unquote strips the delimiting quotes from a string literal's text.
func Unquote(text string) string {
	if len(text) >= 2 {
		first, last := text[0], text[len(text)-1]
		if first == last && strings.ContainsRune("'\"`", rune(first)) {
			return text[1 : len(text)-1]
		}
	}
	return text
}

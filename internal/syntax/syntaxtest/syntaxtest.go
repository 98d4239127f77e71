// Package syntaxtest builds small synthetic syntax trees for tests that
// should not depend on a real grammar.
package syntaxtest

import "github.com/jward/resolverstatus/internal/syntax"

// Node is an in-memory syntax.Node.
type Node struct {
	kind     string
	text     string
	children []*Node
	fields   map[string]*Node
}

var _ syntax.Node = (*Node)(nil)

// N creates a node with the given kind, source text and named children.
func N(kind, text string, children ...*Node) *Node {
	return &Node{kind: kind, text: text, children: children}
}

// Field appends child as a named child bound to the given field name and
// returns n for chaining.
func (n *Node) Field(name string, child *Node) *Node {
	if n.fields == nil {
		n.fields = make(map[string]*Node)
	}
	n.fields[name] = child
	n.children = append(n.children, child)
	return n
}

func (n *Node) Kind() string         { return n.kind }
func (n *Node) Text() string         { return n.text }
func (n *Node) NamedChildCount() int { return len(n.children) }

func (n *Node) NamedChild(i int) syntax.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *Node) ChildByField(name string) syntax.Node {
	c, ok := n.fields[name]
	if !ok {
		return nil
	}
	return c
}

package syntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Tree is a parsed source file.
type Tree struct {
	Language string

	tree *sitter.Tree
	src  []byte
}

// Root returns the tree's root node.
func (t *Tree) Root() Node {
	return wrap(t.tree.RootNode(), t.src)
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	t.tree.Close()
}

// Parse parses src with the grammar selected by path's extension.
func Parse(ctx context.Context, path string, src []byte) (*Tree, error) {
	lang, ok := LanguageForFile(path)
	if !ok {
		return nil, fmt.Errorf("syntax: unsupported file extension: %s", path)
	}
	return ParseLanguage(ctx, lang, src)
}

// ParseLanguage parses src with the named grammar.
func ParseLanguage(ctx context.Context, lang string, src []byte) (*Tree, error) {
	grammar, ok := GrammarForLanguage(lang)
	if !ok {
		return nil, fmt.Errorf("syntax: unsupported language %q", lang)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("syntax: tree-sitter parse failed: %w", err)
	}
	return &Tree{Language: lang, tree: tree, src: src}, nil
}

// tsNode adapts a tree-sitter node to Node. The source bytes travel with
// the node because smacker/go-tree-sitter nodes cannot recover them.
type tsNode struct {
	n   *sitter.Node
	src []byte
}

// wrap returns nil (not a typed nil) for a missing node.
func wrap(n *sitter.Node, src []byte) Node {
	if n == nil {
		return nil
	}
	return tsNode{n: n, src: src}
}

func (t tsNode) Kind() string         { return t.n.Type() }
func (t tsNode) Text() string         { return t.n.Content(t.src) }
func (t tsNode) NamedChildCount() int { return int(t.n.NamedChildCount()) }

func (t tsNode) NamedChild(i int) Node {
	if i < 0 || i >= t.NamedChildCount() {
		return nil
	}
	return wrap(t.n.NamedChild(i), t.src)
}

func (t tsNode) ChildByField(name string) Node {
	return wrap(t.n.ChildByFieldName(name), t.src)
}

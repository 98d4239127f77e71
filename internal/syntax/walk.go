package syntax

// Visitor is called for every node reached by Walk. Returning false skips
// the node's children; traversal of siblings continues.
type Visitor func(n Node) bool

// Walk visits root and its descendants in depth-first pre-order.
func Walk(root Node, visit Visitor) {
	if root == nil {
		return
	}
	if !visit(root) {
		return
	}
	for _, c := range Children(root) {
		Walk(c, visit)
	}
}

// Collect returns every node under root (root included) for which match
// reports true, in pre-order. Matching nodes are still descended into.
func Collect(root Node, match func(Node) bool) []Node {
	var out []Node
	Walk(root, func(n Node) bool {
		if match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

package ast

// WalkStatus controls a Walk.
type WalkStatus int

const (
	// WalkContinue visits the node's children and siblings.
	WalkContinue WalkStatus = iota
	// WalkSkipChildren skips the node's children.
	WalkSkipChildren
	// WalkStop ends the walk.
	WalkStop
)

// Walker is called on entering and leaving every node.
type Walker func(n *Node, entering bool) WalkStatus

// Walk visits n depth-first in document order. Children appended to a node
// while it is being entered are visited too.
func Walk(n *Node, fn Walker) WalkStatus {
	if n == nil {
		return WalkContinue
	}
	switch fn(n, true) {
	case WalkStop:
		return WalkStop
	case WalkSkipChildren:
	default:
		for i := 0; i < len(n.Children); i++ {
			if Walk(n.Children[i], fn) == WalkStop {
				return WalkStop
			}
		}
	}
	if fn(n, false) == WalkStop {
		return WalkStop
	}
	return WalkContinue
}

// Find returns every node under n (n included) of the given kind, in
// document order.
func Find(n *Node, kind Kind) []*Node {
	var out []*Node
	Walk(n, func(c *Node, entering bool) WalkStatus {
		if entering && c.Kind == kind {
			out = append(out, c)
		}
		return WalkContinue
	})
	return out
}

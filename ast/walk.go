package ast

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(t, Nil).
type Visitor interface {
	Visit(t *Tree, node NodeID) (w Visitor)
}

// Walk traverses the subtree rooted at node in depth-first order: It starts by calling
// v.Visit(t, node); node must not be Nil. If the visitor w returned by
// v.Visit(t, node) is not nil, Walk is invoked recursively with visitor
// w for each of the children of node, followed by a call of
// w.Visit(t, Nil).
func Walk(t *Tree, v Visitor, node NodeID) {
	if v = v.Visit(t, node); v == nil {
		return
	}
	for _, child := range t.nodes[node].children {
		Walk(t, v, child)
	}
	v.Visit(t, Nil)
}

// Inspect traverses the subtree rooted at node in depth-first order: It starts by calling
// f(node); node must not be Nil. If f returns true, Inspect invokes f
// recursively for each of the children of node, followed by a
// call of f(Nil).
//
// Inspect is a convenience wrapper around Walk that allows using a
// simple function instead of implementing the Visitor interface.
func Inspect(t *Tree, node NodeID, f func(NodeID) bool) {
	Walk(t, inspector(f), node)
}

type inspector func(NodeID) bool

func (f inspector) Visit(_ *Tree, node NodeID) Visitor {
	if node == Nil {
		f(Nil)
		return nil
	}
	if f(node) {
		return f
	}
	return nil
}

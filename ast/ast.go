package ast

import (
	"github.com/soypat/fort2jul/token"
)

// NodeID addresses a node in a [Tree]. Nodes never hold pointers to each other,
// so discarding a failed parse alternative is a matter of truncating the arena.
type NodeID int32

// Nil is the NodeID of no node. It is the parent of a root node.
const Nil NodeID = -1

// Node is a labeled tree node. Rule nodes are labeled with the name of the
// grammar rule that matched and have Tok == [token.Undefined]. Leaf nodes are
// labeled with their token kind name and carry the scanned lexeme.
type Node struct {
	Label string

	// Leaf fields.
	Tok     token.Token
	Text    string
	Literal any
	Line    int
	Col     int

	parent   NodeID
	children []NodeID
}

// IsLeaf returns true if the node was created from a token.
func (n *Node) IsLeaf() bool { return n.Tok != token.Undefined }

// Tree is an arena of nodes. Use [New] or call Reset before first use.
type Tree struct {
	nodes []Node
	// Root is the top node of the committed tree, Nil until set.
	Root NodeID
}

// New returns an empty tree.
func New() *Tree { return &Tree{Root: Nil} }

// Reset empties the tree, keeping allocated memory.
func (t *Tree) Reset() {
	t.nodes = t.nodes[:0]
	t.Root = Nil
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// NewRule appends a detached rule node labeled label.
func (t *Tree) NewRule(label string) NodeID {
	t.nodes = append(t.nodes, Node{Label: label, parent: Nil})
	return NodeID(len(t.nodes) - 1)
}

// NewLeaf appends a detached leaf node carrying lexeme lx.
func (t *Tree) NewLeaf(lx token.Lexeme) NodeID {
	t.nodes = append(t.nodes, Node{
		Label:   lx.Tok.String(),
		Tok:     lx.Tok,
		Text:    lx.Text,
		Literal: lx.Literal,
		Line:    lx.Line,
		Col:     lx.Col,
		parent:  Nil,
	})
	return NodeID(len(t.nodes) - 1)
}

// Attach appends child to parent's children. child must be detached.
func (t *Tree) Attach(parent, child NodeID) {
	if t.nodes[child].parent != Nil {
		panic("ast: attach of already attached node")
	}
	t.nodes[child].parent = parent
	t.nodes[parent].children = append(t.nodes[parent].children, child)
}

// Unwrap returns the only child of the detached node n when that child is a
// rule node, detaching it from n. Otherwise n is returned unchanged.
// An unwrapped n stays in the arena but is unreachable from any root.
func (t *Tree) Unwrap(n NodeID) NodeID {
	ch := t.nodes[n].children
	if len(ch) != 1 || t.nodes[ch[0]].IsLeaf() {
		return n
	}
	c := ch[0]
	t.nodes[n].children = ch[:0]
	t.nodes[c].parent = Nil
	return c
}

// Mark records the arena length and the child count of owner so that a
// failed parse attempt can be undone with [Tree.Rollback].
type Mark struct {
	len    int
	owner  NodeID
	nchild int
}

// Mark snapshots the tree state. owner is the node that children are being
// attached to during the attempt, or Nil.
func (t *Tree) Mark(owner NodeID) Mark {
	m := Mark{len: len(t.nodes), owner: owner}
	if owner != Nil {
		m.nchild = len(t.nodes[owner].children)
	}
	return m
}

// Rollback discards every node created after m was taken and detaches the
// children owner gained since then.
func (t *Tree) Rollback(m Mark) {
	t.nodes = t.nodes[:m.len]
	if m.owner != Nil {
		t.nodes[m.owner].children = t.nodes[m.owner].children[:m.nchild]
	}
}

// Node returns the node with the given id. The pointer is valid until the next
// mutation of the tree. Nil yields an empty detached node.
func (t *Tree) Node(id NodeID) *Node {
	if id == Nil {
		return &Node{parent: Nil}
	}
	return &t.nodes[id]
}

// Label returns the label of node id, or the empty string for Nil.
func (t *Tree) Label(id NodeID) string {
	if id == Nil {
		return ""
	}
	return t.nodes[id].Label
}

// Children returns the children of id in source order. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	if id == Nil {
		return nil
	}
	return t.nodes[id].children
}

// Parent returns the parent of id or Nil for a root or detached node.
func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Child returns the i'th child of id or Nil if there is no such child.
func (t *Tree) Child(id NodeID, i int) NodeID {
	ch := t.Children(id)
	if i < 0 || i >= len(ch) {
		return Nil
	}
	return ch[i]
}

// ChildLabeled returns the first direct child of id with the given label or Nil.
func (t *Tree) ChildLabeled(id NodeID, label string) NodeID {
	for _, c := range t.Children(id) {
		if t.nodes[c].Label == label {
			return c
		}
	}
	return Nil
}

// ChildrenLabeled returns the direct children of id with the given label.
func (t *Tree) ChildrenLabeled(id NodeID, label string) []NodeID {
	var out []NodeID
	for _, c := range t.Children(id) {
		if t.nodes[c].Label == label {
			out = append(out, c)
		}
	}
	return out
}

// HasChild returns true if id has a direct child labeled label.
func (t *Tree) HasChild(id NodeID, label string) bool {
	return t.ChildLabeled(id, label) != Nil
}

// Ancestor walks the parent chain of id, not including id itself, and returns
// the first node labeled label or Nil if no ancestor has that label.
func (t *Tree) Ancestor(id NodeID, label string) NodeID {
	for p := t.nodes[id].parent; p != Nil; p = t.nodes[p].parent {
		if t.nodes[p].Label == label {
			return p
		}
	}
	return Nil
}

// Find returns the first node labeled label in a depth-first pre-order
// traversal of the subtree rooted at id, id included. It returns Nil if none is found.
func (t *Tree) Find(id NodeID, label string) NodeID {
	found := Nil
	if id == Nil {
		return Nil
	}
	Inspect(t, id, func(n NodeID) bool {
		if n == Nil || found != Nil {
			return false
		}
		if t.nodes[n].Label == label {
			found = n
			return false
		}
		return true
	})
	return found
}

// FindAll returns all nodes labeled label in the subtree rooted at id in pre-order.
// Matches nested inside other matches are included.
func (t *Tree) FindAll(id NodeID, label string) []NodeID {
	var out []NodeID
	Inspect(t, id, func(n NodeID) bool {
		if n != Nil && t.nodes[n].Label == label {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Leaves returns the leaf nodes of the subtree rooted at id in source order.
func (t *Tree) Leaves(id NodeID) []NodeID {
	var out []NodeID
	Inspect(t, id, func(n NodeID) bool {
		if n != Nil && t.nodes[n].IsLeaf() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// FirstLeaf returns the first leaf in the subtree rooted at id or Nil.
func (t *Tree) FirstLeaf(id NodeID) NodeID {
	if id == Nil {
		return Nil
	}
	if t.nodes[id].IsLeaf() {
		return id
	}
	for _, c := range t.nodes[id].children {
		if leaf := t.FirstLeaf(c); leaf != Nil {
			return leaf
		}
	}
	return Nil
}

// Pos returns the line and column of the first token of the subtree rooted at id.
// Both are zero when the subtree has no leaves.
func (t *Tree) Pos(id NodeID) (line, col int) {
	leaf := t.FirstLeaf(id)
	if leaf == Nil {
		return 0, 0
	}
	return t.nodes[leaf].Line, t.nodes[leaf].Col
}

// Text returns the source text of the first leaf under id. It is the usual way
// to read the identifier held by a role node such as VariableName.
func (t *Tree) Text(id NodeID) string {
	if id == Nil {
		return ""
	}
	leaf := t.FirstLeaf(id)
	if leaf == Nil {
		return ""
	}
	return t.nodes[leaf].Text
}

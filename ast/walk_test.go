package ast

import (
	"testing"

	"github.com/soypat/fort2jul/token"
)

// buildAssignment builds the tree for `X = 1 + Y` by hand.
func buildAssignment(t *Tree) NodeID {
	stmt := t.NewRule("AssignmentStmt")
	t.Attach(stmt, t.NewLeaf(token.Lexeme{Tok: token.ID, Text: "X", Line: 1, Col: 7}))
	t.Attach(stmt, t.NewLeaf(token.Lexeme{Tok: token.EQUAL, Text: "=", Line: 1, Col: 9}))
	expr := t.NewRule("Expr")
	t.Attach(expr, t.NewLeaf(token.Lexeme{Tok: token.ICON, Text: "1", Literal: int64(1), Line: 1, Col: 11}))
	t.Attach(expr, t.NewLeaf(token.Lexeme{Tok: token.PLUS, Text: "+", Line: 1, Col: 13}))
	t.Attach(expr, t.NewLeaf(token.Lexeme{Tok: token.ID, Text: "Y", Line: 1, Col: 15}))
	t.Attach(stmt, expr)
	t.Root = stmt
	return stmt
}

// countVisitor counts how many times Visit is called with a non-nil node.
type countVisitor struct {
	count int
}

func (v *countVisitor) Visit(_ *Tree, node NodeID) Visitor {
	if node != Nil {
		v.count++
	}
	return v
}

func TestWalkVisitsAllNodes(t *testing.T) {
	tree := New()
	root := buildAssignment(tree)
	v := &countVisitor{}
	Walk(tree, v, root)
	if v.count != tree.Len() {
		t.Errorf("expected %d visits, got %d", tree.Len(), v.count)
	}
}

func TestInspectPrune(t *testing.T) {
	tree := New()
	root := buildAssignment(tree)
	var labels []string
	Inspect(tree, root, func(n NodeID) bool {
		if n == Nil {
			return false
		}
		labels = append(labels, tree.Label(n))
		return tree.Label(n) != "Expr"
	})
	want := []string{"AssignmentStmt", "ID", "EQUAL", "Expr"}
	if len(labels) != len(want) {
		t.Fatalf("got labels %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d: got %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestRollback(t *testing.T) {
	tree := New()
	root := tree.NewRule("Body")
	tree.Attach(root, tree.NewLeaf(token.Lexeme{Tok: token.ID, Text: "A"}))
	m := tree.Mark(root)
	cand := tree.NewRule("Expr")
	tree.Attach(cand, tree.NewLeaf(token.Lexeme{Tok: token.ID, Text: "B"}))
	tree.Attach(root, cand)
	tree.Rollback(m)
	if tree.Len() != 2 {
		t.Errorf("expected 2 nodes after rollback, got %d", tree.Len())
	}
	if n := len(tree.Children(root)); n != 1 {
		t.Errorf("expected 1 child after rollback, got %d", n)
	}
	// Arena must be reusable after a rollback.
	tree.Attach(root, tree.NewLeaf(token.Lexeme{Tok: token.ID, Text: "C"}))
	if got := Sexpr(tree, root); got != "(Body A C)" {
		t.Errorf("got %q", got)
	}
}

func TestAncestorAndFind(t *testing.T) {
	tree := New()
	root := buildAssignment(tree)
	y := tree.Leaves(root)[4]
	if tree.Node(y).Text != "Y" {
		t.Fatalf("unexpected leaf %q", tree.Node(y).Text)
	}
	if got := tree.Ancestor(y, "AssignmentStmt"); got != root {
		t.Errorf("ancestor: got %d, want %d", got, root)
	}
	if got := tree.Ancestor(y, "ProgramStmt"); got != Nil {
		t.Errorf("expected no ProgramStmt ancestor, got %d", got)
	}
	if got := tree.Find(root, "ICON"); tree.Node(got).Literal != int64(1) {
		t.Errorf("find ICON: got literal %v", tree.Node(got).Literal)
	}
	if got := len(tree.FindAll(root, "ID")); got != 2 {
		t.Errorf("expected 2 ID leaves, got %d", got)
	}
	line, col := tree.Pos(tree.ChildLabeled(root, "Expr"))
	if line != 1 || col != 11 {
		t.Errorf("Expr position: got %d:%d", line, col)
	}
}

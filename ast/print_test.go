package ast

import (
	"bytes"
	"strings"
	"testing"
)

func TestFprint(t *testing.T) {
	tree := New()
	root := buildAssignment(tree)
	var buf bytes.Buffer
	err := Fprint(&buf, tree, root)
	if err != nil {
		t.Fatalf("Fprint failed: %v", err)
	}
	output := buf.String()
	expected := []string{
		"AssignmentStmt\n",
		`. ID "X" @1:7`,
		". Expr\n",
		`. . ICON "1" @1:11`,
	}
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			t.Errorf("Output missing expected string %q\nGot:\n%s", exp, output)
		}
	}
}

func TestSexprAndSource(t *testing.T) {
	tree := New()
	root := buildAssignment(tree)
	if got, want := Sexpr(tree, root), "(AssignmentStmt X = (Expr 1 + Y))"; got != want {
		t.Errorf("Sexpr: got %q, want %q", got, want)
	}
	if got, want := Source(tree, root), "X=1+Y"; got != want {
		t.Errorf("Source: got %q, want %q", got, want)
	}
}

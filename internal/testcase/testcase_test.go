package testcase

import (
	"testing"

	"github.com/nalgeon/be"
)

const doc = "# Cases\n\n" +
	"Free text is ignored.\n\n" +
	"## Test: assign\n\n" +
	"```fortran\n      X = 1\n      END\n```\n\n" +
	"```julia\nglobal X = 1.0\n```\n\n" +
	"## Test: skipped\n\n" +
	"```fortran\n      SAVE\n      END\n```\n\n" +
	"```diagnostics\nSaveStmt\n\n```\n"

func TestExtract(t *testing.T) {
	cases, err := Extract([]byte(doc))
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	c := cases[0]
	be.Equal(t, c.Name, "assign")
	be.Equal(t, c.Line, 5)
	be.Equal(t, c.Fortran, "      X = 1\n      END\n")
	be.Equal(t, c.Julia, "global X = 1.0\n")
	be.True(t, !c.HasDiagnostics)

	c = cases[1]
	be.Equal(t, c.Name, "skipped")
	be.Equal(t, c.Julia, "")
	be.True(t, c.HasDiagnostics)
	be.Equal(t, c.Diagnostics, []string{"SaveStmt"})
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "outside", doc: "```fortran\n      END\n```\n"},
		{name: "no input", doc: "## Test: empty\n\n```julia\nx\n```\n"},
		{name: "unknown", doc: "## Test: odd\n\n```fortran\n      END\n```\n\n```go\nx\n```\n"},
		{name: "two inputs", doc: "## Test: two\n\n```fortran\n      END\n```\n\n```fortran\n      END\n```\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract([]byte(tt.doc))
			be.True(t, err != nil)
		})
	}
}

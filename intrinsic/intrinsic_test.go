package intrinsic

import (
	"slices"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ABS", []string{"x"}, "abs(x)"},
		{"sqrt", []string{"2.0"}, "sqrt(2.0)"},
		{"Mod", []string{"i", "3"}, "rem(i, 3)"},
		{"ATAN2", []string{"y", "x"}, "atan(y, x)"},
		{"INT", []string{"x"}, "trunc(Int, x)"},
		{"NINT", []string{"x"}, "round(Int, x)"},
		{"LEN", []string{"s"}, "length(s)"},
		{"INDEX", []string{"s", "\"b\""}, "fortran_index(s, \"b\")"},
		{"DIM", []string{"a", "b"}, "max(a - b, zero(a))"},
		{"LGE", []string{"a", "b"}, "(a >= b)"},
		{"AMAX1", []string{"a", "b", "c"}, "max(a, b, c)"},
		{"DBLE", []string{"x"}, "Float64(x)"},
	}
	for _, tt := range tests {
		f, ok := Lookup(tt.name)
		be.True(t, ok)
		be.Equal(t, f.Emit(tt.args), tt.want)
	}
	_, ok := Lookup("SWAP")
	be.True(t, !ok)
}

func TestNames(t *testing.T) {
	names := Names()
	be.True(t, slices.IsSorted(names))
	be.True(t, slices.Contains(names, "SQRT"))
	be.True(t, slices.Contains(names, "NINT"))
}

func TestMacros(t *testing.T) {
	for _, fn := range []string{"create_array", "parse_input", "try_parse", "fortran_index", "read_values"} {
		be.True(t, strings.Contains(Macros, "function "+fn+"("))
	}
}

func TestResultType(t *testing.T) {
	for name, want := range map[string]string{
		"INT":   "INTEGER",
		"nint":  "INTEGER",
		"FLOAT": "REAL",
		"DBLE":  "DOUBLE PRECISION",
		"ABS":   "",
		"MAX":   "",
		"LLT":   "LOGICAL",
	} {
		f, ok := Lookup(name)
		be.True(t, ok)
		be.Equal(t, f.Type, want)
	}
}

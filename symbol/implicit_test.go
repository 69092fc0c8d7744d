package symbol

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestImplicitRules(t *testing.T) {
	rules := DefaultImplicitRules()
	tests := []struct {
		name string
		want string
	}{
		{"A", "REAL"},
		{"h", "REAL"},
		{"I", "INTEGER"},
		{"n2", "INTEGER"},
		{"O", "REAL"},
		{"z", "REAL"},
	}
	for _, tt := range tests {
		got, ok := rules.TypeOf(tt.name)
		be.True(t, ok)
		be.Equal(t, got, tt.want)
	}

	err := rules.SetRange("DOUBLE PRECISION", 'a', 'h')
	be.Err(t, err, nil)
	got, _ := rules.TypeOf("ALPHA")
	be.Equal(t, got, "DOUBLE PRECISION")
	got, _ = rules.TypeOf("I")
	be.Equal(t, got, "INTEGER")

	cp := rules.Copy()
	cp.SetNone()
	_, ok := cp.TypeOf("I")
	be.True(t, !ok)
	_, ok = rules.TypeOf("I")
	be.True(t, ok)
}

func TestImplicitRangeErrors(t *testing.T) {
	rules := DefaultImplicitRules()
	be.True(t, rules.SetRange("REAL", 'Z', 'A') != nil)
	be.True(t, rules.SetRange("REAL", '1', 'C') != nil)
	_, ok := rules.TypeOf("_X")
	be.True(t, !ok)
	_, ok = rules.TypeOf("")
	be.True(t, !ok)
}

package symbol

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestScopeLookup(t *testing.T) {
	table := NewTable()
	table.DefineUnit("Area", KindFunction, "REAL", []string{"R"})
	sc := table.EnterScope("MAIN", ScopeProgram)
	sc.Declare("count", "INTEGER")
	sc.DeclareArray("Grid", []string{"10", "20"})

	be.Equal(t, table.Lookup("COUNT").Type, "INTEGER")
	be.Equal(t, table.Lookup("grid").Dims, []string{"10", "20"})
	be.True(t, table.IsArray("GRID"))
	be.True(t, !table.IsArray("COUNT"))
	be.True(t, table.IsCallable("AREA"))
	be.True(t, !table.IsCallable("COUNT"))
	be.Equal(t, table.Lookup("area").Params, []string{"R"})

	table.ExitScope()
	be.Equal(t, table.Lookup("COUNT"), (*Symbol)(nil))
	be.Equal(t, len(table.Units()), 1)
}

func TestArrayShadowsCallable(t *testing.T) {
	table := NewTable()
	table.DefineUnit("F", KindFunction, "REAL", nil)
	table.EnterScope("S", ScopeSubroutine).DeclareArray("F", []string{"3"})
	be.True(t, !table.IsCallable("F"))
	be.True(t, table.IsArray("F"))
}

func TestTypeOf(t *testing.T) {
	table := NewTable()
	sc := table.EnterScope("", ScopeProgram)
	sc.Declare("X", "DOUBLE PRECISION")
	tests := []struct {
		name string
		typ  string
		ok   bool
	}{
		{"X", "DOUBLE PRECISION", true},
		{"ITER", "INTEGER", true},
		{"nmax", "INTEGER", true},
		{"Alpha", "REAL", true},
		{"ZETA", "REAL", true},
	}
	for _, tt := range tests {
		typ, ok := table.TypeOf(tt.name)
		be.Equal(t, typ, tt.typ)
		be.Equal(t, ok, tt.ok)
	}
	sc.Implicit().SetNone()
	_, ok := table.TypeOf("ITER")
	be.True(t, !ok)
	typ, ok := table.TypeOf("X")
	be.True(t, ok)
	be.Equal(t, typ, "DOUBLE PRECISION")
}

func TestFormalsAndAssigned(t *testing.T) {
	table := NewTable()
	sc := table.EnterScope("SWAP", ScopeSubroutine)
	sc.SetFormals([]string{"A", "B"})
	be.Equal(t, sc.Formals(), []string{"A", "B"})
	be.True(t, sc.IsFormal("a"))
	be.True(t, !sc.IsFormal("T"))

	be.True(t, sc.MarkAssigned("T"))
	be.True(t, sc.MarkAssigned("A"))
	be.True(t, !sc.MarkAssigned("t"))
	be.Equal(t, sc.Assigned(), []string{"T", "A"})

	sc.MarkCommon("SHARED")
	be.True(t, sc.IsCommon("shared"))
}

func TestSpell(t *testing.T) {
	table := NewTable()
	be.Equal(t, table.Spell("Total"), "Total")
	be.Equal(t, table.Spell("TOTAL"), "Total")
	be.Equal(t, table.Spell("total"), "Total")
	be.Equal(t, table.Spell("n"), "n")
}

func TestFlags(t *testing.T) {
	var f Flags
	f = f.With(FlagArray|FlagCommon, true)
	be.True(t, f.HasAll(FlagArray|FlagCommon))
	f = f.With(FlagArray, false)
	be.True(t, !f.HasAny(FlagArray))
	be.True(t, f.HasAny(FlagCommon|FlagFormal))
}

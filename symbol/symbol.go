// Package symbol provides the symbol table the code generator threads through
// a translation: declared types, array-ness, callables, formal parameters,
// COMMON membership and the names each routine assigns.
package symbol

import (
	"slices"
	"strings"
)

// Flags
type Flags uint64

const (
	FlagImplicit Flags = 1 << iota // Type comes from IMPLICIT rules.
	FlagArray
	FlagFormal
	FlagCommon
	FlagAssigned
	FlagParameter
)

func (f Flags) HasAny(hasBits Flags) bool { return f&hasBits != 0 }
func (f Flags) HasAll(hasBits Flags) bool { return f&hasBits == hasBits }
func (f Flags) With(mask Flags, setBits bool) Flags {
	if setBits {
		return f | mask
	} else {
		return f &^ mask
	}
}

// Kind classifies what a name refers to.
type Kind int

const (
	KindUnknown Kind = iota
	KindVariable
	KindFunction
	KindSubroutine
	KindStatementFunction
	KindExternal
	KindIntrinsic
	KindProgram
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "Variable"
	case KindFunction:
		return "Function"
	case KindSubroutine:
		return "Subroutine"
	case KindStatementFunction:
		return "StatementFunction"
	case KindExternal:
		return "External"
	case KindIntrinsic:
		return "Intrinsic"
	case KindProgram:
		return "Program"
	default:
		return "Unknown"
	}
}

// IsCallable returns true for kinds invoked with call syntax.
func (k Kind) IsCallable() bool {
	return k >= KindFunction && k <= KindIntrinsic
}

// Symbol is a declared entity. Type holds the FORTRAN type tag as written in
// the declaration, normalized to upper case: INTEGER, REAL, DOUBLE PRECISION,
// COMPLEX, LOGICAL or CHARACTER.
type Symbol struct {
	Name  string // Spelling of first occurrence.
	Type  string
	Kind  Kind
	Dims  []string // Upper bounds of each dimension as target expressions.
	Flags Flags
	// Params holds the formal parameter names of functions, subroutines and statement functions.
	Params []string
}

// IsArray returns true if the symbol was declared with dimensions.
func (s *Symbol) IsArray() bool { return s.Flags.HasAny(FlagArray) }

// ScopeType identifies the program unit a scope belongs to.
type ScopeType int

const (
	ScopeGlobal ScopeType = iota
	ScopeProgram
	ScopeSubroutine
	ScopeFunction
	ScopeBlockData
)

func (st ScopeType) String() string {
	switch st {
	case ScopeGlobal:
		return "Global"
	case ScopeProgram:
		return "Program"
	case ScopeSubroutine:
		return "Subroutine"
	case ScopeFunction:
		return "Function"
	case ScopeBlockData:
		return "BlockData"
	default:
		return "Unknown"
	}
}

// Scope is the symbol table of one program unit.
type Scope struct {
	name      string
	scopeType ScopeType
	parent    *Scope
	symbols   map[string]*Symbol
	order     []string // Keys in declaration order.
	assigned  []string // Keys of assigned names in first-assignment order.
	formals   []string
	implicit  *ImplicitRules
}

func newScope(name string, typ ScopeType, parent *Scope) *Scope {
	imp := DefaultImplicitRules()
	if parent != nil && parent.implicit != nil {
		imp = parent.implicit.Copy()
	}
	return &Scope{
		name:      name,
		scopeType: typ,
		parent:    parent,
		symbols:   make(map[string]*Symbol),
		implicit:  imp,
	}
}

// Name returns the program unit name, empty for the global scope and unnamed main programs.
func (s *Scope) Name() string { return s.name }

func (s *Scope) Type() ScopeType { return s.scopeType }

func (s *Scope) Parent() *Scope { return s.parent }

// Implicit returns the implicit typing rules in effect for the scope.
func (s *Scope) Implicit() *ImplicitRules { return s.implicit }

// LookupLocal searches for a symbol only in this scope.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.symbols[key(name)]
}

// Lookup searches for a symbol in this scope and then its parents.
func (s *Scope) Lookup(name string) *Symbol {
	k := key(name)
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[k]; ok {
			return sym
		}
	}
	return nil
}

// Define returns the local symbol named name, creating a variable if it does not exist.
func (s *Scope) Define(name string) *Symbol {
	k := key(name)
	if sym, ok := s.symbols[k]; ok {
		return sym
	}
	sym := &Symbol{Name: name, Kind: KindVariable}
	s.symbols[k] = sym
	s.order = append(s.order, k)
	return sym
}

// Declare records an explicit type declaration for name.
func (s *Scope) Declare(name, typ string) *Symbol {
	sym := s.Define(name)
	sym.Type = typ
	sym.Flags = sym.Flags.With(FlagImplicit, false)
	return sym
}

// DeclareArray marks name as an array with the given upper bounds. If name has
// no declared type its type is taken from the implicit rules.
func (s *Scope) DeclareArray(name string, dims []string) *Symbol {
	sym := s.Define(name)
	sym.Dims = dims
	sym.Flags |= FlagArray
	if sym.Type == "" {
		sym.Type, _ = s.implicit.TypeOf(name)
		sym.Flags |= FlagImplicit
	}
	return sym
}

// Symbols returns the local symbols in declaration order.
func (s *Scope) Symbols() []*Symbol {
	syms := make([]*Symbol, len(s.order))
	for i, k := range s.order {
		syms[i] = s.symbols[k]
	}
	return syms
}

// SetFormals records the formal parameters of the scope's routine.
func (s *Scope) SetFormals(names []string) {
	s.formals = s.formals[:0]
	for _, name := range names {
		sym := s.Define(name)
		sym.Flags |= FlagFormal
		s.formals = append(s.formals, sym.Name)
	}
}

// Formals returns the formal parameter names in declaration order.
func (s *Scope) Formals() []string { return s.formals }

// IsFormal returns true if name is a formal parameter of the scope's routine.
func (s *Scope) IsFormal(name string) bool {
	sym := s.LookupLocal(name)
	return sym != nil && sym.Flags.HasAny(FlagFormal)
}

// MarkCommon records that name lives in a COMMON block.
func (s *Scope) MarkCommon(name string) *Symbol {
	sym := s.Define(name)
	sym.Flags |= FlagCommon
	return sym
}

// IsCommon returns true if name was listed in a COMMON statement of this scope.
func (s *Scope) IsCommon(name string) bool {
	sym := s.LookupLocal(name)
	return sym != nil && sym.Flags.HasAny(FlagCommon)
}

// MarkAssigned records an assignment to name and reports whether it is the first one.
func (s *Scope) MarkAssigned(name string) (first bool) {
	k := key(name)
	if slices.Contains(s.assigned, k) {
		return false
	}
	s.assigned = append(s.assigned, k)
	sym := s.Define(name)
	sym.Flags |= FlagAssigned
	return true
}

// Assigned returns the names assigned in this scope in first-assignment order.
func (s *Scope) Assigned() []string {
	names := make([]string, len(s.assigned))
	for i, k := range s.assigned {
		names[i] = s.symbols[k].Name
	}
	return names
}

// Table is the symbol table hierarchy of a translation: a global scope holding
// program units and one scope per unit. The zero value is not usable, use [NewTable].
type Table struct {
	global  *Scope
	current *Scope
	units   []*Scope
	// spelling maps the case-insensitive key of every name seen to its first spelling.
	spelling map[string]string
}

// NewTable returns a table with an empty global scope as the current scope.
func NewTable() *Table {
	g := newScope("", ScopeGlobal, nil)
	return &Table{
		global:   g,
		current:  g,
		spelling: make(map[string]string),
	}
}

// Global returns the global scope.
func (t *Table) Global() *Scope { return t.global }

// Current returns the innermost scope.
func (t *Table) Current() *Scope { return t.current }

// Units returns the program unit scopes in the order they were entered.
func (t *Table) Units() []*Scope { return t.units }

// EnterScope opens a new program unit scope nested in the global scope.
func (t *Table) EnterScope(name string, typ ScopeType) *Scope {
	sc := newScope(name, typ, t.global)
	t.units = append(t.units, sc)
	t.current = sc
	return sc
}

// ExitScope returns to the global scope.
func (t *Table) ExitScope() {
	t.current = t.global
}

// Lookup searches the current scope and then the global scope.
func (t *Table) Lookup(name string) *Symbol {
	return t.current.Lookup(name)
}

// DefineUnit registers a program unit in the global scope.
func (t *Table) DefineUnit(name string, kind Kind, typ string, params []string) *Symbol {
	sym := t.global.Define(t.Spell(name))
	sym.Kind = kind
	sym.Params = params
	if typ != "" {
		sym.Type = typ
	}
	return sym
}

// IsArray returns true if name resolves to an array in the current scope.
func (t *Table) IsArray(name string) bool {
	sym := t.current.LookupLocal(name)
	return sym != nil && sym.IsArray()
}

// IsCallable returns true if name resolves to a function, subroutine,
// statement function, intrinsic or external procedure. A local array shadows
// a procedure of the same name.
func (t *Table) IsCallable(name string) bool {
	if sym := t.current.LookupLocal(name); sym != nil {
		if sym.IsArray() {
			return false
		}
		if sym.Kind.IsCallable() {
			return true
		}
	}
	sym := t.global.LookupLocal(name)
	return sym != nil && sym.Kind.IsCallable()
}

// TypeOf returns the declared type of name, falling back to the implicit
// typing rules of the current scope. ok is false when name has no declared
// type and IMPLICIT NONE is in effect.
func (t *Table) TypeOf(name string) (typ string, ok bool) {
	if sym := t.current.Lookup(name); sym != nil && sym.Type != "" {
		return sym.Type, true
	}
	return t.current.implicit.TypeOf(name)
}

// Spell returns the canonical spelling of name: the spelling of its first
// occurrence in the translation. FORTRAN names are case-insensitive while
// Julia names are not, so every emitted name goes through Spell.
func (t *Table) Spell(name string) string {
	k := key(name)
	if s, ok := t.spelling[k]; ok {
		return s
	}
	t.spelling[k] = name
	return name
}

func key(name string) string {
	return strings.ToUpper(name)
}

package symbol

import (
	"errors"
	"fmt"

	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/token"
)

// Collector traverses a parsed program and populates a [Table] with program
// units, formal parameters and the declarations of each unit.
type Collector struct {
	table *Table
	tree  *ast.Tree
	// unitsOnly stops the traversal at program unit headers.
	unitsOnly bool
	errors    []error
	stack     []ast.NodeID // Nodes descended into, for scope exits.
}

// Collect builds a complete symbol table for the program in t.
func Collect(t *ast.Tree) (*Table, error) {
	c := &Collector{table: NewTable(), tree: t}
	return c.table, c.run()
}

// CollectUnits registers every function, subroutine and named program of t in
// the global scope of table along with their formal parameters. Code
// generation runs it first so that a call to a routine defined further down
// the file resolves as a call.
func CollectUnits(t *ast.Tree, table *Table) error {
	c := &Collector{table: table, tree: t, unitsOnly: true}
	return c.run()
}

// NewCollector returns a collector that records declarations into table as
// the caller visits statements, so that the table only knows what was
// declared before the statement being looked at. Program units are expected
// to be registered already by [CollectUnits].
func NewCollector(t *ast.Tree, table *Table) *Collector {
	return &Collector{table: table, tree: t}
}

// EnterUnit opens the scope of a program unit node and records its formal parameters.
func (c *Collector) EnterUnit(unit ast.NodeID) *Scope {
	h := c.header(unit)
	return c.enter(h)
}

// ExitUnit closes the scope opened by EnterUnit.
func (c *Collector) ExitUnit() { c.table.ExitScope() }

// Statement records the declarations made by a single statement node in the
// current scope. It reports false for nodes that declare nothing.
func (c *Collector) Statement(node ast.NodeID) bool {
	return c.statement(node)
}

// Err returns the errors found so far joined into one.
func (c *Collector) Err() error { return errors.Join(c.errors...) }

func (c *Collector) run() error {
	c.errors = c.errors[:0]
	if c.tree.Root == ast.Nil {
		return errors.New("empty tree")
	}
	ast.Walk(c.tree, c, c.tree.Root)
	return c.Err()
}

// Visit implements the ast.Visitor interface.
func (c *Collector) Visit(t *ast.Tree, node ast.NodeID) ast.Visitor {
	if node == ast.Nil {
		// Exiting a node.
		last := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if IsUnit(t.Label(last)) {
			c.table.ExitScope()
		}
		return nil
	}
	n := t.Node(node)
	if n.IsLeaf() {
		return nil
	}
	if IsUnit(n.Label) {
		h := c.header(node)
		c.register(h)
		if c.unitsOnly {
			return nil
		}
		c.enter(h)
	} else if c.statement(node) {
		return nil
	}
	c.stack = append(c.stack, node)
	return c
}

func (c *Collector) statement(node ast.NodeID) bool {
	t := c.tree
	switch t.Label(node) {
	case "TypeDeclarationStmt":
		c.typeDeclaration(node)
	case "DimensionStmt":
		for _, decl := range t.FindAll(node, "ArrayDeclarator") {
			c.table.current.DeclareArray(c.spell(decl), c.bounds(t.ChildLabeled(decl, "ArraySpec")))
		}
	case "CommonStmt":
		for _, obj := range t.FindAll(node, "CommonBlockObject") {
			sym := c.table.current.MarkCommon(c.spell(obj))
			if spec := t.ChildLabeled(obj, "ArraySpec"); spec != ast.Nil {
				c.table.current.DeclareArray(sym.Name, c.bounds(spec))
			}
		}
	case "ParameterStmt":
		for _, def := range t.FindAll(node, "NamedConstantDef") {
			sym := c.table.current.Define(c.spell(def))
			sym.Flags |= FlagParameter
		}
	case "ExternalStmt":
		for _, name := range t.FindAll(node, "ExternalName") {
			sym := c.table.current.Define(c.spell(name))
			if !sym.Kind.IsCallable() {
				sym.Kind = KindExternal
			}
		}
	case "IntrinsicStmt":
		for _, name := range t.FindAll(node, "IntrinsicProcedureName") {
			c.table.current.Define(c.spell(name)).Kind = KindIntrinsic
		}
	case "ImplicitStmt":
		c.implicit(node)
	case "AssignmentStmt":
		c.assignment(node)
	case "FormatStmt", "DataStmt", "EOS":
	default:
		return false
	}
	return true
}

// IsUnit returns true for the labels of program unit nodes.
func IsUnit(label string) bool {
	switch label {
	case "MainProgram", "FunctionSubprogram", "SubroutineSubprogram", "BlockDataSubprogram":
		return true
	}
	return false
}

type unitHeader struct {
	node   ast.NodeID
	name   string
	typ    string
	kind   Kind
	scope  ScopeType
	params []string
}

func (c *Collector) header(node ast.NodeID) unitHeader {
	t := c.tree
	h := unitHeader{node: node}
	switch t.Label(node) {
	case "MainProgram":
		h.name = t.Text(t.Find(t.ChildLabeled(node, "ProgramStmt"), "ProgramName"))
		h.kind, h.scope = KindProgram, ScopeProgram
	case "FunctionSubprogram":
		stmt := t.ChildLabeled(node, "FunctionStmt")
		h.name = t.Text(t.ChildLabeled(stmt, "FunctionName"))
		if spec := t.ChildLabeled(stmt, "TypeSpec"); spec != ast.Nil {
			h.typ = TypeName(t, spec)
		}
		h.params = c.params(stmt)
		h.kind, h.scope = KindFunction, ScopeFunction
	case "SubroutineSubprogram":
		stmt := t.ChildLabeled(node, "SubroutineStmt")
		h.name = t.Text(t.ChildLabeled(stmt, "SubroutineName"))
		h.params = c.params(stmt)
		h.kind, h.scope = KindSubroutine, ScopeSubroutine
	case "BlockDataSubprogram":
		h.name = t.Text(t.Find(t.ChildLabeled(node, "BlockDataStmt"), "BlockDataName"))
		h.kind, h.scope = KindProgram, ScopeBlockData
	}
	if h.typ == "" && h.kind == KindFunction {
		h.typ, _ = DefaultImplicitRules().TypeOf(h.name)
	}
	return h
}

// register defines the unit in the global scope.
func (c *Collector) register(h unitHeader) {
	if h.name == "" {
		return
	}
	if prev := c.table.global.LookupLocal(h.name); prev != nil && prev.Kind.IsCallable() && h.kind.IsCallable() {
		line, _ := c.tree.Pos(h.node)
		c.errors = append(c.errors, fmt.Errorf("line %d: %s %q redefined", line, h.kind, h.name))
	}
	c.table.DefineUnit(h.name, h.kind, h.typ, h.params)
}

// enter opens the unit's scope.
func (c *Collector) enter(h unitHeader) *Scope {
	sc := c.table.EnterScope(c.table.Spell(h.name), h.scope)
	sc.SetFormals(h.params)
	if h.kind == KindFunction {
		sc.Declare(h.name, h.typ)
	}
	return sc
}

// params returns the dummy argument names of a FUNCTION or SUBROUTINE statement.
// Alternate return markers (*) are skipped.
func (c *Collector) params(stmt ast.NodeID) []string {
	var params []string
	for _, arg := range c.tree.FindAll(stmt, "DummyArgName") {
		params = append(params, c.spell(arg))
	}
	return params
}

func (c *Collector) typeDeclaration(node ast.NodeID) {
	t := c.tree
	typ := TypeName(t, t.ChildLabeled(node, "TypeSpec"))
	for _, decl := range t.FindAll(node, "EntityDecl") {
		name := c.spell(decl)
		c.table.current.Declare(name, typ)
		if spec := t.ChildLabeled(decl, "ArraySpec"); spec != ast.Nil {
			c.table.current.DeclareArray(name, c.bounds(spec))
		}
	}
}

func (c *Collector) implicit(node ast.NodeID) {
	t := c.tree
	rules := c.table.current.implicit
	if t.HasChild(node, token.NONE.String()) {
		rules.SetNone()
		return
	}
	for _, spec := range t.FindAll(node, "ImplicitSpec") {
		typ := TypeName(t, t.ChildLabeled(spec, "TypeSpec"))
		for _, rng := range t.FindAll(spec, "ImplicitRange") {
			letters := t.ChildrenLabeled(rng, token.ID.String())
			if len(letters) == 0 {
				continue
			}
			from := t.Node(letters[0]).Text
			to := t.Node(letters[len(letters)-1]).Text
			if len(from) != 1 || len(to) != 1 {
				line, _ := t.Pos(rng)
				c.errors = append(c.errors, fmt.Errorf("line %d: implicit range %s-%s is not a letter range", line, from, to))
				continue
			}
			if err := rules.SetRange(typ, rune(from[0]), rune(to[0])); err != nil {
				line, _ := t.Pos(rng)
				c.errors = append(c.errors, fmt.Errorf("line %d: %w", line, err))
			}
		}
	}
}

// assignment records the assigned variable or, for a statement function
// definition, the function and its dummy arguments.
func (c *Collector) assignment(node ast.NodeID) {
	t := c.tree
	target := t.ChildLabeled(node, "Variable")
	name := c.spell(target)
	if args, ok := StatementFunctionArgs(t, node, c.table); ok {
		sym := c.table.current.Define(name)
		sym.Kind = KindStatementFunction
		sym.Params = args
		if sym.Type == "" {
			sym.Type, _ = c.table.current.implicit.TypeOf(name)
		}
		return
	}
	c.table.current.MarkAssigned(name)
}

// StatementFunctionArgs reports whether the AssignmentStmt node defines a
// statement function, NAME(a, b) = expr, and returns its dummy argument names.
// The parser cannot tell these apart from array element assignments: NAME must
// not be an array in the current scope and every argument must be a bare name.
func StatementFunctionArgs(t *ast.Tree, assignment ast.NodeID, table *Table) (args []string, ok bool) {
	target := t.ChildLabeled(assignment, "Variable")
	tails := t.ChildrenLabeled(target, "ComplexDataRefTail")
	name := t.Text(target)
	if len(tails) != 1 || table.IsArray(name) || table.current.IsFormal(name) {
		return nil, false
	}
	for _, sub := range t.FindAll(tails[0], "SectionSubscript") {
		leaves := t.Leaves(sub)
		if len(leaves) != 1 || t.Node(leaves[0]).Tok != token.ID {
			return nil, false
		}
		args = append(args, table.Spell(t.Node(leaves[0]).Text))
	}
	return args, len(args) > 0
}

// bounds returns the upper bound source text of each dimension of an ArraySpec.
func (c *Collector) bounds(spec ast.NodeID) []string {
	var dims []string
	for _, dim := range c.tree.ChildrenLabeled(spec, "ExplicitShapeSpec") {
		dims = append(dims, ast.Source(c.tree, c.tree.ChildLabeled(dim, "UpperBound")))
	}
	return dims
}

func (c *Collector) spell(roleNode ast.NodeID) string {
	return c.table.Spell(c.tree.Text(roleNode))
}

// TypeName returns the normalized type tag of a TypeSpec node:
// INTEGER, REAL, DOUBLE PRECISION, COMPLEX, LOGICAL or CHARACTER.
func TypeName(t *ast.Tree, typeSpec ast.NodeID) string {
	if typeSpec == ast.Nil {
		return ""
	}
	leaf := t.FirstLeaf(typeSpec)
	switch tok := t.Node(leaf).Tok; tok {
	case token.DOUBLE, token.DOUBLEPRECISION:
		return "DOUBLE PRECISION"
	default:
		return tok.String()
	}
}

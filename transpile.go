package fort2jul

import (
	"cmp"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/intrinsic"
	"github.com/soypat/fort2jul/symbol"
	"github.com/soypat/fort2jul/token"
)

// ToJulia generates Julia source from a parsed FORTRAN 77 program. The tree is
// walked once in source order and the symbol table only knows what was declared
// before the statement being generated, which is what decides whether
// NAME(...) is written as an array element or as a call.
//
// Constructs with no Julia lowering produce no code and a [Diagnostic].
type ToJulia struct {
	tree   *ast.Tree
	syms   *symbol.Table
	col    *symbol.Collector
	log    *slog.Logger
	source string
	macros string
	indent string

	depth int
	unit  *unitState
	diags []Diagnostic
	// blockData holds the keys of variables given values by BLOCK DATA units.
	blockData map[string]bool
}

// unitState is the generator state of the program unit being translated.
type unitState struct {
	node  ast.NodeID
	kind  string // AST label of the unit.
	name  string // Spelled unit name.
	scope *symbol.Scope
	// global is set for the main program and BLOCK DATA, whose variables are Julia globals.
	global   bool
	formats  map[string]format
	targets  map[string]bool // Labels jumped to.
	common   map[string]bool
	declared map[string]bool // Keys of names given an initializer.
	arrays   map[string]bool // Keys of names given an array initializer.
	params   map[string]bool // Keys of PARAMETER constants.
	loops    []openLoop
	// locals are implicitly declared variables a routine assigns or passes to
	// a CALL, and in the main program the plain names passed to a CALL. They
	// are initialized before the first executable statement so that a value
	// assigned inside a loop body is visible after the loop and a CALL never
	// reads an unbound name.
	locals     []string
	localsDone bool
}

type openLoop struct {
	label string
	depth int    // Depth of the for line.
	index string // Key of the DO variable.
}

type format struct {
	printf string // Quoted @printf format.
	values int
	failed bool
}

// Reset prepares the generator to translate tree. Program units are registered
// up front so calls to routines defined further down the file resolve.
func (tg *ToJulia) Reset(tree *ast.Tree, opts Options) error {
	if tree == nil || tree.Root == ast.Nil {
		return errors.New("empty tree")
	}
	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}
	*tg = ToJulia{
		tree:      tree,
		syms:      symbol.NewTable(),
		log:       log,
		source:    opts.Source,
		macros:    cmp.Or(opts.MacrosFile, intrinsic.MacrosFile),
		indent:    cmp.Or(opts.Indent, "\t"),
		diags:     tg.diags[:0],
		blockData: make(map[string]bool),
	}
	if err := symbol.CollectUnits(tree, tg.syms); err != nil {
		tg.diag(SeverityWarning, tree.Root, RuleProgramUnit, err.Error())
	}
	tg.col = symbol.NewCollector(tree, tg.syms)
	return nil
}

// Symbols returns the symbol table built while generating.
func (tg *ToJulia) Symbols() *symbol.Table { return tg.syms }

// Transpile generates the Julia program. Diagnostics are returned in source order.
func (tg *ToJulia) Transpile() (string, []Diagnostic) {
	t := tg.tree
	dst := tg.header(nil)
	for _, c := range t.Children(t.Root) {
		n := t.Node(c)
		switch {
		case n.Tok == token.COMMENT:
			dst = tg.comment(dst, n.Text)
		case n.Label == "ExecutableProgram":
			dst = tg.transformProgram(dst, c)
		case n.Tok == token.ID || n.Tok == token.FCON:
			// Fragment made of a lone name.
			dst = tg.line(dst, tg.callee(n.Text))
		}
	}
	slices.SortStableFunc(tg.diags, func(a, b Diagnostic) int {
		return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.Col, b.Col))
	})
	return string(dst), tg.diags
}

func (tg *ToJulia) header(dst []byte) []byte {
	dst = append(dst, "include("...)
	dst = append(dst, JuliaString(tg.macros)...)
	dst = append(dst, ")\n\n"...)
	if tg.source != "" {
		dst = append(dst, "# Original file located at: "...)
		dst = append(dst, tg.source...)
		dst = append(dst, "\n\n"...)
	}
	return append(dst, "using Printf\n\n"...)
}

// transformProgram writes functions, subroutines and BLOCK DATA first and the
// main program last, so every routine is defined before the top level code runs.
func (tg *ToJulia) transformProgram(dst []byte, prog ast.NodeID) []byte {
	t := tg.tree
	var mains []ast.NodeID
	for _, unit := range t.Children(prog) {
		if t.Label(unit) != "BlockDataSubprogram" {
			continue
		}
		for _, data := range t.FindAll(unit, "DataStmt") {
			for _, name := range t.FindAll(data, "VariableName") {
				tg.blockData[strings.ToUpper(t.Text(name))] = true
			}
		}
	}
	first := true
	emit := func(unit ast.NodeID) {
		if !first {
			dst = append(dst, '\n')
		}
		first = false
		dst = tg.transformUnit(dst, unit)
	}
	for _, unit := range t.Children(prog) {
		if t.Label(unit) == "MainProgram" {
			mains = append(mains, unit)
			continue
		}
		emit(unit)
	}
	for _, unit := range mains {
		emit(unit)
	}
	return dst
}

func (tg *ToJulia) newUnit(unit ast.NodeID) *unitState {
	t := tg.tree
	u := &unitState{
		node:     unit,
		kind:     t.Label(unit),
		formats:  make(map[string]format),
		targets:  make(map[string]bool),
		common:   make(map[string]bool),
		declared: make(map[string]bool),
		arrays:   make(map[string]bool),
		params:   make(map[string]bool),
	}
	u.global = u.kind == "MainProgram" || u.kind == "BlockDataSubprogram"
	for _, obj := range t.FindAll(unit, "CommonBlockObject") {
		u.common[strings.ToUpper(t.Text(obj))] = true
	}
	for _, def := range t.FindAll(unit, "NamedConstantDef") {
		u.params[strings.ToUpper(t.Text(def))] = true
	}
	for _, label := range []string{"GotoStmt", "ComputedGotoStmt"} {
		for _, jump := range t.FindAll(unit, label) {
			for _, ref := range t.FindAll(jump, "LblRef") {
				u.targets[labelKey(t.Text(ref))] = true
			}
		}
	}
	for _, stmt := range t.FindAll(unit, "FormatStmt") {
		spec := tg.fmtSpecText(t.ChildLabeled(stmt, "FmtSpec"))
		f, ok := tg.parseFormat(stmt, spec)
		f.failed = !ok
		u.formats[labelKey(t.Text(t.ChildLabeled(stmt, "LblDef")))] = f
	}
	seen := make(map[string]bool)
	add := func(name string) {
		if k := strings.ToUpper(name); !seen[k] {
			seen[k] = true
			u.locals = append(u.locals, name)
		}
	}
	if !u.global {
		for _, stmt := range t.FindAll(unit, "AssignmentStmt") {
			if v := t.ChildLabeled(stmt, "Variable"); !t.HasChild(v, "ComplexDataRefTail") {
				add(t.Text(v))
			}
		}
		for _, list := range t.FindAll(unit, "InputItemList") {
			for _, v := range t.ChildrenLabeled(list, "Variable") {
				if !t.HasChild(v, "ComplexDataRefTail") {
					add(t.Text(v))
				}
			}
		}
	}
	for _, call := range t.FindAll(unit, "CallStmt") {
		for _, arg := range t.ChildrenLabeled(t.ChildLabeled(call, "SubroutineArgList"), "SubroutineArg") {
			if name := argName(t, t.Child(arg, 0)); name != "" {
				add(name)
			}
		}
	}
	return u
}

// argName returns the name an actual argument consists of, or "" when the
// argument is an expression, a constant or an array element.
func argName(t *ast.Tree, e ast.NodeID) string {
	if t.Label(e) != "Expr" || len(t.Children(e)) != 1 {
		return ""
	}
	prim := t.Child(e, 0)
	if t.Label(prim) != "Primary" {
		return ""
	}
	ref := t.Child(prim, 0)
	if t.Label(ref) != "NameDataRef" || t.HasChild(ref, "ComplexDataRefTail") {
		return ""
	}
	return t.Text(t.ChildLabeled(ref, "Name"))
}

func (tg *ToJulia) transformUnit(dst []byte, unit ast.NodeID) []byte {
	t := tg.tree
	tg.unit = tg.newUnit(unit)
	u := tg.unit
	u.scope = tg.col.EnterUnit(unit)
	u.name = u.scope.Name()
	defer func() {
		tg.col.ExitUnit()
		tg.unit = nil
		tg.depth = 0
	}()
	routine := u.kind == "FunctionSubprogram" || u.kind == "SubroutineSubprogram"
	for _, c := range t.Children(unit) {
		switch t.Label(c) {
		case "FunctionStmt", "SubroutineStmt":
			formals := make([]string, len(u.scope.Formals()))
			for i, name := range u.scope.Formals() {
				formals[i] = tg.ident(name)
			}
			dst = tg.line(dst, "function "+tg.callee(u.name)+"("+strings.Join(formals, ", ")+")")
			tg.depth++
			dst = tg.trailing(dst, c)
			if u.kind == "FunctionSubprogram" {
				typ, _ := tg.syms.TypeOf(u.name)
				dst = tg.line(dst, tg.ident(u.name)+" = "+zeroValue(typ))
			}
		case "ProgramStmt", "BlockDataStmt":
			dst = tg.trailing(dst, c)
		case "Body":
			for _, stmt := range t.Children(c) {
				dst = tg.transformStatement(dst, stmt)
			}
		case "EndProgramStmt", "EndFunctionStmt", "EndSubroutineStmt", "EndBlockDataStmt":
			for len(u.loops) > 0 {
				loop := u.loops[len(u.loops)-1]
				tg.diag(SeverityWarning, c, "LabelDoStmt", "DO loop ending at label "+loop.label+" is never closed")
				dst = tg.closeLoop(dst)
			}
			dst = tg.labelDef(dst, c)
			if routine {
				if !tg.endsWithReturn(unit) {
					dst = tg.line(dst, tg.returnValue())
				}
				tg.depth--
				dst = tg.line(dst, "end")
			}
			dst = tg.trailing(dst, c)
		}
	}
	return dst
}

func (tg *ToJulia) endsWithReturn(unit ast.NodeID) bool {
	t := tg.tree
	body := t.ChildLabeled(unit, "Body")
	if body == ast.Nil {
		return false
	}
	ch := t.Children(body)
	return len(ch) > 0 && t.Label(ch[len(ch)-1]) == "ReturnStmt"
}

// transformStatement writes one statement of a unit body or IF block:
// its label marker, its code, its trailing comments and the end of every DO
// loop it terminates.
func (tg *ToJulia) transformStatement(dst []byte, stmt ast.NodeID) []byte {
	tg.col.Statement(stmt)
	if !tg.unit.localsDone && !tg.isSpecification(stmt) {
		dst = tg.initLocals(dst)
	}
	dst = tg.labelDef(dst, stmt)
	dst = tg.statement(dst, stmt)
	dst = tg.trailing(dst, stmt)
	label := tg.labelOf(stmt)
	if tg.tree.Label(stmt) == "IfConstruct" {
		ch := tg.tree.Children(stmt)
		label = tg.labelOf(ch[len(ch)-1])
	}
	if label == "" {
		return dst
	}
	for len(tg.unit.loops) > 0 {
		loop := tg.unit.loops[len(tg.unit.loops)-1]
		if loop.label != label || loop.depth+1 != tg.depth {
			break
		}
		dst = tg.closeLoop(dst)
	}
	return dst
}

func (tg *ToJulia) closeLoop(dst []byte) []byte {
	tg.unit.loops = tg.unit.loops[:len(tg.unit.loops)-1]
	tg.depth--
	return tg.line(dst, "end")
}

// statement writes the code of a single statement.
func (tg *ToJulia) statement(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	switch label := t.Label(stmt); label {
	case "AssignmentStmt":
		dst = tg.transformAssignment(dst, stmt)
	case "StmtFunctionStmt":
		dst = tg.transformStmtFunction(dst, stmt)
	case "LabelDoStmt":
		dst = tg.transformDo(dst, stmt)
	case "IfConstruct":
		dst = tg.transformIfConstruct(dst, stmt)
	case "IfStmt":
		dst = tg.transformIfStmt(dst, stmt)
	case "GotoStmt":
		dst = tg.line(dst, "@goto "+tg.labelName(t.Text(t.ChildLabeled(stmt, "LblRef"))))
	case "ComputedGotoStmt":
		dst = tg.transformComputedGoto(dst, stmt)
	case "ContinueStmt", "ImplicitStmt", "FormatStmt":
	case "CallStmt":
		dst = tg.transformCall(dst, stmt)
	case "ReturnStmt":
		if t.HasChild(stmt, "Expr") {
			tg.diag(SeverityWarning, stmt, label, "alternate return index dropped")
		}
		dst = tg.line(dst, tg.returnValue())
	case "StopStmt":
		dst = tg.transformStop(dst, stmt)
	case "PrintStmt":
		dst = tg.transformPrint(dst, stmt)
	case "WriteStmt":
		dst = tg.transformWrite(dst, stmt)
	case "ReadStmt":
		dst = tg.transformRead(dst, stmt)
	case "OpenStmt":
		dst = tg.transformOpen(dst, stmt)
	case "CloseStmt":
		if h := tg.unitHandle(tg.specUnit(t.ChildLabeled(stmt, "CloseSpecList"))); h != "" && h != "stderr" {
			dst = tg.line(dst, "close("+h+")")
		}
	case "RewindStmt":
		if h := tg.unitHandle(tg.positionUnit(stmt)); h != "" && h != "stderr" {
			dst = tg.line(dst, "seekstart("+h+")")
		}
	case "TypeDeclarationStmt":
		dst = tg.transformTypeDeclaration(dst, stmt)
	case "DimensionStmt":
		dst = tg.transformDimension(dst, stmt)
	case "CommonStmt":
		dst = tg.transformCommon(dst, stmt)
	case "ParameterStmt":
		dst = tg.transformParameter(dst, stmt)
	case "DataStmt":
		dst = tg.transformData(dst, stmt)
	case "ExternalStmt", "IntrinsicStmt":
		tg.diag(SeverityInfo, stmt, label, "declaration has no Julia equivalent")
	case "ArithmeticIfStmt":
		tg.diag(SeverityWarning, stmt, label, "arithmetic IF is not translated")
	case "EquivalenceStmt":
		tg.diag(SeverityWarning, stmt, label, "storage association is not translated")
	case "SaveStmt":
		tg.diag(SeverityWarning, stmt, label, "saved variables are not preserved between calls")
	case "AssignStmt", "AssignedGotoStmt":
		tg.diag(SeverityWarning, stmt, label, "label variables are not translated")
	case "PauseStmt", "EntryStmt", "BackspaceStmt", "EndfileStmt", "InquireStmt":
		tg.diag(SeverityWarning, stmt, label, "statement is not translated")
	default:
		tg.diag(SeverityWarning, stmt, label, "no translation for "+label)
	}
	return dst
}

// isSpecification reports whether stmt may precede the executable statements of a unit.
func (tg *ToJulia) isSpecification(stmt ast.NodeID) bool {
	switch tg.tree.Label(stmt) {
	case "TypeDeclarationStmt", "DimensionStmt", "CommonStmt", "ParameterStmt", "DataStmt",
		"ImplicitStmt", "FormatStmt", "EquivalenceStmt", "ExternalStmt", "IntrinsicStmt",
		"SaveStmt", "EntryStmt", "StmtFunctionStmt":
		return true
	case "AssignmentStmt":
		sym := tg.syms.Current().LookupLocal(tg.tree.Text(tg.tree.ChildLabeled(stmt, "Variable")))
		return sym != nil && sym.Kind == symbol.KindStatementFunction
	}
	return false
}

// initLocals writes a zero initializer for each implicitly declared local of a unit.
func (tg *ToJulia) initLocals(dst []byte) []byte {
	u := tg.unit
	u.localsDone = true
	for _, name := range u.locals {
		k := strings.ToUpper(name)
		if u.declared[k] || u.params[k] || u.scope.IsFormal(name) || u.scope.IsCommon(name) || tg.isResult(name) {
			continue
		}
		if tg.procedure(name).IsCallable() {
			continue
		}
		if sym := u.scope.LookupLocal(name); sym != nil &&
			(sym.IsArray() || sym.Kind == symbol.KindStatementFunction || sym.Flags.HasAny(symbol.FlagParameter)) {
			continue
		}
		typ, _ := tg.syms.TypeOf(name)
		dst = tg.line(dst, tg.globalPrefix()+tg.ident(name)+" = "+zeroValue(typ))
		u.declared[k] = true
	}
	return dst
}

func (tg *ToJulia) transformDo(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	ctl := t.ChildLabeled(stmt, "LoopControl")
	index := t.Text(t.ChildLabeled(ctl, "VariableName"))
	dst = tg.line(dst, "for "+tg.ident(index)+" in "+tg.rangeOf(t.ChildrenLabeled(ctl, "Expr")))
	tg.unit.loops = append(tg.unit.loops, openLoop{
		label: labelKey(t.Text(t.ChildLabeled(stmt, "DoLblRef"))),
		depth: tg.depth,
		index: strings.ToUpper(index),
	})
	tg.depth++
	return dst
}

// rangeOf writes the Julia range of DO loop bounds: first, last and optional stride.
func (tg *ToJulia) rangeOf(bounds []ast.NodeID) string {
	if len(bounds) < 2 {
		return "()"
	}
	lo, hi := tg.expr(bounds[0]), tg.expr(bounds[1])
	if len(bounds) > 2 {
		return lo + ":" + tg.expr(bounds[2]) + ":" + hi
	}
	return lo + ":" + hi
}

func (tg *ToJulia) transformIfConstruct(dst []byte, node ast.NodeID) []byte {
	t := tg.tree
	for _, c := range t.Children(node) {
		switch t.Label(c) {
		case "IfThenStmt":
			dst = tg.labelDef(dst, c)
			dst = tg.line(dst, "if "+tg.expr(t.ChildLabeled(c, "Expr")))
		case "ElseIfStmt":
			dst = tg.line(dst, "elseif "+tg.expr(t.ChildLabeled(c, "Expr")))
		case "ElseStmt":
			dst = tg.line(dst, "else")
		case "EndIfStmt":
			tg.depth++
			dst = tg.labelDef(dst, c)
			tg.depth--
			dst = tg.line(dst, "end")
		case "ConditionalBody":
			tg.depth++
			for _, stmt := range t.Children(c) {
				dst = tg.transformStatement(dst, stmt)
			}
			tg.depth--
			continue
		}
		dst = tg.trailing(dst, c)
	}
	return dst
}

// transformIfStmt writes a logical IF as a one branch if block.
func (tg *ToJulia) transformIfStmt(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	ch := t.Children(stmt)
	action := ch[len(ch)-1]
	dst = tg.line(dst, "if "+tg.expr(t.ChildLabeled(stmt, "Expr")))
	tg.depth++
	tg.col.Statement(action)
	dst = tg.statement(dst, action)
	dst = tg.trailing(dst, action)
	tg.depth--
	return tg.line(dst, "end")
}

// transformComputedGoto writes GO TO (l1, l2, ...) k as an if chain on k.
func (tg *ToJulia) transformComputedGoto(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	labels := t.ChildrenLabeled(t.ChildLabeled(stmt, "LblRefList"), "LblRef")
	sel := t.ChildLabeled(stmt, "Expr")
	k := tg.expr(sel)
	if len(t.Leaves(sel)) != 1 {
		dst = tg.line(dst, tg.globalPrefix()+"_k = "+k)
		k = "_k"
	}
	for i, label := range labels {
		kw := "elseif "
		if i == 0 {
			kw = "if "
		}
		dst = tg.line(dst, kw+k+" == "+strconv.Itoa(i+1))
		tg.depth++
		dst = tg.line(dst, "@goto "+tg.labelName(t.Text(label)))
		tg.depth--
	}
	if len(labels) > 0 {
		dst = tg.line(dst, "end")
	}
	return dst
}

// transformCall writes a CALL. Arguments are passed by value in Julia, so a
// subroutine returns its formals and the caller rebinds each argument that
// names a variable or an array element.
func (tg *ToJulia) transformCall(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	name := t.Text(t.ChildLabeled(stmt, "SubroutineNameUse"))
	var args, targets []string
	for _, arg := range t.ChildrenLabeled(t.ChildLabeled(stmt, "SubroutineArgList"), "SubroutineArg") {
		first := t.Node(t.Child(arg, 0))
		switch {
		case first.Label == "Expr":
			e := t.Child(arg, 0)
			args = append(args, tg.expr(e))
			targets = append(targets, tg.writeBack(e))
		case first.Tok == token.HCON:
			s, _ := first.Literal.(string)
			args = append(args, JuliaString(s))
			targets = append(targets, "_")
		default:
			tg.diag(SeverityWarning, arg, "SubroutineArg", "alternate return argument dropped")
		}
	}
	call := tg.callee(name) + "(" + strings.Join(args, ", ") + ")"
	sym := tg.syms.Global().LookupLocal(name)
	if sym == nil || sym.Kind != symbol.KindSubroutine {
		tg.diag(SeverityWarning, stmt, RuleUnresolvedReference, "subroutine "+name+" is not defined in this file")
		return tg.line(dst, call)
	}
	if len(sym.Params) != len(args) {
		tg.diag(SeverityWarning, stmt, "CallStmt", strconv.Itoa(len(args))+" arguments passed to "+
			sym.Name+" which takes "+strconv.Itoa(len(sym.Params)))
	}
	targets = targets[:min(len(targets), len(sym.Params))]
	plain, bound := 0, 0
	for _, target := range targets {
		if target != "_" {
			bound++
		}
		if isPlainName(target) {
			plain++
		}
	}
	switch {
	case bound == 0:
		return tg.line(dst, call)
	case !tg.unit.global || plain == len(targets) || plain == 0:
		prefix := ""
		if tg.unit.global && plain == len(targets) {
			prefix = "global "
		}
		return tg.line(dst, prefix+strings.Join(targets, ", ")+" = "+call)
	}
	// Global names mixed with elements or expressions: unpack through a temporary.
	dst = tg.line(dst, "global _r = "+call)
	for i, target := range targets {
		if target == "_" {
			continue
		}
		prefix := ""
		if isPlainName(target) {
			prefix = "global "
		}
		dst = tg.line(dst, prefix+target+" = _r["+strconv.Itoa(i+1)+"]")
	}
	return dst
}

// writeBack returns what a CALL rebinds from the value returned for actual
// argument e: the variable or array element it names, or _ for expressions,
// constants and the variable of an active DO loop, which a CALL may not redefine.
func (tg *ToJulia) writeBack(e ast.NodeID) string {
	t := tg.tree
	prim := t.Child(e, 0)
	if len(t.Children(e)) != 1 || t.Label(prim) != "Primary" {
		return "_"
	}
	ref := t.Child(prim, 0)
	if t.Label(ref) != "NameDataRef" {
		return "_"
	}
	name := t.Text(t.ChildLabeled(ref, "Name"))
	if sym := tg.syms.Lookup(name); sym != nil && sym.Flags.HasAny(symbol.FlagParameter) {
		return "_"
	}
	if tg.activeIndex(name) {
		return "_"
	}
	tails := t.ChildrenLabeled(ref, "ComplexDataRefTail")
	switch {
	case len(tails) == 0 && !tg.procedure(name).IsCallable():
		return tg.ident(name)
	case len(tails) == 1 && tg.syms.IsArray(name) && !tg.hasColon(tails[0]):
		return tg.reference(ref)
	}
	return "_"
}

func (tg *ToJulia) activeIndex(name string) bool {
	k := strings.ToUpper(name)
	for _, loop := range tg.unit.loops {
		if loop.index == k {
			return true
		}
	}
	return false
}

func isPlainName(target string) bool {
	return target != "_" && !strings.Contains(target, "[")
}

// returnValue is the return statement of the current unit.
func (tg *ToJulia) returnValue() string {
	u := tg.unit
	switch u.kind {
	case "FunctionSubprogram":
		return "return " + tg.ident(u.name)
	case "SubroutineSubprogram":
		formals := u.scope.Formals()
		if len(formals) == 0 {
			return "return"
		}
		idents := make([]string, len(formals))
		for i, name := range formals {
			idents[i] = tg.ident(name)
		}
		return "return " + strings.Join(idents, ", ")
	}
	return "exit()"
}

func (tg *ToJulia) transformStop(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	for _, c := range t.Children(stmt) {
		switch n := t.Node(c); n.Tok {
		case token.ICON:
			return tg.line(dst, "exit("+strings.TrimLeft(n.Text, "0")+")")
		case token.SCON:
			dst = tg.line(dst, "println("+n.Text+")")
		}
	}
	return tg.line(dst, "exit()")
}

// labelDef writes the label marker of stmt when some jump targets it.
func (tg *ToJulia) labelDef(dst []byte, stmt ast.NodeID) []byte {
	label := tg.labelOf(stmt)
	if label == "" || !tg.unit.targets[label] {
		return dst
	}
	return tg.line(dst, "@label "+tg.labelName(label))
}

func (tg *ToJulia) labelOf(stmt ast.NodeID) string {
	return labelKey(tg.tree.Text(tg.tree.ChildLabeled(stmt, "LblDef")))
}

func (tg *ToJulia) labelName(label string) string { return "_" + labelKey(label) }

// labelKey normalizes a statement label: 010 and 10 are the same label.
func labelKey(label string) string {
	if label == "" {
		return ""
	}
	if k := strings.TrimLeft(label, "0"); k != "" {
		return k
	}
	return "0"
}

// trailing writes the comments that follow stmt, which the parser keeps in its EOS node.
func (tg *ToJulia) trailing(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	eos := t.ChildLabeled(stmt, "EOS")
	if eos == ast.Nil {
		return dst
	}
	for _, c := range t.Children(eos) {
		if n := t.Node(c); n.Tok == token.COMMENT {
			dst = tg.comment(dst, n.Text)
		}
	}
	return dst
}

func (tg *ToJulia) comment(dst []byte, text string) []byte {
	text = strings.TrimSpace(text)
	if text != "" {
		text = strings.TrimSpace(text[1:]) // Comment marker.
	}
	if text == "" {
		return tg.line(dst, "#")
	}
	return tg.line(dst, "# "+text)
}

func (tg *ToJulia) line(dst []byte, s string) []byte {
	for range tg.depth {
		dst = append(dst, tg.indent...)
	}
	dst = append(dst, s...)
	return append(dst, '\n')
}

func (tg *ToJulia) globalPrefix() string {
	if tg.unit != nil && tg.unit.global {
		return "global "
	}
	return ""
}

func (tg *ToJulia) diag(sev Severity, node ast.NodeID, rule, msg string) {
	var line, col int
	if node != ast.Nil {
		line, col = tg.tree.Pos(node)
	}
	tg.diags = append(tg.diags, Diagnostic{Severity: sev, Rule: rule, Line: line, Col: col, Message: msg})
	tg.log.Debug("diagnostic", slog.String("rule", rule), slog.Int("line", line), slog.String("msg", msg))
}

// zeroValue is the initial value of a scalar of a FORTRAN type.
func zeroValue(typ string) string {
	switch typ {
	case "REAL", "DOUBLE PRECISION":
		return "0.0"
	case "COMPLEX":
		return "complex(0.0)"
	case "LOGICAL":
		return "false"
	case "CHARACTER":
		return `""`
	}
	return "0"
}

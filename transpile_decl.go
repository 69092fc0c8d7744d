package fort2jul

import (
	"strconv"
	"strings"

	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/symbol"
	"github.com/soypat/fort2jul/token"
)

// Specification statements become initializers: Julia has no declarations,
// so each declared variable is bound to a zero value or a zeroed array.

func (tg *ToJulia) transformTypeDeclaration(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	for _, decl := range t.FindAll(stmt, "EntityDecl") {
		name := t.Text(t.ChildLabeled(decl, "ObjectName"))
		if tg.skipDeclaration(name) {
			continue
		}
		dst = tg.initVar(dst, decl, name, t.ChildLabeled(decl, "ArraySpec"))
	}
	return dst
}

func (tg *ToJulia) transformDimension(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	for _, decl := range t.FindAll(stmt, "ArrayDeclarator") {
		name := t.Text(t.ChildLabeled(decl, "VariableName"))
		if tg.skipDeclaration(name) {
			continue
		}
		dst = tg.initVar(dst, decl, name, t.ChildLabeled(decl, "ArraySpec"))
	}
	return dst
}

// transformCommon makes common variables Julia globals. The main program and
// BLOCK DATA create them; routines declare them global.
func (tg *ToJulia) transformCommon(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	objs := t.FindAll(stmt, "CommonBlockObject")
	if !tg.unit.global {
		names := make([]string, len(objs))
		for i, obj := range objs {
			names[i] = tg.ident(t.Text(t.ChildLabeled(obj, "VariableName")))
		}
		return tg.line(dst, "global "+strings.Join(names, ", "))
	}
	for _, obj := range objs {
		name := t.Text(t.ChildLabeled(obj, "VariableName"))
		if tg.skipDeclaration(name) {
			continue
		}
		dst = tg.initVar(dst, obj, name, t.ChildLabeled(obj, "ArraySpec"))
	}
	return dst
}

func (tg *ToJulia) transformParameter(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	kw := ""
	if tg.unit.global {
		kw = "const "
	}
	for _, def := range t.FindAll(stmt, "NamedConstantDef") {
		name := t.Text(t.ChildLabeled(def, "NamedConstant"))
		typ, _ := tg.syms.TypeOf(name)
		dst = tg.line(dst, kw+tg.ident(name)+" = "+tg.convert(typ, t.ChildLabeled(def, "Expr")))
		tg.unit.declared[strings.ToUpper(name)] = true
	}
	return dst
}

// skipDeclaration reports whether name gets no initializer in the current
// unit: dummy arguments and the function result are bound already, procedure
// names are not variables and common variables belong to the main program,
// unless BLOCK DATA created them first.
func (tg *ToJulia) skipDeclaration(name string) bool {
	u := tg.unit
	k := strings.ToUpper(name)
	switch {
	case u.scope.IsFormal(name), tg.isResult(name), u.params[k]:
		return true
	case !tg.syms.IsArray(name) && tg.procedure(name).IsCallable():
		return true
	case u.common[k]:
		return !u.global || u.kind == "MainProgram" && tg.blockData[k]
	}
	return false
}

// initVar binds name to the zero value of its type, or to a zeroed array when
// spec, an ArraySpec, is present. A DIMENSION after a type declaration
// replaces the scalar with the array.
func (tg *ToJulia) initVar(dst []byte, node ast.NodeID, name string, spec ast.NodeID) []byte {
	t := tg.tree
	u := tg.unit
	k := strings.ToUpper(name)
	typ, _ := tg.syms.TypeOf(name)
	if spec == ast.Nil {
		if u.declared[k] {
			return dst
		}
		u.declared[k] = true
		return tg.line(dst, tg.globalPrefix()+tg.ident(name)+" = "+zeroValue(typ))
	}
	if u.arrays[k] {
		return dst
	}
	var dims []string
	for _, shape := range t.ChildrenLabeled(spec, "ExplicitShapeSpec") {
		if lb := t.ChildLabeled(shape, "LowerBound"); lb != ast.Nil {
			if lo := tg.expr(t.Child(lb, 0)); lo != "1" {
				tg.diag(SeverityInfo, shape, "ExplicitShapeSpec", "lower bound "+lo+" of "+name+" dropped, indices start at 1")
			}
		}
		ub := t.Child(t.ChildLabeled(shape, "UpperBound"), 0)
		if t.Node(ub).Tok == token.STAR {
			tg.diag(SeverityWarning, shape, "ExplicitShapeSpec", "assumed size array "+name+" is not allocated")
			return dst
		}
		dims = append(dims, tg.expr(ub))
	}
	u.declared[k] = true
	u.arrays[k] = true
	return tg.line(dst, tg.globalPrefix()+tg.ident(name)+" = create_array("+JuliaString(typ)+", "+strings.Join(dims, ", ")+")")
}

// transformAssignment writes an assignment with FORTRAN's implicit numeric
// conversion to the type of the target. The collector has already decided
// whether NAME(args) = expr defines a statement function.
func (tg *ToJulia) transformAssignment(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	v := t.ChildLabeled(stmt, "Variable")
	e := t.ChildLabeled(stmt, "Expr")
	name := t.Text(t.ChildLabeled(v, "VariableName"))
	tails := t.ChildrenLabeled(v, "ComplexDataRefTail")
	if sym := tg.syms.Current().LookupLocal(name); sym != nil && sym.Kind == symbol.KindStatementFunction && len(tails) > 0 {
		return tg.line(dst, tg.statementFunction(sym, e))
	}
	typ, _ := tg.syms.TypeOf(name)
	switch {
	case len(tails) == 0, tg.syms.IsArray(name):
		return tg.line(dst, tg.target(v)+" = "+tg.convert(typ, e))
	case typ == "CHARACTER" && tg.hasColon(tails[0]):
		tg.diag(SeverityWarning, stmt, "AssignmentStmt", "assignment to substring of "+name+" is not translated")
		return dst
	}
	tg.diag(SeverityWarning, stmt, RuleUnresolvedReference, name+" is assigned with subscripts but not declared as an array")
	return tg.line(dst, tg.target(v)+" = "+tg.expr(e))
}

// transformStmtFunction writes a statement function the parser recognized on its own.
func (tg *ToJulia) transformStmtFunction(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	sym := tg.syms.Current().Define(tg.syms.Spell(t.Text(t.ChildLabeled(stmt, "Name"))))
	sym.Kind = symbol.KindStatementFunction
	sym.Params = sym.Params[:0]
	for _, arg := range t.FindAll(stmt, "SFDummyArgName") {
		sym.Params = append(sym.Params, tg.syms.Spell(t.Text(arg)))
	}
	if sym.Type == "" {
		sym.Type, _ = tg.syms.Current().Implicit().TypeOf(sym.Name)
	}
	return tg.line(dst, tg.statementFunction(sym, t.ChildLabeled(stmt, "Expr")))
}

// statementFunction writes a statement function as a Julia one line function.
func (tg *ToJulia) statementFunction(sym *symbol.Symbol, body ast.NodeID) string {
	params := make([]string, len(sym.Params))
	for i, p := range sym.Params {
		params[i] = tg.ident(p)
	}
	return tg.callee(sym.Name) + "(" + strings.Join(params, ", ") + ") = " + tg.convert(sym.Type, body)
}

// dataValue is one constant of a DATA value list after repeat expansion.
type dataValue struct {
	text string
	typ  string
}

// transformData writes DATA as assignments. Values are matched to objects in
// order: a whole array takes as many values as it has elements, column major.
func (tg *ToJulia) transformData(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	for _, set := range t.ChildrenLabeled(stmt, "DataStmtSet") {
		vals := tg.dataValues(t.ChildLabeled(set, "DataStmtValueList"))
		var objs []ast.NodeID
		for _, obj := range t.Children(t.ChildLabeled(set, "DataStmtObjectList")) {
			if l := t.Label(obj); l == "Variable" || l == "DataImpliedDo" {
				objs = append(objs, obj)
			}
		}
		pos := 0
		for i, obj := range objs {
			last := i == len(objs)-1
			var n int
			dst, n = tg.dataObject(dst, obj, vals[min(pos, len(vals)):], last)
			pos += n
		}
		if pos != len(vals) {
			tg.diag(SeverityWarning, set, "DataStmtSet", strconv.Itoa(len(vals))+" values for "+strconv.Itoa(pos)+" elements")
		}
	}
	return dst
}

// dataObject assigns the leading values of vals to obj and returns how many it took.
func (tg *ToJulia) dataObject(dst []byte, obj ast.NodeID, vals []dataValue, last bool) ([]byte, int) {
	t := tg.tree
	if t.Label(obj) == "DataImpliedDo" {
		return tg.dataImpliedDo(dst, obj, vals)
	}
	name := t.Text(t.ChildLabeled(obj, "VariableName"))
	typ, _ := tg.syms.TypeOf(name)
	tails := t.ChildrenLabeled(obj, "ComplexDataRefTail")
	if len(tails) > 0 || !tg.syms.IsArray(name) {
		if len(vals) == 0 {
			return dst, 0
		}
		if len(tails) == 0 {
			tg.unit.declared[strings.ToUpper(name)] = true
		}
		return tg.line(dst, tg.target(obj)+" = "+convertValue(typ, vals[0].typ, vals[0].text)), 1
	}
	n := tg.arraySize(name)
	switch {
	case n < 0 && last:
		n = len(vals)
	case n < 0:
		tg.diag(SeverityWarning, obj, "DataStmtObject", "size of "+name+" is not a constant")
		return dst, 0
	}
	n = min(n, len(vals))
	items := make([]string, n)
	for i, v := range vals[:n] {
		items[i] = convertValue(typ, v.typ, v.text)
	}
	return tg.line(dst, tg.ident(name)+"[1:"+strconv.Itoa(n)+"] = ["+strings.Join(items, ", ")+"]"), n
}

// dataImpliedDo handles (A(I), I = lo, hi[, step]) with constant bounds.
func (tg *ToJulia) dataImpliedDo(dst []byte, obj ast.NodeID, vals []dataValue) ([]byte, int) {
	t := tg.tree
	list := t.ChildLabeled(obj, "DataIDoObjectList")
	items := t.Children(list)
	bounds := t.ChildrenLabeled(obj, "Expr")
	count := -1
	if len(items) == 1 && t.Label(items[0]) == "Variable" {
		count = constantTrips(t, bounds)
	}
	if count < 0 {
		tg.diag(SeverityWarning, obj, "DataImpliedDo", "implied DO is not translated")
		return dst, 0
	}
	count = min(count, len(vals))
	name := t.Text(t.ChildLabeled(items[0], "VariableName"))
	typ, _ := tg.syms.TypeOf(name)
	texts := make([]string, count)
	for i, v := range vals[:count] {
		texts[i] = convertValue(typ, v.typ, v.text)
	}
	v := tg.ident(t.Text(t.ChildLabeled(obj, "ImpliedDoVariable")))
	dst = tg.line(dst, "for ("+v+", _v) in zip("+tg.rangeOf(bounds)+", ["+strings.Join(texts, ", ")+"])")
	tg.depth++
	dst = tg.line(dst, tg.target(items[0])+" = _v")
	tg.depth--
	return tg.line(dst, "end"), count
}

// constantTrips returns the trip count of implied DO bounds made of integer
// constants, or -1.
func constantTrips(t *ast.Tree, bounds []ast.NodeID) int {
	var v [3]int64
	v[2] = 1
	if len(bounds) < 2 {
		return -1
	}
	for i, b := range bounds {
		leaves := t.Leaves(b)
		sign := int64(1)
		if len(leaves) == 2 && t.Node(leaves[0]).Tok == token.MINUS {
			sign, leaves = -1, leaves[1:]
		}
		if len(leaves) != 1 {
			return -1
		}
		n, ok := t.Node(leaves[0]).Literal.(int64)
		if !ok {
			return -1
		}
		v[i] = sign * n
	}
	if v[2] == 0 {
		return -1
	}
	return int(max((v[1]-v[0]+v[2])/v[2], 0))
}

// arraySize is the element count of a local array with constant bounds, or -1.
func (tg *ToJulia) arraySize(name string) int {
	sym := tg.syms.Current().LookupLocal(name)
	if sym == nil || len(sym.Dims) == 0 {
		return -1
	}
	size := 1
	for _, d := range sym.Dims {
		n, err := strconv.Atoi(d)
		if err != nil {
			return -1
		}
		size *= n
	}
	return size
}

// dataValues expands r*c repeat counts of a DATA value list.
func (tg *ToJulia) dataValues(list ast.NodeID) []dataValue {
	t := tg.tree
	var vals []dataValue
	for _, val := range t.ChildrenLabeled(list, "DataStmtValue") {
		repeat := 1
		if r := t.ChildLabeled(val, "DataRepeat"); r != ast.Nil {
			n, ok := t.Node(t.Child(r, 0)).Literal.(int64)
			if !ok {
				tg.diag(SeverityWarning, r, "DataRepeat", "repeat count "+t.Text(r)+" is not a literal, used once")
				n = 1
			}
			repeat = int(n)
		}
		c := t.ChildLabeled(val, "DataConstant")
		var v dataValue
		for _, part := range t.Children(c) {
			switch t.Label(part) {
			case "Sign":
				v.text += t.Text(part)
			case "NamedConstantUse":
				v.text += tg.ident(t.Text(part))
				v.typ, _ = tg.syms.TypeOf(t.Text(part))
			default:
				v.text += tg.expr(part)
				v.typ = tg.typeOf(part)
			}
		}
		for range repeat {
			vals = append(vals, v)
		}
	}
	return vals
}

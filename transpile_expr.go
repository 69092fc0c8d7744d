package fort2jul

import (
	"strconv"
	"strings"

	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/intrinsic"
	"github.com/soypat/fort2jul/symbol"
	"github.com/soypat/fort2jul/token"
)

// expr writes the Julia form of an expression node of any precedence level.
func (tg *ToJulia) expr(n ast.NodeID) string {
	if n == ast.Nil {
		return ""
	}
	t := tg.tree
	node := t.Node(n)
	if node.IsLeaf() {
		return tg.leaf(node)
	}
	ch := t.Children(n)
	switch node.Label {
	case "Expr", "OrOperand":
		s := tg.expr(ch[0])
		for _, op := range ch[1:] {
			s += " " + binaryOp(t.Node(t.Child(op, 0)).Tok) + " " + tg.expr(t.Child(op, 1))
		}
		return s
	case "AndOperand":
		operand := ch[len(ch)-1]
		s := tg.expr(operand)
		if t.Label(operand) != "Primary" {
			s = "(" + s + ")"
		}
		return strings.Repeat("!", len(ch)-1) + s
	case "Level4Expr":
		rel := t.ChildLabeled(n, "RelOp")
		return tg.expr(ch[0]) + " " + binaryOp(t.Node(t.Child(rel, 0)).Tok) + " " + tg.expr(t.Child(rel, 1))
	case "Level3Expr":
		s := tg.expr(ch[0])
		for _, op := range ch[1:] {
			s += " * " + tg.expr(t.Child(op, 2))
		}
		return s
	case "Level2Expr":
		var s string
		for _, c := range ch {
			switch t.Label(c) {
			case "Sign":
				s += t.Text(c)
			case "AddOp":
				s += " " + t.Text(c) + " " + tg.expr(t.Child(c, 1))
			default:
				s += tg.expr(c)
			}
		}
		return s
	case "AddOperand":
		return tg.product(n)
	case "MultOperand":
		pow := t.ChildLabeled(n, "PowerOp")
		exp := ""
		for _, c := range t.Children(pow)[1:] {
			if t.Label(c) == "Sign" {
				exp += t.Text(c)
			} else {
				exp += tg.expr(c)
			}
		}
		return tg.expr(ch[0]) + " ^ " + exp
	case "Primary":
		if len(ch) == 3 {
			return "(" + tg.expr(ch[1]) + ")"
		}
		return tg.expr(ch[0])
	case "UnsignedArithmeticConstant":
		return tg.expr(ch[0])
	case "ComplexConst":
		parts := t.ChildrenLabeled(n, "ComplexComponent")
		return "complex(" + tg.component(parts[0]) + ", " + tg.component(parts[1]) + ")"
	case "LogicalConstant":
		return tg.expr(ch[0])
	case "NameDataRef":
		return tg.reference(n)
	case "FunctionReference":
		name := t.Text(t.ChildLabeled(n, "Name"))
		if kind := tg.procedure(name); !kind.IsCallable() || kind == symbol.KindIntrinsic {
			if f, ok := intrinsic.Lookup(name); ok {
				return f.Emit(nil)
			}
		}
		return tg.callee(name) + "()"
	case "Sign":
		return t.Text(n)
	}
	tg.diag(SeverityWarning, n, node.Label, "no translation for expression "+ast.Source(t, n))
	return ast.Source(t, n)
}

// product writes a chain of multiplications and divisions. FORTRAN division
// of two integers truncates, which Julia spells div.
func (tg *ToJulia) product(n ast.NodeID) string {
	t := tg.tree
	ch := t.Children(n)
	s := tg.expr(ch[0])
	typ := tg.typeOf(ch[0])
	for _, op := range ch[1:] {
		right := t.Child(op, 1)
		rtyp := tg.typeOf(right)
		switch t.Node(t.Child(op, 0)).Tok {
		case token.SLASH:
			if typ == "INTEGER" && rtyp == "INTEGER" {
				s = "div(" + s + ", " + tg.expr(right) + ")"
			} else {
				s += " / " + tg.expr(right)
			}
		default:
			s += " * " + tg.expr(right)
		}
		typ = promote(typ, rtyp)
	}
	return s
}

func (tg *ToJulia) component(n ast.NodeID) string {
	var s string
	for _, c := range tg.tree.Children(n) {
		s += tg.expr(c)
	}
	return s
}

func binaryOp(tok token.Token) string {
	switch tok {
	case token.OR:
		return "||"
	case token.AND:
		return "&&"
	case token.EQUAL_EQUAL:
		return "=="
	case token.BANG_EQUAL:
		return "!="
	case token.LESS:
		return "<"
	case token.LESS_EQUAL:
		return "<="
	case token.GREATER:
		return ">"
	case token.GREATER_EQUAL:
		return ">="
	}
	return tok.String()
}

// leaf writes a constant or operator token.
func (tg *ToJulia) leaf(n *ast.Node) string {
	switch n.Tok {
	case token.ICON, token.RDCON:
		return juliaNumber(n)
	case token.SCON:
		return n.Text
	case token.HCON:
		s, _ := n.Literal.(string)
		return JuliaString(s)
	case token.BCON, token.OCON, token.ZCON:
		return radixLiteral(n.Text)
	case token.TRUE:
		return "true"
	case token.FALSE:
		return "false"
	}
	return n.Text
}

func juliaNumber(n *ast.Node) string {
	switch v := n.Literal.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	}
	return n.Text
}

// radixLiteral writes B'101', O'17' and Z'FF' as Julia 0b, 0o and 0x literals.
func radixLiteral(text string) string {
	q1 := strings.IndexAny(text, `'"`)
	q2 := strings.LastIndexAny(text, `'"`)
	if q1 < 0 || q2 <= q1 {
		return text
	}
	digits := strings.ToLower(text[q1+1 : q2])
	letter := text[0]
	if q1 == 0 && q2+1 < len(text) {
		letter = text[q2+1]
	}
	switch letter {
	case 'B', 'b':
		return "0b" + digits
	case 'O', 'o':
		return "0o" + digits
	}
	return "0x" + digits
}

// reference writes a name with optional parenthesized suffixes: a variable,
// an array element or section, a call of a user routine or an intrinsic, or a
// substring. Calls of names nothing resolves record a diagnostic.
func (tg *ToJulia) reference(n ast.NodeID) string {
	t := tg.tree
	name := t.Text(t.ChildLabeled(n, "Name"))
	tails := t.ChildrenLabeled(n, "ComplexDataRefTail")
	if len(tails) == 0 {
		return tg.ident(name)
	}
	if tg.syms.IsArray(name) {
		return tg.ident(name) + tg.subscripts(tails)
	}
	switch kind := tg.procedure(name); kind {
	case symbol.KindFunction, symbol.KindSubroutine, symbol.KindStatementFunction, symbol.KindExternal:
		return tg.callee(name) + "(" + strings.Join(tg.args(tails[0]), ", ") + ")" + tg.subscripts(tails[1:])
	}
	if f, ok := intrinsic.Lookup(name); ok {
		return f.Emit(tg.args(tails[0])) + tg.subscripts(tails[1:])
	}
	if typ, _ := tg.syms.TypeOf(name); typ == "CHARACTER" && tg.hasColon(tails[0]) {
		return tg.ident(name) + tg.subscripts(tails)
	}
	tg.diag(SeverityWarning, n, RuleUnresolvedReference, name+" is neither an array nor a known procedure")
	return tg.callee(name) + "(" + strings.Join(tg.args(tails[0]), ", ") + ")" + tg.subscripts(tails[1:])
}

// procedure returns the callable kind name resolves to, or KindUnknown.
// A local array shadows any procedure of the same name.
func (tg *ToJulia) procedure(name string) symbol.Kind {
	if sym := tg.syms.Current().LookupLocal(name); sym != nil {
		if sym.IsArray() {
			return symbol.KindVariable
		}
		if sym.Kind.IsCallable() {
			return sym.Kind
		}
	}
	if sym := tg.syms.Global().LookupLocal(name); sym != nil && sym.Kind.IsCallable() {
		return sym.Kind
	}
	return symbol.KindUnknown
}

func (tg *ToJulia) subscripts(tails []ast.NodeID) string {
	var b strings.Builder
	for _, tail := range tails {
		b.WriteByte('[')
		for i, sub := range tg.sections(tail) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(tg.section(sub))
		}
		b.WriteByte(']')
	}
	return b.String()
}

// args writes the actual arguments of a call suffix.
func (tg *ToJulia) args(tail ast.NodeID) []string {
	var args []string
	for _, sub := range tg.sections(tail) {
		if tg.tree.Node(tg.tree.Child(sub, 0)).Tok == token.STAR {
			tg.diag(SeverityWarning, sub, "SectionSubscript", "alternate return argument dropped")
			continue
		}
		args = append(args, tg.section(sub))
	}
	return args
}

func (tg *ToJulia) sections(tail ast.NodeID) []ast.NodeID {
	t := tg.tree
	return t.ChildrenLabeled(t.ChildLabeled(tail, "SectionSubscriptList"), "SectionSubscript")
}

// section writes a subscript, or a range for E:E, E:, :E and a bare colon.
// Julia ranges are inclusive like FORTRAN substrings and sections.
func (tg *ToJulia) section(sub ast.NodeID) string {
	t := tg.tree
	exprs := t.ChildrenLabeled(sub, "Expr")
	colon := t.HasChild(sub, token.COLON.String())
	if !colon {
		if len(exprs) == 0 {
			return ""
		}
		return tg.expr(exprs[0])
	}
	lo, hi := "1", "end"
	leadingColon := t.Node(t.Child(sub, 0)).Tok == token.COLON
	switch {
	case leadingColon && len(exprs) == 1:
		hi = tg.expr(exprs[0])
	case !leadingColon && len(exprs) >= 1:
		lo = tg.expr(exprs[0])
		if len(exprs) == 2 {
			hi = tg.expr(exprs[1])
		}
	case leadingColon:
		return ":"
	}
	return lo + ":" + hi
}

func (tg *ToJulia) hasColon(tail ast.NodeID) bool {
	for _, sub := range tg.sections(tail) {
		if tg.tree.HasChild(sub, token.COLON.String()) {
			return true
		}
	}
	return false
}

// ident writes a variable name. Inside a function the function's own name
// stands for the result variable, written with a leading underscore so it
// does not shadow the function in recursive calls.
func (tg *ToJulia) ident(name string) string {
	if tg.isResult(name) {
		return "_" + tg.syms.Spell(name)
	}
	return tg.callee(name)
}

// callee writes a procedure name.
func (tg *ToJulia) callee(name string) string {
	spelled := tg.syms.Spell(name)
	if juliaReserved[strings.ToLower(spelled)] {
		return spelled + "_"
	}
	return spelled
}

func (tg *ToJulia) isResult(name string) bool {
	u := tg.unit
	return u != nil && u.kind == "FunctionSubprogram" && strings.EqualFold(name, u.name)
}

var juliaReserved = map[string]bool{
	"abstract": true, "baremodule": true, "begin": true, "break": true, "catch": true,
	"const": true, "continue": true, "do": true, "else": true, "elseif": true, "end": true,
	"export": true, "false": true, "finally": true, "for": true, "function": true,
	"global": true, "if": true, "import": true, "in": true, "isa": true, "let": true,
	"local": true, "macro": true, "module": true, "mutable": true, "outer": true,
	"primitive": true, "quote": true, "return": true, "struct": true, "true": true,
	"try": true, "type": true, "using": true, "where": true, "while": true,
}

// typeOf infers the FORTRAN type of an expression node: INTEGER, REAL, DOUBLE
// PRECISION, COMPLEX, LOGICAL, CHARACTER or the empty string when unknown.
func (tg *ToJulia) typeOf(n ast.NodeID) string {
	if n == ast.Nil {
		return ""
	}
	t := tg.tree
	node := t.Node(n)
	if node.IsLeaf() {
		switch node.Tok {
		case token.ICON, token.BCON, token.OCON, token.ZCON:
			return "INTEGER"
		case token.RDCON:
			if strings.ContainsAny(node.Text, "Dd") {
				return "DOUBLE PRECISION"
			}
			return "REAL"
		case token.SCON, token.HCON:
			return "CHARACTER"
		case token.TRUE, token.FALSE:
			return "LOGICAL"
		}
		return ""
	}
	ch := t.Children(n)
	switch node.Label {
	case "Expr":
		if len(ch) > 1 {
			return "LOGICAL"
		}
		return tg.typeOf(ch[0])
	case "OrOperand", "AndOperand", "Level4Expr", "LogicalConstant":
		return "LOGICAL"
	case "Level3Expr":
		return "CHARACTER"
	case "Level2Expr", "AddOperand", "MultOperand":
		typ, first := "", true
		for _, c := range ch {
			switch t.Label(c) {
			case "Sign":
				continue
			case "AddOp", "MultOp", "PowerOp":
				c = t.Child(c, len(t.Children(c))-1)
			}
			if first {
				typ, first = tg.typeOf(c), false
				continue
			}
			typ = promote(typ, tg.typeOf(c))
		}
		return typ
	case "Primary":
		if len(ch) == 3 {
			return tg.typeOf(ch[1])
		}
		return tg.typeOf(ch[0])
	case "UnsignedArithmeticConstant":
		if t.Label(ch[0]) == "ComplexConst" {
			return "COMPLEX"
		}
		return tg.typeOf(ch[0])
	case "NameDataRef":
		return tg.typeOfRef(n)
	case "FunctionReference":
		name := t.Text(t.ChildLabeled(n, "Name"))
		if !tg.procedure(name).IsCallable() {
			if f, ok := intrinsic.Lookup(name); ok {
				return f.Type
			}
		}
		typ, _ := tg.syms.TypeOf(name)
		return typ
	}
	return ""
}

func (tg *ToJulia) typeOfRef(n ast.NodeID) string {
	t := tg.tree
	name := t.Text(t.ChildLabeled(n, "Name"))
	tails := t.ChildrenLabeled(n, "ComplexDataRefTail")
	if len(tails) > 0 && !tg.syms.IsArray(name) && !tg.procedure(name).IsCallable() {
		if f, ok := intrinsic.Lookup(name); ok {
			if f.Type != "" {
				return f.Type
			}
			// Generic intrinsics return the type of their first argument.
			subs := tg.sections(tails[0])
			if len(subs) == 0 {
				return ""
			}
			return tg.typeOf(t.ChildLabeled(subs[0], "Expr"))
		}
	}
	typ, _ := tg.syms.TypeOf(name)
	return typ
}

var typeRank = map[string]int{"INTEGER": 1, "REAL": 2, "DOUBLE PRECISION": 3, "COMPLEX": 4}

// promote returns the type of an arithmetic operation on operands of types a and b.
func promote(a, b string) string {
	ra, rb := typeRank[a], typeRank[b]
	if ra == 0 || rb == 0 {
		return ""
	}
	if ra >= rb {
		return a
	}
	return b
}

// convert writes expression e assigned to a variable of type typ, with the
// conversion FORTRAN applies implicitly between integer and real values.
func (tg *ToJulia) convert(typ string, e ast.NodeID) string {
	return convertValue(typ, tg.typeOf(e), tg.expr(e))
}

// convertValue converts s, a value of type from, to type typ.
func convertValue(typ, from, s string) string {
	switch {
	case typ == "INTEGER" && (from == "REAL" || from == "DOUBLE PRECISION"):
		return "trunc(Int, " + s + ")"
	case (typ == "REAL" || typ == "DOUBLE PRECISION") && from == "INTEGER":
		return floatValue(s)
	}
	return s
}

// floatValue writes an integer valued expression as a float, directly for literals.
func floatValue(s string) string {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return s + ".0"
	}
	return "float(" + s + ")"
}

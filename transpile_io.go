package fort2jul

import (
	"strconv"
	"strings"

	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/intrinsic"
	"github.com/soypat/fort2jul/token"
)

// ioControl holds the unit and format of a READ or WRITE control list.
type ioControl struct {
	unit   ast.NodeID // UnitIdentifier or Nil.
	format ast.NodeID // FormatIdentifier, positional UnitIdentifier or Nil.
}

func (tg *ToJulia) controlList(list ast.NodeID) ioControl {
	t := tg.tree
	ctl := ioControl{unit: ast.Nil, format: ast.Nil}
	positional := 0
	for _, spec := range t.ChildrenLabeled(list, "IoControlSpec") {
		first := t.Child(spec, 0)
		switch t.Node(first).Tok {
		case token.FMT_EQUAL:
			ctl.format = t.ChildLabeled(spec, "FormatIdentifier")
		case token.UNIT_EQUAL:
			ctl.unit = t.ChildLabeled(spec, "UnitIdentifier")
		case token.END_EQUAL, token.ERR_EQUAL, token.IOSTAT_EQUAL, token.REC_EQUAL:
			tg.diag(SeverityWarning, spec, "IoControlSpec", t.Node(first).Text+" specifier is not translated")
		default:
			switch positional {
			case 0:
				ctl.unit = first
			case 1:
				ctl.format = first
			}
			positional++
		}
	}
	return ctl
}

// formatOf resolves a format identifier to a @printf format. It returns false
// for list-directed formatting, which is also the fallback for formats that
// cannot be translated.
func (tg *ToJulia) formatOf(id ast.NodeID) (format, bool) {
	if id == ast.Nil {
		return format{}, false
	}
	t := tg.tree
	first := t.Child(id, 0)
	if t.Label(first) == "Expr" {
		// Positional format: a label or a character constant.
		leaves := t.Leaves(first)
		if len(leaves) != 1 {
			tg.diag(SeverityWarning, id, "FormatIdentifier", "format expression is not translated")
			return format{}, false
		}
		first = leaves[0]
	}
	n := t.Node(first)
	switch {
	case n.Tok == token.STAR:
		return format{}, false
	case n.Label == "LblRef" || n.Tok == token.ICON:
		label := labelKey(t.Text(first))
		f, ok := tg.unit.formats[label]
		if !ok {
			tg.diag(SeverityWarning, id, "FormatIdentifier", "no FORMAT statement labeled "+label)
			return format{}, false
		}
		return f, !f.failed
	case n.Tok == token.SCON:
		spec, _ := n.Literal.(string)
		spec = strings.TrimSpace(spec)
		if strings.HasPrefix(spec, "(") && strings.HasSuffix(spec, ")") {
			spec = spec[1 : len(spec)-1]
		}
		return tg.parseFormat(id, spec)
	}
	tg.diag(SeverityWarning, id, "FormatIdentifier", "format held in a variable is written list-directed")
	return format{}, false
}

// parseFormat converts the text of a format specification. Formats that do
// not convert record a diagnostic against node.
func (tg *ToJulia) parseFormat(node ast.NodeID, spec string) (format, bool) {
	f, err := intrinsic.ParseFormat(spec)
	if err == nil {
		var s string
		var values int
		s, values, err = f.Printf()
		if err == nil {
			return format{printf: JuliaString(s + "\n"), values: values}, true
		}
	}
	tg.diag(SeverityWarning, node, tg.tree.Label(node), err.Error())
	return format{failed: true}, false
}

// fmtSpecText rebuilds the specification of a FORMAT statement from its tokens.
func (tg *ToJulia) fmtSpecText(spec ast.NodeID) string {
	if spec == ast.Nil {
		return ""
	}
	t := tg.tree
	var parts []string
	for _, leaf := range t.Leaves(spec) {
		n := t.Node(leaf)
		switch n.Tok {
		case token.SCON, token.HCON:
			s, _ := n.Literal.(string)
			parts = append(parts, intrinsic.QuoteFortran(s))
		default:
			parts = append(parts, n.Text)
		}
	}
	return strings.Join(parts, " ")
}

// unitHandle names the Julia IO of an external unit. The console units * 5
// and 6 write to stdout and read from stdin, which is the empty handle. A unit
// held in a variable names its own handle, which is not the handle of the
// unit number the variable holds.
func (tg *ToJulia) unitHandle(id ast.NodeID) string {
	if id == ast.Nil {
		return ""
	}
	t := tg.tree
	first := t.Child(id, 0)
	if t.Node(first).Tok == token.STAR {
		return ""
	}
	leaves := t.Leaves(first)
	if len(leaves) == 1 {
		n := t.Node(leaves[0])
		switch n.Tok {
		case token.ICON:
			switch v, _ := n.Literal.(int64); v {
			case 5, 6:
				return ""
			case 0:
				return "stderr"
			default:
				return "_" + strconv.FormatInt(v, 10)
			}
		case token.ID:
			h := "_" + tg.syms.Spell(n.Text)
			tg.diag(SeverityInfo, id, "UnitIdentifier", "unit variable "+n.Text+" is bound to handle "+h)
			return h
		}
	}
	tg.diag(SeverityWarning, id, "UnitIdentifier", "unit expression is not translated, console used")
	return ""
}

// specUnit returns the UnitIdentifier of an OPEN, CLOSE or positioning spec list.
func (tg *ToJulia) specUnit(list ast.NodeID) ast.NodeID {
	if list == ast.Nil {
		return ast.Nil
	}
	t := tg.tree
	for _, spec := range t.Children(list) {
		first := t.Child(spec, 0)
		if first == ast.Nil {
			continue
		}
		if t.Label(first) == "UnitIdentifier" || t.Node(first).Tok == token.UNIT_EQUAL {
			return t.ChildLabeled(spec, "UnitIdentifier")
		}
	}
	return ast.Nil
}

func (tg *ToJulia) positionUnit(stmt ast.NodeID) ast.NodeID {
	t := tg.tree
	if list := t.ChildLabeled(stmt, "PositionSpecList"); list != ast.Nil {
		return tg.specUnit(list)
	}
	return t.ChildLabeled(stmt, "UnitIdentifier")
}

func (tg *ToJulia) transformPrint(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	return tg.output(dst, stmt, "", t.ChildLabeled(stmt, "FormatIdentifier"), t.ChildLabeled(stmt, "OutputItemList"))
}

func (tg *ToJulia) transformWrite(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	ctl := tg.controlList(t.ChildLabeled(stmt, "IoControlSpecList"))
	return tg.output(dst, stmt, tg.unitHandle(ctl.unit), ctl.format, t.ChildLabeled(stmt, "OutputItemList"))
}

// output writes PRINT and WRITE: println for list-directed output and
// @printf for formatted output. Implied DO lists are written as comprehensions.
func (tg *ToJulia) output(dst []byte, stmt ast.NodeID, h string, fid, list ast.NodeID) []byte {
	t := tg.tree
	var items []string
	var implied []bool
	if list != ast.Nil {
		for _, item := range t.Children(list) {
			switch t.Label(item) {
			case "OutputImpliedDo":
				items = append(items, tg.impliedDo(item))
				implied = append(implied, true)
			case "Expr":
				items = append(items, tg.expr(item))
				implied = append(implied, false)
			}
		}
	}
	var args []string
	if h != "" {
		args = append(args, h)
	}
	f, formatted := tg.formatOf(fid)
	if !formatted {
		for i, item := range items {
			if i > 0 {
				args = append(args, `" "`)
			}
			if implied[i] {
				item = `join(` + item + `, " ")`
			}
			args = append(args, item)
		}
		return tg.line(dst, "println("+strings.Join(args, ", ")+")")
	}
	args = append(args, f.printf)
	spread := false
	for i, item := range items {
		if implied[i] {
			item += "..."
			spread = true
		}
		args = append(args, item)
	}
	if !spread && len(items) != f.values {
		tg.diag(SeverityInfo, stmt, t.Label(stmt), strconv.Itoa(len(items))+" values written with a format for "+strconv.Itoa(f.values))
	}
	return tg.line(dst, "@printf("+strings.Join(args, ", ")+")")
}

// impliedDo writes an output implied DO as a comprehension. Lists of several
// items are flattened in FORTRAN order, items varying fastest.
func (tg *ToJulia) impliedDo(n ast.NodeID) string {
	t := tg.tree
	v := tg.ident(t.Text(t.ChildLabeled(n, "ImpliedDoVariable")))
	r := tg.rangeOf(t.ChildrenLabeled(n, "Expr"))
	var elems []string
	nested := false
	for _, item := range t.Children(t.ChildLabeled(n, "OutputItemList")) {
		switch t.Label(item) {
		case "OutputImpliedDo":
			elems = append(elems, tg.impliedDo(item)+"...")
			nested = true
		case "Expr":
			elems = append(elems, tg.expr(item))
		}
	}
	switch {
	case len(elems) == 1 && nested:
		return "[_v for " + v + " in " + r + " for _v in " + strings.TrimSuffix(elems[0], "...") + "]"
	case len(elems) == 1:
		return "[" + elems[0] + " for " + v + " in " + r + "]"
	}
	return "[_v for " + v + " in " + r + " for _v in (" + strings.Join(elems, ", ") + ")]"
}

// transformRead writes a READ as list-directed input: one line is read and
// split into values, which are assigned to the items in order.
func (tg *ToJulia) transformRead(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	var h string
	fid := t.ChildLabeled(stmt, "FormatIdentifier")
	if list := t.ChildLabeled(stmt, "IoControlSpecList"); list != ast.Nil {
		ctl := tg.controlList(list)
		h, fid = tg.unitHandle(ctl.unit), ctl.format
	}
	if _, formatted := tg.formatOf(fid); formatted {
		tg.diag(SeverityInfo, stmt, "ReadStmt", "formatted input is read list-directed")
	}
	var items []ast.NodeID
	for _, item := range t.Children(t.ChildLabeled(stmt, "InputItemList")) {
		if l := t.Label(item); l == "Variable" || l == "InputImpliedDo" {
			items = append(items, item)
		}
	}
	switch {
	case len(items) == 0:
		return tg.line(dst, "readline("+h+")")
	case len(items) == 1 && t.Label(items[0]) == "Variable":
		v := items[0]
		lhs := tg.target(v)
		if typ, _ := tg.syms.TypeOf(t.Text(v)); typ == "CHARACTER" {
			return tg.line(dst, lhs+" = readline("+h+")")
		}
		return tg.line(dst, lhs+" = parse_input(readline("+h+"))")
	}
	dst = tg.line(dst, tg.globalPrefix()+"_vals = read_values("+h+")")
	for i, item := range items {
		k := strconv.Itoa(i + 1)
		if t.Label(item) == "Variable" {
			dst = tg.line(dst, tg.target(item)+" = _vals["+k+"]")
			continue
		}
		vars := t.ChildrenLabeled(t.ChildLabeled(item, "InputItemList"), "Variable")
		if i != len(items)-1 || len(vars) != 1 || len(t.Children(t.ChildLabeled(item, "InputItemList"))) != 1 {
			tg.diag(SeverityWarning, item, "InputImpliedDo", "only a trailing implied DO of one variable is read")
			continue
		}
		idx := tg.ident(t.Text(t.ChildLabeled(item, "ImpliedDoVariable")))
		r := tg.rangeOf(t.ChildrenLabeled(item, "Expr"))
		dst = tg.line(dst, "for ("+idx+", _v) in zip("+r+", _vals["+k+":end])")
		tg.depth++
		dst = tg.line(dst, tg.target(vars[0])+" = _v")
		tg.depth--
		dst = tg.line(dst, "end")
	}
	return dst
}

// target writes the left hand side of an assignment to variable v: a name,
// declared global in the main program, or an array element.
func (tg *ToJulia) target(v ast.NodeID) string {
	t := tg.tree
	name := t.Text(t.ChildLabeled(v, "VariableName"))
	tails := t.ChildrenLabeled(v, "ComplexDataRefTail")
	if len(tails) == 0 {
		return tg.globalPrefix() + tg.ident(name)
	}
	return tg.ident(name) + tg.subscripts(tails)
}

// transformOpen binds the unit handle to an opened file. Files of unknown
// status are created if missing and kept if present.
func (tg *ToJulia) transformOpen(dst []byte, stmt ast.NodeID) []byte {
	t := tg.tree
	list := t.ChildLabeled(stmt, "ConnectSpecList")
	h := tg.unitHandle(tg.specUnit(list))
	if h == "" || h == "stderr" {
		tg.diag(SeverityWarning, stmt, "OpenStmt", "console units cannot be opened")
		return dst
	}
	var file, status string
	for _, spec := range t.ChildrenLabeled(list, "ConnectSpec") {
		first := t.Node(t.Child(spec, 0))
		switch first.Tok {
		case token.FILE_EQUAL:
			file = tg.expr(t.ChildLabeled(spec, "Expr"))
		case token.STATUS_EQUAL:
			status = strings.ToUpper(strings.Trim(tg.expr(t.ChildLabeled(spec, "Expr")), `"`))
		case token.ACCESS_EQUAL, token.FORM_EQUAL, token.RECL_EQUAL, token.BLANK_EQUAL:
			tg.diag(SeverityInfo, spec, "ConnectSpec", first.Text+" specifier ignored")
		case token.ERR_EQUAL, token.IOSTAT_EQUAL:
			tg.diag(SeverityWarning, spec, "ConnectSpec", first.Text+" specifier is not translated")
		}
	}
	if file == "" {
		file = JuliaString("fort." + strings.TrimPrefix(h, "_"))
		tg.diag(SeverityInfo, stmt, "OpenStmt", "no FILE specifier, opening "+file)
	}
	var mode string
	switch status {
	case "OLD":
		mode = `"r+"`
	case "NEW", "REPLACE", "SCRATCH":
		mode = `"w+"`
	default:
		mode = "isfile(" + file + `) ? "r+" : "w+"`
	}
	// Handles are global so a unit opened in a routine is visible to every unit.
	return tg.line(dst, "global "+h+" = open("+file+", "+mode+")")
}

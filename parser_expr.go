package fort2jul

import (
	"strings"

	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/token"
)

// Expression grammar, lowest precedence first:
//
//	Expr       := OrOperand {OR OrOperand}
//	OrOperand  := AndOperand {AND AndOperand}
//	AndOperand := {NOT} Level4Expr
//	Level4Expr := Level3Expr [RelOp Level3Expr]
//	Level3Expr := Level2Expr {ConcatOp Level2Expr}
//	Level2Expr := [Sign] AddOperand {AddOp AddOperand}
//	AddOperand := MultOperand {MultOp MultOperand}
//	MultOperand := Primary [PowerOp MultOperand]
//
// Every level except Expr collapses into its only child when it has nothing else to hold.

func (p *Parser) expr(parent ast.NodeID) bool {
	return p.rule(parent, "Expr", func(n ast.NodeID) bool {
		return p.orOperand(n) && star(func() bool {
			return p.rule(n, "OrOp", func(op ast.NodeID) bool {
				return p.tok(op, token.OR) && p.orOperand(op)
			})
		})
	})
}

func (p *Parser) orOperand(parent ast.NodeID) bool {
	return p.level(parent, "OrOperand", func(n ast.NodeID) bool {
		return p.andOperand(n) && star(func() bool {
			return p.rule(n, "AndOp", func(op ast.NodeID) bool {
				return p.tok(op, token.AND) && p.andOperand(op)
			})
		})
	})
}

func (p *Parser) andOperand(parent ast.NodeID) bool {
	return p.level(parent, "AndOperand", func(n ast.NodeID) bool {
		return star(func() bool { return p.tok(n, token.NOT) }) && p.level4Expr(n)
	})
}

func (p *Parser) level4Expr(parent ast.NodeID) bool {
	return p.level(parent, "Level4Expr", func(n ast.NodeID) bool {
		return p.level3Expr(n) && opt(p.rule(n, "RelOp", func(op ast.NodeID) bool {
			return p.anyTok(op, token.EQUAL_EQUAL, token.BANG_EQUAL, token.LESS,
				token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL) && p.level3Expr(op)
		}))
	})
}

func (p *Parser) level3Expr(parent ast.NodeID) bool {
	return p.level(parent, "Level3Expr", func(n ast.NodeID) bool {
		return p.level2Expr(n) && star(func() bool {
			return p.rule(n, "ConcatOp", func(op ast.NodeID) bool {
				return p.tok(op, token.SLASH) && p.tok(op, token.SLASH) && p.level2Expr(op)
			})
		})
	})
}

func (p *Parser) level2Expr(parent ast.NodeID) bool {
	return p.level(parent, "Level2Expr", func(n ast.NodeID) bool {
		return opt(p.sign(n)) && p.addOperand(n) && star(func() bool {
			return p.rule(n, "AddOp", func(op ast.NodeID) bool {
				return p.anyTok(op, token.PLUS, token.MINUS) && p.addOperand(op)
			})
		})
	})
}

func (p *Parser) sign(parent ast.NodeID) bool {
	return p.rule(parent, "Sign", func(n ast.NodeID) bool {
		return p.anyTok(n, token.PLUS, token.MINUS)
	})
}

func (p *Parser) addOperand(parent ast.NodeID) bool {
	return p.level(parent, "AddOperand", func(n ast.NodeID) bool {
		return p.multOperand(n) && star(func() bool {
			return p.rule(n, "MultOp", func(op ast.NodeID) bool {
				// A second slash is a concatenation, leave both for Level3Expr.
				return p.anyTok(op, token.STAR, token.SLASH) && p.multOperand(op)
			})
		})
	})
}

func (p *Parser) multOperand(parent ast.NodeID) bool {
	return p.level(parent, "MultOperand", func(n ast.NodeID) bool {
		return p.primary(n) && opt(p.rule(n, "PowerOp", func(op ast.NodeID) bool {
			// Exponentiation is right associative: the right operand may be signed.
			return p.tok(op, token.STAR_STAR) && opt(p.sign(op)) && p.multOperand(op)
		}))
	})
}

// primary alternatives are tried in this order: arithmetic constants,
// empty-argument function reference, name with optional subscripts or arguments,
// parenthesized expression, character and logical constants.
// Whether NAME(...) is an array element or a function call is not decided here.
func (p *Parser) primary(parent ast.NodeID) bool {
	return p.rule(parent, "Primary",
		func(n ast.NodeID) bool { return p.unsignedArithmeticConstant(n) },
		func(n ast.NodeID) bool { return p.functionReference(n) },
		func(n ast.NodeID) bool { return p.nameDataRef(n) },
		func(n ast.NodeID) bool { return p.tok(n, token.LPAREN) && p.expr(n) && p.tok(n, token.RPAREN) },
		func(n ast.NodeID) bool { return p.tok(n, token.SCON) },
		func(n ast.NodeID) bool { return p.logicalConstant(n) },
		func(n ast.NodeID) bool { return p.anyTok(n, token.HCON, token.BCON, token.OCON, token.ZCON) },
	)
}

func (p *Parser) unsignedArithmeticConstant(parent ast.NodeID) bool {
	return p.rule(parent, "UnsignedArithmeticConstant",
		func(n ast.NodeID) bool { return p.complexConst(n) },
		func(n ast.NodeID) bool { return p.anyTok(n, token.RDCON, token.ICON) },
	)
}

// complexConst matches (re, im) where both parts are optionally signed numeric constants.
func (p *Parser) complexConst(parent ast.NodeID) bool {
	return p.rule(parent, "ComplexConst", func(n ast.NodeID) bool {
		return p.tok(n, token.LPAREN) && p.complexComponent(n) && p.tok(n, token.COMMA) &&
			p.complexComponent(n) && p.tok(n, token.RPAREN)
	})
}

func (p *Parser) complexComponent(parent ast.NodeID) bool {
	return p.rule(parent, "ComplexComponent", func(n ast.NodeID) bool {
		return opt(p.sign(n)) && p.anyTok(n, token.ICON, token.RDCON)
	})
}

func (p *Parser) logicalConstant(parent ast.NodeID) bool {
	return p.rule(parent, "LogicalConstant", func(n ast.NodeID) bool {
		return p.anyTok(n, token.TRUE, token.FALSE)
	})
}

// functionReference matches NAME() which can only be a function call.
func (p *Parser) functionReference(parent ast.NodeID) bool {
	return p.rule(parent, "FunctionReference", func(n ast.NodeID) bool {
		return p.name(n, "Name") && p.tok(n, token.LPAREN) && p.tok(n, token.RPAREN)
	})
}

// nameDataRef matches a name followed by any number of parenthesized subscript
// or argument lists, as in A, A(I,J), F(X) and C(I)(1:3).
func (p *Parser) nameDataRef(parent ast.NodeID) bool {
	return p.rule(parent, "NameDataRef", func(n ast.NodeID) bool {
		return p.name(n, "Name") && star(func() bool { return p.complexDataRefTail(n) })
	})
}

func (p *Parser) complexDataRefTail(parent ast.NodeID) bool {
	return p.rule(parent, "ComplexDataRefTail", func(n ast.NodeID) bool {
		return p.tok(n, token.LPAREN) && p.sectionSubscriptList(n) && p.tok(n, token.RPAREN)
	})
}

func (p *Parser) sectionSubscriptList(parent ast.NodeID) bool {
	return p.list(parent, "SectionSubscriptList", p.sectionSubscript)
}

// sectionSubscript matches a subscript, a substring range or an actual argument:
// E, E:, E:E, :E and a bare colon. A Hollerith constant is accepted as an actual argument.
func (p *Parser) sectionSubscript(parent ast.NodeID) bool {
	return p.rule(parent, "SectionSubscript",
		func(n ast.NodeID) bool {
			return p.expr(n) && opt(p.tok(n, token.COLON) && opt(p.expr(n)))
		},
		func(n ast.NodeID) bool { return p.tok(n, token.COLON) && opt(p.expr(n)) },
		func(n ast.NodeID) bool { return p.tok(n, token.STAR) && p.lblRef(n) },
	)
}

// list matches item {COMMA item} under a single node labeled label.
func (p *Parser) list(parent ast.NodeID, label string, item func(ast.NodeID) bool) bool {
	return p.rule(parent, label, func(n ast.NodeID) bool {
		return item(n) && star(func() bool {
			return p.seq(n, func(n ast.NodeID) bool { return p.tok(n, token.COMMA) && item(n) })
		})
	})
}

// seq runs fn on parent and undoes whatever fn attached if it fails.
// Unlike rule it does not create a node of its own.
func (p *Parser) seq(parent ast.NodeID, fn func(ast.NodeID) bool) bool {
	start := p.pos
	m := p.tree.Mark(parent)
	if fn(parent) {
		return true
	}
	p.tree.Rollback(m)
	p.pos = start
	return false
}

// name matches an identifier wrapped in a node labeled label, such as
// VariableName or SubroutineName, so later stages know the role of the name.
func (p *Parser) name(parent ast.NodeID, label string) bool {
	return p.rule(parent, label, func(n ast.NodeID) bool { return p.ident(n) })
}

// ident matches an identifier. Identifiers that scan like edit descriptors (I1, E2)
// are accepted as long as they hold no decimal point.
func (p *Parser) ident(parent ast.NodeID) bool {
	lx := p.toks[p.pos]
	if lx.Tok == token.ID || (lx.Tok == token.FCON && !strings.Contains(lx.Text, ".")) {
		p.leaf(parent)
		return true
	}
	p.miss(token.ID)
	return false
}

func (p *Parser) lblRef(parent ast.NodeID) bool {
	return p.rule(parent, "LblRef", func(n ast.NodeID) bool { return p.tok(n, token.ICON) })
}

func (p *Parser) lblRefList(parent ast.NodeID) bool {
	return p.list(parent, "LblRefList", p.lblRef)
}

// lblDef matches the optional statement label. It fails without consuming when
// there is no label so callers wrap it in opt.
func (p *Parser) lblDef(parent ast.NodeID) bool {
	return p.rule(parent, "LblDef", func(n ast.NodeID) bool { return p.tok(n, token.ICON) })
}

// variable matches a variable reference: a name with optional subscripts and substring.
func (p *Parser) variable(parent ast.NodeID) bool {
	return p.rule(parent, "Variable", func(n ast.NodeID) bool {
		return p.name(n, "VariableName") && star(func() bool { return p.complexDataRefTail(n) })
	})
}

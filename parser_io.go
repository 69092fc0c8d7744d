package fort2jul

import (
	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/token"
)

// I/O statements.

// printStmt matches PRINT fmt[, items].
func (p *Parser) printStmt(parent ast.NodeID) bool {
	return p.rule(parent, "PrintStmt",
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.PRINT) && p.formatIdentifier(n) &&
				p.tok(n, token.COMMA) && p.outputItemList(n) && p.eos(n)
		},
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.PRINT) && p.formatIdentifier(n) && p.eos(n)
		},
	)
}

// formatIdentifier matches a FORMAT label, * for list-directed formatting,
// a character constant holding a format or a variable holding one.
func (p *Parser) formatIdentifier(parent ast.NodeID) bool {
	return p.rule(parent, "FormatIdentifier",
		func(n ast.NodeID) bool { return p.lblRef(n) },
		func(n ast.NodeID) bool { return p.tok(n, token.STAR) },
		func(n ast.NodeID) bool { return p.tok(n, token.SCON) },
		func(n ast.NodeID) bool { return p.name(n, "VariableName") },
	)
}

func (p *Parser) outputItemList(parent ast.NodeID) bool {
	return p.list(parent, "OutputItemList", p.outputItem)
}

func (p *Parser) outputItem(parent ast.NodeID) bool {
	return p.level(parent, "OutputItem",
		func(n ast.NodeID) bool { return p.outputImpliedDo(n) },
		func(n ast.NodeID) bool { return p.expr(n) },
	)
}

func (p *Parser) outputImpliedDo(parent ast.NodeID) bool {
	return p.rule(parent, "OutputImpliedDo", func(n ast.NodeID) bool {
		return p.tok(n, token.LPAREN) && p.impliedDoItems(n, "OutputItemList", p.outputItem) &&
			p.impliedDoControl(n) && p.tok(n, token.RPAREN)
	})
}

func (p *Parser) inputItemList(parent ast.NodeID) bool {
	return p.list(parent, "InputItemList", p.inputItem)
}

func (p *Parser) inputItem(parent ast.NodeID) bool {
	return p.level(parent, "InputItem",
		func(n ast.NodeID) bool { return p.inputImpliedDo(n) },
		func(n ast.NodeID) bool { return p.variable(n) },
	)
}

func (p *Parser) inputImpliedDo(parent ast.NodeID) bool {
	return p.rule(parent, "InputImpliedDo", func(n ast.NodeID) bool {
		return p.tok(n, token.LPAREN) && p.impliedDoItems(n, "InputItemList", p.inputItem) &&
			p.impliedDoControl(n) && p.tok(n, token.RPAREN)
	})
}

// readStmt matches READ (control-list) [items] and READ fmt[, items].
func (p *Parser) readStmt(parent ast.NodeID) bool {
	return p.rule(parent, "ReadStmt",
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.READ) && p.tok(n, token.LPAREN) &&
				p.ioControlSpecList(n) && p.tok(n, token.RPAREN) && opt(p.inputItemList(n)) && p.eos(n)
		},
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.READ) && p.formatIdentifier(n) &&
				opt(p.seq(n, func(n ast.NodeID) bool { return p.tok(n, token.COMMA) && p.inputItemList(n) })) && p.eos(n)
		},
	)
}

func (p *Parser) writeStmt(parent ast.NodeID) bool {
	return p.rule(parent, "WriteStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.WRITE) && p.tok(n, token.LPAREN) &&
			p.ioControlSpecList(n) && p.tok(n, token.RPAREN) && opt(p.outputItemList(n)) && p.eos(n)
	})
}

func (p *Parser) ioControlSpecList(parent ast.NodeID) bool {
	return p.list(parent, "IoControlSpecList", p.ioControlSpec)
}

// ioControlSpec matches one specifier of a READ or WRITE control list.
// Positional specifiers are unit first and format second.
func (p *Parser) ioControlSpec(parent ast.NodeID) bool {
	return p.rule(parent, "IoControlSpec",
		func(n ast.NodeID) bool { return p.tok(n, token.FMT_EQUAL) && p.formatIdentifier(n) },
		func(n ast.NodeID) bool { return p.tok(n, token.UNIT_EQUAL) && p.unitIdentifier(n) },
		func(n ast.NodeID) bool { return p.tok(n, token.REC_EQUAL) && p.expr(n) },
		func(n ast.NodeID) bool { return p.tok(n, token.END_EQUAL) && p.lblRef(n) },
		func(n ast.NodeID) bool { return p.tok(n, token.ERR_EQUAL) && p.lblRef(n) },
		func(n ast.NodeID) bool { return p.tok(n, token.IOSTAT_EQUAL) && p.variable(n) },
		func(n ast.NodeID) bool { return p.unitIdentifier(n) },
	)
}

// unitIdentifier matches * or an expression naming an external unit.
// A positional FORMAT label also scans as a unit identifier.
func (p *Parser) unitIdentifier(parent ast.NodeID) bool {
	return p.rule(parent, "UnitIdentifier",
		func(n ast.NodeID) bool { return p.tok(n, token.STAR) },
		func(n ast.NodeID) bool { return p.expr(n) },
	)
}

func (p *Parser) openStmt(parent ast.NodeID) bool {
	spec := func(n ast.NodeID) bool {
		return p.rule(n, "ConnectSpec",
			func(n ast.NodeID) bool { return p.tok(n, token.UNIT_EQUAL) && p.unitIdentifier(n) },
			func(n ast.NodeID) bool { return p.tok(n, token.ERR_EQUAL) && p.lblRef(n) },
			func(n ast.NodeID) bool { return p.tok(n, token.IOSTAT_EQUAL) && p.variable(n) },
			func(n ast.NodeID) bool {
				return p.anyTok(n, token.FILE_EQUAL, token.STATUS_EQUAL, token.ACCESS_EQUAL, token.FORM_EQUAL,
					token.RECL_EQUAL, token.BLANK_EQUAL) && p.expr(n)
			},
			func(n ast.NodeID) bool { return p.unitIdentifier(n) },
		)
	}
	return p.rule(parent, "OpenStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.OPEN) && p.tok(n, token.LPAREN) &&
			p.list(n, "ConnectSpecList", spec) && p.tok(n, token.RPAREN) && p.eos(n)
	})
}

func (p *Parser) closeStmt(parent ast.NodeID) bool {
	spec := func(n ast.NodeID) bool {
		return p.rule(n, "CloseSpec",
			func(n ast.NodeID) bool { return p.tok(n, token.UNIT_EQUAL) && p.unitIdentifier(n) },
			func(n ast.NodeID) bool { return p.tok(n, token.ERR_EQUAL) && p.lblRef(n) },
			func(n ast.NodeID) bool { return p.tok(n, token.IOSTAT_EQUAL) && p.variable(n) },
			func(n ast.NodeID) bool { return p.tok(n, token.STATUS_EQUAL) && p.expr(n) },
			func(n ast.NodeID) bool { return p.unitIdentifier(n) },
		)
	}
	return p.rule(parent, "CloseStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.CLOSE) && p.tok(n, token.LPAREN) &&
			p.list(n, "CloseSpecList", spec) && p.tok(n, token.RPAREN) && p.eos(n)
	})
}

func (p *Parser) inquireStmt(parent ast.NodeID) bool {
	spec := func(n ast.NodeID) bool {
		return p.rule(n, "InquireSpec",
			func(n ast.NodeID) bool { return p.tok(n, token.UNIT_EQUAL) && p.unitIdentifier(n) },
			func(n ast.NodeID) bool { return p.tok(n, token.FILE_EQUAL) && p.expr(n) },
			func(n ast.NodeID) bool { return p.tok(n, token.ERR_EQUAL) && p.lblRef(n) },
			func(n ast.NodeID) bool {
				return p.anyTok(n, token.IOSTAT_EQUAL, token.EXIST_EQUAL, token.OPENED_EQUAL, token.NUMBER_EQUAL,
					token.NAMED_EQUAL, token.NAME_EQUAL, token.ACCESS_EQUAL, token.SEQUENTIAL_EQUAL,
					token.DIRECT_EQUAL, token.FORM_EQUAL, token.FORMATTED_EQUAL, token.UNFORMATTED_EQUAL,
					token.RECL_EQUAL, token.NEXTREC_EQUAL, token.BLANK_EQUAL) && p.variable(n)
			},
			func(n ast.NodeID) bool { return p.unitIdentifier(n) },
		)
	}
	return p.rule(parent, "InquireStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.INQUIRE) && p.tok(n, token.LPAREN) &&
			p.list(n, "InquireSpecList", spec) && p.tok(n, token.RPAREN) && p.eos(n)
	})
}

func (p *Parser) backspaceStmt(parent ast.NodeID) bool {
	return p.positionStmt(parent, "BackspaceStmt", token.BACKSPACE)
}

func (p *Parser) endfileStmt(parent ast.NodeID) bool {
	return p.positionStmt(parent, "EndfileStmt", token.ENDFILE)
}

func (p *Parser) rewindStmt(parent ast.NodeID) bool {
	return p.positionStmt(parent, "RewindStmt", token.REWIND)
}

// positionStmt matches the file positioning statements, KW unit and KW (spec-list).
func (p *Parser) positionStmt(parent ast.NodeID, label string, kw token.Token) bool {
	spec := func(n ast.NodeID) bool {
		return p.rule(n, "PositionSpec",
			func(n ast.NodeID) bool { return p.tok(n, token.UNIT_EQUAL) && p.unitIdentifier(n) },
			func(n ast.NodeID) bool { return p.tok(n, token.ERR_EQUAL) && p.lblRef(n) },
			func(n ast.NodeID) bool { return p.tok(n, token.IOSTAT_EQUAL) && p.variable(n) },
			func(n ast.NodeID) bool { return p.unitIdentifier(n) },
		)
	}
	return p.rule(parent, label,
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, kw) && p.tok(n, token.LPAREN) &&
				p.list(n, "PositionSpecList", spec) && p.tok(n, token.RPAREN) && p.eos(n)
		},
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, kw) && p.unitIdentifier(n) && p.eos(n)
		},
	)
}

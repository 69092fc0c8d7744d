package fort2jul

import (
	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/token"
)

// Program structure.

func (p *Parser) program(parent ast.NodeID) bool {
	return p.rule(parent, "program", func(n ast.NodeID) bool {
		return star(func() bool { return p.commentOrNewline(n) }) &&
			p.executableProgram(n) &&
			star(func() bool { return p.commentOrNewline(n) }) &&
			p.tok(n, token.EOF)
	})
}

// sfVarName is the fallback entry point: an input made of a single name.
func (p *Parser) sfVarName(parent ast.NodeID) bool {
	return p.rule(parent, "SFVarName", func(n ast.NodeID) bool {
		return star(func() bool { return p.commentOrNewline(n) }) &&
			p.ident(n) &&
			star(func() bool { return p.commentOrNewline(n) }) &&
			p.tok(n, token.EOF)
	})
}

func (p *Parser) commentOrNewline(parent ast.NodeID) bool {
	return p.anyTok(parent, token.COMMENT, token.NEWLINE)
}

// eos matches the end of a statement: one or more newlines and comment lines.
// It also matches, without consuming, right before the end of input.
func (p *Parser) eos(parent ast.NodeID) bool {
	return p.rule(parent, "EOS",
		func(n ast.NodeID) bool {
			return p.commentOrNewline(n) && star(func() bool { return p.commentOrNewline(n) })
		},
		func(n ast.NodeID) bool { return p.peek(0) == token.EOF },
	)
}

func (p *Parser) executableProgram(parent ast.NodeID) bool {
	return p.rule(parent, "ExecutableProgram", func(n ast.NodeID) bool {
		return p.programUnit(n) && star(func() bool { return p.programUnit(n) })
	})
}

func (p *Parser) programUnit(parent ast.NodeID) bool {
	return p.level(parent, "ProgramUnit",
		func(n ast.NodeID) bool { return p.mainProgram(n) },
		func(n ast.NodeID) bool { return p.functionSubprogram(n) },
		func(n ast.NodeID) bool { return p.subroutineSubprogram(n) },
		func(n ast.NodeID) bool { return p.blockDataSubprogram(n) },
	)
}

func (p *Parser) mainProgram(parent ast.NodeID) bool {
	return p.rule(parent, "MainProgram",
		func(n ast.NodeID) bool {
			return p.programStmt(n) && opt(p.body(n)) && p.endProgramStmt(n)
		},
		func(n ast.NodeID) bool {
			return opt(p.body(n)) && p.endProgramStmt(n)
		},
	)
}

func (p *Parser) programStmt(parent ast.NodeID) bool {
	return p.rule(parent, "ProgramStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.PROGRAM) && p.name(n, "ProgramName") && p.eos(n)
	})
}

func (p *Parser) endProgramStmt(parent ast.NodeID) bool {
	return p.rule(parent, "EndProgramStmt",
		func(n ast.NodeID) bool { return opt(p.lblDef(n)) && p.tok(n, token.END) && p.eos(n) },
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.ENDPROGRAM) && opt(p.name(n, "EndName")) && p.eos(n)
		},
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.END) && p.tok(n, token.PROGRAM) &&
				opt(p.name(n, "EndName")) && p.eos(n)
		},
	)
}

func (p *Parser) functionSubprogram(parent ast.NodeID) bool {
	return p.rule(parent, "FunctionSubprogram", func(n ast.NodeID) bool {
		return p.functionStmt(n) && opt(p.body(n)) && p.endFunctionStmt(n)
	})
}

func (p *Parser) functionStmt(parent ast.NodeID) bool {
	return p.rule(parent, "FunctionStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && opt(p.typeSpec(n)) && p.tok(n, token.FUNCTION) &&
			p.name(n, "FunctionName") && p.tok(n, token.LPAREN) &&
			opt(p.list(n, "FunctionParList", func(n ast.NodeID) bool { return p.name(n, "DummyArgName") })) &&
			p.tok(n, token.RPAREN) && p.eos(n)
	})
}

func (p *Parser) endFunctionStmt(parent ast.NodeID) bool {
	return p.rule(parent, "EndFunctionStmt",
		func(n ast.NodeID) bool { return opt(p.lblDef(n)) && p.tok(n, token.END) && p.eos(n) },
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.ENDFUNCTION) && opt(p.name(n, "EndName")) && p.eos(n)
		},
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.END) && p.tok(n, token.FUNCTION) &&
				opt(p.name(n, "EndName")) && p.eos(n)
		},
	)
}

func (p *Parser) subroutineSubprogram(parent ast.NodeID) bool {
	return p.rule(parent, "SubroutineSubprogram", func(n ast.NodeID) bool {
		return p.subroutineStmt(n) && opt(p.body(n)) && p.endSubroutineStmt(n)
	})
}

func (p *Parser) subroutineStmt(parent ast.NodeID) bool {
	return p.rule(parent, "SubroutineStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.SUBROUTINE) && p.name(n, "SubroutineName") &&
			opt(p.seq(n, func(n ast.NodeID) bool {
				return p.tok(n, token.LPAREN) && opt(p.list(n, "SubroutineParList", p.subroutinePar)) && p.tok(n, token.RPAREN)
			})) && p.eos(n)
	})
}

func (p *Parser) subroutinePar(parent ast.NodeID) bool {
	return p.rule(parent, "SubroutinePar",
		func(n ast.NodeID) bool { return p.name(n, "DummyArgName") },
		func(n ast.NodeID) bool { return p.tok(n, token.STAR) },
	)
}

func (p *Parser) endSubroutineStmt(parent ast.NodeID) bool {
	return p.rule(parent, "EndSubroutineStmt",
		func(n ast.NodeID) bool { return opt(p.lblDef(n)) && p.tok(n, token.END) && p.eos(n) },
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.ENDSUBROUTINE) && opt(p.name(n, "EndName")) && p.eos(n)
		},
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.END) && p.tok(n, token.SUBROUTINE) &&
				opt(p.name(n, "EndName")) && p.eos(n)
		},
	)
}

func (p *Parser) blockDataSubprogram(parent ast.NodeID) bool {
	return p.rule(parent, "BlockDataSubprogram", func(n ast.NodeID) bool {
		return p.blockDataStmt(n) && opt(p.body(n)) && p.endBlockDataStmt(n)
	})
}

func (p *Parser) blockDataStmt(parent ast.NodeID) bool {
	return p.rule(parent, "BlockDataStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.blockDataKw(n) && opt(p.name(n, "BlockDataName")) && p.eos(n)
	})
}

func (p *Parser) blockDataKw(n ast.NodeID) bool {
	return p.tok(n, token.BLOCKDATA) || p.seq(n, func(n ast.NodeID) bool {
		return p.tok(n, token.BLOCK) && p.tok(n, token.DATA)
	})
}

func (p *Parser) endBlockDataStmt(parent ast.NodeID) bool {
	return p.rule(parent, "EndBlockDataStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.END) &&
			opt(p.blockDataKw(n) && opt(p.name(n, "EndName"))) && p.eos(n)
	})
}

// body matches one or more statements. Labeled DO loops do not nest in the
// tree: the statements of a loop body are siblings of the DO statement.
func (p *Parser) body(parent ast.NodeID) bool {
	return p.rule(parent, "Body", func(n ast.NodeID) bool {
		return p.bodyConstruct(n) && star(func() bool { return p.bodyConstruct(n) })
	})
}

func (p *Parser) bodyConstruct(parent ast.NodeID) bool {
	return p.level(parent, "BodyConstruct",
		func(n ast.NodeID) bool { return p.executableConstruct(n) },
		func(n ast.NodeID) bool { return p.specificationPartConstruct(n) },
	)
}

func (p *Parser) executableConstruct(parent ast.NodeID) bool {
	return p.level(parent, "ExecutableConstruct",
		func(n ast.NodeID) bool { return p.actionStmt(n) },
		func(n ast.NodeID) bool { return p.labelDoStmt(n) },
		func(n ast.NodeID) bool { return p.ifConstruct(n) },
	)
}

// executionPartConstruct is a statement allowed inside an IF block.
func (p *Parser) executionPartConstruct(parent ast.NodeID) bool {
	return p.level(parent, "ExecutionPartConstruct",
		func(n ast.NodeID) bool { return p.executableConstruct(n) },
		func(n ast.NodeID) bool { return p.formatStmt(n) },
		func(n ast.NodeID) bool { return p.dataStmt(n) },
		func(n ast.NodeID) bool { return p.entryStmt(n) },
	)
}

// actionStmt alternatives are tried in a fixed priority order. PRINT goes first
// and the arithmetic IF is tried before assignment and the logical IF.
func (p *Parser) actionStmt(parent ast.NodeID) bool {
	return p.level(parent, "ActionStmt",
		func(n ast.NodeID) bool { return p.printStmt(n) },
		func(n ast.NodeID) bool { return p.arithmeticIfStmt(n) },
		func(n ast.NodeID) bool { return p.assignmentStmt(n) },
		func(n ast.NodeID) bool { return p.assignStmt(n) },
		func(n ast.NodeID) bool { return p.backspaceStmt(n) },
		func(n ast.NodeID) bool { return p.callStmt(n) },
		func(n ast.NodeID) bool { return p.closeStmt(n) },
		func(n ast.NodeID) bool { return p.continueStmt(n) },
		func(n ast.NodeID) bool { return p.endfileStmt(n) },
		func(n ast.NodeID) bool { return p.gotoStmt(n) },
		func(n ast.NodeID) bool { return p.computedGotoStmt(n) },
		func(n ast.NodeID) bool { return p.assignedGotoStmt(n) },
		func(n ast.NodeID) bool { return p.ifStmt(n) },
		func(n ast.NodeID) bool { return p.inquireStmt(n) },
		func(n ast.NodeID) bool { return p.openStmt(n) },
		func(n ast.NodeID) bool { return p.pauseStmt(n) },
		func(n ast.NodeID) bool { return p.readStmt(n) },
		func(n ast.NodeID) bool { return p.returnStmt(n) },
		func(n ast.NodeID) bool { return p.rewindStmt(n) },
		func(n ast.NodeID) bool { return p.stmtFunctionStmt(n) },
		func(n ast.NodeID) bool { return p.stopStmt(n) },
		func(n ast.NodeID) bool { return p.writeStmt(n) },
	)
}

// Executable statements.

func (p *Parser) arithmeticIfStmt(parent ast.NodeID) bool {
	return p.rule(parent, "ArithmeticIfStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.IF) && p.tok(n, token.LPAREN) && p.expr(n) &&
			p.tok(n, token.RPAREN) && p.lblRef(n) && p.tok(n, token.COMMA) && p.lblRef(n) &&
			p.tok(n, token.COMMA) && p.lblRef(n) && p.eos(n)
	})
}

func (p *Parser) assignmentStmt(parent ast.NodeID) bool {
	return p.rule(parent, "AssignmentStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.variable(n) && p.tok(n, token.EQUAL) && p.expr(n) && p.eos(n)
	})
}

func (p *Parser) assignStmt(parent ast.NodeID) bool {
	return p.rule(parent, "AssignStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.ASSIGN) && p.lblRef(n) && p.tok(n, token.TO) &&
			p.name(n, "VariableName") && p.eos(n)
	})
}

func (p *Parser) callStmt(parent ast.NodeID) bool {
	return p.rule(parent, "CallStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.CALL) && p.name(n, "SubroutineNameUse") &&
			opt(p.seq(n, func(n ast.NodeID) bool {
				return p.tok(n, token.LPAREN) && opt(p.list(n, "SubroutineArgList", p.subroutineArg)) &&
					p.tok(n, token.RPAREN)
			})) && p.eos(n)
	})
}

func (p *Parser) subroutineArg(parent ast.NodeID) bool {
	return p.rule(parent, "SubroutineArg",
		func(n ast.NodeID) bool { return p.expr(n) },
		func(n ast.NodeID) bool { return p.tok(n, token.HCON) },
		func(n ast.NodeID) bool { return p.tok(n, token.STAR) && p.lblRef(n) },
	)
}

func (p *Parser) continueStmt(parent ast.NodeID) bool {
	return p.rule(parent, "ContinueStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.CONTINUE) && p.eos(n)
	})
}

// goToKw matches GOTO and GO TO.
func (p *Parser) goToKw(parent ast.NodeID) bool {
	return p.rule(parent, "GoToKw",
		func(n ast.NodeID) bool { return p.tok(n, token.GOTO) },
		func(n ast.NodeID) bool { return p.tok(n, token.GO) && p.tok(n, token.TO) },
	)
}

func (p *Parser) gotoStmt(parent ast.NodeID) bool {
	return p.rule(parent, "GotoStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.goToKw(n) && p.lblRef(n) && p.eos(n)
	})
}

func (p *Parser) computedGotoStmt(parent ast.NodeID) bool {
	return p.rule(parent, "ComputedGotoStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.goToKw(n) && p.tok(n, token.LPAREN) && p.lblRefList(n) &&
			p.tok(n, token.RPAREN) && opt(p.tok(n, token.COMMA)) && p.expr(n) && p.eos(n)
	})
}

func (p *Parser) assignedGotoStmt(parent ast.NodeID) bool {
	return p.rule(parent, "AssignedGotoStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.goToKw(n) && p.name(n, "VariableName") &&
			opt(p.seq(n, func(n ast.NodeID) bool {
				return opt(p.tok(n, token.COMMA)) && p.tok(n, token.LPAREN) && p.lblRefList(n) && p.tok(n, token.RPAREN)
			})) && p.eos(n)
	})
}

// ifStmt matches the logical IF: IF (expr) action-statement.
func (p *Parser) ifStmt(parent ast.NodeID) bool {
	return p.rule(parent, "IfStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.IF) && p.tok(n, token.LPAREN) && p.expr(n) &&
			p.tok(n, token.RPAREN) && p.actionStmt(n)
	})
}

func (p *Parser) pauseStmt(parent ast.NodeID) bool {
	return p.rule(parent, "PauseStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.PAUSE) && opt(p.anyTok(n, token.ICON, token.SCON)) && p.eos(n)
	})
}

func (p *Parser) returnStmt(parent ast.NodeID) bool {
	return p.rule(parent, "ReturnStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.RETURN) && opt(p.expr(n)) && p.eos(n)
	})
}

func (p *Parser) stopStmt(parent ast.NodeID) bool {
	return p.rule(parent, "StopStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.STOP) && opt(p.anyTok(n, token.ICON, token.SCON)) && p.eos(n)
	})
}

// stmtFunctionStmt matches NAME(args) = expr. Since assignment is tried first
// this only matches forms assignment rejects; the code generator tells
// statement functions apart from array element assignment.
func (p *Parser) stmtFunctionStmt(parent ast.NodeID) bool {
	return p.rule(parent, "StmtFunctionStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.name(n, "Name") && p.tok(n, token.LPAREN) &&
			opt(p.list(n, "SFDummyArgNameList", func(n ast.NodeID) bool { return p.name(n, "SFDummyArgName") })) &&
			p.tok(n, token.RPAREN) && p.tok(n, token.EQUAL) && p.expr(n) && p.eos(n)
	})
}

// Block constructs.

// labelDoStmt matches DO label[,] var = e1, e2[, e3]. The loop body is not
// part of this node; it ends at the statement labeled with the DO's label.
func (p *Parser) labelDoStmt(parent ast.NodeID) bool {
	return p.level(parent, "DoConstruct", func(n ast.NodeID) bool {
		return p.rule(n, "LabelDoStmt", func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.DO) &&
				p.rule(n, "DoLblRef", func(n ast.NodeID) bool { return p.tok(n, token.ICON) }) &&
				opt(p.tok(n, token.COMMA)) && p.loopControl(n) && p.eos(n)
		})
	})
}

func (p *Parser) loopControl(parent ast.NodeID) bool {
	return p.rule(parent, "LoopControl", func(n ast.NodeID) bool {
		return p.name(n, "VariableName") && p.tok(n, token.EQUAL) && p.expr(n) &&
			p.tok(n, token.COMMA) && p.expr(n) &&
			opt(p.seq(n, func(n ast.NodeID) bool { return p.tok(n, token.COMMA) && p.expr(n) }))
	})
}

// ifConstruct matches a block IF. Its children are the IF-THEN statement,
// then ConditionalBody nodes alternating with ELSE IF and ELSE statements,
// and finally the END IF statement.
func (p *Parser) ifConstruct(parent ast.NodeID) bool {
	return p.rule(parent, "IfConstruct", func(n ast.NodeID) bool {
		return p.ifThenStmt(n) && p.conditionalBody(n) &&
			star(func() bool {
				return p.seq(n, func(n ast.NodeID) bool { return p.elseIfStmt(n) && p.conditionalBody(n) })
			}) &&
			opt(p.seq(n, func(n ast.NodeID) bool { return p.elseStmt(n) && p.conditionalBody(n) })) &&
			p.endIfStmt(n)
	})
}

func (p *Parser) conditionalBody(parent ast.NodeID) bool {
	return p.rule(parent, "ConditionalBody", func(n ast.NodeID) bool {
		return star(func() bool { return p.executionPartConstruct(n) })
	})
}

func (p *Parser) ifThenStmt(parent ast.NodeID) bool {
	return p.rule(parent, "IfThenStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.IF) && p.tok(n, token.LPAREN) && p.expr(n) &&
			p.tok(n, token.RPAREN) && p.tok(n, token.THEN) && p.eos(n)
	})
}

func (p *Parser) elseIfStmt(parent ast.NodeID) bool {
	return p.rule(parent, "ElseIfStmt",
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.ELSEIF) && p.tok(n, token.LPAREN) && p.expr(n) &&
				p.tok(n, token.RPAREN) && p.tok(n, token.THEN) && p.eos(n)
		},
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.ELSE) && p.tok(n, token.IF) && p.tok(n, token.LPAREN) &&
				p.expr(n) && p.tok(n, token.RPAREN) && p.tok(n, token.THEN) && p.eos(n)
		},
	)
}

func (p *Parser) elseStmt(parent ast.NodeID) bool {
	return p.rule(parent, "ElseStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.ELSE) && p.eos(n)
	})
}

func (p *Parser) endIfStmt(parent ast.NodeID) bool {
	return p.rule(parent, "EndIfStmt",
		func(n ast.NodeID) bool { return opt(p.lblDef(n)) && p.tok(n, token.ENDIF) && p.eos(n) },
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.END) && p.tok(n, token.IF) && p.eos(n)
		},
	)
}

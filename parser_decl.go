package fort2jul

import (
	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/token"
)

// Specification statements.

func (p *Parser) specificationPartConstruct(parent ast.NodeID) bool {
	return p.level(parent, "SpecificationPartConstruct",
		func(n ast.NodeID) bool { return p.implicitStmt(n) },
		func(n ast.NodeID) bool { return p.parameterStmt(n) },
		func(n ast.NodeID) bool { return p.formatStmt(n) },
		func(n ast.NodeID) bool { return p.entryStmt(n) },
		func(n ast.NodeID) bool { return p.declarationConstruct(n) },
	)
}

func (p *Parser) declarationConstruct(parent ast.NodeID) bool {
	return p.level(parent, "DeclarationConstruct",
		func(n ast.NodeID) bool { return p.typeDeclarationStmt(n) },
		func(n ast.NodeID) bool { return p.specificationStmt(n) },
	)
}

func (p *Parser) specificationStmt(parent ast.NodeID) bool {
	return p.level(parent, "SpecificationStmt",
		func(n ast.NodeID) bool { return p.commonStmt(n) },
		func(n ast.NodeID) bool { return p.dataStmt(n) },
		func(n ast.NodeID) bool { return p.dimensionStmt(n) },
		func(n ast.NodeID) bool { return p.equivalenceStmt(n) },
		func(n ast.NodeID) bool { return p.externalStmt(n) },
		func(n ast.NodeID) bool { return p.intrinsicStmt(n) },
		func(n ast.NodeID) bool { return p.saveStmt(n) },
	)
}

// typeSpec matches a type name. CHARACTER with a length selector is tried
// before the bare CHARACTER keyword, as is DOUBLE PRECISION before DOUBLE.
func (p *Parser) typeSpec(parent ast.NodeID) bool {
	kind := func(n ast.NodeID) bool {
		return p.rule(n, "KindSelector", func(n ast.NodeID) bool {
			return p.tok(n, token.STAR) && p.tok(n, token.ICON)
		})
	}
	return p.rule(parent, "TypeSpec",
		func(n ast.NodeID) bool { return p.tok(n, token.CHARACTER) && p.lengthSelector(n) },
		func(n ast.NodeID) bool { return p.tok(n, token.DOUBLE) && p.tok(n, token.PRECISION) },
		func(n ast.NodeID) bool { return p.tok(n, token.CHARACTER) },
		func(n ast.NodeID) bool { return p.tok(n, token.INTEGER) && opt(kind(n)) },
		func(n ast.NodeID) bool { return p.tok(n, token.REAL) && opt(kind(n)) },
		func(n ast.NodeID) bool { return p.tok(n, token.DOUBLEPRECISION) },
		func(n ast.NodeID) bool { return p.tok(n, token.COMPLEX) && opt(kind(n)) },
		func(n ast.NodeID) bool { return p.tok(n, token.LOGICAL) && opt(kind(n)) },
	)
}

// lengthSelector matches *len and *(len) where len may be * for assumed length.
func (p *Parser) lengthSelector(parent ast.NodeID) bool {
	return p.rule(parent, "LengthSelector",
		func(n ast.NodeID) bool {
			return p.tok(n, token.STAR) && p.tok(n, token.LPAREN) &&
				(p.tok(n, token.STAR) || p.expr(n)) && p.tok(n, token.RPAREN)
		},
		func(n ast.NodeID) bool { return p.tok(n, token.STAR) && p.tok(n, token.ICON) },
	)
}

func (p *Parser) typeDeclarationStmt(parent ast.NodeID) bool {
	return p.rule(parent, "TypeDeclarationStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.typeSpec(n) && p.list(n, "EntityDeclList", p.entityDecl) && p.eos(n)
	})
}

// entityDecl matches NAME[(array-spec)][*len].
func (p *Parser) entityDecl(parent ast.NodeID) bool {
	return p.rule(parent, "EntityDecl", func(n ast.NodeID) bool {
		return p.name(n, "ObjectName") &&
			opt(p.seq(n, func(n ast.NodeID) bool {
				return p.tok(n, token.LPAREN) && p.arraySpec(n) && p.tok(n, token.RPAREN)
			})) &&
			opt(p.lengthSelector(n))
	})
}

func (p *Parser) arraySpec(parent ast.NodeID) bool {
	return p.list(parent, "ArraySpec", p.explicitShapeSpec)
}

// explicitShapeSpec matches a dimension declarator: [lower:]upper where upper may be *.
func (p *Parser) explicitShapeSpec(parent ast.NodeID) bool {
	upper := func(n ast.NodeID) bool {
		return p.rule(n, "UpperBound",
			func(n ast.NodeID) bool { return p.expr(n) },
			func(n ast.NodeID) bool { return p.tok(n, token.STAR) },
		)
	}
	return p.rule(parent, "ExplicitShapeSpec", func(n ast.NodeID) bool {
		return opt(p.seq(n, func(n ast.NodeID) bool {
			return p.rule(n, "LowerBound", func(n ast.NodeID) bool { return p.expr(n) }) && p.tok(n, token.COLON)
		})) && upper(n)
	})
}

func (p *Parser) dimensionStmt(parent ast.NodeID) bool {
	return p.rule(parent, "DimensionStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.DIMENSION) && p.list(n, "ArrayDeclaratorList", p.arrayDeclarator) && p.eos(n)
	})
}

func (p *Parser) arrayDeclarator(parent ast.NodeID) bool {
	return p.rule(parent, "ArrayDeclarator", func(n ast.NodeID) bool {
		return p.name(n, "VariableName") && p.tok(n, token.LPAREN) && p.arraySpec(n) && p.tok(n, token.RPAREN)
	})
}

// commonStmt matches COMMON [/name/] list {[,] /name/ list}.
func (p *Parser) commonStmt(parent ast.NodeID) bool {
	block := func(n ast.NodeID) bool {
		return p.rule(n, "CommonBlock", func(n ast.NodeID) bool {
			return opt(p.comblock(n)) && p.list(n, "CommonBlockObjectList", p.commonBlockObject)
		})
	}
	return p.rule(parent, "CommonStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.COMMON) && block(n) &&
			star(func() bool {
				return p.seq(n, func(n ast.NodeID) bool {
					return opt(p.tok(n, token.COMMA)) && p.peek(0) == token.SLASH && block(n)
				})
			}) && p.eos(n)
	})
}

func (p *Parser) comblock(parent ast.NodeID) bool {
	return p.rule(parent, "Comblock", func(n ast.NodeID) bool {
		return p.tok(n, token.SLASH) && opt(p.name(n, "CommonBlockName")) && p.tok(n, token.SLASH)
	})
}

func (p *Parser) commonBlockObject(parent ast.NodeID) bool {
	return p.rule(parent, "CommonBlockObject", func(n ast.NodeID) bool {
		return p.name(n, "VariableName") && opt(p.seq(n, func(n ast.NodeID) bool {
			return p.tok(n, token.LPAREN) && p.arraySpec(n) && p.tok(n, token.RPAREN)
		}))
	})
}

// dataStmt matches DATA objects /values/ {[,] objects /values/}.
func (p *Parser) dataStmt(parent ast.NodeID) bool {
	return p.rule(parent, "DataStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.DATA) && p.dataStmtSet(n) &&
			star(func() bool {
				return p.seq(n, func(n ast.NodeID) bool { return opt(p.tok(n, token.COMMA)) && p.dataStmtSet(n) })
			}) && p.eos(n)
	})
}

func (p *Parser) dataStmtSet(parent ast.NodeID) bool {
	return p.rule(parent, "DataStmtSet", func(n ast.NodeID) bool {
		return p.list(n, "DataStmtObjectList", p.dataStmtObject) && p.tok(n, token.SLASH) &&
			p.list(n, "DataStmtValueList", p.dataStmtValue) && p.tok(n, token.SLASH)
	})
}

func (p *Parser) dataStmtObject(parent ast.NodeID) bool {
	return p.level(parent, "DataStmtObject",
		func(n ast.NodeID) bool { return p.dataImpliedDo(n) },
		func(n ast.NodeID) bool { return p.variable(n) },
	)
}

// dataImpliedDo matches (objects, var = e1, e2[, e3]) inside a DATA statement.
func (p *Parser) dataImpliedDo(parent ast.NodeID) bool {
	return p.rule(parent, "DataImpliedDo", func(n ast.NodeID) bool {
		return p.tok(n, token.LPAREN) && p.impliedDoItems(n, "DataIDoObjectList", p.dataStmtObject) &&
			p.impliedDoControl(n) && p.tok(n, token.RPAREN)
	})
}

// dataStmtValue matches [repeat*]constant.
func (p *Parser) dataStmtValue(parent ast.NodeID) bool {
	repeat := func(n ast.NodeID) bool {
		return p.rule(n, "DataRepeat", func(n ast.NodeID) bool {
			return p.tok(n, token.ICON) || p.name(n, "NamedConstantUse")
		}) && p.tok(n, token.STAR)
	}
	return p.rule(parent, "DataStmtValue", func(n ast.NodeID) bool {
		return opt(p.seq(n, repeat)) && p.dataConstant(n)
	})
}

func (p *Parser) dataConstant(parent ast.NodeID) bool {
	return p.rule(parent, "DataConstant",
		func(n ast.NodeID) bool { return opt(p.sign(n)) && p.unsignedArithmeticConstant(n) },
		func(n ast.NodeID) bool { return p.anyTok(n, token.SCON, token.HCON, token.BCON, token.OCON, token.ZCON) },
		func(n ast.NodeID) bool { return p.logicalConstant(n) },
		func(n ast.NodeID) bool { return p.name(n, "NamedConstantUse") },
	)
}

func (p *Parser) equivalenceStmt(parent ast.NodeID) bool {
	set := func(n ast.NodeID) bool {
		return p.rule(n, "EquivalenceSet", func(n ast.NodeID) bool {
			return p.tok(n, token.LPAREN) && p.variable(n) && p.tok(n, token.COMMA) &&
				p.list(n, "EquivalenceObjectList", p.variable) && p.tok(n, token.RPAREN)
		})
	}
	return p.rule(parent, "EquivalenceStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.EQUIVALENCE) && p.list(n, "EquivalenceSetList", set) && p.eos(n)
	})
}

func (p *Parser) externalStmt(parent ast.NodeID) bool {
	return p.rule(parent, "ExternalStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.EXTERNAL) &&
			p.list(n, "ExternalNameList", func(n ast.NodeID) bool { return p.name(n, "ExternalName") }) && p.eos(n)
	})
}

func (p *Parser) intrinsicStmt(parent ast.NodeID) bool {
	return p.rule(parent, "IntrinsicStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.INTRINSIC) &&
			p.list(n, "IntrinsicList", func(n ast.NodeID) bool { return p.name(n, "IntrinsicProcedureName") }) && p.eos(n)
	})
}

func (p *Parser) saveStmt(parent ast.NodeID) bool {
	entity := func(n ast.NodeID) bool {
		return p.rule(n, "SavedEntity",
			func(n ast.NodeID) bool { return p.name(n, "VariableName") },
			func(n ast.NodeID) bool { return p.comblock(n) },
		)
	}
	return p.rule(parent, "SaveStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.SAVE) && opt(p.list(n, "SavedEntityList", entity)) && p.eos(n)
	})
}

// implicitStmt matches IMPLICIT NONE and IMPLICIT type (a-h, o-z), ...
func (p *Parser) implicitStmt(parent ast.NodeID) bool {
	letters := func(n ast.NodeID) bool {
		return p.rule(n, "ImplicitRange", func(n ast.NodeID) bool {
			return p.ident(n) && opt(p.seq(n, func(n ast.NodeID) bool { return p.tok(n, token.MINUS) && p.ident(n) }))
		})
	}
	spec := func(n ast.NodeID) bool {
		return p.rule(n, "ImplicitSpec", func(n ast.NodeID) bool {
			return p.typeSpec(n) && p.tok(n, token.LPAREN) && p.list(n, "ImplicitRangeList", letters) && p.tok(n, token.RPAREN)
		})
	}
	return p.rule(parent, "ImplicitStmt",
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.IMPLICIT) && p.tok(n, token.NONE) && p.eos(n)
		},
		func(n ast.NodeID) bool {
			return opt(p.lblDef(n)) && p.tok(n, token.IMPLICIT) && p.list(n, "ImplicitSpecList", spec) && p.eos(n)
		},
	)
}

func (p *Parser) parameterStmt(parent ast.NodeID) bool {
	def := func(n ast.NodeID) bool {
		return p.rule(n, "NamedConstantDef", func(n ast.NodeID) bool {
			return p.name(n, "NamedConstant") && p.tok(n, token.EQUAL) && p.expr(n)
		})
	}
	return p.rule(parent, "ParameterStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.PARAMETER) && p.tok(n, token.LPAREN) &&
			p.list(n, "NamedConstantDefList", def) && p.tok(n, token.RPAREN) && p.eos(n)
	})
}

// formatStmt keeps the edit descriptors as a flat token list; they are
// interpreted by the code generator.
func (p *Parser) formatStmt(parent ast.NodeID) bool {
	return p.rule(parent, "FormatStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.FORMAT) && p.tok(n, token.LPAREN) &&
			p.fmtSpec(n) && p.tok(n, token.RPAREN) && p.eos(n)
	})
}

// fmtSpec matches any tokens with balanced parentheses up to the closing parenthesis.
func (p *Parser) fmtSpec(parent ast.NodeID) bool {
	return p.rule(parent, "FmtSpec", func(n ast.NodeID) bool {
		for {
			switch p.peek(0) {
			case token.RPAREN, token.NEWLINE, token.COMMENT, token.EOF:
				return true
			case token.LPAREN:
				if !p.seq(n, func(n ast.NodeID) bool {
					return p.tok(n, token.LPAREN) && p.fmtSpec(n) && p.tok(n, token.RPAREN)
				}) {
					return false
				}
			default:
				p.leaf(n)
			}
		}
	})
}

func (p *Parser) entryStmt(parent ast.NodeID) bool {
	return p.rule(parent, "EntryStmt", func(n ast.NodeID) bool {
		return opt(p.lblDef(n)) && p.tok(n, token.ENTRY) && p.name(n, "EntryName") &&
			opt(p.seq(n, func(n ast.NodeID) bool {
				return p.tok(n, token.LPAREN) && opt(p.list(n, "SubroutineParList", p.subroutinePar)) && p.tok(n, token.RPAREN)
			})) && p.eos(n)
	})
}

// impliedDoItems matches the item list of an implied DO. The list stops right
// before the ", var =" that starts the loop control.
func (p *Parser) impliedDoItems(parent ast.NodeID, label string, item func(ast.NodeID) bool) bool {
	return p.rule(parent, label, func(n ast.NodeID) bool {
		if !item(n) {
			return false
		}
		for p.peek(0) == token.COMMA && !p.atLoopControl(1) {
			if !p.seq(n, func(n ast.NodeID) bool { return p.tok(n, token.COMMA) && item(n) }) {
				return false
			}
		}
		return true
	})
}

// atLoopControl reports whether the tokens k positions ahead read NAME =.
func (p *Parser) atLoopControl(k int) bool {
	lx := p.toks[min(p.pos+k, len(p.toks)-1)]
	isName := lx.Tok == token.ID || lx.Tok == token.FCON
	return isName && p.peek(k+1) == token.EQUAL
}

// impliedDoControl matches , var = e1, e2[, e3].
func (p *Parser) impliedDoControl(n ast.NodeID) bool {
	return p.tok(n, token.COMMA) && p.name(n, "ImpliedDoVariable") && p.tok(n, token.EQUAL) &&
		p.expr(n) && p.tok(n, token.COMMA) && p.expr(n) &&
		opt(p.seq(n, func(n ast.NodeID) bool { return p.tok(n, token.COMMA) && p.expr(n) }))
}

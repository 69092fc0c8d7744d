package fort2jul

import (
	"errors"
	"testing"

	"github.com/nalgeon/be"
	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/token"
)

func newParser(t *testing.T, code string) *Parser {
	t.Helper()
	toks, _ := NewScanner(code, nil).Scan()
	p := &Parser{}
	err := p.Reset("test.f", toks, nil)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func mustParse(t *testing.T, code string) *ast.Tree {
	t.Helper()
	tree, err := newParser(t, code).Parse()
	if err != nil {
		t.Fatalf("parse failed: %v\n%s", err, code)
	}
	return tree
}

func childLabels(tree *ast.Tree, id ast.NodeID) []string {
	var labels []string
	for _, c := range tree.Children(id) {
		labels = append(labels, tree.Label(c))
	}
	return labels
}

func TestParseStatements(t *testing.T) {
	cases := []struct {
		src   string
		label string
		want  string
	}{
		0: {
			src:   "      X = 1 + Y\n      END\n",
			label: "AssignmentStmt",
			want:  `(AssignmentStmt (Variable (VariableName X)) = (Expr (Level2Expr (Primary (UnsignedArithmeticConstant 1)) (AddOp + (Primary (NameDataRef (Name Y)))))) (EOS \n))`,
		},
		1: {
			src:   "      DO 10 I = 1, 10\n   10 CONTINUE\n      END\n",
			label: "LabelDoStmt",
			want:  `(LabelDoStmt DO (DoLblRef 10) (LoopControl (VariableName I) = (Expr (Primary (UnsignedArithmeticConstant 1))) , (Expr (Primary (UnsignedArithmeticConstant 10)))) (EOS \n))`,
		},
		2: {
			src:   "      CALL SWAP(A, B)\n      END\n",
			label: "CallStmt",
			want:  `(CallStmt CALL (SubroutineNameUse SWAP) ( (SubroutineArgList (SubroutineArg (Expr (Primary (NameDataRef (Name A))))) , (SubroutineArg (Expr (Primary (NameDataRef (Name B)))))) ) (EOS \n))`,
		},
		3: {
			src:   "      PRINT *, N\n      END\n",
			label: "PrintStmt",
			want:  `(PrintStmt PRINT (FormatIdentifier *) , (OutputItemList (Expr (Primary (NameDataRef (Name N))))) (EOS \n))`,
		},
		4: {
			src:   "      IF (X .GT. 0) GOTO 20\n   20 END\n",
			label: "IfStmt",
			want:  `(IfStmt IF ( (Expr (Level4Expr (Primary (NameDataRef (Name X))) (RelOp .GT. (Primary (UnsignedArithmeticConstant 0))))) ) (GotoStmt (GoToKw GOTO) (LblRef 20) (EOS \n)))`,
		},
		5: {
			src:   "  100 FORMAT (I5, 2X, 'N')\n      END\n",
			label: "FormatStmt",
			want:  `(FormatStmt (LblDef 100) FORMAT ( (FmtSpec I5 , 2X , "N") ) (EOS \n))`,
		},
		6: {
			src:   "      Z = -A**2\n      END\n",
			label: "Expr",
			want:  `(Expr (Level2Expr (Sign -) (MultOperand (Primary (NameDataRef (Name A))) (PowerOp ** (Primary (UnsignedArithmeticConstant 2))))))`,
		},
		7: {
			src:   "      C = (1.0, -2.0)\n      END\n",
			label: "ComplexConst",
			want:  `(ComplexConst ( (ComplexComponent 1.0) , (ComplexComponent (Sign -) 2.0) ))`,
		},
	}
	for i, c := range cases {
		tree := mustParse(t, c.src)
		node := tree.Find(tree.Root, c.label)
		if node == ast.Nil {
			t.Errorf("case %d: no %s node in %s", i, c.label, ast.Sexpr(tree, tree.Root))
			continue
		}
		got := ast.Sexpr(tree, node)
		if got != c.want {
			t.Errorf("case %d:\ngot  %s\nwant %s", i, got, c.want)
		}
	}
}

func TestParseProgramBody(t *testing.T) {
	src := `      PROGRAM ALL
      INTEGER N, A(10)
      REAL X
      COMMON /C/ X
      DATA N /5/
      PARAMETER (PI = 3.14)
      EXTERNAL F
      N = 1
      IF (N .EQ. 1) GOTO 20
      GO TO (10, 20), N
   10 CONTINUE
   20 WRITE (6, 100) N
  100 FORMAT (I5)
      READ (*, *) X
      OPEN (UNIT=1, FILE='out.txt', STATUS='NEW')
      CLOSE (1)
      STOP
      END
`
	tree := mustParse(t, src)
	be.Equal(t, tree.Label(tree.Root), "program")
	main := tree.Find(tree.Root, "MainProgram")
	be.Equal(t, childLabels(tree, main), []string{"ProgramStmt", "Body", "EndProgramStmt"})
	body := tree.ChildLabeled(main, "Body")
	be.Equal(t, childLabels(tree, body), []string{
		"TypeDeclarationStmt", "TypeDeclarationStmt", "CommonStmt", "DataStmt", "ParameterStmt",
		"ExternalStmt", "AssignmentStmt", "IfStmt", "ComputedGotoStmt", "ContinueStmt",
		"WriteStmt", "FormatStmt", "ReadStmt", "OpenStmt", "CloseStmt", "StopStmt",
	})
}

func TestParseProgramUnits(t *testing.T) {
	src := `C     Units in one file.
      PROGRAM MAIN
      CALL S(1)
      END
      SUBROUTINE S(K)
      RETURN
      END
      REAL FUNCTION F(X)
      F = X
      END
      BLOCK DATA INIT
      END
`
	tree := mustParse(t, src)
	units := tree.ChildLabeled(tree.Root, "ExecutableProgram")
	be.Equal(t, childLabels(tree, units), []string{
		"MainProgram", "SubroutineSubprogram", "FunctionSubprogram", "BlockDataSubprogram",
	})
	fn := tree.Find(tree.Root, "FunctionStmt")
	be.Equal(t, ast.Sexpr(tree, fn), `(FunctionStmt (TypeSpec REAL) FUNCTION (FunctionName F) ( (FunctionParList (DummyArgName X)) ) (EOS \n))`)
}

func TestParseIfConstruct(t *testing.T) {
	src := `      IF (N .GT. 0) THEN
        N = 0
      ELSE IF (N .LT. -5) THEN
        N = 1
      ELSE
        N = 2
        N = 3
      END IF
      END
`
	tree := mustParse(t, src)
	ifc := tree.Find(tree.Root, "IfConstruct")
	be.Equal(t, childLabels(tree, ifc), []string{
		"IfThenStmt", "ConditionalBody", "ElseIfStmt", "ConditionalBody", "ElseStmt", "ConditionalBody", "EndIfStmt",
	})
	bodies := tree.ChildrenLabeled(ifc, "ConditionalBody")
	be.Equal(t, len(tree.Children(bodies[2])), 2)
}

func TestParseImpliedDo(t *testing.T) {
	tree := mustParse(t, "      PRINT *, (A(I), I = 1, 10, 2), N\n      END\n")
	ido := tree.Find(tree.Root, "OutputImpliedDo")
	be.True(t, ido != ast.Nil)
	be.Equal(t, ast.Source(tree, tree.ChildLabeled(ido, "OutputItemList")), "A(I)")
	be.Equal(t, tree.Text(tree.ChildLabeled(ido, "ImpliedDoVariable")), "I")
	be.Equal(t, len(tree.ChildrenLabeled(ido, "Expr")), 3)
	items := tree.Find(tree.Root, "OutputItemList")
	be.Equal(t, childLabels(tree, items), []string{"OutputImpliedDo", "COMMA", "Expr"})
}

func TestParseSameShapeForArrayAndCall(t *testing.T) {
	// Array elements and function calls are told apart by the code generator.
	tree := mustParse(t, "      Y = A(I, J) + F(X)\n      END\n")
	refs := tree.FindAll(tree.Root, "NameDataRef")
	be.Equal(t, len(refs), 5) // A, I, J, F and X.
	be.Equal(t, len(tree.FindAll(tree.Root, "ComplexDataRefTail")), 2)
}

func TestParseComments(t *testing.T) {
	src := "C     header\n      N = 1 ! set\n* star comment\n      END\n"
	tree := mustParse(t, src)
	assign := tree.Find(tree.Root, "AssignmentStmt")
	eos := tree.ChildLabeled(assign, "EOS")
	be.Equal(t, ast.Sexpr(tree, eos), `(EOS ! set \n * star comment \n)`)
	be.Equal(t, tree.Label(tree.Child(tree.Root, 0)), "COMMENT")
}

func TestParseFallback(t *testing.T) {
	tree := mustParse(t, "      ALPHA\n")
	be.Equal(t, tree.Label(tree.Root), "SFVarName")
	be.Equal(t, tree.Text(tree.Root), "ALPHA")
}

func TestParseError(t *testing.T) {
	_, err := newParser(t, "      X = (1 +\n      END\n").Parse()
	be.True(t, errors.Is(err, ErrNoParse))
	var perr *ParserError
	be.True(t, errors.As(err, &perr))
	line, _ := perr.Pos()
	be.Equal(t, line, 1)

	p := &Parser{}
	be.True(t, p.Reset("x.f", nil, nil) != nil)
}

// TestParseTreeConsistency checks that every node reachable from the root
// points back at its parent, so no node of a failed alternative is reachable.
func TestParseTreeConsistency(t *testing.T) {
	srcs := []string{
		"      X = A(1) + B(2, 3) * C\n      END\n",
		"      IF (X) 10, 20, 30\n   10 CONTINUE\n   20 CONTINUE\n   30 END\n",
		"      READ (5, *, END=99) (V(I), I = 1, N)\n   99 END\n",
		"      DATA (V(I), I = 1, 3) / 3*0.0 /\n      END\n",
	}
	for _, src := range srcs {
		tree := mustParse(t, src)
		ast.Inspect(tree, tree.Root, func(n ast.NodeID) bool {
			if n == ast.Nil {
				return false
			}
			for _, c := range tree.Children(n) {
				if tree.Parent(c) != n {
					t.Errorf("%q: node %s has wrong parent", src, tree.Label(c))
				}
			}
			return true
		})
		be.Equal(t, tree.Parent(tree.Root), ast.Nil)
	}
}

// TestParseFailedRuleRestoresCursor checks that a rule that fails leaves the
// cursor, the arena and its parent as they were.
func TestParseFailedRuleRestoresCursor(t *testing.T) {
	cases := []struct {
		src  string
		rule func(*Parser, ast.NodeID) bool
	}{
		{src: "      (1 + 2\n", rule: (*Parser).expr},
		{src: "      X = = 1\n", rule: (*Parser).assignmentStmt},
		{src: "      CALL F(A, \n", rule: (*Parser).callStmt},
		{src: "      DO 10 I = 1\n", rule: (*Parser).labelDoStmt},
	}
	for _, c := range cases {
		p := newParser(t, c.src)
		holder := p.tree.NewRule("Holder")
		start, size := p.pos, p.tree.Len()
		be.True(t, !c.rule(p, holder))
		be.Equal(t, p.pos, start)
		be.Equal(t, p.tree.Len(), size)
		be.Equal(t, len(p.tree.Children(holder)), 0)
	}
}

func TestParseLeafLiterals(t *testing.T) {
	tree := mustParse(t, "      X = 2.5\n      N = 7\n      S = 'IT''S'\n      L = .TRUE.\n      END\n")
	want := map[token.Token]any{
		token.RDCON: 2.5,
		token.ICON:  int64(7),
		token.SCON:  "IT'S",
		token.TRUE:  true,
	}
	seen := 0
	for _, leaf := range tree.Leaves(tree.Root) {
		n := tree.Node(leaf)
		lit, ok := want[n.Tok]
		if !ok {
			continue
		}
		seen++
		be.Equal(t, n.Literal, lit)
		be.Equal(t, n.Label, n.Tok.String())
	}
	be.Equal(t, seen, len(want))
}

package fort2jul

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/soypat/fort2jul/config"
	"github.com/soypat/fort2jul/internal/testcase"
	"github.com/soypat/fort2jul/intrinsic"
)

const testHeader = "include(\"macros.jl\")\n\nusing Printf\n\n"

func TestTranspileGolden(t *testing.T) {
	cases, err := testcase.Load("testdata/translate.md")
	be.Err(t, err, nil)
	be.True(t, len(cases) > 0)
	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			res, err := Translate(c.Fortran, Options{})
			be.Err(t, err, nil)
			body, ok := strings.CutPrefix(res.Program, testHeader)
			be.True(t, ok)
			be.Equal(t, body, c.Julia)
			var rules []string
			for _, d := range res.Diagnostics {
				rules = append(rules, d.Rule)
			}
			be.Equal(t, rules, c.Diagnostics)
		})
	}
}

func translate(t *testing.T, src string) (string, []Diagnostic) {
	t.Helper()
	res, err := Translate(src, Options{})
	be.Err(t, err, nil)
	return strings.TrimPrefix(res.Program, testHeader), res.Diagnostics
}

func TestTranspileHeader(t *testing.T) {
	res, err := Translate("      END\n", Options{Source: "prog.f", MacrosFile: "support.jl"})
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(res.Program,
		"include(\"support.jl\")\n\n# Original file located at: prog.f\n\nusing Printf\n\n"))
	be.Equal(t, res.Support, intrinsic.Macros)
}

func TestTranspileExpressions(t *testing.T) {
	tests := []struct {
		lhs  string
		expr string
		want string
	}{
		{lhs: "L", expr: "A .AND. .NOT. B", want: "A && !B"},
		{lhs: "L", expr: ".NOT. (I .EQ. J)", want: "!(I == J)"},
		{lhs: "L", expr: "X .GE. 1.5 .OR. A", want: "X >= 1.5 || A"},
		{lhs: "R", expr: "-X + 2*Y", want: "-X + 2 * Y"},
		{lhs: "K", expr: "I / J", want: "div(I, J)"},
		{lhs: "R", expr: "X / J", want: "X / J"},
		{lhs: "R", expr: "X ** 2", want: "X ^ 2"},
		{lhs: "R", expr: "(X + 1) * 2", want: "(X + 1) * 2"},
		{lhs: "R", expr: "SQRT(X)", want: "sqrt(X)"},
		{lhs: "K", expr: "MOD(I, 3)", want: "rem(I, 3)"},
		{lhs: "K", expr: "INT(X)", want: "trunc(Int, X)"},
		{lhs: "C", expr: "S // 'ab'", want: `S * "ab"`},
		{lhs: "Z", expr: "(1.0, -2.0)", want: "complex(1.0, -2.0)"},
		{lhs: "D", expr: "1.5D0", want: "1.5"},
		{lhs: "K", expr: "Z'FF'", want: "0xff"},
		{lhs: "R", expr: "I", want: "float(I)"},
		{lhs: "R", expr: "3", want: "3.0"},
		{lhs: "K", expr: "X", want: "trunc(Int, X)"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			src := "      PROGRAM P\n      LOGICAL L, A, B\n      CHARACTER S, C\n" +
				"      COMPLEX Z\n      DOUBLE PRECISION D\n      " + tt.lhs + " = " + tt.expr + "\n      END\n"
			body, diags := translate(t, src)
			be.Equal(t, len(diags), 0)
			lines := strings.Split(strings.TrimSpace(body), "\n")
			be.Equal(t, lines[len(lines)-1], "global "+tt.lhs+" = "+tt.want)
		})
	}
}

func TestTranspileArrayOrCall(t *testing.T) {
	body, diags := translate(t, `      PROGRAM P
      DIMENSION A(10)
      X = A(2) + F(3)
      END
`)
	be.True(t, strings.Contains(body, "global A = create_array(\"REAL\", 10)\n"))
	be.True(t, strings.Contains(body, "global X = A[2] + F(3)\n"))
	be.Equal(t, len(diags), 1)
	be.Equal(t, diags[0].Rule, RuleUnresolvedReference)
	be.Equal(t, diags[0].Line, 3)
}

func TestTranspileIfConstruct(t *testing.T) {
	body, _ := translate(t, `      SUBROUTINE S(K, M)
      IF (K .GT. 0) THEN
        M = 1
      ELSE IF (K .LT. 0) THEN
        M = -1
      ELSE
        M = 0
      END IF
      RETURN
      END
`)
	be.Equal(t, body, `function S(K, M)
	if K > 0
		M = 1
	elseif K < 0
		M = -1
	else
		M = 0
	end
	return K, M
end
`)
}

func TestTranspileRoutineLocals(t *testing.T) {
	body, _ := translate(t, `      SUBROUTINE SUM(N, T)
      INTEGER N, I
      T = 0
      DO 20 I = 1, N
        T = T + I
   20 CONTINUE
      END
`)
	be.Equal(t, body, `function SUM(N, T)
	I = 0
	T = 0.0
	for I in 1:N
		T = T + I
	end
	return N, T
end
`)
}

func TestTranspileCallOutputArgument(t *testing.T) {
	body, diags := translate(t, `      SUBROUTINE S(Y)
      Y = 1.0
      END
      SUBROUTINE RUN
      CALL S(Y)
      PRINT *, Y
      END
`)
	be.Equal(t, len(diags), 0)
	be.Equal(t, body, `function S(Y)
	Y = 1.0
	return Y
end

function RUN()
	Y = 0.0
	Y = S(Y)
	println(Y)
	return
end
`)
}

func TestTranspileComputedGoto(t *testing.T) {
	body, _ := translate(t, `      SUBROUTINE S(K)
      GO TO (10, 20) K
   10 K = 1
   20 RETURN
      END
`)
	be.Equal(t, body, `function S(K)
	if K == 1
		@goto _10
	elseif K == 2
		@goto _20
	end
	@label _10
	K = 1
	@label _20
	return K
end
`)
}

func TestTranspileCommon(t *testing.T) {
	body, _ := translate(t, `      PROGRAM P
      COMMON /BLK/ N
      N = 3
      CALL SHOW
      END
      SUBROUTINE SHOW
      COMMON /BLK/ N
      PRINT *, N
      END
`)
	be.Equal(t, body, `function SHOW()
	global N
	println(N)
	return
end

global N = 0
global N = 3
SHOW()
`)
}

func TestTranspileStatementFunction(t *testing.T) {
	body, _ := translate(t, `      PROGRAM P
      SQ(X) = X * X
      Y = SQ(3.0)
      END
`)
	be.Equal(t, body, "SQ(X) = X * X\nglobal Y = SQ(3.0)\n")
}

func TestTranspileRead(t *testing.T) {
	body, diags := translate(t, `      PROGRAM P
      INTEGER N, M
      READ *, N
      READ (5, *) N, M
      END
`)
	be.Equal(t, len(diags), 0)
	be.Equal(t, body, `global N = 0
global M = 0
global N = parse_input(readline())
global _vals = read_values()
global N = _vals[1]
global M = _vals[2]
`)
}

func TestTranspileFiles(t *testing.T) {
	body, diags := translate(t, `      PROGRAM P
      OPEN (UNIT=10, FILE='out.txt', STATUS='NEW')
      WRITE (10, *) 'hi'
      CLOSE (10)
      END
`)
	be.Equal(t, len(diags), 0)
	be.Equal(t, body, `global _10 = open("out.txt", "w+")
println(_10, "hi")
close(_10)
`)
}

func TestTranspileFilesOpenedInRoutine(t *testing.T) {
	body, diags := translate(t, `      PROGRAM P
      CALL INIT
      WRITE (10, *) 1
      END
      SUBROUTINE INIT
      OPEN (UNIT=10, FILE='out.txt', STATUS='OLD')
      END
`)
	be.Equal(t, len(diags), 0)
	be.Equal(t, body, `function INIT()
	global _10 = open("out.txt", "r+")
	return
end

INIT()
println(_10, 1)
`)
}

func TestTranspileUnitVariable(t *testing.T) {
	body, diags := translate(t, `      PROGRAM P
      IU = 10
      OPEN (UNIT=IU, FILE='out.txt', STATUS='NEW')
      WRITE (IU, *) 'hi'
      END
`)
	be.Equal(t, body, `global IU = 10
global _IU = open("out.txt", "w+")
println(_IU, "hi")
`)
	be.Equal(t, len(diags), 2)
	for _, d := range diags {
		be.Equal(t, d.Severity, SeverityInfo)
		be.Equal(t, d.Rule, "UnitIdentifier")
	}
}

func TestTranspileComments(t *testing.T) {
	body, _ := translate(t, "C leading\n      PROGRAM P\n      X = 1 ! trailing\n      END\n")
	be.Equal(t, body, "# leading\nglobal X = 1.0\n# trailing\n")
}

func TestTranspileFragment(t *testing.T) {
	body, _ := translate(t, "foo")
	be.Equal(t, body, "foo\n")
}

func TestTranslateNoParse(t *testing.T) {
	_, err := Translate("      X = = 1\n", Options{Source: "bad.f"})
	be.True(t, errors.Is(err, ErrNoParse))
	var perr *ParserError
	be.True(t, errors.As(err, &perr))
	line, _ := perr.Pos()
	be.Equal(t, line, 1)
}

func TestTranslateStrict(t *testing.T) {
	src := "      PROGRAM P\n      SAVE\n      END\n"
	res, err := Translate(src, Options{})
	be.Err(t, err, nil)
	be.Equal(t, len(res.Diagnostics), 1)

	res, err = Translate(src, Options{Strict: true})
	be.Err(t, err, ErrStrict)
	be.True(t, res != nil)
}

func TestOutputName(t *testing.T) {
	tests := []struct{ in, want string }{
		{in: "dir/prog.f", want: "prog.jl"},
		{in: "prog.test.for", want: "prog.jl"},
		{in: "noext", want: "noext.jl"},
		{in: "/abs/path/.hidden", want: ".hidden.jl"},
	}
	for _, tt := range tests {
		be.Equal(t, OutputName(tt.in, ".jl"), tt.want)
	}
}

func TestWriteArtifacts(t *testing.T) {
	res, err := Translate("      PROGRAM P\n      PRINT *, 1\n      END\n", Options{})
	be.Err(t, err, nil)
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	paths, err := WriteArtifacts(res, "src/p.f", cfg, nil)
	be.Err(t, err, nil)
	be.Equal(t, paths, []string{filepath.Join(cfg.OutputDir, "p.jl"), filepath.Join(cfg.OutputDir, "macros.jl")})
	prog, err := os.ReadFile(paths[0])
	be.Err(t, err, nil)
	be.Equal(t, string(prog), res.Program)
	macros, err := os.ReadFile(paths[1])
	be.Err(t, err, nil)
	be.Equal(t, string(macros), intrinsic.Macros)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: SeverityWarning, Rule: "SaveStmt", Line: 2, Col: 7, Message: "not preserved"}
	be.Equal(t, d.String(), "2:7: warning: SaveStmt: not preserved")
	d = Diagnostic{Severity: SeverityInfo, Rule: "X", Line: 1, Col: 1}
	be.Equal(t, d.String(), "1:1: info: X")
}

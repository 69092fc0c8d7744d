package fort2jul

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/soypat/fort2jul/token"
)

type testtoktuple struct {
	tok  token.Token
	text string
}

func scanTuples(src string) []testtoktuple {
	toks, _ := NewScanner(src, nil).Scan()
	out := make([]testtoktuple, 0, len(toks))
	for _, lx := range toks {
		out = append(out, testtoktuple{tok: lx.Tok, text: lx.Text})
	}
	return out
}

func TestScanner_tokens(t *testing.T) {
	cases := []struct {
		src    string
		expect []testtoktuple
	}{
		0: {
			src: "      IF(ILY.EQ.1.OR.ID.LT.366) GO TO 5",
			expect: []testtoktuple{
				{token.IF, "IF"}, {token.LPAREN, "("}, {token.ID, "ILY"}, {token.EQUAL_EQUAL, ".EQ."},
				{token.ICON, "1"}, {token.OR, ".OR."}, {token.ID, "ID"}, {token.LESS, ".LT."},
				{token.ICON, "366"}, {token.RPAREN, ")"}, {token.GO, "GO"}, {token.TO, "TO"},
				{token.ICON, "5"}, {token.EOF, ""},
			},
		},
		1: {
			src: "      X = Y**2 + 100.D0/Z",
			expect: []testtoktuple{
				{token.ID, "X"}, {token.EQUAL, "="}, {token.ID, "Y"}, {token.STAR_STAR, "**"},
				{token.ICON, "2"}, {token.PLUS, "+"}, {token.RDCON, "100.D0"}, {token.SLASH, "/"},
				{token.ID, "Z"}, {token.EOF, ""},
			},
		},
		2: {
			src: "C     A COMMENT LINE\n      END",
			expect: []testtoktuple{
				{token.COMMENT, "C     A COMMENT LINE"}, {token.NEWLINE, "\n"}, {token.END, "END"}, {token.EOF, ""},
			},
		},
		3: {
			src: "      N = 1 ! trailing",
			expect: []testtoktuple{
				{token.ID, "N"}, {token.EQUAL, "="}, {token.ICON, "1"}, {token.COMMENT, "! trailing"}, {token.EOF, ""},
			},
		},
		4: {
			src: "100   FORMAT(I5, 2X, F10.2, 5HHELLO)",
			expect: []testtoktuple{
				{token.ICON, "100"}, {token.FORMAT, "FORMAT"}, {token.LPAREN, "("}, {token.FCON, "I5"},
				{token.COMMA, ","}, {token.XCON, "2X"}, {token.COMMA, ","}, {token.FCON, "F10.2"},
				{token.COMMA, ","}, {token.HCON, "5HHELLO"}, {token.RPAREN, ")"}, {token.EOF, ""},
			},
		},
		5: {
			src: "      WRITE(UNIT=6, FMT=100) NAME",
			expect: []testtoktuple{
				{token.WRITE, "WRITE"}, {token.LPAREN, "("}, {token.UNIT_EQUAL, "UNIT="}, {token.ICON, "6"},
				{token.COMMA, ","}, {token.FMT_EQUAL, "FMT="}, {token.ICON, "100"}, {token.RPAREN, ")"},
				{token.ID, "NAME"}, {token.EOF, ""},
			},
		},
		6: {
			// Keyword-equals forms are only specifiers inside parentheses.
			src: "      UNIT = 6",
			expect: []testtoktuple{
				{token.ID, "UNIT"}, {token.EQUAL, "="}, {token.ICON, "6"}, {token.EOF, ""},
			},
		},
		7: {
			src: "      L = .TRUE. .AND. .NOT. B'101' .NEQV. Z'FF'",
			expect: []testtoktuple{
				{token.ID, "L"}, {token.EQUAL, "="}, {token.TRUE, ".TRUE."}, {token.AND, ".AND."},
				{token.NOT, ".NOT."}, {token.BCON, "B'101'"}, {token.BANG_EQUAL, ".NEQV."},
				{token.ZCON, "Z'FF'"}, {token.EOF, ""},
			},
		},
		8: {
			src: "      I2 = E1 + D",
			expect: []testtoktuple{
				{token.FCON, "I2"}, {token.EQUAL, "="}, {token.FCON, "E1"}, {token.PLUS, "+"},
				{token.ID, "D"}, {token.EOF, ""},
			},
		},
		9: {
			src: "      A(1:3) = .5",
			expect: []testtoktuple{
				{token.ID, "A"}, {token.LPAREN, "("}, {token.ICON, "1"}, {token.COLON, ":"}, {token.ICON, "3"},
				{token.RPAREN, ")"}, {token.EQUAL, "="}, {token.RDCON, ".5"}, {token.EOF, ""},
			},
		},
		10: {
			// Exponent letters after the dot are not a dotted operator.
			src: "      IF (X.GT.1.E-6 .AND. N.EQ.1) EPS = 1.e0",
			expect: []testtoktuple{
				{token.IF, "IF"}, {token.LPAREN, "("}, {token.ID, "X"}, {token.GREATER, ".GT."},
				{token.RDCON, "1.E-6"}, {token.AND, ".AND."}, {token.ID, "N"}, {token.EQUAL_EQUAL, ".EQ."},
				{token.ICON, "1"}, {token.RPAREN, ")"}, {token.ID, "EPS"}, {token.EQUAL, "="},
				{token.RDCON, "1.e0"}, {token.EOF, ""},
			},
		},
	}
	for i, c := range cases {
		got := scanTuples(c.src)
		if len(got) != len(c.expect) {
			t.Errorf("case %d: got %d tokens, want %d: %v", i, len(got), len(c.expect), got)
			continue
		}
		for j := range got {
			if got[j] != c.expect[j] {
				t.Errorf("case %d token %d: got %v %q, want %v %q", i, j, got[j].tok, got[j].text, c.expect[j].tok, c.expect[j].text)
			}
		}
	}
}

func TestScanner_literals(t *testing.T) {
	tests := []struct {
		src  string
		tok  token.Token
		text string
		lit  any
	}{
		{src: "42", tok: token.ICON, text: "42", lit: int64(42)},
		{src: "99999999999999999999", tok: token.ICON, text: "99999999999999999999", lit: 1e20},
		{src: "3.14", tok: token.RDCON, text: "3.14", lit: 3.14},
		{src: "1.5D3", tok: token.RDCON, text: "1.5D3", lit: 1500.0},
		{src: "2E-2", tok: token.RDCON, text: "2E-2", lit: 0.02},
		{src: "1.E-6", tok: token.RDCON, text: "1.E-6", lit: 1e-6},
		{src: "2.", tok: token.RDCON, text: "2.", lit: 2.0},
		{src: "'IT''S'", tok: token.SCON, text: `"IT'S"`, lit: "IT'S"},
		{src: `'SAY "HI" $5'`, tok: token.SCON, text: `"SAY \"HI\" \$5"`, lit: `SAY "HI" $5`},
		{src: "3HA B", tok: token.HCON, text: "3HA B", lit: "A B"},
		{src: ".FALSE.", tok: token.FALSE, text: ".FALSE.", lit: false},
	}
	for _, tt := range tests {
		toks, _ := NewScanner("      X = "+tt.src, nil).Scan()
		be.Equal(t, len(toks), 4)
		lx := toks[2]
		be.Equal(t, lx.Tok, tt.tok)
		be.Equal(t, lx.Text, tt.text)
		be.Equal(t, lx.Literal, tt.lit)
	}
}

func TestScanner_positionsAndProgramName(t *testing.T) {
	src := "      PROGRAM Hello\n      N = 1\n      END\n"
	toks, name := NewScanner(src, nil).Scan()
	be.Equal(t, name, "Hello")
	// N on line 2, column 7.
	be.Equal(t, toks[3].Text, "N")
	be.Equal(t, toks[3].Line, 2)
	be.Equal(t, toks[3].Col, 7)
	last := toks[len(toks)-1]
	be.Equal(t, last.Tok, token.EOF)
	be.Equal(t, last.Line, 4)
}

func TestScanner_deterministic(t *testing.T) {
	src := "      PROGRAM P\n      X = 1.5E2 * Y(3)\n      PRINT *, 'A''B', X\n      END\n"
	var s Scanner
	s.Reset(src, nil)
	first, _ := s.Scan()
	first = append([]token.Lexeme(nil), first...)
	s.Reset(src, nil)
	second, _ := s.Scan()
	be.Equal(t, second, first)
}

func TestJuliaString(t *testing.T) {
	be.Equal(t, JuliaString(`a"b`), `"a\"b"`)
	be.Equal(t, JuliaString(`c:\dir`), `"c:\\dir"`)
	be.Equal(t, JuliaString("$x"), `"\$x"`)
	be.Equal(t, JuliaString("%d\n"), `"%d\n"`)
}

package fort2jul

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/antlr4-go/antlr/v4"

	"github.com/soypat/fort2jul/token"
)

// Scanner turns fixed-form FORTRAN 77 source text into a sequence of lexemes.
// Scanning is total: characters that match no rule are skipped and malformed
// fragments degrade to the closest token kind. A Scanner is not safe for concurrent use.
type Scanner struct {
	input *antlr.InputStream
	toks  []token.Lexeme
	log   *slog.Logger

	start     int // rune index where the current lexeme starts.
	line      int // current line, 1 based.
	lineStart int // rune index of the first character of the current line.
	tokLine   int // line where the current lexeme starts.
	tokCol    int // column where the current lexeme starts.
	parens    int // parenthesis depth, keyword-equals specifiers are only recognized inside parentheses.

	programName string
}

// NewScanner returns a scanner ready to scan src. A nil logger discards output.
func NewScanner(src string, log *slog.Logger) *Scanner {
	var s Scanner
	s.Reset(src, log)
	return &s
}

// Reset discards all state and prepares the scanner to scan src.
// The lexeme buffer is reused between calls.
func (s *Scanner) Reset(src string, log *slog.Logger) {
	if log == nil {
		log = discardLogger()
	}
	*s = Scanner{
		input: antlr.NewInputStream(src),
		toks:  s.toks[:0],
		log:   log,
		line:  1,
	}
}

// Scan scans the whole input and returns the lexemes, always terminated by an
// [token.EOF] lexeme, and the name of the main program if the input declares one.
// The returned slice is owned by the caller until the next call to Reset.
func (s *Scanner) Scan() (toks []token.Lexeme, programName string) {
	for !s.atEnd() {
		s.start = s.input.Index()
		s.tokLine = s.line
		s.tokCol = s.start - s.lineStart + 1
		s.scanToken()
	}
	s.tokLine = s.line
	s.tokCol = s.input.Index() - s.lineStart + 1
	s.toks = append(s.toks, token.Lexeme{Tok: token.EOF, Line: s.tokLine, Col: s.tokCol})
	s.log.Info("scan complete", slog.Int("tokens", len(s.toks)), slog.String("program", s.programName))
	return s.toks, s.programName
}

// ProgramName returns the identifier that followed the PROGRAM keyword, if any was scanned.
func (s *Scanner) ProgramName() string { return s.programName }

func (s *Scanner) scanToken() {
	atLineStart := s.start == s.lineStart
	c := s.advance()
	switch c {
	case ' ', '\t', '\r', '\f':
		// Blanks are insignificant.
	case '\n':
		s.add(token.NEWLINE, nil)
		s.line++
		s.lineStart = s.input.Index()
	case '!':
		s.comment()
	case 'C', 'c':
		if atLineStart {
			s.comment()
		} else {
			s.identifier()
		}
	case '*':
		if atLineStart {
			s.comment()
		} else if s.match('*') {
			s.add(token.STAR_STAR, nil)
		} else {
			s.add(token.STAR, nil)
		}
	case '+':
		s.add(token.PLUS, nil)
	case '-':
		s.add(token.MINUS, nil)
	case '(':
		s.parens++
		if s.match('|') {
			s.add(token.LPAREN_SLASH, nil)
		} else {
			s.add(token.LPAREN, nil)
		}
	case ')':
		if s.parens > 0 {
			s.parens--
		}
		s.add(token.RPAREN, nil)
	case '|':
		if s.match(')') {
			if s.parens > 0 {
				s.parens--
			}
			s.add(token.SLASH_RPAREN, nil)
		}
	case ',':
		s.add(token.COMMA, nil)
	case '=':
		s.add(token.EQUAL, nil)
	case ':':
		if s.match(':') {
			s.add(token.COLON_COLON, nil)
		} else {
			s.add(token.COLON, nil)
		}
	case '/':
		s.add(token.SLASH, nil)
	case '$':
		s.add(token.DOLLAR, nil)
	case '%':
		s.add(token.PERCENT, nil)
	case '_':
		s.add(token.UNDERSCORE, nil)
	case '\'', '"':
		s.stringConstant(c)
	case '.':
		s.dot()
	case 'B', 'b':
		s.radixOrIdentifier(token.BCON, isBinaryDigit)
	case 'O', 'o':
		s.radixOrIdentifier(token.OCON, isOctalDigit)
	case 'Z', 'z':
		s.radixOrIdentifier(token.ZCON, isHexDigit)
	case 'F', 'I', 'E', 'D', 'P', 'f', 'i', 'e', 'd', 'p':
		if isDigit(s.peek()) {
			s.editDescriptor()
		} else {
			s.identifier()
		}
	default:
		switch {
		case isAlpha(c):
			s.identifier()
		case isDigit(c):
			s.number()
		default:
			s.log.Debug("skipped character", slog.String("char", string(c)), slog.Int("line", s.tokLine), slog.Int("col", s.tokCol))
		}
	}
}

// comment consumes the rest of the line. The newline itself is left for the next token.
func (s *Scanner) comment() {
	for !s.atEnd() && s.peek() != '\n' {
		s.advance()
	}
	text := strings.TrimRight(s.text(), "\r")
	s.toks = append(s.toks, token.Lexeme{Tok: token.COMMENT, Text: text, Line: s.tokLine, Col: s.tokCol})
}

// stringConstant scans a quoted character constant. A doubled quote inside the
// constant stands for one quote character. The lexeme text is re-quoted as a
// Julia string literal and the literal holds the decoded value.
func (s *Scanner) stringConstant(quote rune) {
	var value strings.Builder
	for !s.atEnd() {
		c := s.peek()
		if c == quote {
			s.advance()
			if s.peek() == quote {
				s.advance()
				value.WriteRune(quote)
				continue
			}
			break
		}
		if c == '\n' {
			break // Unterminated constant ends at the end of line.
		}
		value.WriteRune(s.advance())
	}
	v := value.String()
	s.toks = append(s.toks, token.Lexeme{
		Tok:     token.SCON,
		Text:    JuliaString(v),
		Literal: v,
		Line:    s.tokLine,
		Col:     s.tokCol,
	})
}

// JuliaString quotes v as a Julia string literal, escaping the delimiter,
// backslashes, the interpolation character and line breaks.
func JuliaString(v string) string {
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('"')
	for _, c := range v {
		switch c {
		case '"', '\\', '$':
			b.WriteByte('\\')
		case '\n':
			b.WriteString(`\n`)
			continue
		case '\t':
			b.WriteString(`\t`)
			continue
		}
		b.WriteRune(c)
	}
	b.WriteByte('"')
	return b.String()
}

// dot scans tokens starting with '.': dotted relational and logical operators,
// logical constants, reals such as .5 and a bare dot.
func (s *Scanner) dot() {
	next := s.peek()
	switch {
	case isDigit(next):
		s.realConstant()
		return
	case !isAlpha(next):
		s.add(token.DOT, nil)
		return
	}
	if tok, n := s.dotOperatorAt(0); tok != token.Undefined {
		for i := 0; i < n; i++ {
			s.advance()
		}
		var lit any
		switch tok {
		case token.TRUE:
			lit = true
		case token.FALSE:
			lit = false
		}
		s.add(tok, lit)
		return
	}
	s.add(token.DOT, nil)
}

// dotOperatorAt looks ahead without consuming for a dotted operator or logical
// constant whose opening dot is at lookahead offset k. It returns the token and
// the offset of the closing dot, or Undefined.
func (s *Scanner) dotOperatorAt(k int) (token.Token, int) {
	n := k + 1
	for isAlpha(s.peekN(n)) {
		n++
	}
	if n == k+1 || s.peekN(n) != '.' {
		return token.Undefined, 0
	}
	start := s.input.Index() + k
	word := s.input.GetText(start, s.input.Index()+n-2)
	return token.LookupDotOperator([]byte(word)), n
}

// radixOrIdentifier scans a B'...', O'...' or Z'...' constant when the letter
// is immediately followed by a quote, otherwise an identifier.
func (s *Scanner) radixOrIdentifier(tok token.Token, valid func(rune) bool) {
	q := s.peek()
	if q != '\'' && q != '"' {
		s.identifier()
		return
	}
	s.advance()
	for valid(s.peek()) {
		s.advance()
	}
	s.match(q)
	s.add(tok, nil)
}

// editDescriptor scans the compact I5, F10.2, E12.4 form used in FORMAT
// statements. A letter run that continues after the descriptor is an identifier instead.
func (s *Scanner) editDescriptor() {
	n := 1
	for isDigit(s.peekN(n)) {
		n++
	}
	if s.peekN(n) == '.' && isDigit(s.peekN(n+1)) {
		n++
		for isDigit(s.peekN(n)) {
			n++
		}
	}
	if isAlphaNumeric(s.peekN(n)) {
		s.identifier()
		return
	}
	for i := 1; i < n; i++ {
		s.advance()
	}
	s.add(token.FCON, nil)
}

// number scans a run of digits and decides between a Hollerith constant,
// a real constant, a repeat-count X descriptor and an integer constant.
func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	switch next := s.peek(); {
	case next == 'H' || next == 'h':
		s.hollerith()
	case next == '.':
		// 1.EQ.N compares an integer, 1.E-6 and 1. are reals.
		if tok, _ := s.dotOperatorAt(1); tok != token.Undefined {
			s.integerConstant()
		} else {
			s.realConstant()
		}
	case next == 'E' || next == 'e' || next == 'D' || next == 'd':
		if sign := s.peekN(2); isDigit(sign) || (sign == '+' || sign == '-') && isDigit(s.peekN(3)) {
			s.realConstant()
		} else {
			s.integerConstant()
		}
	case next == 'X' || next == 'x':
		if isAlphaNumeric(s.peekN(2)) {
			s.integerConstant()
			return
		}
		s.advance()
		s.add(token.XCON, nil)
	default:
		s.integerConstant()
	}
}

func (s *Scanner) hollerith() {
	length, err := strconv.Atoi(s.text())
	s.advance() // The H.
	if err != nil {
		length = 0
	}
	payloadStart := s.input.Index()
	for i := 0; i < length && !s.atEnd() && s.peek() != '\n'; i++ {
		s.advance()
	}
	payload := s.input.GetText(payloadStart, s.input.Index()-1)
	s.add(token.HCON, payload)
}

// realConstant continues a real constant whose integer part, if any, was already consumed.
// A D exponent letter is folded into E so the literal parses as a float64.
func (s *Scanner) realConstant() {
	if s.peek() == '.' || (s.input.Index() > s.start && s.lastConsumed() == '.') {
		if s.peek() == '.' {
			s.advance()
		}
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	switch e := s.peek(); e {
	case 'E', 'e', 'D', 'd':
		sign := s.peekN(2)
		if isDigit(sign) || ((sign == '+' || sign == '-') && isDigit(s.peekN(3))) {
			s.advance()
			if sign == '+' || sign == '-' {
				s.advance()
			}
			for isDigit(s.peek()) {
				s.advance()
			}
		}
	}
	text := s.text()
	folded := strings.NewReplacer("D", "E", "d", "e").Replace(text)
	v, err := strconv.ParseFloat(folded, 64)
	if err != nil {
		s.log.Debug("bad real constant", slog.String("text", text), slog.Int("line", s.tokLine))
	}
	s.add(token.RDCON, v)
}

func (s *Scanner) integerConstant() {
	text := s.text()
	var lit any
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		lit = v
	} else if f, err := strconv.ParseFloat(text, 64); err == nil {
		lit = f
	}
	s.add(token.ICON, lit)
}

// identifier scans the rest of an identifier whose first character was consumed.
func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := s.text()
	if s.parens > 0 {
		n := 1
		for s.peekN(n) == ' ' || s.peekN(n) == '\t' {
			n++
		}
		if s.peekN(n) == '=' && s.peekN(n+1) != '=' {
			if tok := token.LookupKeywordEquals([]byte(text)); tok != token.Undefined {
				for i := 0; i < n; i++ {
					s.advance()
				}
				s.add(tok, nil)
				return
			}
		}
	}
	tok := token.LookupKeyword([]byte(text))
	if tok == token.ID && s.programName == "" && len(s.toks) > 0 && s.toks[len(s.toks)-1].Tok == token.PROGRAM {
		s.programName = text
	}
	s.add(tok, nil)
}

func (s *Scanner) add(tok token.Token, literal any) {
	s.toks = append(s.toks, token.Lexeme{
		Tok:     tok,
		Text:    s.text(),
		Literal: literal,
		Line:    s.tokLine,
		Col:     s.tokCol,
	})
}

// text returns the source text of the lexeme being scanned.
func (s *Scanner) text() string {
	end := s.input.Index() - 1
	if end < s.start {
		return ""
	}
	return s.input.GetText(s.start, end)
}

func (s *Scanner) atEnd() bool { return s.input.LA(1) == antlr.TokenEOF }

// peek returns the next unconsumed character or 0 at end of input.
func (s *Scanner) peek() rune { return s.peekN(1) }

// peekN looks n characters ahead, peekN(1) being the next unconsumed character.
func (s *Scanner) peekN(n int) rune {
	c := s.input.LA(n)
	if c == antlr.TokenEOF {
		return 0
	}
	return rune(c)
}

func (s *Scanner) lastConsumed() rune {
	c := s.input.LA(-1)
	if c == antlr.TokenEOF {
		return 0
	}
	return rune(c)
}

func (s *Scanner) advance() rune {
	c := s.peek()
	if !s.atEnd() {
		s.input.Consume()
	}
	return c
}

func (s *Scanner) match(expected rune) bool {
	if s.atEnd() || s.peek() != expected {
		return false
	}
	s.input.Consume()
	return true
}

func isDigit(c rune) bool       { return c >= '0' && c <= '9' }
func isBinaryDigit(c rune) bool { return c == '0' || c == '1' }
func isOctalDigit(c rune) bool  { return c >= '0' && c <= '7' }
func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c rune) bool { return isAlpha(c) || isDigit(c) }

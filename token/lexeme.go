package token

import "strconv"

// Lexeme is a single scanned token together with the source text it was
// scanned from and its position. Literal holds the decoded value of numeric
// and string constants: int64 for ICON, float64 for RDCON and string for SCON.
type Lexeme struct {
	Tok     Token
	Text    string
	Literal any
	Line    int // 1-based.
	Col     int // 1-based.
}

// AppendString appends a short human readable form of the lexeme to buf.
func (l Lexeme) AppendString(buf []byte) []byte {
	buf = append(buf, l.Tok.String()...)
	if l.Tok != NEWLINE && l.Tok != EOF {
		buf = append(buf, ' ')
		buf = strconv.AppendQuote(buf, l.Text)
	}
	buf = append(buf, " @"...)
	buf = strconv.AppendInt(buf, int64(l.Line), 10)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(l.Col), 10)
	return buf
}

func (l Lexeme) String() string {
	return string(l.AppendString(nil))
}

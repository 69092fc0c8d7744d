package intrinsic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Format is a parsed FORMAT specification, the text between the outer
// parentheses of a FORMAT statement. Character constants are written FORTRAN
// style with single quotes and doubled embedded quotes.
type Format struct {
	Items []*FormatItem `parser:"@@*"`
}

// FormatItem is a separator, a character constant or a possibly repeated field.
type FormatItem struct {
	Comma  bool         `parser:"  @','"`
	Colon  bool         `parser:"| @':'"`
	Dollar bool         `parser:"| @'$'"`
	Slash  bool         `parser:"| @'/'"`
	Text   *string      `parser:"| @String"`
	Field  *FormatField `parser:"| @@"`
}

// FormatField is an edit descriptor or a parenthesized group, with an optional repeat count.
type FormatField struct {
	Repeat int               `parser:"(@Int)?"`
	Body   *FormatFieldBody `parser:"@@"`
}

type FormatFieldBody struct {
	Group *Format `parser:"  '(' @@ ')'"`
	Edit  string  `parser:"| @Edit"`
}

var formatLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "Edit", Pattern: `(?i)(?:TL|TR|BN|BZ|SP|SS|EN|ES|[A-Z])[0-9]*(?:\.[0-9]+(?:E[0-9]+)?)?`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[(),/:$]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var formatParser = participle.MustBuild[Format](
	participle.Lexer(formatLexer),
	participle.Elide("Whitespace"),
)

// ParseFormat parses a FORMAT specification such as `I5, 2X, 'X =', F10.2`.
func ParseFormat(spec string) (*Format, error) {
	f, err := formatParser.ParseString("", spec)
	if err != nil {
		return nil, fmt.Errorf("format (%s): %w", spec, err)
	}
	return f, nil
}

// ErrUnsupportedEdit is wrapped by Printf errors for edit descriptors with no printf equivalent.
var ErrUnsupportedEdit = errors.New("unsupported edit descriptor")

// Printf converts the format into a Julia @printf format string, unquoted.
// Numeric descriptors become width and precision verbs, character constants
// become literal text, nX becomes n blanks and a slash a newline. Descriptors
// that only affect input or sign and scale handling are dropped. The returned
// count is the number of values the format consumes.
func (f *Format) Printf() (format string, values int, err error) {
	var b strings.Builder
	values, err = f.appendPrintf(&b)
	return b.String(), values, err
}

func (f *Format) appendPrintf(b *strings.Builder) (values int, err error) {
	for _, item := range f.Items {
		switch {
		case item.Slash:
			b.WriteByte('\n')
		case item.Text != nil:
			writeLiteral(b, unquoteFortran(*item.Text))
		case item.Field != nil:
			n, err := item.Field.appendPrintf(b)
			if err != nil {
				return values, err
			}
			values += n
		}
	}
	return values, nil
}

func (fd *FormatField) appendPrintf(b *strings.Builder) (values int, err error) {
	repeat := max(fd.Repeat, 1)
	if fd.Body.Group != nil {
		for range repeat {
			n, err := fd.Body.Group.appendPrintf(b)
			if err != nil {
				return values, err
			}
			values += n
		}
		return values, nil
	}
	letter, width, prec := splitEdit(fd.Body.Edit)
	if letter == "X" {
		// nX: the count may be written as a repeat count or as a width.
		n := max(fd.Repeat, width, 1)
		b.WriteString(strings.Repeat(" ", n))
		return 0, nil
	}
	verb, err := editVerb(letter, width, prec)
	if err != nil {
		return 0, err
	}
	for range repeat {
		b.WriteString(verb)
		if verb != "" {
			values++
		}
	}
	return values, nil
}

// editVerb returns the printf verb for one edit descriptor or the empty string
// for descriptors that produce no output.
func editVerb(letter string, width, prec int) (string, error) {
	verb := func(conv byte) string {
		var buf []byte
		buf = append(buf, '%')
		if width > 0 {
			buf = strconv.AppendInt(buf, int64(width), 10)
		}
		if prec >= 0 && conv != 'd' && conv != 's' {
			buf = append(buf, '.')
			buf = strconv.AppendInt(buf, int64(prec), 10)
		}
		return string(append(buf, conv))
	}
	switch letter {
	case "I":
		return verb('d'), nil
	case "F":
		return verb('f'), nil
	case "E", "D", "ES", "EN":
		return verb('e'), nil
	case "G":
		return verb('g'), nil
	case "A", "L":
		return verb('s'), nil
	case "P", "BN", "BZ", "SP", "SS", "S":
		return "", nil
	}
	return "", fmt.Errorf("%w %s", ErrUnsupportedEdit, letter)
}

// splitEdit splits an edit descriptor such as F10.2 into its letters, width
// and precision. Missing width is 0 and missing precision is -1.
func splitEdit(edit string) (letter string, width, prec int) {
	edit = strings.ToUpper(edit)
	i := strings.IndexAny(edit, "0123456789")
	if i < 0 {
		return edit, 0, -1
	}
	letter, rest := edit[:i], edit[i:]
	prec = -1
	if e := strings.IndexByte(rest, 'E'); e >= 0 {
		rest = rest[:e] // Exponent digits are not representable.
	}
	w, p, hasPrec := strings.Cut(rest, ".")
	width, _ = strconv.Atoi(w)
	if hasPrec {
		prec, _ = strconv.Atoi(p)
	}
	return letter, width, prec
}

func writeLiteral(b *strings.Builder, s string) {
	b.WriteString(strings.ReplaceAll(s, "%", "%%"))
}

func unquoteFortran(s string) string {
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, "''", "'")
}

// QuoteFortran writes s as a FORTRAN character constant, the form ParseFormat
// expects for literal text.
func QuoteFortran(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

package fort2jul

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"

	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/token"
)

// ErrNoParse is wrapped by the [ParserError] returned when no top level rule matches the input.
var ErrNoParse = errors.New("no top-level rule matched")

// ParserError reports the furthest position the parser reached before every
// alternative failed, which is usually the location of the syntax error.
type ParserError struct {
	sp  sourcePos
	msg string
}

func (pe *ParserError) Error() string {
	var dst []byte
	dst = pe.sp.AppendString(dst)
	dst = append(dst, ':', ' ')
	dst = append(dst, pe.msg...)
	return string(dst)
}

func (pe *ParserError) Unwrap() error { return ErrNoParse }

// Pos returns the line and column the error was reported at.
func (pe *ParserError) Pos() (line, col int) { return pe.sp.Line, pe.sp.Col }

type sourcePos struct {
	Source string
	Line   int
	Col    int
	Pos    int // Token index.
}

func (l *sourcePos) String() string {
	return string(l.AppendString(nil))
}

func (l *sourcePos) AppendString(b []byte) []byte {
	if b == nil {
		b = make([]byte, 0, len(l.Source)+3+3)
	}
	b = append(b, l.Source...)
	b = append(b, ':')

	b = strconv.AppendInt(b, int64(l.Line), 10)
	if l.Col > 0 {
		b = append(b, ':')
		b = strconv.AppendInt(b, int64(l.Col), 10)
	}
	return b
}

// Parser is a backtracking recursive descent parser with ordered choice over
// the FORTRAN 77 grammar. Each grammar rule is a method that either matches,
// attaching exactly one node to its parent and advancing the cursor, or fails
// leaving both the cursor and the tree as they were before the attempt.
type Parser struct {
	source string
	toks   []token.Lexeme
	pos    int
	tree   *ast.Tree
	log    *slog.Logger

	// furthest is the largest token index at which a terminal match was attempted.
	furthest int
	expected []token.Token
}

// Reset prepares the parser to parse toks, which must be terminated by a [token.EOF] lexeme.
// source names the input in error messages.
func (p *Parser) Reset(source string, toks []token.Lexeme, log *slog.Logger) error {
	if len(toks) == 0 || toks[len(toks)-1].Tok != token.EOF {
		return errors.New("token sequence not terminated by EOF")
	}
	if log == nil {
		log = discardLogger()
	}
	tree := p.tree
	if tree == nil {
		tree = ast.New()
	}
	tree.Reset()
	*p = Parser{
		source:   source,
		toks:     toks,
		tree:     tree,
		log:      log,
		expected: p.expected[:0],
	}
	return nil
}

// Parse parses the whole token sequence. It first tries the complete program
// rule and then falls back to a lone identifier fragment. The returned tree is
// reused by the next call to Reset.
func (p *Parser) Parse() (*ast.Tree, error) {
	if p.tree == nil {
		return nil, errors.New("parser not initialized")
	}
	if p.program(ast.Nil) || p.sfVarName(ast.Nil) {
		p.log.Info("parse complete", slog.Int("nodes", p.tree.Len()), slog.String("root", p.tree.Label(p.tree.Root)))
		return p.tree, nil
	}
	return nil, p.failure()
}

func (p *Parser) failure() *ParserError {
	at := p.toks[min(p.furthest, len(p.toks)-1)]
	msg := "unexpected " + describe(at)
	if len(p.expected) > 0 {
		msg += ", expected "
		for i, tok := range p.expected {
			if i > 0 {
				if i == len(p.expected)-1 {
					msg += " or "
				} else {
					msg += ", "
				}
			}
			msg += tok.String()
		}
	}
	return &ParserError{
		sp:  sourcePos{Source: p.source, Line: at.Line, Col: at.Col, Pos: p.furthest},
		msg: msg,
	}
}

func describe(lx token.Lexeme) string {
	switch lx.Tok {
	case token.EOF:
		return "end of file"
	case token.NEWLINE:
		return "end of line"
	}
	return lx.Tok.String() + " " + strconv.Quote(lx.Text)
}

// alt is one alternative of a grammar rule. It attaches matched children to the
// candidate node n and reports whether the whole alternative matched.
type alt func(n ast.NodeID) bool

// rule tries alts in order on a fresh node labeled label. The first alternative
// to succeed commits the node to parent. Failed alternatives are rolled back.
func (p *Parser) rule(parent ast.NodeID, label string, alts ...alt) bool {
	return p.try(parent, label, false, alts)
}

// level is like rule but when the matched node has a single rule child that
// child is committed in its place. Used by the expression precedence levels.
func (p *Parser) level(parent ast.NodeID, label string, alts ...alt) bool {
	return p.try(parent, label, true, alts)
}

func (p *Parser) try(parent ast.NodeID, label string, collapse bool, alts []alt) bool {
	start := p.pos
	before := p.tree.Mark(ast.Nil)
	n := p.tree.NewRule(label)
	for _, a := range alts {
		m := p.tree.Mark(n)
		if a(n) {
			if collapse {
				n = p.tree.Unwrap(n)
			}
			p.commit(parent, n)
			return true
		}
		p.tree.Rollback(m)
		p.pos = start
	}
	p.tree.Rollback(before)
	return false
}

func (p *Parser) commit(parent, n ast.NodeID) {
	if parent == ast.Nil {
		p.tree.Root = n
		return
	}
	p.tree.Attach(parent, n)
}

// tok matches a single terminal of the given kind.
func (p *Parser) tok(parent ast.NodeID, kind token.Token) bool {
	if p.toks[p.pos].Tok != kind {
		p.miss(kind)
		return false
	}
	p.leaf(parent)
	return true
}

// anyTok matches a single terminal of any of the given kinds.
func (p *Parser) anyTok(parent ast.NodeID, kinds ...token.Token) bool {
	if !slices.Contains(kinds, p.toks[p.pos].Tok) {
		for _, k := range kinds {
			p.miss(k)
		}
		return false
	}
	p.leaf(parent)
	return true
}

func (p *Parser) leaf(parent ast.NodeID) {
	id := p.tree.NewLeaf(p.toks[p.pos])
	p.tree.Attach(parent, id)
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
}

// miss records a failed terminal match for error reporting.
func (p *Parser) miss(kind token.Token) {
	switch {
	case p.pos > p.furthest:
		p.furthest = p.pos
		p.expected = append(p.expected[:0], kind)
	case p.pos == p.furthest && !slices.Contains(p.expected, kind):
		p.expected = append(p.expected, kind)
	}
}

// peek returns the kind of the token k positions after the cursor.
func (p *Parser) peek(k int) token.Token {
	return p.toks[min(p.pos+k, len(p.toks)-1)].Tok
}

// star applies fn until it fails. Always succeeds.
func star(fn func() bool) bool {
	for fn() {
	}
	return true
}

// opt ignores the result of an optional element.
func opt(bool) bool { return true }

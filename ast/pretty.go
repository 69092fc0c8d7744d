package ast

import (
	"strings"

	"github.com/soypat/fort2jul/token"
)

// Source reconstructs FORTRAN source text for the subtree rooted at id from its
// leaves. Blanks are not significant in FORTRAN so spacing is normalized:
// words are separated by a single space and punctuation is written tight.
// Statement terminators are not included.
func Source(t *Tree, id NodeID) string {
	var buf strings.Builder
	var prev token.Token
	for _, leaf := range t.Leaves(id) {
		n := t.Node(leaf)
		if n.Tok.IsEOS() {
			continue
		}
		if buf.Len() > 0 && needsSpace(prev, n.Tok) {
			buf.WriteByte(' ')
		}
		buf.WriteString(n.Text)
		prev = n.Tok
	}
	return buf.String()
}

func needsSpace(prev, next token.Token) bool {
	isWord := func(tok token.Token) bool {
		return tok == token.ID || tok.IsKeyword() || tok.IsLiteral()
	}
	switch {
	case isWord(prev) && isWord(next):
		return true
	case prev == token.COMMA:
		return true
	case prev.IsOperator() || next.IsOperator():
		return prev != token.NOT && prev != token.LPAREN && next != token.RPAREN
	}
	return false
}

package ast

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Fprint prints the subtree rooted at id to w in an indented tree format, one node per line.
// Leaves are printed with their token kind, quoted text and position.
// Fprint is useful for debugging and testing.
func Fprint(w io.Writer, t *Tree, id NodeID) error {
	bw := bufio.NewWriter(w)
	p := printer{output: bw, t: t}
	p.print(id, 0)
	return bw.Flush()
}

// Print calls Fprint(os.Stdout, t, t.Root) for debugging convenience.
func Print(t *Tree) error {
	return Fprint(os.Stdout, t, t.Root)
}

type printer struct {
	output *bufio.Writer
	t      *Tree
	buf    []byte
}

func (p *printer) print(id NodeID, indent int) {
	p.buf = p.buf[:0]
	for i := 0; i < indent; i++ {
		p.buf = append(p.buf, ". "...)
	}
	n := p.t.Node(id)
	p.buf = append(p.buf, n.Label...)
	if n.IsLeaf() {
		p.buf = append(p.buf, ' ')
		p.buf = strconv.AppendQuote(p.buf, n.Text)
		p.buf = append(p.buf, " @"...)
		p.buf = strconv.AppendInt(p.buf, int64(n.Line), 10)
		p.buf = append(p.buf, ':')
		p.buf = strconv.AppendInt(p.buf, int64(n.Col), 10)
	}
	p.buf = append(p.buf, '\n')
	p.output.Write(p.buf)
	for _, c := range p.t.Children(id) {
		p.print(c, indent+1)
	}
}

// Sexpr returns a compact single line form of the subtree rooted at id:
// rule nodes print as (Label child...) and leaves print as their source text.
// Sexpr is intended for test expectations.
func Sexpr(t *Tree, id NodeID) string {
	var b strings.Builder
	sexpr(&b, t, id)
	return b.String()
}

func sexpr(b *strings.Builder, t *Tree, id NodeID) {
	n := t.Node(id)
	if n.IsLeaf() {
		if n.Tok.IsEOS() && n.Text == "\n" {
			b.WriteString(`\n`)
		} else {
			b.WriteString(n.Text)
		}
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Label)
	for _, c := range t.Children(id) {
		b.WriteByte(' ')
		sexpr(b, t, c)
	}
	b.WriteByte(')')
}

// Literal returns the decoded literal value of leaf id formatted for display.
func Literal(t *Tree, id NodeID) string {
	n := t.Node(id)
	if n.Literal == nil {
		return n.Text
	}
	return fmt.Sprint(n.Literal)
}

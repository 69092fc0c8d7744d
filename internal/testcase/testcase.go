// Package testcase extracts golden translation cases from Markdown documents.
//
// Each case starts at a heading "Test: <name>" and owns the fenced code
// blocks that follow it: one fortran block with the input, one julia block
// with the expected program body and an optional diagnostics block listing
// the expected diagnostic rules, one per line.
package testcase

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence languages a case may hold.
const (
	FenceFortran     = "fortran"
	FenceJulia       = "julia"
	FenceDiagnostics = "diagnostics"
)

// Case is one golden translation case.
type Case struct {
	Name        string
	Line        int    // Line of the heading.
	Fortran     string // Input source.
	Julia       string // Expected program body, header excluded.
	Diagnostics []string
	// HasDiagnostics is set when the case holds a diagnostics block, which
	// may be empty to assert that no diagnostic is recorded.
	HasDiagnostics bool
}

// Load reads and extracts the cases of the Markdown file at path.
func Load(path string) ([]Case, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := Extract(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Extract parses a Markdown document and returns its cases in document order.
func Extract(source []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var current *Case
	flush := func() error {
		if current == nil {
			return nil
		}
		if current.Fortran == "" {
			return fmt.Errorf("line %d: test %q has no fortran fence", current.Line, current.Name)
		}
		cases = append(cases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			name, ok := strings.CutPrefix(heading, "Test: ")
			if !ok {
				return ast.WalkContinue, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			current = &Case{Name: strings.TrimSpace(name), Line: lineOf(n, source)}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			lang := string(n.Language(source))
			if lang == "" {
				return ast.WalkContinue, nil
			}
			line := lineOf(n, source)
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test", line, lang)
			}
			content := fenceContent(n, source)
			switch lang {
			case FenceFortran:
				if current.Fortran != "" {
					return ast.WalkStop, fmt.Errorf("line %d: second fortran fence in test %q", line, current.Name)
				}
				current.Fortran = content
			case FenceJulia:
				current.Julia = content
			case FenceDiagnostics:
				current.HasDiagnostics = true
				for _, rule := range strings.Split(content, "\n") {
					if rule = strings.TrimSpace(rule); rule != "" {
						current.Diagnostics = append(current.Diagnostics, rule)
					}
				}
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language %q in test %q", line, lang, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1 based line of the first content line of node.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:min(start, len(source))], []byte{'\n'}) + 1
}

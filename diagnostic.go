package fort2jul

import (
	"strconv"
)

// Severity ranks a [Diagnostic].
type Severity int

const (
	// SeverityInfo marks constructs translated with a known loss of fidelity.
	SeverityInfo Severity = iota
	// SeverityWarning marks constructs that produced no code or code that may not run.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	}
	return "severity(" + strconv.Itoa(int(s)) + ")"
}

// MarshalText implements encoding.TextMarshaler so reports carry the severity name.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Diagnostic records a construct the code generator skipped or lowered approximately.
// Rule is the AST label of the construct, or UnresolvedReference for names
// used with call syntax that resolve to nothing.
type Diagnostic struct {
	Severity Severity `yaml:"severity"`
	Rule     string   `yaml:"rule"`
	Line     int      `yaml:"line"`
	Col      int      `yaml:"col"`
	Message  string   `yaml:"message"`
}

func (d Diagnostic) String() string {
	return string(d.AppendString(nil))
}

// AppendString appends the diagnostic as line:col: severity: rule: message.
func (d Diagnostic) AppendString(b []byte) []byte {
	b = strconv.AppendInt(b, int64(d.Line), 10)
	b = append(b, ':')
	b = strconv.AppendInt(b, int64(d.Col), 10)
	b = append(b, ": "...)
	b = append(b, d.Severity.String()...)
	b = append(b, ": "...)
	b = append(b, d.Rule...)
	if d.Message != "" {
		b = append(b, ": "...)
		b = append(b, d.Message...)
	}
	return b
}

// Rule labels of diagnostics not named after an AST node.
const (
	RuleUnresolvedReference = "UnresolvedReference"
	RuleProgramUnit         = "ProgramUnit"
)

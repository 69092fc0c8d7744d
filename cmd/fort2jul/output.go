package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/soypat/fort2jul"
	"gopkg.in/yaml.v3"
)

var (
	colorWarning = lipgloss.Color("#F59E0B")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorError   = lipgloss.Color("#EF4444")
	colorOK      = lipgloss.Color("#10B981")
	colorMuted   = lipgloss.Color("#6B7280")
)

var styles = struct {
	warning, info, err, ok, muted, rule lipgloss.Style
}{
	warning: lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
	info:    lipgloss.NewStyle().Foreground(colorInfo),
	err:     lipgloss.NewStyle().Foreground(colorError).Bold(true),
	ok:      lipgloss.NewStyle().Foreground(colorOK).Bold(true),
	muted:   lipgloss.NewStyle().Foreground(colorMuted),
	rule:    lipgloss.NewStyle().Italic(true),
}

// printDiagnostics writes one line per diagnostic in file:line:col form.
func printDiagnostics(w io.Writer, source string, diags []fort2jul.Diagnostic) {
	for _, d := range diags {
		sev := styles.info
		if d.Severity == fort2jul.SeverityWarning {
			sev = styles.warning
		}
		pos := source + ":" + strconv.Itoa(d.Line) + ":" + strconv.Itoa(d.Col) + ":"
		line := styles.muted.Render(pos) + " " + sev.Render(d.Severity.String()) + " " + styles.rule.Render(d.Rule)
		if d.Message != "" {
			line += " " + d.Message
		}
		fmt.Fprintln(w, line)
	}
}

func printSummary(w io.Writer, res *fort2jul.Result, outputs []string) {
	var warnings, infos int
	for _, d := range res.Diagnostics {
		if d.Severity == fort2jul.SeverityWarning {
			warnings++
		} else {
			infos++
		}
	}
	for _, out := range outputs {
		fmt.Fprintln(w, styles.ok.Render("wrote"), out)
	}
	fmt.Fprintln(w, styles.muted.Render(fmt.Sprintf("%d tokens, %d nodes, %d warnings, %d notes",
		res.Tokens, res.Nodes, warnings, infos)))
}

// report is the YAML document written by --report.
type report struct {
	RunID       string                `yaml:"run_id"`
	Time        time.Time             `yaml:"time"`
	Source      string                `yaml:"source"`
	Program     string                `yaml:"program,omitempty"`
	Outputs     []string              `yaml:"outputs"`
	Diagnostics []fort2jul.Diagnostic `yaml:"diagnostics"`
}

func writeReport(path, source string, res *fort2jul.Result, outputs []string) error {
	r := report{
		RunID:       uuid.New().String(),
		Time:        time.Now().UTC(),
		Source:      source,
		Program:     res.ProgramName,
		Outputs:     outputs,
		Diagnostics: res.Diagnostics,
	}
	b, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"gopkg.in/yaml.v3"
)

const program = `      PROGRAM HELLO
      INTEGER N
      N = 3
      SAVE
      PRINT *, N
      END
`

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	flagConfig, flagOut, flagReport = "", "", ""
	flagStrict, flagVerbose, flagDump = false, false, false
	flagFilter, flagType = "", ""
	var out, errb bytes.Buffer
	code = run(args, &out, &errb)
	return code, out.String(), errb.String()
}

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hello.f")
	be.Err(t, os.WriteFile(path, []byte(program), 0o644), nil)
	return path
}

func TestRunUsage(t *testing.T) {
	code, stdout, _ := execute(t)
	be.Equal(t, code, exitOK)
	be.True(t, strings.Contains(stdout, "Usage:"))

	code, _, stderr := execute(t, "a.f", "b.f")
	be.Equal(t, code, exitUsage)
	be.True(t, strings.Contains(stderr, "expected one input file"))
}

func TestRunMissingFile(t *testing.T) {
	code, _, _ := execute(t, filepath.Join(t.TempDir(), "missing.f"))
	be.Equal(t, code, exitError)
}

func TestRunTranslate(t *testing.T) {
	src := writeSource(t)
	out := filepath.Join(t.TempDir(), "out")
	reportPath := filepath.Join(out, "report.yaml")
	code, stdout, stderr := execute(t, "--out", out, "--report", reportPath, src)
	be.Equal(t, code, exitOK)
	be.True(t, strings.Contains(stdout, filepath.Join(out, "hello.jl")))
	be.True(t, strings.Contains(stderr, "SaveStmt"))

	prog, err := os.ReadFile(filepath.Join(out, "hello.jl"))
	be.Err(t, err, nil)
	be.True(t, strings.Contains(string(prog), "println(N)\n"))
	_, err = os.Stat(filepath.Join(out, "macros.jl"))
	be.Err(t, err, nil)

	b, err := os.ReadFile(reportPath)
	be.Err(t, err, nil)
	var r struct {
		RunID       string   `yaml:"run_id"`
		Program     string   `yaml:"program"`
		Outputs     []string `yaml:"outputs"`
		Diagnostics []struct {
			Severity string `yaml:"severity"`
			Rule     string `yaml:"rule"`
			Line     int    `yaml:"line"`
		} `yaml:"diagnostics"`
	}
	be.Err(t, yaml.Unmarshal(b, &r), nil)
	be.Equal(t, len(r.RunID), 36)
	be.Equal(t, r.Program, "HELLO")
	be.Equal(t, len(r.Outputs), 2)
	be.Equal(t, len(r.Diagnostics), 1)
	be.Equal(t, r.Diagnostics[0].Severity, "warning")
	be.Equal(t, r.Diagnostics[0].Rule, "SaveStmt")
	be.Equal(t, r.Diagnostics[0].Line, 4)
}

func TestRunStrict(t *testing.T) {
	src := writeSource(t)
	out := filepath.Join(t.TempDir(), "out")
	code, _, _ := execute(t, "--strict", "--out", out, src)
	be.Equal(t, code, exitError)
	_, err := os.Stat(filepath.Join(out, "hello.jl"))
	be.True(t, os.IsNotExist(err))
}

func TestRunConfig(t *testing.T) {
	src := writeSource(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fort2jul.toml")
	cfg := "output_dir = \"" + filepath.ToSlash(filepath.Join(dir, "gen")) + "\"\nindent = \"    \"\nextension = \"julia\"\n\n[log]\nlevel = \"warn\"\n"
	be.Err(t, os.WriteFile(cfgPath, []byte(cfg), 0o644), nil)
	code, _, _ := execute(t, "--config", cfgPath, src)
	be.Equal(t, code, exitOK)
	_, err := os.Stat(filepath.Join(dir, "gen", "hello.julia"))
	be.Err(t, err, nil)
}

func TestSubcommands(t *testing.T) {
	src := writeSource(t)

	code, stdout, _ := execute(t, "tokens", src)
	be.Equal(t, code, exitOK)
	be.True(t, strings.Contains(stdout, `PROGRAM "PROGRAM" @1:7`))

	code, stdout, _ = execute(t, "ast", src)
	be.Equal(t, code, exitOK)
	be.True(t, strings.HasPrefix(stdout, "program\n"))
	be.True(t, strings.Contains(stdout, ". . MainProgram\n"))

	code, stdout, _ = execute(t, "symbols", src)
	be.Equal(t, code, exitOK)
	be.True(t, strings.Contains(stdout, "PROG(HELLO) LOCAL(INTEGER:N)"))

	code, stdout, _ = execute(t, "version")
	be.Equal(t, code, exitOK)
	be.Equal(t, stdout, "fort2jul devel\n")
}

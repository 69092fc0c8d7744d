package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	be.Err(t, os.WriteFile(path, []byte(content), 0o644), nil)
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	be.Equal(t, c.MacrosFile, "macros.jl")
	be.Equal(t, c.Indent, "\t")
	be.Equal(t, c.Extension, ".jl")
	be.Equal(t, c.Log.Level, "info")
	be.Equal(t, c.Log.Format, "text")
	be.Equal(t, c.OutputDir, "")
	be.True(t, !c.Strict)
	be.Err(t, c.Validate(), nil)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "fort2jul.toml", `
output_dir = "out"
indent = "    "
strict = true

[log]
level = "debug"

[report]
path = "report.yaml"
`)
	c, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, c.OutputDir, "out")
	be.Equal(t, c.Indent, "    ")
	be.True(t, c.Strict)
	be.Equal(t, c.Log.Level, "debug")
	be.Equal(t, c.Log.Format, "text")
	be.Equal(t, c.Report.Path, "report.yaml")
	be.Equal(t, c.MacrosFile, "macros.jl")
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "fort2jul.yml", `
extension: jl2
macros_file: support.jl
log:
  format: json
`)
	c, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, c.Extension, ".jl2")
	be.Equal(t, c.MacrosFile, "support.jl")
	be.Equal(t, c.Log.Format, "json")
	be.Equal(t, c.Log.Level, "info")
}

func TestLoadExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	be.Err(t, os.WriteFile(filepath.Join(dir, "c.toml"), []byte(`output_dir = "$FORT2JUL_OUT/jl"`), 0o644), nil)
	t.Setenv("FORT2JUL_CFG", dir)
	t.Setenv("FORT2JUL_OUT", "/tmp/build")
	c, err := Load("$FORT2JUL_CFG/c.toml")
	be.Err(t, err, nil)
	be.Equal(t, c.OutputDir, "/tmp/build/jl")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "syntax", file: "bad.toml", content: "output_dir = "},
		{name: "level", file: "level.toml", content: "[log]\nlevel = \"loud\""},
		{name: "format", file: "format.yaml", content: "log:\n  format: xml"},
		{name: "macros path", file: "macros.toml", content: `macros_file = "lib/macros.jl"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			be.True(t, err != nil)
		})
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	be.True(t, err != nil)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("warn")
	be.Err(t, err, nil)
	be.Equal(t, l, slog.LevelWarn)
	l, err = ParseLevel("DEBUG")
	be.Err(t, err, nil)
	be.Equal(t, l, slog.LevelDebug)
	_, err = ParseLevel("verbose")
	be.True(t, err != nil)
}

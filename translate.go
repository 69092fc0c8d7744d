package fort2jul

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/soypat/fort2jul/config"
	"github.com/soypat/fort2jul/intrinsic"
)

// ErrStrict is wrapped by the error Translate returns in strict mode when
// code generation recorded warnings.
var ErrStrict = errors.New("translation recorded warnings")

// Options configures a translation.
type Options struct {
	// Source names the input in errors and the provenance comment of the output.
	Source string
	// Indent is written once per nesting level. Defaults to a tab.
	Indent string
	// MacrosFile is the support file the program includes. Defaults to macros.jl.
	MacrosFile string
	// Logger receives stage progress. Nil discards.
	Logger *slog.Logger
	// Strict fails the translation when any warning is recorded.
	Strict bool
}

// Result is a finished translation.
type Result struct {
	Program     string // Julia program.
	Support     string // Runtime support file the program includes.
	ProgramName string // Name after PROGRAM, empty if the source has none.
	Diagnostics []Diagnostic
	Tokens      int
	Nodes       int
}

// Translate scans, parses and generates Julia for FORTRAN 77 source src.
// A source that does not parse returns an error wrapping [ErrNoParse]. In
// strict mode a translation with warnings returns both the result and an
// error wrapping [ErrStrict].
func Translate(src string, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}
	toks, name := NewScanner(src, log).Scan()
	var p Parser
	if err := p.Reset(opts.Source, toks, log); err != nil {
		return nil, err
	}
	tree, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", opts.Source, err)
	}
	var tg ToJulia
	opts.Logger = log
	if err := tg.Reset(tree, opts); err != nil {
		return nil, err
	}
	prog, diags := tg.Transpile()
	res := &Result{
		Program:     prog,
		Support:     intrinsic.Macros,
		ProgramName: name,
		Diagnostics: diags,
		Tokens:      len(toks),
		Nodes:       tree.Len(),
	}
	warnings := 0
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			warnings++
		}
	}
	log.Info("generate complete", slog.Int("bytes", len(prog)), slog.Int("diagnostics", len(diags)), slog.Int("warnings", warnings))
	if opts.Strict && warnings > 0 {
		return res, fmt.Errorf("%s: %d warnings: %w", opts.Source, warnings, ErrStrict)
	}
	return res, nil
}

// OutputName returns the file name of the translated program of inputPath:
// its base name up to the first dot followed by ext.
func OutputName(inputPath, ext string) string {
	base := filepath.Base(inputPath)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base + ext
}

// WriteArtifacts writes the program and its support file to the output
// directory of cfg, the input's directory when unset. It returns the paths written.
func WriteArtifacts(res *Result, inputPath string, cfg config.Config, log *slog.Logger) ([]string, error) {
	if log == nil {
		log = discardLogger()
	}
	dir := cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	ext := cfg.Extension
	if ext == "" {
		ext = ".jl"
	}
	macros := cfg.MacrosFile
	if macros == "" {
		macros = intrinsic.MacrosFile
	}
	files := []struct{ path, content string }{
		{filepath.Join(dir, OutputName(inputPath, ext)), res.Program},
		{filepath.Join(dir, macros), res.Support},
	}
	var written []string
	for _, f := range files {
		if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
			return written, fmt.Errorf("write artifact: %w", err)
		}
		log.Info("wrote artifact", slog.String("path", f.path), slog.Int("bytes", len(f.content)))
		written = append(written, f.path)
	}
	return written, nil
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

// fort2jul translates FORTRAN 77 programs to Julia.
//
// Usage:
//
//	fort2jul [flags] file.f
//	fort2jul tokens file.f
//	fort2jul ast file.f
//	fort2jul symbols [-filter name] [-type TYPE] file.f
//	fort2jul version
//
// Translating prog.f writes prog.jl and the support file macros.jl next to
// the input, or to the configured output directory.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/soypat/fort2jul"
	"github.com/soypat/fort2jul/config"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 64
)

var version = "devel"

var (
	flagConfig  string
	flagOut     string
	flagReport  string
	flagStrict  bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fort2jul [flags] file.f",
	Short: "Translate FORTRAN 77 source to Julia",
	Long: `fort2jul translates a FORTRAN 77 program to a Julia program and writes the
macros.jl support file the program includes.

Constructs without a Julia equivalent are skipped and reported as diagnostics.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTranslate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVarP(&flagOut, "out", "o", "", "output directory (default: directory of the input)")
	rootCmd.Flags().StringVar(&flagReport, "report", "", "write a YAML report of the run to this path")
	rootCmd.Flags().BoolVar(&flagStrict, "strict", false, "fail when any warning is recorded")
}

// usageError is returned for invocations that must not reach the translator.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}
	fmt.Fprintln(stderr, styles.err.Render("error:"), err)
	var uerr *usageError
	if errors.As(err, &uerr) {
		return exitUsage
	}
	return exitError
}

func runTranslate(cmd *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return cmd.Help()
	case 1:
	default:
		return &usageError{msg: fmt.Sprintf("expected one input file, got %d", len(args))}
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagOut != "" {
		cfg.OutputDir = flagOut
	}
	if flagReport != "" {
		cfg.Report.Path = flagReport
	}
	cfg.Strict = cfg.Strict || flagStrict
	log, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	log.Info("translating", slog.String("source", path), slog.Int("bytes", len(src)))
	res, err := fort2jul.Translate(string(src), fort2jul.Options{
		Source:     path,
		Indent:     cfg.Indent,
		MacrosFile: cfg.MacrosFile,
		Logger:     log,
		Strict:     cfg.Strict,
	})
	if res != nil {
		printDiagnostics(cmd.ErrOrStderr(), path, res.Diagnostics)
	}
	if err != nil {
		if res != nil && cfg.Report.Path != "" {
			if rerr := writeReport(cfg.Report.Path, path, res, nil); rerr != nil {
				log.Error("report", slog.String("err", rerr.Error()))
			}
		}
		return err
	}
	outputs, err := fort2jul.WriteArtifacts(res, path, *cfg, log)
	if err != nil {
		return err
	}
	if cfg.Report.Path != "" {
		if err := writeReport(cfg.Report.Path, path, res, outputs); err != nil {
			return err
		}
	}
	printSummary(cmd.OutOrStdout(), res, outputs)
	return nil
}

func loadConfig() (*config.Config, error) {
	if flagConfig == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(flagConfig)
}

func newLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

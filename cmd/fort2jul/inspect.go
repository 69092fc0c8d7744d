package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sanity-io/litter"
	"github.com/soypat/fort2jul"
	"github.com/soypat/fort2jul/ast"
	"github.com/soypat/fort2jul/symbol"
	"github.com/soypat/fort2jul/token"
	"github.com/spf13/cobra"
)

var (
	flagFilter string
	flagType   string
	flagDump   bool
)

var tokensCmd = &cobra.Command{
	Use:   "tokens file.f",
	Short: "Print the tokens of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		toks, _, err := scanFile(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if flagDump {
			fmt.Fprintln(w, litter.Sdump(toks))
			return nil
		}
		for _, tok := range toks {
			fmt.Fprintln(w, tok.String())
		}
		return nil
	},
}

var astCmd = &cobra.Command{
	Use:   "ast file.f",
	Short: "Print the syntax tree of a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := parseFile(args[0])
		if err != nil {
			return err
		}
		return ast.Fprint(cmd.OutOrStdout(), tree, tree.Root)
	},
}

// symbolsCmd prints one line per declared name:
//
//	PROG(MAIN) LOCAL(INTEGER:N)
//	SUB(SETA) FORMAL(REAL:A(10))
//	PROG(MAIN) COMMON(REAL:Y) IMPLICIT
var symbolsCmd = &cobra.Command{
	Use:   "symbols file.f",
	Short: "Print the symbols declared by each program unit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := parseFile(args[0])
		if err != nil {
			return err
		}
		table, err := symbol.Collect(tree)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), styles.warning.Render("symbols:"), err)
		}
		printSymbols(cmd.OutOrStdout(), table)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "fort2jul", version)
	},
}

func init() {
	tokensCmd.Flags().BoolVar(&flagDump, "dump", false, "dump lexemes with all fields")
	symbolsCmd.Flags().StringVar(&flagFilter, "filter", "", "filter symbols by name (case-insensitive substring)")
	symbolsCmd.Flags().StringVar(&flagType, "type", "", "filter by type (INTEGER, REAL, CHARACTER, etc.)")
	rootCmd.AddCommand(tokensCmd, astCmd, symbolsCmd, versionCmd)
}

func scanFile(path string) ([]token.Lexeme, string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	toks, name := fort2jul.NewScanner(string(src), debugLogger()).Scan()
	return toks, name, nil
}

func parseFile(path string) (*ast.Tree, error) {
	toks, _, err := scanFile(path)
	if err != nil {
		return nil, err
	}
	var p fort2jul.Parser
	if err := p.Reset(path, toks, debugLogger()); err != nil {
		return nil, err
	}
	return p.Parse()
}

// debugLogger logs to stderr only with --verbose.
func debugLogger() *slog.Logger {
	if !flagVerbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func printSymbols(w io.Writer, table *symbol.Table) {
	for _, scope := range table.Units() {
		unit := unitKind(scope.Type()) + "(" + scope.Name() + ")"
		for _, sym := range scope.Symbols() {
			if flagFilter != "" && !strings.Contains(strings.ToUpper(sym.Name), strings.ToUpper(flagFilter)) {
				continue
			}
			if flagType != "" && !strings.EqualFold(sym.Type, flagType) {
				continue
			}
			fmt.Fprintf(w, "%s %s(%s)%s\n", unit, symbolScope(sym), formatType(sym), formatFlags(sym))
		}
	}
}

func unitKind(st symbol.ScopeType) string {
	switch st {
	case symbol.ScopeProgram:
		return "PROG"
	case symbol.ScopeSubroutine:
		return "SUB"
	case symbol.ScopeFunction:
		return "FUNC"
	case symbol.ScopeBlockData:
		return "BDATA"
	}
	return "UNIT"
}

func symbolScope(sym *symbol.Symbol) string {
	switch {
	case sym.Flags.HasAny(symbol.FlagCommon):
		return "COMMON"
	case sym.Flags.HasAny(symbol.FlagParameter):
		return "PARAM"
	case sym.Flags.HasAny(symbol.FlagFormal):
		return "FORMAL"
	case sym.Kind != symbol.KindVariable && sym.Kind != symbol.KindUnknown:
		return strings.ToUpper(sym.Kind.String())
	}
	return "LOCAL"
}

func formatType(sym *symbol.Symbol) string {
	typ := sym.Type
	if typ == "" {
		typ = "?"
	}
	if sym.IsArray() {
		return typ + ":" + sym.Name + "(" + strings.Join(sym.Dims, ",") + ")"
	}
	return typ + ":" + sym.Name
}

func formatFlags(sym *symbol.Symbol) string {
	var parts []string
	if sym.Flags.HasAny(symbol.FlagImplicit) {
		parts = append(parts, "IMPLICIT")
	}
	if sym.Flags.HasAny(symbol.FlagAssigned) {
		parts = append(parts, "ASSIGNED")
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"regexkit/internal/compile"
	"regexkit/internal/envconfig"
	"regexkit/internal/fsm"
	"regexkit/internal/fsmfile"
	"regexkit/internal/grammar"
	"regexkit/internal/lexer"
	"regexkit/internal/logutil"
	"regexkit/internal/source"
)

// compileOptions reads --universe, falling back to REGEXKIT_UNIVERSE.
func compileOptions(cmd *cobra.Command) ([]compile.Option, error) {
	name, _ := cmd.Flags().GetString("universe")
	if name == "" {
		return nil, nil
	}
	u, err := compile.Universe(name)
	if err != nil {
		return nil, err
	}
	return []compile.Option{compile.WithUniverse(u)}, nil
}

// automaton compiles pattern to a minimal DFA, or to the Thompson NFA with --nfa.
func automaton(cmd *cobra.Command, pattern string) (fsm.Automaton, string, error) {
	opts, err := compileOptions(cmd)
	if err != nil {
		return nil, "", err
	}
	if nfa, _ := cmd.Flags().GetBool("nfa"); nfa {
		n, err := compile.CompileNFA(pattern, opts...)
		if err != nil {
			return nil, "", err
		}
		return n, "nfa", nil
	}
	d, err := compile.CompileDFA(pattern, opts...)
	if err != nil {
		return nil, "", err
	}
	return d, "dfa", nil
}

func printMatches(w io.Writer, a fsm.Automaton, inputs []string) {
	for _, s := range inputs {
		fmt.Fprintf(w, "%q\t%t\n", s, a.Contains(s))
	}
}

// writeOutput sends data to stdout, or to the file named by --output.
func writeOutput(cmd *cobra.Command, data []byte) error {
	out, _ := cmd.Flags().GetString("output")
	if out == "" || out == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", out)
	return nil
}

func render(a fsm.Automaton, kind, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "dot":
		err = fsm.WriteDOT(&buf, a)
	case "fsm":
		err = fsmfile.Write(&buf, kind, a)
	case "text":
		_, err = fmt.Fprintln(&buf, a)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return buf.Bytes(), err
}

func TokensHandler(cmd *cobra.Command, args []string) error {
	toks, err := lexer.All(args[0])
	if err != nil {
		return err
	}
	for _, t := range toks {
		fmt.Fprintln(cmd.OutOrStdout(), t)
	}
	return nil
}

func ParseHandler(cmd *cobra.Command, args []string) error {
	stream := lexer.Tokenize(source.New(args[0]))
	p := grammar.NewParser(stream)
	n, err := p.Parse()
	if lerr := stream.Err(); lerr != nil {
		return lerr
	}
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)

	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		s := p.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "memo hits %d, misses %d, growth iterations %d\n", s.Hits, s.Misses, s.Iterations)
	}
	return nil
}

func FormatHandler(cmd *cobra.Command, args []string) error {
	n, err := grammar.ParseString(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), grammar.Format(n))
	return nil
}

func MatchHandler(cmd *cobra.Command, args []string) error {
	a, _, err := automaton(cmd, args[0])
	if err != nil {
		return err
	}
	printMatches(cmd.OutOrStdout(), a, args[1:])
	return nil
}

func DotHandler(cmd *cobra.Command, args []string) error {
	a, kind, err := automaton(cmd, args[0])
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	data, err := render(a, kind, format)
	if err != nil {
		return err
	}
	return writeOutput(cmd, data)
}

func RegexpHandler(cmd *cobra.Command, args []string) error {
	a, _, err := automaton(cmd, args[0])
	if err != nil {
		return err
	}
	re := fsm.ToRegexp(a.(*fsm.DFA))
	if re == "" {
		return fmt.Errorf("%q matches nothing", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), re)
	return nil
}

func LoadHandler(cmd *cobra.Command, args []string) error {
	def, err := fsmfile.Load(args[0])
	if err != nil {
		return err
	}

	kind := def.Kind
	var a fsm.Automaton
	if determinize, _ := cmd.Flags().GetBool("dfa"); determinize {
		kind = "dfa"
		a, err = def.DFA()
	} else {
		a, err = def.Automaton()
	}
	if err != nil {
		return err
	}
	slog.Debug("loaded automaton", "path", args[0], "kind", kind, "states", len(a.States()))

	if len(args) > 1 {
		printMatches(cmd.OutOrStdout(), a, args[1:])
		return nil
	}
	format, _ := cmd.Flags().GetString("format")
	data, err := render(a, kind, format)
	if err != nil {
		return err
	}
	return writeOutput(cmd, data)
}

// envUsage lists the REGEXKIT_* variables for the help text.
func envUsage() string {
	vars := envconfig.AsMap()
	var b strings.Builder
	b.WriteString("\nEnvironment Variables:\n\n")
	for _, name := range slices.Sorted(maps.Keys(vars)) {
		fmt.Fprintf(&b, "    %-20s %s\n", name, vars[name].Description)
	}
	return b.String()
}

func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "regexkit",
		Short: "Regular expressions, parsed with a packrat parser and compiled to automata",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), envconfig.LogLevel()))
			slog.Debug("config", "env", envconfig.Values())
		},
	}
	rootCmd.SetUsageTemplate(rootCmd.UsageTemplate() + envUsage())

	cobra.EnableCommandSorting = false

	tokensCmd := &cobra.Command{
		Use:   "tokens PATTERN",
		Short: "Print the tokens of a pattern",
		Args:  cobra.ExactArgs(1),
		RunE:  TokensHandler,
	}

	parseCmd := &cobra.Command{
		Use:   "parse PATTERN",
		Short: "Print the syntax tree of a pattern",
		Args:  cobra.ExactArgs(1),
		RunE:  ParseHandler,
	}
	parseCmd.Flags().Bool("stats", false, "Show memo table statistics")

	formatCmd := &cobra.Command{
		Use:   "format PATTERN",
		Short: "Print a pattern in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE:  FormatHandler,
	}

	matchCmd := &cobra.Command{
		Use:   "match PATTERN [STRING...]",
		Short: "Test whole strings against a pattern",
		Args:  cobra.MinimumNArgs(1),
		RunE:  MatchHandler,
	}

	dotCmd := &cobra.Command{
		Use:   "dot PATTERN",
		Short: "Export the automaton of a pattern",
		Args:  cobra.ExactArgs(1),
		RunE:  DotHandler,
	}

	regexpCmd := &cobra.Command{
		Use:   "regexp PATTERN",
		Short: "Rebuild a pattern from its minimal automaton",
		Args:  cobra.ExactArgs(1),
		RunE:  RegexpHandler,
	}

	loadCmd := &cobra.Command{
		Use:   "load FILE [STRING...]",
		Short: "Load an automaton description and print or run it",
		Args:  cobra.MinimumNArgs(1),
		RunE:  LoadHandler,
	}
	loadCmd.Flags().Bool("dfa", false, "Determinize and minimize before use")

	for _, cmd := range []*cobra.Command{matchCmd, dotCmd, regexpCmd} {
		cmd.Flags().String("universe", "", "Symbols for '.' and negated sets: ascii or latin1 (default $REGEXKIT_UNIVERSE)")
	}
	for _, cmd := range []*cobra.Command{matchCmd, dotCmd} {
		cmd.Flags().Bool("nfa", false, "Use the Thompson NFA instead of the minimal DFA")
	}
	for _, cmd := range []*cobra.Command{dotCmd, loadCmd} {
		cmd.Flags().String("format", "dot", "Output format: dot, fsm or text")
		cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	}

	rootCmd.AddCommand(
		tokensCmd,
		parseCmd,
		formatCmd,
		matchCmd,
		dotCmd,
		regexpCmd,
		loadCmd,
	)

	return rootCmd
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinybasic-lang/tbasic/internal/diag"
	"github.com/tinybasic-lang/tbasic/internal/interp"
	"github.com/tinybasic-lang/tbasic/internal/lexer"
	"github.com/tinybasic-lang/tbasic/internal/parser"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a Tiny BASIC program",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", diag.Message(diag.EFileNotFound))
		os.Exit(int(diag.EFileNotFound))
		return nil
	}

	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	rep := diag.NewReporter()
	l := lexer.New(string(content))
	prog := parser.ParseProgram(l, opts, rep)

	if rep.HasError() {
		reportAndExit(rep, string(content))
		return nil
	}

	it := interp.New(os.Stdout, os.Stdin, opts, rep)
	it.Run(prog)

	if rep.HasError() {
		reportAndExit(rep, string(content))
	}
	return nil
}

// reportAndExit renders the reporter's sticky error against source and
// exits with that error's code, matching spec.md §6's "the error code
// on parse or runtime error" exit status contract.
func reportAndExit(rep *diag.Reporter, source string) {
	d := rep.Diagnostic()
	lines := splitLines(source)
	fmt.Fprintln(os.Stderr, d.Format(lines))
	os.Exit(int(d.Code))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

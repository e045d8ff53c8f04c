package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinybasic-lang/tbasic/internal/diag"
	"github.com/tinybasic-lang/tbasic/internal/format"
	"github.com/tinybasic-lang/tbasic/internal/lexer"
	"github.com/tinybasic-lang/tbasic/internal/parser"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Print a program in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE:  runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}

func runFmt(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
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

	fmt.Print(format.Program(prog))
	return nil
}

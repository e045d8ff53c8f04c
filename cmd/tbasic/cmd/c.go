package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinybasic-lang/tbasic/internal/codegen"
	"github.com/tinybasic-lang/tbasic/internal/diag"
	"github.com/tinybasic-lang/tbasic/internal/lexer"
	"github.com/tinybasic-lang/tbasic/internal/parser"
)

var flagCOut string

var cCmd = &cobra.Command{
	Use:   "c <file>",
	Short: "Transpile a program to C",
	Args:  cobra.ExactArgs(1),
	RunE:  runC,
}

func init() {
	rootCmd.AddCommand(cCmd)
	cCmd.Flags().StringVar(&flagCOut, "out", "", "write generated C source here instead of stdout")
}

func runC(cmd *cobra.Command, args []string) error {
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

	out := codegen.Generate(prog, opts)
	if flagCOut == "" {
		fmt.Print(out)
		return nil
	}
	return os.WriteFile(flagCOut, []byte(out), 0o644)
}

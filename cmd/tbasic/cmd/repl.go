package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tinybasic-lang/tbasic/internal/repl"
)

func init() {
	rootCmd.RunE = runREPL
	rootCmd.Args = cobra.ArbitraryArgs
}

// runREPL starts the interactive session when tbasic is invoked with no
// subcommand, matching the reference console's behavior when launched
// without a program file. With a file argument it runs that file, as
// the run subcommand does.
func runREPL(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return runRun(cmd, args)
	}
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	session := repl.New(os.Stdin, os.Stdout, opts)
	session.Run()
	return nil
}

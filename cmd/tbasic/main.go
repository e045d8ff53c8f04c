// Command tbasic is a Tiny BASIC toolchain: it runs programs directly,
// canonicalizes their source, transpiles them to C, or drops into an
// interactive line-numbered REPL when no input file is given.
package main

import (
	"fmt"
	"os"

	"github.com/tinybasic-lang/tbasic/cmd/tbasic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

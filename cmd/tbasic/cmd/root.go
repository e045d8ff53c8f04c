package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinybasic-lang/tbasic/internal/options"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	flagLineNumberMode string
	flagLineLimit      int
	flagComments       bool
	flagGosubLimit     int
	flagMemorySize     int
	flagConfigPath     string
)

var rootCmd = &cobra.Command{
	Use:   "tbasic",
	Short: "Tiny BASIC interpreter, formatter, and C transpiler",
	Long: `tbasic is a Tiny BASIC toolchain: it runs programs directly,
canonicalizes their source, and transpiles them to standalone C.

Run with a file argument to execute it, or with no arguments to start
an interactive line-numbered REPL.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVarP(&flagLineNumberMode, "line-numbers", "n", "optional", "line-number policy: optional, implied, or mandatory")
	rootCmd.PersistentFlags().IntVarP(&flagLineLimit, "line-limit", "N", 0, "maximum accepted line label (0 = unlimited)")
	rootCmd.PersistentFlags().BoolVarP(&flagComments, "comments", "o", true, "keep labeled comment-only lines in the parsed program")
	rootCmd.PersistentFlags().IntVarP(&flagGosubLimit, "gosub-limit", "g", 255, "maximum nested GOSUB depth")
	rootCmd.PersistentFlags().IntVar(&flagMemorySize, "memory", 4096, "size in words of the PEEK/POKE address space (0 disables PEEK/POKE)")
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to a TOML config file (defaults: ./.tbasicrc.toml, $HOME/.tbasicrc.toml)")
}

// buildOptions assembles options.Options from the merged config file and
// command-line flags, flags taking precedence. See config.go for the
// merge order.
func buildOptions(cmd *cobra.Command) (*options.Options, error) {
	cfg, err := loadConfig(flagConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.applyFlags(cmd)

	mode, ok := options.ParseLineNumberMode(cfg.LineNumberMode)
	if !ok {
		return nil, fmt.Errorf("invalid --line-numbers value %q", cfg.LineNumberMode)
	}

	return options.New(
		options.WithLineNumberMode(mode),
		options.WithLineLimit(cfg.LineLimit),
		options.WithComments(cfg.Comments),
		options.WithGosubLimit(cfg.GosubLimit),
		options.WithMemory(cfg.MemorySize),
	), nil
}

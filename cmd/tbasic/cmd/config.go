package cmd

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// config mirrors the CLI flags so a project can pin its dialect policy
// in a file instead of repeating flags on every invocation. Flags always
// win over the file, and the file always wins over the built-in
// defaults in options.New.
type config struct {
	LineNumberMode string `toml:"line_numbers"`
	LineLimit      int    `toml:"line_limit"`
	Comments       bool   `toml:"comments"`
	GosubLimit     int    `toml:"gosub_limit"`
	MemorySize     int    `toml:"memory"`
}

// defaultConfigCandidates are searched in order when --config is not
// given. The first one that exists is used; it is not an error for none
// to exist.
func defaultConfigCandidates() []string {
	var candidates []string
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, ".tbasicrc.toml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".tbasicrc.toml"))
	}
	return candidates
}

// loadConfig reads path, or (if path is empty) the first existing
// default candidate, into a config seeded with the flags' own defaults.
// A missing file is not an error; a malformed one is.
func loadConfig(path string) (*config, error) {
	cfg := &config{
		LineNumberMode: "optional",
		Comments:       true,
		GosubLimit:     255,
		MemorySize:     4096,
	}

	candidates := []string{path}
	if path == "" {
		candidates = defaultConfigCandidates()
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if _, err := toml.DecodeFile(candidate, cfg); err != nil {
			return nil, err
		}
		break
	}
	return cfg, nil
}

// applyFlags overrides cfg's fields with any flag the user explicitly
// set on the command line.
func (cfg *config) applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("line-numbers") {
		cfg.LineNumberMode = flagLineNumberMode
	}
	if flags.Changed("line-limit") {
		cfg.LineLimit = flagLineLimit
	}
	if flags.Changed("comments") {
		cfg.Comments = flagComments
	}
	if flags.Changed("gosub-limit") {
		cfg.GosubLimit = flagGosubLimit
	}
	if flags.Changed("memory") {
		cfg.MemorySize = flagMemorySize
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cachesweep/cachesweep/internal/profiles"
)

var rootCmd = &cobra.Command{
	Use:   "cachesweep",
	Short: "Find and remove dependency and build cache directories",
	Long: "cachesweep scans a directory tree for known dependency and build\n" +
		"cache directories (node_modules, target, .venv, and similar),\n" +
		"reports their size, and deletes the ones you select. It runs as a\n" +
		"terminal UI by default, or headlessly with --json/--json-stream.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScan,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("directory", "d", "", "scan root (default: current directory)")
	flags.BoolP("full", "f", false, "scan root = home directory")
	flags.StringSliceP("profiles", "p", nil, "restrict target set to these profiles (csv); \"all\" = every profile")
	flags.StringSliceP("targets", "t", nil, "override profiles with literal target basenames (csv)")
	flags.StringSliceP("exclude", "E", nil, "basename blacklist (csv), extends the default exclusions")
	flags.StringP("sort", "s", "size", "initial sort key: size, path, or age")
	flags.Bool("json", false, "emit a single aggregated JSON document, no TUI")
	flags.Bool("json-stream", false, "emit one NDJSON object per completed result, no TUI")
	flags.Bool("dry-run", false, "report deletions as successful without touching the filesystem")
	flags.BoolP("show-protected", "X", false, "include sensitive entries in output")
	flags.Bool("follow-links", false, "follow symbolic links while scanning")
	flags.Bool("respect-ignore", false, "honor .gitignore files found while walking")

	for _, name := range []string{
		"directory", "full", "profiles", "targets", "exclude", "sort",
		"json", "json-stream", "dry-run", "show-protected", "follow-links", "respect-ignore",
	} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("cachesweep: binding flag %q: %v", name, err))
		}
	}

	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + fmt.Sprintf("\nBuilt-in profiles: %v\n", profiles.Names()))
}

// Execute runs the root command, printing any error to stderr itself
// (SilenceErrors/SilenceUsage above keep cobra from double-printing).
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cachesweep:", err)
		return err
	}
	return nil
}

// Biorome inspects farming-game content and worlds: which assemblies can
// harvest, sow, move and collar what, on which tiles.
// Usage: biorome [play|check|version] [flags]
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/biorome/config"
	"github.com/nathoo/biorome/content"
	"github.com/nathoo/biorome/engine/state"
	"github.com/nathoo/biorome/loader"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what the persistent pre-run resolved for the subcommands.
type app struct {
	configPath string
	contentDir string

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCommand(os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand builds the command tree. Logs go to logOut.
func newRootCommand(logOut io.Writer) *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "biorome",
		Short: "Biorome farm rules inspector",
		Long: `Biorome loads farm content (modules, premade assemblies, requirement lists,
plants and animals) and answers legality questions about a farm world.

Examples:
  biorome play farm.yaml
  biorome play --plain --script checks.txt farm.yaml
  biorome check ./content/biorome
  biorome version`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.contentDir != "" {
				cfg.Content.Dir = a.contentDir
			}
			a.cfg = cfg
			a.logger = config.NewLogger(cfg.Logging, logOut)
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to biorome.yaml")
	root.PersistentFlags().StringVar(&a.contentDir, "content", "", "Content directory (default: built-in content)")

	root.AddCommand(newPlayCommand(a))
	root.AddCommand(newCheckCommand(a))
	root.AddCommand(newVersionCommand())
	return root
}

// loadContent loads the configured content directory, or the embedded
// content when none is set.
func (a *app) loadContent() (*state.Defs, error) {
	if a.cfg.Content.Dir == "" {
		return loader.LoadFS(content.FS, content.Dir, a.logger)
	}
	return loader.Load(a.cfg.Content.Dir, a.logger)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "biorome %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/biorome/cli"
	"github.com/nathoo/biorome/engine"
	"github.com/nathoo/biorome/engine/state"
	"github.com/nathoo/biorome/scenario"
	"github.com/nathoo/biorome/tui"
)

func newPlayCommand(a *app) *cobra.Command {
	var (
		plain      bool
		trace      bool
		scriptFile string
	)
	cmd := &cobra.Command{
		Use:   "play [scenario.yaml]",
		Short: "Open the inspector on a farm world",
		Long: `Open the inspector on a farm world. The world comes from the scenario
argument, the scenario.path setting, or an empty farm sized by the content.

The TUI is used when stdout is a terminal; --plain or --script force the
line-oriented inspector.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := a.loadContent()
			if err != nil {
				return fmt.Errorf("loading content: %w", err)
			}

			path := a.cfg.Scenario.Path
			if len(args) == 1 {
				path = args[0]
			}
			w, err := buildWorld(a, defs, path)
			if err != nil {
				return err
			}
			eng := engine.NewWithWorld(defs, w)

			newCLI := func() *cli.CLI {
				c := cli.New(eng, defs)
				c.Out = cmd.OutOrStdout()
				c.Logger = a.logger
				c.SaveDir = a.cfg.Save.Dir
				c.Compress = a.cfg.Save.Compress
				c.Trace = trace
				return c
			}
			banner := fmt.Sprintf("%s v%s by %s\n\n", defs.Farm.Title, defs.Farm.Version, defs.Farm.Author)

			// Script mode: read commands from a file, force plain, echo commands.
			if scriptFile != "" {
				f, err := os.Open(scriptFile)
				if err != nil {
					return fmt.Errorf("opening script: %w", err)
				}
				defer f.Close()
				fmt.Fprint(cmd.OutOrStdout(), banner)
				c := newCLI()
				c.In = f
				c.EchoInput = true
				c.Run()
				return nil
			}

			if plain || a.cfg.UI.Plain || !isTerminal() {
				fmt.Fprint(cmd.OutOrStdout(), banner)
				c := newCLI()
				c.In = cmd.InOrStdin()
				c.Run()
				return nil
			}

			return tui.Run(eng, defs, tui.Options{
				SaveDir:     a.cfg.Save.Dir,
				Compress:    a.cfg.Save.Compress,
				HistorySize: a.cfg.UI.HistorySize,
				Trace:       trace,
				Logger:      a.logger,
			})
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Use the line-oriented inspector instead of the TUI")
	cmd.Flags().BoolVar(&trace, "trace", false, "Show registry lookups after each command")
	cmd.Flags().StringVar(&scriptFile, "script", "", "Run inspector commands from a file")
	return cmd
}

// buildWorld loads the scenario at path, or returns an empty world.
func buildWorld(a *app, defs *state.Defs, path string) (*state.World, error) {
	if path == "" {
		return state.NewWorldFromDefs(defs), nil
	}
	s, err := scenario.LoadFile(path)
	if err != nil {
		return nil, err
	}
	w, err := s.Build(defs, a.logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

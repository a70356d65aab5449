package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/biorome/engine/rules"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [content-dir]",
		Short: "Load and validate content, then print a summary",
		Long: `Load and validate content, then print a summary. Validation errors fail
the command; warnings are logged at warn level.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.Content.Dir = args[0]
			}
			defs, err := a.loadContent()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			f := defs.Farm
			fmt.Fprintf(out, "%s %s by %s\n", f.Title, f.Version, f.Author)
			rows, cols := defs.GridSize()
			fmt.Fprintf(out, "  grid          %dx%d\n", rows, cols)
			fmt.Fprintf(out, "  modules       %d (%d types)\n", defs.Catalog.Len(), len(defs.Catalog.Types()))
			fmt.Fprintf(out, "  premades      %d\n", len(defs.Catalog.Premade()))
			fmt.Fprintf(out, "  requirements  %d\n", defs.Requirements.Len())
			fmt.Fprintf(out, "  plants        %d\n", len(defs.Plants))
			fmt.Fprintf(out, "  animals       %d\n", len(defs.Animals))
			fmt.Fprintf(out, "  products      %d\n", len(defs.Products))

			// Which premades can do the fixed animal and sowing jobs.
			c := rules.NewChecker(defs.Requirements)
			for _, p := range defs.Catalog.Premade() {
				asm, _, _ := defs.Catalog.FromPremade(p.Usage, "check")
				var roles []string
				if c.CanSowPlant(asm, rules.Seed) {
					roles = append(roles, "seeds")
				}
				if c.CanSowPlant(asm, rules.Seedling) {
					roles = append(roles, "seedlings")
				}
				if c.CanMoveAnimal(asm) {
					roles = append(roles, "mover")
				}
				if c.IsCollarAssembly(asm) {
					roles = append(roles, "collar")
				}
				if len(roles) > 0 {
					fmt.Fprintf(out, "  %-28s %v\n", p.Usage, roles)
				}
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"archive-mapper/internal/mapping"
)

func newLookupCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <symbol>...",
		Short: "Translate class, field or method symbols",
		Long: `Translate symbols from the --from namespace into the --to namespace.
Symbols are written as a/b/C, a/b/C.field or a/b/C.method(I)V; source form
owners such as a.b.C#field are accepted too. Unmapped parts are kept.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load(cmd)
			if err != nil {
				return err
			}

			if err := requireMapping(cfg); err != nil {
				return err
			}

			m, _, err := mapping.Load(cfg.Mapping)
			if err != nil {
				return err
			}

			dir, err := m.Direction(cfg.From, cfg.To)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, arg := range args {
				ref, err := mapping.ParseSymbol(arg)
				if err != nil {
					return fmt.Errorf("symbol %q: %w", arg, err)
				}

				got, ok, err := m.Lookup(ref, dir)
				if err != nil {
					return fmt.Errorf("symbol %q: %w", arg, err)
				}

				if ok {
					fmt.Fprintf(out, "%s -> %s\n", ref, got)
				} else {
					fmt.Fprintf(out, "%s -> %s (%s not mapped)\n", ref, got, ref.Kind())
				}
			}

			return nil
		},
	}
}

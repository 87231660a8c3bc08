package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"archive-mapper/internal/archive"
	"archive-mapper/internal/mapping"
)

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [archive]",
		Short: "Validate a mapping file",
		Long: `Validate the mapping file: duplicate names, malformed descriptors and
conflicting members are reported. When an archive is given, mapped classes
missing from it on the --from side are reported with suggestions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := g.load(cmd)
			if err != nil {
				return err
			}

			if err := requireMapping(cfg); err != nil {
				return err
			}

			m, diags, err := mapping.Load(cfg.Mapping)
			printDiagnostics(cmd.ErrOrStderr(), diags)

			if err != nil {
				return err
			}

			warnings := len(diags.Warnings)

			if len(args) == 1 {
				dir, err := m.Direction(cfg.From, cfg.To)
				if err != nil {
					return err
				}

				arc, _, err := openArchive(args[0])
				if err != nil {
					return err
				}

				names := archive.ClassNames(arc)
				logger.Info("checking coverage", "archive", args[0], "classes", len(names))

				coverage := mapping.ValidateCoverage(m, dir.Source(), names)
				printDiagnostics(cmd.ErrOrStderr(), coverage)

				warnings += len(coverage.Warnings)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d classes, %d warnings\n",
				cfg.Mapping, m.Classes().Len(), warnings)

			return nil
		},
	}
}

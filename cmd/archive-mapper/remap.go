package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"archive-mapper/internal/archive"
	"archive-mapper/internal/config"
	"archive-mapper/internal/diagnostic"
	"archive-mapper/internal/mapping"
	"archive-mapper/internal/transform"
)

func newRemapCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remap <archive>",
		Short: "Translate every class of a jar or class directory",
		Long: `Translate every class of a jar or exploded class directory from one namespace
of the mapping file into another. Classes are renamed and moved, every member
and reference is rewritten and stack map frames are recomputed.

The result is written next to the input unless --output is given; a jar is
written as a jar, a directory as a directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemap(cmd, g, args[0])
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "", "Output jar or directory (default: <archive>-<to>)")
	f.StringSlice("deps", nil, "Dependency jars or directories, already in the target namespace")
	f.Int("workers", 0, "Classes transformed concurrently (default: GOMAXPROCS)")
	f.Bool("compute-frames", true, "Recompute stack map frames instead of rewriting the decoded ones")
	f.Int("cache-size", config.DefaultCacheSize, "Dependency classes kept resolved")

	return cmd
}

func runRemap(cmd *cobra.Command, g *globalFlags, input string) error {
	cfg, logger, err := g.load(cmd)
	if err != nil {
		return err
	}

	if err := requireMapping(cfg); err != nil {
		return err
	}

	m, diags, err := mapping.Load(cfg.Mapping)
	if err != nil {
		printDiagnostics(cmd.ErrOrStderr(), diags)
		return err
	}

	for _, w := range diags.Warnings {
		logger.Warn("mapping", "diagnostic", w.String())
	}

	arc, isDir, err := openArchive(input)
	if err != nil {
		return err
	}

	deps := make([]archive.Reader, 0, len(cfg.Deps))

	for _, path := range cfg.Deps {
		dep, _, err := openArchive(path)
		if err != nil {
			return fmt.Errorf("dependency: %w", err)
		}

		deps = append(deps, dep)
	}

	report, err := transform.TransformArchive(cmd.Context(), arc, deps, m, cfg.From, cfg.To,
		transform.WithWorkers(cfg.Workers),
		transform.WithLogger(logger),
		transform.WithComputeFrames(cfg.ComputeFrames),
		transform.WithCacheSize(cfg.CacheSize),
	)
	if err != nil {
		return err
	}

	output := cfg.Output
	if output == "" {
		output = defaultOutput(input, cfg.To, isDir)
	}

	if isDir {
		err = arc.WriteDir(output)
	} else {
		err = arc.WriteZipFile(output)
	}

	if err != nil {
		return err
	}

	printDiagnostics(cmd.ErrOrStderr(), &report.Diagnostics)

	fmt.Fprintf(cmd.OutOrStdout(), "remapped %d classes from %s to %s (%d renamed) in %s\n",
		report.Classes, report.From, report.To, len(report.Renamed), report.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)

	return nil
}

// openArchive reads a jar or an exploded class directory.
func openArchive(path string) (*archive.Memory, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, fmt.Errorf("open archive: %w", err)
	}

	if info.IsDir() {
		m, err := archive.OpenDir(path)
		return m, true, err
	}

	m, err := archive.OpenZip(path)

	return m, false, err
}

// defaultOutput places the result next to the input: lib/game.jar becomes
// lib/game-named.jar and classes/ becomes classes-named/.
func defaultOutput(input, to string, isDir bool) string {
	clean := filepath.Clean(input)
	if isDir {
		return clean + "-" + to
	}

	ext := filepath.Ext(clean)

	return strings.TrimSuffix(clean, ext) + "-" + to + ext
}

func printDiagnostics(w io.Writer, d *diagnostic.Diagnostics) {
	if d == nil {
		return
	}

	for _, e := range d.Errors {
		fmt.Fprintf(w, "error: %s\n", e)
	}

	for _, wn := range d.Warnings {
		fmt.Fprintf(w, "warning: %s\n", wn)
	}
}

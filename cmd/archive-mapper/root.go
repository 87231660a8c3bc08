package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"archive-mapper/internal/config"
	"archive-mapper/internal/slogutil"
)

// globalFlags holds the persistent flag values shared by every command.
type globalFlags struct {
	configPath string
	envFile    string
	verbosity  int
	quiet      bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "archive-mapper",
		Short: "Remap the symbols of compiled JVM archives",
		Long: `archive-mapper translates the class, field and method names of a jar or class
directory between two namespaces of a mapping file, rewriting descriptors,
signatures, bytecode references and stack map frames along the way.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (default: ./"+config.FileName+".{yaml,toml,json})")
	pf.StringVar(&g.envFile, "env-file", "", "Dotenv file read before the environment (default: .env)")
	pf.CountVarP(&g.verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	pf.BoolVarP(&g.quiet, "quiet", "q", false, "Silence all logging")
	pf.String("log-level", "", "Log level: debug, info, warn or error (overrides -v)")
	pf.String("log-format", "", "Log format: text or json")
	pf.StringP("mapping", "m", "", "Mapping file (YAML or TOML)")
	pf.String("from", "", "Namespace the input is written in (default: obf)")
	pf.String("to", "", "Namespace to translate into (default: named)")

	root.AddCommand(
		newRemapCmd(g),
		newCheckCmd(g),
		newLookupCmd(g),
	)

	return root
}

// load resolves the configuration of a command invocation and the logger it
// describes.
func (g *globalFlags) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	if err := config.LoadDotEnv(g.envFile); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(g.configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := slogutil.LevelFromVerbosity(g.verbosity, g.quiet)
	if cfg.Log.Level != "" && !g.quiet {
		level = slogutil.LevelFromString(cfg.Log.Level)
	}

	logger := slogutil.NewLogger(cmd.ErrOrStderr(), level, slogutil.Format(cfg.Log.Format))

	return cfg, logger, nil
}

// requireMapping fails when no mapping file was configured.
func requireMapping(cfg *config.Config) error {
	if cfg.Mapping == "" {
		return errors.New("no mapping file: pass --mapping or set mapping in the config")
	}

	return nil
}

// Package config loads the archive-mapper CLI configuration.
//
// Values are layered, lowest first: built-in defaults, the config file,
// ARCHIVE_MAPPER_* environment variables (a .env file is read into the
// environment first), and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable read.
	EnvPrefix = "ARCHIVE_MAPPER"
	// FileName is the config file searched for when none is given.
	FileName = "archive-mapper"
	// DefaultCacheSize is the default dependency class cache size.
	DefaultCacheSize = 4096
)

// Config is the effective CLI configuration.
type Config struct {
	// Mapping is the path of the mapping file.
	Mapping string `mapstructure:"mapping"`
	// From and To are the namespace labels to translate between.
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
	// Output is the path the remapped archive is written to.
	Output string `mapstructure:"output"`
	// Deps lists the dependency archives used for frame computation.
	Deps          []string `mapstructure:"deps"`
	Workers       int      `mapstructure:"workers"`
	ComputeFrames bool     `mapstructure:"compute-frames"`
	CacheSize     int      `mapstructure:"cache-size"`
	Log           Log      `mapstructure:"log"`
}

// Log configures logging.
type Log struct {
	// Level is debug, info, warn or error; empty means the verbosity flags decide.
	Level string `mapstructure:"level"`
	// Format is text or json.
	Format string `mapstructure:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		From:          "obf",
		To:            "named",
		ComputeFrames: true,
		CacheSize:     DefaultCacheSize,
		Log:           Log{Format: "text"},
	}
}

// flagKeys maps config keys to the flags that may override them.
var flagKeys = map[string]string{
	"mapping":        "mapping",
	"from":           "from",
	"to":             "to",
	"output":         "output",
	"deps":           "deps",
	"workers":        "workers",
	"compute-frames": "compute-frames",
	"cache-size":     "cache-size",
	"log.level":      "log-level",
	"log.format":     "log-format",
}

// Load builds the configuration. path names the config file; when empty,
// FileName.{yaml,toml,json} is searched in the working directory and may be
// absent. flags may be nil; only flags the user set override other layers.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("mapping", def.Mapping)
	v.SetDefault("from", def.From)
	v.SetDefault("to", def.To)
	v.SetDefault("output", def.Output)
	v.SetDefault("deps", def.Deps)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("compute-frames", def.ComputeFrames)
	v.SetDefault("cache-size", def.CacheSize)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}

			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv reads a .env file into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

// Validate checks the configuration for a remap run.
func (c *Config) Validate() error {
	var errs []error

	if c.From == "" || c.To == "" {
		errs = append(errs, errors.New("from and to namespaces are required"))
	} else if c.From == c.To {
		errs = append(errs, fmt.Errorf("from and to are both %q", c.From))
	}

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

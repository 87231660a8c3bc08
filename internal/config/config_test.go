package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("mapping", "", "")
	fs.String("from", "obf", "")
	fs.Int("workers", 0, "")
	fs.Bool("compute-frames", true, "")
	fs.StringSlice("deps", nil, "")
	fs.String("log-level", "", "")

	return fs
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	def := Default()
	assert.Empty(t, cfg.Deps)
	cfg.Deps = def.Deps
	assert.Equal(t, def, cfg)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", `
mapping: maps/game.yaml
from: named
to: obf
workers: 3
compute-frames: false
deps:
  - lib/a.jar
  - lib/b.jar
log:
  level: debug
  format: json
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Mapping:       "maps/game.yaml",
		From:          "named",
		To:            "obf",
		Deps:          []string{"lib/a.jar", "lib/b.jar"},
		Workers:       3,
		ComputeFrames: false,
		CacheSize:     DefaultCacheSize,
		Log:           Log{Level: "debug", Format: "json"},
	}, cfg)
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FileName+".toml", "mapping = \"m.toml\"\ncache-size = 16\n")
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "m.toml", cfg.Mapping)
	assert.Equal(t, 16, cfg.CacheSize)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.yaml", "mapping: file.yaml\nworkers: 2\nfrom: file\n")

	t.Setenv("ARCHIVE_MAPPER_WORKERS", "5")
	t.Setenv("ARCHIVE_MAPPER_LOG_LEVEL", "warn")
	t.Setenv("ARCHIVE_MAPPER_COMPUTE_FRAMES", "false")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--mapping", "flag.yaml", "--deps", "x.jar,y.jar"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "flag.yaml", cfg.Mapping, "flag over file")
	assert.Equal(t, 5, cfg.Workers, "env over file")
	assert.Equal(t, "file", cfg.From, "unset flag keeps file value")
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.ComputeFrames)
	assert.Equal(t, []string{"x.jar", "y.jar"}, cfg.Deps)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "ARCHIVE_MAPPER_TEST_DOTENV=from-file\n")

	t.Cleanup(func() { os.Unsetenv("ARCHIVE_MAPPER_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("ARCHIVE_MAPPER_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "same namespace", mutate: func(c *Config) { c.To = c.From }, wantErr: "both"},
		{name: "missing namespace", mutate: func(c *Config) { c.From = "" }, wantErr: "required"},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -1 }, wantErr: "workers"},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

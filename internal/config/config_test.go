package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/treewalk/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "read", cfg.Action)
	assert.Equal(t, runtime.NumCPU(), cfg.Threshold)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, config.DefaultExcludes, cfg.Excludes)
	assert.Empty(t, cfg.Extensions)
	assert.Equal(t, "table", cfg.Output)
	assert.False(t, cfg.Follow)
	assert.False(t, cfg.Verify)

	opt := cfg.Options()
	assert.Equal(t, cfg.Threshold, opt.Threshold)
	assert.Equal(t, cfg.Workers, opt.Workers)
}

func TestLoad_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("TREEWALK_THRESHOLD", "3")
	t.Setenv("TREEWALK_ACTION", "stat")
	t.Setenv("TREEWALK_EXTENSIONS", ".go,.md")
	t.Setenv("TREEWALK_OUTPUT", "JSON")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Threshold)
	assert.Equal(t, "stat", cfg.Action)
	assert.Equal(t, []string{".go", ".md"}, cfg.Extensions)
	assert.Equal(t, "json", cfg.Output)
}

func TestLoad_EnvironmentAcceptsFlagNames(t *testing.T) {
	t.Setenv("TREEWALK_EXCLUDE", `vendor/.*`)
	t.Setenv("TREEWALK_EXT", "!.log")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"vendor/.*"}, cfg.Excludes)
	assert.Equal(t, []string{"!.log"}, cfg.Extensions)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "treewalk.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"action: print\nthreshold: 12\nworkers: 2\ndepth: 4\nexcludes: []\nfollow: true\n",
	), 0o600))

	cfg, err := config.Load(config.New(), file)
	require.NoError(t, err)

	assert.Equal(t, "print", cfg.Action)
	assert.Equal(t, 12, cfg.Threshold)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 4, cfg.Depth)
	assert.Empty(t, cfg.Excludes)
	assert.True(t, cfg.Follow)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate(t *testing.T) {
	valid := config.Config{Action: "noop", Output: "yaml", Threshold: 1, Workers: 1}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{name: "action", mutate: func(c *config.Config) { c.Action = "rm" }, want: "invalid action"},
		{name: "output", mutate: func(c *config.Config) { c.Output = "xml" }, want: "invalid output format"},
		{name: "threshold", mutate: func(c *config.Config) { c.Threshold = 0 }, want: "threshold"},
		{name: "workers", mutate: func(c *config.Config) { c.Workers = -1 }, want: "workers"},
		{name: "depth", mutate: func(c *config.Config) { c.Depth = -1 }, want: "depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

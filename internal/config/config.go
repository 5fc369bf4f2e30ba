// Package config loads treewalk settings from defaults, an optional YAML
// file, TREEWALK_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/idelchi/treewalk/internal/action"
	"github.com/idelchi/treewalk/internal/treewalk"
)

// EnvPrefix prefixes every environment variable, e.g. TREEWALK_THRESHOLD.
const EnvPrefix = "TREEWALK"

// Keys of the settings.
const (
	KeyAction     = "action"
	KeyThreshold  = "threshold"
	KeyWorkers    = "workers"
	KeyExcludes   = "excludes"
	KeyExtensions = "extensions"
	KeyDepth      = "depth"
	KeyFollow     = "follow"
	KeyOutput     = "output"
	KeyVerify     = "verify"
	KeyDebug      = "debug"
)

// DefaultExcludes contains the default exclusion patterns.
//
//nolint:gochecknoglobals // Config constant
var DefaultExcludes = []string{`.*\.git/.*`, `.*node_modules/.*`}

// Outputs lists the supported report formats. "none" prints no report.
//
//nolint:gochecknoglobals // Config constant
var Outputs = []string{"table", "json", "yaml", "none"}

// Config holds the resolved settings of one run.
type Config struct {
	// Action is the name of the per-file action.
	Action string `mapstructure:"action" yaml:"action"`
	// Threshold is the batch size that switches a directory to parallel processing.
	Threshold int `mapstructure:"threshold" yaml:"threshold"`
	// Workers bounds concurrent action calls.
	Workers int `mapstructure:"workers" yaml:"workers"`
	// Excludes contains regex patterns to exclude.
	Excludes []string `mapstructure:"excludes" yaml:"excludes"`
	// Extensions to include (empty = all).
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	// Depth is the maximum traversal depth (0=unlimited).
	Depth int `mapstructure:"depth" yaml:"depth"`
	// Follow resolves symlinks.
	Follow bool `mapstructure:"follow" yaml:"follow"`
	// Output is the report format.
	Output string `mapstructure:"output" yaml:"output"`
	// Verify compares the walk against a census.
	Verify bool `mapstructure:"verify" yaml:"verify"`
	// Debug enables debug logging.
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// The flags are --exclude and --ext; accept their names as well.
	_ = v.BindEnv(KeyExcludes, EnvPrefix+"_EXCLUDES", EnvPrefix+"_EXCLUDE")
	_ = v.BindEnv(KeyExtensions, EnvPrefix+"_EXTENSIONS", EnvPrefix+"_EXT")

	SetDefaults(v)

	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAction, "read")
	v.SetDefault(KeyThreshold, runtime.NumCPU())
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyExcludes, DefaultExcludes)
	v.SetDefault(KeyExtensions, []string{})
	v.SetDefault(KeyDepth, 0)
	v.SetDefault(KeyFollow, false)
	v.SetDefault(KeyOutput, "table")
	v.SetDefault(KeyVerify, false)
	v.SetDefault(KeyDebug, false)
}

// Load reads file (if not empty) into v and returns the validated settings.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)

		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Output = strings.ToLower(cfg.Output)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the settings for values the walker cannot use.
func (c Config) Validate() error {
	if !action.Valid(c.Action) {
		return fmt.Errorf("invalid action %q: must be one of %v", c.Action, action.Names)
	}

	if !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", c.Output, Outputs)
	}

	if c.Threshold < 1 {
		return errors.New("threshold must be at least 1")
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if c.Depth < 0 {
		return errors.New("depth cannot be negative")
	}

	return nil
}

// Options maps the settings onto walk options.
func (c Config) Options() treewalk.Options {
	return treewalk.Options{
		Threshold:      c.Threshold,
		Workers:        c.Workers,
		Excludes:       c.Excludes,
		Extensions:     c.Extensions,
		Depth:          c.Depth,
		FollowSymlinks: c.Follow,
	}
}

// Package config loads hexvar settings from a YAML file, a .env file, HEXVAR_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/hexvar/internal/colour"
	"github.com/jmylchreest/hexvar/internal/scan"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = ".hexvar.yaml"

// Environment variables read by ApplyEnv.
const (
	EnvThreshold  = "HEXVAR_THRESHOLD"
	EnvMetric     = "HEXVAR_METRIC"
	EnvStrategy   = "HEXVAR_STRATEGY"
	EnvWorkers    = "HEXVAR_WORKERS"
	EnvExtensions = "HEXVAR_EXTENSIONS"
)

// Config holds the tunable settings of a run.
type Config struct {
	Threshold  float64  `yaml:"threshold"`
	Metric     string   `yaml:"metric"`
	Strategy   string   `yaml:"strategy"`
	Workers    int      `yaml:"workers"`
	Extensions []string `yaml:"extensions"`

	// IgnoreDirs replaces the default ignored directories when set.
	IgnoreDirs []string `yaml:"ignore_dirs"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Threshold:  colour.DefaultThreshold,
		Metric:     string(colour.MetricCIE76),
		Strategy:   string(colour.StrategyFirstFit),
		Extensions: slices.Clone(scan.DefaultExtensions),
	}
}

// Load builds a Config from defaults, the .env file next to configPath, the
// YAML file at configPath and the environment. A missing YAML file is only an
// error when required is set.
func Load(configPath string, required bool) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(configPath) // #nosec G304 - user-selected config file
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file %s: %w", configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from HEXVAR_* variables that are set and non-empty.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvThreshold, v, err)
		}
		c.Threshold = f
	}
	if v := os.Getenv(EnvMetric); v != "" {
		c.Metric = v
	}
	if v := os.Getenv(EnvStrategy); v != "" {
		c.Strategy = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvExtensions); v != "" {
		c.Extensions = parseList(v)
	}
	return nil
}

// ApplyFlags overrides settings from flags the user set explicitly.
// Flags missing from the set are ignored.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var err error
	if flags.Changed("threshold") {
		if c.Threshold, err = flags.GetFloat64("threshold"); err != nil {
			return err
		}
	}
	if flags.Changed("metric") {
		if c.Metric, err = flags.GetString("metric"); err != nil {
			return err
		}
	}
	if flags.Changed("strategy") {
		if c.Strategy, err = flags.GetString("strategy"); err != nil {
			return err
		}
	}
	if flags.Changed("workers") {
		if c.Workers, err = flags.GetInt("workers"); err != nil {
			return err
		}
	}
	if flags.Changed("ext") {
		if c.Extensions, err = flags.GetStringSlice("ext"); err != nil {
			return err
		}
	}
	return c.Validate()
}

// Validate checks the settings and normalises extensions.
func (c *Config) Validate() error {
	if math.IsNaN(c.Threshold) || c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %v", c.Threshold)
	}
	if _, err := colour.ParseMetric(c.Metric); err != nil {
		return err
	}
	if _, err := colour.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	exts := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" && !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	if len(exts) == 0 {
		return errors.New("at least one file extension is required")
	}
	c.Extensions = exts

	return nil
}

// Clusterer returns a colour.Clusterer for the settings. Validate must have
// succeeded first.
func (c *Config) Clusterer() *colour.Clusterer {
	metric, _ := colour.ParseMetric(c.Metric)
	strategy, _ := colour.ParseStrategy(c.Strategy)
	return &colour.Clusterer{
		Threshold: c.Threshold,
		Metric:    metric,
		Strategy:  strategy,
	}
}

// DiscoverOptions returns file discovery options with the given ignore substrings.
func (c *Config) DiscoverOptions(ignore []string) scan.DiscoverOptions {
	return scan.DiscoverOptions{
		Ignore:     ignore,
		Extensions: c.Extensions,
		IgnoreDirs: c.IgnoreDirs,
	}
}

func parseList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

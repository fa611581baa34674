// Package config loads generation settings from .forge.yaml,
// layered under FORGE_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// File is the default config filename looked up in the working
// directory when no explicit path is given.
const File = ".forge.yaml"

// Config holds all generation settings.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Output     OutputConfig     `yaml:"output"`
}

// GenerationConfig controls the synthesis engine.
type GenerationConfig struct {
	// RandomCases is the random-sampling count per callable,
	// valid range 1 to 10.
	RandomCases int `yaml:"random_cases"`

	// Seed drives the random source. Zero means derive from the
	// clock at startup.
	Seed int64 `yaml:"seed"`

	// TimeoutSeconds is the per-call wall-clock budget.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{
			RandomCases:    5,
			TimeoutSeconds: 3,
		},
		Output: OutputConfig{Format: "text"},
	}
}

// Load reads configuration in layers: defaults, then the YAML file
// (the given path, or .forge.yaml in the working directory if it
// exists), then a .env file if present, then FORGE_* environment
// variables. The merged result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = File
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults apply.
	default:
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	// .env may be absent; environment variables still apply.
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("FORGE_RANDOM_CASES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FORGE_RANDOM_CASES %q: %w", v, err)
		}
		c.Generation.RandomCases = n
	}
	if v := os.Getenv("FORGE_SEED"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("FORGE_SEED %q: %w", v, err)
		}
		c.Generation.Seed = n
	}
	if v := os.Getenv("FORGE_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FORGE_TIMEOUT_SECONDS %q: %w", v, err)
		}
		c.Generation.TimeoutSeconds = n
	}
	if v := os.Getenv("FORGE_FORMAT"); v != "" {
		c.Output.Format = v
	}
	return nil
}

func (c *Config) validate() error {
	if n := c.Generation.RandomCases; n < 1 || n > 10 {
		return fmt.Errorf("invalid random_cases %d: must be in [1, 10]", n)
	}
	if n := c.Generation.TimeoutSeconds; n < 1 || n > 300 {
		return fmt.Errorf("invalid timeout_seconds %d: must be in [1, 300]", n)
	}
	if f := c.Output.Format; f != "text" && f != "json" {
		return fmt.Errorf("invalid format %q: must be 'text' or 'json'", f)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".forge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5, cfg.Generation.RandomCases)
	assert.Equal(t, int64(0), cfg.Generation.Seed)
	assert.Equal(t, 3, cfg.Generation.TimeoutSeconds)
	assert.Equal(t, "text", cfg.Output.Format)
	require.NoError(t, cfg.validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
generation:
  random_cases: 8
  seed: 1234
  timeout_seconds: 10
output:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Generation.RandomCases)
	assert.Equal(t, int64(1234), cfg.Generation.Seed)
	assert.Equal(t, 10, cfg.Generation.TimeoutSeconds)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "generation:\n  random_cases: 2\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Generation.RandomCases)
	assert.Equal(t, 3, cfg.Generation.TimeoutSeconds)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "generation: [not a mapping\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "generation:\n  random_cases: 2\n")
	t.Chdir(t.TempDir())
	t.Setenv("FORGE_RANDOM_CASES", "9")
	t.Setenv("FORGE_SEED", "77")
	t.Setenv("FORGE_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Generation.RandomCases)
	assert.Equal(t, int64(77), cfg.Generation.Seed)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FORGE_RANDOM_CASES", "lots")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORGE_RANDOM_CASES")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"random_cases too low", func(c *Config) { c.Generation.RandomCases = 0 }, "must be in [1, 10]"},
		{"random_cases too high", func(c *Config) { c.Generation.RandomCases = 11 }, "must be in [1, 10]"},
		{"timeout too low", func(c *Config) { c.Generation.TimeoutSeconds = 0 }, "must be in [1, 300]"},
		{"timeout too high", func(c *Config) { c.Generation.TimeoutSeconds = 301 }, "must be in [1, 300]"},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "invalid format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

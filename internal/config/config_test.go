package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "bridge.hcl", `
agent {
  address = "ws://127.0.0.1:9000/agent"
  timeout = 5
}

translator {
  preserve_raise_marker = true
}

journal {
  path = "/tmp/journal.toml"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:9000/agent", cfg.Agent.Address)
	assert.Equal(t, 5, cfg.Agent.Timeout)
	assert.True(t, cfg.Translator.PreserveRaiseMarker)
	assert.Equal(t, 100, cfg.Translator.BetFloor)
	assert.Equal(t, "20000", cfg.Advice.ShoveToken)
	assert.Equal(t, 3, cfg.Advice.PotMultiplier)
	assert.Equal(t, "/tmp/journal.toml", cfg.Journal.Path)
	assert.Equal(t, 10, cfg.Journal.FlushEvery)
	assert.Equal(t, "info", cfg.Log.Level)

	tr := cfg.ActionTranslator()
	assert.Equal(t, 100, tr.BetFloor)
	assert.True(t, tr.PreserveRaiseMarker)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load(writeFile(t, "broken.hcl", `agent {`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "unknown.hcl", `agent { port = 1 }`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "level.hcl", `log { level = "loud" }`))
	assert.EqualError(t, err, "invalid log level: loud")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvAgent, "10.0.0.2:7000")
	t.Setenv(EnvAgentTimeout, "12")
	t.Setenv(EnvBetFloor, "50")
	t.Setenv(EnvPreserveRaiseMarker, "true")
	t.Setenv(EnvObservations, "obs.jsonl")
	t.Setenv(EnvJournal, "journal.toml")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:7000", cfg.Agent.Address)
	assert.Equal(t, 12, cfg.Agent.Timeout)
	assert.Equal(t, 50, cfg.Translator.BetFloor)
	assert.True(t, cfg.Translator.PreserveRaiseMarker)
	assert.Equal(t, "obs.jsonl", cfg.Observations.File)
	assert.Equal(t, "journal.toml", cfg.Journal.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv(EnvBetFloor, "lots")
	_, err := Load("")
	assert.ErrorContains(t, err, EnvBetFloor)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no address", func(c *Config) { c.Agent.Address = "" }},
		{"zero timeout", func(c *Config) { c.Agent.Timeout = 0 }},
		{"negative floor", func(c *Config) { c.Translator.BetFloor = -1 }},
		{"zero multiplier", func(c *Config) { c.Advice.PotMultiplier = 0 }},
		{"zero flush", func(c *Config) { c.Journal.FlushEvery = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", EnvAgent+"=192.168.1.5:18791\n")
	t.Setenv(EnvAgent, "")
	os.Unsetenv(EnvAgent)

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "192.168.1.5:18791", os.Getenv(EnvAgent))
}

// Package config loads bridge settings from an HCL file, a .env file and
// ACPCBRIDGE_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"

	"github.com/lox/acpcbridge/internal/acpc"
)

// Environment variables that override file settings.
const (
	EnvAgent               = "ACPCBRIDGE_AGENT"
	EnvAgentTimeout        = "ACPCBRIDGE_AGENT_TIMEOUT"
	EnvBetFloor            = "ACPCBRIDGE_BET_FLOOR"
	EnvPreserveRaiseMarker = "ACPCBRIDGE_PRESERVE_RAISE_MARKER"
	EnvObservations        = "ACPCBRIDGE_OBSERVATIONS"
	EnvJournal             = "ACPCBRIDGE_JOURNAL"
	EnvLogLevel            = "ACPCBRIDGE_LOG_LEVEL"
)

// Config is the complete bridge configuration.
type Config struct {
	Agent        *AgentSettings       `hcl:"agent,block"`
	Translator   *TranslatorSettings  `hcl:"translator,block"`
	Advice       *AdviceSettings      `hcl:"advice,block"`
	Observations *ObservationSettings `hcl:"observations,block"`
	Journal      *JournalSettings     `hcl:"journal,block"`
	Log          *LogSettings         `hcl:"log,block"`
}

// AgentSettings locates the decision agent.
type AgentSettings struct {
	Address string `hcl:"address,optional"`

	// Timeout in seconds for one exchange.
	Timeout int `hcl:"timeout,optional"`
}

// TranslatorSettings tunes the action translator.
type TranslatorSettings struct {
	BetFloor            int  `hcl:"bet_floor,optional"`
	PreserveRaiseMarker bool `hcl:"preserve_raise_marker,optional"`
}

// AdviceSettings maps agent replies onto table buttons.
type AdviceSettings struct {
	ShoveToken    string `hcl:"shove_token,optional"`
	PotMultiplier int    `hcl:"pot_multiplier,optional"`
}

// ObservationSettings selects where scraped states come from. An empty
// File means standard input.
type ObservationSettings struct {
	File    string `hcl:"file,optional"`
	FromEnd bool   `hcl:"from_end,optional"`
}

// JournalSettings controls the session journal. An empty Path disables it.
type JournalSettings struct {
	Path       string `hcl:"path,optional"`
	FlushEvery int    `hcl:"flush_every,optional"`
}

type LogSettings struct {
	Level string `hcl:"level,optional"`
	JSON  bool   `hcl:"json,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Agent: &AgentSettings{
			Address: "127.0.0.1:18791",
			Timeout: 30,
		},
		Translator: &TranslatorSettings{
			BetFloor: acpc.DefaultBetFloor,
		},
		Advice: &AdviceSettings{
			ShoveToken:    acpc.DefaultShoveToken,
			PotMultiplier: acpc.DefaultPotMultiplier,
		},
		Observations: &ObservationSettings{},
		Journal: &JournalSettings{
			FlushEvery: 10,
		},
		Log: &LogSettings{
			Level: "info",
		},
	}
}

// Load reads filename, falling back to defaults when it does not exist, then
// applies environment overrides and validates the result.
func Load(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if filename != "" {
		if _, err := os.Stat(filename); err == nil {
			cfg, err = LoadFile(filename)
			if err != nil {
				return nil, err
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", filename, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parses an HCL file and fills unset values from DefaultConfig.
func LoadFile(filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg.applyDefaults(DefaultConfig())
	return &cfg, nil
}

func (c *Config) applyDefaults(defaults *Config) {
	if c.Agent == nil {
		c.Agent = defaults.Agent
	}
	if c.Agent.Address == "" {
		c.Agent.Address = defaults.Agent.Address
	}
	if c.Agent.Timeout == 0 {
		c.Agent.Timeout = defaults.Agent.Timeout
	}

	if c.Translator == nil {
		c.Translator = defaults.Translator
	}
	if c.Translator.BetFloor == 0 {
		c.Translator.BetFloor = defaults.Translator.BetFloor
	}

	if c.Advice == nil {
		c.Advice = defaults.Advice
	}
	if c.Advice.ShoveToken == "" {
		c.Advice.ShoveToken = defaults.Advice.ShoveToken
	}
	if c.Advice.PotMultiplier == 0 {
		c.Advice.PotMultiplier = defaults.Advice.PotMultiplier
	}

	if c.Observations == nil {
		c.Observations = defaults.Observations
	}

	if c.Journal == nil {
		c.Journal = defaults.Journal
	}
	if c.Journal.FlushEvery == 0 {
		c.Journal.FlushEvery = defaults.Journal.FlushEvery
	}

	if c.Log == nil {
		c.Log = defaults.Log
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

// LoadDotEnv loads .env style files into the environment. Missing files are
// ignored and variables already set are left alone.
func LoadDotEnv(filenames ...string) error {
	for _, name := range filenames {
		if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from ACPCBRIDGE_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAgent); v != "" {
		c.Agent.Address = v
	}
	if v := os.Getenv(EnvAgentTimeout); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvAgentTimeout, err)
		}
		c.Agent.Timeout = n
	}
	if v := os.Getenv(EnvBetFloor); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvBetFloor, err)
		}
		c.Translator.BetFloor = n
	}
	if v := os.Getenv(EnvPreserveRaiseMarker); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", EnvPreserveRaiseMarker, err)
		}
		c.Translator.PreserveRaiseMarker = b
	}
	if v := os.Getenv(EnvObservations); v != "" {
		c.Observations.File = v
	}
	if v := os.Getenv(EnvJournal); v != "" {
		c.Journal.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Agent.Address == "" {
		return fmt.Errorf("agent address is required")
	}
	if c.Agent.Timeout <= 0 {
		return fmt.Errorf("agent timeout must be positive")
	}
	if c.Translator.BetFloor <= 0 {
		return fmt.Errorf("bet floor must be positive")
	}
	if c.Advice.PotMultiplier <= 0 {
		return fmt.Errorf("pot multiplier must be positive")
	}
	if c.Journal.FlushEvery <= 0 {
		return fmt.Errorf("journal flush_every must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	return nil
}

// AgentTimeout returns the agent timeout as a duration.
func (c *Config) AgentTimeout() time.Duration {
	return time.Duration(c.Agent.Timeout) * time.Second
}

// ActionTranslator builds the action translator described by the config.
func (c *Config) ActionTranslator() acpc.Translator {
	return acpc.Translator{
		BetFloor:            c.Translator.BetFloor,
		PreserveRaiseMarker: c.Translator.PreserveRaiseMarker,
	}
}

// AdviceRules builds the advice rules described by the config.
func (c *Config) AdviceRules() acpc.AdviceRules {
	return acpc.AdviceRules{
		ShoveToken:    c.Advice.ShoveToken,
		PotMultiplier: c.Advice.PotMultiplier,
	}
}

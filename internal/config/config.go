// Package config provides settings loading for polisim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nvandessel/polisim/internal/constants"
	"github.com/nvandessel/polisim/internal/majority"
	"gopkg.in/yaml.v3"
)

// Settings contains all polisim configuration settings.
type Settings struct {
	// Simulation holds defaults for runs started without explicit flags.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Logging contains settings for operational and round-trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig holds run defaults. CLI flags override every field.
type SimulationConfig struct {
	// Rounds is the number of influence rounds.
	Rounds int `json:"rounds" yaml:"rounds"`

	// Threshold is the abstention half-width. Must be non-negative.
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// Range bounds random proposal entries to [-Range, Range).
	Range float64 `json:"range" yaml:"range"`

	// Rule names the majority rule: simple, super, abs-simple, abs-super, unanimity.
	Rule string `json:"rule" yaml:"rule"`

	// Seed, when non-nil, makes runs reproducible.
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// LoggingConfig configures polisim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" and "trace" enable per-round score traces.
	Level string `json:"level" yaml:"level"`
}

// Default returns Settings with sensible defaults.
func Default() *Settings {
	return &Settings{
		Simulation: SimulationConfig{
			Rounds:    constants.DefaultRounds,
			Threshold: constants.DefaultThreshold,
			Range:     constants.DefaultProposalRange,
			Rule:      constants.DefaultRule,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.polisim/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, constants.SettingsDirName, constants.SettingsFileName), nil
}

// Load loads settings from the default location and environment variables.
// Order: defaults -> ~/.polisim/config.yaml -> environment variables
func Load() (*Settings, error) {
	path, err := DefaultPath()
	if err != nil {
		settings := Default()
		applyEnvOverrides(settings)
		return settings, nil
	}
	return LoadWithOverrides(path)
}

// LoadWithOverrides loads settings from path if it exists, then applies
// environment overrides. A missing file is not an error.
func LoadWithOverrides(path string) (*Settings, error) {
	settings := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		fileSettings, loadErr := LoadFromFile(path)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		settings = fileSettings
	}

	applyEnvOverrides(settings)

	return settings, nil
}

// LoadFromFile loads settings from a specific YAML file.
func LoadFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	settings := Default()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return settings, nil
}

// Validate checks that the settings are valid.
func (s *Settings) Validate() error {
	if s.Simulation.Rounds < 0 {
		return fmt.Errorf("rounds must be non-negative, got %d", s.Simulation.Rounds)
	}

	if s.Simulation.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %f", s.Simulation.Threshold)
	}

	if s.Simulation.Range <= 0 {
		return fmt.Errorf("range must be positive, got %f", s.Simulation.Range)
	}

	if _, err := majority.ParseRule(s.Simulation.Rule); err != nil {
		return err
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if s.Logging.Level != "" && !validLevels[s.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", s.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the settings.
func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("POLISIM_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.Simulation.Rounds = n
		}
	}

	if v := os.Getenv("POLISIM_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Simulation.Threshold = f
		}
	}

	if v := os.Getenv("POLISIM_RANGE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			s.Simulation.Range = f
		}
	}

	if v := os.Getenv("POLISIM_RULE"); v != "" {
		s.Simulation.Rule = v
	}

	if v := os.Getenv("POLISIM_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			s.Simulation.Seed = &n
		}
	}

	if v := os.Getenv("POLISIM_LOG_LEVEL"); v != "" {
		s.Logging.Level = v
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nvandessel/polisim/internal/config"
	"github.com/nvandessel/polisim/internal/majority"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage polisim settings",
		Long: `View and modify polisim settings.

Settings are stored in ~/.polisim/config.yaml unless --config-file is given.
Environment variables (POLISIM_ROUNDS, POLISIM_RULE, ...) override the file.

Examples:
  polisim config list
  polisim config get simulation.rule
  polisim config set simulation.rule super
  polisim config set simulation.seed 42`,
	}

	cmd.AddCommand(
		newConfigListCmd(),
		newConfigGetCmd(),
		newConfigSetCmd(),
	)

	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			settings, err := loadSettings(cmd)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), settings)
			}

			out := cmd.OutOrStdout()
			for _, key := range settingKeys {
				value, _ := getSettingValue(settings, key)
				fmt.Fprintf(out, "  %-22s %v\n", key+":", value)
			}
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key := args[0]

			settings, err := loadSettings(cmd)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}

			value, found := getSettingValue(settings, key)
			if !found {
				return fmt.Errorf("unknown setting: %s", key)
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"key":   key,
					"value": value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			key, value := args[0], args[1]

			path, err := settingsPath(cmd)
			if err != nil {
				return err
			}
			// Start from the file alone so environment overrides are not persisted.
			settings := config.Default()
			if _, statErr := os.Stat(path); statErr == nil {
				if settings, err = config.LoadFromFile(path); err != nil {
					return err
				}
			}

			if err := setSettingValue(settings, key, value); err != nil {
				return err
			}
			if err := settings.Validate(); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}
			if err := saveSettings(path, settings); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"status": "updated",
					"key":    key,
					"value":  value,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}

var settingKeys = []string{
	"simulation.rounds",
	"simulation.threshold",
	"simulation.range",
	"simulation.rule",
	"simulation.seed",
	"logging.level",
}

// getSettingValue retrieves a setting by dot-notation key.
func getSettingValue(s *config.Settings, key string) (interface{}, bool) {
	switch key {
	case "simulation.rounds":
		return s.Simulation.Rounds, true
	case "simulation.threshold":
		return s.Simulation.Threshold, true
	case "simulation.range":
		return s.Simulation.Range, true
	case "simulation.rule":
		return s.Simulation.Rule, true
	case "simulation.seed":
		if s.Simulation.Seed == nil {
			return "(random)", true
		}
		return *s.Simulation.Seed, true
	case "logging.level":
		if s.Logging.Level == "" {
			return "info", true
		}
		return s.Logging.Level, true
	default:
		return nil, false
	}
}

// setSettingValue sets a setting by dot-notation key.
func setSettingValue(s *config.Settings, key, value string) error {
	switch key {
	case "simulation.rounds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid rounds: %s", value)
		}
		s.Simulation.Rounds = n
	case "simulation.threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid threshold: %s", value)
		}
		s.Simulation.Threshold = f
	case "simulation.range":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid range: %s", value)
		}
		s.Simulation.Range = f
	case "simulation.rule":
		rule, err := majority.ParseRule(value)
		if err != nil {
			return err
		}
		s.Simulation.Rule = rule.String()
	case "simulation.seed":
		if value == "" || value == "random" {
			s.Simulation.Seed = nil
			return nil
		}
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed: %s (use a non-negative integer or \"random\")", value)
		}
		s.Simulation.Seed = &n
	case "logging.level":
		s.Logging.Level = value
	default:
		return fmt.Errorf("unknown setting: %s", key)
	}
	return nil
}

func settingsPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config-file"); path != "" {
		return path, nil
	}
	return config.DefaultPath()
}

// saveSettings writes settings as YAML to path.
func saveSettings(path string, s *config.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

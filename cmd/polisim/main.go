package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nvandessel/polisim/internal/config"
	"github.com/nvandessel/polisim/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "polisim",
		Short: "Congressional vote simulator",
		Long: `polisim simulates how a legislature votes on a proposal.

Members start from the alignment between their ideal policy position and
the proposal, then repeatedly adjust toward the pressure of the members who
influence them and of their party. Final scores become YES, NO or ABSTAIN
and a majority rule decides whether the proposal passes.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config-file", "", "Settings file (default ~/.polisim/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace (overrides settings)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSweepCmd(),
		newValidateCmd(),
		newGraphCmd(),
		newImportCmd(),
		newExportCmd(),
		newConfigCmd(),
		newMCPServerCmd(),
	)

	return rootCmd
}

// loadSettings resolves settings from the --config-file flag (or the
// default location), environment overrides and --log-level.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path, _ := cmd.Flags().GetString("config-file")

	var (
		settings *config.Settings
		err      error
	)
	if path != "" {
		settings, err = config.LoadWithOverrides(path)
	} else {
		settings, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		settings.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

// newLogger creates the operational logger on the command's stderr.
func newLogger(cmd *cobra.Command, settings *config.Settings) *slog.Logger {
	return logging.NewLogger(settings.Logging.Level, cmd.ErrOrStderr())
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

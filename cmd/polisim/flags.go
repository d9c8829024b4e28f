package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nvandessel/polisim/internal/config"
	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/constants"
	"github.com/nvandessel/polisim/internal/loader"
	"github.com/nvandessel/polisim/internal/models"
	"github.com/spf13/cobra"
)

// addRosterFlag registers the required --config roster flag.
func addRosterFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Roster file (.toml, .yaml, .json or .db)")
	_ = cmd.MarkFlagRequired("config")
}

// addSimulationFlags registers the flags that override settings.Simulation.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Int("rounds", constants.DefaultRounds, "Number of influence rounds")
	cmd.Flags().Float64P("threshold", "t", constants.DefaultThreshold, "Abstention threshold")
	cmd.Flags().Float64("range", constants.DefaultProposalRange, "Random proposal entries lie in [-range, range)")
	cmd.Flags().StringP("rule", "r", constants.DefaultRule, "Majority rule: simple, super, abs-simple, abs-super, unanimity")
	cmd.Flags().Uint64("seed", 0, "Random seed for a reproducible run")
}

// applySimulationFlags copies explicitly set flags over the settings.
func applySimulationFlags(cmd *cobra.Command, settings *config.Settings) error {
	f := cmd.Flags()
	if f.Changed("rounds") {
		settings.Simulation.Rounds, _ = f.GetInt("rounds")
	}
	if f.Changed("threshold") {
		settings.Simulation.Threshold, _ = f.GetFloat64("threshold")
	}
	if f.Changed("range") {
		settings.Simulation.Range, _ = f.GetFloat64("range")
	}
	if f.Changed("rule") {
		settings.Simulation.Rule, _ = f.GetString("rule")
	}
	if f.Changed("seed") {
		seed, _ := f.GetUint64("seed")
		settings.Simulation.Seed = &seed
	}
	return settings.Validate()
}

// loadRoster loads and builds the roster named by --config.
func loadRoster(cmd *cobra.Command) (*congress.Graph, *models.Roster, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return nil, nil, fmt.Errorf("--config is required")
	}
	return loader.Load(path)
}

// parseProposal parses a comma-separated vector such as "0.5,-1,0".
func parseProposal(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid proposal entry %q: %w", strings.TrimSpace(p), err)
		}
		out = append(out, v)
	}
	return out, nil
}

// formatVector renders a vector as [a, b, c].
func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', 4, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

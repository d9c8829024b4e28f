package main

import (
	"fmt"

	"github.com/nvandessel/polisim/internal/majority"
	"github.com/nvandessel/polisim/internal/runner"
	"github.com/nvandessel/polisim/internal/sim"
	"github.com/nvandessel/polisim/internal/visualization"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the influence graph",
		Long: `Render the roster's influence graph as Graphviz DOT or JSON.

Parties become clusters and edges carry their weights. With --simulate a
run is performed first and members are colored by their final vote.

Examples:
  polisim graph -c congress.toml --format dot | dot -Tsvg > congress.svg
  polisim graph -c congress.toml --simulate --seed 7 --format dot
  polisim graph -c congress.toml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			simulate, _ := cmd.Flags().GetBool("simulate")
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				format = string(visualization.FormatJSON)
			}

			switch visualization.Format(format) {
			case visualization.FormatDOT, visualization.FormatJSON:
			default:
				return fmt.Errorf("unsupported format %q (use dot or json)", format)
			}

			g, _, err := loadRoster(cmd)
			if err != nil {
				return err
			}

			var votes map[string]sim.Vote
			if simulate {
				settings, err := loadSettings(cmd)
				if err != nil {
					return err
				}
				if err := applySimulationFlags(cmd, settings); err != nil {
					return err
				}
				rule, err := majority.ParseRule(settings.Simulation.Rule)
				if err != nil {
					return err
				}
				res, err := runner.Execute(g, runner.Options{
					Range:     settings.Simulation.Range,
					Rounds:    settings.Simulation.Rounds,
					Threshold: settings.Simulation.Threshold,
					Rule:      rule,
					Seed:      settings.Simulation.Seed,
					Logger:    newLogger(cmd, settings),
				})
				if err != nil {
					return err
				}
				votes = res.Votes()
			}

			if visualization.Format(format) == visualization.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), visualization.RenderJSON(g, votes))
			}

			dot, err := visualization.RenderDOT(g, votes)
			if err != nil {
				return fmt.Errorf("rendering DOT: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), dot)
			return nil
		},
	}

	addRosterFlag(cmd)
	addSimulationFlags(cmd)
	cmd.Flags().String("format", "dot", "Output format: dot or json")
	cmd.Flags().Bool("simulate", false, "Run a simulation and color members by vote")

	return cmd
}

package main

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/nvandessel/polisim/internal/sweep"
	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run many random proposals and report pass rates per rule",
		Long: `Run --runs simulations on random proposals in parallel and report how
often each majority rule would pass. Run i uses seed+i, so a sweep with a
fixed --seed is reproducible regardless of --workers.

Examples:
  polisim sweep -c congress.toml --runs 1000
  polisim sweep -c congress.toml --runs 500 --seed 42 --workers 4 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			runs, _ := cmd.Flags().GetInt("runs")
			workers, _ := cmd.Flags().GetInt("workers")

			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if err := applySimulationFlags(cmd, settings); err != nil {
				return err
			}

			g, _, err := loadRoster(cmd)
			if err != nil {
				return err
			}
			if g.Len() == 0 {
				return errors.New("roster has no members")
			}

			seed := rand.Uint64()
			if settings.Simulation.Seed != nil {
				seed = *settings.Simulation.Seed
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			summary, err := sweep.Run(ctx, g, sweep.Options{
				Runs:      runs,
				Workers:   workers,
				Seed:      seed,
				Range:     settings.Simulation.Range,
				Rounds:    settings.Simulation.Rounds,
				Threshold: settings.Simulation.Threshold,
				Logger:    newLogger(cmd, settings),
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sweep of %d runs (seed %d)\n", summary.Runs, summary.Seed)
			fmt.Fprintf(out, "Mean YES share: %.1f%%\n\n", summary.MeanYesShare*100)
			fmt.Fprintf(out, "  %-12s %8s %9s\n", "RULE", "PASSED", "RATE")
			for _, r := range summary.Rules {
				fmt.Fprintf(out, "  %-12s %8d %8.1f%%\n", r.Rule, r.Passed, r.PassRate*100)
			}
			return nil
		},
	}

	addRosterFlag(cmd)
	addSimulationFlags(cmd)
	cmd.Flags().Int("runs", 100, "Number of simulations")
	cmd.Flags().Int("workers", 0, "Parallel workers (default GOMAXPROCS)")

	return cmd
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nvandessel/polisim/internal/constants"
	"github.com/nvandessel/polisim/internal/logging"
	"github.com/nvandessel/polisim/internal/majority"
	"github.com/nvandessel/polisim/internal/runner"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one vote on a proposal",
		Long: `Load a roster, run the influence rounds on a proposal and report each
member's final vote and whether the proposal passes.

Without --proposal a random proposal is drawn. The seed used is always
reported so the run can be replayed with --seed.

Examples:
  polisim run -c congress.toml
  polisim run -c congress.toml --rule super --rounds 10
  polisim run -c congress.toml --proposal 0.5,-0.2 --seed 7 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			proposalFlag, _ := cmd.Flags().GetString("proposal")
			traceDir, _ := cmd.Flags().GetString("trace")

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

			var proposal []float64
			if proposalFlag != "" {
				if proposal, err = parseProposal(proposalFlag); err != nil {
					return err
				}
			}

			g, _, err := loadRoster(cmd)
			if err != nil {
				return err
			}
			if g.Len() == 0 {
				return errors.New("roster has no members")
			}

			trace := openTrace(traceDir, settings.Logging.Level)
			defer trace.Close()

			res, err := runner.Execute(g, runner.Options{
				Proposal:  proposal,
				Range:     settings.Simulation.Range,
				Rounds:    settings.Simulation.Rounds,
				Threshold: settings.Simulation.Threshold,
				Rule:      rule,
				Seed:      settings.Simulation.Seed,
				Logger:    newLogger(cmd, settings),
				Trace:     trace,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printResult(cmd.OutOrStdout(), res, proposal == nil)
			return nil
		},
	}

	addRosterFlag(cmd)
	addSimulationFlags(cmd)
	cmd.Flags().String("proposal", "", "Comma-separated proposal vector (random when empty)")
	cmd.Flags().String("trace", "", "Write per-round scores to DIR/rounds.jsonl")

	return cmd
}

// openTrace opens the round trace. An explicit dir always traces; otherwise
// tracing follows the log level and writes under ~/.polisim.
func openTrace(dir, level string) *logging.RoundLogger {
	if dir != "" {
		return logging.NewRoundLogger(dir, "debug")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return logging.NewRoundLogger(filepath.Join(home, constants.SettingsDirName), level)
}

func printResult(w io.Writer, res *runner.Result, random bool) {
	fmt.Fprintf(w, "Run %s (seed %d)\n", res.RunID, res.Seed)
	if random {
		fmt.Fprintf(w, "Using random proposal: %s\n", formatVector(res.Proposal))
	} else {
		fmt.Fprintf(w, "Using proposal: %s\n", formatVector(res.Proposal))
	}

	fmt.Fprintln(w, "\nFinal votes:")
	for _, m := range res.Members {
		fmt.Fprintf(w, "  %-15s → %-7s (score %+.4f)\n", m.ID, m.Vote, m.Score)
	}

	fmt.Fprintf(w, "\nTally: %d yes, %d no, %d abstain\n", res.Tally.Yes, res.Tally.No, res.Tally.Abstain)
	verdict := "FAILED"
	if res.Passed {
		verdict = "PASSED"
	}
	fmt.Fprintf(w, "Proposal %s under rule %s\n", verdict, res.Rule)
}

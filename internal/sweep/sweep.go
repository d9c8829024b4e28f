// Package sweep runs many independent simulations over one congress and
// aggregates how often a random proposal passes under each majority rule.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/majority"
	"github.com/nvandessel/polisim/internal/sim"
)

// Options configures a sweep.
type Options struct {
	Runs      int
	Workers   int // defaults to GOMAXPROCS
	Seed      uint64
	Range     float64
	Rounds    int
	Threshold float64
	Logger    *slog.Logger
}

// RuleSummary aggregates one rule over all runs.
type RuleSummary struct {
	Rule     string  `json:"rule"`
	Passed   int     `json:"passed"`
	PassRate float64 `json:"pass_rate"`
}

// Summary is the aggregate outcome of a sweep.
type Summary struct {
	Runs         int           `json:"runs"`
	Seed         uint64        `json:"seed"`
	MeanYesShare float64       `json:"mean_yes_share"`
	Rules        []RuleSummary `json:"rules"`
}

// Run executes opts.Runs simulations concurrently. Run i uses the random
// source sim.NewRand(opts.Seed + i) for both its proposal and its shuffles,
// so the summary does not depend on scheduling. g is only read.
func Run(ctx context.Context, g *congress.Graph, opts Options) (*Summary, error) {
	if opts.Runs <= 0 {
		return nil, fmt.Errorf("runs must be positive, got %d", opts.Runs)
	}
	if opts.Range <= 0 {
		return nil, fmt.Errorf("proposal range must be positive, got %g", opts.Range)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tallies := make([]majority.Tally, opts.Runs)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < opts.Runs; i++ {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := sim.NewRand(opts.Seed + uint64(i))
			proposal := sim.RandomProposal(rng, g.Dimension(), opts.Range)
			s, err := sim.New(g, proposal, sim.Config{Rand: rng})
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			s.Run(opts.Rounds, opts.Threshold)
			tallies[i] = s.Tally()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := &Summary{Runs: opts.Runs, Seed: opts.Seed}
	passed := make([]int, len(majority.Rules))
	var yesShare float64
	for _, t := range tallies {
		if all := t.All(); all > 0 {
			yesShare += float64(t.Yes) / float64(all)
		}
		for j, r := range majority.Rules {
			if majority.Passes(r, t) {
				passed[j]++
			}
		}
	}
	sum.MeanYesShare = yesShare / float64(opts.Runs)
	for j, r := range majority.Rules {
		sum.Rules = append(sum.Rules, RuleSummary{
			Rule:     r.String(),
			Passed:   passed[j],
			PassRate: float64(passed[j]) / float64(opts.Runs),
		})
	}

	logger.Info("sweep complete", "runs", opts.Runs, "workers", workers, "mean_yes_share", sum.MeanYesShare)
	return sum, nil
}

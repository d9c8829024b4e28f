// Package runner executes one complete simulation: proposal selection,
// the influence rounds, and the majority verdict.
package runner

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"

	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/logging"
	"github.com/nvandessel/polisim/internal/majority"
	"github.com/nvandessel/polisim/internal/sim"
)

// Options configures a single run.
type Options struct {
	// Proposal is used as-is when non-empty. Otherwise a random proposal
	// is drawn with entries in [-Range, Range).
	Proposal []float64
	Range    float64

	Rounds    int
	Threshold float64
	Rule      majority.Rule

	// Seed fixes the random source. When nil a seed is drawn and reported
	// in the Result so the run can be replayed.
	Seed *uint64

	// RunID labels the run in output and traces. Generated when empty.
	RunID string

	Logger *slog.Logger
	Trace  *logging.RoundLogger
}

// MemberResult is one member's final state.
type MemberResult struct {
	ID    string   `json:"id"`
	Vote  sim.Vote `json:"vote"`
	Score float64  `json:"score"`
}

// Result is the outcome of a run.
type Result struct {
	RunID     string          `json:"run_id"`
	Seed      uint64          `json:"seed"`
	Proposal  []float64       `json:"proposal"`
	Rounds    int             `json:"rounds"`
	Threshold float64         `json:"threshold"`
	Rule      string          `json:"rule"`
	Members   []MemberResult  `json:"members"`
	Tally     majority.Tally  `json:"tally"`
	Passed    bool            `json:"passed"`
	Rules     map[string]bool `json:"rules"`
}

// Execute runs one simulation over g. Members in the result are sorted by id.
func Execute(g *congress.Graph, opts Options) (*Result, error) {
	seed := rand.Uint64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	rng := sim.NewRand(seed)

	proposal := opts.Proposal
	if len(proposal) == 0 {
		if opts.Range <= 0 {
			return nil, fmt.Errorf("proposal range must be positive, got %g", opts.Range)
		}
		proposal = sim.RandomProposal(rng, g.Dimension(), opts.Range)
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("run_id", runID)

	s, err := sim.New(g, proposal, sim.Config{
		Rand:     rng,
		Logger:   logger,
		Observer: opts.Trace.Observer(runID, g),
	})
	if err != nil {
		return nil, fmt.Errorf("creating simulator: %w", err)
	}

	logger.Debug("simulation starting",
		"members", g.Len(), "rounds", opts.Rounds, "threshold", opts.Threshold, "seed", seed)
	s.Run(opts.Rounds, opts.Threshold)

	res := &Result{
		RunID:     runID,
		Seed:      seed,
		Proposal:  s.Proposal(),
		Rounds:    opts.Rounds,
		Threshold: opts.Threshold,
		Rule:      opts.Rule.String(),
		Members:   make([]MemberResult, 0, g.Len()),
		Tally:     s.Tally(),
		Passed:    s.Passes(opts.Rule),
		Rules:     make(map[string]bool, len(majority.Rules)),
	}
	for i, m := range g.Members() {
		h := congress.Handle(i)
		res.Members = append(res.Members, MemberResult{ID: m.ID, Vote: s.Vote(h), Score: s.Score(h)})
	}
	sort.SliceStable(res.Members, func(i, j int) bool {
		return res.Members[i].ID < res.Members[j].ID
	})
	for _, r := range majority.Rules {
		res.Rules[r.String()] = majority.Passes(r, res.Tally)
	}

	logger.Info("simulation complete",
		"yes", res.Tally.Yes, "no", res.Tally.No, "abstain", res.Tally.Abstain,
		"rule", res.Rule, "passed", res.Passed)
	return res, nil
}

// Votes returns the result's votes keyed by member id.
func (r *Result) Votes() map[string]sim.Vote {
	out := make(map[string]sim.Vote, len(r.Members))
	for _, m := range r.Members {
		out[m.ID] = m.Vote
	}
	return out
}

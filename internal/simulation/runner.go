package simulation

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/loader"
	"github.com/nvandessel/polisim/internal/models"
	"github.com/nvandessel/polisim/internal/sim"
	"github.com/nvandessel/polisim/internal/store"
)

// Runner orchestrates simulation experiments against the real loader,
// graph and simulator.
type Runner struct {
	t   *testing.T
	dir string
}

// NewRunner creates a simulation runner with an isolated temp directory
// and sandboxed HOME directory.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	return &Runner{t: t, dir: tmpDir}
}

// Run executes the scenario and returns the collected results. Any load or
// build failure fails the test immediately.
func (r *Runner) Run(scenario Scenario) SimulationResult {
	r.t.Helper()

	// Phase 1: Build the graph through the same path the CLI uses.
	g := r.buildGraph(scenario)

	// Phase 2: Run every seed.
	runs := scenario.Runs
	if runs <= 0 {
		runs = 1
	}
	results := make([]RunResult, runs)
	for k := 0; k < runs; k++ {
		results[k] = r.runOnce(g, scenario, k)
	}

	return SimulationResult{
		Name:  scenario.Name,
		Graph: g,
		Runs:  results,
	}
}

// buildGraph validates the scenario roster, optionally persists it, and
// builds the influence graph.
func (r *Runner) buildGraph(scenario Scenario) *congress.Graph {
	r.t.Helper()

	roster := scenario.Roster()
	if scenario.Persist {
		roster = r.persist(roster)
	}

	if err := loader.Validate(roster); err != nil {
		r.t.Fatalf("scenario %q: invalid roster: %v", scenario.Name, err)
	}
	g, err := loader.Build(roster)
	if err != nil {
		r.t.Fatalf("scenario %q: build graph: %v", scenario.Name, err)
	}
	return g
}

// persist writes roster to a fresh SQLite store and reads it back.
func (r *Runner) persist(roster *models.Roster) *models.Roster {
	r.t.Helper()
	ctx := context.Background()

	s, err := store.Open(filepath.Join(r.dir, "roster.db"))
	if err != nil {
		r.t.Fatalf("persist: open store: %v", err)
	}
	defer s.Close()

	if err := s.SaveRoster(ctx, roster); err != nil {
		r.t.Fatalf("persist: save roster: %v", err)
	}
	loaded, err := s.LoadRoster(ctx)
	if err != nil {
		r.t.Fatalf("persist: load roster: %v", err)
	}
	return loaded
}

// runOnce executes run k of the scenario.
func (r *Runner) runOnce(g *congress.Graph, scenario Scenario, k int) RunResult {
	r.t.Helper()

	seed := scenario.Seed + uint64(k)
	rng := sim.NewRand(seed)

	proposal := scenario.Proposal
	if len(proposal) == 0 {
		proposal = sim.RandomProposal(rng, g.Dimension(), scenario.Range)
	}

	res := RunResult{Index: k, Seed: seed, Proposal: proposal}
	observer := func(round int, order []congress.Handle, scores []float64) {
		res.Rounds = append(res.Rounds, scoresByID(g, scores))
	}

	s, err := sim.New(g, proposal, sim.Config{Rand: rng, Observer: observer})
	if err != nil {
		r.t.Fatalf("scenario %q run %d: %v", scenario.Name, k, err)
	}
	res.Initial = scoresByID(g, s.Scores())

	s.Run(scenario.Rounds, scenario.Threshold)

	res.Scores = scoresByID(g, s.Scores())
	res.Votes = s.Votes()
	res.Tally = s.Tally()
	return res
}

func scoresByID(g *congress.Graph, scores []float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for i, score := range scores {
		out[g.Member(congress.Handle(i)).ID] = score
	}
	return out
}

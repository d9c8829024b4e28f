package simulation

import (
	"math"
	"testing"

	"github.com/nvandessel/polisim/internal/majority"
	"github.com/nvandessel/polisim/internal/sim"
)

// run returns run index of result, failing the test if it does not exist.
func run(t *testing.T, result SimulationResult, index int) RunResult {
	t.Helper()
	if index < 0 || index >= len(result.Runs) {
		t.Fatalf("%s: run %d out of range (have %d)", result.Name, index, len(result.Runs))
	}
	return result.Runs[index]
}

// AssertVote asserts that member id voted want in the given run.
func AssertVote(t *testing.T, result SimulationResult, runIndex int, id string, want sim.Vote) {
	t.Helper()
	r := run(t, result, runIndex)
	got, ok := r.Votes[id]
	if !ok {
		t.Errorf("AssertVote: run %d: member %s not found", runIndex, id)
		return
	}
	if got != want {
		t.Errorf("AssertVote: run %d: member %s voted %s, want %s (score %.6f)", runIndex, id, got, want, r.Scores[id])
	}
}

// AssertAllVote asserts that every member voted want in every run.
func AssertAllVote(t *testing.T, result SimulationResult, want sim.Vote) {
	t.Helper()
	for _, r := range result.Runs {
		for id, got := range r.Votes {
			if got != want {
				t.Errorf("AssertAllVote: run %d: member %s voted %s, want %s", r.Index, id, got, want)
			}
		}
	}
}

// AssertScore asserts that member id finished the run within tol of want.
func AssertScore(t *testing.T, result SimulationResult, runIndex int, id string, want, tol float64) {
	t.Helper()
	r := run(t, result, runIndex)
	got, ok := r.Scores[id]
	if !ok {
		t.Errorf("AssertScore: run %d: member %s not found", runIndex, id)
		return
	}
	if math.Abs(got-want) > tol {
		t.Errorf("AssertScore: run %d: member %s score %.9f, want %.9f ± %g", runIndex, id, got, want, tol)
	}
}

// AssertRoundScore asserts member id's score after round (1-based).
func AssertRoundScore(t *testing.T, result SimulationResult, runIndex, round int, id string, want, tol float64) {
	t.Helper()
	r := run(t, result, runIndex)
	if round < 1 || round > len(r.Rounds) {
		t.Fatalf("AssertRoundScore: run %d: round %d out of range (have %d)", runIndex, round, len(r.Rounds))
	}
	got := r.Rounds[round-1][id]
	if math.Abs(got-want) > tol {
		t.Errorf("AssertRoundScore: run %d round %d: member %s score %.9f, want %.9f ± %g", runIndex, round, id, got, want, tol)
	}
}

// AssertPasses asserts that the run's tally carries under rule.
func AssertPasses(t *testing.T, result SimulationResult, runIndex int, rule majority.Rule) {
	t.Helper()
	r := run(t, result, runIndex)
	if !majority.Passes(rule, r.Tally) {
		t.Errorf("AssertPasses: run %d: %s failed with tally %+v", runIndex, rule, r.Tally)
	}
}

// AssertFails asserts that the run's tally does not carry under rule.
func AssertFails(t *testing.T, result SimulationResult, runIndex int, rule majority.Rule) {
	t.Helper()
	r := run(t, result, runIndex)
	if majority.Passes(rule, r.Tally) {
		t.Errorf("AssertFails: run %d: %s passed with tally %+v", runIndex, rule, r.Tally)
	}
}

// AssertScoresBounded asserts that no score leaves [min, max] at any point.
func AssertScoresBounded(t *testing.T, result SimulationResult, min, max float64) {
	t.Helper()
	for _, r := range result.Runs {
		for i, round := range r.Rounds {
			for id, s := range round {
				if s < min || s > max {
					t.Errorf("AssertScoresBounded: run %d round %d: member %s score %.6f not in [%.4f, %.4f]", r.Index, i+1, id, s, min, max)
				}
			}
		}
	}
}

// AssertUnchanged asserts that member id keeps its initial score in every
// round of every run.
func AssertUnchanged(t *testing.T, result SimulationResult, id string) {
	t.Helper()
	for _, r := range result.Runs {
		for i, round := range r.Rounds {
			if round[id] != r.Initial[id] {
				t.Errorf("AssertUnchanged: run %d round %d: member %s moved from %.9f to %.9f", r.Index, i+1, id, r.Initial[id], round[id])
			}
		}
	}
}

// PassRate returns the fraction of runs that carry under rule.
func PassRate(result SimulationResult, rule majority.Rule) float64 {
	if len(result.Runs) == 0 {
		return 0
	}
	passed := 0
	for _, r := range result.Runs {
		if majority.Passes(rule, r.Tally) {
			passed++
		}
	}
	return float64(passed) / float64(len(result.Runs))
}

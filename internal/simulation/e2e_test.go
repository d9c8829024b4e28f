package simulation_test

import (
	"testing"

	"github.com/nvandessel/polisim/internal/majority"
	"github.com/nvandessel/polisim/internal/models"
	"github.com/nvandessel/polisim/internal/sim"
	"github.com/nvandessel/polisim/internal/simulation"
)

// TestE2EUnifiedParty runs three identical-minded members in one fully
// disciplined party, with A influencing B.
//
// Setup:
//   - A, B, C share ideal vector v; proposal = v; bias 0; swing 1
//   - one party with discipline 1.0 holding all three
//   - edge A→B with weight 1.0
//
// Expected: every initial score is 1. From round 1 on, A and C feel only
// party pressure (1.0) while B also feels A's peer pressure (1.0), so A and C
// settle at 1 and B at 2 regardless of visiting order. All vote YES and the
// proposal carries unanimously.
func TestE2EUnifiedParty(t *testing.T) {
	v := []float64{0.6, 0.8}

	for _, persist := range []bool{false, true} {
		name := "in-memory"
		if persist {
			name = "sqlite"
		}
		t.Run(name, func(t *testing.T) {
			r := simulation.NewRunner(t)
			result := r.Run(simulation.Scenario{
				Name:      "unified-party",
				Dimension: 2,
				Members: []models.MemberSpec{
					simulation.Member("A", v, 0, 1),
					simulation.Member("B", v, 0, 1),
					simulation.Member("C", v, 0, 1),
				},
				Parties:   []models.PartySpec{simulation.Party("P", 1.0, "A", "B", "C")},
				Edges:     []models.EdgeSpec{simulation.Edge("A", "B", 1.0)},
				Proposal:  v,
				Rounds:    5,
				Threshold: 0.1,
				Runs:      8,
				Persist:   persist,
			})

			for k := range result.Runs {
				for _, id := range []string{"A", "B", "C"} {
					if got := result.Runs[k].Initial[id]; got < 1-1e-12 {
						t.Errorf("run %d: initial score of %s = %v, want 1", k, id, got)
					}
				}
				simulation.AssertScore(t, result, k, "A", 1, 1e-12)
				simulation.AssertScore(t, result, k, "B", 2, 1e-12)
				simulation.AssertScore(t, result, k, "C", 1, 1e-12)
				simulation.AssertRoundScore(t, result, k, 1, "B", 2, 1e-12)
				simulation.AssertPasses(t, result, k, majority.Simple)
				simulation.AssertPasses(t, result, k, majority.Unanimity)
			}
			simulation.AssertAllVote(t, result, sim.Yes)
		})
	}
}

// TestE2ERandomProposalsPersistIdentically checks that storing the roster in
// SQLite does not change any outcome for the same seeds.
func TestE2ERandomProposalsPersistIdentically(t *testing.T) {
	scenario := simulation.Scenario{
		Name:      "persist-identity",
		Dimension: 3,
		Members: []models.MemberSpec{
			simulation.Member("L1", []float64{1, -0.5, 0}, 0.2, 0.7),
			simulation.Member("L2", []float64{0.8, -0.1, 0.3}, 0, 0.4),
			simulation.Member("R1", []float64{-0.9, 0.6, 0.1}, -0.1, 0.5),
			simulation.Member("R2", []float64{-0.2, 0.9, -0.4}, 0.05, 0.3),
			simulation.Member("I1", []float64{0.1, 0.1, 0.9}, 0, 0.6),
		},
		Parties: []models.PartySpec{
			simulation.Party("Left", 0.8, "L1", "L2"),
			simulation.Party("Right", 0.6, "R1", "R2"),
		},
		Edges: []models.EdgeSpec{
			simulation.Edge("L1", "L2", 0.5),
			simulation.Edge("R1", "L2", 0.2),
			simulation.Edge("I1", "R2", 0.9),
			simulation.Edge("L2", "I1", 0.3),
		},
		Range:     1,
		Rounds:    6,
		Threshold: 0.1,
		Seed:      100,
		Runs:      6,
	}

	plain := simulation.NewRunner(t).Run(scenario)
	scenario.Persist = true
	stored := simulation.NewRunner(t).Run(scenario)

	for k := range plain.Runs {
		a, b := plain.Runs[k], stored.Runs[k]
		if a.Tally != b.Tally {
			t.Errorf("run %d: tally %+v vs %+v", k, a.Tally, b.Tally)
		}
		for id, score := range a.Scores {
			if b.Scores[id] != score {
				t.Errorf("run %d: %s score %v vs %v", k, id, score, b.Scores[id])
			}
		}
	}
}

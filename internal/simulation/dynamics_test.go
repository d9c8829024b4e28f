package simulation_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/nvandessel/polisim/internal/majority"
	"github.com/nvandessel/polisim/internal/models"
	"github.com/nvandessel/polisim/internal/sim"
	"github.com/nvandessel/polisim/internal/simulation"
)

// TestStubbornMemberIgnoresPressure: a member with swing 0 keeps its initial
// score no matter what its party and peers do.
func TestStubbornMemberIgnoresPressure(t *testing.T) {
	r := simulation.NewRunner(t)
	result := r.Run(simulation.Scenario{
		Name:      "stubborn",
		Dimension: 1,
		Members: []models.MemberSpec{
			simulation.Member("mule", []float64{-1}, 0.3, 0),
			simulation.Member("p1", []float64{1}, 0, 0.5),
			simulation.Member("p2", []float64{1}, 0, 0.5),
		},
		Parties:   []models.PartySpec{simulation.Party("P", 1, "mule", "p1", "p2")},
		Edges:     []models.EdgeSpec{simulation.Edge("p1", "mule", 1), simulation.Edge("p2", "mule", 1)},
		Proposal:  []float64{1},
		Rounds:    10,
		Threshold: 0.1,
		Runs:      5,
	})

	simulation.AssertUnchanged(t, result, "mule")
	for k := range result.Runs {
		simulation.AssertScore(t, result, k, "mule", -0.7, 1e-12)
		simulation.AssertVote(t, result, k, "mule", sim.No)
	}
}

// TestIsolatedFullSwingCollapsesToAbstain: with swing 1 and no edges or
// parties, social pressure is zero and every score becomes 0 after round 1.
func TestIsolatedFullSwingCollapsesToAbstain(t *testing.T) {
	r := simulation.NewRunner(t)
	result := r.Run(simulation.Scenario{
		Name:      "collapse",
		Dimension: 2,
		Members: []models.MemberSpec{
			simulation.Member("a", []float64{1, 0}, 0.5, 1),
			simulation.Member("b", []float64{0, 1}, -0.5, 1),
			simulation.Member("c", []float64{-1, -1}, 0, 1),
		},
		Range:     1,
		Rounds:    3,
		Threshold: 0,
		Runs:      4,
	})

	for k := range result.Runs {
		for _, id := range []string{"a", "b", "c"} {
			simulation.AssertRoundScore(t, result, k, 1, id, 0, 0)
		}
		for _, rule := range majority.Rules {
			simulation.AssertFails(t, result, k, rule)
		}
	}
	simulation.AssertAllVote(t, result, sim.Abstain)
}

// TestDisciplineDragsDissenter: a flexible member who starts opposed is
// pulled over by a fully disciplined party of immovable supporters.
//
// Round 1 party pressure is (1 + 1 - 1)/3, giving -0.5 + 1/6 = -1/3. Once the
// dissenter's sign flips, pressure is 1 and the score halves its distance to
// 1 every round.
func TestDisciplineDragsDissenter(t *testing.T) {
	r := simulation.NewRunner(t)
	result := r.Run(simulation.Scenario{
		Name:      "discipline",
		Dimension: 1,
		Members: []models.MemberSpec{
			simulation.Member("loyal1", []float64{1}, 0.5, 0),
			simulation.Member("loyal2", []float64{1}, 0.5, 0),
			simulation.Member("dissenter", []float64{-1}, 0, 0.5),
		},
		Parties:   []models.PartySpec{simulation.Party("P", 1, "loyal1", "loyal2", "dissenter")},
		Proposal:  []float64{1},
		Rounds:    12,
		Threshold: 0.1,
		Runs:      6,
	})

	for k := range result.Runs {
		simulation.AssertRoundScore(t, result, k, 1, "dissenter", -1.0/3.0, 1e-12)
		simulation.AssertScore(t, result, k, "dissenter", 1, 0.01)
		simulation.AssertVote(t, result, k, "dissenter", sim.Yes)
		simulation.AssertPasses(t, result, k, majority.Unanimity)
	}
	simulation.AssertUnchanged(t, result, "loyal1")
	simulation.AssertUnchanged(t, result, "loyal2")
}

// TestPeerInfluenceCarriesFollower: a follower with one incoming edge from
// an immovable leader moves halfway toward the leader's sign each round.
func TestPeerInfluenceCarriesFollower(t *testing.T) {
	r := simulation.NewRunner(t)
	result := r.Run(simulation.Scenario{
		Name:      "follower",
		Dimension: 1,
		Members: []models.MemberSpec{
			simulation.Member("leader", []float64{1}, 0, 0),
			simulation.Member("follower", []float64{-1}, 0, 0.5),
		},
		Edges:     []models.EdgeSpec{simulation.Edge("leader", "follower", 2.5)},
		Proposal:  []float64{1},
		Rounds:    3,
		Threshold: 0.1,
	})

	// -1 -> 0 -> 0.5 -> 0.75
	simulation.AssertRoundScore(t, result, 0, 1, "follower", 0, 1e-15)
	simulation.AssertRoundScore(t, result, 0, 2, "follower", 0.5, 1e-15)
	simulation.AssertScore(t, result, 0, "follower", 0.75, 1e-15)
	simulation.AssertVote(t, result, 0, "follower", sim.Yes)
}

// TestSplitHouseRules: four fixed supporters against three fixed opponents.
func TestSplitHouseRules(t *testing.T) {
	var members []models.MemberSpec
	for i := 0; i < 4; i++ {
		members = append(members, simulation.Member(fmt.Sprintf("y%d", i), []float64{1}, 0, 0))
	}
	for i := 0; i < 3; i++ {
		members = append(members, simulation.Member(fmt.Sprintf("n%d", i), []float64{-1}, 0, 0))
	}

	r := simulation.NewRunner(t)
	result := r.Run(simulation.Scenario{
		Name:      "split",
		Dimension: 1,
		Members:   members,
		Proposal:  []float64{1},
		Rounds:    2,
		Threshold: 0.1,
	})

	if got := result.Runs[0].Tally; got != (majority.Tally{Yes: 4, No: 3}) {
		t.Fatalf("tally = %+v, want 4 yes 3 no", got)
	}
	simulation.AssertPasses(t, result, 0, majority.Simple)
	simulation.AssertPasses(t, result, 0, majority.AbsSimple)
	simulation.AssertFails(t, result, 0, majority.Super)
	simulation.AssertFails(t, result, 0, majority.AbsSuper)
	simulation.AssertFails(t, result, 0, majority.Unanimity)
}

// TestScoresStayBounded: with biases in [-0.5, 0.5] initial scores lie in
// [-1.5, 1.5], and social pressure never exceeds 2 in magnitude, so no score
// can leave [-2, 2].
func TestScoresStayBounded(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	const n = 30

	var members []models.MemberSpec
	for i := 0; i < n; i++ {
		ideal := []float64{rng.Float64()*2 - 1, rng.Float64()*2 - 1, rng.Float64()*2 - 1}
		members = append(members, simulation.Member(fmt.Sprintf("m%02d", i), ideal, rng.Float64()-0.5, rng.Float64()))
	}
	var edges []models.EdgeSpec
	for i := 0; i < 3*n; i++ {
		from, to := rng.IntN(n), rng.IntN(n)
		edges = append(edges, simulation.Edge(members[from].ID, members[to].ID, rng.Float64()*3))
	}
	parties := []models.PartySpec{
		simulation.Party("even", 0.9, "m00", "m02", "m04", "m06", "m08", "m10"),
		simulation.Party("odd", 0.4, "m01", "m03", "m05", "m07", "m09", "m11"),
	}

	r := simulation.NewRunner(t)
	result := r.Run(simulation.Scenario{
		Name:      "bounded",
		Dimension: 3,
		Members:   members,
		Parties:   parties,
		Edges:     edges,
		Range:     2,
		Rounds:    15,
		Threshold: 0.05,
		Seed:      1,
		Runs:      10,
	})

	simulation.AssertScoresBounded(t, result, -2, 2)

	rate := simulation.PassRate(result, majority.Simple)
	if rate < 0 || rate > 1 {
		t.Errorf("PassRate = %v, want within [0, 1]", rate)
	}
}

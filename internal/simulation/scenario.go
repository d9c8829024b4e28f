package simulation

import (
	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/majority"
	"github.com/nvandessel/polisim/internal/models"
	"github.com/nvandessel/polisim/internal/sim"
)

// Scenario defines a complete simulation experiment.
type Scenario struct {
	Name      string
	Dimension int
	Members   []models.MemberSpec
	Parties   []models.PartySpec
	Edges     []models.EdgeSpec

	// Proposal is used for every run when set. Otherwise each run draws a
	// random proposal in [-Range, Range) from its own seed.
	Proposal []float64
	Range    float64

	Rounds    int
	Threshold float64

	// Seed is the seed of run 0; run k uses Seed+k.
	Seed uint64

	// Runs is the number of independent runs. Zero means one.
	Runs int

	// Persist round-trips the roster through the SQLite roster store
	// before building the graph.
	Persist bool
}

// Roster returns the scenario's congress as a serializable roster.
func (s Scenario) Roster() *models.Roster {
	return &models.Roster{
		IdealDimension: s.Dimension,
		Members:        s.Members,
		Parties:        s.Parties,
		Edges:          s.Edges,
	}
}

// RunResult captures the outcome of a single seeded run.
type RunResult struct {
	Index    int
	Seed     uint64
	Proposal []float64
	Initial  map[string]float64   // scores before round 1
	Rounds   []map[string]float64 // scores after each round
	Scores   map[string]float64   // final scores
	Votes    map[string]sim.Vote
	Tally    majority.Tally
}

// SimulationResult captures all runs of a scenario.
type SimulationResult struct {
	Name  string
	Graph *congress.Graph
	Runs  []RunResult
}

// Member is a shorthand builder for models.MemberSpec.
func Member(id string, ideal []float64, bias, swing float64) models.MemberSpec {
	return models.MemberSpec{ID: id, Ideal: ideal, Bias: bias, Swing: swing}
}

// Party is a shorthand builder for models.PartySpec.
func Party(id string, discipline float64, members ...string) models.PartySpec {
	return models.PartySpec{ID: id, Discipline: discipline, Members: members}
}

// Edge is a shorthand builder for models.EdgeSpec.
func Edge(from, to string, weight float64) models.EdgeSpec {
	return models.EdgeSpec{From: from, To: to, Weight: weight}
}

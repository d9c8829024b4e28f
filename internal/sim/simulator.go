// Package sim runs the iterative influence process over a congress graph and
// turns the resulting scores into votes.
//
// Each member starts from the alignment between its ideal vector and the
// proposal plus its personal bias. Every round visits all members in a fresh
// random order; a visited member blends its current score with the social
// pressure it feels from peers (weighted incoming edges) and from its party.
// Updates are applied in place, so members later in the same round already
// see their neighbours' new scores.
package sim

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/majority"
	"github.com/nvandessel/polisim/internal/vecmath"
)

// RoundObserver is called after every completed round with the visiting
// order and the scores at the end of that round. Neither slice may be
// retained or modified.
type RoundObserver func(round int, order []congress.Handle, scores []float64)

// Config holds optional collaborators for a Simulator. The zero value is
// valid: the process-wide random source is used and nothing is logged.
type Config struct {
	// Rand drives the per-round shuffle. Set it for reproducible runs.
	Rand *rand.Rand

	// Logger receives per-round debug output.
	Logger *slog.Logger

	// Observer, if set, is called after each round.
	Observer RoundObserver
}

// NewRand returns a deterministic random source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Simulator holds the state of one simulation run over one proposal.
// It is not safe for concurrent use.
type Simulator struct {
	graph    *congress.Graph
	proposal []float64
	scores   []float64
	votes    []Vote

	rng      *rand.Rand
	logger   *slog.Logger
	observer RoundObserver
}

// New creates a simulator for proposal. Initial scores are the cosine
// similarity between each member's ideal vector and the proposal, plus the
// member's bias. All votes start as Abstain.
func New(g *congress.Graph, proposal []float64, cfg Config) (*Simulator, error) {
	n := g.Len()
	scores := make([]float64, n)
	for i, m := range g.Members() {
		alignment, err := vecmath.CosineSimilarity(m.Ideal, proposal)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", m.ID, err)
		}
		scores[i] = alignment + m.Bias
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Simulator{
		graph:    g,
		proposal: append([]float64(nil), proposal...),
		scores:   scores,
		votes:    make([]Vote, n),
		rng:      cfg.Rand,
		logger:   logger,
		observer: cfg.Observer,
	}, nil
}

// Run performs maxRounds rounds of social updating and then fixes every
// member's vote against threshold. A negative maxRounds is treated as zero.
// threshold should be non-negative; it is not validated.
func (s *Simulator) Run(maxRounds int, threshold float64) {
	order := make([]congress.Handle, s.graph.Len())
	for i := range order {
		order[i] = congress.Handle(i)
	}

	for round := 0; round < maxRounds; round++ {
		s.shuffle(order)

		for _, h := range order {
			pressure := s.peerPressure(h) + s.partyPressure(h)
			s.update(h, pressure)
		}

		s.logger.Debug("round complete", "round", round+1, "members", len(order))
		if s.observer != nil {
			s.observer(round+1, order, s.scores)
		}
	}

	for i, score := range s.scores {
		s.votes[i] = decide(score, threshold)
	}
}

// shuffle permutes order in place using the configured source.
func (s *Simulator) shuffle(order []congress.Handle) {
	swap := func(i, j int) { order[i], order[j] = order[j], order[i] }
	if s.rng != nil {
		s.rng.Shuffle(len(order), swap)
		return
	}
	rand.Shuffle(len(order), swap)
}

// peerPressure is the weighted mean sign of the current scores of every
// member with an edge into h.
func (s *Simulator) peerPressure(h congress.Handle) float64 {
	var weighted, total float64
	for _, e := range s.graph.Incoming(h) {
		weighted += e.Weight * vecmath.Sign(s.scores[e.From])
		total += e.Weight
	}
	if math.Abs(total) <= vecmath.Epsilon {
		return 0
	}
	return weighted / total
}

// partyPressure is the party's discipline times the mean sign of its
// members' current scores.
func (s *Simulator) partyPressure(h congress.Handle) float64 {
	idx, ok := s.graph.PartyOf(h)
	if !ok {
		return 0
	}
	party, ok := s.graph.Party(idx)
	if !ok || len(party.Members) == 0 {
		return 0
	}

	var sum float64
	for _, m := range party.Members {
		sum += vecmath.Sign(s.scores[m])
	}
	return party.Discipline * (sum / float64(len(party.Members)))
}

// update blends h's score toward pressure by the member's swing factor.
func (s *Simulator) update(h congress.Handle, pressure float64) {
	swing := s.graph.Member(h).Swing
	s.scores[h] = (1-swing)*s.scores[h] + swing*pressure
}

// Votes returns every member's vote keyed by member id.
func (s *Simulator) Votes() map[string]Vote {
	out := make(map[string]Vote, len(s.votes))
	for i, m := range s.graph.Members() {
		out[m.ID] = s.votes[i]
	}
	return out
}

// Vote returns the vote of the member at h.
func (s *Simulator) Vote(h congress.Handle) Vote {
	return s.votes[h]
}

// Score returns the current score of the member at h.
func (s *Simulator) Score(h congress.Handle) float64 {
	return s.scores[h]
}

// Scores returns a copy of all scores in handle order.
func (s *Simulator) Scores() []float64 {
	return append([]float64(nil), s.scores...)
}

// Proposal returns the proposal vector the simulator was built with.
func (s *Simulator) Proposal() []float64 {
	return s.proposal
}

// Tally counts the current votes.
func (s *Simulator) Tally() majority.Tally {
	var t majority.Tally
	for _, v := range s.votes {
		switch v {
		case Yes:
			t.Yes++
		case No:
			t.No++
		default:
			t.Abstain++
		}
	}
	return t
}

// Passes reports whether the current votes carry the proposal under rule.
func (s *Simulator) Passes(rule majority.Rule) bool {
	return majority.Passes(rule, s.Tally())
}

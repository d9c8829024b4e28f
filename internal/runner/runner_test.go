package runner

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/logging"
	"github.com/nvandessel/polisim/internal/majority"
	"github.com/nvandessel/polisim/internal/sim"
	"github.com/nvandessel/polisim/internal/vecmath"
)

func seedPtr(s uint64) *uint64 { return &s }

// threeMembers builds A, B and C with unit ideals along separate axes;
// A and B share a party and A influences B.
func threeMembers() *congress.Graph {
	g := congress.New()
	a := g.AddMember(congress.Member{ID: "A", Ideal: []float64{1, 0, 0}, Swing: 0.5})
	b := g.AddMember(congress.Member{ID: "B", Ideal: []float64{0, 1, 0}, Bias: 1, Swing: 0.5})
	c := g.AddMember(congress.Member{ID: "C", Ideal: []float64{0, 0, 1}, Swing: 0.5})
	g.AddEdge(a, b, 1)
	g.AddParty(congress.Party{ID: "P", Discipline: 1, Members: []congress.Handle{a, b}})
	_ = c
	return g
}

func TestExecute_FixedProposal(t *testing.T) {
	g := threeMembers()

	res, err := Execute(g, Options{
		Proposal:  []float64{1, 1, 1},
		Rounds:    0,
		Threshold: 0.1,
		Rule:      majority.Simple,
		Seed:      seedPtr(7),
		RunID:     "fixed",
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.RunID != "fixed" || res.Seed != 7 {
		t.Errorf("RunID/Seed = %q/%d, want fixed/7", res.RunID, res.Seed)
	}
	if len(res.Members) != 3 {
		t.Fatalf("members = %d, want 3", len(res.Members))
	}
	for i, id := range []string{"A", "B", "C"} {
		if res.Members[i].ID != id {
			t.Errorf("members[%d] = %s, want %s", i, res.Members[i].ID, id)
		}
	}

	want := 1 / math.Sqrt(3)
	if math.Abs(res.Members[0].Score-want) > 1e-12 {
		t.Errorf("A score = %v, want %v", res.Members[0].Score, want)
	}
	if math.Abs(res.Members[1].Score-(want+1)) > 1e-12 {
		t.Errorf("B score = %v, want %v", res.Members[1].Score, want+1)
	}
	if res.Tally != (majority.Tally{Yes: 3}) {
		t.Errorf("tally = %+v, want 3 yes", res.Tally)
	}
	if !res.Passed {
		t.Error("expected proposal to pass")
	}
	for _, r := range majority.Rules {
		if !res.Rules[r.String()] {
			t.Errorf("rule %s should pass with unanimous yes", r)
		}
	}
}

func TestExecute_RandomProposalWithinRange(t *testing.T) {
	res, err := Execute(threeMembers(), Options{Range: 0.5, Rounds: 3, Threshold: 0.1, Seed: seedPtr(1)})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(res.Proposal) != 3 {
		t.Fatalf("proposal dimension = %d, want 3", len(res.Proposal))
	}
	for _, x := range res.Proposal {
		if x < -0.5 || x >= 0.5 {
			t.Errorf("proposal entry %v outside [-0.5, 0.5)", x)
		}
	}
}

func TestExecute_SameSeedSameResult(t *testing.T) {
	g := threeMembers()
	opts := Options{Range: 1, Rounds: 5, Threshold: 0.1, Seed: seedPtr(99)}

	first, err := Execute(g, opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	second, err := Execute(g, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}

	for i := range first.Members {
		if first.Members[i] != second.Members[i] {
			t.Errorf("member %d differs: %+v vs %+v", i, first.Members[i], second.Members[i])
		}
	}
	if first.RunID == second.RunID {
		t.Error("generated run ids should differ between runs")
	}
}

func TestExecute_SeedReportedWhenUnset(t *testing.T) {
	g := threeMembers()
	res, err := Execute(g, Options{Range: 1, Rounds: 2, Threshold: 0.1})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	replay, err := Execute(g, Options{Range: 1, Rounds: 2, Threshold: 0.1, Seed: seedPtr(res.Seed)})
	if err != nil {
		t.Fatalf("replay Execute() error = %v", err)
	}
	for i := range res.Proposal {
		if res.Proposal[i] != replay.Proposal[i] {
			t.Fatalf("replay proposal %v != %v", replay.Proposal, res.Proposal)
		}
	}
}

func TestExecute_Errors(t *testing.T) {
	g := threeMembers()

	if _, err := Execute(g, Options{Proposal: []float64{1, 2}}); !errors.Is(err, vecmath.ErrDimensionMismatch) {
		t.Errorf("wrong proposal dimension error = %v, want ErrDimensionMismatch", err)
	}
	if _, err := Execute(g, Options{Range: 0}); err == nil {
		t.Error("expected error for non-positive range")
	}
}

func TestExecute_WritesTrace(t *testing.T) {
	dir := t.TempDir()
	trace := logging.NewRoundLogger(dir, "debug")

	_, err := Execute(threeMembers(), Options{
		Range: 1, Rounds: 4, Threshold: 0.1, Seed: seedPtr(3), RunID: "traced", Trace: trace,
	})
	trace.Close()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "rounds.jsonl"))
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("trace lines = %d, want 4", len(lines))
	}
	if !strings.Contains(lines[0], `"run_id":"traced"`) {
		t.Errorf("trace line missing run id: %s", lines[0])
	}
}

func TestResult_Votes(t *testing.T) {
	r := &Result{Members: []MemberResult{{ID: "x", Vote: sim.Yes}, {ID: "y", Vote: sim.No}}}
	votes := r.Votes()
	if votes["x"] != sim.Yes || votes["y"] != sim.No || len(votes) != 2 {
		t.Errorf("Votes() = %v", votes)
	}
}

package visualization

import (
	"strings"
	"testing"

	"github.com/awalterschulze/gographviz"

	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/sim"
)

// buildTestGraph returns a small congress: two parties, one independent,
// and two edges.
func buildTestGraph(t *testing.T) *congress.Graph {
	t.Helper()
	g := congress.New()
	a1 := g.AddMember(congress.Member{ID: "A1", Ideal: []float64{1, 0}, Swing: 0.5})
	a2 := g.AddMember(congress.Member{ID: "A2", Ideal: []float64{0, 1}, Bias: 0.1, Swing: 0.3})
	b1 := g.AddMember(congress.Member{ID: "B1", Ideal: []float64{-1, 0}, Swing: 0.2})
	g.AddMember(congress.Member{ID: "I1", Ideal: []float64{1, 1}})
	g.AddEdge(a1, a2, 0.5)
	g.AddEdge(b1, a2, 0.2)
	g.AddParty(congress.Party{ID: "Left", Discipline: 0.8, Members: []congress.Handle{a1, a2}})
	g.AddParty(congress.Party{ID: "Right", Discipline: 0.6, Members: []congress.Handle{b1}})
	return g
}

func parseDOT(t *testing.T, dot string) *gographviz.Graph {
	t.Helper()
	ast, err := gographviz.ParseString(dot)
	if err != nil {
		t.Fatalf("output is not valid DOT: %v\n%s", err, dot)
	}
	parsed := gographviz.NewGraph()
	if err := gographviz.Analyse(ast, parsed); err != nil {
		t.Fatalf("analyse DOT: %v\n%s", err, dot)
	}
	return parsed
}

func unquote(s string) string {
	return strings.Trim(s, `"`)
}

func TestRenderDOT_EmptyGraph(t *testing.T) {
	dot, err := RenderDOT(congress.New(), nil)
	if err != nil {
		t.Fatalf("RenderDOT() error = %v", err)
	}
	if !strings.Contains(dot, "digraph polisim") {
		t.Errorf("expected digraph header, got:\n%s", dot)
	}

	parsed := parseDOT(t, dot)
	if len(parsed.Nodes.Nodes) != 0 {
		t.Errorf("nodes = %d, want 0", len(parsed.Nodes.Nodes))
	}
}

func TestRenderDOT_NodesEdgesAndClusters(t *testing.T) {
	g := buildTestGraph(t)

	dot, err := RenderDOT(g, nil)
	if err != nil {
		t.Fatalf("RenderDOT() error = %v", err)
	}

	parsed := parseDOT(t, dot)
	if !parsed.Directed {
		t.Error("expected a directed graph")
	}

	for _, id := range []string{"A1", "A2", "B1", "I1"} {
		if _, ok := parsed.Nodes.Lookup[id]; !ok {
			t.Errorf("missing node %s in:\n%s", id, dot)
		}
	}
	if len(parsed.Edges.Edges) != 2 {
		t.Fatalf("edges = %d, want 2", len(parsed.Edges.Edges))
	}

	var found bool
	for _, e := range parsed.Edges.Edges {
		if e.Src == "A1" && e.Dst == "A2" {
			found = true
			if got := unquote(e.Attrs["label"]); got != "0.5" {
				t.Errorf("A1->A2 label = %q, want 0.5", got)
			}
		}
	}
	if !found {
		t.Error("missing edge A1 -> A2")
	}

	for _, cluster := range []string{"cluster_Left", "cluster_Right"} {
		if _, ok := parsed.SubGraphs.SubGraphs[cluster]; !ok {
			t.Errorf("missing subgraph %s", cluster)
		}
	}
	if !parsed.Relations.ParentToChildren["cluster_Left"]["A1"] {
		t.Error("A1 should be inside cluster_Left")
	}
	if !parsed.Relations.ParentToChildren["cluster_Right"]["B1"] {
		t.Error("B1 should be inside cluster_Right")
	}
	if parsed.Relations.ParentToChildren["cluster_Left"]["I1"] {
		t.Error("independent member should not be in a party cluster")
	}

	for _, n := range parsed.Nodes.Nodes {
		if got := unquote(n.Attrs["fillcolor"]); got != unknownColor {
			t.Errorf("node %s fillcolor = %q, want %q without votes", n.Name, got, unknownColor)
		}
	}
}

func TestRenderDOT_DuplicatePartyIDsKeepSeparateClusters(t *testing.T) {
	g := congress.New()
	x := g.AddMember(congress.Member{ID: "X", Ideal: []float64{1}})
	y := g.AddMember(congress.Member{ID: "Y", Ideal: []float64{1}})
	g.AddParty(congress.Party{ID: "P", Discipline: 0.5, Members: []congress.Handle{x}})
	g.AddParty(congress.Party{ID: "P", Discipline: 0.9, Members: []congress.Handle{y}})

	dot, err := RenderDOT(g, nil)
	if err != nil {
		t.Fatalf("RenderDOT() error = %v", err)
	}
	parsed := parseDOT(t, dot)

	if len(parsed.SubGraphs.SubGraphs) != 2 {
		t.Fatalf("subgraphs = %d, want 2\n%s", len(parsed.SubGraphs.SubGraphs), dot)
	}
	if !parsed.Relations.ParentToChildren["cluster_P"]["X"] {
		t.Error("X should be inside cluster_P")
	}
	if !parsed.Relations.ParentToChildren["cluster_P_1"]["Y"] {
		t.Error("Y should be inside cluster_P_1")
	}
	if parsed.Relations.ParentToChildren["cluster_P"]["Y"] {
		t.Error("Y leaked into the first P cluster")
	}
}

func TestRenderDOT_VoteColors(t *testing.T) {
	g := buildTestGraph(t)
	votes := map[string]sim.Vote{
		"A1": sim.Yes,
		"A2": sim.No,
		"B1": sim.Abstain,
	}

	dot, err := RenderDOT(g, votes)
	if err != nil {
		t.Fatalf("RenderDOT() error = %v", err)
	}

	parsed := parseDOT(t, dot)
	tests := []struct {
		id    string
		color string
		label string
	}{
		{"A1", "palegreen", "A1 YES"},
		{"A2", "lightcoral", "A2 NO"},
		{"B1", "lightgray", "B1 ABSTAIN"},
		{"I1", unknownColor, ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			n, ok := parsed.Nodes.Lookup[tt.id]
			if !ok {
				t.Fatalf("missing node %s", tt.id)
			}
			if got := unquote(n.Attrs["fillcolor"]); got != tt.color {
				t.Errorf("fillcolor = %q, want %q", got, tt.color)
			}
			if got := unquote(n.Attrs["label"]); got != tt.label {
				t.Errorf("label = %q, want %q", got, tt.label)
			}
		})
	}
}

func TestRenderDOT_QuotesAwkwardIDs(t *testing.T) {
	g := congress.New()
	a := g.AddMember(congress.Member{ID: "Rep. Smith", Ideal: []float64{1}})
	b := g.AddMember(congress.Member{ID: "Sen-Jones", Ideal: []float64{1}})
	g.AddEdge(a, b, 1)
	g.AddParty(congress.Party{ID: "Grand Old", Members: []congress.Handle{a, b}})

	dot, err := RenderDOT(g, nil)
	if err != nil {
		t.Fatalf("RenderDOT() error = %v", err)
	}

	parsed := parseDOT(t, dot)
	if len(parsed.Nodes.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2:\n%s", len(parsed.Nodes.Nodes), dot)
	}
	if len(parsed.Edges.Edges) != 1 {
		t.Errorf("edges = %d, want 1:\n%s", len(parsed.Edges.Edges), dot)
	}
}

func TestRenderJSON(t *testing.T) {
	g := buildTestGraph(t)
	votes := map[string]sim.Vote{"A1": sim.Yes, "B1": sim.No}

	doc := RenderJSON(g, votes)

	if doc.NodeCount != 4 || len(doc.Nodes) != 4 {
		t.Fatalf("node_count = %d, nodes = %d, want 4", doc.NodeCount, len(doc.Nodes))
	}
	if doc.EdgeCount != 2 || len(doc.Edges) != 2 {
		t.Fatalf("edge_count = %d, edges = %d, want 2", doc.EdgeCount, len(doc.Edges))
	}
	if len(doc.Parties) != 2 {
		t.Fatalf("parties = %d, want 2", len(doc.Parties))
	}

	tests := []struct {
		index int
		id    string
		party string
		vote  string
	}{
		{0, "A1", "Left", "YES"},
		{1, "A2", "Left", ""},
		{2, "B1", "Right", "NO"},
		{3, "I1", "", ""},
	}
	for _, tt := range tests {
		n := doc.Nodes[tt.index]
		if n.ID != tt.id || n.Party != tt.party || n.Vote != tt.vote {
			t.Errorf("node[%d] = {%s %s %s}, want {%s %s %s}",
				tt.index, n.ID, n.Party, n.Vote, tt.id, tt.party, tt.vote)
		}
	}

	if e := doc.Edges[1]; e.Source != "B1" || e.Target != "A2" || e.Weight != 0.2 {
		t.Errorf("edge[1] = %+v, want B1 -> A2 (0.2)", e)
	}
	if p := doc.Parties[0]; p.ID != "Left" || p.Discipline != 0.8 || len(p.Members) != 2 || p.Members[1] != "A2" {
		t.Errorf("party[0] = %+v, want Left 0.8 [A1 A2]", p)
	}
}

func TestRenderJSON_NoVotes(t *testing.T) {
	doc := RenderJSON(buildTestGraph(t), nil)
	for _, n := range doc.Nodes {
		if n.Vote != "" {
			t.Errorf("node %s vote = %q, want empty", n.ID, n.Vote)
		}
	}
}

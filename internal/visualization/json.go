package visualization

import (
	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/sim"
)

// Document is the JSON form of a congress graph.
type Document struct {
	Nodes     []Node  `json:"nodes"`
	Edges     []Edge  `json:"edges"`
	Parties   []Party `json:"parties"`
	NodeCount int     `json:"node_count"`
	EdgeCount int     `json:"edge_count"`
}

// Node is one member in a Document.
type Node struct {
	ID    string    `json:"id"`
	Party string    `json:"party,omitempty"`
	Ideal []float64 `json:"ideal"`
	Bias  float64   `json:"bias"`
	Swing float64   `json:"swing"`
	Vote  string    `json:"vote,omitempty"`
}

// Edge is one directed influence edge in a Document.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// Party is one party in a Document.
type Party struct {
	ID         string   `json:"id"`
	Discipline float64  `json:"discipline"`
	Members    []string `json:"members"`
}

// RenderJSON produces a JSON-ready graph document with nodes, edges and
// parties. Votes are attached to nodes when votes is non-nil.
func RenderJSON(g *congress.Graph, votes map[string]sim.Vote) Document {
	parties := g.Parties()

	doc := Document{
		Nodes:   make([]Node, 0, g.Len()),
		Edges:   make([]Edge, 0, len(g.Edges())),
		Parties: make([]Party, 0, len(parties)),
	}

	for i, m := range g.Members() {
		n := Node{
			ID:    m.ID,
			Ideal: m.Ideal,
			Bias:  m.Bias,
			Swing: m.Swing,
		}
		if idx, ok := g.PartyOf(congress.Handle(i)); ok {
			n.Party = parties[idx].ID
		}
		if v, ok := votes[m.ID]; ok {
			n.Vote = v.String()
		}
		doc.Nodes = append(doc.Nodes, n)
	}

	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, Edge{
			Source: g.Member(e.From).ID,
			Target: g.Member(e.To).ID,
			Weight: e.Weight,
		})
	}

	for _, p := range parties {
		ids := make([]string, len(p.Members))
		for i, h := range p.Members {
			ids[i] = g.Member(h).ID
		}
		doc.Parties = append(doc.Parties, Party{
			ID:         p.ID,
			Discipline: p.Discipline,
			Members:    ids,
		})
	}

	doc.NodeCount = len(doc.Nodes)
	doc.EdgeCount = len(doc.Edges)
	return doc
}

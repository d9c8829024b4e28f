// Package visualization renders congress graphs in various output formats.
package visualization

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/sim"
)

// Format specifies the output format for graph rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// graphName is the name of the top-level DOT digraph.
const graphName = "polisim"

// voteColors maps votes to DOT fill colors.
var voteColors = map[sim.Vote]string{
	sim.Yes:     "palegreen",
	sim.No:      "lightcoral",
	sim.Abstain: "lightgray",
}

// unknownColor fills members when no votes were supplied.
const unknownColor = "white"

// RenderDOT produces a Graphviz DOT representation of the congress. Parties
// become clusters, edges are labelled with their weight, and members are
// filled by vote when votes is non-nil.
func RenderDOT(g *congress.Graph, votes map[string]sim.Vote) (string, error) {
	out := gographviz.NewEscape()
	if err := out.SetName(graphName); err != nil {
		return "", fmt.Errorf("set graph name: %w", err)
	}
	if err := out.SetDir(true); err != nil {
		return "", fmt.Errorf("set directed: %w", err)
	}
	if err := out.AddAttr(graphName, "rankdir", "LR"); err != nil {
		return "", fmt.Errorf("set rankdir: %w", err)
	}

	// A member belongs to at most one party, so each node gets one parent.
	parent := make([]string, g.Len())
	for i := range parent {
		parent[i] = graphName
	}
	clusters := make(map[string]bool, len(g.Parties()))
	for i, p := range g.Parties() {
		cluster := "cluster_" + p.ID
		if clusters[cluster] {
			cluster = fmt.Sprintf("%s_%d", cluster, i)
		}
		clusters[cluster] = true
		attrs := map[string]string{
			"label": fmt.Sprintf("%s (discipline %s)", p.ID, formatFloat(p.Discipline)),
			"style": "rounded",
		}
		if err := out.AddSubGraph(graphName, cluster, attrs); err != nil {
			return "", fmt.Errorf("add party %q: %w", p.ID, err)
		}
		for _, h := range p.Members {
			if idx, ok := g.PartyOf(h); ok && idx == i {
				parent[h] = cluster
			}
		}
	}

	for i, m := range g.Members() {
		attrs := map[string]string{
			"shape":     "box",
			"style":     "filled",
			"fillcolor": unknownColor,
			"tooltip":   fmt.Sprintf("bias=%s swing=%s", formatFloat(m.Bias), formatFloat(m.Swing)),
		}
		if votes != nil {
			if v, ok := votes[m.ID]; ok {
				attrs["fillcolor"] = voteColors[v]
				attrs["label"] = m.ID + " " + v.String()
			}
		}
		if err := out.AddNode(parent[i], m.ID, attrs); err != nil {
			return "", fmt.Errorf("add member %q: %w", m.ID, err)
		}
	}

	for _, e := range g.Edges() {
		from, to := g.Member(e.From).ID, g.Member(e.To).ID
		attrs := map[string]string{"label": formatFloat(e.Weight)}
		if err := out.AddEdge(from, to, true, attrs); err != nil {
			return "", fmt.Errorf("add edge %s -> %s: %w", from, to, err)
		}
	}

	return out.String(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 4, 64)
}

package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/awalterschulze/gographviz"

	"github.com/nvandessel/polisim/internal/visualization"
)

func TestGraphCmd_DOT(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	roster := writeRoster(t, tmpDir)

	out, err := execute(t, newGraphCmd(), "-c", roster)
	if err != nil {
		t.Fatalf("graph failed: %v", err)
	}

	ast, err := gographviz.ParseString(out)
	if err != nil {
		t.Fatalf("output is not valid DOT: %v\n%s", err, out)
	}
	g := gographviz.NewGraph()
	if err := gographviz.Analyse(ast, g); err != nil {
		t.Fatalf("analyse DOT: %v", err)
	}
	for _, id := range []string{"A1", "A2", "B1"} {
		if g.Nodes.Lookup[id] == nil {
			t.Errorf("node %s missing", id)
		}
	}
	if len(g.Edges.Edges) != 1 {
		t.Errorf("edges = %d, want 1", len(g.Edges.Edges))
	}
}

func TestGraphCmd_JSONWithSimulation(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	roster := writeRoster(t, tmpDir)

	out, err := execute(t, newGraphCmd(), "-c", roster, "--format", "json", "--simulate", "--seed", "4")
	if err != nil {
		t.Fatalf("graph failed: %v", err)
	}

	var doc visualization.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.NodeCount != 3 || doc.EdgeCount != 1 {
		t.Errorf("counts = %d nodes %d edges, want 3 and 1", doc.NodeCount, doc.EdgeCount)
	}
	for _, n := range doc.Nodes {
		if n.Vote == "" {
			t.Errorf("node %s has no vote after --simulate", n.ID)
		}
	}
}

func TestGraphCmd_JSONFlagImpliesJSON(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	roster := writeRoster(t, tmpDir)

	out, err := execute(t, newGraphCmd(), "-c", roster, "--json")
	if err != nil {
		t.Fatalf("graph failed: %v", err)
	}
	var doc visualization.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, n := range doc.Nodes {
		if n.Vote != "" {
			t.Errorf("node %s has vote %q without --simulate", n.ID, n.Vote)
		}
	}
}

func TestGraphCmd_UnknownFormat(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	roster := writeRoster(t, tmpDir)

	_, err := execute(t, newGraphCmd(), "-c", roster, "--format", "svg")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("error = %v, want unsupported format", err)
	}
}

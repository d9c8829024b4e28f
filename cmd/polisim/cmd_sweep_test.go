package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/nvandessel/polisim/internal/sweep"
)

func TestSweepCmd_JSON(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	roster := writeRoster(t, tmpDir)

	run := func(workers string) sweep.Summary {
		out, err := execute(t, newSweepCmd(), "-c", roster, "--runs", "40", "--seed", "11", "--workers", workers, "--json")
		if err != nil {
			t.Fatalf("sweep failed: %v", err)
		}
		var s sweep.Summary
		if err := json.Unmarshal([]byte(out), &s); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		return s
	}

	one, four := run("1"), run("4")
	if one.Runs != 40 || one.Seed != 11 {
		t.Errorf("summary = runs %d seed %d, want 40 11", one.Runs, one.Seed)
	}
	if len(one.Rules) != 5 {
		t.Fatalf("rules = %d, want 5", len(one.Rules))
	}
	if one.MeanYesShare != four.MeanYesShare {
		t.Errorf("mean yes share depends on workers: %v vs %v", one.MeanYesShare, four.MeanYesShare)
	}
	for i := range one.Rules {
		if one.Rules[i] != four.Rules[i] {
			t.Errorf("rule %d differs: %+v vs %+v", i, one.Rules[i], four.Rules[i])
		}
		if r := one.Rules[i].PassRate; r < 0 || r > 1 {
			t.Errorf("%s pass rate = %v, out of [0, 1]", one.Rules[i].Rule, r)
		}
	}
}

func TestSweepCmd_Text(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	roster := writeRoster(t, tmpDir)

	out, err := execute(t, newSweepCmd(), "-c", roster, "--runs", "10", "--seed", "2")
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	for _, want := range []string{"Sweep of 10 runs (seed 2)", "Mean YES share", "simple", "unanimity"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSweepCmd_InvalidRuns(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	roster := writeRoster(t, tmpDir)

	if _, err := execute(t, newSweepCmd(), "-c", roster, "--runs", "0"); err == nil {
		t.Fatal("expected error for zero runs")
	}
}

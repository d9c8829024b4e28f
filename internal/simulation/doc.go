// Package simulation provides a scenario test harness for validating the
// emergent voting dynamics of a congress.
//
// The harness exercises the real roster validator, graph builder and
// simulator, and optionally the SQLite roster store. No mocks. Scenarios are
// Go builders describing members, parties, edges and a proposal; the runner
// executes one or more seeded runs and records every member's score after
// each round, so tests can assert on trajectories as well as final votes.
//
// Each runner gets an isolated temp directory via t.TempDir() and a
// sandboxed HOME to prevent touching user data.
//
// Usage:
//
//	func TestDisciplineDragsDissenter(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:      "discipline",
//	        Dimension: 1,
//	        Members:   []models.MemberSpec{...},
//	        Parties:   []models.PartySpec{...},
//	        Proposal:  []float64{1},
//	        Rounds:    10,
//	        Threshold: 0.1,
//	    })
//	    simulation.AssertVote(t, result, 0, "dissenter", sim.Yes)
//	}
package simulation

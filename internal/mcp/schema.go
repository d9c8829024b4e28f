// Package mcp provides an MCP (Model Context Protocol) server for polisim.
package mcp

import (
	"github.com/nvandessel/polisim/internal/majority"
)

// Tool names.
const (
	toolSimulate = "polisim_simulate"
	toolValidate = "polisim_validate"
	toolGraph    = "polisim_graph"
)

// SimulateInput defines the input for the polisim_simulate tool.
type SimulateInput struct {
	Config    string    `json:"config" jsonschema:"Roster file (toml, yaml, json or sqlite) relative to the server root"`
	Proposal  []float64 `json:"proposal,omitempty" jsonschema:"Proposal vector; a random one is drawn when omitted"`
	Range     *float64  `json:"range,omitempty" jsonschema:"Random proposal entries are drawn from [-range, range)"`
	Rounds    *int      `json:"rounds,omitempty" jsonschema:"Number of influence rounds"`
	Threshold *float64  `json:"threshold,omitempty" jsonschema:"Abstention half-width around zero"`
	Rule      string    `json:"rule,omitempty" jsonschema:"Majority rule: simple, super, abs-simple, abs-super or unanimity"`
	Seed      *uint64   `json:"seed,omitempty" jsonschema:"Random seed for a reproducible run"`
}

// SimulateOutput defines the output for the polisim_simulate tool.
type SimulateOutput struct {
	RunID     string          `json:"run_id" jsonschema:"Identifier of this run"`
	Seed      uint64          `json:"seed" jsonschema:"Seed that reproduces this run"`
	Proposal  []float64       `json:"proposal" jsonschema:"Proposal vector that was voted on"`
	Rounds    int             `json:"rounds"`
	Threshold float64         `json:"threshold"`
	Rule      string          `json:"rule" jsonschema:"Majority rule used for the verdict"`
	Members   []MemberVote    `json:"members" jsonschema:"Final vote and score of every member, sorted by id"`
	Tally     majority.Tally  `json:"tally"`
	Passed    bool            `json:"passed" jsonschema:"Whether the proposal carries under rule"`
	Rules     map[string]bool `json:"rules" jsonschema:"Verdict under every majority rule"`
}

// MemberVote is one member's final state in a SimulateOutput.
type MemberVote struct {
	ID    string  `json:"id"`
	Vote  string  `json:"vote" jsonschema:"YES, NO or ABSTAIN"`
	Score float64 `json:"score"`
}

// ValidateInput defines the input for the polisim_validate tool.
type ValidateInput struct {
	Config string `json:"config" jsonschema:"Roster file relative to the server root"`
}

// ValidateOutput defines the output for the polisim_validate tool.
type ValidateOutput struct {
	Valid     bool   `json:"valid" jsonschema:"Whether the roster loads into a congress"`
	Dimension int    `json:"dimension,omitempty"`
	Members   int    `json:"members,omitempty"`
	Parties   int    `json:"parties,omitempty"`
	Edges     int    `json:"edges,omitempty"`
	Error     string `json:"error,omitempty" jsonschema:"Why the roster was rejected"`
	Message   string `json:"message" jsonschema:"Human-readable summary"`
}

// GraphInput defines the input for the polisim_graph tool.
type GraphInput struct {
	Config string `json:"config" jsonschema:"Roster file relative to the server root"`
	Format string `json:"format,omitempty" jsonschema:"Output format: dot or json (default json)"`
}

// GraphOutput defines the output for the polisim_graph tool.
type GraphOutput struct {
	Format    string `json:"format"`
	Graph     any    `json:"graph" jsonschema:"DOT source or JSON graph document"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/polisim/internal/congress"
	"github.com/nvandessel/polisim/internal/loader"
	"github.com/nvandessel/polisim/internal/majority"
	"github.com/nvandessel/polisim/internal/models"
	"github.com/nvandessel/polisim/internal/pathutil"
	"github.com/nvandessel/polisim/internal/runner"
	"github.com/nvandessel/polisim/internal/visualization"
)

// registerTools registers all polisim MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        toolSimulate,
		Description: "Run a congressional vote simulation on a roster and report every member's vote and the verdict",
	}, s.handleSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        toolValidate,
		Description: "Check that a roster file parses, validates and builds into a congress",
	}, s.handleValidate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        toolGraph,
		Description: "Render a roster's influence graph in DOT (Graphviz) or JSON format",
	}, s.handleGraph)
}

// loadRoster resolves path inside the server root and loads it.
func (s *Server) loadRoster(path string) (*congress.Graph, *models.Roster, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("config is required")
	}
	resolved, err := pathutil.ResolveWithin(s.root, path)
	if err != nil {
		return nil, nil, err
	}
	return loader.Load(resolved)
}

// optional dereferences p for audit logging, returning nil when unset.
func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// handleSimulate implements the polisim_simulate tool. Unset arguments fall
// back to the server's simulation settings.
func (s *Server) handleSimulate(ctx context.Context, req *sdk.CallToolRequest, args SimulateInput) (_ *sdk.CallToolResult, _ SimulateOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(toolSimulate, start, retErr, sanitizeToolParams(map[string]any{
			"config":    args.Config,
			"proposal":  args.Proposal,
			"range":     optional(args.Range),
			"rounds":    optional(args.Rounds),
			"threshold": optional(args.Threshold),
			"rule":      args.Rule,
			"seed":      optional(args.Seed),
		}))
	}()

	if err := s.limits.Check(toolSimulate); err != nil {
		return nil, SimulateOutput{}, err
	}

	defaults := s.settings.Simulation
	opts := runner.Options{
		Proposal:  args.Proposal,
		Range:     defaults.Range,
		Rounds:    defaults.Rounds,
		Threshold: defaults.Threshold,
		Seed:      defaults.Seed,
		Logger:    s.logger,
	}
	if args.Range != nil {
		opts.Range = *args.Range
	}
	if args.Rounds != nil {
		opts.Rounds = *args.Rounds
	}
	if args.Threshold != nil {
		opts.Threshold = *args.Threshold
	}
	if args.Seed != nil {
		opts.Seed = args.Seed
	}
	if opts.Rounds < 0 {
		return nil, SimulateOutput{}, fmt.Errorf("rounds must be non-negative, got %d", opts.Rounds)
	}
	if opts.Threshold < 0 {
		return nil, SimulateOutput{}, fmt.Errorf("threshold must be non-negative, got %g", opts.Threshold)
	}

	ruleName := args.Rule
	if ruleName == "" {
		ruleName = defaults.Rule
	}
	rule, err := majority.ParseRule(ruleName)
	if err != nil {
		return nil, SimulateOutput{}, err
	}
	opts.Rule = rule

	g, _, err := s.loadRoster(args.Config)
	if err != nil {
		return nil, SimulateOutput{}, err
	}

	res, err := runner.Execute(g, opts)
	if err != nil {
		return nil, SimulateOutput{}, err
	}

	members := make([]MemberVote, len(res.Members))
	for i, m := range res.Members {
		members[i] = MemberVote{ID: m.ID, Vote: m.Vote.String(), Score: m.Score}
	}

	return nil, SimulateOutput{
		RunID:     res.RunID,
		Seed:      res.Seed,
		Proposal:  res.Proposal,
		Rounds:    res.Rounds,
		Threshold: res.Threshold,
		Rule:      res.Rule,
		Members:   members,
		Tally:     res.Tally,
		Passed:    res.Passed,
		Rules:     res.Rules,
	}, nil
}

// handleValidate implements the polisim_validate tool. Roster problems are
// reported in the output; only path and I/O failures are returned as errors.
func (s *Server) handleValidate(ctx context.Context, req *sdk.CallToolRequest, args ValidateInput) (_ *sdk.CallToolResult, _ ValidateOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(toolValidate, start, retErr, sanitizeToolParams(map[string]any{
			"config": args.Config,
		}))
	}()

	if err := s.limits.Check(toolValidate); err != nil {
		return nil, ValidateOutput{}, err
	}
	if args.Config == "" {
		return nil, ValidateOutput{}, fmt.Errorf("config is required")
	}
	resolved, err := pathutil.ResolveWithin(s.root, args.Config)
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	g, r, err := loader.Load(resolved)
	if err != nil {
		return nil, ValidateOutput{
			Valid:   false,
			Error:   err.Error(),
			Message: "Roster is invalid",
		}, nil
	}

	return nil, ValidateOutput{
		Valid:     true,
		Dimension: r.IdealDimension,
		Members:   g.Len(),
		Parties:   len(g.Parties()),
		Edges:     len(g.Edges()),
		Message: fmt.Sprintf("Roster is valid: %d member(s), %d party(ies), %d edge(s)",
			g.Len(), len(g.Parties()), len(g.Edges())),
	}, nil
}

// handleGraph implements the polisim_graph tool.
func (s *Server) handleGraph(ctx context.Context, req *sdk.CallToolRequest, args GraphInput) (_ *sdk.CallToolResult, _ GraphOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool(toolGraph, start, retErr, sanitizeToolParams(map[string]any{
			"config": args.Config,
			"format": args.Format,
		}))
	}()

	if err := s.limits.Check(toolGraph); err != nil {
		return nil, GraphOutput{}, err
	}

	format := args.Format
	if format == "" {
		format = string(visualization.FormatJSON)
	}

	g, _, err := s.loadRoster(args.Config)
	if err != nil {
		return nil, GraphOutput{}, err
	}

	switch visualization.Format(format) {
	case visualization.FormatDOT:
		dot, err := visualization.RenderDOT(g, nil)
		if err != nil {
			return nil, GraphOutput{}, fmt.Errorf("render DOT: %w", err)
		}
		return nil, GraphOutput{
			Format:    "dot",
			Graph:     dot,
			NodeCount: g.Len(),
			EdgeCount: len(g.Edges()),
		}, nil

	case visualization.FormatJSON:
		doc := visualization.RenderJSON(g, nil)
		return nil, GraphOutput{
			Format:    "json",
			Graph:     doc,
			NodeCount: doc.NodeCount,
			EdgeCount: doc.EdgeCount,
		}, nil

	default:
		return nil, GraphOutput{}, fmt.Errorf("unsupported format %q (use 'dot' or 'json')", format)
	}
}

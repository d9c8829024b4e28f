package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nvandessel/polisim/internal/config"
	"github.com/nvandessel/polisim/internal/constants"
	"github.com/nvandessel/polisim/internal/ratelimit"
)

// Server wraps the MCP SDK server and exposes polisim's simulation tools.
type Server struct {
	server      *sdk.Server
	root        string
	settings    *config.Settings
	logger      *slog.Logger
	auditLogger *AuditLogger
	limits      ratelimit.Set
}

// Config holds server configuration.
type Config struct {
	Name     string // Server name (e.g., "polisim")
	Version  string // Server version
	Root     string // Directory roster paths are resolved against
	Settings *config.Settings
	Logger   *slog.Logger
}

// defaultLimits are generous enough for interactive use.
var defaultLimits = map[string]ratelimit.Limit{
	toolSimulate: ratelimit.PerMinute(60, 10),
	toolValidate: ratelimit.PerMinute(60, 10),
	toolGraph:    ratelimit.PerMinute(30, 5),
}

// NewServer creates a new MCP server with polisim tools.
func NewServer(cfg *Config) (*Server, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving server root: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("server root %s is not a directory", root)
	}

	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			logger.Debug("mcp client initialized")
		},
	})

	s := &Server{
		server:      mcpServer,
		root:        root,
		settings:    settings,
		logger:      logger,
		auditLogger: NewAuditLogger(filepath.Join(root, constants.SettingsDirName)),
		limits:      ratelimit.NewSet(defaultLimits),
	}

	s.registerTools()
	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})
	s.Close()
	return err
}

// Close releases the audit log.
func (s *Server) Close() error {
	return s.auditLogger.Close()
}

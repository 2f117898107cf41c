// Package server wires the dispatch core and the tool surface into an
// MCP server instance. This is the composition root: it creates the
// concrete pieces and injects them, no business logic lives here.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"pptmcp/internal/comauto"
	"pptmcp/internal/config"
	"pptmcp/internal/dispatch"
	"pptmcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with every PowerPoint tool registered and
// the executor started. The returned shutdown function stops the
// executor and releases the COM handle; it is always non-nil.
func New(cfg *config.Config, log *zap.Logger) (*server.MCPServer, func(), error) {
	connector, err := comauto.NewConnector()
	if err != nil {
		return nil, func() {}, err
	}
	return NewWithConnector(cfg, log, connector)
}

// NewWithConnector is New with the COM layer injected. Tests use it to
// run the full server against a fake.
func NewWithConnector(cfg *config.Config, log *zap.Logger, connector comauto.Connector) (*server.MCPServer, func(), error) {
	if log == nil {
		log = zap.NewNop()
	}

	mgr := dispatch.NewManager(connector, dispatch.ManagerOptions{
		ProgID:         cfg.PowerPoint.ProgID,
		Visible:        cfg.PowerPoint.Visible,
		ConnectRetries: cfg.PowerPoint.ConnectRetries,
		ConnectBackoff: cfg.GetConnectBackoff(),
		Logger:         log.Named("manager"),
	})
	exec := dispatch.NewExecutor(mgr, dispatch.Options{
		DefaultCallTimeout: cfg.GetCallTimeout(),
		StallCeiling:       cfg.GetStallCeiling(),
		StallCheckInterval: cfg.GetStallCheckInterval(),
		Logger:             log.Named("executor"),
	})
	if err := exec.Start(); err != nil {
		return nil, func() {}, fmt.Errorf("starting executor: %w", err)
	}
	shutdown := func() { exec.Shutdown(cfg.Executor.DrainOnShutdown) }

	s := server.NewMCPServer(
		cfg.Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)
	register(s, tools.Deps{Exec: exec, Log: log.Named("tools")})

	return s, shutdown, nil
}

func register(s *server.MCPServer, deps tools.Deps) {
	for _, def := range tools.All(deps) {
		s.AddTool(def.Tool, def.Handler)
	}
}

// Serve runs the server on the configured transport and blocks until the
// client disconnects or the listener fails.
func Serve(s *server.MCPServer, cfg *config.Config) error {
	switch cfg.Server.Transport {
	case "stdio":
		return server.ServeStdio(s)
	case "http":
		return server.NewStreamableHTTPServer(s).Start(cfg.Server.HTTPAddr)
	default:
		return fmt.Errorf("unknown transport %q", cfg.Server.Transport)
	}
}

func serverInstructions() string {
	return `pptmcp drives a local Microsoft PowerPoint instance over COM.

All tools run against one PowerPoint process. Connect implicitly by
calling any tool, or explicitly with ppt_connect. Most tools need an
open presentation: start with ppt_create_presentation or
ppt_open_presentation. Slide and shape indexes are 1-based. Positions
and sizes are in points (1 inch = 72 points); colors are #RRGGBB.

Calls are serialized: one operation runs at a time, in submission
order. If PowerPoint is closed between calls the server reconnects and
retries once; state held in PowerPoint (open decks, running shows) is
lost with the process.`
}

// ABOUTME: MCP server exposing the curation engine to AI agents
// ABOUTME: Provides tools for collection/source management and article triage

package mcp

import (
	"github.com/curateapp/curator/internal/engine"
	"github.com/curateapp/curator/internal/ingest"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with curator-specific context
type Server struct {
	mcpServer *server.MCPServer
	engine    *engine.Engine
	ingestor  *ingest.Ingestor
}

// NewServer creates a new MCP server instance bound to a hydrated engine
func NewServer(e *engine.Engine, ing *ingest.Ingestor) *Server {
	s := &Server{
		engine:   e,
		ingestor: ing,
	}

	s.mcpServer = server.NewMCPServer(
		"curator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools()
	s.registerResources()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// registerTools is implemented in tools.go
// registerResources is implemented in resources.go

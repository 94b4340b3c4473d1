// Package mcp exposes the analysis engine over the Model Context
// Protocol so coding agents can analyze errors and browse cached
// results from their editor.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"patrol-agent/src/engine"
	"patrol-agent/src/store"
)

// Server is the MCP server for patrol.
type Server struct {
	mcpServer *server.MCPServer
	engine    *engine.Engine
	archive   store.Store
}

// NewServer creates an MCP server over an engine and an archive. The
// archive may be nil; get_analysis then reports every lookup as absent.
func NewServer(eng *engine.Engine, archive store.Store) *Server {
	s := server.NewMCPServer(
		"patrol",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		engine:    eng,
		archive:   archive,
	}
	srv.registerTools()

	return srv
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

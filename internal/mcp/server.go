// Package mcp exposes timestamp formatting and HTML rendering as MCP tools
// over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/stamp/internal/history"
	"github.com/ziadkadry99/stamp/internal/locale"
	"github.com/ziadkadry99/stamp/internal/render"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the stamp tools.
type Server struct {
	registry *locale.Registry
	fallback *locale.Formatter
	marker   string
	history  *history.Store
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. fallback supplies the locale and zone
// used when a tool call names none; store may be nil to skip recording runs.
func NewServer(fallback *locale.Formatter, marker string, store *history.Store) *Server {
	if marker == "" {
		marker = render.DefaultMarker
	}
	s := &Server{
		registry: locale.Default(),
		fallback: fallback,
		marker:   marker,
		history:  store,
	}

	s.mcp = server.NewMCPServer(
		"stamp",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(formatTimestampTool, s.handleFormatTimestamp)
	s.mcp.AddTool(renderHTMLTool, s.handleRenderHTML)
	s.mcp.AddTool(listLocalesTool, s.handleListLocales)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/codesearch-core/codesearch/internal/engine"
)

// Server wraps a mark3labs/mcp-go server bound to an Engine.
type Server struct {
	mcp *server.MCPServer
}

// New builds an MCP server with the codesearch_search, codesearch_chat,
// and codesearch_deps tools registered against e.
func New(e *engine.Engine) *Server {
	s := server.NewMCPServer("codesearch-mcp", "1.0.0", server.WithToolCapabilities(true))

	AddSearchTool(s, e)
	AddChatTool(s, e)
	AddDepsTool(s, e)

	return &Server{mcp: s}
}

// Serve runs the MCP server on stdio until ctx is cancelled or the
// transport closes.
func (s *Server) Serve(ctx context.Context) error {
	if err := server.ServeStdio(s.mcp); err != nil {
		return fmt.Errorf("mcpserver: serve stdio: %w", err)
	}
	return nil
}

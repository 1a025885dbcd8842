// ABOUTME: MCP server initialization and configuration
// ABOUTME: Sets up server with tools and resources for AI agents

package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/salah/internal/prayer"
	"github.com/harper/salah/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with the repository and a prayer time provider.
type Server struct {
	mcp   *mcp.Server
	repo  storage.Repository
	times prayer.Provider
	now   func() time.Time
}

// NewServer creates MCP server with all capabilities.
func NewServer(repo storage.Repository, times prayer.Provider) (*Server, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if times == nil {
		return nil, fmt.Errorf("prayer time provider is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "salah",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:   mcpServer,
		repo:  repo,
		times: times,
		now:   time.Now,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Package mcp exposes the design actions and the layout checker as MCP
// (Model Context Protocol) tools.
package mcp

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/pkg/design"
	"github.com/gruhabuddy/gruha/pkg/utils"
)

// Dispatcher runs one design action request. It is satisfied by
// *dispatcher.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, req design.Request) design.Outcome
}

type Config struct {
	// Dispatcher answers the design action tools
	Dispatcher Dispatcher

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured zap logger
	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the design tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "gruha",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if !c.Noop {
		if c.Dispatcher == nil {
			return nil, errors.New("dispatcher is required")
		}
		if c.Logger == nil {
			return nil, errors.New("logger is required")
		}
		s.addTools(mcpServer)
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

func (s *Server) addTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        analyzeRoomToolName,
		Description: analyzeRoomDescription,
	}, s.handleAnalyzeRoom)

	mcp.AddTool(server, &mcp.Tool{
		Name:        themeToolName,
		Description: themeDescription,
	}, s.handleThemeRecommendations)

	mcp.AddTool(server, &mcp.Tool{
		Name:        colorToolName,
		Description: colorDescription,
	}, s.handleColorSuggestions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        budgetToolName,
		Description: budgetDescription,
	}, s.handleBudgetOptimize)

	mcp.AddTool(server, &mcp.Tool{
		Name:        checkLayoutToolName,
		Description: checkLayoutDescription,
	}, s.handleCheckLayout)
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

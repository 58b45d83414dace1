package api

import (
	"fmt"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/api/mcp"
	"github.com/gruhabuddy/gruha/dispatcher/header"
	"github.com/gruhabuddy/gruha/pkg/catalog"
)

// Server is the API server for the design tools around the dispatcher.
type Server struct {
	config  Config
	catalog *catalog.Catalog
	logger  *zap.Logger
	app     *fiber.App
}

// NewServer creates a new API server.
func NewServer(config Config, logger *zap.Logger) (*Server, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("could not load catalog: %w", err)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Dispatcher: config.Dispatcher,
		Noop:       config.Dispatcher == nil,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create MCP server: %w", err)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:  config,
		catalog: cat,
		logger:  logger,
		app:     app,
	}

	app.Use(recover.New())
	app.Use(header.NewHandler().Middleware())

	app.Get("/ping", s.handlePing)
	app.Get("/catalog", s.handleCatalog)
	app.Get("/catalog/:section", s.handleCatalogSection)
	app.Post("/layout/check", s.handleLayoutCheck)
	app.Post("/budget/estimate", s.handleBudgetEstimate)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

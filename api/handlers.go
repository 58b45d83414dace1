package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/pkg/budget"
	"github.com/gruhabuddy/gruha/pkg/catalog"
	"github.com/gruhabuddy/gruha/pkg/layout"
	"github.com/gruhabuddy/gruha/pkg/llm"
)

// LayoutRequest is the body of a layout check. Room is optional.
type LayoutRequest struct {
	Room  *layout.Room  `json:"room,omitempty"`
	Items []layout.Item `json:"items"`
}

// BudgetRequest is the body of a budget estimate. Categories default to the
// catalog's budget categories.
type BudgetRequest struct {
	Total      int64             `json:"total"`
	Categories []budget.Category `json:"categories,omitempty"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleCatalog returns the whole reference catalog.
func (s *Server) handleCatalog(c *fiber.Ctx) error {
	return c.JSON(s.catalog)
}

// handleCatalogSection returns one catalog section by name.
func (s *Server) handleCatalogSection(c *fiber.Ctx) error {
	section, err := s.catalog.Section(c.Params("section"))
	if errors.Is(err, catalog.ErrUnknownSection) {
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "unknown catalog section"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to read catalog"})
	}

	return c.JSON(section)
}

// handleLayoutCheck reports overlapping and out of room furniture.
func (s *Server) handleLayoutCheck(c *fiber.Ctx) error {
	var req LayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	report, err := layout.Check(req.Room, req.Items)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(report)
}

// handleBudgetEstimate spreads a total budget across categories.
func (s *Server) handleBudgetEstimate(c *fiber.Ctx) error {
	var req BudgetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if req.Total <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "total must be positive"})
	}

	categories := req.Categories
	if len(categories) == 0 {
		categories = s.catalog.BudgetCategories
	}

	plan, err := budget.Allocate(req.Total, categories)
	if err != nil {
		s.logger.Debug("budget estimate rejected", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(plan)
}

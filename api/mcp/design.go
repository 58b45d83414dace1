package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/pkg/design"
)

var (
	analyzeRoomToolName    = "analyze_room"
	analyzeRoomDescription = "Analyze a room and return design recommendations: estimated area, natural light, style suggestions, furniture layout, color palette and budget breakdown in INR."

	themeToolName    = "theme_recommendations"
	themeDescription = "Generate a complete design plan for a theme pack such as \"South Indian Traditional\" or \"Vastu-Based Layout\", including palette, furniture, materials and estimated cost in INR."

	colorToolName    = "color_suggestions"
	colorDescription = "Suggest wall paint palettes with hex codes and Indian paint brand equivalents for a mood, room type, room size and lighting."

	budgetToolName    = "budget_optimize"
	budgetDescription = "Split a total budget in INR across interior categories with savings tips and priority order."
)

// DimensionsInput is a room size in feet.
type DimensionsInput struct {
	Length float64 `json:"length,omitempty" jsonschema:"room length in feet (default: 12)"`
	Width  float64 `json:"width,omitempty" jsonschema:"room width in feet (default: 10)"`
	Height float64 `json:"height,omitempty" jsonschema:"ceiling height in feet (default: 9)"`
}

// AnalyzeRoomInput represents the input arguments for the analyze_room tool.
type AnalyzeRoomInput struct {
	RoomType   string           `json:"roomType,omitempty" jsonschema:"room type such as Bedroom or Kitchen (default: Bedroom)"`
	Dimensions *DimensionsInput `json:"dimensions,omitempty" jsonschema:"room dimensions in feet"`
	HasPhoto   bool             `json:"hasPhoto,omitempty" jsonschema:"whether the user has a photo of the room"`
	Features   string           `json:"features,omitempty" jsonschema:"additional room features"`
}

// ThemeInput represents the input arguments for the theme_recommendations tool.
type ThemeInput struct {
	Theme      string           `json:"theme,omitempty" jsonschema:"theme pack name (default: Budget Friendly Home)"`
	RoomType   string           `json:"roomType,omitempty" jsonschema:"room type (default: Living Room)"`
	Dimensions *DimensionsInput `json:"dimensions,omitempty" jsonschema:"room dimensions in feet"`
	Budget     string           `json:"budget,omitempty" jsonschema:"budget range, e.g. ₹1-3 Lakhs"`
}

// ColorInput represents the input arguments for the color_suggestions tool.
type ColorInput struct {
	Mood     string `json:"mood,omitempty" jsonschema:"desired mood such as Calm, Energetic or Luxury"`
	RoomType string `json:"roomType,omitempty" jsonschema:"room type (default: Bedroom)"`
	RoomSize string `json:"roomSize,omitempty" jsonschema:"room size, e.g. 120 sq ft"`
	Lighting string `json:"lighting,omitempty" jsonschema:"lighting conditions"`
}

// BudgetInput represents the input arguments for the budget_optimize tool.
type BudgetInput struct {
	TotalBudget float64        `json:"totalBudget,omitempty" jsonschema:"total budget in INR (default: 150000)"`
	RoomSize    string         `json:"roomSize,omitempty" jsonschema:"room size in sq ft (default: 120)"`
	RoomType    string         `json:"roomType,omitempty" jsonschema:"room type (default: Bedroom)"`
	Categories  map[string]any `json:"categories,omitempty" jsonschema:"current category allocations"`
}

func (s *Server) handleAnalyzeRoom(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeRoomInput) (*mcp.CallToolResult, any, error) {
	return s.dispatch(ctx, design.ActionAnalyzeRoom, input)
}

func (s *Server) handleThemeRecommendations(ctx context.Context, _ *mcp.CallToolRequest, input ThemeInput) (*mcp.CallToolResult, any, error) {
	return s.dispatch(ctx, design.ActionThemeRecommendations, input)
}

func (s *Server) handleColorSuggestions(ctx context.Context, _ *mcp.CallToolRequest, input ColorInput) (*mcp.CallToolResult, any, error) {
	return s.dispatch(ctx, design.ActionColorSuggestions, input)
}

func (s *Server) handleBudgetOptimize(ctx context.Context, _ *mcp.CallToolRequest, input BudgetInput) (*mcp.CallToolResult, any, error) {
	return s.dispatch(ctx, design.ActionBudgetOptimize, input)
}

// dispatch sends the tool input as the action data and returns the
// dispatcher envelope as the tool text.
func (s *Server) dispatch(ctx context.Context, action design.Action, input any) (*mcp.CallToolResult, any, error) {
	logger := s.config.Logger

	data, err := json.Marshal(input)
	if err != nil {
		return toolError(fmt.Sprintf("Failed to encode input: %v", err)), nil, nil
	}

	logger.Debug("MCP design request", zap.String("action", action.String()))

	out := s.config.Dispatcher.Dispatch(ctx, design.Request{
		Action: action.String(),
		Data:   data,
	})

	body, err := json.Marshal(out.Envelope)
	if err != nil {
		logger.Error("failed to marshal envelope", zap.Error(err))
		return toolError(fmt.Sprintf("Failed to serialize result: %v", err)), nil, nil
	}

	return &mcp.CallToolResult{
		IsError: out.Envelope.IsError(),
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(body)},
		},
	}, nil, nil
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}

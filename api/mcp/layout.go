package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gruhabuddy/gruha/pkg/layout"
)

var (
	checkLayoutToolName    = "check_layout"
	checkLayoutDescription = "Check a furniture floor plan for overlapping pieces and pieces placed outside the room. Rotation must be a multiple of 90 degrees."
)

// CheckLayoutInput represents the input arguments for the check_layout tool.
type CheckLayoutInput struct {
	Room  *layout.Room `json:"room,omitempty" jsonschema:"room floor size; omit to skip the bounds check"`
	Items []ItemInput  `json:"items" jsonschema:"placed furniture in floor plan units"`
}

// ItemInput is one placed piece of furniture. Only the name is required so
// that missing sizes reach the checker and come back as tool errors.
type ItemInput struct {
	ID       string  `json:"id,omitempty" jsonschema:"optional item id, used when name is empty"`
	Name     string  `json:"name" jsonschema:"furniture name used in warnings"`
	X        float64 `json:"x,omitempty" jsonschema:"left edge (default: 0)"`
	Y        float64 `json:"y,omitempty" jsonschema:"top edge (default: 0)"`
	Width    float64 `json:"width,omitempty" jsonschema:"width, must be positive"`
	Height   float64 `json:"height,omitempty" jsonschema:"depth on the floor plan, must be positive"`
	Rotation int     `json:"rotation,omitempty" jsonschema:"rotation in degrees, a multiple of 90"`
}

func (in ItemInput) item() layout.Item {
	return layout.Item{
		ID:       in.ID,
		Name:     in.Name,
		X:        in.X,
		Y:        in.Y,
		Width:    in.Width,
		Height:   in.Height,
		Rotation: in.Rotation,
	}
}

func (s *Server) handleCheckLayout(_ context.Context, _ *mcp.CallToolRequest, input CheckLayoutInput) (*mcp.CallToolResult, layout.Report, error) {
	items := make([]layout.Item, 0, len(input.Items))
	for _, in := range input.Items {
		items = append(items, in.item())
	}

	report, err := layout.Check(input.Room, items)
	if err != nil {
		return toolError(err.Error()), report, nil
	}

	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return toolError(fmt.Sprintf("Failed to serialize results: %v", err)), layout.Report{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, report, nil
}

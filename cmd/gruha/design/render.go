package designcmder

import (
	"encoding/json"
	"fmt"

	"github.com/gruhabuddy/gruha/pkg/cliui"
	"github.com/gruhabuddy/gruha/pkg/design"
)

var actionTitles = map[design.Action]string{
	design.ActionAnalyzeRoom:          "Room Analysis",
	design.ActionThemeRecommendations: "Theme Plan",
	design.ActionColorSuggestions:     "Color Suggestions",
	design.ActionBudgetOptimize:       "Budget Plan",
}

// renderedResult is a dispatch result prepared for the terminal.
type renderedResult struct {
	markdown string
	colors   []string
}

// renderResult turns a dispatch result into a markdown document plus the
// hex colors it mentions. An unparsed model answer is already prose and is
// kept as is.
func renderResult(action design.Action, result json.RawMessage) (renderedResult, error) {
	var value any
	if err := json.Unmarshal(result, &value); err != nil {
		return renderedResult{}, fmt.Errorf("decoding result: %w", err)
	}

	if obj, ok := value.(map[string]any); ok && len(obj) == 1 {
		if raw, ok := obj["rawResponse"].(string); ok {
			return renderedResult{markdown: raw}, nil
		}
	}

	return renderedResult{
		markdown: cliui.Document(actionTitles[action], value),
		colors:   cliui.HexColors(value),
	}, nil
}

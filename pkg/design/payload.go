package design

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is the action specific data of a request. Exactly one variant
// exists per Action.
type Payload interface {
	Action() Action
}

// Dimensions of a room in feet.
type Dimensions struct {
	Length Text `json:"length"`
	Width  Text `json:"width"`
	Height Text `json:"height"`
}

// AnalyzeRoom requests a full analysis of a described room.
type AnalyzeRoom struct {
	RoomType   Text       `json:"roomType"`
	Dimensions Dimensions `json:"dimensions"`
	HasPhoto   Text       `json:"hasPhoto"`
	Features   Text       `json:"features"`
}

func (AnalyzeRoom) Action() Action { return ActionAnalyzeRoom }

// ThemeRecommendations requests a design plan for a named theme.
type ThemeRecommendations struct {
	Theme      Text       `json:"theme"`
	RoomType   Text       `json:"roomType"`
	Dimensions Dimensions `json:"dimensions"`
	Budget     Text       `json:"budget"`
}

func (ThemeRecommendations) Action() Action { return ActionThemeRecommendations }

// ColorSuggestions requests a paint scheme for a mood.
type ColorSuggestions struct {
	Mood     Text `json:"mood"`
	RoomType Text `json:"roomType"`
	RoomSize Text `json:"roomSize"`
	Lighting Text `json:"lighting"`
}

func (ColorSuggestions) Action() Action { return ActionColorSuggestions }

// BudgetOptimize requests an optimized split of a total budget in INR.
type BudgetOptimize struct {
	TotalBudget Text            `json:"totalBudget"`
	RoomSize    Text            `json:"roomSize"`
	RoomType    Text            `json:"roomType"`
	Categories  json.RawMessage `json:"categories"`
}

func (BudgetOptimize) Action() Action { return ActionBudgetOptimize }

// CategoriesJSON renders the client category breakdown as compact JSON,
// "{}" when absent.
func (b BudgetOptimize) CategoriesJSON() string {
	raw := bytes.TrimSpace(b.Categories)
	switch string(raw) {
	case "", "null", "false", "0", `""`:
		return "{}"
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "{}"
	}
	return buf.String()
}

// DecodePayload decodes data into the payload variant of action. Absent or
// null data yields the zero variant, so every default applies.
func DecodePayload(action Action, data json.RawMessage) (Payload, error) {
	var target Payload
	switch action {
	case ActionAnalyzeRoom:
		target = &AnalyzeRoom{}
	case ActionThemeRecommendations:
		target = &ThemeRecommendations{}
	case ActionColorSuggestions:
		target = &ColorSuggestions{}
	case ActionBudgetOptimize:
		target = &BudgetOptimize{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, target); err != nil {
			return nil, fmt.Errorf("decoding %s data: %w", action, err)
		}
	}

	switch p := target.(type) {
	case *AnalyzeRoom:
		return *p, nil
	case *ThemeRecommendations:
		return *p, nil
	case *ColorSuggestions:
		return *p, nil
	case *BudgetOptimize:
		return *p, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

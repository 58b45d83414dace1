// Package design holds the request model of the room design assistant:
// the closed set of actions, the per-action payload variants, and the
// response envelope returned to clients.
package design

import (
	"errors"
	"fmt"
)

// Action names one of the generative operations a client may request.
type Action string

const (
	ActionAnalyzeRoom          Action = "analyze-room"
	ActionThemeRecommendations Action = "theme-recommendations"
	ActionColorSuggestions     Action = "color-suggestions"
	ActionBudgetOptimize       Action = "budget-optimize"
)

// ErrUnknownAction is returned for any action outside the supported set.
var ErrUnknownAction = errors.New("unknown action")

// Actions returns every supported action in a stable order.
func Actions() []Action {
	return []Action{
		ActionAnalyzeRoom,
		ActionThemeRecommendations,
		ActionColorSuggestions,
		ActionBudgetOptimize,
	}
}

// ParseAction validates name against the supported set. Matching is exact
// and case sensitive.
func ParseAction(name string) (Action, error) {
	for _, a := range Actions() {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

func (a Action) String() string {
	return string(a)
}

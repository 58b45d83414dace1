// Package prompt renders the system and user prompts sent to the AI gateway
// for each design action. Templates are embedded and parsed once.
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/gruhabuddy/gruha/pkg/design"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Defaults applied when a payload field is absent.
const (
	DefaultRoomType       = "Bedroom"
	DefaultTheme          = "Budget Friendly Home"
	DefaultThemeRoom      = "Living Room"
	DefaultLength         = "12"
	DefaultWidth          = "10"
	DefaultHeight         = "9"
	DefaultHasPhoto       = "false"
	DefaultFeatures       = "standard room"
	DefaultThemeBudget    = "₹1-3 Lakhs"
	DefaultMood           = "Calm"
	DefaultRoomSize       = "120 sq ft"
	DefaultLighting       = "Natural + Artificial"
	DefaultTotalBudget    = "150000"
	DefaultBudgetRoomSize = "120"
)

// Pair is the rendered system and user prompt for one request.
type Pair struct {
	System string
	User   string
}

type analyzeView struct {
	RoomType, Length, Width, Height, HasPhoto, Features string
}

type themeView struct {
	Theme, RoomType, Length, Width, Budget string
}

type colorView struct {
	Mood, RoomType, RoomSize, Lighting string
}

type budgetView struct {
	TotalBudget, RoomSize, RoomType, Categories string
}

// Build renders the prompt pair for payload. It is deterministic and never
// fails for the supported payload variants.
func Build(payload design.Payload) (Pair, error) {
	var view any
	switch p := payload.(type) {
	case design.AnalyzeRoom:
		view = analyzeView{
			RoomType: p.RoomType.Or(DefaultRoomType),
			Length:   p.Dimensions.Length.Or(DefaultLength),
			Width:    p.Dimensions.Width.Or(DefaultWidth),
			Height:   p.Dimensions.Height.Or(DefaultHeight),
			HasPhoto: p.HasPhoto.Or(DefaultHasPhoto),
			Features: p.Features.Or(DefaultFeatures),
		}
	case design.ThemeRecommendations:
		view = themeView{
			Theme:    p.Theme.Or(DefaultTheme),
			RoomType: p.RoomType.Or(DefaultThemeRoom),
			Length:   p.Dimensions.Length.Or(DefaultLength),
			Width:    p.Dimensions.Width.Or(DefaultWidth),
			Budget:   p.Budget.Or(DefaultThemeBudget),
		}
	case design.ColorSuggestions:
		view = colorView{
			Mood:     p.Mood.Or(DefaultMood),
			RoomType: p.RoomType.Or(DefaultRoomType),
			RoomSize: p.RoomSize.Or(DefaultRoomSize),
			Lighting: p.Lighting.Or(DefaultLighting),
		}
	case design.BudgetOptimize:
		view = budgetView{
			TotalBudget: p.TotalBudget.Or(DefaultTotalBudget),
			RoomSize:    p.RoomSize.Or(DefaultBudgetRoomSize),
			RoomType:    p.RoomType.Or(DefaultRoomType),
			Categories:  p.CategoriesJSON(),
		}
	default:
		return Pair{}, fmt.Errorf("%w: no template for %T", design.ErrUnknownAction, payload)
	}

	name := payload.Action().String()
	system, err := render(name+".system.tmpl", nil)
	if err != nil {
		return Pair{}, err
	}
	user, err := render(name+".user.tmpl", view)
	if err != nil {
		return Pair{}, err
	}

	return Pair{System: system, User: user}, nil
}

// ChatSystemPrompt returns the persona used for the free form assistant chat.
func ChatSystemPrompt() string {
	out, err := render("chat.system.tmpl", nil)
	if err != nil {
		panic(err)
	}
	return out
}

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

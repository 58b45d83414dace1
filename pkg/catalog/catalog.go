// Package catalog holds the reference data shown to users: theme packs,
// paint moods and colors, furniture footprints, room types and budget
// categories.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/gruhabuddy/gruha/pkg/budget"
	"github.com/gruhabuddy/gruha/pkg/layout"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ErrUnknownSection is returned by Section for names the catalog lacks.
var ErrUnknownSection = errors.New("unknown catalog section")

// Theme is a curated design theme pack.
type Theme struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Colors      []string `json:"colors" yaml:"colors"`
	Budget      string   `json:"budget" yaml:"budget"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// Mood is a named paint palette.
type Mood struct {
	Name   string   `json:"name" yaml:"name"`
	Colors []string `json:"colors" yaml:"colors"`
}

// WallColor is a named paint shade.
type WallColor struct {
	Name string `json:"name" yaml:"name"`
	Hex  string `json:"hex" yaml:"hex"`
}

// Furniture is a catalog piece with its floor plan footprint.
type Furniture struct {
	Name   string  `json:"name" yaml:"name"`
	Emoji  string  `json:"emoji" yaml:"emoji"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Catalog is the full reference data set.
type Catalog struct {
	Themes           []Theme           `json:"themes" yaml:"themes"`
	Moods            []Mood            `json:"moods" yaml:"moods"`
	Finishes         []string          `json:"finishes" yaml:"finishes"`
	WallColors       []WallColor       `json:"wallColors" yaml:"wallColors"`
	Furniture        []Furniture       `json:"furniture" yaml:"furniture"`
	RoomTypes        []string          `json:"roomTypes" yaml:"roomTypes"`
	BudgetCategories []budget.Category `json:"budgetCategories" yaml:"budgetCategories"`
	DefaultRoom      layout.Room       `json:"defaultRoom" yaml:"defaultRoom"`
}

var (
	loadOnce sync.Once
	loaded   *Catalog
	loadErr  error
)

// Default returns the embedded catalog. It is parsed once and must not be
// modified by callers.
func Default() (*Catalog, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(catalogYAML)
	})
	return loaded, loadErr
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &c, nil
}

// Sections lists the names accepted by Section.
func Sections() []string {
	return []string{"themes", "moods", "finishes", "wallColors", "furniture", "roomTypes", "budgetCategories"}
}

// Section returns one part of the catalog by name. Names match case
// insensitively.
func (c *Catalog) Section(name string) (any, error) {
	switch strings.ToLower(name) {
	case "themes":
		return c.Themes, nil
	case "moods":
		return c.Moods, nil
	case "finishes":
		return c.Finishes, nil
	case "wallcolors":
		return c.WallColors, nil
	case "furniture":
		return c.Furniture, nil
	case "roomtypes":
		return c.RoomTypes, nil
	case "budgetcategories":
		return c.BudgetCategories, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, name)
	}
}

// Theme finds a theme pack by id or display name.
func (c *Catalog) Theme(key string) (Theme, bool) {
	for _, t := range c.Themes {
		if strings.EqualFold(t.ID, key) || strings.EqualFold(t.Name, key) {
			return t, true
		}
	}
	return Theme{}, false
}

// Mood finds a palette by name.
func (c *Catalog) Mood(name string) (Mood, bool) {
	for _, m := range c.Moods {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Mood{}, false
}

// Piece finds a furniture piece by name.
func (c *Catalog) Piece(name string) (Furniture, bool) {
	for _, f := range c.Furniture {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Furniture{}, false
}

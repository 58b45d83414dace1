// Package layout checks furniture placements on a room floor plan.
package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidItem is returned for items with non-positive sizes or rotations
// that are not a multiple of 90 degrees.
var ErrInvalidItem = errors.New("invalid furniture item")

// Rect is an axis-aligned rectangle. X and Y locate the top left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Overlaps reports whether a and b share any interior area. Rectangles that
// only touch along an edge do not overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.Width &&
		a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height &&
		a.Y+a.Height > b.Y
}

// Contains reports whether inner lies entirely within r.
func (r Rect) Contains(inner Rect) bool {
	return inner.X >= r.X &&
		inner.Y >= r.Y &&
		inner.X+inner.Width <= r.X+r.Width &&
		inner.Y+inner.Height <= r.Y+r.Height
}

// Item is one placed piece of furniture.
type Item struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation int     `json:"rotation,omitempty"`
}

// Label is the name used in warnings.
func (i Item) Label() string {
	if i.Name != "" {
		return i.Name
	}
	return i.ID
}

// Footprint is the floor area the item covers. Quarter turns rotate the
// item about its centre, swapping width and height.
func (i Item) Footprint() Rect {
	r := Rect{X: i.X, Y: i.Y, Width: i.Width, Height: i.Height}
	if turn := normalizeRotation(i.Rotation); turn == 90 || turn == 270 {
		cx, cy := i.X+i.Width/2, i.Y+i.Height/2
		r = Rect{X: cx - i.Height/2, Y: cy - i.Width/2, Width: i.Height, Height: i.Width}
	}
	return r
}

func (i Item) validate() error {
	if i.Width <= 0 || i.Height <= 0 {
		return fmt.Errorf("%w: %q has size %gx%g", ErrInvalidItem, i.Label(), i.Width, i.Height)
	}
	if normalizeRotation(i.Rotation)%90 != 0 {
		return fmt.Errorf("%w: %q has rotation %d", ErrInvalidItem, i.Label(), i.Rotation)
	}
	return nil
}

func normalizeRotation(deg int) int {
	return ((deg % 360) + 360) % 360
}

// Room is the floor the items are placed on, with its origin at 0,0.
type Room struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds returns the room as a rectangle.
func (r Room) Bounds() Rect {
	return Rect{Width: r.Width, Height: r.Height}
}

// Overlap names two items whose footprints intersect.
type Overlap struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

func (o Overlap) String() string {
	return fmt.Sprintf("%s overlaps with %s", o.First, o.Second)
}

// Report is the result of a layout check.
type Report struct {
	Overlaps    []Overlap `json:"overlaps"`
	OutOfBounds []string  `json:"outOfBounds"`
	Warnings    []string  `json:"warnings"`
}

// OK reports whether the layout has no problems.
func (r Report) OK() bool {
	return len(r.Warnings) == 0
}

// Check compares every pair of items once, in input order, and flags items
// that leave the room when room is not nil. Overlap warnings come first.
// An invalid item fails the check with an empty report.
func Check(room *Room, items []Item) (Report, error) {
	report := Report{
		Overlaps:    []Overlap{},
		OutOfBounds: []string{},
		Warnings:    []string{},
	}

	footprints := make([]Rect, len(items))
	for i, item := range items {
		if err := item.validate(); err != nil {
			return report, err
		}
		footprints[i] = item.Footprint()
	}

	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if !Overlaps(footprints[i], footprints[j]) {
				continue
			}
			o := Overlap{First: items[i].Label(), Second: items[j].Label()}
			report.Overlaps = append(report.Overlaps, o)
			report.Warnings = append(report.Warnings, o.String())
		}
	}

	if room != nil {
		bounds := room.Bounds()
		for i, item := range items {
			if bounds.Contains(footprints[i]) {
				continue
			}
			report.OutOfBounds = append(report.OutOfBounds, item.Label())
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s extends outside the room", item.Label()))
		}
	}

	return report, nil
}

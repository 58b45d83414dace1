// Package budget spreads a total budget across spending categories.
package budget

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoCategories is returned when there is nothing to allocate to.
var ErrNoCategories = errors.New("no budget categories")

// Category is a spending category with its typical price range in rupees.
type Category struct {
	Name string `json:"name" yaml:"name"`
	Min  int64  `json:"min" yaml:"min"`
	Max  int64  `json:"max" yaml:"max"`
	Icon string `json:"icon,omitempty" yaml:"icon"`
}

// Allocation is the amount assigned to one category.
type Allocation struct {
	Category
	Amount int64 `json:"amount"`

	// Percent of the total budget, rounded.
	Percent int64 `json:"percent"`
}

// Plan is the result of Allocate.
type Plan struct {
	Total          int64        `json:"total"`
	Ratio          float64      `json:"ratio"`
	Allocations    []Allocation `json:"allocations"`
	TotalAllocated int64        `json:"totalAllocated"`
	OverBudget     bool         `json:"overBudget"`
}

// Allocate places every category at the same point of its range. That
// point is how far total sits between the sum of minimums and the sum of
// maximums, clamped to [0, 1]. Budgets below the minimum still receive the
// minimum of each category and are flagged as over budget.
func Allocate(total int64, categories []Category) (Plan, error) {
	if len(categories) == 0 {
		return Plan{}, ErrNoCategories
	}

	var sumMin, sumMax int64
	for _, c := range categories {
		if c.Min < 0 || c.Max < c.Min {
			return Plan{}, fmt.Errorf("category %q has invalid range %d-%d", c.Name, c.Min, c.Max)
		}
		sumMin += c.Min
		sumMax += c.Max
	}

	ratio := 1.0
	if sumMax > sumMin {
		ratio = clamp(float64(total-sumMin)/float64(sumMax-sumMin), 0, 1)
	} else if total < sumMin {
		ratio = 0
	}

	plan := Plan{
		Total:       total,
		Ratio:       ratio,
		Allocations: make([]Allocation, 0, len(categories)),
	}
	for _, c := range categories {
		amount := int64(math.Round(float64(c.Min) + float64(c.Max-c.Min)*ratio))
		a := Allocation{Category: c, Amount: amount}
		if total > 0 {
			a.Percent = int64(math.Round(float64(amount) / float64(total) * 100))
		}
		plan.Allocations = append(plan.Allocations, a)
		plan.TotalAllocated += amount
	}
	plan.OverBudget = plan.TotalAllocated > total

	return plan, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package domain

import "fmt"

// FoodItem is one selectable set in the meal-plan set cover problem:
// a named food with a calorie cost covering a subset of nutrients.
type FoodItem struct {
	Name      string
	Calories  float64
	Nutrients map[string]bool
}

// String returns a compact representation, e.g. "oats (cal=150, nutrients=4)".
func (f FoodItem) String() string {
	return fmt.Sprintf("%s (cal=%.1f, nutrients=%d)", f.Name, f.Calories, len(f.Nutrients))
}

// CoversNew counts how many of the remaining nutrients this food provides.
func (f FoodItem) CoversNew(remaining map[string]bool) int {
	covered := 0
	for n := range f.Nutrients {
		if remaining[n] {
			covered++
		}
	}
	return covered
}

// SetCoverInstance is a validated set cover problem: the nutrient universe,
// the available foods and the daily calorie budget.
type SetCoverInstance struct {
	Name        string
	Universe    map[string]bool
	Foods       []FoodItem
	MaxCalories float64
}

// SetCoverResult is the outcome of the greedy selection.
type SetCoverResult struct {
	SelectedFoods    []FoodItem
	TotalCalories    float64
	CoveredNutrients map[string]bool
	// FullCoverage reports whether the whole universe was covered within
	// the calorie budget. Partial coverage is a valid outcome.
	FullCoverage bool
}

// NewSetCoverResult returns an empty result with no coverage.
func NewSetCoverResult() *SetCoverResult {
	return &SetCoverResult{
		CoveredNutrients: make(map[string]bool),
	}
}

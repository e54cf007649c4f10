package domain

import (
	"testing"
)

func TestFoodItem_String(t *testing.T) {
	f := FoodItem{
		Name:      "oats",
		Calories:  150,
		Nutrients: map[string]bool{"fiber": true, "iron": true},
	}

	want := "oats (cal=150.0, nutrients=2)"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestFoodItem_CoversNew(t *testing.T) {
	f := FoodItem{
		Name:      "spinach",
		Calories:  25,
		Nutrients: map[string]bool{"iron": true, "vitamin_a": true, "fiber": true},
	}

	tests := []struct {
		name      string
		remaining map[string]bool
		want      int
	}{
		{
			name:      "all new",
			remaining: map[string]bool{"iron": true, "vitamin_a": true, "fiber": true},
			want:      3,
		},
		{
			name:      "partially covered",
			remaining: map[string]bool{"iron": true, "calcium": true},
			want:      1,
		},
		{
			name:      "nothing new",
			remaining: map[string]bool{"calcium": true},
			want:      0,
		},
		{
			name:      "empty remaining",
			remaining: map[string]bool{},
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.CoversNew(tt.remaining); got != tt.want {
				t.Errorf("CoversNew() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewSetCoverResult(t *testing.T) {
	r := NewSetCoverResult()

	if r.FullCoverage {
		t.Error("new result should not claim full coverage")
	}
	if r.CoveredNutrients == nil {
		t.Error("CoveredNutrients map should be initialized")
	}
	if len(r.SelectedFoods) != 0 {
		t.Errorf("SelectedFoods = %v, want empty", r.SelectedFoods)
	}
}

package domain

import (
	"math"
	"testing"
)

func TestInfinity_NoOverflowOnAddition(t *testing.T) {
	// Сложение двух бесконечностей не должно переполняться
	sum := Infinity + Infinity
	if sum < Infinity {
		t.Error("Infinity + Infinity overflowed")
	}
	if Infinity >= math.MaxInt64/2 {
		t.Error("Infinity leaves too little headroom")
	}
}

func TestMinInt64(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{1, 2, 1},
		{2, 1, 1},
		{-5, 3, -5},
		{7, 7, 7},
	}

	for _, tt := range tests {
		if got := MinInt64(tt.a, tt.b); got != tt.want {
			t.Errorf("MinInt64(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

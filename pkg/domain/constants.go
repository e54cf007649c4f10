package domain

import "math"

// Flow and capacity values are int64. The crew scheduling reduction only
// produces capacities up to the flight count, and the maximum flow is
// bounded by flights + total demand, so int64 leaves many orders of
// magnitude of headroom before overflow for any instance that fits in
// memory (supported scale: up to ~10^9 flights).
const (
	// Infinity represents an effectively unbounded capacity.
	// Kept well below math.MaxInt64 so additions cannot wrap.
	Infinity int64 = math.MaxInt64 / 4
)

// Виртуальные узлы потоковой сети имеют отрицательные идентификаторы,
// событийные узлы нумеруются с нуля
const (
	SuperSourceID int64 = -1
	SuperSinkID   int64 = -2
)

// MinInt64 возвращает минимум двух int64
func MinInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

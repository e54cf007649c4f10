package benchmark

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"crewsched/pkg/domain"
	schedulersvc "crewsched/services/scheduler-svc"
)

// =============================================================================
// INSTANCE GENERATORS
// =============================================================================

// generateRotationInstance строит цепочку ротаций: n аэропортов, flights
// рейсов между случайными парами с возрастающим временем. Инстанс всегда
// допустим и детерминирован для данного seed.
func generateRotationInstance(n, flights int, seed int64) *domain.Instance {
	rng := rand.New(rand.NewSource(seed))

	airports := make(map[string]bool, n)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = fmt.Sprintf("AP%03d", i)
		airports[names[i]] = true
	}

	inst := &domain.Instance{
		Name:     fmt.Sprintf("bench_%d_%d", n, flights),
		Airports: airports,
		Flights:  make([]domain.Flight, 0, flights),
	}

	clock := int64(0)
	for i := 0; i < flights; i++ {
		dep := names[rng.Intn(n)]
		arr := names[rng.Intn(n)]
		for arr == dep {
			arr = names[rng.Intn(n)]
		}
		depTime := clock + int64(rng.Intn(50))
		arrTime := depTime + 30 + int64(rng.Intn(200))
		clock += 10

		inst.Flights = append(inst.Flights, domain.Flight{
			DepartureAirport: dep,
			ArrivalAirport:   arr,
			DepartureTime:    depTime,
			ArrivalTime:      arrTime,
		})
	}
	return inst
}

// generateCycleInstance строит один большой цикл: рейс i идёт из аэропорта i
// в аэропорт (i+1) mod n, стыковки идеальны.
func generateCycleInstance(n int) *domain.Instance {
	airports := make(map[string]bool, n)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = fmt.Sprintf("AP%03d", i)
		airports[names[i]] = true
	}

	inst := &domain.Instance{
		Name:     fmt.Sprintf("cycle_%d", n),
		Airports: airports,
		Flights:  make([]domain.Flight, 0, n),
	}
	for i := 0; i < n; i++ {
		inst.Flights = append(inst.Flights, domain.Flight{
			DepartureAirport: names[i],
			ArrivalAirport:   names[(i+1)%n],
			DepartureTime:    int64(i * 100),
			ArrivalTime:      int64(i*100 + 60),
		})
	}
	return inst
}

// =============================================================================
// SOLVER BENCHMARKS
// =============================================================================

func benchmarkSolve(b *testing.B, inst *domain.Instance) {
	b.Helper()
	solver := schedulersvc.NewSolver()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := solver.Solve(ctx, inst)
		if err != nil {
			b.Fatalf("solve failed: %v", err)
		}
		if !result.Feasible {
			b.Fatal("instance unexpectedly infeasible")
		}
	}
}

func BenchmarkSolve_Small(b *testing.B) {
	benchmarkSolve(b, generateRotationInstance(5, 20, 1))
}

func BenchmarkSolve_Medium(b *testing.B) {
	benchmarkSolve(b, generateRotationInstance(20, 200, 1))
}

func BenchmarkSolve_Large(b *testing.B) {
	benchmarkSolve(b, generateRotationInstance(50, 2000, 1))
}

func BenchmarkSolve_Cycle(b *testing.B) {
	benchmarkSolve(b, generateCycleInstance(100))
}

func BenchmarkSolve_Sizes(b *testing.B) {
	for _, flights := range []int{10, 100, 1000} {
		inst := generateRotationInstance(10, flights, 1)
		b.Run(fmt.Sprintf("flights_%d", flights), func(b *testing.B) {
			benchmarkSolve(b, inst)
		})
	}
}

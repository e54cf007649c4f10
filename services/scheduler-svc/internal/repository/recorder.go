package repository

import (
	"context"

	"crewsched/services/scheduler-svc/internal/service"
)

// SolveRecorder адаптирует репозиторий к интерфейсу service.Recorder
type SolveRecorder struct {
	repo SolveRunRepository
}

// NewSolveRecorder создаёт адаптер
func NewSolveRecorder(repo SolveRunRepository) *SolveRecorder {
	return &SolveRecorder{repo: repo}
}

// RecordSolve сохраняет результат решения
func (sr *SolveRecorder) RecordSolve(ctx context.Context, rec *service.SolveRecord) error {
	run := &SolveRun{
		InstanceName:      rec.InstanceName,
		InstanceHash:      rec.InstanceHash,
		NumAirports:       rec.NumAirports,
		NumFlights:        rec.NumFlights,
		Feasible:          rec.Feasible,
		MaxFlowValue:      rec.MaxFlowValue,
		TotalCrewRequired: rec.TotalCrewRequired,
		Iterations:        rec.Iterations,
		ComputationTimeMs: float64(rec.ComputationTime.Microseconds()) / 1000.0,
		MemoryUsedBytes:   rec.MemoryUsedBytes,
	}
	return sr.repo.Create(ctx, run)
}

// Package service wires the crew scheduling pipeline: cache lookup, network
// construction, max-flow computation and result extraction.
package service

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"crewsched/pkg/apperror"
	"crewsched/pkg/cache"
	"crewsched/pkg/domain"
	"crewsched/pkg/logger"
	"crewsched/pkg/metrics"
	"crewsched/pkg/telemetry"
	"crewsched/services/scheduler-svc/internal/algorithms"
	"crewsched/services/scheduler-svc/internal/network"
)

// SolveRecord is one persisted solve outcome.
type SolveRecord struct {
	InstanceName      string
	InstanceHash      string
	NumAirports       int
	NumFlights        int
	Feasible          bool
	MaxFlowValue      int64
	TotalCrewRequired int64
	Iterations        int
	ComputationTime   time.Duration
	MemoryUsedBytes   int64
}

// Recorder persists solve outcomes. Implementations must tolerate being
// called concurrently; failures are logged by the service, never fatal.
type Recorder interface {
	RecordSolve(ctx context.Context, rec *SolveRecord) error
}

// SchedulerService solves crew scheduling instances.
type SchedulerService struct {
	version       string
	metrics       *metrics.Metrics
	scheduleCache *cache.ScheduleCache
	recorder      Recorder
	solverOpts    *algorithms.SolverOptions
	timeout       time.Duration
}

// Option configures a SchedulerService.
type Option func(*SchedulerService)

// WithScheduleCache enables result caching.
func WithScheduleCache(sc *cache.ScheduleCache) Option {
	return func(s *SchedulerService) { s.scheduleCache = sc }
}

// WithRecorder enables solve run persistence.
func WithRecorder(r Recorder) Option {
	return func(s *SchedulerService) { s.recorder = r }
}

// WithTimeout bounds each Solve call. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *SchedulerService) { s.timeout = d }
}

// WithSolverOptions overrides the default solver options.
func WithSolverOptions(opts *algorithms.SolverOptions) Option {
	return func(s *SchedulerService) { s.solverOpts = opts }
}

// NewSchedulerService creates the service.
func NewSchedulerService(version string, opts ...Option) *SchedulerService {
	s := &SchedulerService{
		version:    version,
		metrics:    metrics.Get(),
		solverOpts: algorithms.DefaultSolverOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve computes the minimum crew pre-positioning for an instance.
//
// The result comes from the cache when an identical instance (same airports
// and flights, name ignored) was solved recently; otherwise the network is
// built fresh, max flow is computed and the outcome is cached and recorded.
func (s *SchedulerService) Solve(ctx context.Context, inst *domain.Instance) (*domain.CrewSchedulingResult, error) {
	if inst == nil {
		return nil, apperror.New(apperror.CodeNilInput, "instance is nil")
	}
	if len(inst.Airports) == 0 {
		return nil, apperror.New(apperror.CodeEmptyInstance, "instance has no airports")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := telemetry.StartSpan(ctx, "SchedulerService.Solve",
		telemetry.WithAttributes(
			telemetry.InstanceAttributes(inst.Name, inst.NumAirports(), inst.NumFlights())...,
		),
	)
	defer span.End()

	// Проверяем кэш
	if s.scheduleCache != nil {
		cached, found, err := s.scheduleCache.Get(ctx, inst)
		if err != nil {
			logger.Log.Warn("Schedule cache lookup failed", "instance", inst.Name, "error", err)
		}
		if found {
			telemetry.AddEvent(ctx, "cache_hit",
				attribute.Int64("max_flow", cached.MaxFlowValue),
			)
			span.SetAttributes(attribute.Bool("cache_hit", true))
			if s.metrics != nil {
				s.metrics.RecordCacheHit("schedule")
			}
			return cached.ToResult(), nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss("schedule")
		}
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	start := time.Now()

	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	// Построение временной сети и вычисление максимального потока.
	// Граф сети берётся из пула и возвращается после извлечения результата.
	net := network.Build(inst)
	defer net.Release()

	if s.metrics != nil {
		s.metrics.RecordGraphSize("solve", net.NodeCount(), net.EdgeCount())
		s.metrics.RecordFlights("solve", inst.NumFlights())
	}
	telemetry.SetAttributes(ctx,
		telemetry.GraphAttributes(net.NodeCount(), net.EdgeCount(), net.SourceID, net.SinkID)...,
	)

	flow := algorithms.DinicWithContext(ctx, net.Graph, net.SourceID, net.SinkID, s.solverOpts)
	if flow.Canceled {
		err := apperror.Wrap(apperror.CodeTimeout, "solve canceled", ctx.Err())
		telemetry.SetError(ctx, err)
		if s.metrics != nil {
			s.metrics.RecordSolveOperation(cache.AlgorithmDinic, false, time.Since(start), flow.MaxFlow)
		}
		return nil, err
	}

	result := net.ExtractResult(inst, flow.MaxFlow, flow.Iterations)

	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)
	elapsed := time.Since(start)

	telemetry.SetAttributes(ctx,
		telemetry.ScheduleAttributes(result.Feasible, result.TotalCrewRequired, net.TotalDemand)...,
	)
	telemetry.SetAttributes(ctx,
		telemetry.AlgorithmAttributes(cache.AlgorithmDinic, result.Iterations, result.MaxFlowValue)...,
	)

	// Записываем метрики
	if s.metrics != nil {
		s.metrics.RecordSolveOperation(cache.AlgorithmDinic, true, elapsed, result.MaxFlowValue)
		if result.Feasible {
			s.metrics.RecordCrewRequired(cache.AlgorithmDinic, result.TotalCrewRequired)
		} else {
			s.metrics.RecordInfeasible()
		}
	}

	logger.Log.Info("Instance solved",
		"instance", inst.Name,
		"airports", inst.NumAirports(),
		"flights", inst.NumFlights(),
		"feasible", result.Feasible,
		"max_flow", result.MaxFlowValue,
		"total_crew", result.TotalCrewRequired,
		"iterations", result.Iterations,
		"elapsed", elapsed,
	)

	// Сохраняем в кэш
	if s.scheduleCache != nil {
		if err := s.scheduleCache.SetFromResult(ctx, inst, result, elapsed, 0); err != nil {
			logger.Log.Warn("Failed to cache solve result", "instance", inst.Name, "error", err)
		}
	}

	// Персистим результат
	if s.recorder != nil {
		rec := &SolveRecord{
			InstanceName:      inst.Name,
			InstanceHash:      cache.InstanceHash(inst),
			NumAirports:       inst.NumAirports(),
			NumFlights:        inst.NumFlights(),
			Feasible:          result.Feasible,
			MaxFlowValue:      result.MaxFlowValue,
			TotalCrewRequired: result.TotalCrewRequired,
			Iterations:        result.Iterations,
			ComputationTime:   elapsed,
			MemoryUsedBytes:   int64(memAfter.TotalAlloc - memBefore.TotalAlloc),
		}
		if err := s.recorder.RecordSolve(ctx, rec); err != nil {
			logger.Log.Warn("Failed to record solve run", "instance", inst.Name, "error", err)
		}
	}

	return result, nil
}

// Version returns the service version string.
func (s *SchedulerService) Version() string {
	return s.version
}

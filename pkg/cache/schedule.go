package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crewsched/pkg/domain"
)

// AlgorithmDinic имя алгоритма в ключах кэша
const AlgorithmDinic = "DINIC"

// ScheduleCache специализированный кэш для результатов планирования экипажей
type ScheduleCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// CachedScheduleResult кэшированный результат
type CachedScheduleResult struct {
	InitialCrewCount  map[string]int64 `json:"initial_crew_count"`
	TotalCrewRequired int64            `json:"total_crew_required"`
	Feasible          bool             `json:"feasible"`
	MaxFlowValue      int64            `json:"max_flow_value"`
	Iterations        int              `json:"iterations"`
	ComputationTimeMs float64          `json:"computation_time_ms"`
	ComputedAt        time.Time        `json:"computed_at"`
}

// NewScheduleCache создаёт кэш для результатов планирования
func NewScheduleCache(cache Cache, defaultTTL time.Duration) *ScheduleCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &ScheduleCache{
		cache:      cache,
		defaultTTL: defaultTTL,
	}
}

// Get получает кэшированный результат
func (sc *ScheduleCache) Get(ctx context.Context, inst *domain.Instance) (*CachedScheduleResult, bool, error) {
	key := BuildScheduleKey(InstanceHash(inst), AlgorithmDinic)

	data, err := sc.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var result CachedScheduleResult
	if err := json.Unmarshal(data, &result); err != nil {
		// Повреждённый кэш — удаляем, ошибку удаления игнорируем намеренно
		_ = sc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}

	return &result, true, nil
}

// Set сохраняет результат в кэш
func (sc *ScheduleCache) Set(ctx context.Context, inst *domain.Instance, result *CachedScheduleResult, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = sc.defaultTTL
	}

	key := BuildScheduleKey(InstanceHash(inst), AlgorithmDinic)

	result.ComputedAt = time.Now()

	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return sc.cache.Set(ctx, key, data, ttl)
}

// SetFromResult сохраняет доменный результат
func (sc *ScheduleCache) SetFromResult(ctx context.Context, inst *domain.Instance, res *domain.CrewSchedulingResult, computationTime time.Duration, ttl time.Duration) error {
	if res == nil {
		return nil
	}

	cached := &CachedScheduleResult{
		InitialCrewCount:  res.InitialCrewCount,
		TotalCrewRequired: res.TotalCrewRequired,
		Feasible:          res.Feasible,
		MaxFlowValue:      res.MaxFlowValue,
		Iterations:        res.Iterations,
		ComputationTimeMs: float64(computationTime.Microseconds()) / 1000.0,
	}

	return sc.Set(ctx, inst, cached, ttl)
}

// Invalidate удаляет кэш для экземпляра
func (sc *ScheduleCache) Invalidate(ctx context.Context, inst *domain.Instance) error {
	pattern := fmt.Sprintf("schedule:*:%s", InstanceHash(inst))
	_, err := sc.cache.DeleteByPattern(ctx, pattern)
	return err
}

// InvalidateAll удаляет весь кэш результатов планирования
func (sc *ScheduleCache) InvalidateAll(ctx context.Context) (int64, error) {
	return sc.cache.DeleteByPattern(ctx, "schedule:*")
}

// ToResult конвертирует кэшированный результат в доменный
func (r *CachedScheduleResult) ToResult() *domain.CrewSchedulingResult {
	crew := r.InitialCrewCount
	if crew == nil {
		crew = make(map[string]int64)
	}
	return &domain.CrewSchedulingResult{
		InitialCrewCount:  crew,
		TotalCrewRequired: r.TotalCrewRequired,
		Feasible:          r.Feasible,
		MaxFlowValue:      r.MaxFlowValue,
		Iterations:        r.Iterations,
	}
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"crewsched/pkg/database"
	"crewsched/pkg/telemetry"
)

// PostgresSolveRunRepository PostgreSQL реализация
type PostgresSolveRunRepository struct {
	db database.DB
}

// NewPostgresSolveRunRepository создаёт новый репозиторий
func NewPostgresSolveRunRepository(db database.DB) *PostgresSolveRunRepository {
	return &PostgresSolveRunRepository{db: db}
}

func (r *PostgresSolveRunRepository) Create(ctx context.Context, run *SolveRun) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresSolveRunRepository.Create")
	defer span.End()

	query := `
		INSERT INTO solve_runs (
			instance_name, instance_hash, num_airports, num_flights,
			feasible, max_flow_value, total_crew_required, iterations,
			computation_time_ms, memory_used_bytes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		run.InstanceName,
		run.InstanceHash,
		run.NumAirports,
		run.NumFlights,
		run.Feasible,
		run.MaxFlowValue,
		run.TotalCrewRequired,
		run.Iterations,
		run.ComputationTimeMs,
		run.MemoryUsedBytes,
	).Scan(&run.ID, &run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create solve run: %w", err)
	}

	return nil
}

func (r *PostgresSolveRunRepository) GetByID(ctx context.Context, id string) (*SolveRun, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresSolveRunRepository.GetByID")
	defer span.End()

	query := `
		SELECT
			id, instance_name, instance_hash, num_airports, num_flights,
			feasible, max_flow_value, total_crew_required, iterations,
			computation_time_ms, memory_used_bytes, created_at
		FROM solve_runs
		WHERE id = $1
	`

	run := &SolveRun{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.InstanceName,
		&run.InstanceHash,
		&run.NumAirports,
		&run.NumFlights,
		&run.Feasible,
		&run.MaxFlowValue,
		&run.TotalCrewRequired,
		&run.Iterations,
		&run.ComputationTimeMs,
		&run.MemoryUsedBytes,
		&run.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSolveRunNotFound
		}
		return nil, fmt.Errorf("failed to get solve run: %w", err)
	}

	return run, nil
}

func (r *PostgresSolveRunRepository) ListRecent(ctx context.Context, limit int) ([]*SolveRun, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresSolveRunRepository.ListRecent")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	query := `
		SELECT
			id, instance_name, instance_hash, num_airports, num_flights,
			feasible, max_flow_value, total_crew_required, iterations,
			computation_time_ms, memory_used_bytes, created_at
		FROM solve_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	return r.queryRuns(ctx, query, limit)
}

func (r *PostgresSolveRunRepository) ListByInstanceHash(ctx context.Context, hash string) ([]*SolveRun, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresSolveRunRepository.ListByInstanceHash")
	defer span.End()

	query := `
		SELECT
			id, instance_name, instance_hash, num_airports, num_flights,
			feasible, max_flow_value, total_crew_required, iterations,
			computation_time_ms, memory_used_bytes, created_at
		FROM solve_runs
		WHERE instance_hash = $1
		ORDER BY created_at DESC
	`

	return r.queryRuns(ctx, query, hash)
}

func (r *PostgresSolveRunRepository) queryRuns(ctx context.Context, query string, args ...any) ([]*SolveRun, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list solve runs: %w", err)
	}
	defer rows.Close()

	var runs []*SolveRun
	for rows.Next() {
		run := &SolveRun{}
		err := rows.Scan(
			&run.ID,
			&run.InstanceName,
			&run.InstanceHash,
			&run.NumAirports,
			&run.NumFlights,
			&run.Feasible,
			&run.MaxFlowValue,
			&run.TotalCrewRequired,
			&run.Iterations,
			&run.ComputationTimeMs,
			&run.MemoryUsedBytes,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan solve run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return runs, nil
}

func (r *PostgresSolveRunRepository) GetStatistics(ctx context.Context) (*SolveRunStatistics, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresSolveRunRepository.GetStatistics")
	defer span.End()

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE feasible),
			COALESCE(AVG(computation_time_ms), 0),
			COALESCE(AVG(total_crew_required) FILTER (WHERE feasible), 0),
			COALESCE(MAX(num_flights), 0)
		FROM solve_runs
	`

	stats := &SolveRunStatistics{}
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalRuns,
		&stats.FeasibleRuns,
		&stats.AverageComputationTimeMs,
		&stats.AverageCrewRequired,
		&stats.MaxFlights,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get solve run statistics: %w", err)
	}

	return stats, nil
}

// Package repository persists solve runs to PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"time"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the SQL files.
const MigrationsDir = "migrations"

// Стандартные ошибки репозитория
var (
	ErrSolveRunNotFound = errors.New("solve run not found")
)

// SolveRun одна запись о решённом экземпляре
type SolveRun struct {
	ID                string
	InstanceName      string
	InstanceHash      string
	NumAirports       int
	NumFlights        int
	Feasible          bool
	MaxFlowValue      int64
	TotalCrewRequired int64
	Iterations        int
	ComputationTimeMs float64
	MemoryUsedBytes   int64
	CreatedAt         time.Time
}

// SolveRunStatistics агрегированная статистика по решённым экземплярам
type SolveRunStatistics struct {
	TotalRuns                int64
	FeasibleRuns             int64
	AverageComputationTimeMs float64
	AverageCrewRequired      float64
	MaxFlights               int64
}

// SolveRunRepository интерфейс хранилища результатов
type SolveRunRepository interface {
	// Create сохраняет запись и заполняет ID и CreatedAt
	Create(ctx context.Context, run *SolveRun) error

	// GetByID возвращает запись по идентификатору
	GetByID(ctx context.Context, id string) (*SolveRun, error)

	// ListRecent возвращает последние записи (не более limit)
	ListRecent(ctx context.Context, limit int) ([]*SolveRun, error)

	// ListByInstanceHash возвращает все решения одного экземпляра
	ListByInstanceHash(ctx context.Context, hash string) ([]*SolveRun, error)

	// GetStatistics возвращает агрегированную статистику
	GetStatistics(ctx context.Context) (*SolveRunStatistics, error)
}

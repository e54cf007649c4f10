// services/scheduler-svc/factory.go
package schedulersvc

import (
	"context"
	"io"

	"crewsched/pkg/domain"
	"crewsched/services/scheduler-svc/internal/parser"
	"crewsched/services/scheduler-svc/internal/service"
)

// Solver решает задачи планирования экипажей.
type Solver interface {
	Solve(ctx context.Context, inst *domain.Instance) (*domain.CrewSchedulingResult, error)
}

// NewSolver создаёт решатель без кэша и персистентности для внешних
// тестов и бенчмарков. Возвращает интерфейс, скрывая внутреннюю
// структуру реализации.
func NewSolver() Solver {
	return service.NewSchedulerService("benchmark")
}

// ParseInstance читает и валидирует инстанс из CSV-потока.
func ParseInstance(r io.Reader, name string) (*domain.Instance, error) {
	return parser.ParseInstance(r, name)
}

// ParseFile читает и валидирует инстанс из CSV-файла.
func ParseFile(path string) (*domain.Instance, error) {
	return parser.ParseFile(path)
}

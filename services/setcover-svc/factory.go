// services/setcover-svc/factory.go
package setcoversvc

import (
	"io"

	"crewsched/pkg/domain"
	"crewsched/services/setcover-svc/internal/greedy"
	"crewsched/services/setcover-svc/internal/parser"
)

// SolveMealPlan запускает жадный выбор продуктов для внешних тестов
// и бенчмарков.
func SolveMealPlan(inst *domain.SetCoverInstance) (*domain.SetCoverResult, error) {
	return greedy.Solve(inst)
}

// ParseInstance читает и валидирует инстанс из CSV-потока.
func ParseInstance(r io.Reader, name string) (*domain.SetCoverInstance, error) {
	return parser.ParseInstance(r, name)
}

// ParseFile читает и валидирует инстанс из CSV-файла.
func ParseFile(path string) (*domain.SetCoverInstance, error) {
	return parser.ParseFile(path)
}

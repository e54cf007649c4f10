// services/scheduler-svc/internal/report/generator.go
package report

import (
	"context"
	"fmt"
	"time"

	"crewsched/pkg/apperror"
)

// Форматы отчётов (значения совпадают с config simulation.formats)
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// InstanceRow результат прогона одного тестового файла
type InstanceRow struct {
	Filename          string
	NumAirports       int
	NumFlights        int
	AvgRuntimeMs      float64
	TotalCrewRequired int64
	MaxFlowValue      int64
	Feasible          bool
}

// SimulationReport данные для генерации отчёта
type SimulationReport struct {
	Title       string
	Version     string
	Iterations  int
	GeneratedAt time.Time
	Rows        []InstanceRow
}

// FeasibleCount возвращает число разрешимых экземпляров
func (r *SimulationReport) FeasibleCount() int {
	n := 0
	for _, row := range r.Rows {
		if row.Feasible {
			n++
		}
	}
	return n
}

// TotalCrew возвращает суммарный экипаж по всем разрешимым экземплярам
func (r *SimulationReport) TotalCrew() int64 {
	var total int64
	for _, row := range r.Rows {
		if row.Feasible {
			total += row.TotalCrewRequired
		}
	}
	return total
}

// AvgRuntimeMs возвращает среднее время решения по всем экземплярам
func (r *SimulationReport) AvgRuntimeMs() float64 {
	if len(r.Rows) == 0 {
		return 0
	}
	var sum float64
	for _, row := range r.Rows {
		sum += row.AvgRuntimeMs
	}
	return sum / float64(len(r.Rows))
}

// Generator интерфейс генератора отчётов
type Generator interface {
	Generate(ctx context.Context, report *SimulationReport) ([]byte, error)
	Format() string
	Filename() string
}

// NewGenerator создаёт генератор для указанного формата
func NewGenerator(format string) (Generator, error) {
	switch format {
	case FormatCSV:
		return NewCSVGenerator(), nil
	case FormatExcel:
		return NewExcelGenerator(), nil
	case FormatPDF:
		return NewPDFGenerator(), nil
	default:
		return nil, apperror.Newf(apperror.CodeInvalidArgument,
			"unsupported report format: %s", format)
	}
}

// BaseGenerator базовые утилиты для генераторов
type BaseGenerator struct{}

// GetTitle возвращает заголовок отчёта
func (b *BaseGenerator) GetTitle(report *SimulationReport) string {
	if report.Title != "" {
		return report.Title
	}
	return "Crew Scheduling Simulation Report"
}

// FormatFloat форматирует число с заданной точностью
func (b *BaseGenerator) FormatFloat(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}

// FormatBool форматирует булево значение как в исходных результатах
func (b *BaseGenerator) FormatBool(v bool) string {
	return fmt.Sprintf("%t", v)
}

// FormatDuration форматирует длительность
func (b *BaseGenerator) FormatDuration(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.2f ms", ms)
	}
	return fmt.Sprintf("%.2f s", ms/1000)
}

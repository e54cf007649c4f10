// services/scheduler-svc/internal/report/csv.go
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
)

// CSVGenerator генератор CSV отчётов. Колонки и формат совпадают
// с историческим crewscheduling_results.csv, поэтому файл можно
// скармливать существующим скриптам анализа.
type CSVGenerator struct {
	BaseGenerator
}

// NewCSVGenerator создаёт новый генератор
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Format возвращает формат генератора
func (g *CSVGenerator) Format() string {
	return FormatCSV
}

// Filename возвращает имя выходного файла
func (g *CSVGenerator) Filename() string {
	return "crewscheduling_results.csv"
}

// csvWriter обёртка для отслеживания ошибок
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(record)
}

func (cw *csvWriter) Flush() {
	if cw.err != nil {
		return
	}
	cw.w.Flush()
	cw.err = cw.w.Error()
}

func (cw *csvWriter) Error() error {
	return cw.err
}

// Generate генерирует CSV отчёт
func (g *CSVGenerator) Generate(ctx context.Context, report *SimulationReport) ([]byte, error) {
	var buf bytes.Buffer
	cw := &csvWriter{w: csv.NewWriter(&buf)}

	cw.Write([]string{
		"filename", "num_airports", "num_flights", "avg_runtime_ms",
		"total_crew_required", "max_flow_value", "feasible",
	})

	for _, row := range report.Rows {
		cw.Write([]string{
			row.Filename,
			fmt.Sprintf("%d", row.NumAirports),
			fmt.Sprintf("%d", row.NumFlights),
			g.FormatFloat(row.AvgRuntimeMs, 4),
			fmt.Sprintf("%d", row.TotalCrewRequired),
			fmt.Sprintf("%d", row.MaxFlowValue),
			g.FormatBool(row.Feasible),
		})
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("csv write error: %w", err)
	}

	return buf.Bytes(), nil
}

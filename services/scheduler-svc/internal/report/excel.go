// services/scheduler-svc/internal/report/excel.go
package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelGenerator генератор Excel отчётов
type ExcelGenerator struct {
	BaseGenerator
}

// NewExcelGenerator создаёт новый генератор
func NewExcelGenerator() *ExcelGenerator {
	return &ExcelGenerator{}
}

// Format возвращает формат генератора
func (g *ExcelGenerator) Format() string {
	return FormatExcel
}

// Filename возвращает имя выходного файла
func (g *ExcelGenerator) Filename() string {
	return "crewscheduling_results.xlsx"
}

// Generate генерирует Excel отчёт
func (g *ExcelGenerator) Generate(ctx context.Context, report *SimulationReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Simulation Results"
	f.NewSheet(sheetName)
	// Удаляем дефолтный лист
	f.DeleteSheet("Sheet1")

	// Стили
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	row := 1

	// Заголовок
	f.SetCellValue(sheetName, cellAddr("A", row), g.GetTitle(report))
	f.MergeCell(sheetName, cellAddr("A", row), cellAddr("G", row))
	row++

	f.SetCellValue(sheetName, cellAddr("A", row),
		fmt.Sprintf("Generated: %s | Version: %s | Iterations per instance: %d",
			report.GeneratedAt.Format("2006-01-02 15:04:05"), report.Version, report.Iterations))
	f.MergeCell(sheetName, cellAddr("A", row), cellAddr("G", row))
	row += 2

	// Сводка
	f.SetCellValue(sheetName, cellAddr("A", row), "Summary")
	f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("B", row), headerStyle)
	row++

	summary := []struct {
		label string
		value any
	}{
		{"Instances", len(report.Rows)},
		{"Feasible", report.FeasibleCount()},
		{"Total Crew (feasible)", report.TotalCrew()},
		{"Avg Runtime (ms)", report.AvgRuntimeMs()},
	}
	for _, item := range summary {
		f.SetCellValue(sheetName, cellAddr("A", row), item.label)
		f.SetCellValue(sheetName, cellAddr("B", row), item.value)
		row++
	}
	row++

	// Таблица результатов
	f.SetCellValue(sheetName, cellAddr("A", row), "Instances")
	f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("G", row), headerStyle)
	row++

	headers := []string{
		"Filename", "Airports", "Flights", "Avg Runtime (ms)",
		"Total Crew", "Max Flow", "Feasible",
	}
	cols := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cellAddr(cols[i], row), h)
	}
	f.SetCellStyle(sheetName, cellAddr("A", row), cellAddr("G", row), headerStyle)
	row++

	for _, r := range report.Rows {
		f.SetCellValue(sheetName, cellAddr("A", row), r.Filename)
		f.SetCellValue(sheetName, cellAddr("B", row), r.NumAirports)
		f.SetCellValue(sheetName, cellAddr("C", row), r.NumFlights)
		f.SetCellValue(sheetName, cellAddr("D", row), r.AvgRuntimeMs)
		f.SetCellValue(sheetName, cellAddr("E", row), r.TotalCrewRequired)
		f.SetCellValue(sheetName, cellAddr("F", row), r.MaxFlowValue)
		f.SetCellValue(sheetName, cellAddr("G", row), r.Feasible)
		row++
	}

	f.SetColWidth(sheetName, "A", "A", 32)
	f.SetColWidth(sheetName, "B", "G", 16)

	// Записываем в буфер
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// cellAddr формирует адрес ячейки
func cellAddr(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

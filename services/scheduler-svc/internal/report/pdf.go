// services/scheduler-svc/internal/report/pdf.go
package report

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// PDFGenerator генератор PDF отчётов
type PDFGenerator struct {
	BaseGenerator
}

// NewPDFGenerator создаёт новый генератор
func NewPDFGenerator() *PDFGenerator {
	return &PDFGenerator{}
}

// Format возвращает формат генератора
func (g *PDFGenerator) Format() string {
	return FormatPDF
}

// Filename возвращает имя выходного файла
func (g *PDFGenerator) Filename() string {
	return "crewscheduling_results.pdf"
}

// Стили
var (
	primaryColor   = &props.Color{Red: 52, Green: 152, Blue: 219}  // #3498db
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}    // #2c3e50
	lightGrayColor = &props.Color{Red: 236, Green: 240, Blue: 241} // #ecf0f1
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141} // #7f8c8d

	titleStyle = props.Text{
		Size:  24,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: headerBgColor,
	}

	h2Style = props.Text{
		Size:  16,
		Style: fontstyle.Bold,
		Color: headerBgColor,
		Top:   5,
	}

	smallStyle = props.Text{
		Size:  8,
		Color: darkGrayColor,
	}

	metricValueStyle = props.Text{
		Size:  20,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: primaryColor,
	}

	metricLabelStyle = props.Text{
		Size:  9,
		Align: align.Center,
		Color: darkGrayColor,
	}

	tableHeaderStyle = &props.Cell{
		BackgroundColor: primaryColor,
	}

	tableHeaderTextStyle = props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
		Align: align.Center,
	}

	tableCellStyle = &props.Cell{
		BorderType:  border.Bottom,
		BorderColor: lightGrayColor,
	}

	tableCellTextStyle = props.Text{
		Size:  9,
		Align: align.Center,
	}
)

// Generate генерирует PDF отчёт
func (g *PDFGenerator) Generate(ctx context.Context, report *SimulationReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	g.addHeader(m, report)
	g.addSummary(m, report)
	g.addInstancesTable(m, report.Rows)
	g.addFooter(m, report)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func (g *PDFGenerator) addHeader(m core.Maroto, report *SimulationReport) {
	m.AddRow(15,
		text.NewCol(12, g.GetTitle(report), titleStyle),
	)

	m.AddRow(5,
		line.NewCol(12),
	)

	m.AddRow(6,
		text.NewCol(6, fmt.Sprintf("Version: %s", report.Version), smallStyle),
		text.NewCol(6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04:05")),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Right}),
	)

	m.AddRow(8)
}

func (g *PDFGenerator) addSummary(m core.Maroto, report *SimulationReport) {
	g.addSection(m, "Summary")

	g.addMetricCards(m, []metricCard{
		{Label: "Instances", Value: fmt.Sprintf("%d", len(report.Rows))},
		{Label: "Feasible", Value: fmt.Sprintf("%d", report.FeasibleCount())},
		{Label: "Total Crew", Value: fmt.Sprintf("%d", report.TotalCrew()), Highlight: true},
		{Label: "Avg Runtime", Value: g.FormatDuration(report.AvgRuntimeMs())},
	})

	m.AddRow(5)
}

func (g *PDFGenerator) addInstancesTable(m core.Maroto, rows []InstanceRow) {
	g.addSection(m, "Instances")

	m.AddRow(8,
		text.NewCol(3, "Filename", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(1, "Airports", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(1, "Flights", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Avg ms", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Crew", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(2, "Max Flow", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(1, "Feasible", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)

	// Ограничиваем количество строк для PDF
	maxRows := 40
	count := 0
	for _, row := range rows {
		m.AddRow(6,
			text.NewCol(3, row.Filename, tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(1, fmt.Sprintf("%d", row.NumAirports), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(1, fmt.Sprintf("%d", row.NumFlights), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, g.FormatFloat(row.AvgRuntimeMs, 4), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, fmt.Sprintf("%d", row.TotalCrewRequired), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(2, fmt.Sprintf("%d", row.MaxFlowValue), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(1, g.FormatBool(row.Feasible), tableCellTextStyle).WithStyle(tableCellStyle),
		)

		count++
		if count >= maxRows {
			m.AddRow(6,
				text.NewCol(12, fmt.Sprintf("... and %d more instances", len(rows)-maxRows), smallStyle),
			)
			break
		}
	}
}

type metricCard struct {
	Label     string
	Value     string
	Highlight bool
}

func (g *PDFGenerator) addMetricCards(m core.Maroto, cards []metricCard) {
	if len(cards) == 0 {
		return
	}

	colSize := 12 / len(cards)
	if colSize < 2 {
		colSize = 2
	}

	var cols []core.Col
	for _, card := range cards {
		valueStyle := metricValueStyle
		if !card.Highlight {
			valueStyle.Size = 14
		}

		cols = append(cols,
			col.New(colSize).Add(
				text.New(card.Value, valueStyle),
				text.New(card.Label, metricLabelStyle),
			),
		)
	}

	m.AddRow(20, cols...)
}

func (g *PDFGenerator) addSection(m core.Maroto, title string) {
	m.AddRow(10,
		text.NewCol(12, title, h2Style),
	)
	m.AddRow(2,
		line.NewCol(12, props.Line{Color: primaryColor}),
	)
	m.AddRow(5)
}

func (g *PDFGenerator) addFooter(m core.Maroto, report *SimulationReport) {
	m.AddRow(10)
	m.AddRow(2,
		line.NewCol(12, props.Line{Color: lightGrayColor}),
	)
	m.AddRow(6,
		text.NewCol(12,
			fmt.Sprintf("Generated by crewsched %s | %d iterations per instance", report.Version, report.Iterations),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Center},
		),
	)
}

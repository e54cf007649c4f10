package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"crewsched/pkg/apperror"
)

func testReport() *SimulationReport {
	return &SimulationReport{
		Version:     "1.0.0",
		Iterations:  3,
		GeneratedAt: time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
		Rows: []InstanceRow{
			{
				Filename:          "crewscheduling_small.csv",
				NumAirports:       3,
				NumFlights:        4,
				AvgRuntimeMs:      0.4215,
				TotalCrewRequired: 2,
				MaxFlowValue:      4,
				Feasible:          true,
			},
			{
				Filename:          "crewscheduling_large.csv",
				NumAirports:       10,
				NumFlights:        200,
				AvgRuntimeMs:      12.5,
				TotalCrewRequired: 35,
				MaxFlowValue:      250,
				Feasible:          true,
			},
		},
	}
}

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		format   string
		filename string
	}{
		{FormatCSV, "crewscheduling_results.csv"},
		{FormatExcel, "crewscheduling_results.xlsx"},
		{FormatPDF, "crewscheduling_results.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			g, err := NewGenerator(tt.format)
			if err != nil {
				t.Fatalf("NewGenerator(%q) error = %v", tt.format, err)
			}
			if g.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", g.Format(), tt.format)
			}
			if g.Filename() != tt.filename {
				t.Errorf("Filename() = %v, want %v", g.Filename(), tt.filename)
			}
		})
	}
}

func TestNewGenerator_Unsupported(t *testing.T) {
	_, err := NewGenerator("docx")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if apperror.CodeOf(err) != apperror.CodeInvalidArgument {
		t.Errorf("code = %v, want INVALID_ARGUMENT", apperror.CodeOf(err))
	}
}

func TestSimulationReport_Aggregates(t *testing.T) {
	r := testReport()
	r.Rows = append(r.Rows, InstanceRow{Filename: "bad.csv", Feasible: false, AvgRuntimeMs: 3.0})

	if got := r.FeasibleCount(); got != 2 {
		t.Errorf("FeasibleCount() = %d, want 2", got)
	}
	if got := r.TotalCrew(); got != 37 {
		t.Errorf("TotalCrew() = %d, want 37", got)
	}
	want := (0.4215 + 12.5 + 3.0) / 3
	if got := r.AvgRuntimeMs(); got != want {
		t.Errorf("AvgRuntimeMs() = %v, want %v", got, want)
	}
}

func TestCSVGenerator_Generate(t *testing.T) {
	g := NewCSVGenerator()

	result, err := g.Generate(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(result)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("records = %d, want 3 (header + 2 rows)", len(records))
	}

	wantHeader := "filename,num_airports,num_flights,avg_runtime_ms,total_crew_required,max_flow_value,feasible"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}

	first := records[1]
	if first[0] != "crewscheduling_small.csv" {
		t.Errorf("filename = %q", first[0])
	}
	if first[3] != "0.4215" {
		t.Errorf("avg_runtime_ms = %q, want 0.4215", first[3])
	}
	if first[4] != "2" {
		t.Errorf("total_crew_required = %q, want 2", first[4])
	}
	if first[6] != "true" {
		t.Errorf("feasible = %q, want true", first[6])
	}
}

func TestCSVGenerator_Generate_Empty(t *testing.T) {
	g := NewCSVGenerator()

	result, err := g.Generate(context.Background(), &SimulationReport{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(result)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want header only", len(records))
	}
}

func TestExcelGenerator_Generate(t *testing.T) {
	g := NewExcelGenerator()

	result, err := g.Generate(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// XLSX это zip-архив, сигнатура PK
	if len(result) < 2 || result[0] != 'P' || result[1] != 'K' {
		t.Error("result doesn't look like a valid XLSX file")
	}
}

func TestPDFGenerator_Generate(t *testing.T) {
	g := NewPDFGenerator()

	result, err := g.Generate(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// PDF signature: %PDF-
	if len(result) < 5 {
		t.Fatal("PDF file too small")
	}
	if string(result[:5]) != "%PDF-" {
		t.Error("result doesn't look like a valid PDF file")
	}
}

func TestPDFGenerator_Generate_ManyRows(t *testing.T) {
	g := NewPDFGenerator()

	r := testReport()
	for i := 0; i < 60; i++ {
		r.Rows = append(r.Rows, InstanceRow{
			Filename:     "crewscheduling_gen.csv",
			NumAirports:  4,
			NumFlights:   8,
			AvgRuntimeMs: 1.0,
			Feasible:     true,
		})
	}

	result, err := g.Generate(context.Background(), r)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("empty PDF output")
	}
}

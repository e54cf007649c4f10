// services/setcover-svc/internal/simulation/runner.go

// Package simulation прогоняет жадный алгоритм по каталогу тестовых
// файлов и пишет сводный setcover_results.csv.
package simulation

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"crewsched/pkg/apperror"
	"crewsched/pkg/config"
	"crewsched/pkg/logger"
	"crewsched/pkg/metrics"
	"crewsched/pkg/telemetry"
	"crewsched/services/setcover-svc/internal/greedy"
	"crewsched/services/setcover-svc/internal/parser"
)

// filePattern шаблон имён тестовых файлов в data_dir
const filePattern = "setcover_*.csv"

// resultsFilename имя сводного файла результатов
const resultsFilename = "setcover_results.csv"

// defaultIterations число замеров на файл, если не задано в конфиге
const defaultIterations = 3

// InstanceRow результат прогона одного тестового файла
type InstanceRow struct {
	Filename         string
	NumFoods         int
	NumNutrients     int
	AvgRuntimeMs     float64
	SetsSelected     int
	TotalCalories    float64
	CoverageComplete bool
}

// Runner пакетный прогон жадного алгоритма
type Runner struct {
	cfg     config.SimulationConfig
	metrics *metrics.Metrics
}

// NewRunner создаёт новый Runner
func NewRunner(cfg config.SimulationConfig) *Runner {
	return &Runner{
		cfg:     cfg,
		metrics: metrics.Get(),
	}
}

// Run обходит data_dir и решает каждый файл iterations раз.
// Файлы с ошибками парсинга пропускаются с warning.
func (r *Runner) Run(ctx context.Context) ([]InstanceRow, error) {
	ctx, span := telemetry.StartSpan(ctx, "Runner.Run")
	defer span.End()

	runID := uuid.NewString()

	files, err := filepath.Glob(filepath.Join(r.cfg.DataDir, filePattern))
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeIO, "failed to scan data dir", err)
	}
	if len(files) == 0 {
		return nil, apperror.Newf(apperror.CodeNotFound,
			"no %s files found in %s", filePattern, r.cfg.DataDir)
	}
	sort.Strings(files)

	logger.Info("set cover simulation started",
		"run_id", runID,
		"files", len(files),
		"iterations", r.iterations())

	var rows []InstanceRow
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, apperror.Wrap(apperror.CodeTimeout, "simulation canceled", err)
		}

		row, err := r.runFile(path)
		if err != nil {
			logger.Warn("skipping test file", "file", path, "error", err)
			continue
		}
		rows = append(rows, *row)
	}

	if len(rows) == 0 {
		return nil, apperror.Newf(apperror.CodeNotFound,
			"no solvable test files in %s", r.cfg.DataDir)
	}

	logger.Info("set cover simulation finished", "run_id", runID, "instances", len(rows))
	return rows, nil
}

// RunAndWrite выполняет прогон и записывает результаты в results_dir
func (r *Runner) RunAndWrite(ctx context.Context) (string, error) {
	rows, err := r.Run(ctx)
	if err != nil {
		return "", err
	}
	return r.WriteResults(rows)
}

// WriteResults записывает сводный CSV и возвращает путь к нему
func (r *Runner) WriteResults(rows []InstanceRow) (string, error) {
	if err := os.MkdirAll(r.cfg.ResultsDir, 0o755); err != nil {
		return "", apperror.Wrap(apperror.CodeIO, "failed to create results dir", err)
	}

	var buf bytes.Buffer
	cw := &csvWriter{w: csv.NewWriter(&buf)}

	cw.Write([]string{
		"filename", "num_foods", "num_nutrients", "avg_runtime_ms",
		"sets_selected", "total_calories", "coverage_complete",
	})
	for _, row := range rows {
		cw.Write([]string{
			row.Filename,
			fmt.Sprintf("%d", row.NumFoods),
			fmt.Sprintf("%d", row.NumNutrients),
			fmt.Sprintf("%.4f", row.AvgRuntimeMs),
			fmt.Sprintf("%d", row.SetsSelected),
			fmt.Sprintf("%.2f", row.TotalCalories),
			fmt.Sprintf("%t", row.CoverageComplete),
		})
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", apperror.Wrap(apperror.CodeInternal, "csv write error", err)
	}

	path := filepath.Join(r.cfg.ResultsDir, resultsFilename)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", apperror.Wrap(apperror.CodeIO, "failed to write results", err).
			WithDetail("path", path)
	}

	logger.Info("results written", "path", path, "instances", len(rows))
	return path, nil
}

// runFile решает один файл iterations раз и усредняет время
func (r *Runner) runFile(path string) (*InstanceRow, error) {
	inst, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	var (
		total      time.Duration
		lastResult *instanceOutcome
	)
	for i := 0; i < r.iterations(); i++ {
		start := time.Now()
		res, err := greedy.Solve(inst)
		elapsed := time.Since(start)

		r.metrics.RecordSimulationRun(err == nil, elapsed)
		if err != nil {
			return nil, err
		}

		total += elapsed
		lastResult = &instanceOutcome{
			setsSelected:  len(res.SelectedFoods),
			totalCalories: res.TotalCalories,
			fullCoverage:  res.FullCoverage,
		}
	}

	avgMs := float64(total.Microseconds()) / 1000.0 / float64(r.iterations())

	return &InstanceRow{
		Filename:         filepath.Base(path),
		NumFoods:         len(inst.Foods),
		NumNutrients:     len(inst.Universe),
		AvgRuntimeMs:     avgMs,
		SetsSelected:     lastResult.setsSelected,
		TotalCalories:    lastResult.totalCalories,
		CoverageComplete: lastResult.fullCoverage,
	}, nil
}

type instanceOutcome struct {
	setsSelected  int
	totalCalories float64
	fullCoverage  bool
}

func (r *Runner) iterations() int {
	if r.cfg.Iterations < 1 {
		return defaultIterations
	}
	return r.cfg.Iterations
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

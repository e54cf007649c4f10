// services/scheduler-svc/internal/simulation/runner.go

// Package simulation прогоняет решатель по каталогу тестовых файлов
// и записывает сводные результаты в отчёты.
package simulation

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"crewsched/pkg/apperror"
	"crewsched/pkg/config"
	"crewsched/pkg/domain"
	"crewsched/pkg/logger"
	"crewsched/pkg/metrics"
	"crewsched/pkg/telemetry"
	"crewsched/services/scheduler-svc/internal/parser"
	"crewsched/services/scheduler-svc/internal/report"
)

// filePattern шаблон имён тестовых файлов в data_dir
const filePattern = "crewscheduling_*.csv"

// defaultIterations число замеров на файл, если не задано в конфиге
const defaultIterations = 3

// Solver решает один экземпляр. Реализуется service.SchedulerService;
// для честного замера времени сюда передают сервис без кэша.
type Solver interface {
	Solve(ctx context.Context, inst *domain.Instance) (*domain.CrewSchedulingResult, error)
}

// Runner пакетный прогон решателя
type Runner struct {
	solver  Solver
	cfg     config.SimulationConfig
	version string
	metrics *metrics.Metrics
}

// NewRunner создаёт новый Runner
func NewRunner(solver Solver, cfg config.SimulationConfig, version string) *Runner {
	return &Runner{
		solver:  solver,
		cfg:     cfg,
		version: version,
		metrics: metrics.Get(),
	}
}

// Run обходит data_dir, решает каждый файл iterations раз и возвращает
// сводный отчёт. Файлы с ошибками парсинга пропускаются с warning.
func (r *Runner) Run(ctx context.Context) (*report.SimulationReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "Runner.Run")
	defer span.End()

	runID := uuid.NewString()

	files, err := r.discoverFiles()
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	logger.Info("simulation started",
		"run_id", runID,
		"files", len(files),
		"iterations", r.iterations())

	rep := &report.SimulationReport{
		Version:     r.version,
		Iterations:  r.iterations(),
		GeneratedAt: time.Now(),
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, apperror.Wrap(apperror.CodeTimeout, "simulation canceled", err)
		}

		row, err := r.runFile(ctx, path)
		if err != nil {
			logger.Warn("skipping test file", "file", path, "error", err)
			continue
		}
		rep.Rows = append(rep.Rows, *row)
	}

	if len(rep.Rows) == 0 {
		return nil, apperror.Newf(apperror.CodeNotFound,
			"no solvable test files in %s", r.cfg.DataDir)
	}

	logger.Info("simulation finished",
		"run_id", runID,
		"instances", len(rep.Rows),
		"feasible", rep.FeasibleCount(),
		"total_crew", rep.TotalCrew())

	return rep, nil
}

// RunAndWrite выполняет прогон и записывает отчёты во всех
// сконфигурированных форматах. Возвращает пути записанных файлов.
func (r *Runner) RunAndWrite(ctx context.Context) ([]string, error) {
	rep, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}
	return r.WriteReports(ctx, rep)
}

// WriteReports записывает отчёт в results_dir во всех форматах из конфига
func (r *Runner) WriteReports(ctx context.Context, rep *report.SimulationReport) ([]string, error) {
	if err := os.MkdirAll(r.cfg.ResultsDir, 0o755); err != nil {
		return nil, apperror.Wrap(apperror.CodeIO, "failed to create results dir", err)
	}

	formats := r.cfg.Formats
	if len(formats) == 0 {
		formats = []string{report.FormatCSV}
	}

	var written []string
	for _, format := range formats {
		gen, err := report.NewGenerator(format)
		if err != nil {
			return nil, err
		}

		data, err := gen.Generate(ctx, rep)
		if err != nil {
			return nil, apperror.Wrap(apperror.CodeInternal, "report generation failed", err).
				WithDetail("format", format)
		}

		path := filepath.Join(r.cfg.ResultsDir, gen.Filename())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, apperror.Wrap(apperror.CodeIO, "failed to write report", err).
				WithDetail("path", path)
		}

		logger.Info("report written", "format", format, "path", path, "bytes", len(data))
		written = append(written, path)
	}

	return written, nil
}

// discoverFiles находит тестовые файлы в data_dir в лексикографическом порядке
func (r *Runner) discoverFiles() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.cfg.DataDir, filePattern))
	if err != nil {
		return nil, apperror.Wrap(apperror.CodeIO, "failed to scan data dir", err)
	}
	if len(files) == 0 {
		return nil, apperror.Newf(apperror.CodeNotFound,
			"no %s files found in %s", filePattern, r.cfg.DataDir)
	}

	sort.Strings(files)
	return files, nil
}

// runFile решает один файл iterations раз и усредняет время
func (r *Runner) runFile(ctx context.Context, path string) (*report.InstanceRow, error) {
	inst, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	var (
		total  time.Duration
		result *domain.CrewSchedulingResult
	)

	for i := 0; i < r.iterations(); i++ {
		start := time.Now()
		result, err = r.solver.Solve(ctx, inst)
		elapsed := time.Since(start)

		r.metrics.RecordSimulationRun(err == nil, elapsed)
		if err != nil {
			return nil, err
		}

		total += elapsed
	}

	avgMs := float64(total.Microseconds()) / 1000.0 / float64(r.iterations())

	logger.Debug("instance solved",
		"file", filepath.Base(path),
		"avg_ms", avgMs,
		"feasible", result.Feasible,
		"total_crew", result.TotalCrewRequired)

	return &report.InstanceRow{
		Filename:          filepath.Base(path),
		NumAirports:       inst.NumAirports(),
		NumFlights:        inst.NumFlights(),
		AvgRuntimeMs:      avgMs,
		TotalCrewRequired: result.TotalCrewRequired,
		MaxFlowValue:      result.MaxFlowValue,
		Feasible:          result.Feasible,
	}, nil
}

func (r *Runner) iterations() int {
	if r.cfg.Iterations < 1 {
		return defaultIterations
	}
	return r.cfg.Iterations
}

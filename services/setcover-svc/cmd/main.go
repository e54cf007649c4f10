// Package main is the entry point for setcover-svc.
//
// setcover-svc builds daily meal plans: given a universe of nutrients,
// a list of foods with calorie costs and a calorie budget, it selects
// foods greedily by the (new nutrients / calories) ratio until the
// universe is covered or no candidate fits the budget.
//
// The service runs in batch mode: it discovers setcover_*.csv files in
// the configured data directory, times the greedy solve over several
// iterations per instance and writes results/setcover_results.csv.
//
// Configuration mirrors scheduler-svc (CREWSCHED_ env prefix):
//
//	CREWSCHED_LOG_LEVEL              - debug, info, warn, error
//	CREWSCHED_METRICS_ENABLED        - expose Prometheus metrics
//	CREWSCHED_TRACING_ENABLED        - export OTLP traces
//	CREWSCHED_SIMULATION_DATA_DIR    - directory with setcover_*.csv
//	CREWSCHED_SIMULATION_RESULTS_DIR - output directory
//	CREWSCHED_SIMULATION_ITERATIONS  - timed runs per instance (default: 3)
package main

import (
	"context"
	"log"
	"os"
	"time"

	"crewsched/pkg/apperror"
	"crewsched/pkg/config"
	"crewsched/pkg/logger"
	"crewsched/pkg/metrics"
	"crewsched/pkg/telemetry"
	"crewsched/services/setcover-svc/internal/simulation"
)

func main() {
	// run отделён, чтобы defer успели отработать до os.Exit
	if err := run(); err != nil {
		logger.Error("setcover-svc failed", "error", err)
		os.Exit(apperror.ExitCode(err))
	}
}

func run() error {
	cfg, err := config.LoadWithServiceDefaults("setcover-svc")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.Config{
			Enabled:     cfg.Tracing.Enabled,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			logger.Warn("Failed to init telemetry", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Failed to shutdown telemetry", "error", err)
				}
			}()
		}
	}

	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.App.Name)
	m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.StartMetricsServer(cfg.Metrics.Port); err != nil {
				logger.Warn("Metrics server stopped", "error", err)
			}
		}()
	}

	logger.Info("Starting set cover simulation",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"data_dir", cfg.Simulation.DataDir,
		"results_dir", cfg.Simulation.ResultsDir,
	)

	runner := simulation.NewRunner(cfg.Simulation)

	path, err := runner.RunAndWrite(ctx)
	if err != nil {
		return err
	}

	logger.Info("Simulation complete", "results", path)
	return nil
}

// Package main is the entry point for scheduler-svc.
//
// scheduler-svc computes the minimum number of crews that must be
// pre-stationed at each airport so that every scheduled flight departs
// with a crew on board. The problem is reduced to a max-flow computation
// on a time-expanded network and solved with Dinic's algorithm.
//
// # Pipeline
//
//	┌────────────────────────────────────────────────────────────┐
//	│                     Simulation Runner                      │
//	│  (internal/simulation) - batch run over data/*.csv         │
//	├────────────────────────────────────────────────────────────┤
//	│                      Service Layer                         │
//	│  (internal/service) - validation, caching, metrics,        │
//	│  tracing, history persistence                              │
//	├────────────────────────────────────────────────────────────┤
//	│                Network + Algorithm Layers                  │
//	│  (internal/network) - time-expanded network construction   │
//	│  (internal/algorithms, internal/graph) - Dinic max-flow    │
//	├────────────────────────────────────────────────────────────┤
//	│                      Report Layer                          │
//	│  (internal/report) - CSV / Excel / PDF result writers      │
//	└────────────────────────────────────────────────────────────┘
//
// # Configuration
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Environment variables (prefix: CREWSCHED_)
//  2. Config files (config.yaml in standard locations)
//  3. Default values
//
// Key configuration options:
//
//	CREWSCHED_LOG_LEVEL              - debug, info, warn, error (default: info)
//	CREWSCHED_CACHE_ENABLED          - enable result caching (default: false)
//	CREWSCHED_CACHE_DRIVER           - memory, redis (default: memory)
//	CREWSCHED_DATABASE_ENABLED       - persist solve runs in Postgres
//	CREWSCHED_DATABASE_AUTO_MIGRATE  - run goose migrations on startup
//	CREWSCHED_METRICS_ENABLED        - expose Prometheus metrics
//	CREWSCHED_TRACING_ENABLED        - export OTLP traces
//	CREWSCHED_SOLVER_TIMEOUT         - per-solve deadline (0 = none)
//	CREWSCHED_SOLVER_MAX_ITERATIONS  - Dinic phase limit (0 = none)
//	CREWSCHED_SIMULATION_DATA_DIR    - directory with crewscheduling_*.csv
//	CREWSCHED_SIMULATION_RESULTS_DIR - output directory for reports
//	CREWSCHED_SIMULATION_ITERATIONS  - timed runs per instance (default: 3)
//	CREWSCHED_SIMULATION_FORMATS     - report formats: csv, excel, pdf
//
// # Exit Codes
//
//	0 - success
//	1 - internal error (algorithm failure, I/O, timeout)
//	2 - invalid input (bad flight rows, unknown airports, bad header)
package main

import (
	"context"
	"log"
	"os"
	"time"

	"crewsched/pkg/apperror"
	"crewsched/pkg/cache"
	"crewsched/pkg/config"
	"crewsched/pkg/database"
	"crewsched/pkg/logger"
	"crewsched/pkg/metrics"
	"crewsched/pkg/telemetry"
	"crewsched/services/scheduler-svc/internal/algorithms"
	"crewsched/services/scheduler-svc/internal/repository"
	"crewsched/services/scheduler-svc/internal/service"
	"crewsched/services/scheduler-svc/internal/simulation"
)

func main() {
	// run отделён, чтобы defer успели отработать до os.Exit
	if err := run(); err != nil {
		logger.Error("scheduler-svc failed", "error", err)
		os.Exit(apperror.ExitCode(err))
	}
}

func run() error {
	// =========================================================================
	// Configuration
	// =========================================================================
	cfg, err := config.LoadWithServiceDefaults("scheduler-svc")
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

	// =========================================================================
	// Telemetry (OpenTelemetry)
	// =========================================================================
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
			logger.Info("Telemetry initialized", "endpoint", cfg.Tracing.Endpoint)
		}
	}

	// =========================================================================
	// Metrics (Prometheus)
	// =========================================================================
	m := metrics.InitMetrics(cfg.Metrics.Namespace, cfg.App.Name)
	m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.StartMetricsServer(cfg.Metrics.Port); err != nil {
				logger.Warn("Metrics server stopped", "error", err)
			}
		}()
		logger.Info("Metrics server started", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
	}

	// =========================================================================
	// Cache
	// =========================================================================
	//
	// По умолчанию кэш выключен: в пакетном прогоне среднее время должно
	// мерить сам алгоритм, а не чтение из кэша.
	var scheduleCache *cache.ScheduleCache
	if cfg.Cache.Enabled {
		baseCache, err := cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Warn("Failed to create cache, continuing without cache", "error", err)
		} else {
			defer baseCache.Close()
			scheduleCache = cache.NewScheduleCache(baseCache, cfg.Cache.DefaultTTL)
			logger.Info("Schedule cache initialized",
				"driver", cfg.Cache.Driver,
				"ttl", cfg.Cache.DefaultTTL,
			)
		}
	}

	// =========================================================================
	// Database (solve run history)
	// =========================================================================
	var recorder service.Recorder
	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			logger.Warn("Failed to connect to database, history disabled", "error", err)
		} else {
			defer db.Close()

			if cfg.Database.AutoMigrate {
				if err := database.RunMigrations(ctx, db.Pool(), &cfg.Database,
					repository.Migrations, repository.MigrationsDir); err != nil {
					return apperror.Wrap(apperror.CodeInternal, "migrations failed", err)
				}
			}

			recorder = repository.NewSolveRecorder(repository.NewPostgresSolveRunRepository(db))
			logger.Info("Solve run history enabled", "database", cfg.Database.Database)
		}
	}

	// =========================================================================
	// Service + Simulation
	// =========================================================================
	opts := []service.Option{
		service.WithSolverOptions(&algorithms.SolverOptions{
			MaxIterations: cfg.Solver.MaxIterations,
			Progress: func(iteration int, flow int64) bool {
				logger.Debug("Max-flow phase complete", "phase", iteration, "flow", flow)
				return true
			},
		}),
		service.WithTimeout(cfg.Solver.Timeout),
	}
	if recorder != nil {
		opts = append(opts, service.WithRecorder(recorder))
	}
	if scheduleCache != nil {
		opts = append(opts, service.WithScheduleCache(scheduleCache))
	}

	svc := service.NewSchedulerService(cfg.App.Version, opts...)

	logger.Info("Starting crew scheduling simulation",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"data_dir", cfg.Simulation.DataDir,
		"results_dir", cfg.Simulation.ResultsDir,
		"history_enabled", recorder != nil,
	)

	runner := simulation.NewRunner(svc, cfg.Simulation, cfg.App.Version)

	written, err := runner.RunAndWrite(ctx)
	if err != nil {
		return err
	}

	logger.Info("Simulation complete", "reports", written)
	return nil
}

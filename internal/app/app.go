package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minbar/data-preprocessor/internal/config"
	"github.com/minbar/data-preprocessor/internal/infrastructure/mongodb"
	"github.com/minbar/data-preprocessor/internal/infrastructure/scheduler"
	"github.com/minbar/data-preprocessor/internal/infrastructure/storage"
	"github.com/minbar/data-preprocessor/internal/language"
	"github.com/minbar/data-preprocessor/internal/logging"
	"github.com/minbar/data-preprocessor/internal/ports"
	"github.com/minbar/data-preprocessor/internal/server"
	"github.com/minbar/data-preprocessor/internal/textclean"
	"github.com/minbar/data-preprocessor/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration to stores, the processing pipeline, the
// scheduler, and the control surface.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	source    ports.SourceStore
	target    ports.TargetStore
	scheduler *usecase.Scheduler
	server    *server.Server
}

// New connects both stores and assembles the pipeline. A store that cannot
// be reached at startup is fatal; the process should restart rather than
// accept triggers it cannot serve.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source, err := mongodb.Connect(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}

	target, err := storage.Open(cfg.Target.DSN, cfg.Target.Table)
	if err != nil {
		_ = source.Close(ctx)
		return nil, err
	}
	if err := target.EnsureSchema(ctx); err != nil {
		_ = source.Close(ctx)
		_ = target.Close()
		return nil, fmt.Errorf("prepare target schema: %w", err)
	}

	registry, err := language.DefaultRegistry()
	if err != nil {
		_ = source.Close(ctx)
		_ = target.Close()
		return nil, fmt.Errorf("build language registry: %w", err)
	}

	processor := usecase.NewProcessor(usecase.ProcessorDeps{
		Normalizer: textclean.New(cfg.Pipeline.KeepHashtagText),
		Detector:   language.NewDetector(),
		Registry:   registry,
		Logger:     baseLogger.With("component", "processor"),
		Workers:    cfg.Pipeline.Workers,
	})

	runner := usecase.NewRunner(usecase.RunnerDeps{
		Source:        source,
		Target:        target,
		Processor:     processor,
		Logger:        baseLogger.With("component", "runner"),
		BatchSize:     cfg.Pipeline.BatchSize,
		MarkProcessed: cfg.Pipeline.MarkEnabled(),
	})

	monitor := usecase.NewHealthMonitor(source, target, runner)

	driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval)
	jobScheduler := usecase.NewScheduler(driver, runner, baseLogger.With("component", "scheduler"))

	httpServer := server.New(cfg.Server.Addr, server.Deps{
		Monitor: monitor,
		Runner:  runner,
		Logger:  baseLogger.With("component", "server"),
	})

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		source:    source,
		target:    target,
		scheduler: jobScheduler,
		server:    httpServer,
	}, nil
}

// Run starts the scheduler and the control surface and blocks until the
// context is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Start()
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		runErr = err
	}

	a.shutdown()
	return runErr
}

func (a *Application) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.scheduler.Stop(ctx); err != nil {
		a.logger.Error("stop scheduler", "error", err)
	}
	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("shutdown server", "error", err)
	}
	if err := a.source.Close(ctx); err != nil {
		a.logger.Error("close source store", "error", err)
	}
	if err := a.target.Close(); err != nil {
		a.logger.Error("close target store", "error", err)
	}

	a.logger.Info("shutdown complete")
}

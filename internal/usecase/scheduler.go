package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/minbar/data-preprocessor/internal/ports"
)

// Scheduler wires the interval driver to the runner. Scheduled and manual
// triggers funnel through the same single-flight guard; a tick that lands
// during an active run is skipped, not queued.
type Scheduler struct {
	driver ports.Scheduler
	runner *Runner
	logger *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, runner *Runner, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, runner: runner, logger: logger}
}

// Start registers the runner with the provided driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.runner == nil {
		return nil
	}

	job := func(trigger time.Time) {
		_, err := s.runner.Run(ctx)
		if errors.Is(err, ErrAlreadyRunning) {
			if s.logger != nil {
				s.logger.Info("scheduled trigger skipped, run in progress", "trigger", trigger)
			}
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}

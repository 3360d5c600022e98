package usecase

import (
	"context"

	"github.com/minbar/data-preprocessor/internal/domain"
	"github.com/minbar/data-preprocessor/internal/ports"
)

// HealthMonitor aggregates store connectivity and runner state into one
// readiness signal.
type HealthMonitor struct {
	source ports.SourceStore
	target ports.TargetStore
	runner *Runner
}

// HealthReport enumerates per-check status for the health endpoint.
type HealthReport struct {
	Healthy     bool   `json:"-"`
	SourceStore string `json:"source_store"`
	TargetStore string `json:"target_store"`
	LastRun     string `json:"last_run"`
}

// NewHealthMonitor wires the checked components.
func NewHealthMonitor(source ports.SourceStore, target ports.TargetStore, runner *Runner) *HealthMonitor {
	return &HealthMonitor{source: source, target: target, runner: runner}
}

// Check reports healthy only when both stores answer and the most recent
// run did not fail. A failed run degrades health but does not block new
// triggers; the next run gets a fresh attempt.
func (m *HealthMonitor) Check(ctx context.Context) HealthReport {
	report := HealthReport{Healthy: true, SourceStore: "ok", TargetStore: "ok"}

	if err := m.source.Ping(ctx); err != nil {
		report.SourceStore = "error: " + err.Error()
		report.Healthy = false
	}
	if err := m.target.Ping(ctx); err != nil {
		report.TargetStore = "error: " + err.Error()
		report.Healthy = false
	}

	switch last, ok := m.runner.Last(); {
	case m.runner.Running():
		// An active run does not paper over the previous failure; health
		// recovers only once a run finishes cleanly.
		if ok && last.State == domain.JobFailed {
			report.LastRun = "running; previous failed: " + last.LastError
			report.Healthy = false
		} else {
			report.LastRun = "running"
		}
	case !ok:
		report.LastRun = "never ran"
	case last.State == domain.JobFailed:
		report.LastRun = "failed: " + last.LastError
		report.Healthy = false
	default:
		report.LastRun = string(last.State)
	}

	return report
}

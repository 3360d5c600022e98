package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minbar/data-preprocessor/internal/domain"
	"github.com/minbar/data-preprocessor/internal/ports"
)

// ErrAlreadyRunning is returned when a trigger arrives while a run is
// active. Triggers are rejected, never queued.
var ErrAlreadyRunning = errors.New("processing run already in progress")

// RunnerDeps wires the stores and the document pipeline into the runner.
type RunnerDeps struct {
	Source    ports.SourceStore
	Target    ports.TargetStore
	Processor *Processor
	Logger    *slog.Logger
	BatchSize int
	// MarkProcessed gates writing the processed marker back to the source
	// store. With it off every run re-fetches the same backlog, which is
	// the intended dry-run behavior.
	MarkProcessed bool
}

// Runner executes end-to-end processing runs: fetch, process, write, mark,
// looped until the backlog is drained. At most one run is active per
// process; the guard mutex is the only mutual-exclusion point in the
// system.
type Runner struct {
	source    ports.SourceStore
	target    ports.TargetStore
	processor *Processor
	logger    *slog.Logger
	batchSize int
	mark      bool

	mu      sync.Mutex
	running bool
	current domain.JobRun
	last    domain.JobRun
}

// NewRunner constructs the job runner.
func NewRunner(deps RunnerDeps) *Runner {
	batchSize := deps.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Runner{
		source:    deps.Source,
		target:    deps.Target,
		processor: deps.Processor,
		logger:    deps.Logger,
		batchSize: batchSize,
		mark:      deps.MarkProcessed,
	}
}

// Run executes one full run synchronously and returns its final record.
// A second caller gets ErrAlreadyRunning while the first is active.
func (r *Runner) Run(ctx context.Context) (domain.JobRun, error) {
	run, err := r.begin()
	if err != nil {
		return domain.JobRun{}, err
	}
	return r.execute(ctx, run), nil
}

// TriggerAsync claims the run slot synchronously, so rejection is immediate,
// then executes in the background detached from the caller's cancellation.
func (r *Runner) TriggerAsync(ctx context.Context) error {
	run, err := r.begin()
	if err != nil {
		return err
	}
	go r.execute(context.WithoutCancel(ctx), run)
	return nil
}

// Running reports whether a run is currently active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Current returns the live run record, if any.
func (r *Runner) Current() (domain.JobRun, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.running
}

// Last returns the record of the most recently finished run, if any.
func (r *Runner) Last() (domain.JobRun, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.last.ID != ""
}

// begin atomically checks-and-sets the exclusive flag before any I/O.
func (r *Runner) begin() (domain.JobRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return domain.JobRun{}, ErrAlreadyRunning
	}
	r.running = true
	r.current = domain.JobRun{
		ID:        uuid.NewString(),
		State:     domain.JobRunning,
		StartedAt: time.Now().UTC(),
	}
	return r.current, nil
}

func (r *Runner) execute(ctx context.Context, run domain.JobRun) domain.JobRun {
	r.info("processing run started", "run", run.ID)
	err := r.loop(ctx, &run)
	return r.finish(run, err)
}

func (r *Runner) finish(run domain.JobRun, runErr error) domain.JobRun {
	run.FinishedAt = time.Now().UTC()
	if runErr != nil {
		run.State = domain.JobFailed
		run.LastError = runErr.Error()
	} else {
		run.State = domain.JobCompleted
	}

	r.mu.Lock()
	r.last = run
	r.current = domain.JobRun{}
	r.running = false
	r.mu.Unlock()

	if runErr != nil {
		r.error("processing run failed", "run", run.ID, "error", runErr,
			"fetched", run.Fetched, "written", run.Written, "failed", run.Failed)
	} else {
		r.info("processing run completed", "run", run.ID,
			"fetched", run.Fetched, "processed", run.Processed,
			"written", run.Written, "failed", run.Failed,
			"duration", run.FinishedAt.Sub(run.StartedAt))
	}

	return run
}

// loop repeats fetch → process → write → mark until a fetch yields nothing
// new. Fetch and write errors are fatal to the run; the unmarked documents
// are naturally retried next run since claiming is re-derived from status.
func (r *Runner) loop(ctx context.Context, run *domain.JobRun) error {
	seen := make(map[string]struct{})

	for {
		batch, err := r.source.FetchUnprocessed(ctx, r.batchSize)
		if err != nil {
			return fmt.Errorf("fetch batch: %w", err)
		}
		if len(batch) == 0 {
			return nil
		}

		// When marking is disabled (or failed) the same claim comes back on
		// the next fetch; dropping already-seen documents keeps the loop
		// bounded by the backlog instead of spinning on it.
		fresh := make([]domain.RawDocument, 0, len(batch))
		for _, doc := range batch {
			if _, ok := seen[doc.ID]; ok {
				continue
			}
			seen[doc.ID] = struct{}{}
			fresh = append(fresh, doc)
		}
		if len(fresh) == 0 {
			r.info("fetch returned no fresh documents, ending run", "run", run.ID)
			return nil
		}

		run.Fetched += len(fresh)

		processed, failed := r.processor.ProcessBatch(ctx, fresh)
		run.Failed += failed
		run.Processed += len(processed)
		if len(processed) == 0 {
			continue
		}

		written, err := r.target.InsertBatch(ctx, processed)
		if err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
		run.Written += len(written)

		if !r.mark {
			r.debug("marking disabled, leaving source status untouched", "run", run.ID)
			continue
		}

		modified, err := r.source.MarkProcessed(ctx, written)
		if err != nil {
			// Not fatal: the documents stay claimed-but-unmarked and are
			// retried on the next scheduled run.
			r.error("mark processed failed", "run", run.ID, "error", err)
			continue
		}
		r.debug("marked batch processed", "run", run.ID, "requested", len(written), "modified", modified)
	}
}

func (r *Runner) info(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

func (r *Runner) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Runner) error(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Error(msg, args...)
	}
}

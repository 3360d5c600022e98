package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minbar/data-preprocessor/internal/domain"
	"github.com/minbar/data-preprocessor/internal/language"
	"github.com/minbar/data-preprocessor/internal/textclean"
)

// fakeSource serves documents filtered by an in-memory marked set, the same
// claim semantics the real source store derives from the status field.
type fakeSource struct {
	mu         sync.Mutex
	docs       []domain.RawDocument
	marked     map[string]bool
	fetchCalls int
	markCalls  int
	fetchErr   error
	markErr    error
	pingErr    error

	// gate support for concurrency tests
	fetchStarted chan struct{}
	release      chan struct{}
	startOnce    sync.Once
}

func newFakeSource(docs ...domain.RawDocument) *fakeSource {
	return &fakeSource{docs: docs, marked: map[string]bool{}}
}

func (f *fakeSource) FetchUnprocessed(ctx context.Context, limit int) ([]domain.RawDocument, error) {
	if f.fetchStarted != nil {
		f.startOnce.Do(func() { close(f.fetchStarted) })
	}
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	var out []domain.RawDocument
	for _, doc := range f.docs {
		if f.marked[doc.ID] {
			continue
		}
		out = append(out, doc)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeSource) MarkProcessed(ctx context.Context, ids []string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	if f.markErr != nil {
		return 0, f.markErr
	}
	modified := 0
	for _, id := range ids {
		if !f.marked[id] {
			f.marked[id] = true
			modified++
		}
	}
	return modified, nil
}

func (f *fakeSource) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeSource) Close(ctx context.Context) error { return nil }

// fakeTarget implements insert-if-absent over a map.
type fakeTarget struct {
	mu        sync.Mutex
	rows      map[string]domain.ProcessedDocument
	insertErr error
	pingErr   error
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{rows: map[string]domain.ProcessedDocument{}}
}

func (f *fakeTarget) EnsureSchema(ctx context.Context) error { return nil }

func (f *fakeTarget) InsertBatch(ctx context.Context, docs []domain.ProcessedDocument) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if _, exists := f.rows[doc.RawSourceID]; !exists {
			f.rows[doc.RawSourceID] = doc
		}
		ids = append(ids, doc.RawSourceID)
	}
	return ids, nil
}

func (f *fakeTarget) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeTarget) Close() error { return nil }

func (f *fakeTarget) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func testProcessor() *Processor {
	return NewProcessor(ProcessorDeps{
		Normalizer: textclean.New(false),
		Detector:   language.NewDetector(),
		Registry:   language.NewRegistry(),
		Workers:    2,
	})
}

func testRunner(source *fakeSource, target *fakeTarget, batchSize int, mark bool) *Runner {
	return NewRunner(RunnerDeps{
		Source:        source,
		Target:        target,
		Processor:     testProcessor(),
		BatchSize:     batchSize,
		MarkProcessed: mark,
	})
}

func makeDocs(n int) []domain.RawDocument {
	docs := make([]domain.RawDocument, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, domain.RawDocument{
			ID:     fmt.Sprintf("doc-%03d", i),
			Text:   "some perfectly ordinary document text worth keeping",
			Source: "post",
		})
	}
	return docs
}

func TestRunDrainsBacklogInBatches(t *testing.T) {
	t.Parallel()

	source := newFakeSource(makeDocs(25)...)
	target := newFakeTarget()
	runner := testRunner(source, target, 10, true)

	run, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if run.State != domain.JobCompleted {
		t.Fatalf("unexpected state: %s (%s)", run.State, run.LastError)
	}
	if run.Fetched != 25 || run.Processed != 25 || run.Written != 25 || run.Failed != 0 {
		t.Fatalf("unexpected counters: %+v", run)
	}
	// ceil(25/10) working fetches plus the final empty one.
	if source.fetchCalls != 4 {
		t.Fatalf("expected 4 fetch cycles, got %d", source.fetchCalls)
	}
	if target.count() != 25 {
		t.Fatalf("expected 25 rows, got %d", target.count())
	}
	if len(source.marked) != 25 {
		t.Fatalf("expected 25 marked documents, got %d", len(source.marked))
	}
}

func TestSecondRunFindsNothing(t *testing.T) {
	t.Parallel()

	source := newFakeSource(makeDocs(8)...)
	target := newFakeTarget()
	runner := testRunner(source, target, 10, true)

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("first run error: %v", err)
	}

	second, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}

	if second.State != domain.JobCompleted {
		t.Fatalf("unexpected state: %s", second.State)
	}
	if second.Fetched != 0 || second.Written != 0 {
		t.Fatalf("second run should fetch nothing: %+v", second)
	}
	if target.count() != 8 {
		t.Fatalf("expected 8 rows after both runs, got %d", target.count())
	}
}

func TestRunSkipsRowsAlreadyPresent(t *testing.T) {
	t.Parallel()

	source := newFakeSource(makeDocs(5)...)
	target := newFakeTarget()
	target.rows["doc-002"] = domain.ProcessedDocument{RawSourceID: "doc-002", CleanedText: "original row"}
	runner := testRunner(source, target, 10, true)

	run, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if run.State != domain.JobCompleted {
		t.Fatalf("unexpected state: %s", run.State)
	}
	if target.count() != 5 {
		t.Fatalf("expected 5 rows, got %d", target.count())
	}
	// The pre-existing row is untouched but still eligible for marking.
	if target.rows["doc-002"].CleanedText != "original row" {
		t.Fatal("existing row was overwritten")
	}
	if !source.marked["doc-002"] {
		t.Fatal("skipped row must still be marked processed at the source")
	}
}

func TestSingleFlight(t *testing.T) {
	t.Parallel()

	source := newFakeSource(makeDocs(3)...)
	source.fetchStarted = make(chan struct{})
	source.release = make(chan struct{})
	target := newFakeTarget()
	runner := testRunner(source, target, 10, true)

	done := make(chan domain.JobRun, 1)
	go func() {
		run, _ := runner.Run(context.Background())
		done <- run
	}()

	<-source.fetchStarted

	if !runner.Running() {
		t.Fatal("runner should report an active run")
	}
	if err := runner.TriggerAsync(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning from trigger, got %v", err)
	}
	if _, err := runner.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning from run, got %v", err)
	}

	close(source.release)

	select {
	case run := <-done:
		if run.State != domain.JobCompleted {
			t.Fatalf("unexpected state: %s (%s)", run.State, run.LastError)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}

	if runner.Running() {
		t.Fatal("runner still reports an active run")
	}
	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("runner must accept a new run after finishing: %v", err)
	}
}

func TestMarkDisabledRunStillTerminates(t *testing.T) {
	t.Parallel()

	source := newFakeSource(makeDocs(25)...)
	target := newFakeTarget()
	runner := testRunner(source, target, 10, false)

	run, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if run.State != domain.JobCompleted {
		t.Fatalf("unexpected state: %s (%s)", run.State, run.LastError)
	}
	// Without marking the second fetch returns the same claim; the run ends
	// instead of spinning, and the backlog is picked up again next run.
	if run.Fetched != 10 {
		t.Fatalf("expected one batch fetched, got %d", run.Fetched)
	}
	if source.markCalls != 0 {
		t.Fatalf("marking must not happen when disabled, got %d calls", source.markCalls)
	}
	if target.count() != 10 {
		t.Fatalf("expected 10 rows, got %d", target.count())
	}
}

func TestMarkErrorDoesNotFailRun(t *testing.T) {
	t.Parallel()

	source := newFakeSource(makeDocs(25)...)
	source.markErr = errors.New("source store rejected update")
	target := newFakeTarget()
	runner := testRunner(source, target, 10, true)

	run, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if run.State != domain.JobCompleted {
		t.Fatalf("unexpected state: %s (%s)", run.State, run.LastError)
	}
	if source.markCalls != 1 {
		t.Fatalf("expected one failed mark attempt, got %d", source.markCalls)
	}
	if len(source.marked) != 0 {
		t.Fatal("nothing may be marked when the update fails")
	}
	// The failed marking leaves the claim in place, so the refetch returns
	// the same documents; the run ends instead of spinning on them.
	if run.Fetched != 10 || run.Written != 10 {
		t.Fatalf("unexpected counters: %+v", run)
	}
	if target.count() != 10 {
		t.Fatalf("expected 10 rows, got %d", target.count())
	}
}

func TestFetchErrorFailsRun(t *testing.T) {
	t.Parallel()

	source := newFakeSource()
	source.fetchErr = errors.New("source store unreachable")
	runner := testRunner(source, newFakeTarget(), 10, true)

	run, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if run.State != domain.JobFailed {
		t.Fatalf("unexpected state: %s", run.State)
	}
	if !strings.Contains(run.LastError, "fetch batch") {
		t.Fatalf("unexpected error detail: %s", run.LastError)
	}

	last, ok := runner.Last()
	if !ok || last.State != domain.JobFailed {
		t.Fatalf("failed run must be recorded: %+v ok=%v", last, ok)
	}
}

func TestWriteErrorFailsRunAndLeavesSourceUnmarked(t *testing.T) {
	t.Parallel()

	source := newFakeSource(makeDocs(5)...)
	target := newFakeTarget()
	target.insertErr = errors.New("target store unreachable")
	runner := testRunner(source, target, 10, true)

	run, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if run.State != domain.JobFailed {
		t.Fatalf("unexpected state: %s", run.State)
	}
	if !strings.Contains(run.LastError, "write batch") {
		t.Fatalf("unexpected error detail: %s", run.LastError)
	}
	if source.markCalls != 0 {
		t.Fatal("nothing may be marked when the batch write fails")
	}
	if len(source.marked) != 0 {
		t.Fatal("source documents must stay claimable for the next run")
	}
}

package ports

import (
	"context"
	"time"

	"github.com/minbar/data-preprocessor/internal/domain"
)

// SourceStore claims unprocessed documents and records the processed marker.
// Claiming is plain status-field filtering; the single-flight runner is the
// only concurrent reader, so no locking protocol is needed.
type SourceStore interface {
	// FetchUnprocessed returns up to limit documents whose processing status
	// is not yet set, in stable arrival order. An empty result means no
	// unprocessed work remains.
	FetchUnprocessed(ctx context.Context, limit int) ([]domain.RawDocument, error)
	// MarkProcessed sets the processed marker on the given source IDs and
	// returns how many records were modified.
	MarkProcessed(ctx context.Context, ids []string) (int, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// TargetStore persists processed documents with insert-if-absent semantics.
type TargetStore interface {
	EnsureSchema(ctx context.Context) error
	// InsertBatch writes the batch in one transaction; rows whose
	// raw_source_id already exists are skipped, never overwritten. On
	// success it returns every raw_source_id present post-write (inserted
	// or pre-existing), which is the set eligible for source-side marking.
	InsertBatch(ctx context.Context, docs []domain.ProcessedDocument) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// Scheduler controls when processing runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

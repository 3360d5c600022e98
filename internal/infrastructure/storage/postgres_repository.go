package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/minbar/data-preprocessor/internal/domain"
	"github.com/minbar/data-preprocessor/internal/ports"
)

// PostgresRepository persists processed documents into the target table with
// insert-if-absent semantics keyed on raw_source_id.
type PostgresRepository struct {
	db    *sql.DB
	table string
}

var _ ports.TargetStore = (*PostgresRepository)(nil)

var insertColumns = []string{
	"raw_source_id",
	"source",
	"keyword_concept_id",
	"posted_at",
	"processed_at",
	"retrieved_by_keyword",
	"keyword_language",
	"detected_language",
	"cleaned_text",
	"tokens",
	"tokens_filtered",
	"lemmas",
	"original_url",
	"analysis_status",
}

// Open creates the pooled connection handle. Connections are reused across
// runs; the pool hands them out for a run's duration and reclaims them on
// every exit path.
func Open(dsn, table string) (*PostgresRepository, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open target store: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return NewPostgresRepository(db, table), nil
}

// NewPostgresRepository wires an existing sql.DB.
func NewPostgresRepository(db *sql.DB, table string) *PostgresRepository {
	return &PostgresRepository{db: db, table: table}
}

// EnsureSchema creates the target table and its lookup indexes when absent.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			raw_source_id VARCHAR(24) UNIQUE NOT NULL,
			source VARCHAR(50) NOT NULL,
			keyword_concept_id VARCHAR(64),
			posted_at TIMESTAMPTZ,
			processed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			retrieved_by_keyword TEXT,
			keyword_language VARCHAR(8),
			detected_language VARCHAR(8),
			cleaned_text TEXT,
			tokens JSONB,
			tokens_filtered JSONB,
			lemmas JSONB,
			original_url TEXT,
			analysis_status TEXT NOT NULL DEFAULT 'pending_analysis'
		)`, r.table)

	indexes := []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_processed_at ON %[1]s (processed_at)", r.table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_detected_lang ON %[1]s (detected_language)", r.table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_source ON %[1]s (source)", r.table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_concept ON %[1]s (keyword_concept_id)", r.table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_posted_at ON %[1]s (posted_at)", r.table),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%[1]s_analysis_status ON %[1]s (analysis_status)", r.table),
	}

	if _, err := r.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}
	for _, statement := range indexes {
		if _, err := r.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("create index on %s: %w", r.table, err)
		}
	}

	return nil
}

// InsertBatch writes the batch in a single transaction. Conflicting rows are
// skipped (never overwritten), so after a successful commit every submitted
// raw_source_id is present in the table and eligible for source-side marking.
func (r *PostgresRepository) InsertBatch(ctx context.Context, docs []domain.ProcessedDocument) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	query, args, err := r.buildInsert(docs)
	if err != nil {
		return nil, fmt.Errorf("build batch insert: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin batch insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("exec batch insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit batch insert: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.RawSourceID)
	}

	return ids, nil
}

func (r *PostgresRepository) buildInsert(docs []domain.ProcessedDocument) (string, []interface{}, error) {
	builder := sq.Insert(r.table).
		Columns(insertColumns...).
		PlaceholderFormat(sq.Dollar)

	for _, doc := range docs {
		tokens, err := jsonArray(doc.Tokens)
		if err != nil {
			return "", nil, fmt.Errorf("encode tokens for %s: %w", doc.RawSourceID, err)
		}
		filtered, err := jsonArray(doc.TokensFiltered)
		if err != nil {
			return "", nil, fmt.Errorf("encode filtered tokens for %s: %w", doc.RawSourceID, err)
		}
		lemmas, err := jsonArray(doc.Lemmas)
		if err != nil {
			return "", nil, fmt.Errorf("encode lemmas for %s: %w", doc.RawSourceID, err)
		}

		builder = builder.Values(
			doc.RawSourceID,
			doc.Source,
			nullString(doc.ConceptID),
			nullTime(doc.PostedAt),
			doc.CreatedAt,
			nullString(doc.Keyword),
			nullString(doc.KeywordLanguage),
			nullString(doc.DetectedLanguage),
			doc.CleanedText,
			tokens,
			filtered,
			lemmas,
			nullString(doc.URL),
			string(doc.Status),
		)
	}

	return builder.Suffix("ON CONFLICT (raw_source_id) DO NOTHING").ToSql()
}

// Ping verifies target-store connectivity for health checks.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("target store ping: %w", err)
	}
	return nil
}

// Close releases the pool.
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

func jsonArray(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func nullString(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

func nullTime(value *time.Time) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

package domain

import "time"

// AnalysisStatus marks the downstream stage a processed document is waiting on.
type AnalysisStatus string

const (
	// StatusPendingAnalysis is the initial state of every processed document.
	StatusPendingAnalysis AnalysisStatus = "pending_analysis"
)

// RawDocument is a read-only view of a document in the source store. The
// source store owns the record; the pipeline only reads it and later writes
// the processed marker back by ID. Fields beyond ID and Text are opaque
// ingester metadata passed through into the processed record.
type RawDocument struct {
	ID              string
	Text            string
	Source          string
	ConceptID       string
	Keyword         string
	KeywordLanguage string
	URL             string
	PostedAt        *time.Time
}

// ProcessedDocument is the structured result derived from exactly one
// RawDocument. At most one row per RawSourceID ever exists in the target
// store; the unique constraint enforces this, not a pre-check.
type ProcessedDocument struct {
	RawSourceID      string
	Source           string
	ConceptID        string
	Keyword          string
	KeywordLanguage  string
	DetectedLanguage string
	CleanedText      string
	Tokens           []string
	TokensFiltered   []string
	Lemmas           []string
	URL              string
	PostedAt         *time.Time
	Status           AnalysisStatus
	CreatedAt        time.Time
}

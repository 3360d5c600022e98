package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/minbar/data-preprocessor/internal/domain"
	"github.com/minbar/data-preprocessor/internal/language"
	"github.com/minbar/data-preprocessor/internal/textclean"
)

// ProcessorDeps wires the per-document pipeline stages.
type ProcessorDeps struct {
	Normalizer *textclean.Normalizer
	Detector   *language.Detector
	Registry   *language.Registry
	Logger     *slog.Logger
	// Workers bounds parallel document processing within a batch.
	Workers int
}

// Processor turns raw documents into processed ones. It performs no I/O;
// every failure it reports is local to one document.
type Processor struct {
	normalizer *textclean.Normalizer
	detector   *language.Detector
	registry   *language.Registry
	logger     *slog.Logger
	workers    int
}

// NewProcessor constructs the document pipeline.
func NewProcessor(deps ProcessorDeps) *Processor {
	workers := deps.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Processor{
		normalizer: deps.Normalizer,
		detector:   deps.Detector,
		registry:   deps.Registry,
		logger:     deps.Logger,
		workers:    workers,
	}
}

// Process runs the per-document pipeline: clean, detect, enrich, assemble.
// A missing text is a document-local failure; an unsupported language only
// degrades enrichment, the document is still produced.
func (p *Processor) Process(doc domain.RawDocument) (domain.ProcessedDocument, error) {
	if doc.ID == "" {
		return domain.ProcessedDocument{}, fmt.Errorf("document has no source identity")
	}
	if strings.TrimSpace(doc.Text) == "" {
		return domain.ProcessedDocument{}, fmt.Errorf("document %s has no text", doc.ID)
	}

	cleaned := p.normalizer.Clean(doc.Text)

	code := language.Unknown
	var tokens, filtered, lemmas []string
	if cleaned != "" {
		var confidence float64
		code, confidence = p.detector.Detect(cleaned)
		capability := p.registry.Resolve(code)
		tokens = capability.Tokenize(cleaned)
		filtered = capability.RemoveStopwords(tokens)
		lemmas = capability.Lemmatize(filtered)
		p.debug("document enriched",
			"id", doc.ID, "language", code, "confidence", confidence,
			"tokens", len(tokens), "lemmas", len(lemmas))
	}

	return domain.ProcessedDocument{
		RawSourceID:      doc.ID,
		Source:           doc.Source,
		ConceptID:        doc.ConceptID,
		Keyword:          doc.Keyword,
		KeywordLanguage:  doc.KeywordLanguage,
		DetectedLanguage: code,
		CleanedText:      cleaned,
		Tokens:           tokens,
		TokensFiltered:   filtered,
		Lemmas:           lemmas,
		URL:              doc.URL,
		PostedAt:         doc.PostedAt,
		Status:           domain.StatusPendingAnalysis,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// ProcessBatch processes documents in parallel, bounded by the worker count,
// preserving batch order in the result. Failed documents are logged and
// counted, never abort the batch.
func (p *Processor) ProcessBatch(ctx context.Context, docs []domain.RawDocument) ([]domain.ProcessedDocument, int) {
	if len(docs) == 0 {
		return nil, 0
	}

	results := make([]*domain.ProcessedDocument, len(docs))
	var failures atomic.Int32

	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(p.workers)
	for i, doc := range docs {
		i, doc := i, doc
		group.Go(func() error {
			processed, err := p.Process(doc)
			if err != nil {
				p.warn("skipping document", "id", doc.ID, "error", err)
				failures.Add(1)
				return nil
			}
			results[i] = &processed
			return nil
		})
	}
	_ = group.Wait()

	processed := make([]domain.ProcessedDocument, 0, len(docs))
	for _, result := range results {
		if result != nil {
			processed = append(processed, *result)
		}
	}

	return processed, int(failures.Load())
}

func (p *Processor) debug(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Processor) warn(msg string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/lexrag-cli/internal/chunking"
	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexrag-cli/internal/logger"
	"github.com/custodia-labs/lexrag-cli/internal/metadata"
)

// DefaultWorkers bounds how many documents are processed concurrently.
const DefaultWorkers = 10

// Ensure IndexOrchestrator implements the interface.
var _ driving.IndexService = (*IndexOrchestrator)(nil)

// IndexOrchestrator ingests documents from a source into the vector
// store. Each worker owns its document end-to-end; the only state shared
// across workers is the read-only cache-presence check.
type IndexOrchestrator struct {
	source     driven.DocumentSource
	embedder   driven.EmbeddingService
	store      driven.VectorStore
	processed  driven.ProcessedStore
	chunker    *chunking.Chunker
	validator  *chunking.Validator
	normalizer *metadata.Normalizer
	workers    int
}

// NewIndexOrchestrator creates an index orchestrator.
// The processed store is optional - when nil, every document is reindexed.
func NewIndexOrchestrator(
	source driven.DocumentSource,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	processed driven.ProcessedStore,
	chunker *chunking.Chunker,
	workers int,
) *IndexOrchestrator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &IndexOrchestrator{
		source:     source,
		embedder:   embedder,
		store:      store,
		processed:  processed,
		chunker:    chunker,
		validator:  chunking.NewValidator(chunking.MaxChunkSize),
		normalizer: metadata.New(),
		workers:    workers,
	}
}

// Run indexes every document the source offers. Document failures are
// recorded in the report, never propagated; only listing failures abort
// the run.
func (o *IndexOrchestrator) Run(ctx context.Context) (domain.BatchReport, error) {
	ids, err := o.source.List(ctx)
	if err != nil {
		return domain.BatchReport{}, fmt.Errorf("list documents: %w", err)
	}

	logger.Info("Indexing %d documents with %d workers", len(ids), o.workers)

	outcomes := make([]domain.IndexOutcome, len(ids))
	sem := make(chan struct{}, o.workers)
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func(slot int, documentID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcomes[slot] = o.processOne(ctx, documentID)
		}(i, id)
	}
	wg.Wait()

	return summarize(outcomes), nil
}

// processOne loads and indexes a single document, honouring the cache.
func (o *IndexOrchestrator) processOne(ctx context.Context, documentID string) domain.IndexOutcome {
	if o.processed != nil {
		cached, err := o.processed.Has(ctx, documentID, metadata.Version)
		if err != nil {
			logger.Warn("Cache check for %s failed, reindexing: %v", documentID, err)
		} else if cached {
			logger.Debug("Document %s already indexed, skipping", documentID)
			return domain.IndexOutcome{
				DocumentID: documentID,
				Status:     domain.IndexStatusCached,
				IndexedAt:  time.Now().UTC(),
			}
		}
	}

	doc, err := o.source.Load(ctx, documentID)
	if err != nil {
		return failed(documentID, fmt.Errorf("load document: %w", err))
	}
	return o.IndexDocument(ctx, doc)
}

// IndexDocument indexes one document end-to-end: clean, chunk, validate,
// normalize metadata, embed and upsert.
func (o *IndexOrchestrator) IndexDocument(ctx context.Context, doc domain.Document) domain.IndexOutcome {
	flat := o.normalizer.Normalize(doc.Metadata)
	if doc.ID != "" {
		flat["document_id"] = doc.ID
	}

	text := chunking.CleanText(doc.Text)
	chunks := o.chunker.ChunkDocument(text, flat)
	if len(chunks) == 0 {
		logger.Debug("Document %s produced no chunks (empty text)", doc.ID)
		return domain.IndexOutcome{
			DocumentID:     doc.ID,
			Status:         domain.IndexStatusIndexed,
			MetadataFields: len(flat),
			IndexedAt:      time.Now().UTC(),
		}
	}

	report := o.validator.Validate(chunks)
	for _, warning := range report.Warnings {
		logger.Debug("Validation warning for %s: %s", doc.ID, warning)
	}

	ids := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	metadatas := make([]map[string]any, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
		texts[i] = chunk.Text
		metadatas[i] = chunk.Metadata
	}

	vectors, err := o.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return failed(doc.ID, fmt.Errorf("embed chunks: %w", err))
	}
	if err := o.store.Upsert(ctx, ids, vectors, texts, metadatas); err != nil {
		return failed(doc.ID, fmt.Errorf("upsert chunks: %w", err))
	}

	if o.processed != nil {
		if err := o.processed.Mark(ctx, doc.ID, metadata.Version, len(chunks)); err != nil {
			logger.Warn("Marking %s as processed failed: %v", doc.ID, err)
		}
	}

	logger.Info("Indexed %s: %d chunks, %d metadata fields", doc.ID, len(chunks), len(flat))
	return domain.IndexOutcome{
		DocumentID:     doc.ID,
		Status:         domain.IndexStatusIndexed,
		ChunksIndexed:  len(chunks),
		MetadataFields: len(flat),
		Validation:     report,
		IndexedAt:      time.Now().UTC(),
	}
}

func failed(documentID string, err error) domain.IndexOutcome {
	logger.Warn("Indexing %s failed: %v", documentID, err)
	return domain.IndexOutcome{
		DocumentID: documentID,
		Status:     domain.IndexStatusFailed,
		Err:        err.Error(),
		IndexedAt:  time.Now().UTC(),
	}
}

func summarize(outcomes []domain.IndexOutcome) domain.BatchReport {
	report := domain.BatchReport{Total: len(outcomes), Outcomes: outcomes}
	for _, out := range outcomes {
		switch out.Status {
		case domain.IndexStatusIndexed:
			report.Indexed++
		case domain.IndexStatusCached:
			report.Cached++
		case domain.IndexStatusFailed:
			report.Failed++
		}
	}
	if report.Total > 0 {
		report.SuccessRate = float64(report.Indexed+report.Cached) / float64(report.Total) * 100
	}
	return report
}

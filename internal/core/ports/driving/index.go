package driving

import (
	"context"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

// IndexService ingests documents from the configured source into the
// vector store.
type IndexService interface {
	// Run indexes every document the source offers using a bounded
	// worker pool, skipping documents the cache marks as already
	// processed. The report carries per-document outcomes.
	Run(ctx context.Context) (domain.BatchReport, error)

	// IndexDocument indexes a single document end-to-end.
	IndexDocument(ctx context.Context, doc domain.Document) domain.IndexOutcome
}

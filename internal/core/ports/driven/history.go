package driven

import (
	"context"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

// HistoryStore records answered queries. Explicitly constructor-injected:
// there is no ambient process-wide history state.
type HistoryStore interface {
	// Record appends one answered query.
	Record(ctx context.Context, entry domain.HistoryEntry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error
}

// ProcessedStore is the index-run cache: it remembers which documents
// have already been fully indexed so concurrent workers can skip them.
// Has must be safe under concurrent readers.
type ProcessedStore interface {
	// Has reports whether the document was already indexed with the
	// given indexing version.
	Has(ctx context.Context, documentID, version string) (bool, error)

	// Mark records that the document was fully indexed.
	Mark(ctx context.Context, documentID, version string, chunks int) error
}

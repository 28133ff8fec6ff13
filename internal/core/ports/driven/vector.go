package driven

import (
	"context"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

// VectorStore stores chunk embeddings and answers ranked similarity
// queries, optionally constrained by a metadata predicate.
//
// Metadata passed to Upsert must already be flat and canonical (no nested
// structures). Predicate keys passed to Query must be keys that exist in
// that canonical key space.
//
// Implementations may include:
//   - Chroma (HTTP API)
//   - In-memory brute-force store (tests)
type VectorStore interface {
	// Upsert inserts or replaces chunk records. The four slices are
	// parallel and must have equal length.
	Upsert(ctx context.Context, ids []string, vectors [][]float32, texts []string, metadatas []map[string]any) error

	// Query returns up to k hits ranked by ascending distance. A nil
	// predicate means unconstrained search.
	Query(ctx context.Context, vector []float32, k int, predicate map[string]string) ([]domain.SearchHit, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// SampleMetadataKeys returns the metadata keys present on a sample of
	// stored chunks, for diagnostics and stats output.
	SampleMetadataKeys(ctx context.Context, sample int) ([]string, error)

	// Ping validates the store is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

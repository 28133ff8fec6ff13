package driven

import (
	"context"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

// DocumentSource supplies raw documents to index. The only expectation is
// that text is non-nil (empty is valid) and metadata, when present, has
// already been parsed or repaired into the tagged representation.
type DocumentSource interface {
	// List returns the identifiers of every document the source offers.
	List(ctx context.Context) ([]string, error)

	// Load returns one document's cleaned-enough raw text and metadata.
	Load(ctx context.Context, id string) (domain.Document, error)

	// Watch emits document identifiers as they appear or change under the
	// source, until ctx is cancelled. Optional: sources that cannot watch
	// return domain.ErrNotFound.
	Watch(ctx context.Context) (<-chan string, error)
}

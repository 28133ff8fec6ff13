package driving

import (
	"context"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

// QueryService answers natural-language questions over the indexed corpus.
type QueryService interface {
	// Answer resolves one question: extract filters and entities, run the
	// tiered retrieval, correlate entities against result metadata,
	// assemble context and generate the response.
	Answer(ctx context.Context, query string, k int) (domain.Answer, error)

	// AnswerBatch answers several questions sequentially. A failed
	// question yields an Answer carrying the error text; it never aborts
	// the batch.
	AnswerBatch(ctx context.Context, queries []string, k int) ([]domain.Answer, error)
}

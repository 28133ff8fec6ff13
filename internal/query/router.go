package query

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag-cli/internal/logger"
)

// Router runs the tiered retrieval strategy over a vector store. A
// store or embedding failure is degraded to a zero-result outcome; the
// caller of Search never sees a transport error.
type Router struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewRouter creates a search router.
func NewRouter(embedder driven.EmbeddingService, store driven.VectorStore) *Router {
	return &Router{embedder: embedder, store: store}
}

// Search picks a strategy from the extracted filters and runs it:
//
//  1. A document-identifier filter forces an exact-identifier query; zero
//     results from that fall back to an unconstrained query with the same
//     query text.
//  2. Specific filters (date, amount, measure) run a constrained query.
//     Name filters are never used as predicates.
//  3. Otherwise the query is unconstrained.
func (r *Router) Search(ctx context.Context, queryText string, filters domain.QueryFilters, k int) domain.SearchOutcome {
	vector, err := r.embedder.Embed(ctx, queryText)
	if err != nil {
		logger.Warn("Query embedding failed, degrading to empty outcome: %v", err)
		return domain.SearchOutcome{Strategy: domain.StrategyUnconstrainedSemantic}
	}

	if id, ok := filters[domain.FilterDocumentID]; ok {
		predicate := map[string]string{domain.FilterDocumentID: id}
		hits := r.query(ctx, vector, k, predicate)
		if len(hits) > 0 {
			return outcome(hits, domain.StrategyExactIdentifier)
		}
		logger.Debug("Exact-identifier search for %s empty, re-querying unconstrained", id)
		return outcome(r.query(ctx, vector, k, nil), domain.StrategySemanticFallback)
	}

	if specific := filters.Specific(); len(specific) > 0 {
		return outcome(r.query(ctx, vector, k, map[string]string(specific)), domain.StrategyConstrainedSemantic)
	}

	return outcome(r.query(ctx, vector, k, nil), domain.StrategyUnconstrainedSemantic)
}

// query wraps the store call with a bounded retry for transient
// failures: at most 2 attempts, short backoff. A store that still fails
// yields nil hits, never an error.
func (r *Router) query(ctx context.Context, vector []float32, k int, predicate map[string]string) []domain.SearchHit {
	var hits []domain.SearchHit

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(200*time.Millisecond), 1), ctx)
	err := backoff.Retry(func() error {
		var err error
		hits, err = r.store.Query(ctx, vector, k, predicate)
		return err
	}, policy)
	if err != nil {
		logger.Warn("Vector store query failed after retry, degrading to empty outcome: %v", err)
		return nil
	}
	return hits
}

func outcome(hits []domain.SearchHit, strategy domain.SearchStrategy) domain.SearchOutcome {
	return domain.SearchOutcome{Hits: hits, Strategy: strategy, Total: len(hits)}
}

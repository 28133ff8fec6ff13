package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driven"
	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexrag-cli/internal/logger"
	"github.com/custodia-labs/lexrag-cli/internal/query"
)

// DefaultResults is how many chunks a question retrieves by default.
const DefaultResults = 10

// Ensure QueryProcessor implements the interface.
var _ driving.QueryService = (*QueryProcessor)(nil)

// QueryProcessor answers questions over the indexed corpus: filter and
// entity extraction, tiered retrieval, entity-metadata correlation,
// context assembly and response generation.
type QueryProcessor struct {
	extractor *query.FilterExtractor
	router    *query.Router
	llm       driven.LLMService
	history   driven.HistoryStore
	prompts   driven.PromptStore
}

// NewQueryProcessor creates a query processor.
// The history and prompt stores are optional - when nil, queries are not
// recorded and the embedded prompt template is used.
func NewQueryProcessor(
	router *query.Router,
	llm driven.LLMService,
	history driven.HistoryStore,
	prompts driven.PromptStore,
) *QueryProcessor {
	return &QueryProcessor{
		extractor: query.NewFilterExtractor(),
		router:    router,
		llm:       llm,
		history:   history,
		prompts:   prompts,
	}
}

// Answer resolves one question end-to-end.
func (p *QueryProcessor) Answer(ctx context.Context, queryText string, k int) (domain.Answer, error) {
	if k <= 0 {
		k = DefaultResults
	}

	entities := query.ExtractEntities(queryText)
	filters := p.extractor.Extract(queryText)
	logger.Debug("Extracted filters: %v", filters)

	outcome := p.router.Search(ctx, queryText, filters, k)
	logger.Debug("Strategy %s returned %d results", outcome.Strategy, outcome.Total)

	enriched := query.Correlate(entities, outcome.Hits)
	contextBlock := query.AssembleContext(outcome.Hits)
	source := query.PrimarySource(outcome.Hits)

	response, err := p.generate(ctx, contextBlock, queryText, source, enriched)
	if err != nil {
		return domain.Answer{}, err
	}

	answer := domain.Answer{
		Query:       queryText,
		Response:    response,
		Entities:    entities,
		FiltersUsed: filters,
		Strategy:    outcome.Strategy,
		ResultCount: outcome.Total,
		Source:      source,
		Enriched:    enriched,
		AskedAt:     time.Now().UTC(),
	}
	p.record(ctx, answer)
	return answer, nil
}

// AnswerBatch answers questions sequentially. A failed question yields
// an Answer carrying the error text; it never aborts the batch.
func (p *QueryProcessor) AnswerBatch(ctx context.Context, queries []string, k int) ([]domain.Answer, error) {
	answers := make([]domain.Answer, 0, len(queries))
	for _, q := range queries {
		answer, err := p.Answer(ctx, q, k)
		if err != nil {
			logger.Warn("Query %q failed: %v", q, err)
			answer = domain.Answer{
				Query:    q,
				Response: fmt.Sprintf("Error procesando la consulta: %v", err),
				AskedAt:  time.Now().UTC(),
			}
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

// generate builds the prompt and calls the language model, appending the
// provenance trailer to the response.
func (p *QueryProcessor) generate(ctx context.Context, contextBlock, queryText string, source domain.SourceInfo, enriched []domain.EnrichedResult) (string, error) {
	if p.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	prompt := query.BuildPromptFrom(p.promptTemplate(), contextBlock, queryText)
	response, err := p.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("generate response: %w", err)
	}

	trailer := fmt.Sprintf("\n\nFuente: %s, Chunk %d de %d", source.DocumentID, source.Position, source.TotalChunks)
	for _, item := range enriched {
		trailer += fmt.Sprintf("\nMetadatos relevantes: %v\nCoincidencias: %v", item.Metadata, item.Matches)
	}
	return response + trailer, nil
}

// promptTemplate resolves the answer template, preferring a user
// override from the prompt store over the embedded default.
func (p *QueryProcessor) promptTemplate() string {
	if p.prompts == nil {
		return query.DefaultPromptTemplate
	}
	template, err := p.prompts.Load(driven.PromptAnswer)
	if err != nil || template == "" {
		logger.Debug("Prompt override unavailable, using default: %v", err)
		return query.DefaultPromptTemplate
	}
	return template
}

// record appends the answer to history. Best-effort: a history failure
// never fails the answer.
func (p *QueryProcessor) record(ctx context.Context, answer domain.Answer) {
	if p.history == nil {
		return
	}
	entry := domain.HistoryEntry{
		ID:          uuid.NewString(),
		Query:       answer.Query,
		Strategy:    answer.Strategy,
		ResultCount: answer.ResultCount,
		AskedAt:     answer.AskedAt,
	}
	if err := p.history.Record(ctx, entry); err != nil {
		logger.Warn("Recording query history failed: %v", err)
	}
}

package domain

import "time"

// SearchStrategy labels which retrieval tier produced a SearchOutcome.
type SearchStrategy string

const (
	// StrategyExactIdentifier is a vector query constrained to a single
	// extracted document identifier.
	StrategyExactIdentifier SearchStrategy = "exact_identifier"

	// StrategySemanticFallback is the unconstrained re-query issued when
	// an exact-identifier attempt returned zero results.
	StrategySemanticFallback SearchStrategy = "semantic_fallback"

	// StrategyConstrainedSemantic is a vector query constrained to
	// specific filters (date, amount, measure type).
	StrategyConstrainedSemantic SearchStrategy = "constrained_semantic"

	// StrategyUnconstrainedSemantic is the default predicate-free query.
	StrategyUnconstrainedSemantic SearchStrategy = "unconstrained_semantic"
)

// QueryFilters maps constraint names to string values extracted from a
// single query. Keys live in the same canonical key space as normalized
// metadata. Produced once per query, consumed immediately, never persisted.
type QueryFilters map[string]string

// Filter keys the extractor can populate.
const (
	FilterClaimant   = "demandante_normalized"
	FilterDefendant  = "demandado_normalized"
	FilterAmount     = "cuantia_normalized"
	FilterDate       = "fecha_normalized"
	FilterMeasure    = "tipo_medida"
	FilterDocumentID = "document_id"
)

// Specific reports the subset of filters that are narrow enough to use as
// vector-store predicates. Name filters are excluded: OCR noise makes
// exact name matches too brittle for hard predicates.
func (f QueryFilters) Specific() QueryFilters {
	specific := QueryFilters{}
	for _, key := range []string{FilterDate, FilterAmount, FilterMeasure} {
		if v, ok := f[key]; ok {
			specific[key] = v
		}
	}
	return specific
}

// SearchHit is one ranked result from a retrieval attempt.
type SearchHit struct {
	// ID is the chunk identifier.
	ID string

	// Text is the chunk content.
	Text string

	// Metadata is the chunk's flat metadata as stored.
	Metadata map[string]any

	// Distance is the relevance distance (smaller is closer).
	Distance float64
}

// SearchOutcome is the result of one retrieval attempt. A degraded
// attempt (store failure, no matches) is a zero-Total outcome, never an
// error surfaced to the caller.
type SearchOutcome struct {
	Hits     []SearchHit
	Strategy SearchStrategy
	Total    int
}

// Entities holds the strings extracted from a query, grouped by kind.
type Entities struct {
	Names           []string
	Dates           []string
	Amounts         []string
	LegalTerms      []string
	DocumentNumbers []string
	CourtNames      []string
}

// CorrelationHit records one entity found inside a metadata value.
type CorrelationHit struct {
	// Entity is the query-derived string that matched.
	Entity string

	// Field is the metadata key whose value contained the entity.
	Field string

	// Value is the full metadata value.
	Value string
}

// EnrichedResult pairs a hit's metadata with its correlation matches,
// grouped by entity kind. Enrichment is additive provenance signal; it
// never filters or reorders the ranked hits it was derived from.
type EnrichedResult struct {
	Metadata map[string]any
	Matches  map[string][]CorrelationHit
}

// SourceInfo identifies the primary source chunk backing an answer.
type SourceInfo struct {
	DocumentID  string
	Position    int
	TotalChunks int
}

// Answer is the assembled response to one natural-language question.
type Answer struct {
	Query       string
	Response    string
	Entities    Entities
	FiltersUsed QueryFilters
	Strategy    SearchStrategy
	ResultCount int
	Source      SourceInfo
	Enriched    []EnrichedResult
	AskedAt     time.Time
}

// HistoryEntry records one answered query.
type HistoryEntry struct {
	ID          string
	Query       string
	Strategy    SearchStrategy
	ResultCount int
	AskedAt     time.Time
}

package query

import (
	"strings"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

// Correlate tests every extracted entity against every textual metadata
// value of every hit, case-insensitively. Hits with at least one match
// are returned enriched with their full metadata; hits without matches
// are omitted. The signal is strictly additive: the ranked hit list used
// for context assembly is never filtered or reordered here.
func Correlate(entities domain.Entities, hits []domain.SearchHit) []domain.EnrichedResult {
	groups := entityGroups(entities)

	var enriched []domain.EnrichedResult
	for _, hit := range hits {
		matches := map[string][]domain.CorrelationHit{}
		for kind, values := range groups {
			for _, entity := range values {
				needle := strings.ToLower(entity)
				for field, raw := range hit.Metadata {
					value, ok := raw.(string)
					if !ok {
						continue
					}
					if strings.Contains(strings.ToLower(value), needle) {
						matches[kind] = append(matches[kind], domain.CorrelationHit{
							Entity: entity,
							Field:  field,
							Value:  value,
						})
					}
				}
			}
		}
		if len(matches) > 0 {
			enriched = append(enriched, domain.EnrichedResult{Metadata: hit.Metadata, Matches: matches})
		}
	}
	return enriched
}

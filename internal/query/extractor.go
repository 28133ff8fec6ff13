// Package query implements the query side of the engine: filter and
// entity extraction from natural-language questions, the tiered search
// router, entity-metadata correlation and context assembly.
package query

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/metadata"
)

// filterKind names one constraint the extractor looks for.
type filterKind int

const (
	kindClaimant filterKind = iota
	kindDefendant
	kindAmount
	kindDate
	kindMeasure
)

// extraction patterns per kind, first match wins. Order matters:
// downstream precision depends on pattern priority, so the lists are
// evaluated in sequence with early return and never reordered.
var filterPatterns = map[filterKind][]*regexp.Regexp{
	kindClaimant: {
		regexp.MustCompile(`(?i)(?:demandante|actor|solicitante)\s+(?:es\s+)?([A-ZÁÉÍÓÚÑ\s]+)`),
		regexp.MustCompile(`(?i)(?:el\s+)?demandante\s+([A-ZÁÉÍÓÚÑ\s]+)`),
		regexp.MustCompile(`(?i)([A-ZÁÉÍÓÚÑ\s]+)\s+(?:es\s+el\s+)?demandante`),
	},
	kindDefendant: {
		regexp.MustCompile(`(?i)(?:demandado|demandada|entidad)\s+(?:es\s+)?([A-ZÁÉÍÓÚÑ\s]+)`),
		regexp.MustCompile(`(?i)(?:el\s+)?demandado\s+([A-ZÁÉÍÓÚÑ\s]+)`),
		regexp.MustCompile(`(?i)([A-ZÁÉÍÓÚÑ\s]+)\s+(?:es\s+el\s+)?demandado`),
	},
	kindAmount: {
		regexp.MustCompile(`(?i)(?:cuantía|monto|valor)\s+(?:es\s+)?(?:de\s+)?(\$?[\d,\.]+)`),
		regexp.MustCompile(`(?i)(\$?[\d,\.]+)\s+(?:es\s+la\s+)?cuantía`),
		regexp.MustCompile(`(?i)por\s+(\$?[\d,\.]+)`),
	},
	kindDate: {
		regexp.MustCompile(`(?i)(?:fecha|día)\s+(?:es\s+)?(\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
		regexp.MustCompile(`(?i)(\d{1,2}[/-]\d{1,2}[/-]\d{4})\s+(?:es\s+la\s+)?fecha`),
		regexp.MustCompile(`(?i)el\s+(\d{1,2}\s+de\s+[a-záéíóúñ]+\s+de\s+\d{4})`),
	},
	kindMeasure: {
		regexp.MustCompile(`(?i)(?:tipo\s+de\s+)?medida\s+(?:es\s+)?([a-záéíóúñ\s]+)`),
		regexp.MustCompile(`(?i)([a-záéíóúñ\s]+)\s+(?:es\s+el\s+)?tipo\s+de\s+medida`),
		regexp.MustCompile(`(?i)(embargo|medida\s+cautelar|secuestro|prohibición|suspensión)`),
	},
}

// measureVocabulary maps a measure mention to the value the normalizer
// stores under tipo_medida, so a measure predicate matches indexed
// metadata. Unmatched mentions are dropped, never passed through.
var measureVocabulary = []struct {
	mention string
	value   string
}{
	{"embargo", "embargo"},
	{"medida cautelar", "medida cautelar"},
	{"secuestro", "secuestro"},
	{"prohibicion", "prohibicion"},
	{"suspension", "suspension"},
}

// genericWords rejects name candidates that are interrogatives,
// prepositions or domain filler rather than actual party names.
var genericWords = map[string]struct{}{
	"que": {}, "cual": {}, "quien": {}, "como": {}, "cuando": {}, "donde": {},
	"es": {}, "un": {}, "una": {}, "del": {}, "de": {}, "la": {}, "el": {},
	"los": {}, "las": {}, "y": {}, "o": {}, "en": {}, "con": {}, "por": {},
	"para": {}, "sobre": {}, "hay": {}, "tienes": {}, "informacion": {},
	"expediente": {}, "documento": {}, "demandante": {}, "demandado": {},
	"proceso": {}, "caso": {},
}

// dateShape accepts D/M/YYYY and D-M-YYYY style substrings, plus the
// written-out Spanish form.
var dateShape = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{4}|\d{4}-\d{1,2}-\d{1,2}|\d{1,2}\s+de\s+\S+\s+de\s+\d{4}`)

// FilterExtractor derives metadata predicates from a raw query. It is
// stateless and safe for concurrent use.
type FilterExtractor struct{}

// NewFilterExtractor creates a filter extractor.
func NewFilterExtractor() *FilterExtractor {
	return &FilterExtractor{}
}

// Extract runs the per-kind pattern lists over the query, applies the
// validity rules, then merges independently extracted entities as
// fallback values for filters not already populated.
func (e *FilterExtractor) Extract(queryText string) domain.QueryFilters {
	filters := domain.QueryFilters{}

	if v, ok := e.first(queryText, kindClaimant); ok {
		filters[domain.FilterClaimant] = metadata.CanonicalString(v)
	}
	if v, ok := e.first(queryText, kindDefendant); ok {
		filters[domain.FilterDefendant] = metadata.CanonicalString(v)
	}
	if v, ok := e.first(queryText, kindAmount); ok {
		filters[domain.FilterAmount] = metadata.CanonicalAmount(v)
	}
	if v, ok := e.first(queryText, kindDate); ok {
		filters[domain.FilterDate] = canonicalDate(v)
	}
	if v, ok := e.first(queryText, kindMeasure); ok {
		filters[domain.FilterMeasure] = v
	}

	// Entities extracted from the same query back-fill filters the
	// pattern pass missed, subject to the same validity rules.
	entities := ExtractEntities(queryText)
	if _, ok := filters[domain.FilterClaimant]; !ok {
		for _, name := range entities.Names {
			if validName(name) {
				filters[domain.FilterClaimant] = metadata.CanonicalString(name)
				break
			}
		}
	}
	if _, ok := filters[domain.FilterAmount]; !ok && len(entities.Amounts) > 0 {
		if v := metadata.CanonicalAmount(entities.Amounts[0]); validAmount(v) {
			filters[domain.FilterAmount] = v
		}
	}
	if _, ok := filters[domain.FilterDate]; !ok && len(entities.Dates) > 0 {
		if validDate(entities.Dates[0]) {
			filters[domain.FilterDate] = canonicalDate(entities.Dates[0])
		}
	}
	if len(entities.DocumentNumbers) > 0 {
		filters[domain.FilterDocumentID] = entities.DocumentNumbers[0]
	}

	return e.Validate(filters)
}

// first evaluates the kind's pattern list in order and returns the first
// capture that passes the kind's validity rule.
func (e *FilterExtractor) first(text string, kind filterKind) (string, bool) {
	for _, p := range filterPatterns[kind] {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		switch kind {
		case kindClaimant, kindDefendant:
			if validName(candidate) {
				return candidate, true
			}
		case kindAmount:
			if v := metadata.CanonicalAmount(candidate); validAmount(v) {
				return candidate, true
			}
		case kindDate:
			if validDate(candidate) {
				return candidate, true
			}
		case kindMeasure:
			if v, ok := canonicalMeasure(candidate); ok {
				return v, true
			}
		}
	}
	return "", false
}

// Validate re-trims and re-canonicalizes every surviving value into the
// value space the indexed metadata uses, and removes empty ones. Safe
// to call on already-validated filters.
func (e *FilterExtractor) Validate(filters domain.QueryFilters) domain.QueryFilters {
	validated := domain.QueryFilters{}
	for key, value := range filters {
		cleaned := strings.TrimSpace(value)
		if cleaned == "" {
			continue
		}
		switch {
		case key == domain.FilterDate:
			cleaned = canonicalDate(cleaned)
		case key == domain.FilterMeasure:
			if v, ok := canonicalMeasure(cleaned); ok {
				cleaned = v
			}
		case strings.HasSuffix(key, "_normalized"):
			cleaned = metadata.CanonicalString(cleaned)
		}
		validated[key] = cleaned
	}
	return validated
}

func validName(name string) bool {
	name = strings.TrimSpace(name)
	words := strings.Fields(metadata.CanonicalString(name))
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if _, generic := genericWords[w]; generic {
			return false
		}
	}
	if len([]rune(name)) < 3 && len(words) < 2 {
		return false
	}
	return true
}

func validAmount(digitsValue string) bool {
	return len(digitsValue) >= 3
}

func validDate(v string) bool {
	return dateShape.MatchString(v)
}

// canonicalMeasure maps a free-form measure mention onto the controlled
// vocabulary, or rejects it.
func canonicalMeasure(v string) (string, bool) {
	normalized := metadata.CanonicalString(v)
	for _, entry := range measureVocabulary {
		if strings.Contains(normalized, entry.mention) {
			return entry.value, true
		}
	}
	return "", false
}

// canonicalDate reformats a date mention into the ISO form the
// normalizer stores under fecha_normalized; an unparseable mention is
// kept as extracted.
func canonicalDate(v string) string {
	if iso, ok := metadata.CanonicalDate(v); ok {
		return iso
	}
	return v
}

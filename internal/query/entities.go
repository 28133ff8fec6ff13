package query

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

// Patterns for the entity kinds found in Spanish legal queries. Scanned
// over the raw query text, not the normalized form, because names and
// court references rely on capitalization.
var (
	namePattern = regexp.MustCompile(`\b[A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ\s]+\b`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
		regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`),
		regexp.MustCompile(`\d{1,2}\s+de\s+[a-záéíóúñ]+\s+de\s+\d{4}`),
	}

	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?`),
		regexp.MustCompile(`\$\d{1,3}(?:\.\d{3})*(?:,\d{2})?`),
		regexp.MustCompile(`\d{1,3}(?:,\d{3})*(?:\.\d{2})?\s*(?:pesos|dólares|euros)`),
		regexp.MustCompile(`\d+\s*(?:mil|millones|billones)\s*(?:pesos|dólares|euros)`),
	}

	docNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[A-Z]{2,4}\d{6,10}`),
		regexp.MustCompile(`(?i)exp\.?\s*\d{4}/\d{4}`),
		regexp.MustCompile(`(?i)causa\s*\d{4}/\d{4}`),
	}

	courtPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[A-Z][A-Z\s]+(?:TRIBUNAL|JUZGADO|CORTE)`),
		regexp.MustCompile(`(?:TRIBUNAL|JUZGADO|CORTE)\s+[A-Z][A-Z\s]+`),
	}
)

// legalTerms is the controlled vocabulary scanned for in lowercase form.
var legalTerms = []string{
	"demandante", "demandado", "embargo", "medida cautelar",
	"sentencia", "recurso", "apelación", "fundamento",
	"hechos", "pruebas", "testigo", "abogado", "juez",
	"tribunal", "juzgado", "fiscal", "procurador", "notario",
	"acta", "escritura", "contrato", "testamento", "herencia",
	"divorcio", "custodia", "pensión", "alimentos", "hipoteca",
	"desahucio", "arrendamiento", "compraventa", "donación",
}

// ExtractEntities scans a query for the entity kinds used by the filter
// extractor and the result correlator.
func ExtractEntities(text string) domain.Entities {
	var e domain.Entities

	for _, m := range namePattern.FindAllString(text, -1) {
		if name := strings.TrimSpace(m); len([]rune(name)) > 2 {
			e.Names = append(e.Names, name)
		}
	}
	for _, p := range datePatterns {
		e.Dates = append(e.Dates, p.FindAllString(text, -1)...)
	}
	for _, p := range amountPatterns {
		e.Amounts = append(e.Amounts, p.FindAllString(text, -1)...)
	}

	lower := strings.ToLower(text)
	for _, term := range legalTerms {
		if strings.Contains(lower, term) {
			e.LegalTerms = append(e.LegalTerms, term)
		}
	}

	for _, p := range docNumberPatterns {
		e.DocumentNumbers = append(e.DocumentNumbers, p.FindAllString(text, -1)...)
	}
	for _, p := range courtPatterns {
		for _, m := range p.FindAllString(text, -1) {
			e.CourtNames = append(e.CourtNames, strings.TrimSpace(m))
		}
	}
	return e
}

// entityGroups flattens the entity groups into kind-labelled lists for
// the correlator, preserving extraction order within each kind.
func entityGroups(e domain.Entities) map[string][]string {
	return map[string][]string{
		"names":            e.Names,
		"dates":            e.Dates,
		"amounts":          e.Amounts,
		"legal_terms":      e.LegalTerms,
		"document_numbers": e.DocumentNumbers,
		"court_names":      e.CourtNames,
	}
}

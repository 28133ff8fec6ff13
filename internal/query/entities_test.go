package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntities(t *testing.T) {
	e := ExtractEntities("El demandante JUAN PÉREZ reclama $1,000,000 el 15/03/2024 ante el JUZGADO TERCERO CIVIL, expediente RCCI2150725299")

	assert.Contains(t, e.Names, "JUAN PÉREZ")
	assert.Contains(t, e.Amounts, "$1,000,000")
	assert.Contains(t, e.Dates, "15/03/2024")
	assert.Contains(t, e.LegalTerms, "demandante")
	assert.Contains(t, e.LegalTerms, "juzgado")
	assert.Contains(t, e.DocumentNumbers, "RCCI2150725299")
	assert.NotEmpty(t, e.CourtNames)
}

func TestExtractEntities_WrittenDate(t *testing.T) {
	e := ExtractEntities("sentencia del 3 de febrero de 2023")
	assert.Contains(t, e.Dates, "3 de febrero de 2023")
}

func TestExtractEntities_ShortNamesIgnored(t *testing.T) {
	e := ExtractEntities("el caso AB terminó")
	assert.NotContains(t, e.Names, "AB")
}

func TestExtractEntities_Empty(t *testing.T) {
	e := ExtractEntities("¿qué pasó después?")
	assert.Empty(t, e.Names)
	assert.Empty(t, e.Dates)
	assert.Empty(t, e.Amounts)
	assert.Empty(t, e.DocumentNumbers)
}

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

func TestRepairAndParse_Valid(t *testing.T) {
	got, err := RepairAndParse(`{"demandante": "JUAN PÉREZ", "cuantia": 500000}`)
	require.NoError(t, err)
	require.Equal(t, domain.MetaMapping, got.Kind)
	assert.Equal(t, "JUAN PÉREZ", got.Map["demandante"].Scalar)
}

func TestRepairAndParse_Empty(t *testing.T) {
	for _, blob := range []string{"", "   ", "\n\t"} {
		got, err := RepairAndParse(blob)
		require.NoError(t, err)
		assert.Equal(t, domain.MetaAbsent, got.Kind)
	}
}

func TestRepairAndParse_TrailingComma(t *testing.T) {
	got, err := RepairAndParse(`{"key": "value",}`)
	require.NoError(t, err)
	assert.Equal(t, "value", got.Map["key"].Scalar)

	got, err = RepairAndParse(`{"items": ["a", "b",],}`)
	require.NoError(t, err)
	assert.Len(t, got.Map["items"].Seq, 2)
}

func TestRepairAndParse_ControlChars(t *testing.T) {
	got, err := RepairAndParse("{\"key\": \"val\x00ue\"}")
	require.NoError(t, err)
	assert.Equal(t, "value", got.Map["key"].Scalar)
}

func TestRepairAndParse_DoubledQuotes(t *testing.T) {
	got, err := RepairAndParse(`{""key"": ""value""}`)
	require.NoError(t, err)
	assert.Equal(t, "value", got.Map["key"].Scalar)
}

func TestRepairAndParse_SingleElementArray(t *testing.T) {
	// Some extraction runs wrap the metadata object in a one-element array.
	got, err := RepairAndParse(`[{"demandado": "EMPRESA XYZ"}]`)
	require.NoError(t, err)
	require.Equal(t, domain.MetaMapping, got.Kind)
	assert.Equal(t, "EMPRESA XYZ", got.Map["demandado"].Scalar)
}

func TestRepairAndParse_Unparseable(t *testing.T) {
	for _, blob := range []string{
		`{"unclosed": "object"`,
		`not json at all`,
		`{"key": }`,
	} {
		_, err := RepairAndParse(blob)
		assert.ErrorIs(t, err, domain.ErrMetadataUnparseable, "blob: %s", blob)
	}
}

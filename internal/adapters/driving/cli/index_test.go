package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index [source-dir]", indexCmd.Use)
}

func TestIndexCmd_PrintsReport(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	indexService = &mockIndexService{report: domain.BatchReport{
		Total:       3,
		Indexed:     2,
		Cached:      1,
		SuccessRate: 100,
		Outcomes: []domain.IndexOutcome{
			{DocumentID: "RCCI2150725299", Status: domain.IndexStatusIndexed, ChunksIndexed: 5, MetadataFields: 12},
			{DocumentID: "RCCI2150725300", Status: domain.IndexStatusCached},
		},
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed 3 documents: 2 new, 1 cached, 0 failed")
	assert.Contains(t, buf.String(), "100.0% success")
}

func TestIndexCmd_DetailsFlag(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	indexService = &mockIndexService{report: domain.BatchReport{
		Total:       1,
		Indexed:     1,
		SuccessRate: 100,
		Outcomes: []domain.IndexOutcome{
			{DocumentID: "RCCI2150725299", Status: domain.IndexStatusIndexed, ChunksIndexed: 5, MetadataFields: 12},
		},
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "--details"})
	defer func() { indexDetails = false }()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "RCCI2150725299: 5 chunks, 12 metadata fields")
}

func TestIndexCmd_FailuresAlwaysListed(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	indexService = &mockIndexService{report: domain.BatchReport{
		Total:       1,
		Failed:      1,
		SuccessRate: 0,
		Outcomes: []domain.IndexOutcome{
			{DocumentID: "RCCI2150725301", Status: domain.IndexStatusFailed, Err: "embed chunks: boom"},
		},
	}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "RCCI2150725301: failed: embed chunks: boom")
}

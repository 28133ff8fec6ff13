package chunking

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/tokenizer"
)

// words builds a paragraph of n distinct word tokens.
func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("palabra%d", i)
	}
	return strings.Join(parts, " ")
}

func baseMetadata() map[string]any {
	return map[string]any{"document_id": "RCCI2150725299"}
}

func TestNewChunker(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewChunker()
		require.NoError(t, err)
		assert.Equal(t, DefaultChunkSize, c.ChunkSize())
	})

	t.Run("chunk size above maximum", func(t *testing.T) {
		_, err := NewChunker(WithChunkSize(MaxChunkSize + 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
	})

	t.Run("chunk size below minimum", func(t *testing.T) {
		_, err := NewChunker(WithChunkSize(MinChunkSize - 1))
		assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
	})

	t.Run("overlap not smaller than chunk size", func(t *testing.T) {
		_, err := NewChunker(WithChunkSize(100), WithOverlap(100))
		assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
	})
}

func TestChunkDocument_Empty(t *testing.T) {
	c, err := NewChunker()
	require.NoError(t, err)

	assert.Empty(t, c.ChunkDocument("", baseMetadata()))
	assert.Empty(t, c.ChunkDocument("   \n\t  ", baseMetadata()))
}

func TestChunkDocument_SingleParagraph(t *testing.T) {
	c, err := NewChunker()
	require.NoError(t, err)

	chunks := c.ChunkDocument(words(100), baseMetadata())
	require.Len(t, chunks, 1)

	chunk := chunks[0]
	assert.Equal(t, 1, chunk.Position)
	assert.Equal(t, 1, chunk.TotalChunks)
	assert.Nil(t, chunk.OverlapStart)
	assert.Equal(t, "RCCI2150725299_chunk_1", chunk.ID)
	assert.Equal(t, "RCCI2150725299", chunk.Metadata["document_id"])
	assert.Equal(t, 1, chunk.Metadata["chunk_position"])
	assert.Equal(t, 1, chunk.Metadata["total_chunks"])
	assert.Equal(t, 100, chunk.Metadata["token_count"])
}

func TestChunkDocument_ParagraphsNeverMerged(t *testing.T) {
	c, err := NewChunker()
	require.NoError(t, err)

	// Three small paragraphs stay three chunks even though they would
	// all fit in one.
	text := words(10) + "\n\n" + words(10) + "\n\n" + words(10)
	chunks := c.ChunkDocument(text, baseMetadata())
	assert.Len(t, chunks, 3)
}

func TestChunkDocument_RecursiveFallback(t *testing.T) {
	c, err := NewChunker(WithChunkSize(512), WithOverlap(50))
	require.NoError(t, err)

	// Spec example: 300-token and 800-token paragraphs.
	text := words(300) + "\n\n" + words(800)
	chunks := c.ChunkDocument(text, baseMetadata())
	require.GreaterOrEqual(t, len(chunks), 3)

	total := len(chunks)
	for i, chunk := range chunks {
		assert.Equal(t, i+1, chunk.Position)
		assert.Equal(t, total, chunk.TotalChunks)
		assert.Equal(t, total, chunk.Metadata["total_chunks"])
		if i == 0 {
			assert.Nil(t, chunk.OverlapStart)
		} else {
			require.NotNil(t, chunk.OverlapStart)
			require.NotNil(t, chunk.OverlapEnd)
		}
	}

	// Every chunk respects the bound once the overlap prefix is ignored.
	for _, chunk := range chunks {
		body := chunk.Text
		if chunk.OverlapStart != nil {
			body = string([]rune(chunk.Text)[*chunk.OverlapStart:])
		}
		assert.LessOrEqual(t, tokenizer.Count(body), 512)
	}
}

func TestChunkDocument_OverlapOffsets(t *testing.T) {
	c, err := NewChunker(WithChunkSize(100), WithOverlap(20))
	require.NoError(t, err)

	text := words(80) + "\n\n" + words(80)
	chunks := c.ChunkDocument(text, baseMetadata())
	require.Len(t, chunks, 2)

	second := chunks[1]
	require.NotNil(t, second.OverlapStart)
	// The overlap prefix is the trailing 20 characters of chunk one.
	first := []rune(chunks[0].Text)
	wantPrefix := string(first[len(first)-20:])
	assert.True(t, strings.HasPrefix(second.Text, wantPrefix))
	assert.Equal(t, 20, *second.OverlapStart)
	assert.Equal(t, 20+len([]rune(words(80))), *second.OverlapEnd)
}

func TestChunkDocument_ShortPredecessorOverlap(t *testing.T) {
	c, err := NewChunker(WithChunkSize(100), WithOverlap(80))
	require.NoError(t, err)

	// First chunk shorter than the overlap: the whole text is reused.
	text := "Corto.\n\n" + words(50)
	chunks := c.ChunkDocument(text, baseMetadata())
	require.Len(t, chunks, 2)
	require.NotNil(t, chunks[1].OverlapStart)
	assert.Equal(t, len([]rune(chunks[0].Text)), *chunks[1].OverlapStart)
}

func TestChunkDocument_Coverage(t *testing.T) {
	c, err := NewChunker(WithChunkSize(128), WithOverlap(20))
	require.NoError(t, err)

	text := words(100) + "\n\n" + words(300) + "\n\n" + words(60)
	chunks := c.ChunkDocument(text, baseMetadata())
	require.NotEmpty(t, chunks)

	// Concatenating chunk bodies (overlap prefixes stripped) must
	// reconstruct every token of the cleaned input, in order.
	var rebuilt []string
	for _, chunk := range chunks {
		body := chunk.Text
		if chunk.OverlapStart != nil {
			body = string([]rune(chunk.Text)[*chunk.OverlapStart:])
		}
		rebuilt = append(rebuilt, tokenizer.Tokenize(body)...)
	}
	assert.Equal(t, tokenizer.Tokenize(text), rebuilt)
}

func TestChunkDocument_TruncationLastResort(t *testing.T) {
	c, err := NewChunker(WithChunkSize(50), WithOverlap(10))
	require.NoError(t, err)

	// A single unsplittable atom beyond the bound: comma-joined tokens
	// count individually but offer no whitespace or sentence boundary.
	atom := strings.Repeat("a,", 400)
	require.Greater(t, tokenizer.Count(atom), 50)

	chunks := c.ChunkDocument(atom, baseMetadata())
	require.Len(t, chunks, 1)
	assert.LessOrEqual(t, len([]rune(chunks[0].Text)), 50*4)
}

func TestChunkDocument_MissingDocumentID(t *testing.T) {
	c, err := NewChunker()
	require.NoError(t, err)

	chunks := c.ChunkDocument(words(10), map[string]any{})
	require.Len(t, chunks, 1)
	assert.Equal(t, "doc_chunk_1", chunks[0].ID)
}

func TestValidator(t *testing.T) {
	c, err := NewChunker(WithChunkSize(512), WithOverlap(50))
	require.NoError(t, err)
	v := NewValidator(512)

	t.Run("empty sequence", func(t *testing.T) {
		report := v.Validate(nil)
		assert.Equal(t, 0, report.TotalChunks)
		assert.Equal(t, float64(0), report.SuccessRate)
	})

	t.Run("compliant sequence", func(t *testing.T) {
		chunks := c.ChunkDocument(words(300)+"\n\n"+words(300), baseMetadata())
		report := v.Validate(chunks)
		assert.Equal(t, len(chunks), report.TotalChunks)
		assert.Equal(t, len(chunks), report.WithinSize)
		assert.Equal(t, len(chunks)-1, report.WithOverlap)
		assert.Empty(t, report.Errors)
		assert.Empty(t, report.Warnings)
		assert.Equal(t, float64(100), report.SuccessRate)
	})

	t.Run("oversized and unidentified chunks are reported", func(t *testing.T) {
		chunks := []domain.Chunk{
			{Text: words(600), Metadata: map[string]any{}},
		}
		report := v.Validate(chunks)
		assert.Equal(t, 0, report.WithinSize)
		require.Len(t, report.Errors, 1)
		assert.Contains(t, report.Errors[0], "exceeds max size")
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0], "document_id")
		assert.Equal(t, float64(0), report.SuccessRate)
	})
}

// Package chunking splits OCR'd legal filings into bounded,
// overlap-consistent chunks ready for embedding and indexing.
//
// The chunker works paragraph-first with a fixed recursive fallback
// ladder (paragraph, sentence, word, truncate) for oversized segments,
// then injects character-based overlap between consecutive chunks.
package chunking

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/logger"
	"github.com/custodia-labs/lexrag-cli/internal/tokenizer"
)

// Chunk-size limits, in tokens of the sizing tokenizer.
const (
	DefaultChunkSize = 512
	DefaultOverlap   = 50
	MinChunkSize     = 50
	MaxChunkSize     = 1024
)

// Chunker produces ordered, metadata-carrying chunks from one document's
// raw text. Safe for concurrent use across documents: it holds only
// immutable configuration.
type Chunker struct {
	chunkSize int
	overlap   int

	paragraphs ParagraphStrategy
	sentences  SentenceStrategy
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum chunk size in tokens.
func WithChunkSize(size int) Option {
	return func(c *Chunker) { c.chunkSize = size }
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) { c.overlap = overlap }
}

// NewChunker creates a chunker, validating its configuration.
// chunk size must be within [MinChunkSize, MaxChunkSize] and overlap
// strictly smaller than chunk size; violations fail construction.
func NewChunker(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.chunkSize > MaxChunkSize:
		return nil, fmt.Errorf("%w: chunk size %d exceeds maximum %d",
			domain.ErrInvalidChunkConfig, c.chunkSize, MaxChunkSize)
	case c.chunkSize < MinChunkSize:
		return nil, fmt.Errorf("%w: chunk size %d below minimum %d",
			domain.ErrInvalidChunkConfig, c.chunkSize, MinChunkSize)
	case c.overlap >= c.chunkSize:
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrInvalidChunkConfig, c.overlap, c.chunkSize)
	}
	return c, nil
}

// ChunkSize returns the configured maximum chunk size in tokens.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// ChunkDocument splits text into an ordered chunk sequence carrying the
// document metadata. Empty or whitespace-only text yields no chunks.
func (c *Chunker) ChunkDocument(text string, metadata map[string]any) []domain.Chunk {
	docID := documentID(metadata)
	logger.Debug("Chunking document %s", docID)

	if strings.TrimSpace(text) == "" {
		logger.Warn("Empty text for document %s, no chunks produced", docID)
		return nil
	}

	// Paragraphs that fit are emitted as-is; they are never merged with
	// neighbours. Oversized paragraphs go through the fallback ladder.
	var chunks []domain.Chunk
	position := 1
	for _, paragraph := range c.paragraphs.Split(text, c.chunkSize) {
		if tokenizer.Count(paragraph) > c.chunkSize {
			for _, piece := range c.fallback(paragraph, c.chunkSize) {
				chunks = append(chunks, c.newChunk(piece, position, metadata))
				position++
			}
		} else {
			chunks = append(chunks, c.newChunk(paragraph, position, metadata))
			position++
		}
	}

	chunks = c.applyOverlap(chunks)
	c.finalize(chunks, tokenizer.Count(text))

	logger.Debug("Chunking complete for %s: %d chunks", docID, len(chunks))
	return chunks
}

// fallback reduces text to pieces of at most maxSize tokens. The ladder
// order is fixed: paragraph, sentence, word, truncate. Only the truncate
// rung is lossy and it is logged as a warning.
func (c *Chunker) fallback(text string, maxSize int) []string {
	if tokenizer.Count(text) <= maxSize {
		return []string{text}
	}

	if paragraphs := c.paragraphs.Split(text, maxSize); len(paragraphs) > 1 {
		var result []string
		for _, p := range paragraphs {
			result = append(result, c.fallback(p, maxSize)...)
		}
		return result
	}

	if sentences := c.sentences.Split(text, maxSize); len(sentences) > 1 {
		return accumulate(sentences, maxSize)
	}

	if words := strings.Fields(text); len(words) > 1 {
		return accumulate(words, maxSize)
	}

	// A single atom still exceeds maxSize (one extremely long token).
	// Truncate to an approximate character budget of 4 chars per token.
	logger.Warn("Text cannot be split further, truncating: %s", preview(text))
	return []string{truncateRunes(text, maxSize*4)}
}

// accumulate greedily packs parts into buffers of at most maxSize tokens,
// flushing the buffer whenever adding the next part would exceed it. An
// individual part larger than maxSize is emitted as-is; the validator
// reports such chunks.
func accumulate(parts []string, maxSize int) []string {
	var result []string
	current := ""
	for _, part := range parts {
		candidate := part
		if current != "" {
			candidate = current + " " + part
		}
		if tokenizer.Count(candidate) <= maxSize {
			current = candidate
		} else {
			if current != "" {
				result = append(result, strings.TrimSpace(current))
			}
			current = part
		}
	}
	if current != "" {
		result = append(result, strings.TrimSpace(current))
	}
	return result
}

// applyOverlap prepends the trailing overlap characters of each chunk's
// predecessor. Overlap is measured in characters of the predecessor's
// original text and never changes the number of chunks. The first chunk
// is left unmodified.
func (c *Chunker) applyOverlap(chunks []domain.Chunk) []domain.Chunk {
	if len(chunks) <= 1 {
		return chunks
	}

	out := make([]domain.Chunk, 0, len(chunks))
	for i, chunk := range chunks {
		if i == 0 {
			out = append(out, chunk)
			continue
		}

		prev := []rune(chunks[i-1].Text)
		overlapText := string(prev)
		if len(prev) > c.overlap {
			overlapText = string(prev[len(prev)-c.overlap:])
		}

		combined := c.newChunk(overlapText+" "+chunk.Text, chunk.Position, chunk.Metadata)
		start := len([]rune(overlapText))
		end := start + len([]rune(chunk.Text))
		combined.OverlapStart = &start
		combined.OverlapEnd = &end
		combined.Metadata["overlap_start"] = start
		combined.Metadata["overlap_end"] = end
		out = append(out, combined)
	}
	return out
}

// finalize stamps the final total on every chunk and computes the
// approximate token windows. Positions are already sequential; totals
// only become known once all splitting decisions are final.
func (c *Chunker) finalize(chunks []domain.Chunk, totalTokens int) {
	total := len(chunks)
	for i := range chunks {
		chunks[i].Position = i + 1
		chunks[i].TotalChunks = total
		chunks[i].StartToken = i * c.chunkSize
		chunks[i].EndToken = min((i+1)*c.chunkSize, totalTokens)

		chunks[i].Metadata["chunk_position"] = chunks[i].Position
		chunks[i].Metadata["total_chunks"] = total
		chunks[i].Metadata["start_token"] = chunks[i].StartToken
		chunks[i].Metadata["end_token"] = chunks[i].EndToken
	}
}

// newChunk builds a chunk with a copy of the document metadata plus the
// chunk-specific fields.
func (c *Chunker) newChunk(text string, position int, base map[string]any) domain.Chunk {
	id := fmt.Sprintf("%s_chunk_%d", documentID(base), position)

	meta := make(map[string]any, len(base)+7)
	for k, v := range base {
		meta[k] = v
	}
	meta["chunk_id"] = id
	meta["chunk_position"] = position
	meta["chunk_size"] = len([]rune(text))
	meta["token_count"] = tokenizer.Count(text)

	return domain.Chunk{
		ID:       id,
		Text:     text,
		Position: position,
		Metadata: meta,
	}
}

func documentID(metadata map[string]any) string {
	if metadata != nil {
		if id, ok := metadata["document_id"].(string); ok && id != "" {
			return id
		}
	}
	return "doc"
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func preview(s string) string {
	return truncateRunes(s, 100)
}

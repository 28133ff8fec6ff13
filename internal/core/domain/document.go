package domain

// Document represents one scanned legal filing after OCR.
// It is the unit the indexing pipeline consumes: raw text plus the
// raw (possibly deeply nested, possibly malformed) metadata that the
// document-conversion pipeline produced for it.
type Document struct {
	// ID is the unique identifier for the document (the filing number).
	ID string

	// Path is the original location of the OCR output.
	Path string

	// Text is the full OCR text. Empty is valid.
	Text string

	// Metadata is the raw nested metadata. Absent when the source had
	// none or the blob could not be parsed even after repair.
	Metadata MetaValue
}

// Chunk is an immutable unit of retrievable text produced by the chunker.
// Position is 1-based; TotalChunks is identical across every chunk of the
// same document. Chunks are never mutated after ChunkDocument returns.
type Chunk struct {
	// ID is derived from the owning document id and the ordinal position.
	ID string

	// Text is the chunk content, including any injected overlap prefix.
	Text string

	// Position is the 1-based ordinal within the document.
	Position int

	// TotalChunks is the final chunk count for the document.
	TotalChunks int

	// Metadata is a copy of the document metadata plus chunk-specific
	// fields (chunk_id, chunk_position, total_chunks, start_token,
	// end_token, chunk_size, token_count).
	Metadata map[string]any

	// StartToken and EndToken are approximate token offsets, computed as
	// position-sized windows for traceability, not by re-tokenization.
	StartToken int
	EndToken   int

	// OverlapStart and OverlapEnd are character offsets into Text
	// delimiting the injected overlap prefix and the original chunk
	// text. Nil on the first chunk of a document.
	OverlapStart *int
	OverlapEnd   *int
}

// ValidationReport is the result of auditing a chunk sequence.
// It reports findings; it never gates chunk production.
type ValidationReport struct {
	// TotalChunks is the number of chunks audited.
	TotalChunks int

	// WithinSize counts chunks whose token count is within the bound.
	WithinSize int

	// WithOverlap counts chunks carrying an overlap prefix.
	WithOverlap int

	// Errors holds one entry per chunk exceeding the size bound.
	Errors []string

	// Warnings holds one entry per chunk missing a document_id field.
	Warnings []string

	// SuccessRate is (WithinSize / TotalChunks) * 100, or 0 with no chunks.
	SuccessRate float64
}

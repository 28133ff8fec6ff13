package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidChunkConfig indicates chunk-size/overlap parameters that
	// fail construction-time validation. Fatal: no chunker is produced.
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// ErrMetadataUnparseable indicates a metadata blob that could not be
	// parsed even after the repair pass. Non-fatal: the owning document
	// proceeds with absent metadata.
	ErrMetadataUnparseable = errors.New("metadata unparseable after repair")

	// ErrVectorStoreUnavailable indicates the vector store is not
	// configured or unreachable. The router degrades to a zero-result
	// outcome rather than surfacing this to search callers.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Indexing and semantic search are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generative model is not configured.
	// Retrieval still works; answer generation is disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)

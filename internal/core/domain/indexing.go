package domain

import "time"

// IndexStatus classifies what happened to one document during an
// indexing run. Callers use it to report accurate aggregate counts.
type IndexStatus string

const (
	// IndexStatusIndexed means the document was chunked, normalized,
	// embedded and upserted during this run.
	IndexStatusIndexed IndexStatus = "indexed"

	// IndexStatusCached means a cache-presence check found the document
	// already processed; all work was skipped.
	IndexStatusCached IndexStatus = "cached"

	// IndexStatusFailed means processing was attempted and failed.
	// A failure never aborts the rest of the batch.
	IndexStatusFailed IndexStatus = "failed"
)

// IndexOutcome reports the result of processing one document.
type IndexOutcome struct {
	DocumentID string
	Status     IndexStatus

	// ChunksIndexed is the number of chunks upserted (0 when cached or failed).
	ChunksIndexed int

	// MetadataFields is the number of flat metadata fields attached.
	MetadataFields int

	// Validation is the post-hoc chunk audit (zero value when skipped).
	Validation ValidationReport

	// Err describes the failure when Status is IndexStatusFailed.
	Err string

	IndexedAt time.Time
}

// BatchReport aggregates the outcomes of one indexing run.
type BatchReport struct {
	Total       int
	Indexed     int
	Cached      int
	Failed      int
	SuccessRate float64
	Outcomes    []IndexOutcome
}

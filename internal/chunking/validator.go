package chunking

import (
	"fmt"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/tokenizer"
)

// Validator audits a chunk sequence after the fact. Findings are
// reported, never thrown: an oversized chunk is an error string in the
// report, not a failure of the pipeline.
type Validator struct {
	maxChunkSize int
}

// NewValidator creates a validator for the given size bound in tokens.
func NewValidator(maxChunkSize int) *Validator {
	return &Validator{maxChunkSize: maxChunkSize}
}

// Validate checks size compliance (by token count, not characters),
// overlap presence and metadata completeness across the sequence.
func (v *Validator) Validate(chunks []domain.Chunk) domain.ValidationReport {
	report := domain.ValidationReport{
		TotalChunks: len(chunks),
	}

	for i, chunk := range chunks {
		count := tokenizer.Count(chunk.Text)
		if count <= v.maxChunkSize {
			report.WithinSize++
		} else {
			report.Errors = append(report.Errors,
				fmt.Sprintf("chunk %d exceeds max size: %d > %d", i+1, count, v.maxChunkSize))
		}

		if i > 0 && chunk.OverlapStart != nil {
			report.WithOverlap++
		}

		if id, ok := chunk.Metadata["document_id"].(string); !ok || id == "" {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("chunk %d missing document_id in metadata", i+1))
		}
	}

	if report.TotalChunks > 0 {
		report.SuccessRate = float64(report.WithinSize) / float64(report.TotalChunks) * 100
	}
	return report
}

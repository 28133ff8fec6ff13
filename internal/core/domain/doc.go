// Package domain defines the core business entities for lexrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: a filing's OCR text plus its raw metadata
//   - Chunk: a bounded, positioned unit of document text
//   - MetaValue: a tagged variant over nested metadata shapes
//   - QueryFilters / SearchOutcome: query-time constraint and result types
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

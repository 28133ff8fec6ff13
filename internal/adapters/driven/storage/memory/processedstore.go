package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driven"
)

// Ensure ProcessedStore implements the interface.
var _ driven.ProcessedStore = (*ProcessedStore)(nil)

// ProcessedStore is an in-memory implementation of driven.ProcessedStore.
// Concurrent workers share it during an indexing run, so reads take the
// read lock only.
type ProcessedStore struct {
	mu     sync.RWMutex
	marked map[string]string
}

// NewProcessedStore creates a new in-memory processed-document cache.
func NewProcessedStore() *ProcessedStore {
	return &ProcessedStore{marked: make(map[string]string)}
}

// Has reports whether the document was already indexed with the given
// indexing version.
func (s *ProcessedStore) Has(_ context.Context, documentID, version string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.marked[documentID] == version, nil
}

// Mark records that the document was fully indexed.
func (s *ProcessedStore) Mark(_ context.Context, documentID, version string, _ int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marked[documentID] = version
	return nil
}

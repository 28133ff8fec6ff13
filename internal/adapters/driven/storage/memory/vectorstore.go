package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type vectorRecord struct {
	vector   []float32
	text     string
	metadata map[string]any
}

// VectorStore is a brute-force in-memory implementation of
// driven.VectorStore using cosine distance. Suitable for tests and small
// local corpora, not for production scale.
type VectorStore struct {
	mu      sync.RWMutex
	records map[string]vectorRecord
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{records: make(map[string]vectorRecord)}
}

// Upsert inserts or replaces chunk records.
func (s *VectorStore) Upsert(_ context.Context, ids []string, vectors [][]float32, texts []string, metadatas []map[string]any) error {
	if len(ids) != len(vectors) || len(ids) != len(texts) || len(ids) != len(metadatas) {
		return fmt.Errorf("memory: mismatched upsert slice lengths")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range ids {
		s.records[id] = vectorRecord{vector: vectors[i], text: texts[i], metadata: metadatas[i]}
	}
	return nil
}

// Query returns up to k hits ranked by ascending cosine distance.
func (s *VectorStore) Query(_ context.Context, vector []float32, k int, predicate map[string]string) ([]domain.SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]domain.SearchHit, 0, len(s.records))
	for id, rec := range s.records {
		if !matches(rec.metadata, predicate) {
			continue
		}
		hits = append(hits, domain.SearchHit{
			ID:       id,
			Text:     rec.text,
			Metadata: rec.metadata,
			Distance: cosineDistance(vector, rec.vector),
		})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance == hits[j].Distance {
			return hits[i].ID < hits[j].ID
		}
		return hits[i].Distance < hits[j].Distance
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of stored chunks.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// SampleMetadataKeys returns the metadata keys present on up to sample
// stored chunks.
func (s *VectorStore) SampleMetadataKeys(_ context.Context, sample int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	var keys []string
	n := 0
	for _, rec := range s.records {
		if sample > 0 && n >= sample {
			break
		}
		n++
		for key := range rec.metadata {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Ping always succeeds.
func (s *VectorStore) Ping(_ context.Context) error { return nil }

// Close releases resources.
func (s *VectorStore) Close() error { return nil }

func matches(metadata map[string]any, predicate map[string]string) bool {
	for key, want := range predicate {
		got, ok := metadata[key]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", got) != want {
			return false
		}
	}
	return true
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// Package chroma provides a vector store adapter using the Chroma HTTP API.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:8000"
	DefaultCollection = "legal_documents"
	DefaultTimeout    = 60 * time.Second
)

// Config holds configuration for the Chroma store.
type Config struct {
	// BaseURL is the Chroma server URL (default: http://localhost:8000).
	BaseURL string

	// Collection is the collection name (default: legal_documents).
	Collection string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Store talks to a Chroma server over its REST API. The collection is
// created on first use and its id cached for the lifetime of the store.
type Store struct {
	client     *http.Client
	baseURL    string
	collection string

	mu           sync.Mutex
	collectionID string
}

// NewStore creates a Chroma store.
func NewStore(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Store{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		collection: cfg.Collection,
	}
}

// collectionResponse is the Chroma collection object.
type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// queryResponse is the Chroma query response format. Results arrive as
// one parallel list per query embedding; we always send exactly one.
type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

// Upsert inserts or replaces chunk records.
func (s *Store) Upsert(ctx context.Context, ids []string, vectors [][]float32, texts []string, metadatas []map[string]any) error {
	if len(ids) != len(vectors) || len(ids) != len(texts) || len(ids) != len(metadatas) {
		return fmt.Errorf("chroma: mismatched upsert slice lengths")
	}
	collectionID, err := s.ensureCollection(ctx)
	if err != nil {
		return err
	}

	body := map[string]any{
		"ids":        ids,
		"embeddings": vectors,
		"documents":  texts,
		"metadatas":  metadatas,
	}
	return s.post(ctx, fmt.Sprintf("/api/v1/collections/%s/upsert", collectionID), body, nil)
}

// Query returns up to k hits ranked by ascending distance.
func (s *Store) Query(ctx context.Context, vector []float32, k int, predicate map[string]string) ([]domain.SearchHit, error) {
	collectionID, err := s.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"query_embeddings": [][]float32{vector},
		"n_results":        k,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	if where := wherePredicate(predicate); where != nil {
		body["where"] = where
	}

	var resp queryResponse
	if err := s.post(ctx, fmt.Sprintf("/api/v1/collections/%s/query", collectionID), body, &resp); err != nil {
		return nil, err
	}
	if len(resp.IDs) == 0 {
		return nil, nil
	}

	hits := make([]domain.SearchHit, 0, len(resp.IDs[0]))
	for i, id := range resp.IDs[0] {
		hit := domain.SearchHit{ID: id}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
			hit.Text = resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			hit.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			hit.Distance = resp.Distances[0][i]
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	collectionID, err := s.ensureCollection(ctx)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+fmt.Sprintf("/api/v1/collections/%s/count", collectionID), http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("chroma error (status %d): %s", resp.StatusCode, string(body))
	}

	var count int
	if err := json.Unmarshal(body, &count); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return count, nil
}

// SampleMetadataKeys returns the metadata keys present on a sample of
// stored chunks.
func (s *Store) SampleMetadataKeys(ctx context.Context, sample int) ([]string, error) {
	collectionID, err := s.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"limit":   sample,
		"include": []string{"metadatas"},
	}
	var resp struct {
		Metadatas []map[string]any `json:"metadatas"`
	}
	if err := s.post(ctx, fmt.Sprintf("/api/v1/collections/%s/get", collectionID), body, &resp); err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var keys []string
	for _, meta := range resp.Metadatas {
		for key := range meta {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

// Ping validates the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/v1/heartbeat", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chroma heartbeat returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// ensureCollection resolves the collection id, creating the collection
// on first use.
func (s *Store) ensureCollection(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collectionID != "" {
		return s.collectionID, nil
	}

	body := map[string]any{
		"name":          s.collection,
		"get_or_create": true,
	}
	var resp collectionResponse
	if err := s.post(ctx, "/api/v1/collections", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("chroma: collection %q has no id", s.collection)
	}
	s.collectionID = resp.ID
	return s.collectionID, nil
}

// wherePredicate converts flat key=value filters to Chroma's where
// clause. Multiple conditions require an explicit $and.
func wherePredicate(predicate map[string]string) map[string]any {
	if len(predicate) == 0 {
		return nil
	}
	if len(predicate) == 1 {
		for key, value := range predicate {
			return map[string]any{key: map[string]any{"$eq": value}}
		}
	}
	conditions := make([]map[string]any, 0, len(predicate))
	for key, value := range predicate {
		conditions = append(conditions, map[string]any{key: map[string]any{"$eq": value}})
	}
	return map[string]any{"$and": conditions}
}

// post sends a JSON request and decodes the JSON response into out when
// out is non-nil.
func (s *Store) post(ctx context.Context, path string, payload any, out any) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrVectorStoreUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chroma error (status %d): %s", resp.StatusCode, string(body))
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

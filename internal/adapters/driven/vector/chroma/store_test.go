package chroma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

// fakeChroma is a minimal in-process Chroma endpoint.
type fakeChroma struct {
	t            *testing.T
	lastUpsert   map[string]any
	lastQuery    map[string]any
	queryResult  queryResponse
	failRequests bool
}

func (f *fakeChroma) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/heartbeat", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"nanosecond heartbeat": 1}`))
	})
	mux.HandleFunc("/api/v1/collections", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(f.t, true, body["get_or_create"])
		json.NewEncoder(w).Encode(collectionResponse{ID: "col-1", Name: body["name"].(string)})
	})
	mux.HandleFunc("/api/v1/collections/col-1/upsert", func(w http.ResponseWriter, r *http.Request) {
		if f.failRequests {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&f.lastUpsert))
		w.Write([]byte("true"))
	})
	mux.HandleFunc("/api/v1/collections/col-1/query", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&f.lastQuery))
		json.NewEncoder(w).Encode(f.queryResult)
	})
	mux.HandleFunc("/api/v1/collections/col-1/count", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("42"))
	})
	mux.HandleFunc("/api/v1/collections/col-1/get", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"metadatas": []map[string]any{
				{"document_id": "a", "cuantia": "1000000"},
				{"document_id": "b"},
			},
		})
	})
	return mux
}

func newTestStore(t *testing.T, fake *fakeChroma) *Store {
	t.Helper()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return NewStore(Config{BaseURL: server.URL, Collection: "legal_documents"})
}

func TestUpsert(t *testing.T) {
	fake := &fakeChroma{t: t}
	store := newTestStore(t, fake)

	err := store.Upsert(context.Background(),
		[]string{"doc1_chunk_1"},
		[][]float32{{0.1, 0.2}},
		[]string{"texto"},
		[]map[string]any{{"document_id": "doc1"}},
	)

	require.NoError(t, err)
	assert.Equal(t, []any{"doc1_chunk_1"}, fake.lastUpsert["ids"])
	assert.Equal(t, []any{"texto"}, fake.lastUpsert["documents"])
}

func TestUpsert_MismatchedLengths(t *testing.T) {
	store := newTestStore(t, &fakeChroma{t: t})

	err := store.Upsert(context.Background(), []string{"a", "b"}, [][]float32{{1}}, []string{"x"}, nil)

	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	fake := &fakeChroma{t: t, queryResult: queryResponse{
		IDs:       [][]string{{"doc1_chunk_1", "doc1_chunk_2"}},
		Documents: [][]string{{"uno", "dos"}},
		Metadatas: [][]map[string]any{{{"document_id": "doc1"}, {"document_id": "doc1"}}},
		Distances: [][]float64{{0.1, 0.4}},
	}}
	store := newTestStore(t, fake)

	hits, err := store.Query(context.Background(), []float32{0.1}, 2, map[string]string{"document_id": "doc1"})

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "doc1_chunk_1", hits[0].ID)
	assert.Equal(t, "uno", hits[0].Text)
	assert.Equal(t, 0.1, hits[0].Distance)

	// Single predicate becomes a bare $eq clause.
	where := fake.lastQuery["where"].(map[string]any)
	assert.Equal(t, map[string]any{"$eq": "doc1"}, where["document_id"])
}

func TestQuery_MultiPredicateUsesAnd(t *testing.T) {
	fake := &fakeChroma{t: t, queryResult: queryResponse{IDs: [][]string{{}}}}
	store := newTestStore(t, fake)

	_, err := store.Query(context.Background(), []float32{0.1}, 5, map[string]string{
		"cuantia_normalized": "1000000",
		"tipo_medida":        "embargo",
	})

	require.NoError(t, err)
	where := fake.lastQuery["where"].(map[string]any)
	conditions, ok := where["$and"].([]any)
	require.True(t, ok)
	assert.Len(t, conditions, 2)
}

func TestQuery_NoPredicateOmitsWhere(t *testing.T) {
	fake := &fakeChroma{t: t, queryResult: queryResponse{IDs: [][]string{{}}}}
	store := newTestStore(t, fake)

	_, err := store.Query(context.Background(), []float32{0.1}, 5, nil)

	require.NoError(t, err)
	_, hasWhere := fake.lastQuery["where"]
	assert.False(t, hasWhere)
}

func TestCount(t *testing.T) {
	store := newTestStore(t, &fakeChroma{t: t})

	count, err := store.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestSampleMetadataKeys(t *testing.T) {
	store := newTestStore(t, &fakeChroma{t: t})

	keys, err := store.SampleMetadataKeys(context.Background(), 10)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"document_id", "cuantia"}, keys)
}

func TestPing(t *testing.T) {
	store := newTestStore(t, &fakeChroma{t: t})
	assert.NoError(t, store.Ping(context.Background()))
}

func TestPing_Unreachable(t *testing.T) {
	store := NewStore(Config{BaseURL: "http://127.0.0.1:1"})

	err := store.Ping(context.Background())

	assert.ErrorIs(t, err, domain.ErrVectorStoreUnavailable)
}

func TestUpsert_ServerError(t *testing.T) {
	fake := &fakeChroma{t: t, failRequests: true}
	store := newTestStore(t, fake)

	err := store.Upsert(context.Background(), []string{"a"}, [][]float32{{1}}, []string{"x"}, []map[string]any{{}})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

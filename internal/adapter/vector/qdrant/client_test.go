package qdrant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepforge/ai-prep-coach/internal/adapter/vector/qdrant"
)

func TestClient_EnsureCollection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		collection string
		vectorSize int
		distance   string
		handler    http.HandlerFunc
		wantErr    bool
	}{
		{
			name:       "collection already exists",
			collection: "doc_abc",
			vectorSize: 1536,
			distance:   "Cosine",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodGet {
					w.WriteHeader(http.StatusOK)
					require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"result": "ok"}))
				}
			},
			wantErr: false,
		},
		{
			name:       "create new collection",
			collection: "yt_new",
			vectorSize: 768,
			distance:   "Dot",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodGet {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				if r.Method == http.MethodPut {
					var payload map[string]any
					require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
					vectors := payload["vectors"].(map[string]any)
					assert.Equal(t, float64(768), vectors["size"])
					assert.Equal(t, "Dot", vectors["distance"])
					w.WriteHeader(http.StatusOK)
				}
			},
			wantErr: false,
		},
		{
			name:       "server error",
			collection: "err",
			vectorSize: 1536,
			distance:   "Cosine",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			c := qdrant.New(srv.URL, "")
			err := c.EnsureCollection(context.Background(), tt.collection, tt.vectorSize, tt.distance)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_UpsertPoints(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/collections/doc_x/points", r.URL.Path)
		var body struct {
			Points []map[string]any `json:"points"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Points, 2)
		assert.Equal(t, "chunk one", body.Points[0]["payload"].(map[string]any)["text"])
		assert.Equal(t, float64(1), body.Points[1]["id"])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := qdrant.New(srv.URL, "")
	err := c.UpsertPoints(context.Background(), "doc_x",
		[][]float32{{0.1, 0.2}, {0.3, 0.4}},
		[]map[string]any{{"text": "chunk one"}, {"text": "chunk two"}},
		[]any{0, 1},
	)
	require.NoError(t, err)
}

func TestClient_UpsertPoints_LengthMismatch(t *testing.T) {
	t.Parallel()

	c := qdrant.New("http://unused", "")
	err := c.UpsertPoints(context.Background(), "x", [][]float32{{0.1}}, nil, nil)
	assert.Error(t, err)
}

func TestClient_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/doc_x/points/search", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("api-key"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"id": 0, "score": 0.91, "payload": map[string]any{"text": "relevant chunk"}},
				{"id": 1, "score": 0.42, "payload": map[string]any{"text": "less relevant"}},
			},
		})
	}))
	defer srv.Close()

	c := qdrant.New(srv.URL, "secret")
	hits, err := c.Search(context.Background(), "doc_x", []float32{0.1, 0.2}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 0.91, hits[0].Score)
	assert.Equal(t, "relevant chunk", hits[0].Payload["text"])
}

func TestClient_DeleteCollection(t *testing.T) {
	t.Parallel()

	t.Run("missing collection tolerated", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()
		c := qdrant.New(srv.URL, "")
		assert.NoError(t, c.DeleteCollection(context.Background(), "gone"))
	})

	t.Run("server error surfaces", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		c := qdrant.New(srv.URL, "")
		assert.Error(t, c.DeleteCollection(context.Background(), "x"))
	})
}

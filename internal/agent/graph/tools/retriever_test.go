package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frizbee-ai/server/internal/agent/model"
)

func TestCatalogRetrieverRanksByOverlap(t *testing.T) {
	r := NewCatalogRetriever([]model.Product{
		{Name: "Tomate redondo x kg"},
		{Name: "Salsa de tomate 500g"},
		{Name: "Leche descremada 1L"},
	})

	out, err := r.Lookup(context.Background(), "tomate redondo")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Tomate redondo x kg", out[0].Name, "double overlap ranks first")
}

func TestCatalogRetrieverCapsAtTopK(t *testing.T) {
	products := make([]model.Product, 0, DefaultTopK+5)
	for i := 0; i < DefaultTopK+5; i++ {
		products = append(products, model.Product{Name: "tomate"})
	}
	r := NewCatalogRetriever(products)

	out, err := r.Lookup(context.Background(), "tomate")
	require.NoError(t, err)
	assert.Len(t, out, DefaultTopK)
}

func TestCatalogRetrieverEmptyQuery(t *testing.T) {
	r := NewCatalogRetriever([]model.Product{{Name: "tomate"}})

	out, err := r.Lookup(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHTTPRetrieverQueryContract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/query", r.URL.Path)

		var req retrievalRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tomate", req.Query)
		assert.Equal(t, DefaultTopK, req.TopK)

		json.NewEncoder(w).Encode(retrievalResponse{Matches: []model.Product{{Name: "Tomate"}}})
	}))
	defer srv.Close()

	r := NewHTTPRetriever(srv.URL, srv.Client())

	out, err := r.Lookup(context.Background(), "tomate")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Tomate", out[0].Name)
}

func TestHTTPRetrieverBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewHTTPRetriever(srv.URL, srv.Client())

	_, err := r.Lookup(context.Background(), "tomate")
	assert.Error(t, err)
}

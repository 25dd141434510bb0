package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/frizbee-ai/server/internal/agent/model"
	logx "github.com/frizbee-ai/server/pkg/logger"
)

// DefaultTopK is the fixed result size of the retrieval contract.
const DefaultTopK = 10

// ProductRetriever is the single query operation the core consumes from the
// retrieval collaborator: free text in, ranked product records out.
type ProductRetriever interface {
	Lookup(ctx context.Context, query string) ([]model.Product, error)
}

// ================ HTTP retriever ================

// HTTPRetriever queries an external hybrid sparse+dense search service over
// HTTP. The index construction and ranking live on the backend; this client
// only carries the query/response contract.
type HTTPRetriever struct {
	baseURL string
	client  *http.Client
	topK    int
}

// NewHTTPRetriever builds a retriever against the given base URL.
func NewHTTPRetriever(baseURL string, client *http.Client) *HTTPRetriever {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRetriever{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		topK:    DefaultTopK,
	}
}

type retrievalRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type retrievalResponse struct {
	Matches []model.Product `json:"matches"`
}

func (r *HTTPRetriever) Lookup(ctx context.Context, query string) ([]model.Product, error) {
	body, err := json.Marshal(retrievalRequest{Query: query, TopK: r.topK})
	if err != nil {
		return nil, fmt.Errorf("marshal retrieval request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build retrieval request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieval backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("retrieval backend status %d", resp.StatusCode)
	}

	var out retrievalResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode retrieval response: %w", err)
	}

	matches := out.Matches
	if len(matches) > r.topK {
		matches = matches[:r.topK]
	}
	logx.Debug().Str("query", query).Int("matches", len(matches)).Msg("Product lookup")
	return matches, nil
}

// ================ In-memory catalog retriever ================

// CatalogRetriever ranks an in-memory catalog by naive token overlap. It
// stands in for the hybrid backend in the demo and in tests; the ranking is
// not meant to compete with the real index.
type CatalogRetriever struct {
	products []model.Product
	topK     int
}

// NewCatalogRetriever wraps a fixed product list.
func NewCatalogRetriever(products []model.Product) *CatalogRetriever {
	return &CatalogRetriever{products: products, topK: DefaultTopK}
}

func (r *CatalogRetriever) Lookup(ctx context.Context, query string) ([]model.Product, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	type scored struct {
		p     model.Product
		score int
	}
	var hits []scored
	for _, p := range r.products {
		name := strings.ToLower(p.Name)
		score := 0
		for _, t := range terms {
			if strings.Contains(name, t) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{p: p, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]model.Product, 0, r.topK)
	for _, h := range hits {
		if len(out) == r.topK {
			break
		}
		out = append(out, h.p)
	}
	return out, nil
}

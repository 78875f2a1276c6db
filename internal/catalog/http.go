package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

// Compile-time interface check.
var _ domain.CatalogResolver = (*HTTPResolver)(nil)

// ── Wire types ───────────────────────────────────────────────────

// SearchRequest is the body POSTed to the product search endpoint.
type SearchRequest struct {
	RecipeID    string   `json:"recipe_id"`
	UserID      string   `json:"user_id"`
	Ingredients []string `json:"ingredients"`
}

// SearchResult is one ingredient's entry in the wrapped response shape.
type SearchResult struct {
	Ingredient string           `json:"ingredient"`
	Products   []map[string]any `json:"products"`
}

// SearchResponse is the wrapped response shape:
//
//	{"results": [{"ingredient": "Tomato", "products": [...]}]}
//
// The resolver also accepts a bare object keyed by ingredient name.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// ── Resolver ─────────────────────────────────────────────────────

// HTTPOption configures the HTTPResolver.
type HTTPOption func(*HTTPResolver)

// WithAPIKey sets the key sent in the "api-key" header.
func WithAPIKey(key string) HTTPOption {
	return func(r *HTTPResolver) { r.apiKey = key }
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(r *HTTPResolver) { r.http.Timeout = d }
}

// HTTPResolver asks a remote product search service for candidates.
type HTTPResolver struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      *logger.Logger
}

// NewHTTPResolver creates a resolver that POSTs to endpoint, the full URL
// of the search resource (e.g. "http://localhost:8089/v1/products/search").
func NewHTTPResolver(endpoint string, log *logger.Logger, opts ...HTTPOption) *HTTPResolver {
	r := &HTTPResolver{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns one entry per requested ingredient. Any transport or
// decoding failure yields empty candidate lists instead of an error.
func (r *HTTPResolver) Resolve(ctx context.Context, req domain.ResolveRequest) []domain.IngredientOptions {
	raw, err := r.search(ctx, req)
	if err != nil {
		r.log.Error("catalog: %v", err)
		raw = nil
	}

	out := make([]domain.IngredientOptions, len(req.Ingredients))
	for i, name := range req.Ingredients {
		out[i] = domain.IngredientOptions{
			IngredientName: name,
			Candidates: CoerceList(raw[name], func(idx int, err error) {
				r.log.Warn("catalog: dropping product %d for %q: %v", idx, name, err)
			}),
		}
	}
	return out
}

// search performs the request and returns raw product entries keyed by
// ingredient name.
func (r *HTTPResolver) search(ctx context.Context, req domain.ResolveRequest) (map[string][]map[string]any, error) {
	body := SearchRequest{
		RecipeID:    req.RecipeID,
		UserID:      req.UserID,
		Ingredients: req.Ingredients,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		httpReq.Header.Set("api-key", r.apiKey)
	}

	r.log.Debug("catalog: POST %s (%d ingredients)", r.endpoint, len(req.Ingredients))

	resp, err := r.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API %s: %s", resp.Status, truncate(string(respBody), 200))
	}

	return decodeResults(respBody, r.log)
}

// decodeResults accepts the wrapped {"results": [...]} shape or a bare
// object keyed by ingredient. An ingredient whose product list cannot be
// decoded is left out, which later turns into an empty candidate list.
func decodeResults(data []byte, log *logger.Logger) (map[string][]map[string]any, error) {
	var top map[string]json.RawMessage
	if err := unmarshalNumbers(data, &top); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	out := make(map[string][]map[string]any)

	if wrapped, ok := top["results"]; ok {
		var results []SearchResult
		if err := unmarshalNumbers(wrapped, &results); err == nil {
			for _, res := range results {
				if _, dup := out[res.Ingredient]; dup {
					continue
				}
				out[res.Ingredient] = res.Products
			}
			return out, nil
		}
		// Not the wrapped shape; "results" might be an ingredient name.
	}

	for name, msg := range top {
		var products []map[string]any
		if err := unmarshalNumbers(msg, &products); err != nil {
			log.Warn("catalog: malformed product list for %q: %v", name, err)
			continue
		}
		out[name] = products
	}
	return out, nil
}

func unmarshalNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// truncate shortens s to at most n runes, marking the cut with "..."
// when there is room for it.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

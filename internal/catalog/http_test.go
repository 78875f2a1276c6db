package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

func setupServer(t *testing.T, handler http.HandlerFunc) *HTTPResolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPResolver(srv.URL, logger.New(logger.LevelOff, nil), WithAPIKey("secret"))
}

var resolveReq = domain.ResolveRequest{
	RecipeID:    "r1",
	UserID:      "u1",
	Ingredients: []string{"Tomato", "Spaghetti", "Saffron"},
}

func TestHTTPResolverWrappedShape(t *testing.T) {
	var got SearchRequest
	res := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"results":[
			{"ingredient":"Tomato","products":[
				{"product_id":"A","name":"Roma","price":0.28},
				{"product_id":"B","name":"Vine","price":"1.96"},
				{"name":"broken","price":1}
			]},
			{"ingredient":"Spaghetti","products":[{"itemId":10450115,"name":"Spaghetti","salePrice":1.18}]}
		]}`))
	})

	out := res.Resolve(context.Background(), resolveReq)

	if got.RecipeID != "r1" || got.UserID != "u1" || len(got.Ingredients) != 3 {
		t.Fatalf("unexpected request body: %+v", got)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out))
	}
	if out[0].IngredientName != "Tomato" || len(out[0].Candidates) != 2 {
		t.Fatalf("unexpected Tomato entry: %+v", out[0])
	}
	if out[1].Candidates[0].ProductID != "10450115" {
		t.Fatalf("numeric id not coerced: %+v", out[1].Candidates[0])
	}
	if out[2].IngredientName != "Saffron" || len(out[2].Candidates) != 0 {
		t.Fatalf("missing ingredient must be empty, got %+v", out[2])
	}
}

func TestHTTPResolverBareShape(t *testing.T) {
	res := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Tomato": [{"id":"A","title":"Roma","price":"$0.28"}],
			"Spaghetti": "not a list"
		}`))
	})

	out := res.Resolve(context.Background(), resolveReq)

	if len(out[0].Candidates) != 1 || out[0].Candidates[0].ProductID != "A" {
		t.Fatalf("unexpected Tomato entry: %+v", out[0])
	}
	if len(out[1].Candidates) != 0 {
		t.Fatalf("malformed list must degrade to empty, got %+v", out[1])
	}
}

func TestHTTPResolverFailuresDegrade(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results": [`))
		}},
		{"not an object", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[1,2,3]`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := setupServer(t, tt.handler)
			out := res.Resolve(context.Background(), resolveReq)
			if len(out) != len(resolveReq.Ingredients) {
				t.Fatalf("expected %d entries, got %d", len(resolveReq.Ingredients), len(out))
			}
			for i, opt := range out {
				if opt.IngredientName != resolveReq.Ingredients[i] {
					t.Fatalf("entry %d: expected %q, got %q", i, resolveReq.Ingredients[i], opt.IngredientName)
				}
				if len(opt.Candidates) != 0 {
					t.Fatalf("entry %d: expected no candidates, got %d", i, len(opt.Candidates))
				}
			}
		})
	}
}

func TestHTTPResolverTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	res := NewHTTPResolver(srv.URL, logger.New(logger.LevelOff, nil), WithHTTPTimeout(20*time.Millisecond))
	out := res.Resolve(context.Background(), resolveReq)
	for _, opt := range out {
		if len(opt.Candidates) != 0 {
			t.Fatalf("expected empty candidates after timeout, got %+v", opt)
		}
	}
}

func TestHTTPResolverUnreachable(t *testing.T) {
	res := NewHTTPResolver("http://127.0.0.1:1/search", logger.New(logger.LevelOff, nil))
	out := res.Resolve(context.Background(), resolveReq)
	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 10, "abc"},
		{"exact", "abcdef", 6, "abcdef"},
		{"ellipsis", "abcdefgh", 6, "abc..."},
		{"multibyte", "crème brûlée", 7, "crème..."},
		{"no room for dots", "abcdef", 2, "ab"},
		{"tiny multibyte", "éàü", 1, "é"},
		{"zero", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.n); got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

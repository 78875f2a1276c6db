package catalog

import (
	"context"
	"testing"

	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

func TestMemoryResolver(t *testing.T) {
	res := NewMemoryResolver(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	tests := []struct {
		ingredient string
		wantFirst  string
		wantCount  int
	}{
		{"spaghetti", "10450115", 3},
		{"Spaghetti", "10450115", 3},
		{"ripe tomatoes", "44390944", 3},
		{"Tomato Paste", "10535188", 2},
		{"dragon fruit", "", 0},
		{"Red Lentils", "10447979", 1},
		{"White Rum", "565462347", 1},
		{"Bread Crumbs", "", 0},
		{"Licorice", "", 0},
		{"Jasmine rice", "10315162", 2},
	}

	for _, tt := range tests {
		t.Run(tt.ingredient, func(t *testing.T) {
			out := res.Resolve(ctx, domain.ResolveRequest{Ingredients: []string{tt.ingredient}})
			if len(out) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(out))
			}
			if out[0].IngredientName != tt.ingredient {
				t.Fatalf("name changed: %q", out[0].IngredientName)
			}
			if len(out[0].Candidates) != tt.wantCount {
				t.Fatalf("expected %d candidates, got %d", tt.wantCount, len(out[0].Candidates))
			}
			if tt.wantCount > 0 && out[0].Candidates[0].ProductID != tt.wantFirst {
				t.Fatalf("expected first %s, got %s", tt.wantFirst, out[0].Candidates[0].ProductID)
			}
		})
	}
}

func TestMemoryResolverAddCapsCandidates(t *testing.T) {
	res := NewMemoryResolver(logger.New(logger.LevelOff, nil))
	res.Add("Saffron", product("1", "a", "1"), product("2", "b", "1"), product("3", "c", "1"), product("4", "d", "1"))

	out := res.Resolve(context.Background(), domain.ResolveRequest{Ingredients: []string{"saffron threads"}})
	if len(out[0].Candidates) != domain.MaxCandidates {
		t.Fatalf("expected %d candidates, got %d", domain.MaxCandidates, len(out[0].Candidates))
	}
}

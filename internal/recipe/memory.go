// Package recipe provides recipe source implementations.
package recipe

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent use.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	order   []string // insertion order, used for listing
	log     *logger.Logger
}

// NewMemorySource creates a recipe source preloaded with built-in recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
	src.seed()
	return src
}

// List returns summaries of all recipes, oldest first.
func (s *MemorySource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all recipes, count=%d", len(s.recipes))

	out := make([]domain.RecipeSummary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.recipes[id].Summary())
	}
	return out, nil
}

// Get returns a recipe by ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// Add stores a recipe, for example one produced by a generator.
func (s *MemorySource) Add(ctx context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipe.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.recipes[recipe.ID] = recipe
	s.order = append(s.order, recipe.ID)
	s.log.Info("recipe added: %s (%s)", recipe.Title, recipe.ID)
	return nil
}

// Search returns recipes whose title or ingredients contain the query.
func (s *MemorySource) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	s.log.Debug("searching recipes for: %s", q)

	var out []domain.RecipeSummary
	for _, id := range s.order {
		r := s.recipes[id]
		if matches(r, q) {
			out = append(out, r.Summary())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func matches(r *domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Title), query) {
		return true
	}
	for _, name := range r.IngredientUniverse() {
		if strings.Contains(strings.ToLower(name), query) {
			return true
		}
	}
	return false
}

// seed populates the source with built-in recipes.
func (s *MemorySource) seed() {
	builtin := []*domain.Recipe{
		{
			ID:    "tomato-basil-spaghetti",
			Title: "Tomato Basil Spaghetti",
			Ingredients: []string{
				"Spaghetti", "Tomato", "Garlic", "Olive Oil", "Basil", "Salt",
			},
			ShoppingList: []string{
				"Spaghetti", "Tomato", "Basil", "Parmesan",
			},
		},
		{
			ID:    "chicken-rice-bowl",
			Title: "Garlic Chicken Rice Bowl",
			Ingredients: []string{
				"Chicken", "Rice", "Garlic", "Onion", "Black Pepper",
			},
			ShoppingList: []string{
				"Chicken", "Rice", "Onion",
			},
		},
		{
			ID:    "lentil-soup",
			Title: "Red Lentil Soup",
			Ingredients: []string{
				"Red Lentils", "Carrot", "Onion", "Tomato Paste", "Saffron",
			},
			ShoppingList: []string{
				"Red Lentils", "Carrot",
			},
		},
		{
			ID:           "mojito",
			Title:        "Classic Mojito",
			Ingredients:  []string{"White Rum", "Lime", "Mint", "Sugar", "Soda Water"},
			ShoppingList: []string{"Lime", "Mint"},
		},
	}
	for _, r := range builtin {
		s.recipes[r.ID] = r
		s.order = append(s.order, r.ID)
	}
}

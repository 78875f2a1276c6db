package catalog

import (
	"context"
	"sort"
	"strings"
	"unicode"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

// Compile-time interface check.
var _ domain.CatalogResolver = (*MemoryResolver)(nil)

// MemoryResolver serves candidates from an in-memory table keyed by
// lower-case keywords. An ingredient matches a keyword when its lower-cased
// name contains it; the longest matching keyword wins.
type MemoryResolver struct {
	mu       sync.RWMutex
	products map[string][]domain.ProductCandidate
	log      *logger.Logger
}

// NewMemoryResolver creates a resolver preloaded with a small grocery catalog.
func NewMemoryResolver(log *logger.Logger) *MemoryResolver {
	r := &MemoryResolver{
		products: make(map[string][]domain.ProductCandidate),
		log:      log,
	}
	r.seed()
	return r
}

// Add registers candidates for keyword, replacing any existing entry.
func (r *MemoryResolver) Add(keyword string, candidates ...domain.ProductCandidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[strings.ToLower(keyword)] = candidates
}

// Resolve looks every ingredient up in the table.
func (r *MemoryResolver) Resolve(ctx context.Context, req domain.ResolveRequest) []domain.IngredientOptions {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.IngredientOptions, len(req.Ingredients))
	for i, name := range req.Ingredients {
		cands := r.lookup(name)
		if len(cands) > domain.MaxCandidates {
			cands = cands[:domain.MaxCandidates]
		}
		out[i] = domain.IngredientOptions{
			IngredientName: name,
			Candidates:     append([]domain.ProductCandidate(nil), cands...),
		}
	}
	r.log.Debug("memory catalog resolved %d ingredients for recipe %s", len(out), req.RecipeID)
	return out
}

func (r *MemoryResolver) lookup(name string) []domain.ProductCandidate {
	lower := strings.ToLower(name)
	if c, ok := r.products[lower]; ok {
		return c
	}

	keys := make([]string, 0, len(r.products))
	for k := range r.products {
		keys = append(keys, k)
	}
	// Longest first so "tomato paste" beats "tomato".
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	words := splitWords(lower)
	for _, k := range keys {
		if containsPhrase(words, splitWords(k)) {
			return r.products[k]
		}
	}
	return nil
}

// splitWords breaks s into lower-case words on anything that is not a
// letter or digit.
func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})
}

// containsPhrase reports whether phrase occurs as consecutive whole words
// in words. A word also matches its plain plural ("tomatoes", "lentils").
func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
	for i := 0; i+len(phrase) <= len(words); i++ {
		ok := true
		for j, p := range phrase {
			if !wordMatches(words[i+j], p) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func wordMatches(word, key string) bool {
	return word == key || word == key+"s" || word == key+"es"
}

func product(id, name, price string) domain.ProductCandidate {
	return domain.ProductCandidate{
		ProductID: id,
		Name:      name,
		Price:     decimal.RequireFromString(price),
	}
}

// seed populates the table with common pantry items.
func (r *MemoryResolver) seed() {
	r.products = map[string][]domain.ProductCandidate{
		"spaghetti": {
			product("10450115", "Great Value Spaghetti, 16 oz", "1.18"),
			product("10292767", "Barilla Spaghetti Pasta, 16 oz", "1.84"),
			product("44390948", "Ronzoni Thin Spaghetti, 16 oz", "1.67"),
		},
		"tomato": {
			product("44390944", "Fresh Roma Tomato, each", "0.28"),
			product("44391062", "Fresh Tomato on the Vine, 1 lb", "1.96"),
			product("10448424", "Great Value Diced Tomatoes, 14.5 oz", "0.92"),
		},
		"tomato paste": {
			product("10535188", "Hunt's Tomato Paste, 6 oz", "0.78"),
			product("10308154", "Great Value Tomato Paste, 6 oz", "0.58"),
		},
		"garlic": {
			product("44390993", "Fresh Garlic, 3 count", "1.47"),
			product("10450938", "Great Value Minced Garlic, 8 oz", "2.24"),
		},
		"olive oil": {
			product("10451001", "Great Value Extra Virgin Olive Oil, 17 fl oz", "6.24"),
			product("10415506", "Bertolli Extra Virgin Olive Oil, 16.9 fl oz", "8.98"),
			product("10535189", "Pompeian Olive Oil, 16 fl oz", "7.52"),
		},
		"basil": {
			product("44390958", "Fresh Basil, 0.75 oz", "2.48"),
			product("10308155", "McCormick Basil Leaves, 0.62 oz", "2.98"),
		},
		"parmesan": {
			product("10291613", "Great Value Grated Parmesan Cheese, 8 oz", "3.12"),
			product("10295579", "Kraft Grated Parmesan Cheese, 8 oz", "4.36"),
		},
		"onion": {
			product("51259338", "Fresh Yellow Onion, each", "0.88"),
			product("44390961", "Fresh Red Onion, each", "1.12"),
		},
		"chicken": {
			product("27608624", "Boneless Skinless Chicken Breasts, 2.5 lb", "11.47"),
			product("44390945", "Chicken Thighs, 1.5 lb", "6.12"),
		},
		"rice": {
			product("10315162", "Great Value Long Grain White Rice, 2 lb", "1.62"),
			product("10403005", "Mahatma Jasmine Rice, 2 lb", "3.48"),
		},
		"lentil": {
			product("10447979", "Great Value Dry Lentils, 16 oz", "1.32"),
		},
		"carrot": {
			product("44390946", "Fresh Whole Carrots, 2 lb", "1.64"),
		},
		"lime": {
			product("44390979", "Fresh Lime, each", "0.22"),
		},
		"mint": {
			product("44390982", "Fresh Mint, 0.75 oz", "2.27"),
		},
		"rum": {
			product("565462347", "Bacardi Superior White Rum, 750 ml", "14.97"),
		},
		"soda water": {
			product("10448320", "Great Value Club Soda, 1 L", "0.97"),
			product("10307498", "Schweppes Club Soda, 1 L", "1.28"),
		},
		"sugar": {
			product("10315390", "Great Value Pure Granulated Sugar, 4 lb", "3.28"),
		},
		"salt": {
			product("10308169", "Morton Iodized Salt, 26 oz", "1.12"),
		},
		"black pepper": {
			product("10324486", "McCormick Ground Black Pepper, 3 oz", "3.98"),
		},
	}
}

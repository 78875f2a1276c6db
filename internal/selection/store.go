// Package selection holds the ingredient to product choice for the active
// recipe and keeps it consistent with the candidates on offer.
package selection

import (
	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

// Store maps each ingredient to exactly one of its candidates. Ingredients
// without candidates are never tracked.
//
// Store is not safe for concurrent use; the engine serialises access.
type Store struct {
	options  []domain.IngredientOptions
	index    map[string]int // ingredient -> position in options
	selected domain.Selection
	log      *logger.Logger
}

// New creates an empty store.
func New(log *logger.Logger) *Store {
	return &Store{
		index:    make(map[string]int),
		selected: make(domain.Selection),
		log:      log,
	}
}

// Initialize replaces all state with the given options and selects the
// first candidate of every ingredient that has at least one.
func (s *Store) Initialize(options []domain.IngredientOptions) {
	s.options = make([]domain.IngredientOptions, 0, len(options))
	s.index = make(map[string]int, len(options))
	s.selected = make(domain.Selection, len(options))

	for _, opt := range options {
		if _, dup := s.index[opt.IngredientName]; dup {
			s.log.Warn("duplicate ingredient %q in options, keeping first", opt.IngredientName)
			continue
		}
		cands := make([]domain.ProductCandidate, len(opt.Candidates))
		copy(cands, opt.Candidates)

		s.index[opt.IngredientName] = len(s.options)
		s.options = append(s.options, domain.IngredientOptions{
			IngredientName: opt.IngredientName,
			Candidates:     cands,
		})
		if len(cands) > 0 {
			s.selected[opt.IngredientName] = cands[0].ProductID
		}
	}

	s.log.Debug("initialized %d ingredients, %d selectable", len(s.options), len(s.selected))
}

// Select points ingredient at productID. It reports false and leaves the
// state untouched when the ingredient is unknown or productID is not one
// of its candidates.
func (s *Store) Select(ingredient, productID string) bool {
	i, ok := s.index[ingredient]
	if !ok {
		s.log.Debug("select ignored: unknown ingredient %q", ingredient)
		return false
	}
	if _, ok := s.options[i].Find(productID); !ok {
		s.log.Debug("select ignored: %q is not a candidate for %q", productID, ingredient)
		return false
	}
	s.selected[ingredient] = productID
	return true
}

// Get returns a copy of the current selection.
func (s *Store) Get() domain.Selection {
	out := make(domain.Selection, len(s.selected))
	for k, v := range s.selected {
		out[k] = v
	}
	return out
}

// Candidate returns the chosen candidate for ingredient.
func (s *Store) Candidate(ingredient string) (domain.ProductCandidate, bool) {
	id, ok := s.selected[ingredient]
	if !ok {
		return domain.ProductCandidate{}, false
	}
	return s.options[s.index[ingredient]].Find(id)
}

// Ingredients returns the ingredients that have a selection, in the order
// the options were given.
func (s *Store) Ingredients() []string {
	out := make([]string, 0, len(s.selected))
	for _, opt := range s.options {
		if _, ok := s.selected[opt.IngredientName]; ok {
			out = append(out, opt.IngredientName)
		}
	}
	return out
}

// Options returns a copy of the options the store was initialized with.
func (s *Store) Options() []domain.IngredientOptions {
	out := make([]domain.IngredientOptions, len(s.options))
	for i, opt := range s.options {
		cands := make([]domain.ProductCandidate, len(opt.Candidates))
		copy(cands, opt.Candidates)
		out[i] = domain.IngredientOptions{IngredientName: opt.IngredientName, Candidates: cands}
	}
	return out
}

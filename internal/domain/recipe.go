// Package domain defines the core types and interfaces for the recipe cart.
// All other packages depend on domain; domain depends on nothing but
// the decimal type used for prices.
package domain

// Recipe is a generated recipe as handed over by the upstream generator.
type Recipe struct {
	ID           string
	Title        string
	Ingredients  []string
	ShoppingList []string
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID              string
	Title           string
	IngredientCount int
}

// IngredientUniverse returns the deduplicated union of Ingredients and
// ShoppingList in first-appearance order. Names are compared exactly;
// no trimming or case folding is applied.
func (r *Recipe) IngredientUniverse() []string {
	if r == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(r.Ingredients)+len(r.ShoppingList))
	out := make([]string, 0, len(r.Ingredients)+len(r.ShoppingList))
	for _, list := range [][]string{r.Ingredients, r.ShoppingList} {
		for _, name := range list {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// Summary returns the listing view of the recipe.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:              r.ID,
		Title:           r.Title,
		IngredientCount: len(r.IngredientUniverse()),
	}
}

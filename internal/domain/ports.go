package domain

import "context"

// RecipeSource provides recipes. Implementations can be in-memory,
// file-based, or backed by a generator.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
	Search(ctx context.Context, query string) ([]RecipeSummary, error)
}

// RecipeGenerator produces a new recipe from a free-form request.
type RecipeGenerator interface {
	Generate(ctx context.Context, request string) (*Recipe, error)
}

// ResolveRequest is the input of a catalog lookup.
type ResolveRequest struct {
	RecipeID    string
	UserID      string
	Ingredients []string // deduplicated, exact names
}

// CatalogResolver looks up product candidates for ingredients. It returns
// one entry per requested ingredient, in request order. Failures are never
// returned; they show up as an empty candidate list for the ingredient.
type CatalogResolver interface {
	Resolve(ctx context.Context, req ResolveRequest) []IngredientOptions
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// Exporter hands a checkout link to something outside the program, such
// as the system clipboard.
type Exporter interface {
	Export(ctx context.Context, link string) error
}

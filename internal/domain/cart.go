package domain

// LoadStatus tracks the catalog lookup for the active recipe.
type LoadStatus int

const (
	// StatusIdle means no recipe has been loaded yet.
	StatusIdle LoadStatus = iota
	// StatusLoading means a catalog lookup is outstanding.
	StatusLoading
	// StatusResolved means candidates arrived, possibly none at all.
	StatusResolved
)

// String returns a human-readable load status.
func (s LoadStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// CartSnapshot is a read-only view of the cart for one recipe. Callers own
// the returned slices and maps; mutating them does not affect the engine.
type CartSnapshot struct {
	RecipeID    string
	RecipeTitle string
	Status      LoadStatus
	Options     []IngredientOptions
	Selection   Selection
	Items       []CartItem
	Totals      CartTotals
	Link        string // empty when checkout is unavailable
}

// CheckoutAvailable reports whether the snapshot carries a usable link.
func (s CartSnapshot) CheckoutAvailable() bool {
	return s.Link != ""
}

package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentListRecipes
	IntentSearchRecipes
	IntentLoadRecipe
	IntentGenerate
	IntentShowCart
	IntentPick     // choose a different candidate for an ingredient
	IntentQuantity // change an ingredient's quantity
	IntentLink
	IntentCopy
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentListRecipes:
		return "list_recipes"
	case IntentLoadRecipe:
		return "load_recipe"
	case IntentSearchRecipes:
		return "search_recipes"
	case IntentGenerate:
		return "generate"
	case IntentShowCart:
		return "show_cart"
	case IntentPick:
		return "pick"
	case IntentQuantity:
		return "quantity"
	case IntentLink:
		return "link"
	case IntentCopy:
		return "copy"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type IntentType
	Args []string // positional arguments, e.g. ingredient and candidate numbers
	Text string   // free-form payload, e.g. a generation prompt
}

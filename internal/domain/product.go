package domain

import "github.com/shopspring/decimal"

// MaxCandidates is the most product offers kept per ingredient.
const MaxCandidates = 3

// ProductCandidate is one storefront product offered for an ingredient.
type ProductCandidate struct {
	ProductID string
	Name      string
	Price     decimal.Decimal // never negative
	ImageURL  string          // optional
}

// IngredientOptions holds the ordered candidates for one ingredient.
// Candidates may be empty when nothing was found or the lookup failed.
type IngredientOptions struct {
	IngredientName string
	Candidates     []ProductCandidate
}

// Find returns the candidate with the given product ID.
func (o IngredientOptions) Find(productID string) (ProductCandidate, bool) {
	for _, c := range o.Candidates {
		if c.ProductID == productID {
			return c, true
		}
	}
	return ProductCandidate{}, false
}

// Selection maps an ingredient name to the chosen candidate's product ID.
type Selection map[string]string

// CartItem is one cart row, derived from a single ingredient's selection.
type CartItem struct {
	IngredientName string
	ProductID      string
	Name           string
	UnitPrice      decimal.Decimal
	Quantity       int // >= 1
}

// ProductQuantity is the merged quantity for one product.
type ProductQuantity struct {
	ProductID string
	Quantity  int
}

// CartTotals is the aggregated view of a cart. Quantities keep the order in
// which each product ID first appeared among the cart items.
type CartTotals struct {
	Quantities []ProductQuantity
	TotalPrice decimal.Decimal
}

// Quantity returns the merged quantity for productID.
func (t CartTotals) Quantity(productID string) (int, bool) {
	for _, q := range t.Quantities {
		if q.ProductID == productID {
			return q.Quantity, true
		}
	}
	return 0, false
}

// ItemCount is the sum of all merged quantities.
func (t CartTotals) ItemCount() int {
	n := 0
	for _, q := range t.Quantities {
		n += q.Quantity
	}
	return n
}

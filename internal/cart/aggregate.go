// Package cart turns selections into cart rows, merged totals, and the
// storefront checkout link. Everything here is a pure function.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/hammamikhairi/ottocart/internal/domain"
)

// DeriveItems builds one cart row per selected ingredient, in options
// order. quantities holds user overrides; missing or non-positive entries
// fall back to 1.
func DeriveItems(options []domain.IngredientOptions, sel domain.Selection, quantities map[string]int) []domain.CartItem {
	items := make([]domain.CartItem, 0, len(sel))
	for _, opt := range options {
		id, ok := sel[opt.IngredientName]
		if !ok {
			continue
		}
		c, ok := opt.Find(id)
		if !ok {
			continue
		}
		qty := quantities[opt.IngredientName]
		if qty < 1 {
			qty = 1
		}
		items = append(items, domain.CartItem{
			IngredientName: opt.IngredientName,
			ProductID:      c.ProductID,
			Name:           c.Name,
			UnitPrice:      c.Price,
			Quantity:       qty,
		})
	}
	return items
}

// Aggregate merges quantities per product ID and sums the price of every
// row. Two ingredients on the same product share one quantity entry, but
// each row still adds its own unit price times quantity to TotalPrice.
func Aggregate(items []domain.CartItem) domain.CartTotals {
	totals := domain.CartTotals{
		Quantities: make([]domain.ProductQuantity, 0, len(items)),
		TotalPrice: decimal.Zero,
	}
	pos := make(map[string]int, len(items))

	for _, it := range items {
		totals.TotalPrice = totals.TotalPrice.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))

		if i, ok := pos[it.ProductID]; ok {
			totals.Quantities[i].Quantity += it.Quantity
			continue
		}
		pos[it.ProductID] = len(totals.Quantities)
		totals.Quantities = append(totals.Quantities, domain.ProductQuantity{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return totals
}

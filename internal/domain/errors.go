package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrNoRecipe            = errors.New("no recipe loaded")
	ErrUnknownIngredient   = errors.New("ingredient has no selection")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrCheckoutUnavailable = errors.New("checkout unavailable: cart is empty")
)

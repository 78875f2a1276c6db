// Package engine keeps the cart for the active recipe in step with the
// user's product choices and rebuilds the checkout link on every change.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/ottocart/internal/cart"
	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
	"github.com/hammamikhairi/ottocart/internal/selection"
)

// Option configures the engine.
type Option func(*Engine)

// WithUserID sets the user ID passed to the catalog resolver.
func WithUserID(id string) Option {
	return func(e *Engine) {
		e.userID = id
	}
}

// WithOnChange registers a callback invoked with the new snapshot after
// every recompute. It runs outside the engine lock, one call at a time.
// Snapshots are delivered newest-last: a snapshot superseded while the
// callback is busy is skipped, never delivered after a newer one.
func WithOnChange(fn func(domain.CartSnapshot)) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// Engine owns the cart state for one recipe at a time. Catalog lookups
// are the only asynchronous step; selection and quantity changes
// recompute the cart and link before returning.
type Engine struct {
	resolver domain.CatalogResolver
	log      *logger.Logger
	userID   string
	onChange func(domain.CartSnapshot)

	mu         sync.Mutex
	token      uint64 // bumped on every Load; stale results carry an older one
	recipe     *domain.Recipe
	status     domain.LoadStatus
	store      *selection.Store
	quantities map[string]int
	items      []domain.CartItem
	totals     domain.CartTotals
	link       string

	// change delivery, guarded by mu
	seq        uint64 // bumped on every published snapshot
	latest     domain.CartSnapshot
	delivered  uint64
	delivering bool
}

// New creates a cart engine backed by the given resolver.
func New(resolver domain.CatalogResolver, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		resolver:   resolver,
		log:        log,
		store:      selection.New(log.Named("selection")),
		quantities: make(map[string]int),
		totals:     cart.Aggregate(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load makes recipe the active one. Any previous cart is discarded at
// once and the status switches to loading. The catalog lookup runs in the
// background; the returned channel is closed after its result has been
// applied, or dropped because another Load happened in the meantime.
// recipe must not be nil.
func (e *Engine) Load(ctx context.Context, recipe *domain.Recipe) <-chan struct{} {
	done := make(chan struct{})

	e.mu.Lock()
	e.token++
	token := e.token
	e.recipe = recipe
	e.status = domain.StatusLoading
	e.store.Initialize(nil)
	e.quantities = make(map[string]int)
	e.recomputeLocked()
	e.publishLocked()
	e.mu.Unlock()

	e.deliver()

	req := domain.ResolveRequest{
		RecipeID:    recipe.ID,
		UserID:      e.userID,
		Ingredients: recipe.IngredientUniverse(),
	}
	e.log.Info("loading recipe %s (%q), %d ingredients, token=%d", recipe.ID, recipe.Title, len(req.Ingredients), token)

	go func() {
		defer close(done)
		options := e.resolver.Resolve(ctx, req)
		e.apply(token, recipe.ID, options)
	}()

	return done
}

// apply installs resolver output if token still identifies the active load.
func (e *Engine) apply(token uint64, recipeID string, options []domain.IngredientOptions) {
	e.mu.Lock()
	if token != e.token {
		current := e.token
		e.mu.Unlock()
		e.log.Debug("discarding stale catalog result for %s (token=%d, current=%d)", recipeID, token, current)
		return
	}

	e.store.Initialize(options)
	e.status = domain.StatusResolved
	e.recomputeLocked()
	snap := e.publishLocked()
	e.mu.Unlock()

	e.log.Info("catalog resolved for %s: %d/%d ingredients selectable", recipeID, len(snap.Selection), len(snap.Options))
	e.deliver()
}

// Select switches ingredient to productID. It reports false, and changes
// nothing, when the pair is not a valid choice.
func (e *Engine) Select(ingredient, productID string) bool {
	e.mu.Lock()
	if !e.store.Select(ingredient, productID) {
		e.mu.Unlock()
		return false
	}
	e.recomputeLocked()
	e.publishLocked()
	e.mu.Unlock()

	e.log.Debug("selected %s for %q", productID, ingredient)
	e.deliver()
	return true
}

// SetQuantity sets how many units of the chosen product to buy for
// ingredient.
func (e *Engine) SetQuantity(ingredient string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("setting quantity for %q to %d: %w", ingredient, qty, domain.ErrInvalidQuantity)
	}

	e.mu.Lock()
	if _, ok := e.store.Candidate(ingredient); !ok {
		e.mu.Unlock()
		return fmt.Errorf("setting quantity for %q: %w", ingredient, domain.ErrUnknownIngredient)
	}
	e.quantities[ingredient] = qty
	e.recomputeLocked()
	e.publishLocked()
	e.mu.Unlock()

	e.log.Debug("quantity for %q set to %d", ingredient, qty)
	e.deliver()
	return nil
}

// Snapshot returns the current cart state.
func (e *Engine) Snapshot() domain.CartSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Link returns the current checkout link, or "" when checkout is unavailable.
func (e *Engine) Link() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.link
}

// Status returns the catalog load status of the active recipe.
func (e *Engine) Status() domain.LoadStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Recipe returns the active recipe, or nil before the first Load.
func (e *Engine) Recipe() *domain.Recipe {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recipe
}

// recomputeLocked rebuilds items, totals and link from the selection.
// Callers must hold e.mu.
func (e *Engine) recomputeLocked() {
	e.items = cart.DeriveItems(e.store.Options(), e.store.Get(), e.quantities)
	e.totals = cart.Aggregate(e.items)
	e.link = cart.BuildLink(e.totals.Quantities)
}

func (e *Engine) snapshotLocked() domain.CartSnapshot {
	snap := domain.CartSnapshot{
		Status:    e.status,
		Options:   e.store.Options(),
		Selection: e.store.Get(),
		Items:     append([]domain.CartItem(nil), e.items...),
		Totals: domain.CartTotals{
			Quantities: append([]domain.ProductQuantity(nil), e.totals.Quantities...),
			TotalPrice: e.totals.TotalPrice,
		},
		Link: e.link,
	}
	if e.recipe != nil {
		snap.RecipeID = e.recipe.ID
		snap.RecipeTitle = e.recipe.Title
	}
	return snap
}

// publishLocked records the current state as the newest snapshot for
// change delivery. Callers must hold e.mu.
func (e *Engine) publishLocked() domain.CartSnapshot {
	snap := e.snapshotLocked()
	e.seq++
	e.latest = snap
	return snap
}

// deliver hands the newest snapshot to onChange. If another goroutine is
// already delivering, it returns at once and that goroutine picks up the
// newer snapshot before it finishes.
func (e *Engine) deliver() {
	if e.onChange == nil {
		return
	}
	for {
		e.mu.Lock()
		if e.delivering || e.delivered == e.seq {
			e.mu.Unlock()
			return
		}
		e.delivering = true
		seq, snap := e.seq, e.latest
		e.mu.Unlock()

		e.onChange(snap)

		e.mu.Lock()
		e.delivering = false
		e.delivered = seq
		e.mu.Unlock()
	}
}

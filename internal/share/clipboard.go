// Package share hands the checkout link to the outside world.
package share

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

// Compile-time interface check.
var _ domain.Exporter = (*Clipboard)(nil)

// Clipboard copies checkout links to the system clipboard.
type Clipboard struct {
	write func(string) error
	log   *logger.Logger
}

// ClipboardOption configures a Clipboard.
type ClipboardOption func(*Clipboard)

// WithWriter replaces the clipboard backend.
func WithWriter(fn func(string) error) ClipboardOption {
	return func(c *Clipboard) { c.write = fn }
}

// NewClipboard creates a clipboard exporter.
func NewClipboard(log *logger.Logger, opts ...ClipboardOption) *Clipboard {
	c := &Clipboard{write: clipboard.WriteAll, log: log}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Export writes the link verbatim. An empty link means the cart is empty
// and nothing is written.
func (c *Clipboard) Export(ctx context.Context, link string) error {
	if link == "" {
		return domain.ErrCheckoutUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.write(link); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	c.log.Debug("share: copied %d-byte link", len(link))
	return nil
}

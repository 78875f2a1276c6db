package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

// Compile-time interface check.
var _ domain.CatalogResolver = (*CachedResolver)(nil)

// CacheOption configures the CachedResolver.
type CacheOption func(*CachedResolver)

// WithCacheDir enables the on-disk layer rooted at dir.
func WithCacheDir(dir string) CacheOption {
	return func(c *CachedResolver) { c.cacheDir = dir }
}

// CachedResolver is a two-tier cache (in-memory + filesystem) in front of
// another resolver. Entries are per ingredient name and keyed by
// sha256(name), so recipes that share ingredients share lookups.
//
// Empty candidate lists are never stored: they may come from a failed
// lookup and the next recipe load should try again.
type CachedResolver struct {
	next     domain.CatalogResolver
	log      *logger.Logger
	cacheDir string // empty = no disk layer

	mu      sync.RWMutex
	entries map[string][]domain.ProductCandidate
	hits    int64
	misses  int64
}

// NewCachedResolver wraps next with a cache.
func NewCachedResolver(next domain.CatalogResolver, log *logger.Logger, opts ...CacheOption) *CachedResolver {
	c := &CachedResolver{
		next:    next,
		log:     log,
		entries: make(map[string][]domain.ProductCandidate),
	}
	for _, o := range opts {
		o(c)
	}
	if c.cacheDir != "" {
		if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
			log.Error("cache: failed to create cache dir %s: %v", c.cacheDir, err)
			c.cacheDir = ""
		}
	}
	return c
}

// Resolve answers cached ingredients locally and forwards only the misses.
func (c *CachedResolver) Resolve(ctx context.Context, req domain.ResolveRequest) []domain.IngredientOptions {
	out := make([]domain.IngredientOptions, len(req.Ingredients))
	var missing []string
	missIdx := make(map[string]int)

	for i, name := range req.Ingredients {
		out[i].IngredientName = name
		if cands, ok := c.get(name); ok {
			out[i].Candidates = cands
			continue
		}
		missIdx[name] = i
		missing = append(missing, name)
	}

	if len(missing) == 0 {
		return out
	}

	sub := req
	sub.Ingredients = missing
	for _, opt := range c.next.Resolve(ctx, sub) {
		i, ok := missIdx[opt.IngredientName]
		if !ok {
			continue
		}
		out[i].Candidates = opt.Candidates
		if len(opt.Candidates) > 0 {
			c.put(opt.IngredientName, opt.Candidates)
		}
	}
	return out
}

// Stats returns cache hit/miss counts.
func (c *CachedResolver) Stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Len returns the number of in-memory entries.
func (c *CachedResolver) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *CachedResolver) get(name string) ([]domain.ProductCandidate, bool) {
	k := key(name)

	c.mu.RLock()
	cands, ok := c.entries[k]
	c.mu.RUnlock()
	if ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return clone(cands), true
	}

	if cands, ok := c.readDisk(k); ok {
		c.mu.Lock()
		c.entries[k] = cands
		c.hits++
		c.mu.Unlock()
		c.log.Debug("cache: disk hit for %q", name)
		return clone(cands), true
	}

	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
	return nil, false
}

func (c *CachedResolver) put(name string, cands []domain.ProductCandidate) {
	k := key(name)
	c.mu.Lock()
	c.entries[k] = clone(cands)
	c.mu.Unlock()
	c.writeDisk(k, cands)
}

// diskEntry is the JSON form of a cached candidate. Prices are stored as
// strings to keep them exact.
type diskEntry struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
}

// readDisk loads a cached list through the same checks as a live
// response, so a stale or hand-edited file cannot break the candidate
// contract.
func (c *CachedResolver) readDisk(k string) ([]domain.ProductCandidate, bool) {
	if c.cacheDir == "" {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(c.cacheDir, k+".json"))
	if err != nil {
		return nil, false
	}
	var raw []map[string]any
	if err := unmarshalNumbers(data, &raw); err != nil {
		c.log.Warn("cache: corrupt entry %s: %v", k, err)
		return nil, false
	}
	cands := CoerceList(raw, func(i int, err error) {
		c.log.Warn("cache: dropping candidate %d in %s: %v", i, k, err)
	})
	if len(cands) == 0 {
		return nil, false
	}
	return cands, true
}

func (c *CachedResolver) writeDisk(k string, cands []domain.ProductCandidate) {
	if c.cacheDir == "" {
		return
	}
	entries := make([]diskEntry, len(cands))
	for i, cd := range cands {
		entries[i] = diskEntry{
			ProductID: cd.ProductID,
			Name:      cd.Name,
			Price:     cd.Price.String(),
			ImageURL:  cd.ImageURL,
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		c.log.Error("cache: marshal %s: %v", k, err)
		return
	}
	if err := os.WriteFile(filepath.Join(c.cacheDir, k+".json"), data, 0o644); err != nil {
		c.log.Error("cache: write %s: %v", k, err)
	}
}

func key(name string) string {
	h := sha256.Sum256([]byte(name))
	return hex.EncodeToString(h[:])
}

func clone(cands []domain.ProductCandidate) []domain.ProductCandidate {
	return append([]domain.ProductCandidate(nil), cands...)
}

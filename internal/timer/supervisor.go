// Package timer implements the background supervisor that watches catalog
// loads and tells the user when one is taking longer than expected.
package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

// StatusSource exposes the cart state the supervisor polls.
type StatusSource interface {
	Snapshot() domain.CartSnapshot
}

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor checks the load status.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.tickInterval = d
	}
}

// WithSlowThreshold sets how long a load may be outstanding before the
// user is told about it.
func WithSlowThreshold(d time.Duration) Option {
	return func(s *Supervisor) {
		s.slowThreshold = d
	}
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// Supervisor runs in the background and reports slow catalog loads.
// Each load is reported at most once when it crosses the threshold, and
// once more when it finally resolves.
type Supervisor struct {
	source        StatusSource
	notifier      domain.Notifier
	log           *logger.Logger
	tickInterval  time.Duration
	slowThreshold time.Duration
	now           func() time.Time

	// load tracking, touched only by the loop goroutine (or tick in tests)
	loadingRecipe string
	loadingSince  time.Time
	warned        bool

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates a load supervisor with the given dependencies and options.
func New(source StatusSource, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		source:        source,
		notifier:      notifier,
		log:           log,
		tickInterval:  250 * time.Millisecond,
		slowThreshold: 3 * time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background supervisor loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("load supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	go s.loop(childCtx)

	s.log.Info("load supervisor started (tick=%s, threshold=%s)", s.tickInterval, s.slowThreshold)
}

// Stop shuts down the supervisor.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.log.Info("load supervisor stopped")
}

func (s *Supervisor) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one cycle against the current snapshot.
func (s *Supervisor) tick(ctx context.Context) {
	snap := s.source.Snapshot()
	now := s.now()

	if snap.Status != domain.StatusLoading {
		if s.loadingRecipe != "" && s.warned {
			msg := fmt.Sprintf("Catalog answered for %s after %s.", snap.RecipeTitle, formatElapsed(now.Sub(s.loadingSince)))
			if err := s.notifier.Notify(ctx, msg); err != nil {
				s.log.Error("supervisor: notify: %v", err)
			}
		}
		s.reset()
		return
	}

	// A different recipe started loading; restart the clock.
	if snap.RecipeID != s.loadingRecipe {
		s.loadingRecipe = snap.RecipeID
		s.loadingSince = now
		s.warned = false
		s.log.Debug("supervisor: tracking load of %s", snap.RecipeID)
		return
	}

	elapsed := now.Sub(s.loadingSince)
	if s.warned || elapsed < s.slowThreshold {
		return
	}

	s.warned = true
	s.log.Warn("supervisor: load of %s outstanding for %s", snap.RecipeID, elapsed.Round(time.Millisecond))
	msg := fmt.Sprintf("Still looking up products for %s (%s so far). The cart updates as soon as the catalog answers.",
		snap.RecipeTitle, formatElapsed(elapsed))
	if err := s.notifier.NotifyUrgent(ctx, msg); err != nil {
		s.log.Error("supervisor: notify: %v", err)
	}
}

func (s *Supervisor) reset() {
	s.loadingRecipe = ""
	s.loadingSince = time.Time{}
	s.warned = false
}

func formatElapsed(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

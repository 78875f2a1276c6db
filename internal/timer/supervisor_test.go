package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

// mockNotifier collects notifications for testing.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (m *mockNotifier) Notify(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockNotifier) NotifyUrgent(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, msg)
	return nil
}

func (m *mockNotifier) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages), len(m.urgent)
}

// fakeSource serves whatever snapshot the test sets.
type fakeSource struct {
	mu   sync.Mutex
	snap domain.CartSnapshot
}

func (f *fakeSource) Snapshot() domain.CartSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSource) set(id string, status domain.LoadStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = domain.CartSnapshot{RecipeID: id, RecipeTitle: "Title " + id, Status: status}
}

// clock is a manually advanced time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func setupSupervisor(t *testing.T) (*Supervisor, *fakeSource, *mockNotifier, *clock) {
	t.Helper()
	src := &fakeSource{}
	n := &mockNotifier{}
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := New(src, n, logger.New(logger.LevelOff, nil),
		WithSlowThreshold(2*time.Second),
		withClock(c.now),
	)
	return s, src, n, c
}

func TestSupervisorWarnsOncePerLoad(t *testing.T) {
	s, src, n, c := setupSupervisor(t)
	ctx := context.Background()

	src.set("r1", domain.StatusLoading)
	s.tick(ctx) // starts tracking

	c.advance(1 * time.Second)
	s.tick(ctx)
	if _, urgent := n.counts(); urgent != 0 {
		t.Fatalf("warned before threshold: %d", urgent)
	}

	c.advance(2 * time.Second)
	s.tick(ctx)
	c.advance(5 * time.Second)
	s.tick(ctx)
	if _, urgent := n.counts(); urgent != 1 {
		t.Fatalf("expected exactly 1 warning, got %d", urgent)
	}

	src.set("r1", domain.StatusResolved)
	s.tick(ctx)
	if normal, _ := n.counts(); normal != 1 {
		t.Fatalf("expected resolve notice, got %d", normal)
	}
}

func TestSupervisorFastLoadIsSilent(t *testing.T) {
	s, src, n, c := setupSupervisor(t)
	ctx := context.Background()

	src.set("r1", domain.StatusLoading)
	s.tick(ctx)
	c.advance(500 * time.Millisecond)
	src.set("r1", domain.StatusResolved)
	s.tick(ctx)

	if normal, urgent := n.counts(); normal != 0 || urgent != 0 {
		t.Fatalf("expected silence, got %d/%d", normal, urgent)
	}
}

func TestSupervisorNewLoadRestartsClock(t *testing.T) {
	s, src, n, c := setupSupervisor(t)
	ctx := context.Background()

	src.set("r1", domain.StatusLoading)
	s.tick(ctx)
	c.advance(1500 * time.Millisecond)

	// Superseded by another recipe before the threshold.
	src.set("r2", domain.StatusLoading)
	s.tick(ctx)
	c.advance(1500 * time.Millisecond)
	s.tick(ctx)
	if _, urgent := n.counts(); urgent != 0 {
		t.Fatalf("r2 should not be slow yet, got %d warnings", urgent)
	}

	c.advance(1 * time.Second)
	s.tick(ctx)
	if _, urgent := n.counts(); urgent != 1 {
		t.Fatalf("expected 1 warning for r2, got %d", urgent)
	}
}

func TestSupervisorStartStop(t *testing.T) {
	src := &fakeSource{}
	src.set("r1", domain.StatusLoading)
	n := &mockNotifier{}
	s := New(src, n, logger.New(logger.LevelOff, nil),
		WithTickInterval(10*time.Millisecond),
		WithSlowThreshold(30*time.Millisecond),
	)

	s.Start(context.Background())
	s.Start(context.Background()) // second start is a no-op
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for {
		if _, urgent := n.counts(); urgent == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("supervisor never warned")
		case <-time.After(10 * time.Millisecond):
		}
	}
	s.Stop()
	s.Stop()
}

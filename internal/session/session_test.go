package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	session "github.com/CodeAndHammer/typeproof/internal/session"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCreateAndConsumeOnce(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := session.NewStore(time.Hour, 0, session.WithClock(clock.Now))

	sess, err := store.Create(ctx, "the target")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(sess.ID) < 32 {
		t.Errorf("session id %q looks too short to be unguessable", sess.ID)
	}
	if !sess.IssuedAt.Equal(clock.Now()) {
		t.Errorf("IssuedAt = %v, want %v", sess.IssuedAt, clock.Now())
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d, want 1", store.Len())
	}

	got, ok := store.Consume(ctx, sess.ID)
	if !ok {
		t.Fatal("expected first consume to succeed")
	}
	if got.TargetText != "the target" {
		t.Errorf("TargetText = %q, want %q", got.TargetText, "the target")
	}
	if _, ok := store.Consume(ctx, sess.ID); ok {
		t.Fatal("second consume of the same id must fail")
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d after consume, want 0", store.Len())
	}
}

func TestCreateIssuesUniqueIDs(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(0, 0)
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		sess, err := store.Create(ctx, "")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, dup := seen[sess.ID]; dup {
			t.Fatalf("duplicate session id %s", sess.ID)
		}
		seen[sess.ID] = struct{}{}
	}
}

func TestConsumeUnknown(t *testing.T) {
	store := session.NewStore(time.Hour, 0)
	if _, ok := store.Consume(context.Background(), "does-not-exist"); ok {
		t.Fatal("unknown id must not be consumable")
	}
}

func TestConsumeExpired(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := session.NewStore(time.Minute, 0, session.WithClock(clock.Now))

	sess, _ := store.Create(ctx, "x")
	clock.Advance(2 * time.Minute)

	if _, ok := store.Consume(ctx, sess.ID); ok {
		t.Fatal("expired session must be rejected")
	}
	if store.Len() != 0 {
		t.Errorf("expired session should be dropped on consume, Len = %d", store.Len())
	}
}

func TestCleanupExpiredSessions(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := session.NewStore(10*time.Minute, 0, session.WithClock(clock.Now))

	old, _ := store.Create(ctx, "old")
	clock.Advance(9 * time.Minute)
	fresh, _ := store.Create(ctx, "fresh")
	clock.Advance(2 * time.Minute)

	if removed := store.CleanupExpiredSessions(); removed != 1 {
		t.Fatalf("CleanupExpiredSessions removed %d, want 1", removed)
	}
	if _, ok := store.Consume(ctx, old.ID); ok {
		t.Error("old session should have been swept")
	}
	if _, ok := store.Consume(ctx, fresh.ID); !ok {
		t.Error("fresh session should survive the sweep")
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := session.NewStore(0, 2, session.WithClock(clock.Now))

	first, _ := store.Create(ctx, "1")
	clock.Advance(time.Second)
	second, _ := store.Create(ctx, "2")
	clock.Advance(time.Second)
	third, _ := store.Create(ctx, "3")

	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}
	if _, ok := store.Consume(ctx, first.ID); ok {
		t.Error("oldest session should have been evicted")
	}
	for _, id := range []string{second.ID, third.ID} {
		if _, ok := store.Consume(ctx, id); !ok {
			t.Errorf("session %s should still be present", id)
		}
	}
}

func TestConcurrentConsumeSucceedsOnce(t *testing.T) {
	ctx := context.Background()
	store := session.NewStore(time.Hour, 0)
	sess, _ := store.Create(ctx, "race")

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := store.Consume(ctx, sess.ID); ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("session consumed %d times, want exactly 1", wins)
	}
}

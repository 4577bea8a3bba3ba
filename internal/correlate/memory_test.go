package correlate

import (
	"context"
	"testing"
	"time"

	util "github.com/zeakmc/gatekeeper/pkg/util"
)

func newTestStore(ttl time.Duration, at time.Time) (*MemoryStore, *time.Time) {
	current := at
	store := NewMemoryStoreWithClock(ttl, func() time.Time { return current })
	return store, &current
}

func TestTakeWithinWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store, current := newTestStore(24*time.Hour, base)

	err := store.Put(context.Background(), Session{TicketID: "t1", UserID: "u1", CreatedAt: base})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	*current = base.Add(23*time.Hour + 59*time.Minute)
	session, err := store.Take(context.Background(), "t1")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if session.UserID != "u1" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestTakeConsumesSession(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store, _ := newTestStore(24*time.Hour, base)

	_ = store.Put(context.Background(), Session{TicketID: "t1", CreatedAt: base})
	if _, err := store.Take(context.Background(), "t1"); err != nil {
		t.Fatalf("first take: %v", err)
	}

	_, err := store.Take(context.Background(), "t1")
	if !util.IsCode(err, util.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND on second take, got %v", err)
	}
}

func TestTakeAfterWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store, current := newTestStore(24*time.Hour, base)

	_ = store.Put(context.Background(), Session{TicketID: "t1", CreatedAt: base})

	*current = base.Add(24*time.Hour + time.Minute)
	_, err := store.Take(context.Background(), "t1")
	if !util.IsCode(err, util.CodeExpired) {
		t.Fatalf("expected EXPIRED, got %v", err)
	}

	// The expired session was removed on the failed take.
	_, err = store.Take(context.Background(), "t1")
	if !util.IsCode(err, util.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND after eviction, got %v", err)
	}
}

func TestPutReplacesExistingSession(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store, current := newTestStore(24*time.Hour, base)

	_ = store.Put(context.Background(), Session{TicketID: "t1", UserID: "u1", CreatedAt: base})

	// A later prompt for the same ticket restarts the window.
	later := base.Add(20 * time.Hour)
	_ = store.Put(context.Background(), Session{TicketID: "t1", UserID: "u2", CreatedAt: later})

	*current = base.Add(30 * time.Hour)
	session, err := store.Take(context.Background(), "t1")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if session.UserID != "u2" {
		t.Fatalf("expected replacement session, got %+v", session)
	}
}

func TestSweepEvictsOnlyExpired(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store, current := newTestStore(24*time.Hour, base)

	_ = store.Put(context.Background(), Session{TicketID: "old", CreatedAt: base})
	_ = store.Put(context.Background(), Session{TicketID: "fresh", CreatedAt: base.Add(20 * time.Hour)})

	*current = base.Add(25 * time.Hour)
	removed, err := store.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 evicted, got %d", removed)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 remaining, got %d", store.Len())
	}

	if _, err := store.Take(context.Background(), "fresh"); err != nil {
		t.Fatalf("fresh session should survive the sweep: %v", err)
	}
}

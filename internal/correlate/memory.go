package correlate

import (
	"context"
	"sync"
	"time"

	util "github.com/zeakmc/gatekeeper/pkg/util"
)

// MemoryStore keeps sessions in process memory. Entries are only visible to
// the process that opened them; use the Redis store when running replicas.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an in-memory session store with the given window.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return NewMemoryStoreWithClock(ttl, time.Now)
}

// NewMemoryStoreWithClock creates an in-memory session store whose expiry
// checks use the given clock. Tests use it to control elapsed time.
func NewMemoryStoreWithClock(ttl time.Duration, clock func() time.Time) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      clock,
	}
}

// Put inserts or replaces the session for its ticket id. Last prompt wins.
func (m *MemoryStore) Put(ctx context.Context, session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.TicketID] = session
	return nil
}

// Take removes and returns the session, checking elapsed time even when the
// sweep has not evicted it yet.
func (m *MemoryStore) Take(ctx context.Context, ticketID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[ticketID]
	if !ok {
		return nil, util.NewNotFound("feedback session")
	}
	delete(m.sessions, ticketID)

	if m.now().Sub(session.CreatedAt) > m.ttl {
		return nil, util.NewExpired("feedback request has expired")
	}
	return &session, nil
}

// Sweep evicts sessions whose window has elapsed.
func (m *MemoryStore) Sweep(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, session := range m.sessions {
		if now.Sub(session.CreatedAt) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports how many sessions are currently held.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

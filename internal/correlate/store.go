// Package correlate binds an outbound feedback prompt to the single inbound
// response expected for it, inside a fixed time window.
package correlate

import (
	"context"
	"time"
)

// Session is the correlation record for one closed ticket's feedback prompt.
type Session struct {
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	GuildID   string    `json:"guild_id"`
	Category  string    `json:"category"`
	StaffID   *string   `json:"staff_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is an expiring key-value store of feedback sessions, keyed by ticket
// id. Expiry is decided lazily against CreatedAt on Take; a background Sweep
// only reclaims memory. Implementations must let a later Put replace an
// existing session for the same ticket id.
type Store interface {
	// Put inserts or replaces the session for its ticket id.
	Put(ctx context.Context, session Session) error
	// Take removes and returns the session for the ticket id. It fails with
	// NOT_FOUND when no session exists (never opened, already consumed, or
	// already evicted) and with EXPIRED when the session exists but its
	// window has elapsed.
	Take(ctx context.Context, ticketID string) (*Session, error)
	// Sweep evicts sessions whose window has elapsed and reports how many
	// were removed.
	Sweep(ctx context.Context) (int, error)
}

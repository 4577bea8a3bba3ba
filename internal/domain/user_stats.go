package domain

import "time"

// UserStats tracks per-user ticket activity inside a guild. LastTicketAt is
// the persisted stamp the rate limiter decides against.
type UserStats struct {
	GuildID        string
	UserID         string
	TicketsCreated int
	LastTicketAt   *time.Time
}

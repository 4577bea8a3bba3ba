package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen    TicketStatus = "Open"
	TicketStatusClaimed TicketStatus = "Claimed"
	TicketStatusClosed  TicketStatus = "Closed"
)

// Ticket is the aggregate for support requests. Each ticket is backed by
// exactly one channel on the platform.
type Ticket struct {
	ID           string
	GuildID      string
	CategoryID   string
	ChannelID    string
	CreatorID    string
	Participants []string
	Status       TicketStatus
	ClaimedBy    *string
	ClosedBy     *string
	CloseReason  *string
	Intake       map[string]string
	CreatedAt    time.Time
	ClosedAt     *time.Time
}

// HasParticipant reports whether the user already has access to the ticket.
func (t *Ticket) HasParticipant(userID string) bool {
	for _, p := range t.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

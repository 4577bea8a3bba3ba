package domain

import "time"

// Feedback is a persisted post-close rating, written when a feedback session
// resolves within its window.
type Feedback struct {
	ID          string
	TicketID    string
	GuildID     string
	UserID      string
	Rating      int
	Comment     string
	StaffID     *string
	Category    string
	SubmittedAt time.Time
}

package domain

import "time"

// GuildConfig holds per-guild settings. TicketCounter is only advanced through
// the repository's atomic fetch-and-increment, never by read-then-write.
type GuildConfig struct {
	GuildID           string
	TicketCounter     int
	CooldownSeconds   int
	Blacklist         []string
	FeedbackEnabled   bool
	FeedbackChannelID string
	DMOnCreate        bool
	DMOnClose         bool
	UpdatedAt         time.Time
}

// CooldownWindow returns the ticket-creation cooldown as a duration.
func (g *GuildConfig) CooldownWindow() time.Duration {
	return time.Duration(g.CooldownSeconds) * time.Second
}

// IsBlacklisted reports whether the user may not create tickets in this guild.
func (g *GuildConfig) IsBlacklisted(userID string) bool {
	for _, id := range g.Blacklist {
		if id == userID {
			return true
		}
	}
	return false
}

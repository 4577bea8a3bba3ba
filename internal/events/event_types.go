package events

import (
	"time"

	"github.com/zeakmc/gatekeeper/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApplicationSubmitted EventType = "application_submitted"
	EventApplicationDecided   EventType = "application_decided"
	EventWhitelistRemoved     EventType = "whitelist_removed"
	EventTicketCreated        EventType = "ticket_created"
	EventTicketClaimed        EventType = "ticket_claimed"
	EventTicketClosed         EventType = "ticket_closed"
	EventParticipantAdded     EventType = "participant_added"
	EventFeedbackReceived     EventType = "feedback_received"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	GuildID   string      `json:"guild_id"`
	RefID     string      `json:"ref_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	RequesterID string `json:"requester_id"`
	IGN         string `json:"ign"`
	Platform    string `json:"platform,omitempty"`
}

// ApplicationDecidedPayload payload.
type ApplicationDecidedPayload struct {
	RequesterID string                   `json:"requester_id"`
	IGN         string                   `json:"ign"`
	Status      domain.ApplicationStatus `json:"status"`
}

// WhitelistRemovedPayload payload.
type WhitelistRemovedPayload struct {
	RequesterID string `json:"requester_id"`
	IGN         string `json:"ign"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CategoryID  string `json:"category_id"`
	ChannelID   string `json:"channel_id"`
	ChannelName string `json:"channel_name"`
	CreatorID   string `json:"creator_id"`
}

// TicketClaimedPayload payload.
type TicketClaimedPayload struct {
	StaffID string `json:"staff_id"`
}

// TicketClosedPayload payload.
type TicketClosedPayload struct {
	CreatorID string  `json:"creator_id"`
	ChannelID string  `json:"channel_id"`
	Reason    *string `json:"reason,omitempty"`
}

// ParticipantAddedPayload payload.
type ParticipantAddedPayload struct {
	UserID string `json:"user_id"`
}

// FeedbackReceivedPayload payload.
type FeedbackReceivedPayload struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
	UserID  string `json:"user_id"`
}

package domain

import "time"

// ActionKind enumerates privileged staff decisions recorded for audit.
type ActionKind string

const (
	ActionAcceptApplication ActionKind = "accept_application"
	ActionRejectApplication ActionKind = "reject_application"
	ActionRemoveWhitelist   ActionKind = "remove_whitelist"
	ActionClaimTicket       ActionKind = "claim_ticket"
	ActionCloseTicket       ActionKind = "close_ticket"
	ActionAddParticipant    ActionKind = "add_participant"
)

// StaffAction is an append-only audit record. Never mutated or deleted.
type StaffAction struct {
	ID        string
	GuildID   string
	RefID     string
	ActorID   string
	Action    ActionKind
	Reason    *string
	TargetID  *string
	CreatedAt time.Time
}

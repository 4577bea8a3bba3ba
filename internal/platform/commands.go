// Package platform is the boundary between the workflow core and the chat
// platform. Inbound gateway events are decoded exactly once into the typed
// commands below; outbound effects go through the Effector interface. Nothing
// outside the platform adapters parses custom-id strings or gateway payloads.
package platform

// Outcome is a staff decision on an application.
type Outcome string

const (
	OutcomeAccept Outcome = "accept"
	OutcomeReject Outcome = "reject"
)

// Command is a classified inbound action.
type Command interface {
	Kind() string
}

// SubmitApplication carries a whitelist form submission.
type SubmitApplication struct {
	RequesterID  string
	RequesterTag string
	IGN          string
	Platform     string
}

func (SubmitApplication) Kind() string { return "submit_application" }

// DecideApplication carries a staff accept/reject press.
type DecideApplication struct {
	ApplicationID string
	StaffID       string
	Outcome       Outcome
}

func (DecideApplication) Kind() string { return "decide_application" }

// RemoveFromWhitelist is the staff-only maintenance path keyed by in-game name.
type RemoveFromWhitelist struct {
	GuildID string
	StaffID string
	IGN     string
}

func (RemoveFromWhitelist) Kind() string { return "remove_from_whitelist" }

// CreateTicket carries a completed category selection plus intake answers.
type CreateTicket struct {
	GuildID         string
	CategoryID      string
	CreatorID       string
	CreatorUsername string
	Intake          map[string]string
}

func (CreateTicket) Kind() string { return "create_ticket" }

// ClaimTicket carries a staff claim press.
type ClaimTicket struct {
	TicketID string
	StaffID  string
}

func (ClaimTicket) Kind() string { return "claim_ticket" }

// CloseTicket carries a staff close press.
type CloseTicket struct {
	TicketID string
	StaffID  string
	Reason   *string
}

func (CloseTicket) Kind() string { return "close_ticket" }

// AddParticipant grants a user access to an existing ticket.
type AddParticipant struct {
	TicketID string
	StaffID  string
	UserID   string
}

func (AddParticipant) Kind() string { return "add_participant" }

// SubmitFeedback carries a rating response to a feedback prompt.
type SubmitFeedback struct {
	TicketID string
	Rating   int
	Comment  string
}

func (SubmitFeedback) Kind() string { return "submit_feedback" }

// MemberJoined signals a new guild member. No core state changes; it only
// triggers the welcome effect.
type MemberJoined struct {
	GuildID  string
	UserID   string
	Username string
}

func (MemberJoined) Kind() string { return "member_joined" }

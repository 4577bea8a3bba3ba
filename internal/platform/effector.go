package platform

import (
	"context"

	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/permission"
)

// ChannelSpec describes a ticket channel to create.
type ChannelSpec struct {
	Name       string
	ParentID   string
	Overwrites []permission.Overwrite
}

// Effector executes the effects the core requests from the platform. The
// discord adapter is the production implementation; tests substitute fakes.
type Effector interface {
	// CreateTicketChannel creates the backing channel and returns its id.
	CreateTicketChannel(ctx context.Context, guildID string, spec ChannelSpec) (string, error)
	// ApplyOverwrites replaces the full overwrite set on a channel.
	ApplyOverwrites(ctx context.Context, guildID, channelID string, overwrites []permission.Overwrite) error
	// EditParticipantOverwrite edits the overwrite for a single principal
	// without touching the rest of the set.
	EditParticipantOverwrite(ctx context.Context, channelID string, overwrite permission.Overwrite) error
	SendChannelMessage(ctx context.Context, channelID, content string) error
	SendDirectMessage(ctx context.Context, userID, content string) error
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
	RevokeRole(ctx context.Context, guildID, userID, roleID string) error
	// SendApplicationReview posts the staff review prompt for a pending
	// application, including the accept/reject controls.
	SendApplicationReview(ctx context.Context, channelID string, app *domain.Application) error
	// SendTicketIntro posts the greeting and the claim/close/add controls
	// into a freshly created ticket channel.
	SendTicketIntro(ctx context.Context, channelID string, ticket *domain.Ticket, greeting string) error
	// SendFeedbackPrompt asks the ticket creator for a rating via direct
	// message.
	SendFeedbackPrompt(ctx context.Context, userID, ticketID string) error
}

// Package discord adapts the platform boundary to the Discord gateway. It is
// the only package that touches gateway payload shapes or custom-id strings.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/permission"
	"github.com/zeakmc/gatekeeper/internal/platform"
)

// Effector executes core-requested effects against the Discord API.
type Effector struct {
	session *discordgo.Session
}

// NewEffector wraps a connected session.
func NewEffector(session *discordgo.Session) *Effector {
	return &Effector{session: session}
}

// CreateTicketChannel creates the backing text channel with its overwrite set.
func (e *Effector) CreateTicketChannel(ctx context.Context, guildID string, spec platform.ChannelSpec) (string, error) {
	channel, err := e.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 spec.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             spec.ParentID,
		PermissionOverwrites: toDiscordOverwrites(guildID, spec.Overwrites),
	})
	if err != nil {
		return "", err
	}
	return channel.ID, nil
}

// ApplyOverwrites replaces the full overwrite set on a channel.
func (e *Effector) ApplyOverwrites(ctx context.Context, guildID, channelID string, overwrites []permission.Overwrite) error {
	_, err := e.session.ChannelEdit(channelID, &discordgo.ChannelEdit{
		PermissionOverwrites: toDiscordOverwrites(guildID, overwrites),
	})
	return err
}

// EditParticipantOverwrite edits the overwrite for one principal.
func (e *Effector) EditParticipantOverwrite(ctx context.Context, channelID string, overwrite permission.Overwrite) error {
	return e.session.ChannelPermissionSet(
		channelID,
		overwrite.PrincipalID,
		overwriteType(overwrite.Kind),
		permissionBits(overwrite.Allow),
		permissionBits(overwrite.Deny),
	)
}

// SendChannelMessage posts plain content to a channel.
func (e *Effector) SendChannelMessage(ctx context.Context, channelID, content string) error {
	_, err := e.session.ChannelMessageSend(channelID, content)
	return err
}

// SendDirectMessage posts plain content to a user's DM channel.
func (e *Effector) SendDirectMessage(ctx context.Context, userID, content string) error {
	channel, err := e.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = e.session.ChannelMessageSend(channel.ID, content)
	return err
}

// GrantRole adds a role to a guild member.
func (e *Effector) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	return e.session.GuildMemberRoleAdd(guildID, userID, roleID)
}

// RevokeRole removes a role from a guild member.
func (e *Effector) RevokeRole(ctx context.Context, guildID, userID, roleID string) error {
	return e.session.GuildMemberRoleRemove(guildID, userID, roleID)
}

// SendApplicationReview posts the staff review prompt with accept/reject
// buttons into the forms channel.
func (e *Effector) SendApplicationReview(ctx context.Context, channelID string, app *domain.Application) error {
	content := fmt.Sprintf("New whitelist application from <@%s> (%s)\nIGN: `%s`\nStatus: Pending review",
		app.RequesterID, app.RequesterTag, app.IGN)
	_, err := e.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Accept", Style: discordgo.SuccessButton, CustomID: acceptAppID(app.ID)},
				discordgo.Button{Label: "Reject", Style: discordgo.DangerButton, CustomID: rejectAppID(app.ID)},
			}},
		},
	})
	return err
}

// SendTicketIntro posts the greeting and the ticket controls into a freshly
// created ticket channel.
func (e *Effector) SendTicketIntro(ctx context.Context, channelID string, ticket *domain.Ticket, greeting string) error {
	content := fmt.Sprintf("<@%s>", ticket.CreatorID)
	if greeting != "" {
		content = greeting + " " + content
	}
	_, err := e.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Close", Style: discordgo.DangerButton, CustomID: closeTicketID(ticket.ID)},
				discordgo.Button{Label: "Claim", Style: discordgo.SuccessButton, CustomID: claimTicketID(ticket.ID)},
				discordgo.Button{Label: "Add User", Style: discordgo.PrimaryButton, CustomID: addUserID(ticket.ID)},
			}},
		},
	})
	return err
}

// SendFeedbackPrompt DMs the rating buttons for a closed ticket.
func (e *Effector) SendFeedbackPrompt(ctx context.Context, userID, ticketID string) error {
	channel, err := e.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}

	buttons := make([]discordgo.MessageComponent, 0, 5)
	for rating := 1; rating <= 5; rating++ {
		style := discordgo.SecondaryButton
		switch rating {
		case 1:
			style = discordgo.DangerButton
		case 5:
			style = discordgo.SuccessButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    fmt.Sprintf("%d ⭐", rating),
			Style:    style,
			CustomID: feedbackID(ticketID, rating),
		})
	}

	content := fmt.Sprintf("Thank you for using our ticket system! Please rate your experience on ticket #%s.", shortID(ticketID))
	_, err = e.session.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content:    content,
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
	})
	return err
}

func toDiscordOverwrites(guildID string, overwrites []permission.Overwrite) []*discordgo.PermissionOverwrite {
	result := make([]*discordgo.PermissionOverwrite, 0, len(overwrites))
	for _, ow := range overwrites {
		id := ow.PrincipalID
		if ow.Kind == permission.PrincipalEveryone {
			// The everyone principal is the role sharing the guild id.
			id = guildID
		}
		result = append(result, &discordgo.PermissionOverwrite{
			ID:    id,
			Type:  overwriteType(ow.Kind),
			Allow: permissionBits(ow.Allow),
			Deny:  permissionBits(ow.Deny),
		})
	}
	return result
}

func overwriteType(kind permission.PrincipalKind) discordgo.PermissionOverwriteType {
	if kind == permission.PrincipalMember {
		return discordgo.PermissionOverwriteTypeMember
	}
	return discordgo.PermissionOverwriteTypeRole
}

func permissionBits(p permission.Permission) int64 {
	var bits int64
	if p&permission.ViewChannel != 0 {
		bits |= discordgo.PermissionViewChannel
	}
	if p&permission.SendMessages != 0 {
		bits |= discordgo.PermissionSendMessages
	}
	return bits
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

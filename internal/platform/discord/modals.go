package discord

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (d *Dispatcher) showWhitelistModal(i *discordgo.InteractionCreate) {
	d.respondModal(i, &discordgo.InteractionResponseData{
		CustomID: idWhitelistModal,
		Title:    "Whitelist Application",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "ign",
					Label:       "Your in-game name",
					Style:       discordgo.TextInputShort,
					Placeholder: "Steve",
					Required:    true,
					MaxLength:   32,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "platform",
					Label:       "Platform",
					Style:       discordgo.TextInputShort,
					Placeholder: "Java or Bedrock",
					Required:    false,
					MaxLength:   16,
				},
			}},
		},
	})
}

func (d *Dispatcher) showTicketModal(i *discordgo.InteractionCreate, categoryID string) {
	d.respondModal(i, &discordgo.InteractionResponseData{
		CustomID: ticketModalID(categoryID),
		Title:    "Open a Ticket",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "issue",
					Label:       "Describe your issue",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "Tell us what you need help with",
					Required:    true,
					MaxLength:   1000,
				},
			}},
		},
	})
}

func (d *Dispatcher) showAddUserModal(i *discordgo.InteractionCreate, ticketID string) {
	d.respondModal(i, &discordgo.InteractionResponseData{
		CustomID: addUserModalID(ticketID),
		Title:    "Add User to Ticket",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "user_id",
					Label:       "User ID",
					Style:       discordgo.TextInputShort,
					Placeholder: "123456789012345678",
					Required:    true,
					MaxLength:   20,
				},
			}},
		},
	})
}

func (d *Dispatcher) showFeedbackModal(i *discordgo.InteractionCreate, ticketID string, rating int) {
	if rating < 1 || rating > 5 {
		d.replyEphemeral(i, "That feedback button is no longer valid.")
		return
	}
	d.respondModal(i, &discordgo.InteractionResponseData{
		CustomID: feedbackModalID(ticketID, rating),
		Title:    "Ticket Feedback",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    "comment",
					Label:       "Anything you'd like to add?",
					Style:       discordgo.TextInputParagraph,
					Required:    false,
					MaxLength:   500,
				},
			}},
		},
	})
}

func (d *Dispatcher) respondModal(i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := d.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: data,
	})
	if err != nil {
		d.logger.Warn("modal response failed", zap.Error(err))
	}
}

package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var commandDefinitions = []*discordgo.ApplicationCommand{
	{
		Name:        "whitelist-panel",
		Description: "Post the whitelist application panel in this channel",
	},
	{
		Name:        "ticket-panel",
		Description: "Post the ticket category panel in this channel",
	},
	{
		Name:        "ticket-category",
		Description: "Manage ticket categories",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a ticket category",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "name", Description: "Category name", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "description", Description: "Shown on the panel"},
					{Type: discordgo.ApplicationCommandOptionChannel, Name: "parent", Description: "Parent channel category for ticket channels"},
					{Type: discordgo.ApplicationCommandOptionRole, Name: "staff-role", Description: "Role granted access to tickets in this category"},
					{
						Type: discordgo.ApplicationCommandOptionString, Name: "color", Description: "Button color",
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "primary", Value: "primary"},
							{Name: "secondary", Value: "secondary"},
							{Name: "success", Value: "success"},
							{Name: "danger", Value: "danger"},
						},
					},
					{Type: discordgo.ApplicationCommandOptionString, Name: "emoji", Description: "Button emoji"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "template", Description: "Channel naming template, e.g. ticket-{num}"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "greeting", Description: "Message posted when a ticket opens"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a ticket category",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Category id", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List ticket categories",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "enable",
				Description: "Enable a ticket category",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Category id", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "disable",
				Description: "Disable a ticket category",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Category id", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "template",
				Description: "Set the channel naming template for a category",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "id", Description: "Category id", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "template", Description: "Template with {num}/{username}/{category} tokens", Required: true},
				},
			},
		},
	},
	{
		Name:        "ticket-feedback",
		Description: "Manage ticket feedback collection",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "enable", Description: "Prompt creators for feedback when tickets close"},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "disable", Description: "Stop prompting for feedback"},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "channel",
				Description: "Set the channel feedback is posted to",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Target channel", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "stats",
				Description: "Show feedback statistics",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "staff", Description: "Filter by staff member"},
					{Type: discordgo.ApplicationCommandOptionString, Name: "category", Description: "Filter by category name"},
				},
			},
		},
	},
	{
		Name:        "ticket-settings",
		Description: "Manage guild ticket settings",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "cooldown",
				Description: "Set the per-user ticket creation cooldown",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "seconds", Description: "Cooldown in seconds, 0 disables", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "dm",
				Description: "Toggle DM notifications for ticket creators",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "on-create", Description: "DM when a ticket is created", Required: true},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "on-close", Description: "DM when a ticket is closed", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "blacklist-add",
				Description: "Block a user from creating tickets",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to block", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "blacklist-remove",
				Description: "Allow a blocked user to create tickets again",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to unblock", Required: true},
				},
			},
		},
	},
}

// RegisterCommands overwrites the guild's slash commands with the current set.
func (d *Dispatcher) RegisterCommands() error {
	_, err := d.session.ApplicationCommandBulkOverwrite(d.session.State.User.ID, d.cfg.GuildID, commandDefinitions)
	if err != nil {
		return fmt.Errorf("overwrite application commands: %w", err)
	}
	return nil
}

package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/service"
)

// handleCommand routes the staff slash commands. Every command here mutates
// guild configuration or posts a panel, so they all sit behind the staff gate.
func (d *Dispatcher) handleCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	d.metrics.RecordCommand("slash:"+data.Name, false)

	if !d.requireStaff(i) {
		return
	}

	switch data.Name {
	case "whitelist-panel":
		d.postWhitelistPanel(i)
	case "ticket-panel":
		d.postTicketPanel(ctx, i)
	case "ticket-category":
		d.handleCategoryCommand(ctx, i, data)
	case "ticket-feedback":
		d.handleFeedbackCommand(ctx, i, data)
	case "ticket-settings":
		d.handleSettingsCommand(ctx, i, data)
	default:
		d.replyEphemeral(i, "Unknown command.")
	}
}

func (d *Dispatcher) postWhitelistPanel(i *discordgo.InteractionCreate) {
	_, err := d.session.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Content: "**Whitelist Applications**\nPress the button below to apply for the whitelist.",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Apply",
					Style:    discordgo.SuccessButton,
					CustomID: idOpenWhitelistModal,
				},
			}},
		},
	})
	if err != nil {
		d.logger.Warn("whitelist panel post failed", zap.Error(err))
		d.replyEphemeral(i, "Could not post the panel in this channel.")
		return
	}
	d.replyEphemeral(i, "Whitelist panel posted.")
}

func (d *Dispatcher) postTicketPanel(ctx context.Context, i *discordgo.InteractionCreate) {
	categories, err := d.categories.List(ctx, i.GuildID)
	if err != nil {
		d.replyEphemeral(i, userMessage(err))
		return
	}

	rows := categoryButtonRows(categories)
	if len(rows) == 0 {
		d.replyEphemeral(i, "No enabled ticket categories. Add one with `/ticket-category add` first.")
		return
	}

	_, err = d.session.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Content:    "**Support Tickets**\nChoose a category to open a ticket.",
		Components: rows,
	})
	if err != nil {
		d.logger.Warn("ticket panel post failed", zap.Error(err))
		d.replyEphemeral(i, "Could not post the panel in this channel.")
		return
	}
	d.replyEphemeral(i, "Ticket panel posted.")
}

// categoryButtonRows builds one button per enabled category, chunked into
// action rows of at most five.
func categoryButtonRows(categories []domain.CategoryConfig) []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent
	for _, c := range categories {
		if !c.Enabled {
			continue
		}
		button := discordgo.Button{
			Label:    c.Name,
			Style:    buttonStyle(c.ButtonColor),
			CustomID: openTicketID(c.ID),
		}
		if c.ButtonEmoji != "" {
			button.Emoji = &discordgo.ComponentEmoji{Name: c.ButtonEmoji}
		}
		buttons = append(buttons, button)
	}

	var rows []discordgo.MessageComponent
	for start := 0; start < len(buttons); start += 5 {
		end := start + 5
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons[start:end]})
	}
	return rows
}

func (d *Dispatcher) handleCategoryCommand(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := namedOptions(sub.Options)

	switch sub.Name {
	case "add":
		input := service.CategoryInput{
			Name:            optString(opts, "name"),
			Description:     optString(opts, "description"),
			ParentChannelID: optChannel(opts, "parent"),
			ButtonColor:     domain.ButtonColor(optString(opts, "color")),
			ButtonEmoji:     optString(opts, "emoji"),
			NamingTemplate:  optString(opts, "template"),
			AutoGreeting:    optString(opts, "greeting"),
		}
		if role := optRole(opts, "staff-role"); role != "" {
			input.StaffRoles = []string{role}
		}
		category, err := d.categories.Create(ctx, i.GuildID, input)
		if err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		d.replyEphemeral(i, "Category **"+category.Name+"** created with id `"+category.ID+"`.")

	case "remove":
		if err := d.categories.Delete(ctx, optString(opts, "id")); err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		d.replyEphemeral(i, "Category removed.")

	case "list":
		categories, err := d.categories.List(ctx, i.GuildID)
		if err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		if len(categories) == 0 {
			d.replyEphemeral(i, "No categories configured.")
			return
		}
		var b strings.Builder
		for _, c := range categories {
			state := "enabled"
			if !c.Enabled {
				state = "disabled"
			}
			fmt.Fprintf(&b, "`%s` **%s** (%s)\n", c.ID, c.Name, state)
		}
		d.replyEphemeral(i, b.String())

	case "enable", "disable":
		category, err := d.categories.SetEnabled(ctx, optString(opts, "id"), sub.Name == "enable")
		if err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		d.replyEphemeral(i, "Category **"+category.Name+"** is now "+sub.Name+"d.")

	case "template":
		category, err := d.categories.SetNamingTemplate(ctx, optString(opts, "id"), optString(opts, "template"))
		if err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		d.replyEphemeral(i, "Naming template for **"+category.Name+"** set to `"+category.NamingTemplate+"`.")
	}
}

func (d *Dispatcher) handleFeedbackCommand(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := namedOptions(sub.Options)

	switch sub.Name {
	case "enable", "disable":
		if _, err := d.guilds.SetFeedbackEnabled(ctx, i.GuildID, sub.Name == "enable"); err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		d.replyEphemeral(i, "Ticket feedback "+sub.Name+"d.")

	case "channel":
		channelID := optChannel(opts, "channel")
		if _, err := d.guilds.SetFeedbackChannel(ctx, i.GuildID, channelID); err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		d.replyEphemeral(i, "Feedback will be posted in <#"+channelID+">.")

	case "stats":
		var staffID, category *string
		if v := optUser(opts, "staff"); v != "" {
			staffID = &v
		}
		if v := optString(opts, "category"); v != "" {
			category = &v
		}
		stats, err := d.feedback.Stats(ctx, i.GuildID, staffID, category)
		if err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		if stats.Count == 0 {
			d.replyEphemeral(i, "No feedback recorded yet.")
			return
		}
		var b strings.Builder
		fmt.Fprintf(&b, "**%d** responses, average **%.2f**\n", stats.Count, stats.AverageRating)
		for rating := 5; rating >= 1; rating-- {
			fmt.Fprintf(&b, "%s — %d\n", strings.Repeat("⭐", rating), stats.Distribution[rating])
		}
		d.replyEphemeral(i, b.String())
	}
}

func (d *Dispatcher) handleSettingsCommand(ctx context.Context, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	opts := namedOptions(sub.Options)

	switch sub.Name {
	case "cooldown":
		window := time.Duration(optInt(opts, "seconds")) * time.Second
		if _, err := d.guilds.SetCooldown(ctx, i.GuildID, window); err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		if window <= 0 {
			d.replyEphemeral(i, "Ticket cooldown disabled.")
			return
		}
		d.replyEphemeral(i, "Ticket cooldown set to "+formatDuration(window)+".")

	case "dm":
		onCreate := optBool(opts, "on-create")
		onClose := optBool(opts, "on-close")
		if _, err := d.guilds.SetDMNotifications(ctx, i.GuildID, onCreate, onClose); err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		d.replyEphemeral(i, fmt.Sprintf("DM notifications updated: on create %t, on close %t.", onCreate, onClose))

	case "blacklist-add":
		userID := optUser(opts, "user")
		if err := d.guilds.BlacklistAdd(ctx, i.GuildID, userID); err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		d.replyEphemeral(i, "<@"+userID+"> can no longer create tickets.")

	case "blacklist-remove":
		userID := optUser(opts, "user")
		if err := d.guilds.BlacklistRemove(ctx, i.GuildID, userID); err != nil {
			d.replyEphemeral(i, userMessage(err))
			return
		}
		d.replyEphemeral(i, "<@"+userID+"> can create tickets again.")
	}
}

func buttonStyle(color domain.ButtonColor) discordgo.ButtonStyle {
	switch color {
	case domain.ButtonColorSecondary:
		return discordgo.SecondaryButton
	case domain.ButtonColorSuccess:
		return discordgo.SuccessButton
	case domain.ButtonColorDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

func namedOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	named := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		named[o.Name] = o
	}
	return named
}

func optString(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if o, ok := opts[name]; ok {
		return o.StringValue()
	}
	return ""
}

func optInt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	if o, ok := opts[name]; ok {
		return o.IntValue()
	}
	return 0
}

func optBool(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	if o, ok := opts[name]; ok {
		return o.BoolValue()
	}
	return false
}

// Channel, role and user options all carry a snowflake string in Value.
func optSnowflake(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	o, ok := opts[name]
	if !ok {
		return ""
	}
	id, _ := o.Value.(string)
	return id
}

func optChannel(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	return optSnowflake(opts, name)
}

func optRole(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	return optSnowflake(opts, name)
}

func optUser(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	return optSnowflake(opts, name)
}

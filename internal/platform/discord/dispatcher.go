package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/zeakmc/gatekeeper/internal/config"
	"github.com/zeakmc/gatekeeper/internal/observability"
	"github.com/zeakmc/gatekeeper/internal/platform"
	"github.com/zeakmc/gatekeeper/internal/service"
	util "github.com/zeakmc/gatekeeper/pkg/util"
)

// Dispatcher classifies gateway events into typed commands and routes them to
// the services. Custom-id parsing happens here and nowhere else.
type Dispatcher struct {
	session    *discordgo.Session
	apps       *service.ApplicationService
	tickets    *service.TicketService
	feedback   *service.FeedbackService
	categories *service.CategoryService
	guilds     *service.GuildService
	notifier   *service.NotificationService
	cfg        config.DiscordConfig
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// DispatcherDependencies bundles collaborators for the dispatcher.
type DispatcherDependencies struct {
	Session    *discordgo.Session
	Apps       *service.ApplicationService
	Tickets    *service.TicketService
	Feedback   *service.FeedbackService
	Categories *service.CategoryService
	Guilds     *service.GuildService
	Notifier   *service.NotificationService
	Discord    config.DiscordConfig
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewDispatcher constructs the dispatcher.
func NewDispatcher(deps DispatcherDependencies) *Dispatcher {
	return &Dispatcher{
		session:    deps.Session,
		apps:       deps.Apps,
		tickets:    deps.Tickets,
		feedback:   deps.Feedback,
		categories: deps.Categories,
		guilds:     deps.Guilds,
		notifier:   deps.Notifier,
		cfg:        deps.Discord,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// Register attaches the gateway handlers.
func (d *Dispatcher) Register() {
	d.session.AddHandler(d.onInteraction)
	d.session.AddHandler(d.onMessage)
	d.session.AddHandler(d.onMemberJoin)
}

func (d *Dispatcher) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		d.handleComponent(ctx, i)
	case discordgo.InteractionModalSubmit:
		d.handleModal(ctx, i)
	case discordgo.InteractionApplicationCommand:
		d.handleCommand(ctx, i)
	}
}

func (d *Dispatcher) handleComponent(ctx context.Context, i *discordgo.InteractionCreate) {
	action, args := splitCustomID(i.MessageComponentData().CustomID)

	switch action {
	case idOpenWhitelistModal:
		d.showWhitelistModal(i)

	case prefixAcceptApp, prefixRejectApp:
		if len(args) < 1 || !d.requireStaff(i) {
			return
		}
		outcome := platform.OutcomeReject
		if action == prefixAcceptApp {
			outcome = platform.OutcomeAccept
		}
		cmd := platform.DecideApplication{ApplicationID: args[0], StaffID: actorID(i), Outcome: outcome}
		_, err := d.apps.Decide(ctx, cmd)
		d.finish(i, cmd, err, "Application decision recorded and result posted.")

	case prefixOpenTicket:
		if len(args) < 1 {
			return
		}
		d.showTicketModal(i, args[0])

	case prefixClaimTicket:
		if len(args) < 1 || !d.requireStaff(i) {
			return
		}
		cmd := platform.ClaimTicket{TicketID: args[0], StaffID: actorID(i)}
		_, err := d.tickets.Claim(ctx, cmd)
		d.finish(i, cmd, err, "Ticket claimed.")

	case prefixCloseTicket:
		if len(args) < 1 || !d.requireStaff(i) {
			return
		}
		cmd := platform.CloseTicket{TicketID: args[0], StaffID: actorID(i)}
		_, err := d.tickets.Close(ctx, cmd)
		d.finish(i, cmd, err, "Ticket closed.")

	case prefixAddUser:
		if len(args) < 1 || !d.requireStaff(i) {
			return
		}
		d.showAddUserModal(i, args[0])

	case prefixFeedback:
		if len(args) < 2 {
			return
		}
		d.showFeedbackModal(i, args[0], parseRating(args[1]))
	}
}

func (d *Dispatcher) handleModal(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	action, args := splitCustomID(data.CustomID)

	switch action {
	case idWhitelistModal:
		cmd := platform.SubmitApplication{
			RequesterID:  actorID(i),
			RequesterTag: actorTag(i),
			IGN:          modalValue(data, 0),
			Platform:     strings.TrimSpace(modalValue(data, 1)),
		}
		_, err := d.apps.Submit(ctx, cmd)
		d.finish(i, cmd, err, "Your application has been submitted for review. Please wait for staff to review it.")

	case prefixTicketModal:
		if len(args) < 1 {
			return
		}
		cmd := platform.CreateTicket{
			GuildID:         i.GuildID,
			CategoryID:      args[0],
			CreatorID:       actorID(i),
			CreatorUsername: actorUsername(i),
			Intake:          map[string]string{"issue": modalValue(data, 0)},
		}
		ticket, err := d.tickets.Create(ctx, cmd)
		message := ""
		if err == nil {
			message = "Your ticket has been created: <#" + ticket.ChannelID + ">"
		}
		d.finish(i, cmd, err, message)

	case prefixAddUserModal:
		if len(args) < 1 {
			return
		}
		cmd := platform.AddParticipant{
			TicketID: args[0],
			StaffID:  actorID(i),
			UserID:   strings.TrimSpace(modalValue(data, 0)),
		}
		_, err := d.tickets.AddParticipant(ctx, cmd)
		d.finish(i, cmd, err, "User added to the ticket.")

	case prefixFeedbackModal:
		if len(args) < 2 {
			return
		}
		cmd := platform.SubmitFeedback{
			TicketID: args[0],
			Rating:   parseRating(args[1]),
			Comment:  modalValue(data, 0),
		}
		_, err := d.feedback.Resolve(ctx, cmd)
		d.finish(i, cmd, err, "Thank you for your feedback! Your response has been recorded.")
	}
}

// onMessage handles the staff-only !wremove maintenance command.
func (d *Dispatcher) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || !strings.HasPrefix(m.Content, "!wremove") {
		return
	}
	if m.Member == nil || !hasRole(m.Member.Roles, d.cfg.StaffRoleID) {
		d.replyMessage(m, "You are not authorized to use this command.")
		return
	}

	fields := strings.Fields(m.Content)
	if len(fields) < 2 {
		d.replyMessage(m, "Usage: `!wremove <username>`")
		return
	}

	cmd := platform.RemoveFromWhitelist{GuildID: m.GuildID, StaffID: m.Author.ID, IGN: fields[1]}
	app, err := d.apps.Remove(context.Background(), cmd)
	d.metrics.RecordCommand(cmd.Kind(), err != nil)
	if err != nil {
		d.replyMessage(m, userMessage(err))
		return
	}
	d.replyMessage(m, "Successfully removed **"+app.IGN+"** from the whitelist.")
}

func (d *Dispatcher) onMemberJoin(s *discordgo.Session, g *discordgo.GuildMemberAdd) {
	if g.User == nil {
		return
	}
	cmd := platform.MemberJoined{GuildID: g.GuildID, UserID: g.User.ID, Username: g.User.Username}
	d.metrics.RecordCommand(cmd.Kind(), false)
	d.notifier.Welcome(context.Background(), cmd)
}

// finish records the command outcome and replies to the interaction.
func (d *Dispatcher) finish(i *discordgo.InteractionCreate, cmd platform.Command, err error, success string) {
	d.metrics.RecordCommand(cmd.Kind(), err != nil)
	if err != nil {
		d.logger.Info("command rejected",
			zap.String("command", cmd.Kind()),
			zap.String("code", util.ToDomainError(err).Code),
		)
		d.replyEphemeral(i, userMessage(err))
		return
	}
	d.replyEphemeral(i, success)
}

func (d *Dispatcher) requireStaff(i *discordgo.InteractionCreate) bool {
	if isStaff(i, d.cfg.StaffRoleID) {
		return true
	}
	d.replyEphemeral(i, "You don't have permission to do this.")
	return false
}

func (d *Dispatcher) replyEphemeral(i *discordgo.InteractionCreate, content string) {
	err := d.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		d.logger.Warn("interaction reply failed", zap.Error(err))
	}
}

func (d *Dispatcher) replyMessage(m *discordgo.MessageCreate, content string) {
	if _, err := d.session.ChannelMessageSendReply(m.ChannelID, content, m.Reference()); err != nil {
		d.logger.Warn("message reply failed", zap.Error(err))
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/events"
	"github.com/zeakmc/gatekeeper/internal/naming"
	"github.com/zeakmc/gatekeeper/internal/observability"
	"github.com/zeakmc/gatekeeper/internal/permission"
	"github.com/zeakmc/gatekeeper/internal/platform"
	"github.com/zeakmc/gatekeeper/internal/ratelimit"
	"github.com/zeakmc/gatekeeper/internal/repository"
	util "github.com/zeakmc/gatekeeper/pkg/util"
)

// DefaultNamingTemplate applies when a category has no template configured.
const DefaultNamingTemplate = "ticket-{num}"

// TicketService coordinates the support ticket lifecycle:
// Open at creation, optionally Claimed, Closed as the terminal archival state.
type TicketService struct {
	tickets    repository.TicketRepository
	categories repository.CategoryRepository
	guilds     repository.GuildConfigRepository
	stats      repository.UserStatsRepository
	dispatcher events.Dispatcher
	effector   platform.Effector
	feedback   *FeedbackService
	logger     *zap.Logger
	effects    effectRunner
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CategoryRepo repository.CategoryRepository
	GuildRepo    repository.GuildConfigRepository
	StatsRepo    repository.UserStatsRepository
	Dispatcher   events.Dispatcher
	Effector     platform.Effector
	Feedback     *FeedbackService
	Logger       *zap.Logger
	Metrics      *observability.Metrics
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		categories: deps.CategoryRepo,
		guilds:     deps.GuildRepo,
		stats:      deps.StatsRepo,
		dispatcher: deps.Dispatcher,
		effector:   deps.Effector,
		feedback:   deps.Feedback,
		logger:     deps.Logger,
		effects:    newEffectRunner(deps.Logger, deps.Metrics),
		now:        time.Now,
	}
}

// Create opens a ticket: blacklist and cooldown checks first, then the
// atomic counter reserve, channel creation with the category's overwrite set,
// and finally the Open row with participants = {creator}.
func (s *TicketService) Create(ctx context.Context, cmd platform.CreateTicket) (*domain.Ticket, error) {
	guildCfg, err := s.guilds.Ensure(ctx, cmd.GuildID)
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	if guildCfg.IsBlacklisted(cmd.CreatorID) {
		return nil, util.NewBlacklisted()
	}

	category, err := s.categories.GetByID(ctx, cmd.CategoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("ticket category")
	}
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	if !category.Enabled || category.GuildID != cmd.GuildID {
		return nil, util.NewNotFound("ticket category")
	}

	stats, err := s.stats.Get(ctx, cmd.GuildID, cmd.CreatorID)
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	var last *time.Time
	if stats != nil {
		last = stats.LastTicketAt
	}
	if decision := ratelimit.Check(last, s.now(), guildCfg.CooldownWindow()); decision.Limited {
		return nil, util.NewRateLimited(decision.Remaining)
	}

	number, err := s.guilds.NextTicketNumber(ctx, cmd.GuildID)
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}

	ticketID := uuid.NewString()
	template := category.NamingTemplate
	if template == "" {
		template = DefaultNamingTemplate
	}
	channelName := naming.Render(template, naming.Replacements{
		Number:   number,
		Username: cmd.CreatorUsername,
		UserID:   cmd.CreatorID,
		ShortID:  ticketID[:8],
		Category: category.Name,
	})

	// Channel creation is a primary effect: without a backing channel there
	// is no ticket to persist.
	channelID, err := s.effector.CreateTicketChannel(ctx, cmd.GuildID, platform.ChannelSpec{
		Name:       channelName,
		ParentID:   category.ParentChannelID,
		Overwrites: permission.TicketOverwrites(category, cmd.CreatorID, false),
	})
	if err != nil {
		return nil, util.NewEffectFailure("create_ticket_channel", err)
	}

	ticket := &domain.Ticket{
		ID:           ticketID,
		GuildID:      cmd.GuildID,
		CategoryID:   category.ID,
		ChannelID:    channelID,
		CreatorID:    cmd.CreatorID,
		Participants: []string{cmd.CreatorID},
		Status:       domain.TicketStatusOpen,
		Intake:       cmd.Intake,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, util.NewPersistenceFailure(err)
	}

	s.effects.run(ctx, "ticket_intro", func(ctx context.Context) error {
		return s.effector.SendTicketIntro(ctx, channelID, ticket, category.AutoGreeting)
	})
	s.effects.run(ctx, "ticket_created_stamp", func(ctx context.Context) error {
		return s.stats.TouchTicketCreated(ctx, cmd.GuildID, cmd.CreatorID, s.now())
	})
	s.publish(ctx, events.Event{
		Type:    events.EventTicketCreated,
		GuildID: cmd.GuildID,
		RefID:   ticket.ID,
		ActorID: cmd.CreatorID,
		Payload: events.TicketCreatedPayload{
			CategoryID:  category.ID,
			ChannelID:   channelID,
			ChannelName: channelName,
			CreatorID:   cmd.CreatorID,
		},
	})
	return ticket, nil
}

// Claim records the claiming staff member. Claimed is a label on the ticket,
// not a gate on further operations; claiming twice is a hard error.
func (s *TicketService) Claim(ctx context.Context, cmd platform.ClaimTicket) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, util.NewAlreadyClosed(ticket.ID)
	}
	if ticket.ClaimedBy != nil {
		return nil, util.NewAlreadyClaimed(ticket.ID)
	}

	ticket.Status = domain.TicketStatusClaimed
	ticket.ClaimedBy = &cmd.StaffID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, util.NewPersistenceFailure(err)
	}

	s.effects.run(ctx, "claim_notice", func(ctx context.Context) error {
		return s.effector.SendChannelMessage(ctx, ticket.ChannelID,
			fmt.Sprintf("<@%s> has claimed this ticket.", cmd.StaffID))
	})

	s.publish(ctx, events.Event{
		Type:    events.EventTicketClaimed,
		GuildID: ticket.GuildID,
		RefID:   ticket.ID,
		ActorID: cmd.StaffID,
		Payload: events.TicketClaimedPayload{StaffID: cmd.StaffID},
	})
	return ticket, nil
}

// AddParticipant unions the user into the participant set and grants matching
// channel access. Adding an existing participant is a no-op.
func (s *TicketService) AddParticipant(ctx context.Context, cmd platform.AddParticipant) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, util.NewAlreadyClosed(ticket.ID)
	}

	already := ticket.HasParticipant(cmd.UserID)
	if !already {
		if err := s.tickets.AddParticipant(ctx, ticket.ID, cmd.UserID); err != nil {
			return nil, util.NewPersistenceFailure(err)
		}
		ticket.Participants = append(ticket.Participants, cmd.UserID)
	}

	s.effects.run(ctx, "participant_overwrite", func(ctx context.Context) error {
		return s.effector.EditParticipantOverwrite(ctx, ticket.ChannelID, permission.ParticipantOverwrite(cmd.UserID))
	})

	if !already {
		s.publish(ctx, events.Event{
			Type:    events.EventParticipantAdded,
			GuildID: ticket.GuildID,
			RefID:   ticket.ID,
			ActorID: cmd.StaffID,
			Payload: events.ParticipantAddedPayload{UserID: cmd.UserID},
		})
	}
	return ticket, nil
}

// Close archives the ticket. Closing an already closed ticket is a hard
// error; side effects are not re-run.
func (s *TicketService) Close(ctx context.Context, cmd platform.CloseTicket) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return nil, util.NewAlreadyClosed(ticket.ID)
	}

	closedAt := s.now()
	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedBy = &cmd.StaffID
	ticket.CloseReason = cmd.Reason
	ticket.ClosedAt = &closedAt
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, util.NewPersistenceFailure(err)
	}

	guildCfg, err := s.guilds.Get(ctx, ticket.GuildID)
	if err != nil {
		s.logger.Warn("guild config unavailable after close", zap.Error(err))
		guildCfg = nil
	}

	category, catErr := s.categories.GetByID(ctx, ticket.CategoryID)

	s.effects.run(ctx, "close_lock_channel", func(ctx context.Context) error {
		if catErr != nil {
			return catErr
		}
		return s.effector.ApplyOverwrites(ctx, ticket.GuildID, ticket.ChannelID,
			permission.TicketOverwrites(category, ticket.CreatorID, true))
	})
	s.effects.run(ctx, "close_notice", func(ctx context.Context) error {
		return s.effector.SendChannelMessage(ctx, ticket.ChannelID,
			fmt.Sprintf("Ticket closed by <@%s>.", cmd.StaffID))
	})
	if s.feedback != nil && guildCfg != nil && guildCfg.FeedbackEnabled {
		categoryName := ticket.CategoryID
		if catErr == nil {
			categoryName = category.Name
		}
		s.effects.run(ctx, "feedback_session_open", func(ctx context.Context) error {
			return s.feedback.Open(ctx, ticket, categoryName)
		})
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTicketClosed,
		GuildID: ticket.GuildID,
		RefID:   ticket.ID,
		ActorID: cmd.StaffID,
		Payload: events.TicketClosedPayload{
			CreatorID: ticket.CreatorID,
			ChannelID: ticket.ChannelID,
			Reason:    cmd.Reason,
		},
	})
	return ticket, nil
}

// GetByChannel resolves a ticket from its backing channel, used by the
// boundary when a control is pressed inside a ticket channel.
func (s *TicketService) GetByChannel(ctx context.Context, channelID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByChannel(ctx, channelID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("ticket")
	}
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	return ticket, nil
}

func (s *TicketService) getTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("ticket")
	}
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

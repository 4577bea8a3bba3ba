package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zeakmc/gatekeeper/internal/correlate"
	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/events"
	"github.com/zeakmc/gatekeeper/internal/observability"
	"github.com/zeakmc/gatekeeper/internal/platform"
	"github.com/zeakmc/gatekeeper/internal/repository"
	util "github.com/zeakmc/gatekeeper/pkg/util"
)

// FeedbackService correlates post-close feedback prompts with their single
// expected response and persists accepted ratings.
type FeedbackService struct {
	sessions   correlate.Store
	feedback   repository.FeedbackRepository
	guilds     repository.GuildConfigRepository
	dispatcher events.Dispatcher
	effector   platform.Effector
	logger     *zap.Logger
	effects    effectRunner
	now        func() time.Time
}

// FeedbackDependencies bundles collaborators for the feedback service.
type FeedbackDependencies struct {
	Sessions     correlate.Store
	FeedbackRepo repository.FeedbackRepository
	GuildRepo    repository.GuildConfigRepository
	Dispatcher   events.Dispatcher
	Effector     platform.Effector
	Logger       *zap.Logger
	Metrics      *observability.Metrics
}

// NewFeedbackService constructs the service.
func NewFeedbackService(deps FeedbackDependencies) *FeedbackService {
	return &FeedbackService{
		sessions:   deps.Sessions,
		feedback:   deps.FeedbackRepo,
		guilds:     deps.GuildRepo,
		dispatcher: deps.Dispatcher,
		effector:   deps.Effector,
		logger:     deps.Logger,
		effects:    newEffectRunner(deps.Logger, deps.Metrics),
		now:        time.Now,
	}
}

// Open starts a feedback session for a closed ticket and prompts the creator.
// An existing session for the same ticket id is replaced: last prompt wins.
func (s *FeedbackService) Open(ctx context.Context, ticket *domain.Ticket, categoryName string) error {
	staff := ticket.ClosedBy
	if staff == nil {
		staff = ticket.ClaimedBy
	}
	session := correlate.Session{
		TicketID:  ticket.ID,
		UserID:    ticket.CreatorID,
		GuildID:   ticket.GuildID,
		Category:  categoryName,
		StaffID:   staff,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return err
	}

	s.effects.run(ctx, "feedback_prompt_dm", func(ctx context.Context) error {
		return s.effector.SendFeedbackPrompt(ctx, ticket.CreatorID, ticket.ID)
	})
	return nil
}

// Resolve consumes the session for the ticket id and persists the rating. It
// fails with NOT_FOUND when no session exists and with EXPIRED when the
// session outlived its window, and never accepts a second response for the
// same ticket id.
func (s *FeedbackService) Resolve(ctx context.Context, cmd platform.SubmitFeedback) (*domain.Feedback, error) {
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return nil, util.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": cmd.Rating})
	}

	session, err := s.sessions.Take(ctx, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	record := &domain.Feedback{
		ID:       uuid.NewString(),
		TicketID: session.TicketID,
		GuildID:  session.GuildID,
		UserID:   session.UserID,
		Rating:   cmd.Rating,
		Comment:  strings.TrimSpace(cmd.Comment),
		StaffID:  session.StaffID,
		Category: session.Category,
	}
	if err := s.feedback.Create(ctx, record); err != nil {
		// The session was already consumed; put it back so the user can
		// retry after a transient failure.
		if putErr := s.sessions.Put(ctx, *session); putErr != nil {
			s.logger.Warn("failed to restore feedback session",
				zap.String("ticket_id", session.TicketID),
				zap.Error(putErr))
		}
		return nil, util.NewPersistenceFailure(err)
	}

	s.effects.run(ctx, "feedback_channel_post", func(ctx context.Context) error {
		return s.postToFeedbackChannel(ctx, record)
	})

	s.publish(ctx, events.Event{
		Type:    events.EventFeedbackReceived,
		GuildID: record.GuildID,
		RefID:   record.TicketID,
		ActorID: record.UserID,
		Payload: events.FeedbackReceivedPayload{
			Rating:  record.Rating,
			Comment: record.Comment,
			UserID:  record.UserID,
		},
	})
	return record, nil
}

// Recent returns the latest feedback records for a guild.
func (s *FeedbackService) Recent(ctx context.Context, guildID string, limit int) ([]domain.Feedback, error) {
	records, err := s.feedback.ListRecent(ctx, guildID, limit)
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	return records, nil
}

// Stats aggregates ratings, optionally filtered by staff member or category.
func (s *FeedbackService) Stats(ctx context.Context, guildID string, staffID, category *string) (*repository.FeedbackStats, error) {
	stats, err := s.feedback.Stats(ctx, guildID, repository.FeedbackFilter{StaffID: staffID, Category: category})
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	return stats, nil
}

func (s *FeedbackService) postToFeedbackChannel(ctx context.Context, record *domain.Feedback) error {
	guildCfg, err := s.guilds.Get(ctx, record.GuildID)
	if err != nil {
		return err
	}
	if guildCfg.FeedbackChannelID == "" {
		return nil
	}

	stars := strings.Repeat("⭐", record.Rating)
	msg := fmt.Sprintf("New feedback for ticket #%s: %s (%d/5) from <@%s>", record.TicketID[:8], stars, record.Rating, record.UserID)
	if record.StaffID != nil {
		msg += fmt.Sprintf(", staff <@%s>", *record.StaffID)
	}
	if record.Comment != "" {
		msg += "\n> " + record.Comment
	}
	return s.effector.SendChannelMessage(ctx, guildCfg.FeedbackChannelID, msg)
}

func (s *FeedbackService) publish(ctx context.Context, event events.Event) {
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

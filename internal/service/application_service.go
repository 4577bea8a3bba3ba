package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/zeakmc/gatekeeper/internal/config"
	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/events"
	"github.com/zeakmc/gatekeeper/internal/observability"
	"github.com/zeakmc/gatekeeper/internal/platform"
	"github.com/zeakmc/gatekeeper/internal/repository"
	util "github.com/zeakmc/gatekeeper/pkg/util"
)

// ApplicationService governs the whitelist application lifecycle:
// Pending at submission, Accepted or Rejected on a staff decision.
type ApplicationService struct {
	apps       repository.ApplicationRepository
	dispatcher events.Dispatcher
	effector   platform.Effector
	cfg        config.DiscordConfig
	logger     *zap.Logger
	effects    effectRunner
	now        func() time.Time
}

// ApplicationDependencies bundles collaborators for the application service.
type ApplicationDependencies struct {
	AppRepo    repository.ApplicationRepository
	Dispatcher events.Dispatcher
	Effector   platform.Effector
	Discord    config.DiscordConfig
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewApplicationService constructs the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	return &ApplicationService{
		apps:       deps.AppRepo,
		dispatcher: deps.Dispatcher,
		effector:   deps.Effector,
		cfg:        deps.Discord,
		logger:     deps.Logger,
		effects:    newEffectRunner(deps.Logger, deps.Metrics),
		now:        time.Now,
	}
}

// Submit creates a Pending application. It fails with DUPLICATE_ACTIVE when a
// non-terminal application already exists for the requester or the in-game
// name.
func (s *ApplicationService) Submit(ctx context.Context, cmd platform.SubmitApplication) (*domain.Application, error) {
	ign := strings.TrimSpace(cmd.IGN)
	if ign == "" {
		return nil, util.NewValidationError("in-game name is required", nil)
	}

	existing, err := s.apps.FindActive(ctx, cmd.RequesterID, ign)
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	if existing != nil {
		return nil, util.NewDuplicateActive("you (or this IGN) already have a pending or approved application")
	}

	app := &domain.Application{
		ID:           uuid.NewString(),
		RequesterID:  cmd.RequesterID,
		RequesterTag: cmd.RequesterTag,
		IGN:          ign,
		Platform:     cmd.Platform,
		Status:       domain.ApplicationStatusPending,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, util.NewPersistenceFailure(err)
	}

	s.effects.run(ctx, "application_review_prompt", func(ctx context.Context) error {
		return s.effector.SendApplicationReview(ctx, s.cfg.FormsChannelID, app)
	})

	s.publish(ctx, events.Event{
		Type:    events.EventApplicationSubmitted,
		GuildID: s.cfg.GuildID,
		RefID:   app.ID,
		ActorID: cmd.RequesterID,
		Payload: events.ApplicationSubmittedPayload{
			RequesterID: app.RequesterID,
			IGN:         app.IGN,
			Platform:    app.Platform,
		},
	})
	return app, nil
}

// Decide records a staff decision. Re-deciding an already terminal
// application is a hard error and re-runs no side effects.
func (s *ApplicationService) Decide(ctx context.Context, cmd platform.DecideApplication) (*domain.Application, error) {
	app, err := s.apps.GetByID(ctx, cmd.ApplicationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("application")
	}
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	if app.Status.Decided() {
		return nil, util.NewAlreadyDecided(app.ID)
	}

	status := domain.ApplicationStatusRejected
	if cmd.Outcome == platform.OutcomeAccept {
		status = domain.ApplicationStatusAccepted
	}
	decidedAt := s.now()
	if err := s.apps.SetDecision(ctx, app.ID, status, cmd.StaffID, decidedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("application")
		}
		return nil, util.NewPersistenceFailure(err)
	}
	app.Status = status
	app.DecidedBy = &cmd.StaffID
	app.DecidedAt = &decidedAt

	// The decision row is the durable source of truth; everything below is
	// best-effort.
	if status == domain.ApplicationStatusAccepted {
		s.effects.run(ctx, "whitelist_console_command", func(ctx context.Context) error {
			command := strings.ReplaceAll(s.cfg.WhitelistAddCommand, "{ign}", app.IGN)
			return s.effector.SendChannelMessage(ctx, s.cfg.ConsoleChannelID, s.cfg.ConsoleCommandPrefix+command)
		})
		s.effects.run(ctx, "whitelist_role_grant", func(ctx context.Context) error {
			if s.cfg.WhitelistedRoleID == "" {
				return nil
			}
			return s.effector.GrantRole(ctx, s.cfg.GuildID, app.RequesterID, s.cfg.WhitelistedRoleID)
		})
		s.effects.run(ctx, "acceptance_announcement", func(ctx context.Context) error {
			msg := fmt.Sprintf("<@%s> your in-game name **%s** has been whitelisted. Welcome aboard!", app.RequesterID, app.IGN)
			return s.effector.SendChannelMessage(ctx, s.cfg.ResultsChannelID, msg)
		})
	} else {
		s.effects.run(ctx, "rejection_announcement", func(ctx context.Context) error {
			msg := fmt.Sprintf("<@%s> your whitelist application for **%s** was rejected by the staff team. You can reapply later.", app.RequesterID, app.IGN)
			return s.effector.SendChannelMessage(ctx, s.cfg.ResultsChannelID, msg)
		})
	}

	s.publish(ctx, events.Event{
		Type:    events.EventApplicationDecided,
		GuildID: s.cfg.GuildID,
		RefID:   app.ID,
		ActorID: cmd.StaffID,
		Payload: events.ApplicationDecidedPayload{
			RequesterID: app.RequesterID,
			IGN:         app.IGN,
			Status:      status,
		},
	})
	return app, nil
}

// Remove deletes the whitelist record for an in-game name and signals the
// external removal. The deletion itself is audited through the decided event.
func (s *ApplicationService) Remove(ctx context.Context, cmd platform.RemoveFromWhitelist) (*domain.Application, error) {
	ign := strings.TrimSpace(cmd.IGN)
	if ign == "" {
		return nil, util.NewValidationError("in-game name is required", nil)
	}

	app, err := s.apps.GetByIGN(ctx, ign)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, util.NewNotFound("whitelist record")
	}
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}

	if err := s.apps.DeleteByIGN(ctx, ign); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("whitelist record")
		}
		return nil, util.NewPersistenceFailure(err)
	}

	s.effects.run(ctx, "whitelist_console_remove", func(ctx context.Context) error {
		command := strings.ReplaceAll(s.cfg.WhitelistRemoveCmd, "{ign}", app.IGN)
		return s.effector.SendChannelMessage(ctx, s.cfg.ConsoleChannelID, s.cfg.ConsoleCommandPrefix+command)
	})
	s.effects.run(ctx, "whitelist_role_revoke", func(ctx context.Context) error {
		if s.cfg.WhitelistedRoleID == "" {
			return nil
		}
		return s.effector.RevokeRole(ctx, s.cfg.GuildID, app.RequesterID, s.cfg.WhitelistedRoleID)
	})

	s.publish(ctx, events.Event{
		Type:    events.EventWhitelistRemoved,
		GuildID: s.cfg.GuildID,
		RefID:   app.ID,
		ActorID: cmd.StaffID,
		Payload: events.WhitelistRemovedPayload{
			RequesterID: app.RequesterID,
			IGN:         app.IGN,
		},
	})
	return app, nil
}

func (s *ApplicationService) publish(ctx context.Context, event events.Event) {
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

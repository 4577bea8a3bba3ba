package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/events"
	"github.com/zeakmc/gatekeeper/internal/repository"
)

// AuditRecorder appends a StaffAction row for every privileged decision
// flowing through the dispatcher. Audit writes are best-effort: a failed
// append is logged, never propagated back into the state machines.
type AuditRecorder struct {
	audit      repository.AuditRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditRecorder creates the recorder.
func NewAuditRecorder(audit repository.AuditRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuditRecorder {
	return &AuditRecorder{
		audit:      audit,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to the staff-action events.
func (a *AuditRecorder) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventApplicationDecided, a.handleApplicationDecided)
	a.dispatcher.Subscribe(events.EventWhitelistRemoved, a.handleWhitelistRemoved)
	a.dispatcher.Subscribe(events.EventTicketClaimed, a.handleTicketClaimed)
	a.dispatcher.Subscribe(events.EventTicketClosed, a.handleTicketClosed)
	a.dispatcher.Subscribe(events.EventParticipantAdded, a.handleParticipantAdded)
}

func (a *AuditRecorder) handleApplicationDecided(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationDecidedPayload)
	if !ok {
		return nil
	}
	action := domain.ActionRejectApplication
	if payload.Status == domain.ApplicationStatusAccepted {
		action = domain.ActionAcceptApplication
	}
	return a.record(ctx, &domain.StaffAction{
		GuildID:  event.GuildID,
		RefID:    event.RefID,
		ActorID:  event.ActorID,
		Action:   action,
		TargetID: &payload.RequesterID,
	})
}

func (a *AuditRecorder) handleWhitelistRemoved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.WhitelistRemovedPayload)
	if !ok {
		return nil
	}
	reason := payload.IGN
	return a.record(ctx, &domain.StaffAction{
		GuildID:  event.GuildID,
		RefID:    event.RefID,
		ActorID:  event.ActorID,
		Action:   domain.ActionRemoveWhitelist,
		Reason:   &reason,
		TargetID: &payload.RequesterID,
	})
}

func (a *AuditRecorder) handleTicketClaimed(ctx context.Context, event events.Event) error {
	return a.record(ctx, &domain.StaffAction{
		GuildID: event.GuildID,
		RefID:   event.RefID,
		ActorID: event.ActorID,
		Action:  domain.ActionClaimTicket,
	})
}

func (a *AuditRecorder) handleTicketClosed(ctx context.Context, event events.Event) error {
	entry := &domain.StaffAction{
		GuildID: event.GuildID,
		RefID:   event.RefID,
		ActorID: event.ActorID,
		Action:  domain.ActionCloseTicket,
	}
	if payload, ok := event.Payload.(events.TicketClosedPayload); ok {
		entry.Reason = payload.Reason
		entry.TargetID = &payload.CreatorID
	}
	return a.record(ctx, entry)
}

func (a *AuditRecorder) handleParticipantAdded(ctx context.Context, event events.Event) error {
	entry := &domain.StaffAction{
		GuildID: event.GuildID,
		RefID:   event.RefID,
		ActorID: event.ActorID,
		Action:  domain.ActionAddParticipant,
	}
	if payload, ok := event.Payload.(events.ParticipantAddedPayload); ok {
		entry.TargetID = &payload.UserID
	}
	return a.record(ctx, entry)
}

func (a *AuditRecorder) record(ctx context.Context, action *domain.StaffAction) error {
	action.ID = uuid.NewString()
	if err := a.audit.Create(ctx, action); err != nil {
		a.logger.Warn("audit append failed",
			zap.String("action", string(action.Action)),
			zap.String("ref_id", action.RefID),
			zap.Error(err),
		)
	}
	return nil
}

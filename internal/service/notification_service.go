package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zeakmc/gatekeeper/internal/config"
	"github.com/zeakmc/gatekeeper/internal/events"
	"github.com/zeakmc/gatekeeper/internal/platform"
	"github.com/zeakmc/gatekeeper/internal/repository"
)

// NotificationService sends direct-message notifications for lifecycle events,
// gated by the guild's DM toggles, plus the welcome message for new members.
// All sends are best-effort.
type NotificationService struct {
	dispatcher events.Dispatcher
	guilds     repository.GuildConfigRepository
	effector   platform.Effector
	cfg        config.DiscordConfig
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, guilds repository.GuildConfigRepository, effector platform.Effector, cfg config.DiscordConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		guilds:     guilds,
		effector:   effector,
		cfg:        cfg,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketClosed, n.handleTicketClosed)
}

// Welcome greets a new member in the configured welcome channel. No core
// state changes.
func (n *NotificationService) Welcome(ctx context.Context, cmd platform.MemberJoined) {
	if n.cfg.WelcomeChannelID == "" {
		return
	}
	msg := fmt.Sprintf("Welcome <@%s>! Apply for the whitelist and open a ticket if you need help.", cmd.UserID)
	if err := n.effector.SendChannelMessage(ctx, n.cfg.WelcomeChannelID, msg); err != nil {
		n.logger.Warn("welcome message failed", zap.String("user_id", cmd.UserID), zap.Error(err))
	}
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	guildCfg, err := n.guilds.Get(ctx, event.GuildID)
	if err != nil || !guildCfg.DMOnCreate {
		return nil
	}
	msg := fmt.Sprintf("Your ticket #%s has been created. You can view it here: <#%s>", shortID(event.RefID), payload.ChannelID)
	if err := n.effector.SendDirectMessage(ctx, payload.CreatorID, msg); err != nil {
		n.logger.Warn("ticket created DM failed", zap.String("user_id", payload.CreatorID), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleTicketClosed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketClosedPayload)
	if !ok {
		return nil
	}
	guildCfg, err := n.guilds.Get(ctx, event.GuildID)
	if err != nil || !guildCfg.DMOnClose {
		return nil
	}
	msg := fmt.Sprintf("Your ticket #%s has been closed.", shortID(event.RefID))
	if err := n.effector.SendDirectMessage(ctx, payload.CreatorID, msg); err != nil {
		n.logger.Warn("ticket closed DM failed", zap.String("user_id", payload.CreatorID), zap.Error(err))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/repository"
	util "github.com/zeakmc/gatekeeper/pkg/util"
)

// GuildService manages per-guild settings: feedback collection, blacklist,
// cooldown window and DM notification toggles.
type GuildService struct {
	guilds repository.GuildConfigRepository
}

// NewGuildService constructs the service.
func NewGuildService(guilds repository.GuildConfigRepository) *GuildService {
	return &GuildService{guilds: guilds}
}

// Ensure returns the guild settings, creating defaults when missing.
func (s *GuildService) Ensure(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	cfg, err := s.guilds.Ensure(ctx, guildID)
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	return cfg, nil
}

// SetFeedbackEnabled toggles feedback collection for the guild.
func (s *GuildService) SetFeedbackEnabled(ctx context.Context, guildID string, enabled bool) (*domain.GuildConfig, error) {
	return s.update(ctx, guildID, func(cfg *domain.GuildConfig) {
		cfg.FeedbackEnabled = enabled
	})
}

// SetFeedbackChannel sets the channel feedback is posted to. An empty channel
// id disables posting while keeping collection itself on.
func (s *GuildService) SetFeedbackChannel(ctx context.Context, guildID, channelID string) (*domain.GuildConfig, error) {
	return s.update(ctx, guildID, func(cfg *domain.GuildConfig) {
		cfg.FeedbackChannelID = channelID
	})
}

// SetCooldown sets the per-user ticket creation cooldown window.
func (s *GuildService) SetCooldown(ctx context.Context, guildID string, window time.Duration) (*domain.GuildConfig, error) {
	if window < 0 {
		return nil, util.NewValidationError("cooldown cannot be negative", nil)
	}
	return s.update(ctx, guildID, func(cfg *domain.GuildConfig) {
		cfg.CooldownSeconds = int(window / time.Second)
	})
}

// SetDMNotifications toggles the direct-message notifications.
func (s *GuildService) SetDMNotifications(ctx context.Context, guildID string, onCreate, onClose bool) (*domain.GuildConfig, error) {
	return s.update(ctx, guildID, func(cfg *domain.GuildConfig) {
		cfg.DMOnCreate = onCreate
		cfg.DMOnClose = onClose
	})
}

// BlacklistAdd bars a user from creating tickets in the guild.
func (s *GuildService) BlacklistAdd(ctx context.Context, guildID, userID string) error {
	if _, err := s.Ensure(ctx, guildID); err != nil {
		return err
	}
	if err := s.guilds.BlacklistAdd(ctx, guildID, userID); err != nil {
		return util.NewPersistenceFailure(err)
	}
	return nil
}

// BlacklistRemove lifts the bar for a user.
func (s *GuildService) BlacklistRemove(ctx context.Context, guildID, userID string) error {
	if err := s.guilds.BlacklistRemove(ctx, guildID, userID); err != nil {
		return util.NewPersistenceFailure(err)
	}
	return nil
}

func (s *GuildService) update(ctx context.Context, guildID string, mutate func(*domain.GuildConfig)) (*domain.GuildConfig, error) {
	cfg, err := s.guilds.Ensure(ctx, guildID)
	if err != nil {
		return nil, util.NewPersistenceFailure(err)
	}
	mutate(cfg)
	if err := s.guilds.UpdateSettings(ctx, cfg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("guild settings")
		}
		return nil, util.NewPersistenceFailure(err)
	}
	return cfg, nil
}

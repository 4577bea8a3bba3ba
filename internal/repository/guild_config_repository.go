package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeakmc/gatekeeper/internal/domain"
)

// GuildConfigRepository encapsulates per-guild settings persistence.
type GuildConfigRepository interface {
	// Ensure returns the guild config, creating a default row when missing.
	Ensure(ctx context.Context, guildID string) (*domain.GuildConfig, error)
	Get(ctx context.Context, guildID string) (*domain.GuildConfig, error)
	UpdateSettings(ctx context.Context, cfg *domain.GuildConfig) error
	// NextTicketNumber atomically increments the per-guild counter and
	// returns the new value. Two concurrent creations never observe the same
	// ordinal.
	NextTicketNumber(ctx context.Context, guildID string) (int, error)
	BlacklistAdd(ctx context.Context, guildID, userID string) error
	BlacklistRemove(ctx context.Context, guildID, userID string) error
}

type guildConfigRepository struct {
	pool *pgxpool.Pool
}

// NewGuildConfigRepository instantiates repository.
func NewGuildConfigRepository(pool *pgxpool.Pool) GuildConfigRepository {
	return &guildConfigRepository{pool: pool}
}

const guildColumns = `guild_id, ticket_counter, cooldown_seconds, blacklist,
               feedback_enabled, feedback_channel_id, dm_on_create, dm_on_close, updated_at`

func (r *guildConfigRepository) Ensure(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	const query = `
        INSERT INTO guild_configs (guild_id) VALUES ($1)
        ON CONFLICT (guild_id) DO UPDATE SET guild_id=EXCLUDED.guild_id
        RETURNING ` + guildColumns
	return r.fetchSingle(ctx, query, guildID)
}

func (r *guildConfigRepository) Get(ctx context.Context, guildID string) (*domain.GuildConfig, error) {
	const query = `SELECT ` + guildColumns + ` FROM guild_configs WHERE guild_id=$1`
	return r.fetchSingle(ctx, query, guildID)
}

func (r *guildConfigRepository) UpdateSettings(ctx context.Context, cfg *domain.GuildConfig) error {
	const query = `
        UPDATE guild_configs SET cooldown_seconds=$1, feedback_enabled=$2, feedback_channel_id=$3,
            dm_on_create=$4, dm_on_close=$5, updated_at=NOW()
        WHERE guild_id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		cfg.CooldownSeconds,
		cfg.FeedbackEnabled,
		cfg.FeedbackChannelID,
		cfg.DMOnCreate,
		cfg.DMOnClose,
		cfg.GuildID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *guildConfigRepository) NextTicketNumber(ctx context.Context, guildID string) (int, error) {
	const query = `
        UPDATE guild_configs SET ticket_counter = ticket_counter + 1, updated_at=NOW()
        WHERE guild_id=$1
        RETURNING ticket_counter`
	var counter int
	if err := r.pool.QueryRow(ctx, query, guildID).Scan(&counter); err != nil {
		return 0, err
	}
	return counter, nil
}

func (r *guildConfigRepository) BlacklistAdd(ctx context.Context, guildID, userID string) error {
	const query = `
        UPDATE guild_configs SET blacklist = array_append(blacklist, $2), updated_at=NOW()
        WHERE guild_id=$1 AND NOT ($2 = ANY(blacklist))`
	_, err := r.pool.Exec(ctx, query, guildID, userID)
	return err
}

func (r *guildConfigRepository) BlacklistRemove(ctx context.Context, guildID, userID string) error {
	const query = `
        UPDATE guild_configs SET blacklist = array_remove(blacklist, $2), updated_at=NOW()
        WHERE guild_id=$1`
	_, err := r.pool.Exec(ctx, query, guildID, userID)
	return err
}

func (r *guildConfigRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.GuildConfig, error) {
	var cfg domain.GuildConfig
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&cfg.GuildID,
		&cfg.TicketCounter,
		&cfg.CooldownSeconds,
		&cfg.Blacklist,
		&cfg.FeedbackEnabled,
		&cfg.FeedbackChannelID,
		&cfg.DMOnCreate,
		&cfg.DMOnClose,
		&cfg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cfg, nil
}

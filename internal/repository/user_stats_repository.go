package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeakmc/gatekeeper/internal/domain"
)

// UserStatsRepository tracks per-user ticket activity for rate limiting.
type UserStatsRepository interface {
	// Get returns the stats row, or nil when the user has no history yet.
	Get(ctx context.Context, guildID, userID string) (*domain.UserStats, error)
	// TouchTicketCreated upserts the row, incrementing the counter and
	// stamping the creation time.
	TouchTicketCreated(ctx context.Context, guildID, userID string, at time.Time) error
}

type userStatsRepository struct {
	pool *pgxpool.Pool
}

// NewUserStatsRepository instantiates repository.
func NewUserStatsRepository(pool *pgxpool.Pool) UserStatsRepository {
	return &userStatsRepository{pool: pool}
}

func (r *userStatsRepository) Get(ctx context.Context, guildID, userID string) (*domain.UserStats, error) {
	const query = `
        SELECT guild_id, user_id, tickets_created, last_ticket_at
        FROM user_stats WHERE guild_id=$1 AND user_id=$2`
	var stats domain.UserStats
	err := r.pool.QueryRow(ctx, query, guildID, userID).Scan(
		&stats.GuildID,
		&stats.UserID,
		&stats.TicketsCreated,
		&stats.LastTicketAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *userStatsRepository) TouchTicketCreated(ctx context.Context, guildID, userID string, at time.Time) error {
	const query = `
        INSERT INTO user_stats (guild_id, user_id, tickets_created, last_ticket_at)
        VALUES ($1,$2,1,$3)
        ON CONFLICT (guild_id, user_id) DO UPDATE
            SET tickets_created = user_stats.tickets_created + 1, last_ticket_at = EXCLUDED.last_ticket_at`
	_, err := r.pool.Exec(ctx, query, guildID, userID, at)
	return err
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeakmc/gatekeeper/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByChannel(ctx context.Context, channelID string) (*domain.Ticket, error)
	// AddParticipant appends the user to the participant set if not already
	// present. The guard lives in SQL so concurrent adds stay idempotent.
	AddParticipant(ctx context.Context, id, userID string) error
	ListOpenByGuild(ctx context.Context, guildID string) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, guild_id, category_id, channel_id, creator_id, participants,
               status, claimed_by, closed_by, close_reason, intake, created_at, closed_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, guild_id, category_id, channel_id, creator_id, participants, status, intake)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.GuildID,
		ticket.CategoryID,
		ticket.ChannelID,
		ticket.CreatorID,
		ticket.Participants,
		ticket.Status,
		ticket.Intake,
	).Scan(&ticket.CreatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, claimed_by=$2, closed_by=$3, close_reason=$4, closed_at=$5
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Status,
		ticket.ClaimedBy,
		ticket.ClosedBy,
		ticket.CloseReason,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByChannel(ctx context.Context, channelID string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE channel_id=$1`
	return r.fetchSingle(ctx, query, channelID)
}

func (r *ticketRepository) AddParticipant(ctx context.Context, id, userID string) error {
	const query = `
        UPDATE tickets SET participants = array_append(participants, $2)
        WHERE id=$1 AND NOT ($2 = ANY(participants))`
	_, err := r.pool.Exec(ctx, query, id, userID)
	return err
}

func (r *ticketRepository) ListOpenByGuild(ctx context.Context, guildID string) ([]domain.Ticket, error) {
	const query = `
        SELECT ` + ticketColumns + `
        FROM tickets WHERE guild_id=$1 AND status <> 'Closed'
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.GuildID,
		&ticket.CategoryID,
		&ticket.ChannelID,
		&ticket.CreatorID,
		&ticket.Participants,
		&ticket.Status,
		&ticket.ClaimedBy,
		&ticket.ClosedBy,
		&ticket.CloseReason,
		&ticket.Intake,
		&ticket.CreatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.GuildID,
			&ticket.CategoryID,
			&ticket.ChannelID,
			&ticket.CreatorID,
			&ticket.Participants,
			&ticket.Status,
			&ticket.ClaimedBy,
			&ticket.ClosedBy,
			&ticket.CloseReason,
			&ticket.Intake,
			&ticket.CreatedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

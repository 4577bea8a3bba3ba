package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeakmc/gatekeeper/internal/domain"
)

// AuditRepository is the append-only staff action log. Records are never
// updated or deleted.
type AuditRepository interface {
	Create(ctx context.Context, action *domain.StaffAction) error
	ListByRef(ctx context.Context, guildID, refID string) ([]domain.StaffAction, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository instantiates repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, action *domain.StaffAction) error {
	const query = `
        INSERT INTO staff_actions (id, guild_id, ref_id, actor_id, action, reason, target_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		action.ID,
		action.GuildID,
		action.RefID,
		action.ActorID,
		action.Action,
		action.Reason,
		action.TargetID,
	).Scan(&action.CreatedAt)
}

func (r *auditRepository) ListByRef(ctx context.Context, guildID, refID string) ([]domain.StaffAction, error) {
	const query = `
        SELECT id, guild_id, ref_id, actor_id, action, reason, target_id, created_at
        FROM staff_actions WHERE guild_id=$1 AND ref_id=$2
        ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, guildID, refID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffAction
	for rows.Next() {
		var action domain.StaffAction
		if err := rows.Scan(
			&action.ID,
			&action.GuildID,
			&action.RefID,
			&action.ActorID,
			&action.Action,
			&action.Reason,
			&action.TargetID,
			&action.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, action)
	}
	return result, rows.Err()
}

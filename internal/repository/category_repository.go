package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeakmc/gatekeeper/internal/domain"
)

// CategoryRepository encapsulates ticket category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.CategoryConfig) error
	Update(ctx context.Context, category *domain.CategoryConfig) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.CategoryConfig, error)
	ListByGuild(ctx context.Context, guildID string) ([]domain.CategoryConfig, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository instantiates repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

const categoryColumns = `id, guild_id, name, description, parent_channel_id, staff_roles,
               enabled, button_color, button_emoji, naming_template, auto_greeting, created_at, updated_at`

func (r *categoryRepository) Create(ctx context.Context, category *domain.CategoryConfig) error {
	const query = `
        INSERT INTO ticket_categories (id, guild_id, name, description, parent_channel_id, staff_roles,
            enabled, button_color, button_emoji, naming_template, auto_greeting)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.ID,
		category.GuildID,
		category.Name,
		category.Description,
		category.ParentChannelID,
		category.StaffRoles,
		category.Enabled,
		category.ButtonColor,
		category.ButtonEmoji,
		category.NamingTemplate,
		category.AutoGreeting,
	).Scan(&category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.CategoryConfig) error {
	const query = `
        UPDATE ticket_categories SET name=$1, description=$2, parent_channel_id=$3, staff_roles=$4,
            enabled=$5, button_color=$6, button_emoji=$7, naming_template=$8, auto_greeting=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		category.Name,
		category.Description,
		category.ParentChannelID,
		category.StaffRoles,
		category.Enabled,
		category.ButtonColor,
		category.ButtonEmoji,
		category.NamingTemplate,
		category.AutoGreeting,
		category.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM ticket_categories WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.CategoryConfig, error) {
	const query = `SELECT ` + categoryColumns + ` FROM ticket_categories WHERE id=$1`
	var category domain.CategoryConfig
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.GuildID,
		&category.Name,
		&category.Description,
		&category.ParentChannelID,
		&category.StaffRoles,
		&category.Enabled,
		&category.ButtonColor,
		&category.ButtonEmoji,
		&category.NamingTemplate,
		&category.AutoGreeting,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListByGuild(ctx context.Context, guildID string) ([]domain.CategoryConfig, error) {
	const query = `SELECT ` + categoryColumns + ` FROM ticket_categories WHERE guild_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CategoryConfig
	for rows.Next() {
		var category domain.CategoryConfig
		if err := rows.Scan(
			&category.ID,
			&category.GuildID,
			&category.Name,
			&category.Description,
			&category.ParentChannelID,
			&category.StaffRoles,
			&category.Enabled,
			&category.ButtonColor,
			&category.ButtonEmoji,
			&category.NamingTemplate,
			&category.AutoGreeting,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

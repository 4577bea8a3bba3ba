package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeakmc/gatekeeper/internal/domain"
)

// FeedbackStats aggregates ratings for reporting.
type FeedbackStats struct {
	Count         int64
	AverageRating float64
	Distribution  map[int]int64
}

// FeedbackFilter narrows stats queries.
type FeedbackFilter struct {
	StaffID  *string
	Category *string
}

// FeedbackRepository encapsulates persisted feedback records.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	ListRecent(ctx context.Context, guildID string, limit int) ([]domain.Feedback, error)
	Stats(ctx context.Context, guildID string, filter FeedbackFilter) (*FeedbackStats, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO ticket_feedback (id, ticket_id, guild_id, user_id, rating, comment, staff_id, category)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING submitted_at`
	return r.pool.QueryRow(ctx, query,
		feedback.ID,
		feedback.TicketID,
		feedback.GuildID,
		feedback.UserID,
		feedback.Rating,
		feedback.Comment,
		feedback.StaffID,
		feedback.Category,
	).Scan(&feedback.SubmittedAt)
}

func (r *feedbackRepository) ListRecent(ctx context.Context, guildID string, limit int) ([]domain.Feedback, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT id, ticket_id, guild_id, user_id, rating, comment, staff_id, category, submitted_at
        FROM ticket_feedback WHERE guild_id=$1
        ORDER BY submitted_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(
			&fb.ID,
			&fb.TicketID,
			&fb.GuildID,
			&fb.UserID,
			&fb.Rating,
			&fb.Comment,
			&fb.StaffID,
			&fb.Category,
			&fb.SubmittedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}

func (r *feedbackRepository) Stats(ctx context.Context, guildID string, filter FeedbackFilter) (*FeedbackStats, error) {
	clauses := []string{"guild_id=$1"}
	args := []any{guildID}

	if filter.StaffID != nil {
		args = append(args, *filter.StaffID)
		clauses = append(clauses, fmt.Sprintf("staff_id=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}

	query := fmt.Sprintf(`
        SELECT rating, COUNT(*) FROM ticket_feedback
        WHERE %s GROUP BY rating`, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &FeedbackStats{Distribution: make(map[int]int64)}
	var weighted int64
	for rows.Next() {
		var rating int
		var count int64
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		stats.Distribution[rating] = count
		stats.Count += count
		weighted += int64(rating) * count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if stats.Count > 0 {
		stats.AverageRating = float64(weighted) / float64(stats.Count)
	}
	return stats, nil
}

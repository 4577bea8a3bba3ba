package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zeakmc/gatekeeper/internal/domain"
)

// ApplicationRepository encapsulates whitelist application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	GetByIGN(ctx context.Context, ign string) (*domain.Application, error)
	// FindActive returns the first non-terminal application matching either
	// the requester or the in-game name, or nil when none exists.
	FindActive(ctx context.Context, requesterID, ign string) (*domain.Application, error)
	SetDecision(ctx context.Context, id string, status domain.ApplicationStatus, staffID string, decidedAt time.Time) error
	DeleteByIGN(ctx context.Context, ign string) error
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, requester_id, requester_tag, ign, platform, status, decided_by, created_at, decided_at`

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	const query = `
        INSERT INTO applications (id, requester_id, requester_tag, ign, platform, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		app.ID,
		app.RequesterID,
		app.RequesterTag,
		app.IGN,
		app.Platform,
		app.Status,
	).Scan(&app.CreatedAt)
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *applicationRepository) GetByIGN(ctx context.Context, ign string) (*domain.Application, error) {
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE ign=$1 ORDER BY created_at DESC LIMIT 1`
	return r.fetchSingle(ctx, query, ign)
}

func (r *applicationRepository) FindActive(ctx context.Context, requesterID, ign string) (*domain.Application, error) {
	const query = `
        SELECT ` + applicationColumns + `
        FROM applications
        WHERE (requester_id=$1 OR ign=$2) AND status IN ('Pending','Accepted')
        ORDER BY created_at DESC LIMIT 1`
	app, err := r.fetchSingleArgs(ctx, query, requesterID, ign)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return app, err
}

func (r *applicationRepository) SetDecision(ctx context.Context, id string, status domain.ApplicationStatus, staffID string, decidedAt time.Time) error {
	const query = `UPDATE applications SET status=$1, decided_by=$2, decided_at=$3 WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, status, staffID, decidedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) DeleteByIGN(ctx context.Context, ign string) error {
	const query = `DELETE FROM applications WHERE ign=$1`
	cmd, err := r.pool.Exec(ctx, query, ign)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Application, error) {
	return r.fetchSingleArgs(ctx, query, arg)
}

func (r *applicationRepository) fetchSingleArgs(ctx context.Context, query string, args ...any) (*domain.Application, error) {
	var app domain.Application
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&app.ID,
		&app.RequesterID,
		&app.RequesterTag,
		&app.IGN,
		&app.Platform,
		&app.Status,
		&app.DecidedBy,
		&app.CreatedAt,
		&app.DecidedAt,
	); err != nil {
		return nil, err
	}
	return &app, nil
}

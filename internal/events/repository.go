package events

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerostage/backend/internal/models"
)

const eventColumns = `id, title, starts_at, ends_at, submissions_open_at, submissions_close_at, created_at, updated_at`

// Repository reads events. Events are written by an external admin process only.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAll returns all events ordered by starts_at.
func (r *Repository) ListAll(ctx context.Context) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY starts_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.StartsAt, &e.EndsAt, &e.SubmissionsOpenAt, &e.SubmissionsCloseAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

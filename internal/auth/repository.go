package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerostage/backend/internal/models"
)

// Repository handles guest persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new anonymous guest.
func (r *Repository) Create(ctx context.Context) (*models.Guest, error) {
	const q = `INSERT INTO guests (id) VALUES (gen_random_uuid()) RETURNING id, created_at`
	var g models.Guest
	if err := r.pool.QueryRow(ctx, q).Scan(&g.ID, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

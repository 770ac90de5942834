package likes

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InsertResult reports whether an insert created a new like or hit an existing one.
// The unique index on (event_id, submission_id, ip_hash) is the sole arbiter; there is
// deliberately no separate existence check, which would race under concurrent toggles.
type InsertResult int

const (
	Created InsertResult = iota
	AlreadyExists
)

// Repository handles like persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a likes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert attempts to create a like for the (event, submission, fingerprint) triple.
// ON CONFLICT DO NOTHING turns a duplicate into a zero-row command instead of an error,
// so the caller branches on the result tag rather than on a caught fault.
func (r *Repository) Insert(ctx context.Context, eventID, submissionID uuid.UUID, ipHash string) (InsertResult, error) {
	const q = `INSERT INTO likes (id, event_id, submission_id, ip_hash)
		VALUES (gen_random_uuid(), $1, $2, $3)
		ON CONFLICT (event_id, submission_id, ip_hash) DO NOTHING`
	tag, err := r.pool.Exec(ctx, q, eventID, submissionID, ipHash)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return AlreadyExists, nil
	}
	return Created, nil
}

// Delete removes the like for the exact (event, submission, fingerprint) triple.
func (r *Repository) Delete(ctx context.Context, eventID, submissionID uuid.UUID, ipHash string) error {
	const q = `DELETE FROM likes WHERE event_id = $1 AND submission_id = $2 AND ip_hash = $3`
	_, err := r.pool.Exec(ctx, q, eventID, submissionID, ipHash)
	return err
}

// Count returns the current like total for (event, submission) by counting rows.
// Counts are never maintained as cached counters; counting stays correct under
// concurrent toggles.
func (r *Repository) Count(ctx context.Context, eventID, submissionID uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM likes WHERE event_id = $1 AND submission_id = $2`
	var n int
	err := r.pool.QueryRow(ctx, q, eventID, submissionID).Scan(&n)
	return n, err
}

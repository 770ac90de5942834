package invites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerostage/backend/internal/models"
)

var (
	// ErrInvalidCode means no invite code row exists for (event, code).
	ErrInvalidCode = errors.New("invalid code")
	// ErrCodeUsed means the code is already bound to a different guest.
	ErrCodeUsed = errors.New("code already used")
)

// Repository handles invite code persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an invites repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Redeem binds the code to the guest and creates the placeholder submission in one
// transaction, so a crash cannot leave a used code without a submission. The row lock
// on the code serializes concurrent redemptions of the same code.
//
// Idempotent for the guest that holds the code: used_at is preserved on replays and the
// submission insert is a no-op when the (event, guest) row already exists.
func (r *Repository) Redeem(ctx context.Context, eventID, guestID uuid.UUID, code string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var usedBy *uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT used_by FROM invite_codes WHERE event_id = $1 AND code = $2 FOR UPDATE`,
		eventID, code).Scan(&usedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("lookup code: %w", err)
	}
	if usedBy != nil && *usedBy != guestID {
		return ErrCodeUsed
	}

	_, err = tx.Exec(ctx,
		`UPDATE invite_codes SET used_by = $3, used_at = COALESCE(used_at, NOW())
		 WHERE event_id = $1 AND code = $2`,
		eventID, code, guestID)
	if err != nil {
		return fmt.Errorf("mark code used: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO submissions (id, event_id, user_id, display_name, published)
		 VALUES (gen_random_uuid(), $1, $2, $3, FALSE)
		 ON CONFLICT (event_id, user_id) DO NOTHING`,
		eventID, guestID, models.PlaceholderDisplayName)
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}

	return tx.Commit(ctx)
}

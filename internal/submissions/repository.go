package submissions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerostage/backend/internal/models"
)

const submissionColumns = `id, event_id, user_id, display_name, description, spotify_url, soundcloud_url, instagram_url, video_path, published, created_at, updated_at`

// Repository handles submission persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a submissions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(&s.ID, &s.EventID, &s.UserID, &s.DisplayName, &s.Description, &s.SpotifyURL,
		&s.SoundcloudURL, &s.InstagramURL, &s.VideoPath, &s.Published, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByEventAndUser returns the guest's submission for the event, or (nil, nil) when
// no row exists.
func (r *Repository) GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*models.Submission, error) {
	const q = `SELECT ` + submissionColumns + ` FROM submissions WHERE event_id = $1 AND user_id = $2`
	s, err := scanSubmission(r.pool.QueryRow(ctx, q, eventID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateProfile updates the owner-editable fields. Empty optional fields are stored as NULL.
func (r *Repository) UpdateProfile(ctx context.Context, eventID, userID uuid.UUID, displayName string, description, spotifyURL, soundcloudURL, instagramURL *string) (*models.Submission, error) {
	const q = `UPDATE submissions
		SET display_name = $3, description = $4, spotify_url = $5, soundcloud_url = $6, instagram_url = $7, updated_at = NOW()
		WHERE event_id = $1 AND user_id = $2
		RETURNING ` + submissionColumns
	s, err := scanSubmission(r.pool.QueryRow(ctx, q, eventID, userID, displayName, description, spotifyURL, soundcloudURL, instagramURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SetVideo records the stored video path and publishes the submission.
func (r *Repository) SetVideo(ctx context.Context, eventID, userID uuid.UUID, videoPath string) (*models.Submission, error) {
	const q = `UPDATE submissions
		SET video_path = $3, published = TRUE, updated_at = NOW()
		WHERE event_id = $1 AND user_id = $2
		RETURNING ` + submissionColumns
	s, err := scanSubmission(r.pool.QueryRow(ctx, q, eventID, userID, videoPath))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SetPublished flips the published flag. Publishing requires a video; the WHERE guard
// makes publish-without-video a no-op reported as (nil, nil).
func (r *Repository) SetPublished(ctx context.Context, eventID, userID uuid.UUID, published bool) (*models.Submission, error) {
	const q = `UPDATE submissions
		SET published = $3, updated_at = NOW()
		WHERE event_id = $1 AND user_id = $2 AND (NOT $3 OR video_path IS NOT NULL)
		RETURNING ` + submissionColumns
	s, err := scanSubmission(r.pool.QueryRow(ctx, q, eventID, userID, published))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

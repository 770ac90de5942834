package feed

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is one published submission joined with its current like count, before URL signing.
type Row struct {
	SubmissionID  uuid.UUID
	DisplayName   string
	Description   *string
	SpotifyURL    *string
	SoundcloudURL *string
	InstagramURL  *string
	VideoPath     string
	LikeCount     int
}

// Repository runs the feed aggregation query.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a feed repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListForEvent returns all published submissions of the event with their like counts.
// Like counts come from counting rows in the same query; they are never cached.
func (r *Repository) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]Row, error) {
	const q = `SELECT s.id, s.display_name, s.description, s.spotify_url, s.soundcloud_url, s.instagram_url,
			s.video_path, COUNT(l.id) AS like_count
		FROM submissions s
		LEFT JOIN likes l ON l.submission_id = s.id AND l.event_id = s.event_id
		WHERE s.event_id = $1 AND s.published AND s.video_path IS NOT NULL
		GROUP BY s.id
		ORDER BY s.created_at`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.SubmissionID, &row.DisplayName, &row.Description, &row.SpotifyURL,
			&row.SoundcloudURL, &row.InstagramURL, &row.VideoPath, &row.LikeCount); err != nil {
			return nil, err
		}
		list = append(list, row)
	}
	return list, rows.Err()
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission is one guest's claimed slot and uploaded video for one event.
// At most one row exists per (event, guest), enforced by a unique constraint.
type Submission struct {
	ID            uuid.UUID `json:"id"`
	EventID       uuid.UUID `json:"event_id"`
	UserID        uuid.UUID `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	Description   *string   `json:"description,omitempty"`
	SpotifyURL    *string   `json:"spotify_url,omitempty"`
	SoundcloudURL *string   `json:"soundcloud_url,omitempty"`
	InstagramURL  *string   `json:"instagram_url,omitempty"`
	VideoPath     *string   `json:"video_path,omitempty"`
	Published     bool      `json:"published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PlaceholderDisplayName is the name a submission carries between redemption and the
// first profile edit.
const PlaceholderDisplayName = "Unnamed Act"

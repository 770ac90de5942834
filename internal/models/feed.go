package models

import "github.com/google/uuid"

// FeedItem is one published submission in the live feed, with its current like count
// and a time-limited signed video URL.
type FeedItem struct {
	SubmissionID  uuid.UUID `json:"submission_id"`
	DisplayName   string    `json:"display_name"`
	Description   *string   `json:"description"`
	SpotifyURL    *string   `json:"spotify_url"`
	SoundcloudURL *string   `json:"soundcloud_url"`
	InstagramURL  *string   `json:"instagram_url"`
	VideoURL      string    `json:"video_url"`
	LikeCount     int       `json:"like_count"`
}

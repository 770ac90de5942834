package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a scheduled show with a live window and a separate submissions window.
// Events are created by an external admin process; this service never writes them.
type Event struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	StartsAt           time.Time `json:"starts_at"`
	EndsAt             time.Time `json:"ends_at"`
	SubmissionsOpenAt  time.Time `json:"submissions_open_at"`
	SubmissionsCloseAt time.Time `json:"submissions_close_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// IsLive reports whether the event's live window contains now.
func (e *Event) IsLive(now time.Time) bool {
	return !e.StartsAt.After(now) && e.EndsAt.After(now)
}

// SubmissionsOpen reports whether the event's submissions window contains now.
func (e *Event) SubmissionsOpen(now time.Time) bool {
	return !e.SubmissionsOpenAt.After(now) && e.SubmissionsCloseAt.After(now)
}

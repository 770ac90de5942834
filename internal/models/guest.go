package models

import (
	"time"

	"github.com/google/uuid"
)

// Guest is an anonymous caller identity. Guests are created on first session request
// and carry no profile; the session token is the only way to act as one.
type Guest struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

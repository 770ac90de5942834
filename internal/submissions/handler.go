package submissions

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aerostage/backend/internal/middleware"
	"github.com/aerostage/backend/internal/models"
	"github.com/aerostage/backend/pkg/response"
)

// Store persists submissions. Lookups return (nil, nil) when no row exists.
type Store interface {
	GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*models.Submission, error)
	UpdateProfile(ctx context.Context, eventID, userID uuid.UUID, displayName string, description, spotifyURL, soundcloudURL, instagramURL *string) (*models.Submission, error)
	SetPublished(ctx context.Context, eventID, userID uuid.UUID, published bool) (*models.Submission, error)
}

// Broadcaster pushes updates to an event's realtime room. Optional; nil disables.
type Broadcaster interface {
	BroadcastToEventAndPublish(eventID uuid.UUID, event string, payload interface{})
}

// UpdateProfileRequest is the body for PATCH /submissions/me.
type UpdateProfileRequest struct {
	EventID       uuid.UUID `json:"event_id" binding:"required"`
	DisplayName   string    `json:"display_name" binding:"required"`
	Description   string    `json:"description"`
	SpotifyURL    string    `json:"spotify_url"`
	SoundcloudURL string    `json:"soundcloud_url"`
	InstagramURL  string    `json:"instagram_url"`
}

// PublishRequest is the body for POST /submissions/me/publish.
type PublishRequest struct {
	EventID   uuid.UUID `json:"event_id" binding:"required"`
	Published *bool     `json:"published" binding:"required"`
}

// Handler handles owner submission HTTP endpoints.
type Handler struct {
	store  Store
	hub    Broadcaster
	logger *zap.Logger
}

// NewHandler creates a submissions handler.
func NewHandler(store Store, hub Broadcaster, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, hub: hub, logger: logger}
}

// GetMine handles GET /submissions/me?event_id=. Returns the caller's submission for
// the event, 404 when the slot has not been claimed.
func (h *Handler) GetMine(c *gin.Context) {
	guestID := c.MustGet(middleware.ContextGuestID).(uuid.UUID)
	eventID, err := uuid.Parse(c.Query("event_id"))
	if err != nil {
		response.BadRequest(c, "invalid event_id")
		return
	}
	sub, err := h.store.GetByEventAndUser(c.Request.Context(), eventID, guestID)
	if err != nil {
		h.logger.Error("lookup submission failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to load submission")
		return
	}
	if sub == nil {
		response.NotFound(c, "no submission for this event")
		return
	}
	response.OK(c, sub)
}

// UpdateMine handles PATCH /submissions/me. Empty optional fields clear the stored value.
func (h *Handler) UpdateMine(c *gin.Context) {
	guestID := c.MustGet(middleware.ContextGuestID).(uuid.UUID)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "event_id and display_name required")
		return
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		response.BadRequest(c, "display_name must not be blank")
		return
	}

	sub, err := h.store.UpdateProfile(c.Request.Context(), req.EventID, guestID, name,
		optional(req.Description), optional(req.SpotifyURL), optional(req.SoundcloudURL), optional(req.InstagramURL))
	if err != nil {
		h.logger.Error("update submission failed", zap.Error(err), zap.String("event_id", req.EventID.String()))
		response.Internal(c, "failed to update submission")
		return
	}
	if sub == nil {
		response.Conflict(c, "no submission for this event; redeem a code first")
		return
	}
	response.OK(c, sub)
}

// Publish handles POST /submissions/me/publish. Owners may hide a published video and
// re-publish it; publishing requires an uploaded video.
func (h *Handler) Publish(c *gin.Context) {
	guestID := c.MustGet(middleware.ContextGuestID).(uuid.UUID)

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "event_id and published required")
		return
	}

	sub, err := h.store.SetPublished(c.Request.Context(), req.EventID, guestID, *req.Published)
	if err != nil {
		h.logger.Error("set published failed", zap.Error(err), zap.String("event_id", req.EventID.String()))
		response.Internal(c, "failed to update submission")
		return
	}
	if sub == nil {
		response.Conflict(c, "submission missing or has no video")
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToEventAndPublish(req.EventID, "feed_updated", gin.H{})
	}
	response.OK(c, sub)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

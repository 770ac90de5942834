package likes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aerostage/backend/internal/events"
	"github.com/aerostage/backend/internal/models"
	"github.com/aerostage/backend/pkg/response"
)

// Store persists likes.
type Store interface {
	Insert(ctx context.Context, eventID, submissionID uuid.UUID, ipHash string) (InsertResult, error)
	Delete(ctx context.Context, eventID, submissionID uuid.UUID, ipHash string) error
	Count(ctx context.Context, eventID, submissionID uuid.UUID) (int, error)
}

// EventStore lists the event schedule for the live check.
type EventStore interface {
	ListAll(ctx context.Context) ([]models.Event, error)
}

// Broadcaster pushes updates to an event's realtime room. Optional; nil disables.
type Broadcaster interface {
	BroadcastToEventAndPublish(eventID uuid.UUID, event string, payload interface{})
}

// ToggleRequest is the body for POST /likes.
type ToggleRequest struct {
	EventID      uuid.UUID `json:"event_id" binding:"required"`
	SubmissionID uuid.UUID `json:"submission_id" binding:"required"`
}

// ToggleResponse is the body returned after a toggle.
type ToggleResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// Handler handles like HTTP endpoints.
type Handler struct {
	store       Store
	eventStore  EventStore
	fingerprint *Fingerprinter
	hub         Broadcaster
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandler creates a likes handler.
func NewHandler(store Store, eventStore EventStore, fp *Fingerprinter, hub Broadcaster, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, eventStore: eventStore, fingerprint: fp, hub: hub, logger: logger, now: time.Now}
}

// Toggle handles POST /likes. The caller's identity is the salted fingerprint of its
// network address; no auth is required. Insert, and on AlreadyExists delete the exact
// triple; either way the returned count is a fresh row count.
func (h *Handler) Toggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "event_id and submission_id required")
		return
	}

	evs, err := h.eventStore.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "failed to load events")
		return
	}
	st := events.Resolve(evs, h.now())
	if st.Live == nil || st.Live.ID != req.EventID {
		response.Conflict(c, "event is not live")
		return
	}

	ipHash := h.fingerprint.FromIP(c.ClientIP())

	res, err := h.store.Insert(c.Request.Context(), req.EventID, req.SubmissionID, ipHash)
	if err != nil {
		h.logger.Error("insert like failed", zap.Error(err),
			zap.String("event_id", req.EventID.String()), zap.String("submission_id", req.SubmissionID.String()))
		response.Internal(c, "failed to toggle like")
		return
	}
	liked := res == Created
	if res == AlreadyExists {
		if err := h.store.Delete(c.Request.Context(), req.EventID, req.SubmissionID, ipHash); err != nil {
			h.logger.Error("delete like failed", zap.Error(err),
				zap.String("event_id", req.EventID.String()), zap.String("submission_id", req.SubmissionID.String()))
			response.Internal(c, "failed to toggle like")
			return
		}
	}

	count, err := h.store.Count(c.Request.Context(), req.EventID, req.SubmissionID)
	if err != nil {
		h.logger.Error("count likes failed", zap.Error(err),
			zap.String("event_id", req.EventID.String()), zap.String("submission_id", req.SubmissionID.String()))
		response.Internal(c, "failed to count likes")
		return
	}

	if h.hub != nil {
		h.hub.BroadcastToEventAndPublish(req.EventID, "like_count", gin.H{
			"submission_id": req.SubmissionID,
			"like_count":    count,
		})
	}

	response.OK(c, ToggleResponse{Liked: liked, LikeCount: count})
}

package invites

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aerostage/backend/internal/events"
	"github.com/aerostage/backend/internal/middleware"
	"github.com/aerostage/backend/internal/models"
	"github.com/aerostage/backend/pkg/response"
)

// MinCodeLength is the minimum accepted invite code length after trimming.
const MinCodeLength = 4

// CodeStore redeems invite codes.
type CodeStore interface {
	Redeem(ctx context.Context, eventID, guestID uuid.UUID, code string) error
}

// EventStore lists the event schedule for the submissions-open check.
type EventStore interface {
	ListAll(ctx context.Context) ([]models.Event, error)
}

// SubmissionStore looks up existing submissions. Returns (nil, nil) when no row exists.
type SubmissionStore interface {
	GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*models.Submission, error)
}

// RedeemRequest is the body for POST /redeem.
type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}

// Handler handles invite code HTTP endpoints.
type Handler struct {
	codes       CodeStore
	eventStore  EventStore
	submissions SubmissionStore
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandler creates an invites handler.
func NewHandler(codes CodeStore, eventStore EventStore, submissions SubmissionStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{codes: codes, eventStore: eventStore, submissions: submissions, logger: logger, now: time.Now}
}

// Redeem handles POST /redeem. Codes are case-insensitive and whitespace-trimmed.
// Redeeming twice with the same guest succeeds both times and leaves exactly one
// submission row.
func (h *Handler) Redeem(c *gin.Context) {
	guestID := c.MustGet(middleware.ContextGuestID).(uuid.UUID)

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "code required")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if len(code) < MinCodeLength {
		response.BadRequest(c, "invalid code")
		return
	}

	evs, err := h.eventStore.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "failed to load events")
		return
	}
	st := events.Resolve(evs, h.now())
	if st.SubmissionsOpen == nil {
		response.Conflict(c, "submissions are closed")
		return
	}
	eventID := st.SubmissionsOpen.ID

	existing, err := h.submissions.GetByEventAndUser(c.Request.Context(), eventID, guestID)
	if err != nil {
		h.logger.Error("lookup submission failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to redeem code")
		return
	}
	if existing != nil {
		response.OK(c, gin.H{"event_id": eventID, "submission_id": existing.ID})
		return
	}

	if err := h.codes.Redeem(c.Request.Context(), eventID, guestID, code); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCode):
			response.BadRequest(c, "invalid code")
		case errors.Is(err, ErrCodeUsed):
			response.Conflict(c, "code already used")
		default:
			h.logger.Error("redeem failed", zap.Error(err), zap.String("event_id", eventID.String()))
			response.Internal(c, "failed to redeem code")
		}
		return
	}

	sub, err := h.submissions.GetByEventAndUser(c.Request.Context(), eventID, guestID)
	if err != nil || sub == nil {
		// Redeem committed; the slot exists even if this read failed.
		response.OK(c, gin.H{"event_id": eventID})
		return
	}
	response.OK(c, gin.H{"event_id": eventID, "submission_id": sub.ID})
}

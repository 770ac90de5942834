package events

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aerostage/backend/internal/models"
	"github.com/aerostage/backend/pkg/response"
)

// Store lists the event schedule.
type Store interface {
	ListAll(ctx context.Context) ([]models.Event, error)
}

// Handler handles event status HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates an events handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger, now: time.Now}
}

// Status handles GET /events/status. The phase is derived from the schedule on every
// call; nothing here may be cached.
func (h *Handler) Status(c *gin.Context) {
	evs, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "failed to load events")
		return
	}
	st := Resolve(evs, h.now())
	response.OK(c, gin.H{
		"live":             st.Live,
		"next":             st.Next,
		"submissions_open": st.SubmissionsOpen,
		"now":              h.now().UTC(),
	})
}

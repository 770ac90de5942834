package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aerostage/backend/internal/models"
	"github.com/aerostage/backend/pkg/response"
)

// GuestStore persists anonymous guest identities.
type GuestStore interface {
	Create(ctx context.Context) (*models.Guest, error)
}

// SessionResponse is the body returned for a new anonymous session.
type SessionResponse struct {
	Token   string        `json:"token"`
	GuestID string        `json:"guest_id"`
	Guest   *models.Guest `json:"guest"`
}

// Handler handles session HTTP endpoints.
type Handler struct {
	store  GuestStore
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(store GuestStore, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, jwt: jwt, logger: logger}
}

// CreateSession handles POST /auth/session. Creates an anonymous guest and returns a
// signed session token. Clients hold the token for the page/session duration and
// request a fresh one on reload.
func (h *Handler) CreateSession(c *gin.Context) {
	guest, err := h.store.Create(c.Request.Context())
	if err != nil {
		h.logger.Error("create guest failed", zap.Error(err))
		response.Internal(c, "failed to create session")
		return
	}
	token, err := h.jwt.Generate(guest.ID)
	if err != nil {
		h.logger.Error("generate session token failed", zap.Error(err))
		response.Internal(c, "failed to create session")
		return
	}
	response.Created(c, SessionResponse{Token: token, GuestID: guest.ID.String(), Guest: guest})
}

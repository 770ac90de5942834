package feed

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

// signTTLMargin keeps cache entries from outliving the presigned URL they hold.
const signTTLMargin = 5 * time.Minute

// Store runs the feed aggregation.
type Store interface {
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]Row, error)
}

// EventStore lists the event schedule for the live check.
type EventStore interface {
	ListAll(ctx context.Context) ([]models.Event, error)
}

// URLSigner produces time-limited download URLs for stored videos.
type URLSigner interface {
	GeneratePresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
	PresignExpire() time.Duration
}

// Handler handles feed HTTP endpoints.
type Handler struct {
	store      Store
	eventStore EventStore
	signer     URLSigner
	cache      *URLCache
	logger     *zap.Logger
	now        func() time.Time
}

// NewHandler creates a feed handler.
func NewHandler(store Store, eventStore EventStore, signer URLSigner, cache *URLCache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NewURLCache(nil, logger)
	}
	return &Handler{store: store, eventStore: eventStore, signer: signer, cache: cache, logger: logger, now: time.Now}
}

// ForEvent handles GET /events/:id/feed. The feed is only served while the event is
// live. Items whose video cannot be signed are skipped rather than failing the feed.
func (h *Handler) ForEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}

	evs, err := h.eventStore.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "failed to load events")
		return
	}
	st := events.Resolve(evs, h.now())
	if st.Live == nil || st.Live.ID != eventID {
		response.Conflict(c, "event is not live")
		return
	}

	rows, err := h.store.ListForEvent(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("feed query failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to load feed")
		return
	}

	items := make([]models.FeedItem, 0, len(rows))
	for _, row := range rows {
		url, err := h.signURL(c.Request.Context(), row.VideoPath)
		if err != nil {
			h.logger.Warn("sign video url failed", zap.Error(err), zap.String("submission_id", row.SubmissionID.String()))
			continue
		}
		items = append(items, models.FeedItem{
			SubmissionID:  row.SubmissionID,
			DisplayName:   row.DisplayName,
			Description:   row.Description,
			SpotifyURL:    row.SpotifyURL,
			SoundcloudURL: row.SoundcloudURL,
			InstagramURL:  row.InstagramURL,
			VideoURL:      url,
			LikeCount:     row.LikeCount,
		})
	}
	response.OK(c, gin.H{"event_id": eventID, "items": items})
}

func (h *Handler) signURL(ctx context.Context, videoPath string) (string, error) {
	if cached := h.cache.Get(ctx, videoPath); cached != "" {
		return cached, nil
	}
	expire := h.signer.PresignExpire()
	url, err := h.signer.GeneratePresignedDownloadURL(ctx, videoPath, expire)
	if err != nil {
		return "", err
	}
	h.cache.Set(ctx, videoPath, url, expire-signTTLMargin)
	return url, nil
}

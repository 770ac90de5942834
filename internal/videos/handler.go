package videos

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aerostage/backend/config"
	"github.com/aerostage/backend/internal/events"
	"github.com/aerostage/backend/internal/middleware"
	"github.com/aerostage/backend/internal/models"
	"github.com/aerostage/backend/pkg/response"
	"github.com/aerostage/backend/pkg/storage"
)

// SubmissionStore persists submissions. Lookups return (nil, nil) when no row exists.
type SubmissionStore interface {
	GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (*models.Submission, error)
	SetVideo(ctx context.Context, eventID, userID uuid.UUID, videoPath string) (*models.Submission, error)
	UpdateProfile(ctx context.Context, eventID, userID uuid.UUID, displayName string, description, spotifyURL, soundcloudURL, instagramURL *string) (*models.Submission, error)
}

// EventStore lists the event schedule for the submissions-open check.
type EventStore interface {
	ListAll(ctx context.Context) ([]models.Event, error)
}

// Uploader stores transcoded videos and removes replaced ones.
type Uploader interface {
	UploadVideo(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) error
	DeleteVideo(ctx context.Context, key string) error
}

// VideoTranscoder converts an uploaded file to MP4.
type VideoTranscoder interface {
	ToMP4(inPath, outPath string) error
}

// Broadcaster pushes updates to an event's realtime room. Optional; nil disables.
type Broadcaster interface {
	BroadcastToEventAndPublish(eventID uuid.UUID, event string, payload interface{})
}

// Handler handles the video upload endpoint.
type Handler struct {
	store      SubmissionStore
	eventStore EventStore
	uploader   Uploader
	transcoder VideoTranscoder
	hub        Broadcaster
	cfg        config.UploadConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewHandler creates a videos handler.
func NewHandler(store SubmissionStore, eventStore EventStore, uploader Uploader, transcoder VideoTranscoder, hub Broadcaster, cfg config.UploadConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:      store,
		eventStore: eventStore,
		uploader:   uploader,
		transcoder: transcoder,
		hub:        hub,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Upload handles POST /upload (multipart: event_id, file, optional profile fields).
// The file is staged to a temp dir, transcoded to MP4, pushed to the videos bucket,
// and the caller's submission gets its video path set and is published.
func (h *Handler) Upload(c *gin.Context) {
	guestID := c.MustGet(middleware.ContextGuestID).(uuid.UUID)

	// Multipart framing adds overhead beyond the video itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxSizeBytes()+1024*1024)

	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.PayloadTooLarge(c, "video exceeds the upload size limit")
			return
		}
		response.BadRequest(c, "file required")
		return
	}
	eventID, err := uuid.Parse(c.PostForm("event_id"))
	if err != nil {
		response.BadRequest(c, "invalid event_id")
		return
	}
	if file.Size > h.cfg.MaxSizeBytes() {
		response.PayloadTooLarge(c, "video exceeds the upload size limit")
		return
	}
	if !storage.ValidateVideoFileType(file.Header.Get("Content-Type"), file.Filename) {
		response.UnsupportedMediaType(c, "unsupported video type")
		return
	}

	evs, err := h.eventStore.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "failed to load events")
		return
	}
	st := events.Resolve(evs, h.now())
	if st.SubmissionsOpen == nil || st.SubmissionsOpen.ID != eventID {
		response.Conflict(c, "submissions are closed")
		return
	}

	sub, err := h.store.GetByEventAndUser(c.Request.Context(), eventID, guestID)
	if err != nil {
		h.logger.Error("lookup submission failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to load submission")
		return
	}
	if sub == nil {
		response.Conflict(c, "no submission for this event; redeem a code first")
		return
	}

	tmpDir, err := os.MkdirTemp(h.cfg.TempDir, "aerostage-")
	if err != nil {
		h.logger.Error("create temp dir failed", zap.Error(err))
		response.Internal(c, "upload failed")
		return
	}
	defer os.RemoveAll(tmpDir)

	inPath := filepath.Join(tmpDir, "in"+filepath.Ext(file.Filename))
	outPath := filepath.Join(tmpDir, "out.mp4")
	if err := c.SaveUploadedFile(file, inPath); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.PayloadTooLarge(c, "video exceeds the upload size limit")
			return
		}
		h.logger.Error("save upload failed", zap.Error(err))
		response.Internal(c, "upload failed")
		return
	}

	if err := h.transcoder.ToMP4(inPath, outPath); err != nil {
		h.logger.Error("transcode failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "transcode failed")
		return
	}

	out, err := os.Open(outPath)
	if err != nil {
		h.logger.Error("open transcoded file failed", zap.Error(err))
		response.Internal(c, "upload failed")
		return
	}
	defer out.Close()
	info, err := out.Stat()
	if err != nil {
		h.logger.Error("stat transcoded file failed", zap.Error(err))
		response.Internal(c, "upload failed")
		return
	}

	key := storage.VideoKey(guestID.String(), eventID.String(), h.now().UnixMilli())
	if err := h.uploader.UploadVideo(c.Request.Context(), key, "video/mp4", out, info.Size()); err != nil {
		h.logger.Error("s3 upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "upload failed")
		return
	}

	if name := strings.TrimSpace(c.PostForm("display_name")); name != "" {
		_, err = h.store.UpdateProfile(c.Request.Context(), eventID, guestID, name,
			optional(c.PostForm("description")), optional(c.PostForm("spotify_url")),
			optional(c.PostForm("soundcloud_url")), optional(c.PostForm("instagram_url")))
		if err != nil {
			h.logger.Error("update profile failed", zap.Error(err), zap.String("event_id", eventID.String()))
			response.Internal(c, "failed to update submission")
			return
		}
	}

	updated, err := h.store.SetVideo(c.Request.Context(), eventID, guestID, key)
	if err != nil || updated == nil {
		h.logger.Error("set video failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to update submission")
		return
	}

	// Re-uploads get a fresh timestamped key; drop the replaced object so the bucket
	// holds one video per submission. Best effort, the new video is already live.
	if old := sub.VideoPath; old != nil && *old != key {
		if err := h.uploader.DeleteVideo(c.Request.Context(), *old); err != nil {
			h.logger.Warn("delete replaced video failed", zap.Error(err), zap.String("key", *old))
		}
	}

	if h.hub != nil {
		h.hub.BroadcastToEventAndPublish(eventID, "feed_updated", gin.H{})
	}

	h.logger.Info("video uploaded",
		zap.String("event_id", eventID.String()),
		zap.String("submission_id", updated.ID.String()),
		zap.String("key", key),
		zap.Int64("size", info.Size()))
	response.OK(c, updated)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

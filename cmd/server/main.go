// Package main runs the Aerostage HTTP server with realtime feed updates and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aerostage/backend/config"
	"github.com/aerostage/backend/internal/auth"
	"github.com/aerostage/backend/internal/events"
	"github.com/aerostage/backend/internal/feed"
	"github.com/aerostage/backend/internal/invites"
	"github.com/aerostage/backend/internal/likes"
	"github.com/aerostage/backend/internal/middleware"
	"github.com/aerostage/backend/internal/realtime"
	"github.com/aerostage/backend/internal/submissions"
	"github.com/aerostage/backend/internal/videos"
	"github.com/aerostage/backend/pkg/database"
	"github.com/aerostage/backend/pkg/redis"
	"github.com/aerostage/backend/pkg/response"
	"github.com/aerostage/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	s3Cfg := storage.S3Config{
		Region:               cfg.AWS.Region,
		AccessKeyID:          cfg.AWS.AccessKeyID,
		SecretAccessKey:      cfg.AWS.SecretAccessKey,
		VideosBucket:         cfg.AWS.VideosBucket,
		PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
	}
	s3Client, err := storage.NewS3(ctx, s3Cfg, logger)
	if err != nil {
		logger.Fatal("s3", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.Session.Secret, cfg.Session.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Sessions
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Events (read-only schedule + phase)
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, logger)

	// Likes
	likeRepo := likes.NewRepository(pool)
	fingerprinter := likes.NewFingerprinter(cfg.Like.Salt)
	likeHandler := likes.NewHandler(likeRepo, eventRepo, fingerprinter, hub, logger)

	// Submissions + invite redemption
	submissionRepo := submissions.NewRepository(pool)
	submissionHandler := submissions.NewHandler(submissionRepo, hub, logger)
	inviteRepo := invites.NewRepository(pool)
	inviteHandler := invites.NewHandler(inviteRepo, eventRepo, submissionRepo, logger)

	// Feed
	feedRepo := feed.NewRepository(pool)
	urlCache := feed.NewURLCache(rdb.Client, logger)
	feedHandler := feed.NewHandler(feedRepo, eventRepo, s3Client, urlCache, logger)

	// Video upload
	transcoder := videos.NewTranscoder(cfg.Upload.FFmpegPath, logger)
	videoHandler := videos.NewHandler(submissionRepo, eventRepo, s3Client, transcoder, hub, cfg.Upload, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public
	router.POST("/auth/session", authHandler.CreateSession)
	router.GET("/events/status", eventHandler.Status)
	router.GET("/events/:id/feed", feedHandler.ForEvent)
	router.POST("/likes", likeHandler.Toggle)

	// Protected (session token required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.POST("/redeem", inviteHandler.Redeem)
		api.POST("/upload", videoHandler.Upload)
		api.GET("/submissions/me", submissionHandler.GetMine)
		api.PATCH("/submissions/me", submissionHandler.UpdateMine)
		api.POST("/submissions/me/publish", submissionHandler.Publish)
	}

	// WebSocket feed rooms (anonymous viewers)
	router.GET("/ws", realtime.ServeWs(hub, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}

package feed

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const urlKeyPrefix = "signedurl:"

// URLCache caches presigned video URLs in Redis so the feed does not re-sign every
// object on every request. Entries expire well before the presigned URL itself does.
type URLCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewURLCache creates a Redis-backed signed URL cache. A nil client disables caching.
func NewURLCache(client *redis.Client, logger *zap.Logger) *URLCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &URLCache{client: client, logger: logger}
}

// Get returns the cached URL for a video path, or "" on miss.
func (c *URLCache) Get(ctx context.Context, videoPath string) string {
	if c.client == nil {
		return ""
	}
	val, err := c.client.Get(ctx, urlKeyPrefix+videoPath).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("signed url cache get failed", zap.Error(err))
		}
		return ""
	}
	return val
}

// Set stores the URL for a video path. The TTL must stay under the presign lifetime;
// callers pass the margin-adjusted value.
func (c *URLCache) Set(ctx context.Context, videoPath, url string, ttl time.Duration) {
	if c.client == nil || ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, urlKeyPrefix+videoPath, url, ttl).Err(); err != nil {
		c.logger.Warn("signed url cache set failed", zap.Error(err))
	}
}

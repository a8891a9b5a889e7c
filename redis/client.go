// Package redis caches fetched media payloads so redelivered webhooks do not
// hit the Evolution API again. The cache is best-effort: every operation is
// allowed to fail without affecting the pipeline.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const mediaTTL = time.Hour

type Client struct {
	rdb *redis.Client
}

func NewClient(addr, password string, db int) Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	client := Client{rdb: rdb}

	if err := client.Ping(context.Background()); err != nil {
		log.Warn().Err(err).
			Str("addr", addr).
			Int("db", db).
			Msg("Redis connection failed, media cache will be unavailable")
	} else {
		log.Info().
			Str("addr", addr).
			Int("db", db).
			Msg("Redis connected successfully")
	}

	return client
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// GetMedia returns the cached base64 payload for a message, if present.
func (c *Client) GetMedia(ctx context.Context, messageID string) (string, bool) {
	value, err := c.rdb.Get(ctx, mediaKey(messageID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("message_id", messageID).Msg("Media cache lookup failed")
		}
		return "", false
	}
	return value, true
}

// SetMedia stores a fetched base64 payload with a fixed TTL.
func (c *Client) SetMedia(ctx context.Context, messageID, base64Data string) {
	if err := c.rdb.Set(ctx, mediaKey(messageID), base64Data, mediaTTL).Err(); err != nil {
		log.Warn().Err(err).Str("message_id", messageID).Msg("Media cache store failed")
	}
}

func mediaKey(messageID string) string {
	return fmt.Sprintf("media_base64:%s", messageID)
}

// Package cache keeps per-user wardrobe lists in Redis so suggestion requests
// do not hit Postgres every time. Every wardrobe write drops the entry and
// bumps a per-user generation; a list read before the bump is never stored.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"wardrobeAPI/internal/types/wardrobe"
)

const (
	DefaultNamespace = "wardrobe:items"
	DefaultTTL       = 10 * time.Minute

	// generationTTL outlives any single read so a reader cannot see the
	// counter reset under it.
	generationTTL = 24 * time.Hour
)

// NoGeneration tells Set not to store anything.
const NoGeneration int64 = -1

var errStaleGeneration = errors.New("wardrobe generation changed")

type WardrobeCache struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewWardrobeCache parses redisURL, pings the server and returns a ready cache.
func NewWardrobeCache(ctx context.Context, redisURL string, logger *zap.Logger) (*WardrobeCache, error) {
	if redisURL == "" {
		return nil, errors.New("redis URL is required")
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewWardrobeCacheWithClient(client, DefaultTTL, logger), nil
}

func NewWardrobeCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *WardrobeCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WardrobeCache{
		client:    client,
		namespace: DefaultNamespace,
		ttl:       ttl,
		logger:    logger,
	}
}

func (c *WardrobeCache) key(userID string) string {
	return fmt.Sprintf("%s:%s", c.namespace, userID)
}

func (c *WardrobeCache) genKey(userID string) string {
	return fmt.Sprintf("%s:%s:gen", c.namespace, userID)
}

// Generation returns the user's current write generation. Callers take it
// before reading Postgres and hand it back to Set.
func (c *WardrobeCache) Generation(ctx context.Context, userID string) int64 {
	gen, err := c.client.Get(ctx, c.genKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0
		}
		c.logger.Warn("wardrobe cache generation read failed", zap.String("user_id", userID), zap.Error(err))
		return NoGeneration
	}
	return gen
}

// Get returns the cached list. A miss, or any Redis error, reports false.
func (c *WardrobeCache) Get(ctx context.Context, userID string) ([]wardrobe.ClothingItem, bool) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("wardrobe cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, false
	}

	var items []wardrobe.ClothingItem
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("wardrobe cache entry corrupt", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	return items, true
}

// Set stores items only if no write happened since gen was read. The check
// and the write run in one WATCH transaction.
func (c *WardrobeCache) Set(ctx context.Context, userID string, gen int64, items []wardrobe.ClothingItem) {
	if gen == NoGeneration {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}

	genKey := c.genKey(userID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(userID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug("wardrobe changed during read, not caching", zap.String("user_id", userID))
	default:
		c.logger.Warn("wardrobe cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// Invalidate drops the entry and bumps the generation so in-flight reads
// cannot store what they fetched.
func (c *WardrobeCache) Invalidate(ctx context.Context, userID string) {
	genKey := c.genKey(userID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, c.key(userID))
		return nil
	})
	if err != nil {
		c.logger.Warn("wardrobe cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (c *WardrobeCache) Close() error {
	return c.client.Close()
}

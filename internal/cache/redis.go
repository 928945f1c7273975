package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"mealcall-app-go/pkg/logger"
)

const activeCallKeyPrefix = "mealcall:active:"

// ActiveCallCache backs mealcall.Cache with Redis. Every failure
// degrades to a miss; the database remains the source of truth.
type ActiveCallCache struct {
	client *redis.Client
	log    logger.Logger
}

func NewActiveCallCache(client *redis.Client, log logger.Logger) *ActiveCallCache {
	return &ActiveCallCache{client: client, log: log}
}

func (c *ActiveCallCache) GetActiveID(ctx context.Context, familyID string) (string, bool) {
	id, err := c.client.Get(ctx, activeCallKey(familyID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		c.log.Warn("active call cache read failed", "family_id", familyID, "error", err)
		return "", false
	}
	return id, true
}

func (c *ActiveCallCache) SetActiveID(ctx context.Context, familyID, mealCallID string, ttl time.Duration) {
	if err := c.client.Set(ctx, activeCallKey(familyID), mealCallID, ttl).Err(); err != nil {
		c.log.Warn("active call cache write failed", "family_id", familyID, "error", err)
	}
}

func (c *ActiveCallCache) DeleteActiveID(ctx context.Context, familyID string) {
	if err := c.client.Del(ctx, activeCallKey(familyID)).Err(); err != nil {
		c.log.Warn("active call cache delete failed", "family_id", familyID, "error", err)
	}
}

func activeCallKey(familyID string) string {
	return activeCallKeyPrefix + familyID
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const slotCacheKeyPrefix = "slots:"

// SlotCache caches a therapist's computed day of free slots in Redis.
// Every method degrades to a miss / no-op when Redis is unavailable so the
// slot catalog keeps working off the database alone.
type SlotCache struct {
	log         *logrus.Logger
	redisClient *redis.Client
	ttl         time.Duration
}

func NewSlotCache(log *logrus.Logger, redisClient *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{
		log:         log,
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func slotCacheKey(physiotherapistID uuid.UUID, date string) string {
	return fmt.Sprintf("%s%s:%s", slotCacheKeyPrefix, physiotherapistID, date)
}

// Get returns the cached slot list and whether it was found.
func (c *SlotCache) Get(ctx context.Context, physiotherapistID uuid.UUID, date string) ([]string, bool) {
	if c.redisClient == nil {
		return nil, false
	}

	raw, err := c.redisClient.Get(ctx, slotCacheKey(physiotherapistID, date)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warnf("Failed to read slot cache (non-fatal): %+v", err)
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		c.log.Warnf("Failed to decode slot cache entry (non-fatal): %+v", err)
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(ctx context.Context, physiotherapistID uuid.UUID, date string, slots []string) {
	if c.redisClient == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.redisClient.Set(ctx, slotCacheKey(physiotherapistID, date), raw, c.ttl).Err(); err != nil {
		c.log.Warnf("Failed to write slot cache (non-fatal): %+v", err)
	}
}

// Invalidate drops the cached slots for a single therapist day. Bookings
// call this on create and cancel.
func (c *SlotCache) Invalidate(ctx context.Context, physiotherapistID uuid.UUID, date string) {
	if c.redisClient == nil {
		return
	}
	if err := c.redisClient.Del(ctx, slotCacheKey(physiotherapistID, date)).Err(); err != nil {
		c.log.Warnf("Failed to invalidate slot cache (non-fatal): %+v", err)
	}
}

// InvalidateAll drops every cached day for a therapist. Availability edits
// call this because a template change affects an unbounded set of dates.
func (c *SlotCache) InvalidateAll(ctx context.Context, physiotherapistID uuid.UUID) {
	if c.redisClient == nil {
		return
	}

	pattern := fmt.Sprintf("%s%s:*", slotCacheKeyPrefix, physiotherapistID)
	keys, err := c.redisClient.Keys(ctx, pattern).Result()
	if err != nil {
		c.log.Warnf("Failed to list slot cache keys (non-fatal): %+v", err)
		return
	}
	if len(keys) > 0 {
		if err := c.redisClient.Del(ctx, keys...).Err(); err != nil {
			c.log.Warnf("Failed to invalidate slot cache keys (non-fatal): %+v", err)
		}
	}
}

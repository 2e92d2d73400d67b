package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const intentKeyPrefix = "intent_status:"

// IntentStatusCache implements repository.IntentStatusCache using Redis.
// It keeps the provider poll rate bounded when listings are refreshed
// repeatedly: a cached status is served until the short TTL expires.
type IntentStatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIntentStatusCache creates a Redis-backed intent status cache.
func NewIntentStatusCache(client *redis.Client, ttl time.Duration) *IntentStatusCache {
	return &IntentStatusCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached status for the given intent reference.
func (c *IntentStatusCache) Get(ctx context.Context, ref string) (string, bool, error) {
	status, err := c.client.Get(ctx, intentKeyPrefix+ref).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get intent status: %w", err)
	}
	return status, true, nil
}

// Set caches the status for the given intent reference with the configured TTL.
func (c *IntentStatusCache) Set(ctx context.Context, ref, status string) error {
	if err := c.client.Set(ctx, intentKeyPrefix+ref, status, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set intent status: %w", err)
	}
	return nil
}

package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const eventKeyPrefix = "payment:event:"

// RedisClient is the part of the go-redis client used for event deduplication
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// EventDeduplicator remembers processed provider event IDs for a limited time
type EventDeduplicator struct {
	client RedisClient
	ttl    time.Duration
}

// NewEventDeduplicator creates a deduplicator keeping event IDs for ttl
func NewEventDeduplicator(client RedisClient, ttl time.Duration) *EventDeduplicator {
	return &EventDeduplicator{client: client, ttl: ttl}
}

// Claim marks an event as being processed. It returns false when the event was seen before.
func (d *EventDeduplicator) Claim(ctx context.Context, eventID string) (bool, error) {
	ok, err := d.client.SetNX(ctx, eventKeyPrefix+eventID, time.Now().Unix(), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim event %s: %w", eventID, err)
	}
	return ok, nil
}

// Release forgets an event so a redelivery is processed again
func (d *EventDeduplicator) Release(ctx context.Context, eventID string) error {
	if err := d.client.Del(ctx, eventKeyPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("failed to release event %s: %w", eventID, err)
	}
	return nil
}

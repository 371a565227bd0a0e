package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// EventDeduplicator implements ports.EventDeduplicator using SET NX.
type EventDeduplicator struct {
	client *goredis.Client
}

// NewEventDeduplicator creates a Redis-backed webhook deduplicator.
func NewEventDeduplicator(client *goredis.Client) *EventDeduplicator {
	return &EventDeduplicator{client: client}
}

// FirstSeen marks key as seen for ttl. It returns false when the key was
// already marked.
func (d *EventDeduplicator) FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := d.client.SetArgs(ctx, prefixDedupe+key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis dedupe mark: %w", err)
	}
	return result == "OK", nil
}

// Forget removes the mark so the provider's redelivery is processed.
func (d *EventDeduplicator) Forget(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, prefixDedupe+key).Err(); err != nil {
		return fmt.Errorf("redis dedupe forget: %w", err)
	}
	return nil
}

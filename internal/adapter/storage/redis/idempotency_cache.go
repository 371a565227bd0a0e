package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// IdempotencyCache implements ports.IdempotencyCache, keyed by
// organization and transfer reference.
type IdempotencyCache struct {
	client *goredis.Client
}

func NewIdempotencyCache(client *goredis.Client) *IdempotencyCache {
	return &IdempotencyCache{client: client}
}

// Lookup returns nil, nil on a miss. An unreadable value is dropped and
// reported as a miss so the caller falls back to the entry reference.
func (c *IdempotencyCache) Lookup(ctx context.Context, organizationID uuid.UUID, reference string) (*domain.WalletEntry, error) {
	key := prefixIdempotency + domain.BuildIdempotencyKey(organizationID, reference)

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis idempotency lookup: %w", err)
	}

	var entry domain.WalletEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = c.client.Del(ctx, key).Err()
		return nil, nil
	}
	return &entry, nil
}

func (c *IdempotencyCache) Remember(ctx context.Context, entry *domain.WalletEntry, ttl time.Duration) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode entry %s: %w", entry.Reference, err)
	}
	key := prefixIdempotency + domain.BuildIdempotencyKey(entry.OrganizationID, entry.Reference)
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis idempotency remember: %w", err)
	}
	return nil
}

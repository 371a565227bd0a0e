package redis

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyCache_RememberAndLookup(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewIdempotencyCache(client)
	ctx := context.Background()
	orgID := uuid.New()

	miss, err := cache.Lookup(ctx, orgID, "trf_001")
	require.NoError(t, err)
	assert.Nil(t, miss)

	entry := &domain.WalletEntry{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Reference:      "trf_001",
		Amount:         4000,
		Status:         domain.EntryStatusPending,
	}
	require.NoError(t, cache.Remember(ctx, entry, 24*time.Hour))

	got, err := cache.Lookup(ctx, orgID, "trf_001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, domain.EntryStatusPending, got.Status)

	other, err := cache.Lookup(ctx, uuid.New(), "trf_001")
	require.NoError(t, err)
	assert.Nil(t, other, "references are scoped to their organization")

	s.FastForward(25 * time.Hour)
	expired, err := cache.Lookup(ctx, orgID, "trf_001")
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestIdempotencyCache_UnreadableValueIsAMiss(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewIdempotencyCache(client)
	orgID := uuid.New()
	key := prefixIdempotency + domain.BuildIdempotencyKey(orgID, "trf_002")
	require.NoError(t, s.Set(key, "{not json"))

	got, err := cache.Lookup(context.Background(), orgID, "trf_002")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, s.Exists(key), "corrupt value is dropped")
}

func TestIdempotencyCache_LookupFailsWhenRedisDown(t *testing.T) {
	s, client := newTestClient(t)
	cache := NewIdempotencyCache(client)
	s.Close()

	_, err := cache.Lookup(context.Background(), uuid.New(), "trf_003")

	assert.ErrorContains(t, err, "redis idempotency lookup")
}

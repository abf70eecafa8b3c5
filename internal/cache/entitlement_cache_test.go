package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradematch_backend/internal/models"
	"tradematch_backend/internal/rules"
)

func newTestCache(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, EntitlementCache) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewEntitlementCache(client, ttl)
}

func TestEntitlementCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	_, c := newTestCache(t, time.Minute)

	got, err := c.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, got, "miss is not an error")

	want := rules.Entitlement{
		Role:   models.UserRoleSubcontractor,
		PlanID: models.PlanSubcontractorPro10,
		Status: models.SubscriptionActive,
	}
	require.NoError(t, c.Set(ctx, "u-1", want))

	got, err = c.Get(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestEntitlementCache_Expires(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestCache(t, 30*time.Second)

	require.NoError(t, c.Set(ctx, "u-1", rules.Entitlement{Role: models.UserRoleContractor}))
	assert.Equal(t, 30*time.Second, mr.TTL(entitlementKey("u-1")))

	mr.FastForward(31 * time.Second)

	got, err := c.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEntitlementCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestCache(t, time.Minute)

	require.NoError(t, c.Set(ctx, "u-1", rules.Entitlement{Role: models.UserRoleContractor}))
	require.NoError(t, c.Invalidate(ctx, "u-1"))
	assert.False(t, mr.Exists(entitlementKey("u-1")))

	require.NoError(t, c.Invalidate(ctx, "never-cached"))
}

func TestEntitlementCache_MalformedEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestCache(t, time.Minute)

	require.NoError(t, mr.Set(entitlementKey("u-1"), "{not json"))

	got, err := c.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(entitlementKey("u-1")))
}

func TestEntitlementCache_NilClient(t *testing.T) {
	ctx := context.Background()
	c := NewEntitlementCache(nil, time.Minute)

	got, err := c.Get(ctx, "u-1")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Set(ctx, "u-1", rules.Entitlement{}))
	assert.NoError(t, c.Invalidate(ctx, "u-1"))
}

package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medassist/clinic-discovery/internal/domain/providers"
	redisclient "github.com/medassist/clinic-discovery/internal/infrastructure/clients/redis"
	"github.com/medassist/clinic-discovery/pkg/config"
)

func newTestRedisAdapter(t *testing.T) (providers.CacheProvider, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)

	port, err := strconv.Atoi(srv.Port())
	require.NoError(t, err)

	client, err := redisclient.NewClient(context.Background(), &config.RedisConfig{
		Host: srv.Host(),
		Port: port,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisAdapter(client), srv
}

func TestRedisAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter, _ := newTestRedisAdapter(t)

	payload := []byte(`[{"id":"osm:node:42"}]`)
	require.NoError(t, adapter.Set(ctx, "clinics:13.0827_80.2707_5000_all", payload, 600))

	got, err := adapter.Get(ctx, "clinics:13.0827_80.2707_5000_all")
	assert.NoError(t, err)
	assert.Equal(t, payload, got)

	exists, err := adapter.Exists(ctx, "clinics:13.0827_80.2707_5000_all")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisAdapter_MissOnAbsentKey(t *testing.T) {
	adapter, _ := newTestRedisAdapter(t)

	_, err := adapter.Get(context.Background(), "clinics:unknown")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapter_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	adapter, srv := newTestRedisAdapter(t)

	require.NoError(t, adapter.Set(ctx, "key", []byte("value"), 600))

	srv.FastForward(601 * time.Second)

	_, err := adapter.Get(ctx, "key")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapter_Delete(t *testing.T) {
	ctx := context.Background()
	adapter, _ := newTestRedisAdapter(t)

	require.NoError(t, adapter.Set(ctx, "key", []byte("value"), 600))
	require.NoError(t, adapter.Delete(ctx, "key"))

	_, err := adapter.Get(ctx, "key")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

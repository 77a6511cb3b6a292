package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cava-api/internal/application/dto"
	"github.com/jhoicas/Cava-api/internal/infrastructure/cache"
	"github.com/jhoicas/Cava-api/pkg/logger"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("omitiendo tests de Redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisCache_PropuestaEInvalidacion(t *testing.T) {
	client := newTestClient(t)
	prefix := "cava-test-" + uuid.NewString()
	c := cache.NewRedisCache(client, prefix, time.Minute, logger.Nop())
	ctx := context.Background()

	_, ok := c.GetProposal(ctx, "c1")
	assert.False(t, ok)

	c.SetProposal(ctx, "c1", &dto.LayoutProposalDTO{TotalBottles: 12, UnusedRows: []int{18, 19}})
	c.SetProposal(ctx, "c2", &dto.LayoutProposalDTO{TotalBottles: 3})

	got, ok := c.GetProposal(ctx, "c1")
	require.True(t, ok)
	assert.Equal(t, 12, got.TotalBottles)
	assert.Equal(t, []int{18, 19}, got.UnusedRows)

	require.NoError(t, c.Invalidate(ctx, "c1"))
	_, ok = c.GetProposal(ctx, "c1")
	assert.False(t, ok)
	_, ok = c.GetProposal(ctx, "c2")
	assert.True(t, ok, "invalidar una cava no toca las demás")
	require.NoError(t, c.Invalidate(ctx, "c2"))
}

func TestNoop_NuncaAcierta(t *testing.T) {
	var c cache.Noop
	ctx := context.Background()
	c.SetProposal(ctx, "c1", &dto.LayoutProposalDTO{})
	_, ok := c.GetProposal(ctx, "c1")
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx, "c1"))
}

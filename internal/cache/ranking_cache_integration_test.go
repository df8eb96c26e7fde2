//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/mini-maxit/modelboard/internal/cache"
	"github.com/mini-maxit/modelboard/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) cache.RankingCache {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	c, err := cache.NewRedisRankingCache(context.Background(), cache.RedisConfig{Addr: addr, TTL: time.Minute})
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(context.Background()))
	return c
}

func TestRedisRankingCache_SetGetInvalidate(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()

	_, found, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	ranking := []models.ModelRecord{
		{ID: "a", Name: "RandomForest", F1Score: 0.95},
		{ID: "b", Name: "LogReg", F1Score: 0.80},
	}
	generation, err := c.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, generation, ranking))

	got, found, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, 0.95, got[0].F1Score)

	require.NoError(t, c.Invalidate(ctx))
	_, found, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisRankingCache_DropsFillFromOldGeneration(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()

	generation, err := c.Generation(ctx)
	require.NoError(t, err)

	// A write lands between the reader's store query and its fill.
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, generation, []models.ModelRecord{{ID: "deleted"}}))

	_, found, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	current, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, generation+1, current)
	require.NoError(t, c.Set(ctx, current, []models.ModelRecord{{ID: "fresh"}}))

	got, found, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "fresh", got[0].ID)
}

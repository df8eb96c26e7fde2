package cache_test

import (
	"context"
	"testing"

	"github.com/mini-maxit/modelboard/internal/cache"
	"github.com/mini-maxit/modelboard/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRankingCache_AlwaysMisses(t *testing.T) {
	c := cache.NewNoopRankingCache()
	ctx := context.Background()

	generation, err := c.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, generation, []models.ModelRecord{{ID: "a", F1Score: 0.9}}))

	records, found, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, records)
	assert.NoError(t, c.Invalidate(ctx))
}

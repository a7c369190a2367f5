package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "aggregate:gen:summer-2025", generationKey("summer-2025"))
	assert.Equal(t, "aggregate:summer-2025:4:2", resultKey("summer-2025", 4, 2))
	assert.NotEqual(t, resultKey("summer-2025", 0, 1), resultKey("summer-2025", 0, 2))
}

func TestDisabledCacheIsANoop(t *testing.T) {
	ctx := context.Background()

	var nilCache *AggregateCache
	assert.False(t, nilCache.Enabled())

	c := NewAggregateCache(nil, time.Minute, time.Second)
	assert.False(t, c.Enabled())

	res, err := c.Get(ctx, "summer-2025", 0)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.NoError(t, c.Set(ctx, "summer-2025", 0, nil))
	assert.NoError(t, c.Invalidate(ctx, "summer-2025"))
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	type row struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}

	require.NoError(t, c.Set(ctx, "k", []row{{ID: 1, Title: "Essay"}}, time.Minute))

	var got []row
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.Equal(t, []row{{ID: 1, Title: "Essay"}}, got)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()

	var dest string
	assert.ErrorIs(t, c.Get(context.Background(), "absent", &dest), ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	var dest string
	assert.ErrorIs(t, c.Get(ctx, "k", &dest), ErrCacheMiss)
}

func TestMemoryCacheNoTTLNeverExpires(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", 0))

	var dest string
	require.NoError(t, c.Get(ctx, "k", &dest))
	assert.Equal(t, "v", dest)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))

	var dest string
	assert.ErrorIs(t, c.Get(ctx, "k", &dest), ErrCacheMiss)

	assert.NoError(t, c.Delete(ctx, "k"), "deleting an absent key is fine")
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobeAPI/internal/types/wardrobe"
)

func setupTestCache(t *testing.T) (*miniredis.Miniredis, *WardrobeCache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewWardrobeCacheWithClient(client, time.Minute, nil)
}

func TestWardrobeCacheRoundTrip(t *testing.T) {
	mr, c := setupTestCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)

	items := []wardrobe.ClothingItem{
		{ID: "a", Name: "Oxford Shirt", Category: wardrobe.CategoryTops, Color: "White", Season: []string{"All"}},
	}
	c.Set(ctx, "u1", c.Generation(ctx, "u1"), items)
	assert.True(t, mr.Exists("wardrobe:items:u1"))

	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, items, got)

	_, ok = c.Get(ctx, "u2")
	assert.False(t, ok, "entries are per user")
}

func TestWardrobeCacheInvalidate(t *testing.T) {
	mr, c := setupTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "u1", c.Generation(ctx, "u1"), []wardrobe.ClothingItem{{ID: "a"}})
	c.Invalidate(ctx, "u1")

	assert.False(t, mr.Exists("wardrobe:items:u1"))
	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestWardrobeCacheSkipsListReadBeforeWrite(t *testing.T) {
	_, c := setupTestCache(t)
	ctx := context.Background()

	gen := c.Generation(ctx, "u1")
	assert.Equal(t, int64(0), gen)

	// a write lands while the reader is still querying Postgres
	c.Invalidate(ctx, "u1")
	c.Set(ctx, "u1", gen, []wardrobe.ClothingItem{{ID: "old"}})

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok, "stale list must not be cached")

	fresh := c.Generation(ctx, "u1")
	assert.Equal(t, int64(1), fresh)
	c.Set(ctx, "u1", fresh, []wardrobe.ClothingItem{{ID: "old"}, {ID: "new"}})
	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Len(t, got, 2)
}

func TestWardrobeCacheNoGenerationSkipsSet(t *testing.T) {
	mr, c := setupTestCache(t)
	c.Set(context.Background(), "u1", NoGeneration, []wardrobe.ClothingItem{{ID: "a"}})
	assert.False(t, mr.Exists("wardrobe:items:u1"))
}

func TestWardrobeCacheGenerationKeyExpires(t *testing.T) {
	mr, c := setupTestCache(t)
	c.Invalidate(context.Background(), "u1")

	assert.True(t, mr.Exists("wardrobe:items:u1:gen"))
	assert.Equal(t, generationTTL, mr.TTL("wardrobe:items:u1:gen"))
}

func TestWardrobeCacheExpires(t *testing.T) {
	mr, c := setupTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "u1", c.Generation(ctx, "u1"), []wardrobe.ClothingItem{{ID: "a"}})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestWardrobeCacheCorruptEntry(t *testing.T) {
	mr, c := setupTestCache(t)
	require.NoError(t, mr.Set("wardrobe:items:u1", "{not json"))

	_, ok := c.Get(context.Background(), "u1")
	assert.False(t, ok)
}

func TestNewWardrobeCacheRejectsBadURL(t *testing.T) {
	_, err := NewWardrobeCache(context.Background(), "", nil)
	assert.Error(t, err)

	_, err = NewWardrobeCache(context.Background(), "http://not-redis", nil)
	assert.Error(t, err)
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cafeteria-backend/internal/config"
)

type testStruct struct {
	Name  string
	Price int
}

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	in := testStruct{Name: "Борщ", Price: 150}
	require.NoError(t, cache.Set("dish:1", in, time.Minute))

	var out testStruct
	found, err := cache.Get("dish:1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestGet_Missing(t *testing.T) {
	cache := setupTestCache(t)

	var out testStruct
	found, err := cache.Get("missing", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("menu:today:lunch", testStruct{Name: "Плов"}, time.Minute))
	require.NoError(t, cache.Invalidate("menu:today:lunch"))

	var out testStruct
	found, err := cache.Get("menu:today:lunch", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

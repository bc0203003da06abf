package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productView struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func TestViewCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewViewCache[productView](client, "product", time.Minute, zerolog.Nop())
	ctx := context.Background()

	_, ok := cache.Get(ctx, "p1")
	assert.False(t, ok)

	cache.Set(ctx, "p1", &productView{ID: "p1", Price: 9.5})
	got, ok := cache.Get(ctx, "p1")
	require.True(t, ok)
	assert.Equal(t, 9.5, got.Price)
	assert.True(t, mr.Exists("product:p1"))
	assert.Equal(t, time.Minute, mr.TTL("product:p1"))

	cache.Delete(ctx, "p1")
	_, ok = cache.Get(ctx, "p1")
	assert.False(t, ok)
}

func TestNilViewCacheAlwaysMisses(t *testing.T) {
	cache := NewViewCache[productView](nil, "product", 0, zerolog.Nop())
	assert.Nil(t, cache)

	cache.Set(context.Background(), "p1", &productView{ID: "p1"})
	_, ok := cache.Get(context.Background(), "p1")
	assert.False(t, ok)
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "://nope", zerolog.Nop())
	assert.Error(t, err)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0", zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}

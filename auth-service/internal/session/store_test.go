package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, store Store, now time.Time) {
	ctx := context.Background()
	s := Session{Token: "tok-1", UserID: "usr-1", IssuedAt: now, ExpiresAt: now.Add(24 * time.Hour)}

	_, err := store.Get(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, s))
	got, err := store.Get(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, got.UserID)
	assert.True(t, got.ExpiresAt.Equal(s.ExpiresAt))

	s.UserID = "usr-2"
	require.NoError(t, store.Put(ctx, s))
	got, err = store.Get(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "usr-2", got.UserID)

	require.NoError(t, store.Delete(ctx, s.Token))
	assert.ErrorIs(t, store.Delete(ctx, s.Token), ErrNotFound)
	_, err = store.Get(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore(), time.Now())
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Put(ctx, Session{Token: "old", ExpiresAt: now}))
	require.NoError(t, store.Put(ctx, Session{Token: "new", ExpiresAt: now.Add(time.Hour)}))

	n, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = store.Get(ctx, "new")
	assert.NoError(t, err)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	now := time.Now()
	storeContract(t, NewRedisStore(client, func() time.Time { return now }), now)
}

func TestRedisStoreTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	now := time.Now()
	store := NewRedisStore(client, func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Session{Token: "t", UserID: "u", IssuedAt: now, ExpiresAt: now.Add(time.Hour)}))
	assert.Equal(t, time.Hour+redisGrace, mr.TTL(redisKeyPrefix+"t"))

	// Already expired sessions still get a short lifetime.
	require.NoError(t, store.Put(ctx, Session{Token: "gone", UserID: "u", ExpiresAt: now.Add(-time.Hour)}))
	assert.Equal(t, redisGrace, mr.TTL(redisKeyPrefix+"gone"))

	mr.FastForward(time.Hour + 2*redisGrace)
	_, err := store.Get(ctx, "t")
	assert.ErrorIs(t, err, ErrNotFound)
}

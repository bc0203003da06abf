package redis

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ViewCache is a generic JSON-backed Redis cache for read model projections.
// Bind it to a view type T; keys are namespaced by prefix. A TTL of 0 keeps
// keys until they are deleted.
type ViewCache[T any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
	log    zerolog.Logger
}

// NewViewCache returns a cache, or nil when client is nil. A nil cache is
// always a miss.
func NewViewCache[T any](client *goredis.Client, prefix string, ttl time.Duration, log zerolog.Logger) *ViewCache[T] {
	if client == nil {
		return nil
	}
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl, log: log}
}

func (c *ViewCache[T]) key(id string) string {
	return c.prefix + ":" + id
}

// Get returns (nil, false) on any miss or decode error.
func (c *ViewCache[T]) Get(ctx context.Context, id string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set stores value. Failures are logged, not returned.
func (c *ViewCache[T]) Set(ctx context.Context, id string, value *T) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", c.key(id)).Msg("view cache marshal")
		return
	}
	if err := c.client.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", c.key(id)).Msg("view cache write")
	}
}

func (c *ViewCache[T]) Delete(ctx context.Context, id string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", c.key(id)).Msg("view cache delete")
	}
}

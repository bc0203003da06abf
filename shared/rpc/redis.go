package rpc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const bodyField = "body"

// RedisTransport maps queues onto Redis streams. All consumers of a queue
// join one consumer group named after the queue, so instances of a service
// share its work. Messages are acknowledged as soon as they are read.
type RedisTransport struct {
	client   *redis.Client
	consumer string
	maxLen   int64
	block    time.Duration
	batch    int64
	log      zerolog.Logger
}

type RedisOptions struct {
	// MaxLen caps each stream (approximately). Zero means 10000.
	MaxLen int64
	// Block bounds one XREADGROUP call. Zero means 2s.
	Block time.Duration
	// Batch is the read count per call. Zero means 16.
	Batch int64
}

func NewRedisTransport(client *redis.Client, opts RedisOptions, log zerolog.Logger) *RedisTransport {
	if opts.MaxLen == 0 {
		opts.MaxLen = 10000
	}
	if opts.Block == 0 {
		opts.Block = 2 * time.Second
	}
	if opts.Batch == 0 {
		opts.Batch = 16
	}
	host, _ := os.Hostname()
	return &RedisTransport{
		client:   client,
		consumer: host + "-" + uuid.NewString()[:8],
		maxLen:   opts.MaxLen,
		block:    opts.Block,
		batch:    opts.Batch,
		log:      log.With().Str("component", "rpc.redis").Logger(),
	}
}

func (t *RedisTransport) Publish(ctx context.Context, queue string, body []byte) error {
	args := &redis.XAddArgs{
		Stream: queue,
		MaxLen: t.maxLen,
		Approx: true,
		Values: map[string]any{bodyField: body},
	}
	if err := t.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", queue, err)
	}
	return nil
}

func (t *RedisTransport) Consume(ctx context.Context, queue string, fn Delivery) error {
	if err := t.ensureGroup(ctx, queue); err != nil {
		return err
	}
	t.log.Info().Str("queue", queue).Str("consumer", t.consumer).Msg("consumer started")

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 0

	for {
		if ctx.Err() != nil {
			t.log.Info().Str("queue", queue).Msg("consumer stopping")
			return nil
		}
		err := t.read(ctx, queue, fn)
		if err == nil {
			bo.Reset()
			continue
		}
		if ctx.Err() != nil {
			continue
		}

		wait := bo.NextBackOff()
		t.log.Warn().Err(err).Str("queue", queue).Dur("retry_in", wait).Msg("stream read failed")
		select {
		case <-ctx.Done():
		case <-time.After(wait):
		}
		// Redis restarts drop the group along with the stream.
		if strings.HasPrefix(err.Error(), "NOGROUP") {
			if gerr := t.ensureGroup(ctx, queue); gerr != nil {
				t.log.Warn().Err(gerr).Str("queue", queue).Msg("recreate consumer group")
			}
		}
	}
}

func (t *RedisTransport) ensureGroup(ctx context.Context, queue string) error {
	err := t.client.XGroupCreateMkStream(ctx, queue, queue, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group for %s: %w", queue, err)
	}
	return nil
}

func (t *RedisTransport) read(ctx context.Context, queue string, fn Delivery) error {
	streams, err := t.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    queue,
		Consumer: t.consumer,
		Streams:  []string{queue, ">"},
		Count:    t.batch,
		Block:    t.block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			if err := t.client.XAck(ctx, queue, queue, msg.ID).Err(); err != nil {
				t.log.Warn().Err(err).Str("id", msg.ID).Msg("ack failed")
			}
			body, ok := msg.Values[bodyField].(string)
			if !ok {
				t.log.Warn().Str("id", msg.ID).Str("queue", queue).Msg("message without body dropped")
				continue
			}
			fn(ctx, []byte(body))
		}
	}
	return nil
}

// DeleteQueue drops the stream behind queue along with its consumer group.
func (t *RedisTransport) DeleteQueue(ctx context.Context, queue string) error {
	if err := t.client.Del(ctx, queue).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", queue, err)
	}
	return nil
}

func (t *RedisTransport) Ping(ctx context.Context) error {
	return t.client.Ping(ctx).Err()
}

func (t *RedisTransport) Close() error {
	return t.client.Close()
}

package rpc

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("rpc: transport closed")

// Delivery handles one message body taken off a queue.
type Delivery func(ctx context.Context, body []byte)

// Transport moves opaque message bodies between named queues. Consumers of
// the same queue compete for messages; each message is delivered at most once.
type Transport interface {
	Publish(ctx context.Context, queue string, body []byte) error
	// Consume blocks, invoking fn for each message, until ctx is done.
	Consume(ctx context.Context, queue string, fn Delivery) error
	Ping(ctx context.Context) error
	Close() error
}

// MemoryTransport is an in-process Transport backed by buffered channels.
type MemoryTransport struct {
	mu     sync.Mutex
	queues map[string]chan []byte
	closed bool
	size   int
}

func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{queues: make(map[string]chan []byte), size: 1024}
}

func (m *MemoryTransport) queue(name string) (chan []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	q, ok := m.queues[name]
	if !ok {
		q = make(chan []byte, m.size)
		m.queues[name] = q
	}
	return q, nil
}

func (m *MemoryTransport) Publish(ctx context.Context, queue string, body []byte) error {
	q, err := m.queue(queue)
	if err != nil {
		return err
	}
	msg := append([]byte(nil), body...)
	select {
	case q <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MemoryTransport) Consume(ctx context.Context, queue string, fn Delivery) error {
	q, err := m.queue(queue)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case body := <-q:
			fn(ctx, body)
		}
	}
}

func (m *MemoryTransport) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close rejects further publishes. Running consumers stop with their context.
func (m *MemoryTransport) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

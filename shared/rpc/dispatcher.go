package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/metrics"
)

// DefaultTimeout applies when neither the call nor the config sets one.
const DefaultTimeout = 5 * time.Second

type DispatcherConfig struct {
	// Name prefixes the private reply queue.
	Name string
	// Queues maps service names to their command queues.
	Queues  map[string]string
	Timeout time.Duration
}

// Dispatcher sends commands and matches replies to callers by correlation
// id. Run must be running for any Dispatch to complete.
type Dispatcher struct {
	transport Transport
	queues    map[string]string
	replyTo   string
	timeout   time.Duration
	log       zerolog.Logger

	mu      sync.Mutex
	waiters map[string]chan Reply
}

func NewDispatcher(transport Transport, cfg DispatcherConfig, log zerolog.Logger) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Name == "" {
		cfg.Name = "dispatcher"
	}
	queues := make(map[string]string, len(cfg.Queues))
	for svc, q := range cfg.Queues {
		queues[svc] = q
	}
	return &Dispatcher{
		transport: transport,
		queues:    queues,
		replyTo:   "reply." + cfg.Name + "." + uuid.NewString(),
		timeout:   cfg.Timeout,
		log:       log.With().Str("component", "rpc.dispatcher").Logger(),
		waiters:   make(map[string]chan Reply),
	}
}

// ReplyQueue is the queue this dispatcher receives replies on.
func (d *Dispatcher) ReplyQueue() string {
	return d.replyTo
}

// Services lists the known service names.
func (d *Dispatcher) Services() []string {
	out := make([]string, 0, len(d.queues))
	for svc := range d.queues {
		out = append(out, svc)
	}
	return out
}

// Run consumes the reply queue until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.log.Info().Str("reply_to", d.replyTo).Msg("dispatcher listening for replies")
	return d.transport.Consume(ctx, d.replyTo, d.deliver)
}

func (d *Dispatcher) deliver(_ context.Context, body []byte) {
	var r Reply
	if err := json.Unmarshal(body, &r); err != nil {
		d.log.Warn().Err(err).Msg("malformed reply dropped")
		return
	}

	d.mu.Lock()
	ch, ok := d.waiters[r.ID]
	if ok {
		delete(d.waiters, r.ID)
	}
	d.mu.Unlock()

	if !ok {
		metrics.LateReplies.Inc()
		d.log.Debug().Str("id", r.ID).Msg("reply without waiter discarded")
		return
	}
	ch <- r
}

// Pending reports the number of dispatches waiting for a reply.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.waiters)
}

func (d *Dispatcher) register(id string) chan Reply {
	ch := make(chan Reply, 1)
	d.mu.Lock()
	d.waiters[id] = ch
	d.mu.Unlock()
	metrics.DispatchPending.Inc()
	return ch
}

func (d *Dispatcher) forget(id string) {
	d.mu.Lock()
	delete(d.waiters, id)
	d.mu.Unlock()
	metrics.DispatchPending.Dec()
}

// Dispatch sends command to service and waits up to timeout for the reply.
// A non-positive timeout uses the configured default. A failed reply is
// returned as its *apperr.Error.
func (d *Dispatcher) Dispatch(ctx context.Context, service, command string, payload any, timeout time.Duration) (data json.RawMessage, err error) {
	queue, ok := d.queues[service]
	if !ok {
		return nil, apperr.ServiceUnavailable(fmt.Sprintf("unknown service %q", service))
	}
	if timeout <= 0 {
		timeout = d.timeout
	}

	env, err := NewEnvelope(command, payload, d.replyTo)
	if err != nil {
		return nil, apperr.Validation(err.Error(), nil)
	}
	body, err := json.Marshal(env)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	start := time.Now()
	defer func() {
		metrics.DispatchDuration.WithLabelValues(service, command).Observe(time.Since(start).Seconds())
		outcome := "ok"
		if err != nil {
			outcome = string(apperr.From(err).Kind)
		}
		metrics.DispatchTotal.WithLabelValues(service, command, outcome).Inc()
	}()

	ch := d.register(env.ID)
	defer d.forget(env.ID)

	if err := d.transport.Publish(ctx, queue, body); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, apperr.Canceled(err)
		}
		d.log.Warn().Err(err).Str("service", service).Str("command", command).Msg("publish failed")
		return nil, apperr.ServiceUnavailable(service + " service unavailable").WithCause(err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		if !r.OK {
			if r.Error == nil {
				return nil, apperr.Internal(errors.New("failed reply without error"))
			}
			return nil, r.Error
		}
		return r.Data, nil
	case <-timer.C:
		d.log.Warn().Str("service", service).Str("command", command).Str("id", env.ID).Dur("timeout", timeout).Msg("dispatch timed out")
		return nil, apperr.UpstreamTimeout(service, command)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperr.UpstreamTimeout(service, command)
		}
		return nil, apperr.Canceled(ctx.Err())
	}
}

// Call dispatches with the default timeout and decodes the reply into out,
// which may be nil.
func (d *Dispatcher) Call(ctx context.Context, service, command string, payload, out any) error {
	data, err := d.Dispatch(ctx, service, command, payload, 0)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperr.Internal(fmt.Errorf("decode %s reply: %w", command, err))
	}
	return nil
}

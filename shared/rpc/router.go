package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/apperr"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/metrics"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/validation"
)

// HandlerFunc runs one command. The returned value is marshaled into the
// reply data.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) (any, error)

// handlerTimeout bounds a handler that outlives the consumer's context.
const handlerTimeout = 30 * time.Second

// Router dispatches envelopes taken from a service queue to registered
// handlers and publishes the replies.
type Router struct {
	service   string
	transport Transport
	log       zerolog.Logger

	maxAge time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	inflight sync.WaitGroup
}

type RouterOption func(*Router)

// WithMaxAge makes Serve drop envelopes sent more than d ago. Their callers
// have already timed out, so running them would only cause side effects
// nobody waits for.
func WithMaxAge(d time.Duration) RouterOption {
	return func(r *Router) { r.maxAge = d }
}

// NewRouter returns a router that answers the health command.
func NewRouter(service string, transport Transport, log zerolog.Logger, opts ...RouterOption) *Router {
	r := &Router{
		service:   service,
		transport: transport,
		log:       log.With().Str("component", "rpc.router").Logger(),
		now:       time.Now,
		handlers:  make(map[string]HandlerFunc),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Handle(HealthCommand, func(context.Context, json.RawMessage) (any, error) {
		return map[string]string{"status": "ok", "service": service}, nil
	})
	return r
}

// Handle registers h for command. Registering a command twice panics.
func (r *Router) Handle(command string, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.handlers[command]; dup {
		panic(fmt.Sprintf("rpc: handler for %q already registered", command))
	}
	r.handlers[command] = h
}

// Commands lists the registered commands.
func (r *Router) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for c := range r.handlers {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Typed adapts a function over concrete request and response types. The
// payload is decoded into Req and checked against its validate tags before fn
// runs.
func Typed[Req, Res any](fn func(ctx context.Context, req Req) (Res, error)) HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		var req Req
		if len(payload) > 0 && string(payload) != "null" {
			if err := json.Unmarshal(payload, &req); err != nil {
				return nil, apperr.Validation("Invalid payload: "+err.Error(), nil)
			}
		}
		if err := validation.Check(req); err != nil {
			return nil, err
		}
		return fn(ctx, req)
	}
}

// Dispatch runs the handler for env and returns its reply. It never panics.
func (r *Router) Dispatch(ctx context.Context, env Envelope) (reply Reply) {
	r.mu.RLock()
	h, ok := r.handlers[env.Command]
	r.mu.RUnlock()
	if !ok {
		return failure(env.ID, apperr.UnknownCommand(env.Command))
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error().
				Str("command", env.Command).
				Str("id", env.ID).
				Str("stack", string(debug.Stack())).
				Msgf("handler panic: %v", p)
			reply = failure(env.ID, apperr.Internal(fmt.Errorf("panic: %v", p)))
		}
	}()

	data, err := h(ctx, env.Payload)
	if err != nil {
		ae := apperr.From(err)
		if ae.Status() >= 500 {
			r.log.Error().Err(err).Str("command", env.Command).Str("id", env.ID).Msg("command failed")
		}
		return failure(env.ID, ae)
	}
	return success(env.ID, data)
}

// Serve consumes queue until ctx is done, handling each envelope on its own
// goroutine, then waits for in-flight handlers to reply.
func (r *Router) Serve(ctx context.Context, queue string) error {
	r.log.Info().Str("queue", queue).Strs("commands", r.Commands()).Msg("router serving")
	err := r.transport.Consume(ctx, queue, func(ctx context.Context, body []byte) {
		var env Envelope
		if err := json.Unmarshal(body, &env); err != nil {
			r.log.Warn().Err(err).Str("queue", queue).Msg("malformed envelope dropped")
			return
		}
		if r.stale(env) {
			metrics.CommandsHandled.WithLabelValues(r.service, env.Command, "EXPIRED").Inc()
			r.log.Warn().Str("command", env.Command).Str("id", env.ID).Time("sent_at", env.SentAt).Msg("stale envelope dropped")
			return
		}
		r.inflight.Add(1)
		go func() {
			defer r.inflight.Done()
			r.serveOne(ctx, env)
		}()
	})
	r.inflight.Wait()
	return err
}

func (r *Router) stale(env Envelope) bool {
	if r.maxAge <= 0 || env.SentAt.IsZero() {
		return false
	}
	return r.now().Sub(env.SentAt) > r.maxAge
}

func (r *Router) serveOne(ctx context.Context, env Envelope) {
	// Shutdown must not abort a handler that already started.
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handlerTimeout)
	defer cancel()

	reply := r.Dispatch(hctx, env)
	outcome := "ok"
	if !reply.OK {
		outcome = string(reply.Error.Kind)
	}
	metrics.CommandsHandled.WithLabelValues(r.service, env.Command, outcome).Inc()
	r.log.Debug().Str("command", env.Command).Str("id", env.ID).Str("outcome", outcome).Msg("command handled")

	if env.ReplyTo == "" {
		return
	}
	body, err := json.Marshal(reply)
	if err != nil {
		r.log.Error().Err(err).Str("id", env.ID).Msg("marshal reply")
		return
	}
	if err := r.transport.Publish(hctx, env.ReplyTo, body); err != nil {
		r.log.Error().Err(err).Str("id", env.ID).Str("reply_to", env.ReplyTo).Msg("publish reply")
	}
}

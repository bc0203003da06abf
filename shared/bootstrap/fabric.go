package bootstrap

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	sharedredis "github.com/Nirob844/mini-e-commerce-microservices/shared/redis"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/rpc"
)

// Fabric is a service's connection to the command broker.
type Fabric struct {
	Transport  *rpc.RedisTransport
	Dispatcher *rpc.Dispatcher
	Router     *rpc.Router

	queue string
	log   zerolog.Logger
}

// ConnectFabric dials the broker and builds a router for cfg.Service and a
// dispatcher that can address every configured service.
func ConnectFabric(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Fabric, error) {
	client, err := sharedredis.Connect(ctx, cfg.Broker.URL, log)
	if err != nil {
		return nil, err
	}
	transport := rpc.NewRedisTransport(client, rpc.RedisOptions{Block: cfg.Broker.Block}, log)
	return &Fabric{
		Transport: transport,
		Dispatcher: rpc.NewDispatcher(transport, rpc.DispatcherConfig{
			Name:    cfg.Service,
			Queues:  cfg.Services,
			Timeout: cfg.Broker.Timeout,
		}, log),
		// Twice the dispatch timeout leaves room for clock skew between hosts.
		Router: rpc.NewRouter(cfg.Service, transport, log, rpc.WithMaxAge(2*cfg.Broker.Timeout)),
		queue:  cfg.Broker.Queue,
		log:    log,
	}, nil
}

// Tasks serves the reply queue and, when the service has one, its command
// queue.
func (f *Fabric) Tasks() []Task {
	tasks := []Task{f.Dispatcher.Run}
	if f.queue != "" {
		tasks = append(tasks, func(ctx context.Context) error { return f.Router.Serve(ctx, f.queue) })
	}
	return tasks
}

// Close drops the private reply stream and disconnects from the broker.
func (f *Fabric) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.Transport.DeleteQueue(ctx, f.Dispatcher.ReplyQueue()); err != nil {
		f.log.Warn().Err(err).Msg("reply stream left behind")
	}
	return f.Transport.Close()
}

// ConnectCache returns a Redis client for read-model caching, or nil when
// caching is disabled or Redis is unreachable.
func ConnectCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) *goredis.Client {
	if cfg.Redis.URL == "" {
		return nil
	}
	client, err := sharedredis.Connect(ctx, cfg.Redis.URL, log)
	if err != nil {
		log.Warn().Err(err).Msg("read-model cache disabled")
		return nil
	}
	return client
}

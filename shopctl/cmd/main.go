package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	sharedredis "github.com/Nirob844/mini-e-commerce-microservices/shared/redis"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/rpc"
	"github.com/Nirob844/mini-e-commerce-microservices/shopctl/internal/command"
)

func main() {
	if err := command.App(connect).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// connect dials the broker and runs a dispatcher until the release func is
// called.
func connect(c *cli.Context) (command.Dispatcher, func(), error) {
	log := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	client, err := sharedredis.Connect(c.Context, c.String("broker"), log)
	if err != nil {
		return nil, nil, err
	}
	transport := rpc.NewRedisTransport(client, rpc.RedisOptions{}, log)
	d := rpc.NewDispatcher(transport, rpc.DispatcherConfig{
		Name:    "shopctl",
		Queues:  config.DefaultQueues(),
		Timeout: c.Duration("timeout"),
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.Run(ctx)
	}()
	return d, func() {
		cancel()
		<-done
		// Reply streams are private to this run.
		_ = transport.DeleteQueue(context.Background(), d.ReplyQueue())
		_ = transport.Close()
	}, nil
}

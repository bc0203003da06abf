package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/Nirob844/mini-e-commerce-microservices/api-gateway/internal/handler"
	"github.com/Nirob844/mini-e-commerce-microservices/api-gateway/internal/proxy"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/authclient"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/bootstrap"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
)

func main() {
	cfg, log, err := bootstrap.Load(config.Gateway, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("api gateway failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	fabric, err := bootstrap.ConnectFabric(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer fabric.Close()

	engine := bootstrap.NewEngine(config.Gateway, log)
	engine.Use(
		middleware.CORS(cfg.HTTP.CORS),
		middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	)

	authProxy := proxy.New("Auth", cfg.Upstream.Auth, "/api", cfg.Broker.Timeout, log)
	gateway := handler.NewGatewayHandler(fabric.Dispatcher, handler.DefaultHealthTimeout)
	gateway.Routes(engine, middleware.AuthMiddleware(authclient.New(fabric.Dispatcher)), authProxy.Handler())

	log.Info().Str("auth_upstream", cfg.Upstream.Auth).Msg("api gateway configured")
	tasks := append(fabric.Tasks(), bootstrap.HTTPServer(cfg.HTTP.Port, engine, log))
	return bootstrap.Run(ctx, log, tasks...)
}

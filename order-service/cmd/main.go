package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	ordercmd "github.com/Nirob844/mini-e-commerce-microservices/order-service/internal/command"
	"github.com/Nirob844/mini-e-commerce-microservices/order-service/internal/handler"
	orderqry "github.com/Nirob844/mini-e-commerce-microservices/order-service/internal/query"
	"github.com/Nirob844/mini-e-commerce-microservices/order-service/internal/repository"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/authclient"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/bootstrap"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
)

func main() {
	cfg, log, err := bootstrap.Load(config.Order, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("order service failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	db, err := bootstrap.OpenPostgres(ctx, cfg.Database.URL, log)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := bootstrap.Migrate(ctx, db, repository.Schema); err != nil {
		return err
	}

	fabric, err := bootstrap.ConnectFabric(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer fabric.Close()

	// --- CQRS wiring ---
	orders := repository.NewOrderRepository(db)
	orderHandler := handler.NewOrderHandler(
		ordercmd.NewOrderCommandService(orders),
		orderqry.NewOrderQueryService(orders),
	)
	orderHandler.RegisterCommands(fabric.Router)

	engine := bootstrap.NewEngine(config.Order, log)
	orderHandler.Routes(engine, middleware.AuthMiddleware(authclient.New(fabric.Dispatcher)))

	tasks := append(fabric.Tasks(), bootstrap.HTTPServer(cfg.HTTP.Port, engine, log))
	return bootstrap.Run(ctx, log, tasks...)
}

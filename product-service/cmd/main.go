package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	productcmd "github.com/Nirob844/mini-e-commerce-microservices/product-service/internal/command"
	"github.com/Nirob844/mini-e-commerce-microservices/product-service/internal/handler"
	productqry "github.com/Nirob844/mini-e-commerce-microservices/product-service/internal/query"
	"github.com/Nirob844/mini-e-commerce-microservices/product-service/internal/repository"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/authclient"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/bootstrap"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
)

func main() {
	cfg, log, err := bootstrap.Load(config.Product, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("product service failed")
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

	cache := bootstrap.ConnectCache(ctx, cfg, log)
	if cache != nil {
		defer cache.Close()
	}

	fabric, err := bootstrap.ConnectFabric(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer fabric.Close()

	// --- CQRS wiring ---
	writeRepo := repository.NewProductWriteRepository(db)
	readRepo := repository.NewProductReadRepository(writeRepo, cache, log)

	productHandler := handler.NewProductHandler(
		productcmd.NewProductCommandService(writeRepo, readRepo),
		productqry.NewProductQueryService(readRepo),
	)
	productHandler.RegisterCommands(fabric.Router)

	engine := bootstrap.NewEngine(config.Product, log)
	productHandler.Routes(engine, middleware.AuthMiddleware(authclient.New(fabric.Dispatcher)))

	tasks := append(fabric.Tasks(), bootstrap.HTTPServer(cfg.HTTP.Port, engine, log))
	return bootstrap.Run(ctx, log, tasks...)
}

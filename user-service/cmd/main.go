package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/authclient"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/bootstrap"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
	usercmd "github.com/Nirob844/mini-e-commerce-microservices/user-service/internal/command"
	"github.com/Nirob844/mini-e-commerce-microservices/user-service/internal/handler"
	userqry "github.com/Nirob844/mini-e-commerce-microservices/user-service/internal/query"
	"github.com/Nirob844/mini-e-commerce-microservices/user-service/internal/repository"
)

func main() {
	cfg, log, err := bootstrap.Load(config.User, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("user service failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	// Database connection (write store)
	db, err := bootstrap.OpenPostgres(ctx, cfg.Database.URL, log)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := bootstrap.Migrate(ctx, db, repository.Schema); err != nil {
		return err
	}

	// Redis connection (read model cache)
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
	writeRepo := repository.NewUserWriteRepository(db)
	readRepo := repository.NewUserReadRepository(writeRepo, cache, log)

	commandSvc := usercmd.NewUserCommandService(writeRepo, readRepo)
	querySvc := userqry.NewUserQueryService(readRepo)

	userHandler := handler.NewUserHandler(commandSvc, querySvc)
	userHandler.RegisterCommands(fabric.Router)

	engine := bootstrap.NewEngine(config.User, log)
	userHandler.Routes(engine, middleware.AuthMiddleware(authclient.New(fabric.Dispatcher)))

	tasks := append(fabric.Tasks(), bootstrap.HTTPServer(cfg.HTTP.Port, engine, log))
	return bootstrap.Run(ctx, log, tasks...)
}

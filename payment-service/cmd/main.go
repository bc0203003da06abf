package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	paymentcmd "github.com/Nirob844/mini-e-commerce-microservices/payment-service/internal/command"
	"github.com/Nirob844/mini-e-commerce-microservices/payment-service/internal/handler"
	paymentqry "github.com/Nirob844/mini-e-commerce-microservices/payment-service/internal/query"
	"github.com/Nirob844/mini-e-commerce-microservices/payment-service/internal/repository"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/authclient"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/bootstrap"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
)

func main() {
	cfg, log, err := bootstrap.Load(config.Payment, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("payment service failed")
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
	payments := repository.NewPaymentRepository(db)
	paymentHandler := handler.NewPaymentHandler(
		paymentcmd.NewPaymentCommandService(payments),
		paymentqry.NewPaymentQueryService(payments),
	)
	paymentHandler.RegisterCommands(fabric.Router)

	engine := bootstrap.NewEngine(config.Payment, log)
	paymentHandler.Routes(engine, middleware.AuthMiddleware(authclient.New(fabric.Dispatcher)))

	tasks := append(fabric.Tasks(), bootstrap.HTTPServer(cfg.HTTP.Port, engine, log))
	return bootstrap.Run(ctx, log, tasks...)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/Nirob844/mini-e-commerce-microservices/auth-service/internal/handler"
	"github.com/Nirob844/mini-e-commerce-microservices/auth-service/internal/repository"
	"github.com/Nirob844/mini-e-commerce-microservices/auth-service/internal/service"
	"github.com/Nirob844/mini-e-commerce-microservices/auth-service/internal/session"
	"github.com/Nirob844/mini-e-commerce-microservices/auth-service/internal/token"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/bootstrap"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	sharedredis "github.com/Nirob844/mini-e-commerce-microservices/shared/redis"
)

func main() {
	cfg, log, err := bootstrap.Load(config.Auth, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("auth service failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	if err := cfg.RequireSecret(); err != nil {
		return err
	}
	ctx := context.Background()

	fabric, err := bootstrap.ConnectFabric(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer fabric.Close()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	codec, err := token.NewCodec(cfg.Auth.Secret, token.WithTTL(cfg.Auth.TTL))
	if err != nil {
		return err
	}
	sessions := session.NewManager(codec, store, nil, log)

	// --- wiring ---
	authSvc := service.NewAuthService(repository.NewUserRepository(fabric.Dispatcher), sessions)
	authHandler := handler.NewAuthHandler(authSvc)
	authHandler.RegisterCommands(fabric.Router)

	engine := bootstrap.NewEngine(config.Auth, log)
	authHandler.Routes(engine)

	tasks := append(fabric.Tasks(),
		bootstrap.HTTPServer(cfg.HTTP.Port, engine, log),
		func(ctx context.Context) error { return sessions.RunJanitor(ctx, cfg.Session.Janitor) },
	)
	return bootstrap.Run(ctx, log, tasks...)
}

// openStore selects the session backend named by session.store.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (session.Store, func(), error) {
	switch cfg.Session.Store {
	case "postgres", "":
		db, err := bootstrap.OpenPostgres(ctx, cfg.Database.URL, log)
		if err != nil {
			return nil, nil, err
		}
		if err := bootstrap.Migrate(ctx, db, session.Schema); err != nil {
			db.Close()
			return nil, nil, err
		}
		return session.NewPostgresStore(db), func() { db.Close() }, nil
	case "redis":
		client, err := sharedredis.Connect(ctx, cfg.Redis.URL, log)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, nil), func() { client.Close() }, nil
	case "memory":
		log.Warn().Msg("sessions are kept in memory and lost on restart")
		return session.NewMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

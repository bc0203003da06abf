// Package bootstrap holds the start-up and shutdown plumbing shared by the
// service binaries.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/Nirob844/mini-e-commerce-microservices/shared/config"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/logger"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/metrics"
	"github.com/Nirob844/mini-e-commerce-microservices/shared/middleware"
)

const shutdownTimeout = 10 * time.Second

// Load parses --config from args and loads the configuration and logger for
// service.
func Load(service string, args []string) (*config.Config, zerolog.Logger, error) {
	fs := pflag.NewFlagSet(service, pflag.ContinueOnError)
	path := fs.StringP("config", "c", "", "path to a YAML config file")
	if err := fs.Parse(args); err != nil {
		return nil, zerolog.Nop(), err
	}
	cfg, err := config.Load(service, *path)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger.New(service, cfg.Log.Level, cfg.Log.Format), nil
}

// OpenPostgres opens url with lib/pq and pings until the database answers or
// the retry budget is spent.
func OpenPostgres(ctx context.Context, url string, log zerolog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pctx)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("postgres not ready")
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(bo, ctx), notify); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")
	return db, nil
}

// Migrate executes the schema statements in order. They must be idempotent.
func Migrate(ctx context.Context, db *sql.DB, statements ...string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// NewEngine returns a release-mode gin engine with access logging, panic
// recovery, GET /health and GET /metrics.
func NewEngine(service string, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(middleware.LoggingMiddleware(log), middleware.Recovery(log))
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": service})
	})
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	return engine
}

// Task is a long-running component stopped by cancelling its context.
type Task func(ctx context.Context) error

// HTTPServer serves handler on :port until ctx is done, then shuts down
// gracefully.
func HTTPServer(port string, handler http.Handler, log zerolog.Logger) Task {
	return func(ctx context.Context) error {
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errc := make(chan error, 1)
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("http server listening")
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("http server shutting down")
		return srv.Shutdown(sctx)
	}
}

// Run starts every task and blocks until SIGINT/SIGTERM or the first task
// failure, then cancels the rest and waits for them.
func Run(ctx context.Context, log zerolog.Logger, tasks ...Task) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		g.Go(func() error { return task(gctx) })
	}
	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("stopped with error")
		return err
	}
	log.Info().Msg("stopped")
	return nil
}

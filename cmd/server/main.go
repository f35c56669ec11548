// Command server runs the user account HTTP API.
//
// @title        User Service API
// @version      1.0
// @description  Multi-tenant user accounts: registration, login and page-scoped user management.
// @BasePath     /api/v1/user
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pagescope/user-service/internal/api"
	"github.com/pagescope/user-service/internal/api/metrics"
	"github.com/pagescope/user-service/internal/infrastructure/config"
	"github.com/pagescope/user-service/internal/infrastructure/crypto"
	"github.com/pagescope/user-service/internal/infrastructure/db/mongo"
	"github.com/pagescope/user-service/internal/infrastructure/db/redis"
	"github.com/pagescope/user-service/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "user-service",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongo.NewUserDirectory(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("user lookup cache enabled")
	}

	pool := crypto.NewWorkerPool(cfg.Auth.HashWorkers, log)
	pool.ObserveDepth(metrics.ObserveHashQueue)
	pool.Start(ctx)

	hasher := crypto.NewBcryptHasher(pool, crypto.DefaultCost)
	hasher.ObserveDuration(func(op string, seconds float64) {
		metrics.HashDuration.WithLabelValues(op).Observe(seconds)
	})

	e := api.NewRouter(api.Options{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Hasher: hasher,
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

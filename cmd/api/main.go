package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/placesdir/places-api/internal/api"
	"github.com/placesdir/places-api/internal/infrastructure/cleanup"
	"github.com/placesdir/places-api/internal/infrastructure/config"
	mongodb "github.com/placesdir/places-api/internal/infrastructure/db/mongo"
	redisdb "github.com/placesdir/places-api/internal/infrastructure/db/redis"
	"github.com/placesdir/places-api/internal/infrastructure/storage"
	"github.com/placesdir/places-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	userRepo := mongodb.NewUserRepository(db)
	placeRepo := mongodb.NewPlaceRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := placeRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create place indexes")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Upload store & orphan sweeper ---
	files, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.MaxBytes, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise upload store")
	}

	sweeper := cleanup.NewSweeper(cfg.Upload.Dir, 0, 0, userRepo, placeRepo, log)
	sweeper.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(client, db, rdb, files, cfg, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("places api started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

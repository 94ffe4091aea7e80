package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cottontrade/marketplace-api/internal/api"
	"github.com/cottontrade/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/cottontrade/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/cottontrade/marketplace-api/internal/infrastructure/db/redis"
	"github.com/cottontrade/marketplace-api/internal/infrastructure/queue"
	"github.com/cottontrade/marketplace-api/pkg/logger"
)

// @title        Cotton Waste Trading API
// @version      1.0
// @description  Role-based marketplace API for cotton waste trading.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	dispatcher := queue.NewActivityDispatcher(cfg.ActivityWorkers, mongodb.NewActivityRepository(db), log)
	dispatcher.Start(ctx)

	e := api.NewRouter(cfg, api.Deps{
		Mongo:      db,
		Redis:      rdb,
		Dispatcher: dispatcher,
		Log:        log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info().Err(err).Msg("http server stopped")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("marketplace api started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("marketplace api stopped cleanly")
}

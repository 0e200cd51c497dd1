package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/limaJavier/cttfeatures/internal/cache"
	"github.com/limaJavier/cttfeatures/internal/config"
	"github.com/limaJavier/cttfeatures/internal/logger"
	"github.com/limaJavier/cttfeatures/internal/server"
	"github.com/limaJavier/cttfeatures/pkg/model"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	engineConfig, err := cfg.EngineSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid engine configuration")
	}
	engine, err := model.NewEngine(engineConfig, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot initialize engine")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	featureCache := cache.NewNoop()
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		featureCache = cache.NewRedis(rdb, cfg.CacheTTL)
	}

	handler := server.NewFeatureHandler(engine, featureCache, log)
	router := server.SetupRouter(handler, server.RouterConfig{
		GinMode:        cfg.GinMode,
		AllowedOrigins: cfg.AllowedOrigins,
	}, log)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Int("workers", engineConfig.Workers).
			Bool("cache", cfg.RedisURL != "").
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	log.Info().Msg("Shutdown complete")
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

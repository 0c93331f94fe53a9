package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/fuelcard/backend/docs"
	"github.com/fuelcard/backend/internal/config"
	"github.com/fuelcard/backend/internal/database"
	"github.com/fuelcard/backend/internal/logging"
	"github.com/fuelcard/backend/internal/router"
)

// @title Fuel Card Ledger API
// @version 1.0
// @description Balance ledger for fuel cards: top-ups, spends, history and summaries
// @host localhost:3000
// @BasePath /
// @schemes http https

func main() {
	cfg := config.Load()

	logger := logging.New(logging.Options{
		ServiceName: cfg.ServiceName,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})

	// Initialize Swagger docs
	docs.SwaggerInfo.Host = cfg.SwaggerHost

	ctx := context.Background()

	db, err := database.InitDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	redisClient := database.InitRedis(ctx, cfg.Redis, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, cfg.Database.Name),
	)

	handler := router.NewRouter(router.Deps{
		DB:             db,
		Redis:          redisClient,
		Registry:       registry,
		Logger:         logger,
		IdempotencyTTL: cfg.IdempotencyTTL,
		SwaggerURL:     "http://" + cfg.SwaggerHost + "/swagger/doc.json",
		RequestTimeout: cfg.RequestTimeout,
	})

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server stopped")
}

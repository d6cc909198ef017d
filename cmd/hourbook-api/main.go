package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hourbook/hourbook-backend/internal/app"
	"github.com/hourbook/hourbook-backend/internal/audit"
	"github.com/hourbook/hourbook-backend/internal/gateway"
	"github.com/hourbook/hourbook-backend/pkg/config"
	"github.com/hourbook/hourbook-backend/pkg/database"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/messaging"
)

const serviceName = "hourbook-api"

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(serviceName, cfg.Server.Environment).SetLevel(cfg.Log.Level)
	log.Info().Msg("starting Hourbook API")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	var probes gateway.Probes

	// RabbitMQ is optional; without it events are dropped
	var publisher messaging.EventPublisher
	if cfg.RabbitMQ.Enabled {
		rmq, err := messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		pub, err := messaging.NewPublisher(rmq, messaging.ExchangeEvents, serviceName, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		publisher = pub

		auditConsumer, err := audit.NewConsumer(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create audit consumer")
		}
		if err := auditConsumer.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start audit consumer")
		}

		probes.RabbitMQ = func(context.Context) map[string]string { return rmq.Health() }
	} else {
		log.Info().Msg("RabbitMQ disabled, domain events will not be published")
	}

	a := app.New(cfg, db, publisher, log)

	if err := a.EnsureDefaultAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create default admin")
	}

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      gateway.NewRouter(a, probes),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storesync/internal/api"
	"storesync/internal/config"
	"storesync/internal/database"
	"storesync/internal/events"
	"storesync/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.ValidateShopify(); err != nil {
		logger.Fatal("Invalid Shopify configuration: %v", err)
	}

	// Initialize database
	db, err := database.New(cfg.DatabaseURL, cfg.DatabaseDriver)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaSyncEventTopic)
	defer publisher.Close()

	// Initialize API server
	server := api.New(cfg, logger, db, publisher)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storesync/internal/config"
	shopifyconn "storesync/internal/connectors/shopify"
	"storesync/internal/database"
	"storesync/internal/events"
	"storesync/internal/logger"
	"storesync/internal/repository"
	"storesync/internal/services/shopify"
	"storesync/internal/worker"
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

	db, err := database.New(cfg.DatabaseURL, cfg.DatabaseDriver)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaSyncEventTopic)
	defer publisher.Close()

	repo := repository.NewCatalogRepository(db.DB)
	connector := shopifyconn.New(cfg, shopify.NewClient(cfg, logger), repo, publisher, logger)

	// Initialize worker
	w := worker.New(cfg, logger, connector)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// Start worker
	logger.Info("Starting worker...")
	go func() {
		w.Start(ctx)
		close(done)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	<-done
	w.Stop()
}

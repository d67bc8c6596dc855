package handler

import (
	"net/http"
	"sync"

	"storesync/internal/api"
	"storesync/internal/config"
	"storesync/internal/database"
	"storesync/internal/events"
	"storesync/internal/logger"

	"github.com/gin-gonic/gin"
)

var (
	initOnce sync.Once
	router   *gin.Engine
	initErr  error
)

// initRouter builds the storefront router once per serverless instance.
// The database connection is reused across invocations.
func initRouter() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	if err := cfg.ValidateShopify(); err != nil {
		initErr = err
		return
	}

	log := logger.New(cfg.LogLevel)

	db, err := database.New(cfg.DatabaseURL, cfg.DatabaseDriver)
	if err != nil {
		initErr = err
		return
	}

	router = api.New(cfg, log, db, events.New(cfg.KafkaBrokers, cfg.KafkaSyncEventTopic)).Router()
}

// Handler is the Vercel serverless entrypoint.
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(initRouter)

	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Service not configured"}`))
		return
	}

	router.ServeHTTP(w, r)
}

package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	shopifyconn "storesync/internal/connectors/shopify"
	"storesync/internal/logger"
	"storesync/internal/repository"
	"storesync/internal/services/shopify"

	"github.com/gin-gonic/gin"
)

// Syncer runs one catalog sync pass.
type Syncer interface {
	SyncProducts(ctx context.Context) (*shopifyconn.SyncResult, error)
}

// SyncHandler serves the operator endpoints. Manual runs in this process
// never overlap; a second request while one is running gets 409.
type SyncHandler struct {
	syncer  Syncer
	repo    repository.CatalogRepository
	logger  *logger.Logger
	running sync.Mutex
}

func NewSyncHandler(syncer Syncer, repo repository.CatalogRepository, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		syncer: syncer,
		repo:   repo,
		logger: logger,
	}
}

func (h *SyncHandler) Run(c *gin.Context) {
	if !h.running.TryLock() {
		respondError(c, h.logger, errSyncInProgress)
		return
	}
	defer h.running.Unlock()

	// A dropped admin connection must not cancel the run half way.
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := h.syncer.SyncProducts(ctx)
	if err != nil {
		h.logger.Error("Manual sync failed: %v", err)
		status := http.StatusInternalServerError
		if shopify.IsRemoteError(err) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"message": "Sync failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SyncHandler) Status(c *gin.Context) {
	state, err := h.repo.GetSyncState(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        state.Status,
		"lastSyncAt":    formatTime(state.LastSyncAt),
		"lastSyncCount": state.LastSyncCount,
		"lastAttemptAt": formatTime(state.LastAttemptAt),
		"lastError":     state.LastError,
	})
}

// Purge deletes every mirrored product and the sync state.
func (h *SyncHandler) Purge(c *gin.Context) {
	deleted, err := h.repo.Purge(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Purged %d products", deleted)
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func formatTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

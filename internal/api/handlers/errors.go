package handlers

import (
	"errors"
	"net/http"

	"storesync/internal/cart"
	"storesync/internal/logger"
	"storesync/internal/repository"
	"storesync/internal/services/shopify"

	"github.com/gin-gonic/gin"
)

var errSyncInProgress = errors.New("sync already in progress")

// respondError maps the error taxonomy onto HTTP statuses. Every error body
// is {"message": ...}.
func respondError(c *gin.Context, logger *logger.Logger, err error) {
	var validationErr *cart.ValidationError
	var rejection *cart.RemoteRejectionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
	case errors.Is(err, cart.ErrNoCart):
		c.JSON(http.StatusNotFound, gin.H{"message": "No cart"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	case errors.As(err, &rejection):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": rejection.Message, "field": rejection.Field})
	case errors.Is(err, errSyncInProgress):
		c.JSON(http.StatusConflict, gin.H{"message": "Sync already in progress"})
	case shopify.IsRemoteError(err):
		logger.Error("Shopify request failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "Shopify request failed"})
	default:
		logger.Error("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

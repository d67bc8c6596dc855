package handlers

import (
	"encoding/json"
	"net/http"

	"storesync/internal/cart"
	"storesync/internal/logger"

	"github.com/gin-gonic/gin"
)

const cartCookieMaxAge = 14 * 24 * 60 * 60

// CartHandler exposes the cart proxy to the browser. The only state kept
// per visitor is the remote cart id in a cookie.
type CartHandler struct {
	proxy      *cart.Proxy
	logger     *logger.Logger
	cookieName string
}

func NewCartHandler(proxy *cart.Proxy, logger *logger.Logger, cookieName string) *CartHandler {
	return &CartHandler{
		proxy:      proxy,
		logger:     logger,
		cookieName: cookieName,
	}
}

func (h *CartHandler) Get(c *gin.Context) {
	cartID := h.cartID(c)

	result, err := h.proxy.Get(c.Request.Context(), cartID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if result == nil && cartID != "" {
		h.clearCartID(c)
	}

	c.JSON(http.StatusOK, gin.H{"cart": result})
}

func (h *CartHandler) Create(c *gin.Context) {
	result, err := h.proxy.Create(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.setCartID(c, result.ID)

	c.JSON(http.StatusCreated, gin.H{"cart": result})
}

func (h *CartHandler) AddLine(c *gin.Context) {
	var request struct {
		VariantID string `json:"variantId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "variantId and quantity required"})
		return
	}

	cartID := h.cartID(c)
	result, keptID, err := h.proxy.AddLine(c.Request.Context(), cartID, request.VariantID, request.Quantity)
	if keptID != "" && keptID != cartID {
		h.setCartID(c, keptID)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": result})
}

func (h *CartHandler) UpdateLine(c *gin.Context) {
	var request struct {
		LineID   string `json:"lineId"`
		Quantity *int   `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || request.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "lineId and quantity required"})
		return
	}

	result, err := h.proxy.UpdateLine(c.Request.Context(), h.cartID(c), request.LineID, *request.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": result})
}

func (h *CartHandler) RemoveLines(c *gin.Context) {
	var request struct {
		LineIDs json.RawMessage `json:"lineIds"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "lineIds required"})
		return
	}

	result, err := h.proxy.RemoveLines(c.Request.Context(), h.cartID(c), decodeLineIDs(request.LineIDs))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": result})
}

func (h *CartHandler) Checkout(c *gin.Context) {
	checkoutURL, result, err := h.proxy.Checkout(c.Request.Context(), h.cartID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkoutUrl": checkoutURL, "cart": result})
}

func (h *CartHandler) cartID(c *gin.Context) string {
	id, err := c.Cookie(h.cookieName)
	if err != nil {
		return ""
	}
	return id
}

func (h *CartHandler) setCartID(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, id, cartCookieMaxAge, "/", "", isSecure(c), true)
}

func (h *CartHandler) clearCartID(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", isSecure(c), true)
}

func isSecure(c *gin.Context) bool {
	return c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
}

// decodeLineIDs accepts either a single id or a list of ids.
func decodeLineIDs(raw json.RawMessage) []string {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err == nil {
		return ids
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return []string{id}
	}
	return nil
}

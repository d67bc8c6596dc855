package handlers

import (
	"net/http"
	"regexp"
	"strconv"

	"storesync/internal/logger"
	"storesync/internal/models"
	"storesync/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	defaultPerPage = 24
	maxPerPage     = 100
)

var handlePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ProductSummary is the listing shape served to the storefront widget.
type ProductSummary struct {
	ID               string                 `json:"id"`
	Title            string                 `json:"title"`
	Permalink        string                 `json:"permalink"`
	Handle           string                 `json:"handle"`
	FeaturedImageURL string                 `json:"featuredImageUrl"`
	Variants         []models.Variant       `json:"variants"`
	Options          []models.ProductOption `json:"options"`
}

type ProductHandler struct {
	repo          repository.CatalogRepository
	logger        *logger.Logger
	permalinkBase string
}

func NewProductHandler(repo repository.CatalogRepository, logger *logger.Logger, permalinkBase string) *ProductHandler {
	return &ProductHandler{
		repo:          repo,
		logger:        logger,
		permalinkBase: permalinkBase,
	}
}

// List returns the newest local products. Out of range per_page falls back
// to the default.
func (h *ProductHandler) List(c *gin.Context) {
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 || perPage > maxPerPage {
		perPage = defaultPerPage
	}

	products, err := h.repo.List(c.Request.Context(), perPage)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	summaries := make([]ProductSummary, 0, len(products))
	for i := range products {
		summaries = append(summaries, h.summarize(&products[i]))
	}

	c.JSON(http.StatusOK, gin.H{"products": summaries})
}

func (h *ProductHandler) Get(c *gin.Context) {
	handle := c.Param("handle")
	if !handlePattern.MatchString(handle) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}

	product, err := h.repo.FindByHandle(c.Request.Context(), handle)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": h.summarize(product)})
}

func (h *ProductHandler) summarize(p *models.Product) ProductSummary {
	variants := p.Variants
	if variants == nil {
		variants = []models.Variant{}
	}
	options := p.Options
	if options == nil {
		options = []models.ProductOption{}
	}

	return ProductSummary{
		ID:               p.ID,
		Title:            p.Title,
		Permalink:        h.permalinkBase + p.Handle,
		Handle:           p.Handle,
		FeaturedImageURL: p.FeaturedImageURL,
		Variants:         variants,
		Options:          options,
	}
}

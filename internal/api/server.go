package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storesync/internal/api/handlers"
	"storesync/internal/api/middleware"
	"storesync/internal/cart"
	"storesync/internal/config"
	shopifyconn "storesync/internal/connectors/shopify"
	"storesync/internal/database"
	"storesync/internal/events"
	"storesync/internal/logger"
	"storesync/internal/repository"
	"storesync/internal/services/shopify"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database, publisher events.Publisher) *Server {
	repo := repository.NewCatalogRepository(db.DB)
	client := shopify.NewClient(cfg, logger)

	deps := Dependencies{
		Repo:   repo,
		Cart:   cart.NewProxy(client, logger),
		Syncer: shopifyconn.New(cfg, client, repo, publisher, logger),
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: NewRouter(cfg, logger, deps),
	}
}

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Repo   repository.CatalogRepository
	Cart   *cart.Proxy
	Syncer handlers.Syncer
}

func NewRouter(cfg *config.Config, logger *logger.Logger, deps Dependencies) *gin.Engine {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Initialize handlers
	productHandler := handlers.NewProductHandler(deps.Repo, logger, cfg.PermalinkBase)
	cartHandler := handlers.NewCartHandler(deps.Cart, logger, cfg.CartCookieName)
	syncHandler := handlers.NewSyncHandler(deps.Syncer, deps.Repo, logger)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Products
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:handle", productHandler.Get)
		}

		// Cart
		c := v1.Group("/cart")
		{
			c.GET("", cartHandler.Get)
			c.POST("/create", cartHandler.Create)
			c.POST("/lines/add", cartHandler.AddLine)
			c.POST("/lines/update", cartHandler.UpdateLine)
			c.POST("/lines/remove", cartHandler.RemoveLines)
			c.GET("/checkout", cartHandler.Checkout)
		}

		// Admin
		admin := v1.Group("/admin", middleware.AdminAuth(cfg.AdminAPIKey))
		{
			admin.POST("/sync", syncHandler.Run)
			admin.GET("/sync/status", syncHandler.Status)
			admin.DELETE("/products", syncHandler.Purge)
		}
	}

	return router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = newHTTPServer(addr, s.router)

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

// writeTimeout bounds the slowest response, a manual POST /admin/sync over
// the whole catalog.
const writeTimeout = 30 * time.Minute

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

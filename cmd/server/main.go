package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/storefront/catalog/internal/application/catalog"
	"github.com/storefront/catalog/internal/infrastructure/config"
	"github.com/storefront/catalog/internal/infrastructure/importer"
	"github.com/storefront/catalog/internal/infrastructure/logger"
	"github.com/storefront/catalog/internal/infrastructure/storefront"
	"github.com/storefront/catalog/internal/interfaces/http/handler"
	"github.com/storefront/catalog/internal/interfaces/http/middleware"
	"github.com/storefront/catalog/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Catalog Explorer",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Storefront API client
	client, err := storefront.NewClient(storefront.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		PageSize:       cfg.Upstream.PageSize,
		PageBatchSize:  cfg.Upstream.PageBatchSize,
		MaxRetries:     cfg.Upstream.MaxRetries,
		RetryBaseDelay: cfg.Upstream.RetryBaseDelay,
		TimeoutSeconds: cfg.Upstream.TimeoutSeconds,
	}, log)
	if err != nil {
		log.Fatal("Failed to create storefront client", zap.Error(err))
	}

	// Catalog service and store
	store := catalogapp.NewStore()
	service := catalogapp.NewService(client, store, log,
		catalogapp.WithReloadDelay(cfg.Reload.Debounce),
	)

	// Bulk product importer
	productImporter := importer.NewProductImporter(service, log)

	// Handlers
	catalogHandler := handler.NewCatalogHandler(service)
	importHandler := handler.NewImportHandler(productImporter)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(store))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(catalogHandler)
	r.Register(importHandler)
	r.Setup()

	// Initial catalog load runs in the background; the server starts
	// serving the (empty) catalog immediately and fills in once the
	// reconciliation completes.
	go func() {
		if err := service.LoadAll(context.Background()); err != nil {
			log.Error("Initial catalog load failed", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports server liveness plus current catalog counts
func healthHandler(store *catalogapp.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		brands, categories, products := store.Counts()
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"catalog": gin.H{
				"brands":     brands,
				"categories": categories,
				"products":   products,
			},
		})
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seoengine/internal/cache"
	"seoengine/internal/config"
	"seoengine/internal/database"
	"seoengine/internal/handlers"
	"seoengine/internal/logger"
	"seoengine/internal/repository"
	"seoengine/internal/service"

	"github.com/gorilla/mux"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize simple logging
	logger.Initialize(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	appLogger := logger.Default()

	appLogger.Info("Starting SEO engine on port %d (env: %s)", cfg.Port, cfg.Environment)

	// Initialize database
	appLogger.Info("Initializing database: %s", cfg.DatabasePath)
	db, err := database.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		appLogger.Error("Failed to initialize database: %v", err)
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	appLogger.Info("Running database migrations")
	if err := database.Migrate(db); err != nil {
		appLogger.Error("Failed to run migrations: %v", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}
	appLogger.Info("Database migrations completed successfully")

	// Initialize repositories
	appLogger.Info("Initializing repositories")
	pageRepo := repository.NewPageRepository(db, appLogger)
	keywordRepo := repository.NewKeywordRepository(db, appLogger)
	redirectRepo := repository.NewRedirectRepository(db, appLogger)
	notFoundRepo := repository.NewNotFoundRepository(db, appLogger)
	linkRepo := repository.NewLinkRepository(db, appLogger)
	auditRepo := repository.NewAuditRepository(db, appLogger)
	suggestionRepo := repository.NewSuggestionRepository(db, appLogger)

	// Suggestion cache is optional; without Redis the link graph service
	// recomputes suggestions on every request.
	var suggestionCache service.SuggestionCache
	var redisCache *cache.SuggestionCache
	if cfg.RedisAddr != "" {
		redisCache = cache.NewSuggestionCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, appLogger)
		if err := redisCache.Ping(context.Background()); err != nil {
			appLogger.Warn("Redis unreachable, suggestion caching disabled: %v", err)
			redisCache.Close()
			redisCache = nil
		} else {
			suggestionCache = redisCache
		}
	}

	// Initialize services
	appLogger.Info("Initializing services")
	scorer := service.NewScorer()
	pageService := service.NewPageService(pageRepo, scorer, appLogger)
	contentService := service.NewContentService(cfg.SiteURL, appLogger)
	keywordService := service.NewKeywordService(keywordRepo, appLogger)
	notFoundService := service.NewNotFoundService(notFoundRepo, redirectRepo, appLogger)
	linkService := service.NewLinkGraphService(linkRepo, pageRepo, suggestionCache, cfg.SiteURL, appLogger)
	auditService := service.NewAuditService(auditRepo, pageRepo, redirectRepo, notFoundRepo, linkRepo, service.NewStaticPerformance(), appLogger)
	indexNowService := service.NewIndexNowService(pageRepo, cfg.IndexNowEndpoint, cfg.IndexNowKey, cfg.SiteURL, appLogger)
	sitemapService := service.NewSitemapService(pageRepo, cfg.SiteURL, appLogger)
	suggestionService := service.NewSuggestionService(suggestionRepo, appLogger)

	// Initialize handlers
	appLogger.Info("Initializing handlers")
	handler := handlers.NewHandler(
		pageService,
		contentService,
		keywordService,
		notFoundService,
		linkService,
		auditService,
		indexNowService,
		sitemapService,
		suggestionService,
		cfg,
		appLogger,
	)

	// Setup router
	appLogger.Info("Setting up HTTP router")
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	// Setup server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("Starting HTTP server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start: %v", err)
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Received shutdown signal, initiating graceful shutdown")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	appLogger.Info("Shutting down HTTP server (timeout: 30s)")
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown: %v", err)
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Let any in-flight audit finish writing its terminal state.
	appLogger.Info("Waiting for background audits to finish")
	auditService.Wait()

	if redisCache != nil {
		if err := redisCache.Close(); err != nil {
			appLogger.Warn("Failed to close Redis connection: %v", err)
		}
	}

	appLogger.Info("Server shutdown completed successfully")
}

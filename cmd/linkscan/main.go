package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seoengine/internal/cache"
	"seoengine/internal/config"
	"seoengine/internal/database"
	"seoengine/internal/logger"
	"seoengine/internal/metrics"
	"seoengine/internal/repository"
	"seoengine/internal/service"
)

// linkscan runs the pairwise link suggestion scan out of band and stores
// the result in the suggestion cache, so API reads stay cheap. Meant to
// run from cron after each content crawl.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	appLogger := logger.Default()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Starting link suggestion scan (database: %s)", cfg.DatabasePath)

	db, err := database.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		appLogger.Error("Failed to open database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		appLogger.Error("Failed to run migrations: %v", err)
		os.Exit(1)
	}

	pageRepo := repository.NewPageRepository(db, appLogger)
	linkRepo := repository.NewLinkRepository(db, appLogger)

	var suggestionCache service.SuggestionCache
	var redisCache *cache.SuggestionCache
	if cfg.RedisAddr != "" {
		redisCache = cache.NewSuggestionCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, appLogger)
		defer redisCache.Close()

		if err := redisCache.Ping(ctx); err != nil {
			appLogger.Error("Redis unreachable: %v", err)
			os.Exit(1)
		}
		suggestionCache = redisCache
	} else {
		appLogger.Warn("REDIS_ADDR not set, scan results will not be cached")
	}

	linkService := service.NewLinkGraphService(linkRepo, pageRepo, suggestionCache, cfg.SiteURL, appLogger)

	appLogger.Info("Step 1/2: Running pairwise suggestion scan")
	start := time.Now()
	suggestions, err := linkService.RefreshSuggestions(ctx)
	if err != nil {
		appLogger.Error("Suggestion scan failed: %v", err)
		os.Exit(1)
	}
	metrics.LinkSuggestionScans.Observe(time.Since(start).Seconds())

	appLogger.Info("Step 2/2: Scan complete, %d suggestions cached in %s", len(suggestions), time.Since(start))
}

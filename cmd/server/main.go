package main

import (
	"fmt"
	"log"
	"os"

	"github.com/scansafe/backend/config"
	httpDelivery "github.com/scansafe/backend/internal/delivery/http"
	"github.com/scansafe/backend/internal/domain"
	"github.com/scansafe/backend/internal/infrastructure/cache"
	"github.com/scansafe/backend/internal/infrastructure/catalog"
	"github.com/scansafe/backend/internal/infrastructure/history"
	"github.com/scansafe/backend/internal/infrastructure/vision"
	"github.com/scansafe/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ScanSafe Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize the cache tier
	var cacheStore domain.CacheStore
	if cfg.Cache.Type == "redis" {
		redisStore, err := cache.NewRedisStore(cfg.Cache.RedisURL, cfg.Cache.Retention)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisStore.Close()
		cacheStore = redisStore
	} else {
		cacheStore = cache.NewMemoryStore(cfg.Cache.Retention)
	}
	log.Printf("Cache retention: %s, freshness window: %s", cfg.Cache.Retention, cfg.Cache.FreshnessWindow)

	// Initialize the catalog tier
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Locale)
	log.Printf("Catalog configured: %s (locale: %s)", cfg.Catalog.BaseURL, cfg.Catalog.Locale)

	// Initialize the vision tier; an empty API key disables the fallback
	var visionClient domain.VisionClient
	if cfg.Vision.APIKey != "" {
		visionClient = vision.NewClient(cfg.Vision.APIKey, cfg.Vision.Model)
		log.Printf("Vision configured: model=%s, unit cost=$%.3f", cfg.Vision.Model, cfg.Vision.UnitCost)
	} else {
		log.Printf("WARNING: vision API key not configured - photo fallback disabled")
	}

	// Initialize the engine
	meter := usecase.NewUsageMeter(cfg.Vision.UnitCost)
	resolver := usecase.NewResolver(cacheStore, catalogClient, visionClient, meter, usecase.ResolverConfig{
		FreshnessWindow: cfg.Cache.FreshnessWindow,
		CatalogTimeout:  cfg.Catalog.Timeout,
		VisionTimeout:   cfg.Vision.Timeout,
	})
	analyzer := usecase.NewAnalyzer(usecase.AnalyzerConfig{})
	insights := usecase.NewInsightsAggregator(meter, 5)
	historyStore := history.NewMemoryStore()

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(resolver, analyzer, insights, meter, historyStore, cacheStore)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

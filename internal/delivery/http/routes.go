package http

import (
	"github.com/gin-gonic/gin"

	"github.com/scansafe/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/scan", handler.Scan)
		v1.POST("/analyze", handler.Analyze)

		v1.GET("/history", handler.ListHistory)
		v1.DELETE("/history/:id", handler.DeleteHistory)

		v1.GET("/insights", handler.Insights)
		v1.GET("/usage", handler.Usage)

		admin := v1.Group("/admin", AdminAuthMiddleware(cfg.Admin.Token))
		{
			admin.DELETE("/cache/:barcode", handler.InvalidateCache)
		}
	}

	return router
}

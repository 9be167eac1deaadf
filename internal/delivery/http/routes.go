package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/giftregistry/backend/config"
	"github.com/giftregistry/backend/internal/infrastructure/metrics"
	"github.com/giftregistry/backend/pkg/logger"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	log = logger.OrNop(log).Named("http")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if m != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	limited := RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.CacheSize)
	admin := AdminAuth(cfg.Auth.AdminToken)

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products", admin, limited)
		{
			products.POST("/extract", handler.ExtractProduct)
		}

		wishlist := v1.Group("/wishlist")
		{
			wishlist.GET("", handler.ListWishlist)
			wishlist.GET("/available", handler.ListAvailable)
			wishlist.POST("/:id/purchase", limited, handler.PurchaseItem)
			wishlist.POST("", admin, handler.AddWishlistItem)
			wishlist.DELETE("/:id", admin, handler.RemoveWishlistItem)
		}

		gifts := v1.Group("/gifts")
		{
			gifts.POST("/cash", limited, handler.AddCashGift)
			gifts.GET("", admin, handler.ListGifts)
		}
	}

	return router
}

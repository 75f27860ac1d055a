package api

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/cryptopulse/internal/middleware"
)

// RouterConfig carries the transport settings applied by NewRouter.
type RouterConfig struct {
	RequestTimeout     time.Duration // per-request context deadline; 0 disables it
	RateLimitPerMinute int           // per client IP; 0 disables the limiter
}

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter).
//   - Bounds every request with cfg.RequestTimeout.
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures the dashboard routes under /api.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//
// Parameters:
//   - handler (*Handler): The HTTP handler with business logic.
//   - cfg (RouterConfig): timeout and rate limit settings.
//
// Returns:
//   - *gin.Engine: Configured Gin router.
func NewRouter(handler *Handler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute),
		middleware.Timeout(cfg.RequestTimeout),
	)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API ──────────────────────────────────────
	api := router.Group("/api")
	{
		api.GET("/cryptos", handler.ListCryptos)
		api.GET("/price/:symbol", handler.GetLatestPrice)
		api.GET("/history/:symbol", handler.GetHistory)
		api.GET("/stats/:symbol", handler.GetStats)
		api.GET("/overview", handler.GetOverview)
	}

	return router
}

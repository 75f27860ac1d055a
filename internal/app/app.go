package app

import (
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/cryptopulse/config"
	"github.com/guttosm/cryptopulse/internal/api"
	"github.com/guttosm/cryptopulse/internal/logger"
	"github.com/guttosm/cryptopulse/internal/service"
	"github.com/guttosm/cryptopulse/internal/storage"
)

// NewPriceService wires the read-only repository and the query service over db.
func NewPriceService(cfg config.Config, db *sql.DB) service.PriceService {
	repo := storage.NewPricesRepository(db, storage.DialectFor(cfg.Store.Driver), cfg.Store.QueryTimeout)
	return service.NewPriceService(repo, service.Options{
		MaxLimit:            cfg.Query.HistoryMaxLimit,
		OverviewConcurrency: cfg.Query.OverviewConcurrency,
	})
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Opens the price store read-only using InitStore().
//   - Initializes the repository and service layers.
//   - Creates the HTTP handler layer and configures the Gin router.
//   - Registers health and readiness checks.
//   - Provides a cleanup function to close the connection pool.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	db, err := storeOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize price store: %w", err)
	}
	logger.L().Info().
		Str("driver", cfg.Store.Driver).
		Stringer("dialect", storage.DialectFor(cfg.Store.Driver)).
		Dur("query_timeout", cfg.Store.QueryTimeout).
		Msg("price store ready")

	svc := NewPriceService(cfg, db)

	handler := api.NewHandler(svc, api.Limits{
		HistoryDefault:  cfg.Query.HistoryDefaultLimit,
		HistoryMax:      cfg.Query.HistoryMaxLimit,
		OverviewDefault: cfg.Query.OverviewLimit,
	})

	router := api.NewRouter(handler, api.RouterConfig{
		RequestTimeout:     cfg.Server.RequestTimeout,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	})

	api.NewHealthHandler(db.PingContext).Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}

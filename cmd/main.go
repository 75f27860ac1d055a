package main

//
//  @title           cryptopulse API
//  @version         1.0
//  @description     Read-only price query service for the crypto dashboard.
//  @termsOfService  https://github.com/guttosm/cryptopulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/cryptopulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:4000
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        prices
//  @tag.description Symbols, latest prices, history and statistics
//
//  @tag.name        health
//  @tag.description Liveness and readiness checks

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/cryptopulse/config"
	_ "github.com/guttosm/cryptopulse/docs" // swagger docs
	"github.com/guttosm/cryptopulse/internal/app"
	"github.com/guttosm/cryptopulse/internal/logger"
	"github.com/guttosm/cryptopulse/internal/service"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., the store connection pool).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runCheck logs a summary of the price store: total rows, the newest
// observations and, when symbol is set, SQL aggregates for that symbol.
func runCheck(ctx context.Context, svc service.PriceService, symbol string, recent int) error {
	report, err := svc.StoreReport(ctx, symbol, recent)
	if err != nil {
		return err
	}

	logger.L().Info().Int64("total_rows", report.TotalRows).Msg("store summary")
	for _, o := range report.Recent {
		logger.L().Info().
			Int64("id", o.ID).
			Str("symbol", o.Symbol).
			Str("price", o.Price.String()).
			Time("timestamp", o.Timestamp).
			Str("source", o.Source).
			Msg("recent observation")
	}

	if st := report.Symbol; st != nil {
		ev := logger.L().Info().Str("symbol", st.Symbol).Int64("count", st.Count)
		if st.Min != nil {
			ev = ev.Str("min", st.Min.String()).Str("max", st.Max.String()).Str("avg", st.Avg.StringFixed(8))
		}
		ev.Msg("symbol stats")
	}
	return nil
}

// main is the entry point of the cryptopulse application.
//
// Modes (selected via --mode flag):
//   - api:   Starts the read-only REST API consumed by the dashboard.
//   - check: Opens the store, logs a summary of its contents and exits.
//
// Flags:
//   - --mode:   Execution mode ("api" or "check"). Default: "api".
//   - --port:   Port for the API server. Defaults to value from config (SERVER_PORT).
//   - --symbol: Symbol to aggregate in check mode (optional).
//   - --recent: Newest rows to print in check mode. Default: 5.
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api or check")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	symbol := flag.String("symbol", "", "Symbol to aggregate in check mode")
	recent := flag.Int("recent", 5, "Newest rows to print in check mode")
	flag.Parse()

	switch *mode {
	case "check":
		db, err := app.InitStore(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("store open error")
		}
		defer func() { _ = db.Close() }()

		if err := runCheck(ctx, app.NewPriceService(config.AppConfig, db), *symbol, *recent); err != nil {
			logger.L().Error().Err(err).Msg("store check failed")
			_ = db.Close()
			os.Exit(1)
		}

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

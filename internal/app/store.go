package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/cryptopulse/config"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "github.com/lib/pq"              // registers the "postgres" database/sql driver
	_ "modernc.org/sqlite"             // registers the "sqlite" database/sql driver
)

// defaultPingTimeout bounds the startup ping when STORE_QUERY_TIMEOUT is unset.
const defaultPingTimeout = 5 * time.Second

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// InitStore opens the configured price store read-only and verifies it is reachable.
//
// Parameters:
//   - cfg (config.Config): uses cfg.Store for the driver and pool limits and
//     cfg.Postgres when the driver is "postgres" or "pgx".
//
// Behavior:
//   - Builds a read-only DSN for the selected driver.
//   - Opens a database handle with sql.Open and applies pool limits.
//   - Pings the store with a bounded context; the handle is closed on failure.
//
// Returns:
//   - *sql.DB: an open connection pool (safe for concurrent use).
//   - error: if the driver is unknown or opening/pinging the store fails.
//
// Example usage:
//
//	db, err := app.InitStore(config.AppConfig)
//	if err != nil {
//	    log.Fatalf("❌ failed to open price store: %v", err)
//	}
//	defer db.Close()
func InitStore(cfg config.Config) (*sql.DB, error) {
	driver, dsn, err := storeDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlOpener(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}

	if cfg.Store.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Store.MaxOpenConns)
	}
	if cfg.Store.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Store.MaxIdleConns)
	}
	if cfg.Store.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.Store.ConnMaxLifetime)
	}

	timeout := cfg.Store.QueryTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s store: %w", driver, err)
	}

	return db, nil
}

func storeDSN(cfg config.Config) (driver, dsn string, err error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite, "":
		if cfg.Store.SQLitePath == "" {
			return "", "", fmt.Errorf("sqlite store path is empty")
		}
		return config.DriverSQLite, config.SQLiteDSN(cfg.Store.SQLitePath), nil
	case config.DriverPostgres, config.DriverPgx:
		dsn := cfg.Postgres.URL
		if dsn == "" {
			dsn = config.PostgresDSN(cfg.Postgres)
		}
		return cfg.Store.Driver, dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// storeOpener is an indirection used by InitializeApp; overridden in tests to avoid real connections.
var storeOpener = InitStore

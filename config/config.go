package config

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Supported values for STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, the price store connection and query limits.
//
// Example ENV equivalent:
//
//	SERVER_PORT=4000
//	STORE_DRIVER=sqlite
//	STORE_SQLITE_PATH=/data/crypto.db
//	STORE_QUERY_TIMEOUT=5s
//	HISTORY_DEFAULT_LIMIT=100
//	HISTORY_MAX_LIMIT=1000
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Store    StoreConfig    // Price store driver and pool settings
	Postgres PostgresConfig // PostgreSQL connection settings (postgres and pgx drivers)
	Query    QueryConfig    // Limits applied to price queries
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string        // The TCP port the HTTP server will listen on (e.g., "4000")
	RequestTimeout     time.Duration // Upper bound for a single request
	RateLimitPerMinute int           // Requests allowed per client IP per minute
}

// StoreConfig selects the database driver backing the price store.
//
// Fields:
//   - Driver: one of "sqlite", "postgres" or "pgx".
//   - SQLitePath: path to the SQLite file written by the collector (sqlite driver only).
//   - QueryTimeout: bound applied to every store query.
//   - MaxOpenConns / MaxIdleConns / ConnMaxLifetime: database/sql pool limits.
type StoreConfig struct {
	Driver          string
	SQLitePath      string
	QueryTimeout    time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed read-only DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// QueryConfig bounds the history window requested by clients.
type QueryConfig struct {
	HistoryDefaultLimit int // limit used when the client omits ?limit
	HistoryMaxLimit     int // largest accepted ?limit
	OverviewLimit       int // sparkline points per symbol on /api/overview
	OverviewConcurrency int // symbols fetched in parallel on /api/overview
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and handed to app.InitializeApp at startup.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, the app terminates with a
//     descriptive log message.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			RequestTimeout:     viper.GetDuration("SERVER_REQUEST_TIMEOUT"),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Store: StoreConfig{
			Driver:          viper.GetString("STORE_DRIVER"),
			SQLitePath:      viper.GetString("STORE_SQLITE_PATH"),
			QueryTimeout:    viper.GetDuration("STORE_QUERY_TIMEOUT"),
			MaxOpenConns:    viper.GetInt("STORE_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("STORE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: viper.GetDuration("STORE_CONN_MAX_LIFETIME"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Query: QueryConfig{
			HistoryDefaultLimit: viper.GetInt("HISTORY_DEFAULT_LIMIT"),
			HistoryMaxLimit:     viper.GetInt("HISTORY_MAX_LIMIT"),
			OverviewLimit:       viper.GetInt("OVERVIEW_LIMIT"),
			OverviewConcurrency: viper.GetInt("OVERVIEW_CONCURRENCY"),
		},
	}

	AppConfig.Postgres.URL = PostgresDSN(AppConfig.Postgres)

	if problems := AppConfig.Validate(); len(problems) > 0 {
		log.Fatalf("❌ Invalid configuration: %v\n", problems)
	}
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "4000")
	viper.SetDefault("SERVER_REQUEST_TIMEOUT", "10s")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 120)

	viper.SetDefault("STORE_DRIVER", DriverSQLite)
	viper.SetDefault("STORE_SQLITE_PATH", "/data/crypto.db")
	viper.SetDefault("STORE_QUERY_TIMEOUT", "5s")
	viper.SetDefault("STORE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("STORE_MAX_IDLE_CONNS", 2)
	viper.SetDefault("STORE_CONN_MAX_LIFETIME", "30m")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "postgres")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("HISTORY_DEFAULT_LIMIT", 100)
	viper.SetDefault("HISTORY_MAX_LIMIT", 1000)
	viper.SetDefault("OVERVIEW_LIMIT", 20)
	viper.SetDefault("OVERVIEW_CONCURRENCY", 4)
}

// PostgresDSN builds the URL DSN for the postgres and pgx drivers.
//
// The connection is opened with default_transaction_read_only=on so every
// transaction started by this service is read-only on the server side.
func PostgresDSN(pg PostgresConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(pg.User, pg.Password),
		Host:   fmt.Sprintf("%s:%d", pg.Host, pg.Port),
		Path:   "/" + pg.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", pg.SSLMode)
	q.Set("default_transaction_read_only", "on")
	u.RawQuery = q.Encode()
	return u.String()
}

// SQLiteDSN builds a read-only modernc.org/sqlite DSN for the collector's database file.
//
// mode=ro opens the file without write access and query_only rejects any
// statement that would modify it. The path is percent-escaped so "?", "#"
// and "%" in file names stay part of the path.
func SQLiteDSN(path string) string {
	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(5000)"
}

// Validate reports every missing or out-of-range setting.
//
// Returns:
//   - []string: names of the offending keys; empty when the config is usable.
func (c Config) Validate() []string {
	var problems []string

	if c.Server.Port == "" {
		problems = append(problems, "SERVER_PORT")
	}
	if c.Store.QueryTimeout <= 0 {
		problems = append(problems, "STORE_QUERY_TIMEOUT")
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			problems = append(problems, "STORE_SQLITE_PATH")
		}
	case DriverPostgres, DriverPgx:
		if c.Postgres.Host == "" {
			problems = append(problems, "POSTGRES_HOST")
		}
		if c.Postgres.Port == 0 {
			problems = append(problems, "POSTGRES_PORT")
		}
		if c.Postgres.User == "" {
			problems = append(problems, "POSTGRES_USER")
		}
		if c.Postgres.DBName == "" {
			problems = append(problems, "POSTGRES_DB")
		}
	default:
		problems = append(problems, "STORE_DRIVER")
	}

	if c.Query.HistoryMaxLimit < 1 {
		problems = append(problems, "HISTORY_MAX_LIMIT")
	}
	if c.Query.HistoryDefaultLimit < 1 || c.Query.HistoryDefaultLimit > c.Query.HistoryMaxLimit {
		problems = append(problems, "HISTORY_DEFAULT_LIMIT")
	}
	if c.Query.OverviewLimit < 1 || c.Query.OverviewLimit > c.Query.HistoryMaxLimit {
		problems = append(problems, "OVERVIEW_LIMIT")
	}
	if c.Query.OverviewConcurrency < 1 {
		problems = append(problems, "OVERVIEW_CONCURRENCY")
	}

	return problems
}

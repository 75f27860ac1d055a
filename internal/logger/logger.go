package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "cryptopulse"

var (
	current  atomic.Pointer[zerolog.Logger]
	initOnce sync.Once
)

// Init configures the global JSON logger.
//
// Environment variables (optional):
//   - LOG_LEVEL: debug|info|warn|error (default: info)
//   - LOG_PRETTY: true|false (default: false)
func Init() {
	level := parseLevel(getenv("LOG_LEVEL", "info"))
	pretty := strings.EqualFold(getenv("LOG_PRETTY", "false"), "true")

	zerolog.TimeFieldFormat = time.RFC3339Nano
	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	l := newLogger(w, level)
	current.Store(&l)
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Str("service", serviceName).Logger().Level(level)
}

// SetOutput redirects the global logger to w, keeping the configured level.
func SetOutput(w io.Writer) {
	level := parseLevel(getenv("LOG_LEVEL", "info"))
	l := newLogger(w, level)
	current.Store(&l)
}

// L returns the global logger. Call Init() once on startup; the first call
// initializes it from the environment otherwise. Safe for concurrent use.
func L() *zerolog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	initOnce.Do(func() {
		if current.Load() == nil {
			Init()
		}
	})
	return current.Load()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/cryptopulse/internal/domain/models"
	"github.com/shopspring/decimal"
)

// PricesRepository defines the read-only contract over the crypto_prices table.
//
// Implementations never mutate data; the table is owned by the external collector.
// Every error returned wraps models.ErrStoreUnavailable.
type PricesRepository interface {
	ListSymbols(ctx context.Context) ([]string, error)
	LatestBySymbol(ctx context.Context, symbol string) (*models.PriceObservation, error)
	HistoryBySymbol(ctx context.Context, symbol string, limit int) ([]models.PriceObservation, error)
	StatsBySymbol(ctx context.Context, symbol string) (*models.StoreStats, error)
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.PriceObservation, error)
}

// Rows with a NULL price or timestamp are incomplete collector writes and are not observations.
// Symbols are matched on their trimmed upper-case form so every listed symbol can be looked up.
// Query templates take the dialect's ordering key for the timestamp column as %[1]s.
const (
	symbolKey = `UPPER(TRIM(symbol))`

	observationFilter = `price IS NOT NULL AND timestamp IS NOT NULL`

	observationColumns = `id, ` + symbolKey + `, price, timestamp, source`

	listSymbolsQuery = `
		SELECT DISTINCT ` + symbolKey + `
		FROM crypto_prices
		WHERE symbol IS NOT NULL AND TRIM(symbol) <> '' AND ` + observationFilter + `
		ORDER BY 1`

	latestBySymbolQuery = `
		SELECT ` + observationColumns + `
		FROM crypto_prices
		WHERE ` + symbolKey + ` = ? AND ` + observationFilter + `
		ORDER BY %[1]s DESC, id DESC
		LIMIT 1`

	historyBySymbolQuery = `
		SELECT ` + observationColumns + `
		FROM crypto_prices
		WHERE ` + symbolKey + ` = ? AND ` + observationFilter + `
		ORDER BY %[1]s ASC, id ASC
		LIMIT ?`

	statsBySymbolQuery = `
		SELECT COUNT(*), MIN(price), MAX(price), AVG(price)
		FROM crypto_prices
		WHERE ` + symbolKey + ` = ? AND ` + observationFilter

	countQuery = `SELECT COUNT(*) FROM crypto_prices`

	recentQuery = `
		SELECT ` + observationColumns + `
		FROM crypto_prices
		WHERE ` + observationFilter + `
		ORDER BY %[1]s DESC, id DESC
		LIMIT ?`
)

// queries holds the statements rendered for one dialect.
type queries struct {
	listSymbols, latest, history, stats, count, recent string
}

func renderQueries(d Dialect) queries {
	render := func(tmpl string) string {
		return d.Rebind(fmt.Sprintf(tmpl, d.TimestampOrder("timestamp")))
	}
	return queries{
		listSymbols: d.Rebind(listSymbolsQuery),
		latest:      render(latestBySymbolQuery),
		history:     render(historyBySymbolQuery),
		stats:       d.Rebind(statsBySymbolQuery),
		count:       d.Rebind(countQuery),
		recent:      render(recentQuery),
	}
}

type pricesRepository struct {
	db      *sql.DB
	q       queries
	timeout time.Duration
}

// NewPricesRepository wraps an open database handle.
//
// Parameters:
//   - db: pool returned by app.InitStore; the repository does not own it.
//   - dialect: placeholder style of the underlying driver.
//   - timeout: bound applied to each query; a timed-out query is reported as ErrStoreUnavailable.
//
// Returns:
//   - PricesRepository: a read-only repository safe for concurrent use.
func NewPricesRepository(db *sql.DB, dialect Dialect, timeout time.Duration) PricesRepository {
	return &pricesRepository{db: db, q: renderQueries(dialect), timeout: timeout}
}

// withConn acquires a dedicated connection for one logical operation and
// releases it on every exit path.
func (r *pricesRepository) withConn(ctx context.Context, op string, fn func(ctx context.Context, conn *sql.Conn) error) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return unavailable(op, err)
	}
	defer func() { _ = conn.Close() }()

	if err := fn(ctx, conn); err != nil {
		return unavailable(op, err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrStoreUnavailable, op, err)
}

// ListSymbols returns the distinct symbols that have at least one observation, sorted ascending.
func (r *pricesRepository) ListSymbols(ctx context.Context) ([]string, error) {
	symbols := make([]string, 0)
	err := r.withConn(ctx, "list symbols", func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, r.q.listSymbols)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var s string
			if err := rows.Scan(&s); err != nil {
				return err
			}
			symbols = append(symbols, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// LatestBySymbol returns the newest observation for symbol, or nil when there is none.
// symbol must already be trimmed and upper-cased.
// Equal timestamps resolve to the most recently inserted row.
func (r *pricesRepository) LatestBySymbol(ctx context.Context, symbol string) (*models.PriceObservation, error) {
	var out *models.PriceObservation
	err := r.withConn(ctx, "latest price", func(ctx context.Context, conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, r.q.latest, symbol)
		obs, err := scanObservation(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		out = &obs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HistoryBySymbol returns up to limit observations for symbol, oldest first.
// Equal timestamps keep insertion order.
func (r *pricesRepository) HistoryBySymbol(ctx context.Context, symbol string, limit int) ([]models.PriceObservation, error) {
	var out []models.PriceObservation
	err := r.withConn(ctx, "price history", func(ctx context.Context, conn *sql.Conn) error {
		var err error
		out, err = queryObservations(ctx, conn, r.q.history, symbol, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// StatsBySymbol aggregates every stored price of symbol in the database.
// Min, Max and Avg are nil when the symbol has no rows.
func (r *pricesRepository) StatsBySymbol(ctx context.Context, symbol string) (*models.StoreStats, error) {
	stats := &models.StoreStats{Symbol: symbol}
	err := r.withConn(ctx, "symbol stats", func(ctx context.Context, conn *sql.Conn) error {
		var minP, maxP, avgP decimal.NullDecimal
		if err := conn.QueryRowContext(ctx, r.q.stats, symbol).
			Scan(&stats.Count, &minP, &maxP, &avgP); err != nil {
			return err
		}
		stats.Min = nullableDecimal(minP)
		stats.Max = nullableDecimal(maxP)
		stats.Avg = nullableDecimal(avgP)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Count returns the total number of rows in the table.
func (r *pricesRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.withConn(ctx, "count rows", func(ctx context.Context, conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, r.q.count).Scan(&n)
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Recent returns the newest observations across all symbols, newest first.
func (r *pricesRepository) Recent(ctx context.Context, limit int) ([]models.PriceObservation, error) {
	var out []models.PriceObservation
	err := r.withConn(ctx, "recent prices", func(ctx context.Context, conn *sql.Conn) error {
		var err error
		out, err = queryObservations(ctx, conn, r.q.recent, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func queryObservations(ctx context.Context, conn *sql.Conn, query string, args ...any) ([]models.PriceObservation, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]models.PriceObservation, 0)
	for rows.Next() {
		obs, err := scanObservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObservation(s rowScanner) (models.PriceObservation, error) {
	var (
		obs    models.PriceObservation
		ts     observedAt
		source sql.NullString
	)
	if err := s.Scan(&obs.ID, &obs.Symbol, &obs.Price, &ts, &source); err != nil {
		return models.PriceObservation{}, err
	}
	obs.Timestamp = ts.Time
	obs.Source = source.String
	return obs, nil
}

func nullableDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

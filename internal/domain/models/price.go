package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceObservation is a single price sample recorded by the collector.
//
// Fields:
//   - ID: surrogate row identity; reflects insertion order and breaks timestamp ties.
//   - Symbol: uppercase ticker (e.g., "BTC").
//   - Price: observed price, kept as a decimal to match the DECIMAL(18,8) column.
//   - Timestamp: moment the sample was taken.
//   - Source: upstream feed that produced the sample (e.g., "coingecko-api").
type PriceObservation struct {
	ID        int64
	Symbol    string
	Price     decimal.Decimal
	Timestamp time.Time
	Source    string
}

// Trend classifies the direction of a history window.
type Trend string

const (
	// TrendPositive means the last price is greater than or equal to the first.
	TrendPositive Trend = "positive"
	// TrendNegative means the last price is below the first.
	TrendNegative Trend = "negative"
	// TrendUndefined is reported for windows with fewer than two points.
	TrendUndefined Trend = "undefined"
)

// HistoryStats summarizes the prices of a history window.
//
// Min, Max and Avg are nil when the window is empty, so an absent value is
// never mistaken for a real zero price.
type HistoryStats struct {
	Count int
	Min   *decimal.Decimal
	Max   *decimal.Decimal
	Avg   *decimal.Decimal
	Trend Trend
}

// SymbolOverview is the dashboard card for one symbol.
type SymbolOverview struct {
	Symbol    string
	Latest    *PriceObservation
	Sparkline []PriceObservation
	Trend     Trend
}

package service

import (
	"github.com/shopspring/decimal"

	"github.com/guttosm/cryptopulse/internal/domain/models"
)

// avgPlaces is the precision of the price column, DECIMAL(18,8).
const avgPlaces = 8

// ComputeStats summarizes a history window.
//
// The average is an exact decimal sum divided by the count, so long windows
// accumulate no floating point error. An empty window yields nil Min/Max/Avg
// and an undefined trend.
func ComputeStats(hist []models.PriceObservation) models.HistoryStats {
	stats := models.HistoryStats{Count: len(hist), Trend: TrendOf(hist)}
	if len(hist) == 0 {
		return stats
	}

	minP, maxP := hist[0].Price, hist[0].Price
	sum := decimal.Zero
	for _, o := range hist {
		if o.Price.LessThan(minP) {
			minP = o.Price
		}
		if o.Price.GreaterThan(maxP) {
			maxP = o.Price
		}
		sum = sum.Add(o.Price)
	}
	avg := sum.DivRound(decimal.NewFromInt(int64(len(hist))), avgPlaces)
	// rounding can only cross a bound when prices carry more than avgPlaces digits
	if avg.LessThan(minP) {
		avg = minP
	}
	if avg.GreaterThan(maxP) {
		avg = maxP
	}

	stats.Min = &minP
	stats.Max = &maxP
	stats.Avg = &avg
	return stats
}

// TrendOf classifies an ascending window: positive when the last price is at
// least the first, negative otherwise, undefined below two points.
func TrendOf(hist []models.PriceObservation) models.Trend {
	if len(hist) < 2 {
		return models.TrendUndefined
	}
	if hist[len(hist)-1].Price.GreaterThanOrEqual(hist[0].Price) {
		return models.TrendPositive
	}
	return models.TrendNegative
}

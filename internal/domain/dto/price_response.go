package dto

import (
	"time"

	"github.com/guttosm/cryptopulse/internal/domain/models"
	"github.com/shopspring/decimal"
)

// PriceResponse is the JSON shape of a single observation.
//
// Price is emitted as a JSON number because the dashboard formats it with
// toLocaleString.
type PriceResponse struct {
	ID        int64     `json:"id" example:"42"`
	Symbol    string    `json:"symbol" example:"BTC"`
	Price     float64   `json:"price" example:"67321.55"`
	Timestamp time.Time `json:"timestamp" example:"2025-09-18T12:00:00Z"`
	Source    string    `json:"source" example:"coingecko-api"`
}

// StatsResponse is returned by GET /api/stats/{symbol}.
//
// Min, Max and Avg are null when the window is empty.
type StatsResponse struct {
	Symbol string   `json:"symbol" example:"BTC"`
	Count  int      `json:"count" example:"100"`
	Min    *float64 `json:"min" example:"90"`
	Max    *float64 `json:"max" example:"110"`
	Avg    *float64 `json:"avg" example:"100"`
	Trend  string   `json:"trend" example:"positive"`
}

// OverviewResponse is one dashboard card on GET /api/overview.
type OverviewResponse struct {
	Symbol    string          `json:"symbol" example:"BTC"`
	Latest    *PriceResponse  `json:"latest"`
	Sparkline []PriceResponse `json:"sparkline"`
	Trend     string          `json:"trend" example:"negative"`
}

// FromObservation maps a domain observation to its JSON form.
func FromObservation(o models.PriceObservation) PriceResponse {
	return PriceResponse{
		ID:        o.ID,
		Symbol:    o.Symbol,
		Price:     o.Price.InexactFloat64(),
		Timestamp: o.Timestamp,
		Source:    o.Source,
	}
}

// FromObservations maps a slice, always returning a non-nil slice so it encodes as [].
func FromObservations(in []models.PriceObservation) []PriceResponse {
	out := make([]PriceResponse, 0, len(in))
	for _, o := range in {
		out = append(out, FromObservation(o))
	}
	return out
}

// FromStats maps aggregation results for a symbol.
func FromStats(symbol string, s models.HistoryStats) StatsResponse {
	return StatsResponse{
		Symbol: symbol,
		Count:  s.Count,
		Min:    toFloat(s.Min),
		Max:    toFloat(s.Max),
		Avg:    toFloat(s.Avg),
		Trend:  string(s.Trend),
	}
}

// FromOverview maps dashboard cards.
func FromOverview(in []models.SymbolOverview) []OverviewResponse {
	out := make([]OverviewResponse, 0, len(in))
	for _, card := range in {
		r := OverviewResponse{
			Symbol:    card.Symbol,
			Sparkline: FromObservations(card.Sparkline),
			Trend:     string(card.Trend),
		}
		if card.Latest != nil {
			latest := FromObservation(*card.Latest)
			r.Latest = &latest
		}
		out = append(out, r)
	}
	return out
}

func toFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

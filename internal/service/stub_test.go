package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/cryptopulse/internal/domain/models"
	"github.com/guttosm/cryptopulse/internal/storage"
)

// memRepo is an in-memory PricesRepository following the same ordering rules as the SQL one.
type memRepo struct {
	mu      sync.Mutex
	rows    []models.PriceObservation
	err     error
	failFor string
	calls   map[string]int
}

var _ storage.PricesRepository = (*memRepo)(nil)

func (m *memRepo) add(symbol string, price float64, sec int) {
	m.rows = append(m.rows, models.PriceObservation{
		ID:        int64(len(m.rows) + 1),
		Symbol:    symbol,
		Price:     decimal.NewFromFloat(price),
		Timestamp: time.Date(2025, 9, 18, 12, 0, sec, 0, time.UTC),
		Source:    "coingecko-api",
	})
}

func (m *memRepo) hit(op, symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[op+":"+symbol]++
	if m.err != nil && (m.failFor == "" || m.failFor == symbol) {
		return m.err
	}
	return nil
}

func (m *memRepo) bySymbol(symbol string) []models.PriceObservation {
	var out []models.PriceObservation
	for _, r := range m.rows {
		if r.Symbol == symbol {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func (m *memRepo) ListSymbols(_ context.Context) ([]string, error) {
	if err := m.hit("list", ""); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, r := range m.rows {
		if !seen[r.Symbol] {
			seen[r.Symbol] = true
			out = append(out, r.Symbol)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memRepo) LatestBySymbol(_ context.Context, symbol string) (*models.PriceObservation, error) {
	if err := m.hit("latest", symbol); err != nil {
		return nil, err
	}
	rows := m.bySymbol(symbol)
	if len(rows) == 0 {
		return nil, nil
	}
	last := rows[len(rows)-1]
	return &last, nil
}

func (m *memRepo) HistoryBySymbol(_ context.Context, symbol string, limit int) ([]models.PriceObservation, error) {
	if err := m.hit("history", symbol); err != nil {
		return nil, err
	}
	rows := m.bySymbol(symbol)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return append([]models.PriceObservation{}, rows...), nil
}

func (m *memRepo) StatsBySymbol(_ context.Context, symbol string) (*models.StoreStats, error) {
	if err := m.hit("stats", symbol); err != nil {
		return nil, err
	}
	st := ComputeStats(m.bySymbol(symbol))
	return &models.StoreStats{Symbol: symbol, Count: int64(st.Count), Min: st.Min, Max: st.Max, Avg: st.Avg}, nil
}

func (m *memRepo) Count(_ context.Context) (int64, error) {
	if err := m.hit("count", ""); err != nil {
		return 0, err
	}
	return int64(len(m.rows)), nil
}

func (m *memRepo) Recent(_ context.Context, limit int) ([]models.PriceObservation, error) {
	if err := m.hit("recent", ""); err != nil {
		return nil, err
	}
	out := append([]models.PriceObservation{}, m.rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// scenarioRepo holds BTC at t=1,2,3 with prices 100,110,90 and nothing for ETH.
func scenarioRepo() *memRepo {
	m := &memRepo{}
	m.add("BTC", 100, 1)
	m.add("BTC", 110, 2)
	m.add("BTC", 90, 3)
	return m
}

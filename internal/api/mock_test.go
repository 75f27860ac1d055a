package api

import (
	"context"
	"sync"

	"github.com/guttosm/cryptopulse/internal/domain/models"
	"github.com/guttosm/cryptopulse/internal/service"
)

// mockPriceService implements service.PriceService and records the arguments it was called with.
type mockPriceService struct {
	mu sync.Mutex

	symbols  []string
	latest   *models.PriceObservation
	history  []models.PriceObservation
	stats    models.HistoryStats
	overview []models.SymbolOverview
	report   *models.StoreReport
	err      error

	calls      int
	lastSymbol string
	lastLimit  int
}

var _ service.PriceService = (*mockPriceService)(nil)

func (m *mockPriceService) record(symbol string, limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastSymbol = symbol
	m.lastLimit = limit
}

func (m *mockPriceService) ListSymbols(_ context.Context) ([]string, error) {
	m.record("", 0)
	return m.symbols, m.err
}

func (m *mockPriceService) LatestPrice(_ context.Context, symbol string) (*models.PriceObservation, error) {
	m.record(symbol, 0)
	return m.latest, m.err
}

func (m *mockPriceService) History(_ context.Context, symbol string, limit int) ([]models.PriceObservation, error) {
	m.record(symbol, limit)
	return m.history, m.err
}

func (m *mockPriceService) HistoryStats(_ context.Context, symbol string, limit int) ([]models.PriceObservation, models.HistoryStats, error) {
	m.record(symbol, limit)
	return m.history, m.stats, m.err
}

func (m *mockPriceService) Overview(_ context.Context, limit int) ([]models.SymbolOverview, error) {
	m.record("", limit)
	return m.overview, m.err
}

func (m *mockPriceService) StoreReport(_ context.Context, symbol string, recent int) (*models.StoreReport, error) {
	m.record(symbol, recent)
	return m.report, m.err
}

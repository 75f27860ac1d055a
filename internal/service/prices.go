package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/cryptopulse/internal/domain/models"
	"github.com/guttosm/cryptopulse/internal/storage"
)

// PriceService is the query side of the dashboard API.
type PriceService interface {
	ListSymbols(ctx context.Context) ([]string, error)
	LatestPrice(ctx context.Context, symbol string) (*models.PriceObservation, error)
	History(ctx context.Context, symbol string, limit int) ([]models.PriceObservation, error)
	HistoryStats(ctx context.Context, symbol string, limit int) ([]models.PriceObservation, models.HistoryStats, error)
	Overview(ctx context.Context, limit int) ([]models.SymbolOverview, error)
	StoreReport(ctx context.Context, symbol string, recent int) (*models.StoreReport, error)
}

// Options bound the inputs accepted by the service.
type Options struct {
	MaxLimit            int // largest history window a caller may request
	OverviewConcurrency int // symbols fetched in parallel by Overview
}

type priceService struct {
	repo storage.PricesRepository
	opts Options
}

// NewPriceService builds a PriceService over repo.
// Zero-valued options fall back to a 1000-point window and a fan-out of 4.
func NewPriceService(repo storage.PricesRepository, opts Options) PriceService {
	if opts.MaxLimit < 1 {
		opts.MaxLimit = 1000
	}
	if opts.OverviewConcurrency < 1 {
		opts.OverviewConcurrency = 4
	}
	return &priceService{repo: repo, opts: opts}
}

// NormalizeSymbol trims and upper-cases a caller supplied symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *priceService) symbol(raw string) (string, error) {
	sym := NormalizeSymbol(raw)
	if sym == "" {
		return "", fmt.Errorf("%w: symbol is required", models.ErrInvalidArgument)
	}
	return sym, nil
}

func (s *priceService) limit(n int) error {
	if n < 1 || n > s.opts.MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", models.ErrInvalidArgument, s.opts.MaxLimit, n)
	}
	return nil
}

func (s *priceService) ListSymbols(ctx context.Context) ([]string, error) {
	symbols, err := s.repo.ListSymbols(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if sym = NormalizeSymbol(sym); sym != "" {
			out = append(out, sym)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// LatestPrice returns nil without error when the symbol has no observations.
func (s *priceService) LatestPrice(ctx context.Context, symbol string) (*models.PriceObservation, error) {
	sym, err := s.symbol(symbol)
	if err != nil {
		return nil, err
	}
	return s.repo.LatestBySymbol(ctx, sym)
}

func (s *priceService) History(ctx context.Context, symbol string, limit int) ([]models.PriceObservation, error) {
	sym, err := s.symbol(symbol)
	if err != nil {
		return nil, err
	}
	if err := s.limit(limit); err != nil {
		return nil, err
	}
	hist, err := s.repo.HistoryBySymbol(ctx, sym, limit)
	if err != nil {
		return nil, err
	}
	if hist == nil {
		hist = []models.PriceObservation{}
	}
	return hist, nil
}

func (s *priceService) HistoryStats(ctx context.Context, symbol string, limit int) ([]models.PriceObservation, models.HistoryStats, error) {
	hist, err := s.History(ctx, symbol, limit)
	if err != nil {
		return nil, models.HistoryStats{}, err
	}
	return hist, ComputeStats(hist), nil
}

// Overview builds one dashboard card per symbol. Symbols are fetched
// concurrently; the first store failure cancels the rest and is returned.
func (s *priceService) Overview(ctx context.Context, limit int) ([]models.SymbolOverview, error) {
	if err := s.limit(limit); err != nil {
		return nil, err
	}
	symbols, err := s.ListSymbols(ctx)
	if err != nil {
		return nil, err
	}

	cards := make([]models.SymbolOverview, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.OverviewConcurrency)

	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			latest, err := s.repo.LatestBySymbol(gctx, sym)
			if err != nil {
				return err
			}
			spark, err := s.repo.HistoryBySymbol(gctx, sym, limit)
			if err != nil {
				return err
			}
			if spark == nil {
				spark = []models.PriceObservation{}
			}
			cards[i] = models.SymbolOverview{
				Symbol:    sym,
				Latest:    latest,
				Sparkline: spark,
				Trend:     TrendOf(spark),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cards, nil
}

// StoreReport gathers the operator summary printed by the check mode.
// symbol is optional; recent bounds the number of newest rows returned.
func (s *priceService) StoreReport(ctx context.Context, symbol string, recent int) (*models.StoreReport, error) {
	if err := s.limit(recent); err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Recent(ctx, recent)
	if err != nil {
		return nil, err
	}
	report := &models.StoreReport{TotalRows: total, Recent: rows}

	if sym := NormalizeSymbol(symbol); sym != "" {
		st, err := s.repo.StatsBySymbol(ctx, sym)
		if err != nil {
			return nil, err
		}
		report.Symbol = st
	}
	return report, nil
}

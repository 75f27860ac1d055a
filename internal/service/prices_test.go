package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/guttosm/cryptopulse/internal/domain/models"
)

func newTestService(repo *memRepo) PriceService {
	return NewPriceService(repo, Options{MaxLimit: 1000, OverviewConcurrency: 2})
}

func TestListSymbols_SortedAndDeduplicated(t *testing.T) {
	repo := &memRepo{}
	repo.add("SOL", 150, 1)
	repo.add("BTC", 100, 1)
	repo.add("ETH", 2500, 1)
	repo.add("BTC", 101, 2)

	got, err := newTestService(repo).ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []string{"BTC", "ETH", "SOL"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestListSymbols_EmptyAndFailure(t *testing.T) {
	got, err := newTestService(&memRepo{}).ListSymbols(context.Background())
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil list, got %v err=%v", got, err)
	}

	down := &memRepo{err: fmt.Errorf("%w: boom", models.ErrStoreUnavailable)}
	if _, err := newTestService(down).ListSymbols(context.Background()); !errors.Is(err, models.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
}

func TestLatestPrice_TableDriven(t *testing.T) {
	cases := []struct {
		name      string
		symbol    string
		wantPrice string
		wantNil   bool
		wantErr   error
	}{
		{name: "latest row", symbol: "BTC", wantPrice: "90"},
		{name: "lowercase symbol", symbol: " btc ", wantPrice: "90"},
		{name: "no data", symbol: "ETH", wantNil: true},
		{name: "blank symbol", symbol: "  ", wantErr: models.ErrInvalidArgument},
	}

	svc := newTestService(scenarioRepo())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obs, err := svc.LatestPrice(context.Background(), tc.symbol)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if tc.wantNil {
				if obs != nil {
					t.Fatalf("want no data, got %+v", obs)
				}
				return
			}
			if obs == nil || obs.Price.String() != tc.wantPrice || obs.Timestamp.Second() != 3 {
				t.Fatalf("unexpected latest: %+v", obs)
			}
		})
	}
}

func TestHistory_TableDriven(t *testing.T) {
	cases := []struct {
		name    string
		symbol  string
		limit   int
		wantLen int
		wantErr error
	}{
		{name: "whole window", symbol: "BTC", limit: 10, wantLen: 3},
		{name: "bounded window", symbol: "BTC", limit: 2, wantLen: 2},
		{name: "unknown symbol", symbol: "ETH", limit: 50, wantLen: 0},
		{name: "zero limit", symbol: "BTC", limit: 0, wantErr: models.ErrInvalidArgument},
		{name: "negative limit", symbol: "BTC", limit: -5, wantErr: models.ErrInvalidArgument},
		{name: "above max", symbol: "BTC", limit: 1001, wantErr: models.ErrInvalidArgument},
		{name: "blank symbol", symbol: "", limit: 10, wantErr: models.ErrInvalidArgument},
	}

	svc := newTestService(scenarioRepo())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hist, err := svc.History(context.Background(), tc.symbol, tc.limit)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if hist == nil || len(hist) != tc.wantLen {
				t.Fatalf("len=%d want %d (%v)", len(hist), tc.wantLen, hist)
			}
			for i := 1; i < len(hist); i++ {
				if hist[i].Timestamp.Before(hist[i-1].Timestamp) {
					t.Fatalf("history not ascending at %d", i)
				}
			}
		})
	}
}

func TestHistory_InvalidLimitNeverReachesStore(t *testing.T) {
	repo := scenarioRepo()
	_, _ = newTestService(repo).History(context.Background(), "BTC", -1)
	if repo.calls["history:BTC"] != 0 {
		t.Fatalf("store was queried with an invalid limit")
	}
}

func TestHistory_CaseInsensitive(t *testing.T) {
	svc := newTestService(scenarioRepo())
	lower, err := svc.History(context.Background(), "btc", 5)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	upper, err := svc.History(context.Background(), "BTC", 5)
	if err != nil {
		t.Fatalf("upper: %v", err)
	}
	if len(lower) != len(upper) {
		t.Fatalf("lengths differ: %d vs %d", len(lower), len(upper))
	}
	for i := range lower {
		if lower[i].ID != upper[i].ID {
			t.Fatalf("row %d differs: %+v vs %+v", i, lower[i], upper[i])
		}
	}
}

func TestHistoryStats_Scenario(t *testing.T) {
	hist, stats, err := newTestService(scenarioRepo()).HistoryStats(context.Background(), "BTC", 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("len=%d", len(hist))
	}
	if stats.Min.String() != "90" || stats.Max.String() != "110" || stats.Avg.String() != "100" {
		t.Fatalf("unexpected stats: min=%v max=%v avg=%v", stats.Min, stats.Max, stats.Avg)
	}
	if stats.Trend != models.TrendNegative {
		t.Fatalf("trend=%s want negative", stats.Trend)
	}
}

func TestOverview(t *testing.T) {
	repo := scenarioRepo()
	repo.add("ETH", 2500, 1)
	repo.add("ETH", 2600, 2)
	repo.add("SOL", 150, 1)

	cards, err := newTestService(repo).Overview(context.Background(), 20)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(cards) != 3 {
		t.Fatalf("cards=%d want 3", len(cards))
	}
	want := map[string]models.Trend{"BTC": models.TrendNegative, "ETH": models.TrendPositive, "SOL": models.TrendUndefined}
	for i, c := range cards {
		if i > 0 && cards[i-1].Symbol >= c.Symbol {
			t.Fatalf("cards not sorted by symbol: %v then %v", cards[i-1].Symbol, c.Symbol)
		}
		if c.Trend != want[c.Symbol] {
			t.Fatalf("%s trend=%s want %s", c.Symbol, c.Trend, want[c.Symbol])
		}
		if c.Latest == nil || c.Latest.Symbol != c.Symbol {
			t.Fatalf("%s missing latest", c.Symbol)
		}
	}
}

func TestOverview_FailsOnStoreError(t *testing.T) {
	repo := scenarioRepo()
	repo.add("ETH", 2500, 1)
	repo.err = fmt.Errorf("%w: eth shard down", models.ErrStoreUnavailable)
	repo.failFor = "ETH"

	if _, err := newTestService(repo).Overview(context.Background(), 20); !errors.Is(err, models.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
}

func TestOverview_InvalidLimit(t *testing.T) {
	if _, err := newTestService(scenarioRepo()).Overview(context.Background(), 0); !errors.Is(err, models.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}

func TestStoreReport(t *testing.T) {
	repo := scenarioRepo()
	repo.add("ETH", 2500, 4)
	svc := newTestService(repo)

	rep, err := svc.StoreReport(context.Background(), "btc", 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rep.TotalRows != 4 || len(rep.Recent) != 2 || rep.Recent[0].Symbol != "ETH" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Symbol == nil || rep.Symbol.Symbol != "BTC" || rep.Symbol.Count != 3 {
		t.Fatalf("unexpected symbol stats: %+v", rep.Symbol)
	}

	rep, err = svc.StoreReport(context.Background(), "", 5)
	if err != nil || rep.Symbol != nil {
		t.Fatalf("symbol stats should be skipped without a symbol: %+v err=%v", rep, err)
	}
}

func TestNewPriceService_Defaults(t *testing.T) {
	svc := NewPriceService(scenarioRepo(), Options{}).(*priceService)
	if svc.opts.MaxLimit != 1000 || svc.opts.OverviewConcurrency != 4 {
		t.Fatalf("unexpected defaults: %+v", svc.opts)
	}
}

package dashboard

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinwatch/internal/api"
	"coinwatch/internal/domain"
)

func TestController_LoadInitial_SettlesIndependently(t *testing.T) {
	backend := &stubBackend{
		listPrices: func(ctx context.Context) ([]domain.PriceQuote, error) {
			return []domain.PriceQuote{{Symbol: "BTC", Price: 100}}, nil
		},
		listWatchlist: func(ctx context.Context) ([]domain.WatchlistEntry, error) {
			return nil, &api.APIError{Status: 500, Detail: "boom"}
		},
		listAlerts: func(ctx context.Context) ([]domain.Alert, error) {
			return []domain.Alert{{ID: 1, Symbol: "BTC", TargetPrice: 1}}, nil
		},
		listCostBasis: func(ctx context.Context) ([]domain.CostLot, error) {
			return []domain.CostLot{{ID: 1, Symbol: "BTC", CostPrice: 1, Quantity: 1}}, nil
		},
	}
	ctrl := NewController(backend)

	ctrl.LoadInitial(context.Background())

	assert.Len(t, ctrl.Cache().Prices(), 1)
	assert.Empty(t, ctrl.Cache().Watchlist(), "failed resource falls back to empty")
	assert.Len(t, ctrl.Cache().Alerts(), 1)
	assert.Len(t, ctrl.Cache().CostBasis(), 1)
}

func TestController_ToggleChart_FetchesOncePerExpansion(t *testing.T) {
	var fetches atomic.Int32
	backend := &stubBackend{
		fetchChart: func(ctx context.Context, coinID string, days int, interval string) ([]domain.Candle, error) {
			fetches.Add(1)
			return []domain.Candle{{Date: "2024-01-01", Close: 1}}, nil
		},
	}
	ctrl := NewController(backend)

	ctrl.ToggleChart("BTC", "bitcoin")
	ctrl.Coordinator().Wait()

	require.True(t, ctrl.Expansions().IsExpanded(ExpandChart, "BTC"))
	candles, ok := ctrl.Cache().Candles("BTC")
	require.True(t, ok)
	require.Len(t, candles, 1)
	assert.Equal(t, int32(1), fetches.Load())

	// Collapse then re-expand: cache is warm, no second fetch.
	ctrl.ToggleChart("BTC", "bitcoin")
	require.False(t, ctrl.Expansions().IsExpanded(ExpandChart, "BTC"))
	ctrl.ToggleChart("BTC", "bitcoin")
	ctrl.Coordinator().Wait()
	assert.Equal(t, int32(1), fetches.Load(), "warm cache must not refetch")
}

func TestController_ToggleTwiceRestoresState(t *testing.T) {
	ctrl := NewController(&stubBackend{})

	require.False(t, ctrl.Expansions().IsExpanded(ExpandPurchases, "BTC"))
	ctrl.TogglePurchases("BTC")
	require.True(t, ctrl.Expansions().IsExpanded(ExpandPurchases, "BTC"))
	ctrl.TogglePurchases("BTC")
	require.False(t, ctrl.Expansions().IsExpanded(ExpandPurchases, "BTC"))
}

func TestController_CollapseDoesNotCancel(t *testing.T) {
	release := make(chan struct{})
	backend := &stubBackend{
		fetchChart: func(ctx context.Context, coinID string, days int, interval string) ([]domain.Candle, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-release:
				return []domain.Candle{{Date: "2024-01-01", Close: 9}}, nil
			}
		},
	}
	ctrl := NewController(backend)

	ctrl.ToggleChart("BTC", "bitcoin")
	ctrl.ToggleChart("BTC", "bitcoin") // collapse while in flight

	close(release)
	ctrl.Coordinator().Wait()

	// The late result still lands in the cache; it is just not shown.
	candles, ok := ctrl.Cache().Candles("BTC")
	require.True(t, ok)
	assert.Equal(t, float64(9), candles[0].Close)
	assert.False(t, ctrl.Expansions().IsExpanded(ExpandChart, "BTC"))
}

func TestController_ReexpandCancelsInFlight(t *testing.T) {
	var calls atomic.Int32
	firstCancelled := make(chan struct{})
	backend := &stubBackend{
		fetchChart: func(ctx context.Context, coinID string, days int, interval string) ([]domain.Candle, error) {
			if calls.Add(1) == 1 {
				<-ctx.Done()
				close(firstCancelled)
				return nil, ctx.Err()
			}
			return []domain.Candle{{Date: "2024-01-02", Close: 2}}, nil
		},
	}
	ctrl := NewController(backend)

	ctrl.ToggleChart("BTC", "bitcoin") // R1 starts
	ctrl.ToggleChart("BTC", "bitcoin") // collapse, R1 keeps running
	ctrl.ToggleChart("BTC", "bitcoin") // re-expand: cache still cold, R2 starts, R1 cancelled

	select {
	case <-firstCancelled:
	case <-time.After(time.Second):
		t.Fatal("first request was not cancelled by the re-expansion")
	}
	ctrl.Coordinator().Wait()

	candles, ok := ctrl.Cache().Candles("BTC")
	require.True(t, ok)
	require.Len(t, candles, 1)
	assert.Equal(t, float64(2), candles[0].Close, "only the second result may populate the cache")
}

func TestController_ToggleHistory_Deduplicates(t *testing.T) {
	backend := &stubBackend{
		fetchHistory: func(ctx context.Context, coinID string, days int) ([]domain.HistoryItem, error) {
			return []domain.HistoryItem{
				{Date: "2024-01-01", Close: 1},
				{Date: "2024-01-01", Close: 2},
				{Date: "2024-01-02", Close: 3},
			}, nil
		},
	}
	ctrl := NewController(backend)

	ctrl.ToggleHistory("BTC", "bitcoin")
	ctrl.Coordinator().Wait()

	items, ok := ctrl.Cache().History("BTC")
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "2024-01-02", items[0].Date)
	assert.Equal(t, float64(3), items[0].Close)
	assert.Equal(t, "2024-01-01", items[1].Date)
	assert.Equal(t, float64(2), items[1].Close)
}

func TestController_MutationsAreNotOptimistic(t *testing.T) {
	backend := &stubBackend{
		addWatchlist: func(ctx context.Context, coinID string) (*domain.WatchlistEntry, error) {
			return nil, api.ErrSessionExpired
		},
	}
	ctrl := NewController(backend)

	err := ctrl.AddToWatchlist(context.Background(), "bitcoin")
	require.ErrorIs(t, err, api.ErrSessionExpired)
	assert.Empty(t, ctrl.Cache().Watchlist(), "rejected mutation must not touch the cache")
}

func TestController_AddThenRemoveRestoresCache(t *testing.T) {
	backend := &stubBackend{
		addWatchlist: func(ctx context.Context, coinID string) (*domain.WatchlistEntry, error) {
			return &domain.WatchlistEntry{ID: 11, Symbol: "BTC", CoinID: coinID}, nil
		},
	}
	ctrl := NewController(backend)

	before := ctrl.Cache().Watchlist()
	require.NoError(t, ctrl.AddToWatchlist(context.Background(), "bitcoin"))
	require.Len(t, ctrl.Cache().Watchlist(), 1)
	require.NoError(t, ctrl.RemoveFromWatchlist(context.Background(), 11))
	assert.Equal(t, before, ctrl.Cache().Watchlist())
}

func TestController_ValidationRejectsLocally(t *testing.T) {
	var called atomic.Bool
	backend := &stubBackend{
		createAlert: func(ctx context.Context, symbol string, targetPrice float64) (*domain.Alert, error) {
			called.Store(true)
			return &domain.Alert{}, nil
		},
		addCostBasis: func(ctx context.Context, symbol string, costPrice, quantity float64) (*domain.CostLot, error) {
			called.Store(true)
			return &domain.CostLot{}, nil
		},
	}
	ctrl := NewController(backend)
	ctx := context.Background()

	require.ErrorIs(t, ctrl.CreateAlert(ctx, "  ", 100), ErrValidation)
	require.ErrorIs(t, ctrl.CreateAlert(ctx, "BTC", 0), ErrValidation)
	require.ErrorIs(t, ctrl.AddLot(ctx, "", 1, 1), ErrValidation)
	require.ErrorIs(t, ctrl.AddLot(ctx, "BTC", -1, 1), ErrValidation)
	require.ErrorIs(t, ctrl.AddLot(ctx, "BTC", 1, 0), ErrValidation)
	assert.False(t, called.Load(), "validation failures must not issue requests")
}

func TestController_FetchErrorSetsTransientStatus(t *testing.T) {
	backend := &stubBackend{
		fetchChart: func(ctx context.Context, coinID string, days int, interval string) ([]domain.Candle, error) {
			return nil, &api.APIError{Status: 500, Detail: "upstream down"}
		},
	}
	ctrl := NewController(backend)

	ctrl.ToggleChart("BTC", "bitcoin")
	ctrl.Coordinator().Wait()

	msg, isError, ok := ctrl.Status().Current()
	require.True(t, ok)
	assert.True(t, isError)
	assert.Contains(t, msg, "Failed to load chart for BTC")
	assert.Contains(t, msg, "upstream down")
	// Expansion stays open; the cache stays cold.
	assert.True(t, ctrl.Expansions().IsExpanded(ExpandChart, "BTC"))
	assert.False(t, ctrl.Cache().HasCandles("BTC"))
}

func TestController_CancelledFetchLeavesNoTrace(t *testing.T) {
	backend := &stubBackend{
		fetchChart: func(ctx context.Context, coinID string, days int, interval string) ([]domain.Candle, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	ctrl := NewController(backend)

	ctrl.ToggleChart("BTC", "bitcoin")
	ctrl.Coordinator().CancelAll()
	ctrl.Coordinator().Wait()

	_, _, ok := ctrl.Status().Current()
	assert.False(t, ok, "cancellation must not surface an error message")
	assert.True(t, ctrl.Expansions().IsExpanded(ExpandChart, "BTC"), "expansion stays open")
	assert.False(t, ctrl.Cache().HasCandles("BTC"))
}

func TestController_Reorder(t *testing.T) {
	ctrl := NewController(&stubBackend{})
	ctrl.Cache().SetWatchlist([]domain.WatchlistEntry{
		{ID: 1, Symbol: "BTC"},
		{ID: 2, Symbol: "ETH"},
		{ID: 3, Symbol: "SOL"},
	})

	ctrl.Reorder(0, 2)

	got := ctrl.Cache().Watchlist()
	require.Len(t, got, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{got[0].ID, got[1].ID, got[2].ID})
}

func TestController_ErrorsRollNothingBack(t *testing.T) {
	serverErr := &api.APIError{Status: 500, Detail: "boom"}
	backend := &stubBackend{
		removeAlert: func(ctx context.Context, id int64) error { return serverErr },
	}
	ctrl := NewController(backend)
	ctrl.Cache().SetAlerts([]domain.Alert{{ID: 1, Symbol: "BTC", TargetPrice: 1}})

	err := ctrl.RemoveAlert(context.Background(), 1)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Len(t, ctrl.Cache().Alerts(), 1, "failed delete must leave the cache alone")
}

package dashboard

import (
	"context"

	"coinwatch/internal/api"
	"coinwatch/internal/domain"
)

// stubBackend implements Backend with overridable function fields. Calls
// without an override succeed with zero values.
type stubBackend struct {
	listPrices       func(ctx context.Context) ([]domain.PriceQuote, error)
	listWatchlist    func(ctx context.Context) ([]domain.WatchlistEntry, error)
	listAlerts       func(ctx context.Context) ([]domain.Alert, error)
	listCostBasis    func(ctx context.Context) ([]domain.CostLot, error)
	addWatchlist     func(ctx context.Context, coinID string) (*domain.WatchlistEntry, error)
	removeWatchlist  func(ctx context.Context, id int64) error
	createAlert      func(ctx context.Context, symbol string, targetPrice float64) (*domain.Alert, error)
	removeAlert      func(ctx context.Context, id int64) error
	addCostBasis     func(ctx context.Context, symbol string, costPrice, quantity float64) (*domain.CostLot, error)
	removeCostBasis  func(ctx context.Context, id int64) error
	fetchHistory     func(ctx context.Context, coinID string, days int) ([]domain.HistoryItem, error)
	fetchChart       func(ctx context.Context, coinID string, days int, interval string) ([]domain.Candle, error)
	listCoins        func(ctx context.Context) ([]domain.CoinOption, error)
	listMarketPrices func(ctx context.Context) (map[string]float64, error)
}

func (s *stubBackend) ListPrices(ctx context.Context) ([]domain.PriceQuote, error) {
	if s.listPrices != nil {
		return s.listPrices(ctx)
	}
	return nil, nil
}

func (s *stubBackend) ListWatchlist(ctx context.Context) ([]domain.WatchlistEntry, error) {
	if s.listWatchlist != nil {
		return s.listWatchlist(ctx)
	}
	return nil, nil
}

func (s *stubBackend) ListAlerts(ctx context.Context) ([]domain.Alert, error) {
	if s.listAlerts != nil {
		return s.listAlerts(ctx)
	}
	return nil, nil
}

func (s *stubBackend) ListCostBasis(ctx context.Context) ([]domain.CostLot, error) {
	if s.listCostBasis != nil {
		return s.listCostBasis(ctx)
	}
	return nil, nil
}

func (s *stubBackend) ListAvailableCoins(ctx context.Context) ([]domain.CoinOption, error) {
	if s.listCoins != nil {
		return s.listCoins(ctx)
	}
	return nil, nil
}

func (s *stubBackend) ListMarketPrices(ctx context.Context) (map[string]float64, error) {
	if s.listMarketPrices != nil {
		return s.listMarketPrices(ctx)
	}
	return nil, nil
}

func (s *stubBackend) ListTrending(ctx context.Context) ([]domain.TrendingCoin, error) {
	return nil, nil
}

func (s *stubBackend) ListTopGainersLosers(ctx context.Context) (*api.TopGainersLosers, error) {
	return &api.TopGainersLosers{}, nil
}

func (s *stubBackend) AddWatchlist(ctx context.Context, coinID string) (*domain.WatchlistEntry, error) {
	if s.addWatchlist != nil {
		return s.addWatchlist(ctx, coinID)
	}
	return &domain.WatchlistEntry{}, nil
}

func (s *stubBackend) RemoveWatchlist(ctx context.Context, id int64) error {
	if s.removeWatchlist != nil {
		return s.removeWatchlist(ctx, id)
	}
	return nil
}

func (s *stubBackend) CreateAlert(ctx context.Context, symbol string, targetPrice float64) (*domain.Alert, error) {
	if s.createAlert != nil {
		return s.createAlert(ctx, symbol, targetPrice)
	}
	return &domain.Alert{Symbol: symbol, TargetPrice: targetPrice}, nil
}

func (s *stubBackend) RemoveAlert(ctx context.Context, id int64) error {
	if s.removeAlert != nil {
		return s.removeAlert(ctx, id)
	}
	return nil
}

func (s *stubBackend) AddCostBasis(ctx context.Context, symbol string, costPrice, quantity float64) (*domain.CostLot, error) {
	if s.addCostBasis != nil {
		return s.addCostBasis(ctx, symbol, costPrice, quantity)
	}
	return &domain.CostLot{Symbol: symbol, CostPrice: costPrice, Quantity: quantity}, nil
}

func (s *stubBackend) RemoveCostBasis(ctx context.Context, id int64) error {
	if s.removeCostBasis != nil {
		return s.removeCostBasis(ctx, id)
	}
	return nil
}

func (s *stubBackend) FetchHistory(ctx context.Context, coinID string, days int) ([]domain.HistoryItem, error) {
	if s.fetchHistory != nil {
		return s.fetchHistory(ctx, coinID, days)
	}
	return nil, nil
}

func (s *stubBackend) FetchChart(ctx context.Context, coinID string, days int, interval string) ([]domain.Candle, error) {
	if s.fetchChart != nil {
		return s.fetchChart(ctx, coinID, days, interval)
	}
	return nil, nil
}

func (s *stubBackend) TriggerRefresh(ctx context.Context) (string, error) {
	return "ok", nil
}

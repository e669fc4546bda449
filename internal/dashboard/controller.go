package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"coinwatch/internal/api"
	"coinwatch/internal/domain"
)

// Feedback display durations, matching how long toasts stay up.
const (
	errorTTL = 4 * time.Second
	infoTTL  = 3 * time.Second
)

// Backend is the slice of the API surface the dashboard drives. Satisfied
// by *api.Client; tests substitute a stub.
type Backend interface {
	ListPrices(ctx context.Context) ([]domain.PriceQuote, error)
	ListWatchlist(ctx context.Context) ([]domain.WatchlistEntry, error)
	ListAlerts(ctx context.Context) ([]domain.Alert, error)
	ListCostBasis(ctx context.Context) ([]domain.CostLot, error)
	ListAvailableCoins(ctx context.Context) ([]domain.CoinOption, error)
	ListMarketPrices(ctx context.Context) (map[string]float64, error)
	ListTrending(ctx context.Context) ([]domain.TrendingCoin, error)
	ListTopGainersLosers(ctx context.Context) (*api.TopGainersLosers, error)
	AddWatchlist(ctx context.Context, coinID string) (*domain.WatchlistEntry, error)
	RemoveWatchlist(ctx context.Context, id int64) error
	CreateAlert(ctx context.Context, symbol string, targetPrice float64) (*domain.Alert, error)
	RemoveAlert(ctx context.Context, id int64) error
	AddCostBasis(ctx context.Context, symbol string, costPrice, quantity float64) (*domain.CostLot, error)
	RemoveCostBasis(ctx context.Context, id int64) error
	FetchHistory(ctx context.Context, coinID string, days int) ([]domain.HistoryItem, error)
	FetchChart(ctx context.Context, coinID string, days int, interval string) ([]domain.Candle, error)
	TriggerRefresh(ctx context.Context) (string, error)
}

// ErrValidation marks local form rejections. No request is issued for them.
var ErrValidation = errors.New("validation")

// Controller binds the backend, caches, expansion state, and fetch
// coordinator into the dashboard's behavior. Mutations are not optimistic:
// the cache changes only after the server accepts.
type Controller struct {
	backend Backend
	cache   *Cache
	exps    *Expansions
	coord   *Coordinator
	status  *Status
	logger  *slog.Logger

	chartDays     int
	chartInterval string
	historyDays   int
}

// ControllerOption configures Controller.
type ControllerOption func(*Controller)

// WithFetchTimeout sets the chart/history fetch ceiling.
func WithFetchTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) {
		c.coord = NewCoordinator(d, c.reportFetchError)
	}
}

// WithChartRange sets the day span and candle interval for chart fetches.
func WithChartRange(days int, interval string) ControllerOption {
	return func(c *Controller) {
		c.chartDays = days
		c.chartInterval = interval
	}
}

// WithHistoryRange sets the day span for history fetches.
func WithHistoryRange(days int) ControllerOption {
	return func(c *Controller) { c.historyDays = days }
}

// WithControllerLogger sets the structured logger.
func WithControllerLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a dashboard controller over the given backend.
func NewController(backend Backend, opts ...ControllerOption) *Controller {
	c := &Controller{
		backend:       backend,
		cache:         NewCache(),
		exps:          NewExpansions(),
		status:        NewStatus(),
		logger:        slog.Default(),
		chartDays:     30,
		chartInterval: "daily",
		historyDays:   30,
	}
	c.coord = NewCoordinator(DefaultFetchTimeout, c.reportFetchError)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache exposes the resource caches for rendering.
func (c *Controller) Cache() *Cache { return c.cache }

// Expansions exposes the expansion state for rendering.
func (c *Controller) Expansions() *Expansions { return c.exps }

// Status exposes the transient message board.
func (c *Controller) Status() *Status { return c.status }

// Coordinator exposes the fetch coordinator (loading state, teardown).
func (c *Controller) Coordinator() *Coordinator { return c.coord }

// LoadInitial fetches prices, watchlist, alerts, and cost basis in
// parallel. Each resource settles independently; a failure leaves that
// cache empty and never blocks the others. Session-expiry errors are
// swallowed here: the HTTP client has already navigated away.
func (c *Controller) LoadInitial(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		prices, err := c.backend.ListPrices(ctx)
		c.cache.SetPrices(settled(c.logger, "prices", prices, err))
	}()
	go func() {
		defer wg.Done()
		entries, err := c.backend.ListWatchlist(ctx)
		c.cache.SetWatchlist(settled(c.logger, "watchlist", entries, err))
	}()
	go func() {
		defer wg.Done()
		alerts, err := c.backend.ListAlerts(ctx)
		c.cache.SetAlerts(settled(c.logger, "alerts", alerts, err))
	}()
	go func() {
		defer wg.Done()
		lots, err := c.backend.ListCostBasis(ctx)
		c.cache.SetCostBasis(settled(c.logger, "cost-basis", lots, err))
	}()

	wg.Wait()
}

// settled maps a per-resource failure to an empty slice so one broken
// endpoint cannot mask the others.
func settled[T any](logger *slog.Logger, resource string, data []T, err error) []T {
	if err != nil {
		if !api.IsCancelled(err) && !errors.Is(err, api.ErrSessionExpired) {
			logger.Warn("initial load failed", slog.String("resource", resource), slog.Any("error", err))
		}
		return nil
	}
	return data
}

// Refresh re-runs the initial load and reports completion.
func (c *Controller) Refresh(ctx context.Context) {
	c.LoadInitial(ctx)
	c.status.SetInfo("Prices refreshed", infoTTL)
}

// TriggerServerRefresh asks the backend to re-ingest live prices.
func (c *Controller) TriggerServerRefresh(ctx context.Context) (string, error) {
	return c.backend.TriggerRefresh(ctx)
}

// EnsureCoins loads the coin catalog once per session.
func (c *Controller) EnsureCoins(ctx context.Context) error {
	if len(c.cache.Coins()) > 0 {
		return nil
	}
	coins, err := c.backend.ListAvailableCoins(ctx)
	if err != nil {
		return err
	}
	c.cache.SetCoins(coins)
	return nil
}

// LoadMarketPrices refreshes the bulk market price cache.
func (c *Controller) LoadMarketPrices(ctx context.Context) error {
	prices, err := c.backend.ListMarketPrices(ctx)
	if err != nil {
		return err
	}
	c.cache.SetMarketPrices(prices)
	return nil
}

// Trending fetches the trending feed. Pulled on market-tab activation,
// never cached.
func (c *Controller) Trending(ctx context.Context) ([]domain.TrendingCoin, error) {
	return c.backend.ListTrending(ctx)
}

// TopGainersLosers fetches the 24h movers feed.
func (c *Controller) TopGainersLosers(ctx context.Context) (*api.TopGainersLosers, error) {
	return c.backend.ListTopGainersLosers(ctx)
}

// View derives the current dashboard from the caches.
func (c *Controller) View() View {
	return BuildView(c.cache.Watchlist(), c.cache.Prices(), c.cache.CostBasis(), c.cache.Alerts())
}

// ToggleChart expands or collapses the candle panel for a symbol.
// Collapsing never cancels an in-flight fetch: a late result still lands
// in the cache, it is just not shown. Expanding with a warm cache fetches
// nothing; otherwise the fetch routes through the coordinator, which
// cancels any request already running for this (kind, symbol).
func (c *Controller) ToggleChart(symbol, coinID string) {
	if !c.exps.Toggle(ExpandChart, symbol) {
		return
	}
	if c.cache.HasCandles(symbol) {
		return
	}
	c.coord.Begin(ExpandChart, symbol, func(ctx context.Context) error {
		candles, err := c.backend.FetchChart(ctx, coinID, c.chartDays, c.chartInterval)
		if err != nil {
			return err
		}
		c.cache.SetCandles(symbol, candles)
		return nil
	})
}

// ToggleHistory expands or collapses the OHLC history panel for a symbol.
// Responses are deduplicated by calendar date (last wins) and ordered
// newest-first before caching.
func (c *Controller) ToggleHistory(symbol, coinID string) {
	if !c.exps.Toggle(ExpandHistory, symbol) {
		return
	}
	if c.cache.HasHistory(symbol) {
		return
	}
	c.coord.Begin(ExpandHistory, symbol, func(ctx context.Context) error {
		items, err := c.backend.FetchHistory(ctx, coinID, c.historyDays)
		if err != nil {
			return err
		}
		c.cache.SetHistory(symbol, domain.DeduplicateHistoryByDate(items))
		return nil
	})
}

// TogglePurchases flips the purchase-history panel. Lots are already
// cached; no fetch is involved.
func (c *Controller) TogglePurchases(symbol string) {
	c.exps.Toggle(ExpandPurchases, symbol)
}

// AddToWatchlist adds a coin and, on success, appends the server's entry
// to the cache.
func (c *Controller) AddToWatchlist(ctx context.Context, coinID string) error {
	if coinID == "" {
		return fmt.Errorf("%w: coin is required", ErrValidation)
	}
	entry, err := c.backend.AddWatchlist(ctx, coinID)
	if err != nil {
		return err
	}
	c.cache.AppendWatchlist(*entry)
	c.status.SetInfo(fmt.Sprintf("%s added to watchlist", entry.Symbol), infoTTL)
	return nil
}

// RemoveFromWatchlist deletes an entry and, on success, drops it locally.
func (c *Controller) RemoveFromWatchlist(ctx context.Context, id int64) error {
	if err := c.backend.RemoveWatchlist(ctx, id); err != nil {
		return err
	}
	c.cache.RemoveWatchlist(id)
	return nil
}

// CreateAlert registers a price target.
func (c *Controller) CreateAlert(ctx context.Context, symbol string, targetPrice float64) error {
	if domain.NormalizeSymbol(symbol) == "" {
		return fmt.Errorf("%w: symbol is required", ErrValidation)
	}
	if targetPrice <= 0 {
		return fmt.Errorf("%w: target price must be positive", ErrValidation)
	}
	alert, err := c.backend.CreateAlert(ctx, symbol, targetPrice)
	if err != nil {
		return err
	}
	c.cache.AppendAlert(*alert)
	c.status.SetInfo(fmt.Sprintf("Alert set for %s", alert.Symbol), infoTTL)
	return nil
}

// RemoveAlert deletes an alert.
func (c *Controller) RemoveAlert(ctx context.Context, id int64) error {
	if err := c.backend.RemoveAlert(ctx, id); err != nil {
		return err
	}
	c.cache.RemoveAlert(id)
	return nil
}

// AddLot records a purchase lot.
func (c *Controller) AddLot(ctx context.Context, symbol string, costPrice, quantity float64) error {
	if domain.NormalizeSymbol(symbol) == "" {
		return fmt.Errorf("%w: symbol is required", ErrValidation)
	}
	if costPrice <= 0 || quantity <= 0 {
		return fmt.Errorf("%w: price and quantity must be positive", ErrValidation)
	}
	lot, err := c.backend.AddCostBasis(ctx, symbol, costPrice, quantity)
	if err != nil {
		return err
	}
	c.cache.AppendCostBasis(*lot)
	c.status.SetInfo(fmt.Sprintf("Purchase recorded for %s", lot.Symbol), infoTTL)
	return nil
}

// RemoveLot deletes a purchase lot.
func (c *Controller) RemoveLot(ctx context.Context, id int64) error {
	if err := c.backend.RemoveCostBasis(ctx, id); err != nil {
		return err
	}
	c.cache.RemoveCostBasis(id)
	return nil
}

// Reorder moves a watchlist row. The change is client-local only.
func (c *Controller) Reorder(from, to int) {
	c.cache.ReorderWatchlist(from, to)
}

func (c *Controller) reportFetchError(kind ExpansionKind, symbol string, err error) {
	label := "history"
	if kind == ExpandChart {
		label = "chart"
	}
	if api.IsTimeout(err) {
		c.status.SetError(fmt.Sprintf("Failed to load %s for %s: request timed out", label, symbol), errorTTL)
		return
	}
	if errors.Is(err, api.ErrSessionExpired) {
		return
	}
	c.status.SetError(fmt.Sprintf("Failed to load %s for %s: %s", label, symbol, api.ErrorDetail(err)), errorTTL)
}

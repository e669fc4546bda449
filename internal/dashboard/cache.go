// Package dashboard holds the session-side state of the tracker: resource
// caches, the fetch coordinator for chart/history expansions, and the pure
// view-model derivation.
package dashboard

import (
	"sync"

	"coinwatch/internal/domain"
)

// Cache is the session-lifetime copy of the server's resources. List
// resources are replaced wholesale on refresh; chart and history data
// accumulate per symbol. All accessors copy so callers can never alias the
// cached slices.
type Cache struct {
	mu           sync.RWMutex
	prices       []domain.PriceQuote
	watchlist    []domain.WatchlistEntry
	alerts       []domain.Alert
	costBasis    []domain.CostLot
	coins        []domain.CoinOption
	marketPrices map[string]float64
	history      map[string][]domain.HistoryItem // keyed by normalized symbol
	candles      map[string][]domain.Candle      // keyed by normalized symbol
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		marketPrices: make(map[string]float64),
		history:      make(map[string][]domain.HistoryItem),
		candles:      make(map[string][]domain.Candle),
	}
}

func (c *Cache) SetPrices(prices []domain.PriceQuote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices = append([]domain.PriceQuote(nil), prices...)
}

func (c *Cache) Prices() []domain.PriceQuote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.PriceQuote(nil), c.prices...)
}

func (c *Cache) SetWatchlist(entries []domain.WatchlistEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchlist = append([]domain.WatchlistEntry(nil), entries...)
}

func (c *Cache) Watchlist() []domain.WatchlistEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.WatchlistEntry(nil), c.watchlist...)
}

// AppendWatchlist adds one server-accepted entry to the cached list.
func (c *Cache) AppendWatchlist(entry domain.WatchlistEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchlist = append(c.watchlist, entry)
}

// RemoveWatchlist drops the entry with the given id, if present.
func (c *Cache) RemoveWatchlist(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.watchlist[:0]
	for _, e := range c.watchlist {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	c.watchlist = kept
}

// ReorderWatchlist moves the entry at from to position to. The move is
// client-local and never persisted.
func (c *Cache) ReorderWatchlist(from, to int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if from < 0 || from >= len(c.watchlist) || to < 0 || to >= len(c.watchlist) || from == to {
		return
	}
	entry := c.watchlist[from]
	c.watchlist = append(c.watchlist[:from], c.watchlist[from+1:]...)
	c.watchlist = append(c.watchlist[:to], append([]domain.WatchlistEntry{entry}, c.watchlist[to:]...)...)
}

func (c *Cache) SetAlerts(alerts []domain.Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append([]domain.Alert(nil), alerts...)
}

func (c *Cache) Alerts() []domain.Alert {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Alert(nil), c.alerts...)
}

func (c *Cache) AppendAlert(alert domain.Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, alert)
}

func (c *Cache) RemoveAlert(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.alerts[:0]
	for _, a := range c.alerts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	c.alerts = kept
}

func (c *Cache) SetCostBasis(lots []domain.CostLot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.costBasis = append([]domain.CostLot(nil), lots...)
}

func (c *Cache) CostBasis() []domain.CostLot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.CostLot(nil), c.costBasis...)
}

func (c *Cache) AppendCostBasis(lot domain.CostLot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.costBasis = append(c.costBasis, lot)
}

func (c *Cache) RemoveCostBasis(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.costBasis[:0]
	for _, l := range c.costBasis {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	c.costBasis = kept
}

func (c *Cache) SetCoins(coins []domain.CoinOption) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coins = append([]domain.CoinOption(nil), coins...)
}

func (c *Cache) Coins() []domain.CoinOption {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.CoinOption(nil), c.coins...)
}

func (c *Cache) SetMarketPrices(prices map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.marketPrices = make(map[string]float64, len(prices))
	for coinID, p := range prices {
		c.marketPrices[coinID] = p
	}
}

func (c *Cache) MarketPrices() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]float64, len(c.marketPrices))
	for coinID, p := range c.marketPrices {
		out[coinID] = p
	}
	return out
}

func (c *Cache) SetHistory(symbol string, items []domain.HistoryItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history[domain.NormalizeSymbol(symbol)] = append([]domain.HistoryItem(nil), items...)
}

func (c *Cache) History(symbol string) ([]domain.HistoryItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items, ok := c.history[domain.NormalizeSymbol(symbol)]
	if !ok {
		return nil, false
	}
	return append([]domain.HistoryItem(nil), items...), true
}

func (c *Cache) HasHistory(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.history[domain.NormalizeSymbol(symbol)]
	return ok
}

func (c *Cache) SetCandles(symbol string, candles []domain.Candle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.candles[domain.NormalizeSymbol(symbol)] = append([]domain.Candle(nil), candles...)
}

func (c *Cache) Candles(symbol string) ([]domain.Candle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	candles, ok := c.candles[domain.NormalizeSymbol(symbol)]
	if !ok {
		return nil, false
	}
	return append([]domain.Candle(nil), candles...), true
}

func (c *Cache) HasCandles(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.candles[domain.NormalizeSymbol(symbol)]
	return ok
}

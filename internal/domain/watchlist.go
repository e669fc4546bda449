package domain

// WatchlistEntry is one coin the user tracks. CoinID keys the chart and
// history endpoints; Symbol joins against prices, alerts, and cost lots.
type WatchlistEntry struct {
	ID        int64  `json:"id"`
	Symbol    string `json:"symbol"`
	CoinID    string `json:"coin_id"`
	Order     int    `json:"order"`
	CreatedAt string `json:"created_at"`
}

// Alert is a server-evaluated price target for one symbol.
type Alert struct {
	ID          int64   `json:"id"`
	Symbol      string  `json:"symbol"`
	TargetPrice float64 `json:"target_price"`
	CreatedAt   string  `json:"created_at"`
}

// CostLot is one purchase record: the price paid and the quantity acquired
// at that price.
type CostLot struct {
	ID        int64   `json:"id"`
	Symbol    string  `json:"symbol"`
	CostPrice float64 `json:"cost_price"`
	Quantity  float64 `json:"quantity"`
}

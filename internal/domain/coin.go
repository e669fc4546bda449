package domain

// CoinOption is one entry in the coin catalog. The catalog id (a slug such
// as "bitcoin") is the canonical identifier used by chart and history
// endpoints; the symbol is a display field.
type CoinOption struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
}

// PriceQuote is the latest tracked price for one symbol.
type PriceQuote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// PricePoint is one sample of a per-symbol price series.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// TrendingCoin is a ranked row from the market trending feed.
type TrendingCoin struct {
	ID            string  `json:"id"`
	CoinID        int64   `json:"coin_id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	MarketCapRank int     `json:"market_cap_rank"`
	Thumb         string  `json:"thumb"`
	PriceBTC      float64 `json:"price_btc"`
}

// TopGainerLoser is one row of the 24h movers feed.
type TopGainerLoser struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	Name                     string  `json:"name"`
	Image                    string  `json:"image"`
	MarketCapRank            int     `json:"market_cap_rank"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	CurrentPrice             float64 `json:"current_price"`
}

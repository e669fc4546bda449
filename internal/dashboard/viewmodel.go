package dashboard

import (
	"coinwatch/internal/domain"
)

// LotView is one purchase lot with its derived figures. Invested of zero
// yields a GainLossPercent of exactly zero, never NaN or infinity.
type LotView struct {
	Lot             domain.CostLot
	Invested        float64
	CurrentValue    float64
	GainLoss        float64
	GainLossPercent float64
}

// Row is one watchlist entry joined with its current price, lots, and
// alerts.
type Row struct {
	Entry        domain.WatchlistEntry
	CurrentPrice float64
	Lots         []LotView
	Alerts       []domain.Alert
}

// PortfolioTotals aggregates across every lot of every symbol.
type PortfolioTotals struct {
	Invested        float64
	CurrentValue    float64
	GainLoss        float64
	GainLossPercent float64
}

// View is the derived dashboard: one row per watchlist entry in list
// order, plus portfolio aggregates.
type View struct {
	Rows      []Row
	Portfolio PortfolioTotals
}

// BuildView derives the dashboard from the cached resources. It is a pure
// function: same inputs, same output, no I/O. Symbol joins are
// case-insensitive; a symbol missing from the price cache prices at zero.
func BuildView(watchlist []domain.WatchlistEntry, prices []domain.PriceQuote, costBasis []domain.CostLot, alerts []domain.Alert) View {
	priceBySymbol := make(map[string]float64, len(prices))
	for _, q := range prices {
		priceBySymbol[domain.NormalizeSymbol(q.Symbol)] = q.Price
	}

	view := View{Rows: make([]Row, 0, len(watchlist))}
	for _, entry := range watchlist {
		symbol := domain.NormalizeSymbol(entry.Symbol)
		row := Row{
			Entry:        entry,
			CurrentPrice: priceBySymbol[symbol],
		}
		for _, lot := range costBasis {
			if domain.NormalizeSymbol(lot.Symbol) != symbol {
				continue
			}
			row.Lots = append(row.Lots, deriveLot(lot, row.CurrentPrice))
		}
		for _, alert := range alerts {
			if domain.NormalizeSymbol(alert.Symbol) == symbol {
				row.Alerts = append(row.Alerts, alert)
			}
		}
		view.Rows = append(view.Rows, row)
	}

	for _, lot := range costBasis {
		derived := deriveLot(lot, priceBySymbol[domain.NormalizeSymbol(lot.Symbol)])
		view.Portfolio.Invested += derived.Invested
		view.Portfolio.CurrentValue += derived.CurrentValue
	}
	view.Portfolio.GainLoss = view.Portfolio.CurrentValue - view.Portfolio.Invested
	if view.Portfolio.Invested > 0 {
		view.Portfolio.GainLossPercent = view.Portfolio.GainLoss / view.Portfolio.Invested * 100
	}
	return view
}

func deriveLot(lot domain.CostLot, currentPrice float64) LotView {
	v := LotView{
		Lot:          lot,
		Invested:     lot.CostPrice * lot.Quantity,
		CurrentValue: currentPrice * lot.Quantity,
	}
	v.GainLoss = v.CurrentValue - v.Invested
	if v.Invested > 0 {
		v.GainLossPercent = v.GainLoss / v.Invested * 100
	}
	return v
}

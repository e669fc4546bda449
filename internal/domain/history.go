package domain

import "sort"

// HistoryItem is one daily OHLC bar.
type HistoryItem struct {
	Timestamp int64   `json:"timestamp"`
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

// Candle is an OHLC record at a finer interval, intended for chart rendering.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

// DeduplicateHistoryByDate collapses items sharing a calendar date to the
// last one seen in insertion order, then sorts newest-first. Dates are
// ISO-8601 day strings, so lexicographic order is chronological order.
func DeduplicateHistoryByDate(items []HistoryItem) []HistoryItem {
	byDate := make(map[string]HistoryItem, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, seen := byDate[item.Date]; !seen {
			order = append(order, item.Date)
		}
		byDate[item.Date] = item
	}

	out := make([]HistoryItem, 0, len(order))
	for _, date := range order {
		out = append(out, byDate[date])
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// Package domain defines the entities the tracker works with: quotes,
// watchlist entries, alerts, cost lots, and chart data.
package domain

import "strings"

// NormalizeSymbol is the single place symbol comparisons are canonicalized.
// Every case-insensitive symbol match in the codebase goes through it.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SameSymbol reports whether two symbols are equal after normalization.
func SameSymbol(a, b string) bool {
	return NormalizeSymbol(a) == NormalizeSymbol(b)
}

// Package format renders prices for display.
package format

import (
	"math"
	"strconv"
	"strings"
)

// FormatPrice renders a price with precision chosen by magnitude: two
// decimals from 1 up, widening for small prices so sub-cent coins stay
// legible. Never returns NaN or scientific notation.
func FormatPrice(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return "0.00"
	}
	abs := math.Abs(price)
	decimals := 8
	switch {
	case abs >= 1:
		decimals = 2
	case abs >= 0.01:
		decimals = 4
	case abs >= 0.0001:
		decimals = 6
	}
	return strconv.FormatFloat(price, 'f', decimals, 64)
}

// FormatPriceDisplay is FormatPrice with thousands separators in the whole
// part.
func FormatPriceDisplay(price float64) string {
	formatted := FormatPrice(price)
	whole, frac, _ := strings.Cut(formatted, ".")

	neg := strings.HasPrefix(whole, "-")
	if neg {
		whole = whole[1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

package service

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders whole US dollars with thousands separators,
// rounding half away from zero: 2022.62 -> "$2,023", -1250 -> "-$1,250".
// NaN and infinities render as "$0".
func FormatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$0"
	}
	dollars := wholeUnits(math.Abs(v))
	if v < 0 {
		return "-$" + humanize.Comma(dollars)
	}
	return "$" + humanize.Comma(dollars)
}

// FormatNumber renders a whole number with thousands separators.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	n := wholeUnits(math.Abs(v))
	if v < 0 && n != 0 {
		n = -n
	}
	return humanize.Comma(n)
}

func wholeUnits(v float64) int64 {
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

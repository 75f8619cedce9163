package budget

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// MonthNames labels the cash-flow curve.
var MonthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// FormatAmount renders d with thousands separators, e.g. "SAR 1,234,567".
// Cents are shown only when present.
func FormatAmount(currency string, d decimal.Decimal) string {
	var s string
	if d.Equal(d.Truncate(0)) {
		s = humanize.Comma(d.IntPart())
	} else {
		s = humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
	}
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// FormatRange renders a min-max hint, e.g. "SAR 50,000 - 200,000".
func FormatRange(currency string, lo, hi decimal.Decimal) string {
	return FormatAmount(currency, lo) + " - " + FormatAmount("", hi)
}

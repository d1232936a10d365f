package usecase

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatCurrency renders amount with two decimals and thousands separators,
// e.g. "$1,234.56" or "-$3.00". Unknown currencies are prefixed with their
// ISO code.
func FormatCurrency(amount float64, currency string) string {
	d := decimal.NewFromFloat(SafeNumber(amount)).Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	code := strings.ToUpper(currency)
	symbol, ok := currencySymbols[code]
	if !ok {
		if code == "" {
			code = "USD"
			symbol = "$"
		} else {
			symbol = code + " "
		}
	}
	return sign + symbol + b.String() + "." + frac
}

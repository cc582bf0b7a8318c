package catalog

import "github.com/shopspring/decimal"

const DefaultCurrency = "MAD"

// FormatPrice renders an amount the way the storefront shows it: two decimals
// followed by the currency code, e.g. "12.50 MAD".
func FormatPrice(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return amount.StringFixed(2) + " " + currency
}

// FormatDelta renders a price modifier with an explicit "+" for positive
// amounts, e.g. "+5.00 MAD".
func FormatDelta(amount decimal.Decimal, currency string) string {
	s := FormatPrice(amount, currency)
	if amount.IsPositive() {
		return "+" + s
	}
	return s
}

package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Converter renders base-currency amounts in a display currency for
// non-home-market visitors. Converted values are presentation only and
// must never be sent to the backend as authoritative pricing.
type Converter struct {
	code string
	rate decimal.Decimal
}

// New builds a converter for the given display currency. A rate of zero
// disables conversion (amounts pass through unchanged).
func New(code string, rate decimal.Decimal) Converter {
	return Converter{code: code, rate: rate}
}

func (c Converter) Code() string { return c.code }

// Convert applies the floating exchange rate, rounded to two places.
func (c Converter) Convert(amount decimal.Decimal) decimal.Decimal {
	if c.rate.IsZero() {
		return amount
	}
	return amount.Mul(c.rate).Round(2)
}

// Format renders a converted amount with the display currency code.
func (c Converter) Format(amount decimal.Decimal) string {
	return fmt.Sprintf("%s %s", c.code, c.Convert(amount).StringFixed(2))
}

package pricing

import (
	"github.com/shopspring/decimal"
)

// All order math happens here, in the base currency, so the visible
// summary and the submission payload can never drift apart.

const (
	HomeCountry  = "NG"
	BaseCurrency = "NGN"
)

var (
	firstOrderRate = decimal.RequireFromString("0.05")
	taxRate        = decimal.RequireFromString("0.05")
)

// Input is everything the quote depends on. Recompute on every change.
type Input struct {
	Subtotal       decimal.Decimal
	FirstOrder     bool
	CouponDiscount decimal.Decimal
	Country        string
	MethodCode     string
}

// Quote is the derived price breakdown.
type Quote struct {
	Subtotal           decimal.Decimal
	FirstOrderDiscount decimal.Decimal
	CouponDiscount     decimal.Decimal
	Discount           decimal.Decimal
	Tax                decimal.Decimal
	Shipping           decimal.Decimal
	Total              decimal.Decimal
}

// Calculate derives the quote. Every intermediate value is rounded to
// two decimal places, and the combined discount is capped at the
// subtotal so the pre-tax total can never go negative.
func Calculate(in Input) Quote {
	subtotal := in.Subtotal.Round(2)

	firstOrder := decimal.Zero
	if in.FirstOrder {
		firstOrder = subtotal.Mul(firstOrderRate).Round(2)
	}
	coupon := in.CouponDiscount.Round(2)

	discount := firstOrder.Add(coupon)
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	tax := decimal.Zero
	if in.Country != HomeCountry {
		tax = subtotal.Mul(taxRate).Round(2)
	}

	// non-home destinations have shipping quoted out of band by email,
	// so the cost stays zero here
	shipping := decimal.Zero
	if in.Country == HomeCountry {
		if m, ok := MethodByCode(in.MethodCode); ok {
			shipping = m.Fee
		}
	}

	total := subtotal.Sub(discount).Add(tax).Add(shipping).Round(2)

	return Quote{
		Subtotal:           subtotal,
		FirstOrderDiscount: firstOrder,
		CouponDiscount:     coupon,
		Discount:           discount,
		Tax:                tax,
		Shipping:           shipping,
		Total:              total,
	}
}

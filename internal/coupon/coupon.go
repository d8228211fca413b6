package coupon

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/adaora-dev/storefront-checkout/internal/api"
)

const (
	TypePercentage = "percentage"
	TypeFixed      = "fixed"
)

var ErrEmptyCode = errors.New("enter a discount code")

// Coupon is an applied discount. It exists only in client state after a
// successful validation and is discarded on removal or reload. At most
// one is applied at a time; applying another replaces it.
type Coupon struct {
	Code   string
	Type   string
	Value  decimal.Decimal
	Amount decimal.Decimal
}

// Validator sends codes to the backend and derives the discount amount
// client-side from the returned descriptor.
type Validator struct {
	api *api.Client
}

func NewValidator(a *api.Client) *Validator {
	return &Validator{api: a}
}

type validateRequest struct {
	Code string `json:"code"`
}

type validateResponse struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message"`
	Discount struct {
		Code  string          `json:"code"`
		Type  string          `json:"type"`
		Value decimal.Decimal `json:"value"`
	} `json:"discount"`
}

// Validate trims and upper-cases the code, asks the backend, and on
// success returns the coupon with its amount computed against the
// current subtotal, capped at the subtotal.
func (v *Validator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Coupon{}, ErrEmptyCode
	}

	var res validateResponse
	if err := v.api.Post(ctx, "/api/discounts/validate", validateRequest{Code: code}, &res); err != nil {
		return Coupon{}, err
	}
	if !res.Valid {
		msg := res.Message
		if msg == "" {
			msg = "this discount code is not valid"
		}
		return Coupon{}, errors.New(msg)
	}

	return Coupon{
		Code:   res.Discount.Code,
		Type:   res.Discount.Type,
		Value:  res.Discount.Value,
		Amount: DiscountAmount(res.Discount.Type, res.Discount.Value, subtotal),
	}, nil
}

// DiscountAmount computes the naira discount a descriptor yields against
// a subtotal, capped at the subtotal.
func DiscountAmount(discountType string, value, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch discountType {
	case TypePercentage:
		amount = subtotal.Mul(value).Div(decimal.NewFromInt(100)).Round(2)
	case TypeFixed:
		amount = value.Round(2)
	default:
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

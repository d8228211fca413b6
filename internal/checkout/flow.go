package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adaora-dev/storefront-checkout/internal/api"
	"github.com/adaora-dev/storefront-checkout/internal/cart"
	"github.com/adaora-dev/storefront-checkout/internal/coupon"
	"github.com/adaora-dev/storefront-checkout/internal/nav"
	"github.com/adaora-dev/storefront-checkout/internal/notify"
	"github.com/adaora-dev/storefront-checkout/internal/payment"
	"github.com/adaora-dev/storefront-checkout/internal/pricing"
	"github.com/adaora-dev/storefront-checkout/internal/session"
)

// Flow is the checkout page: it owns the loaded data, the user's
// selections, and the submit handoff into payment. All dependencies are
// passed in explicitly instead of ambient provider state.
type Flow struct {
	session   *session.Session
	loader    *Loader
	carts     *cart.Client
	coupons   *coupon.Validator
	submitter *Submitter
	payments  *payment.Initiator
	nav       nav.Navigator
	notifier  notify.Notifier

	data    PageData
	cartSt  *cart.State
	editor  *cart.Editor
	loaded  bool
	country string
	method  string
	email   string
	applied *coupon.Coupon
}

// quantityUpdateDelay is the debounce window between a quantity click
// and the backend update it triggers.
const quantityUpdateDelay = 400 * time.Millisecond

func NewFlow(s *session.Session, loader *Loader, carts *cart.Client, coupons *coupon.Validator, submitter *Submitter, payments *payment.Initiator, n nav.Navigator, notifier notify.Notifier) *Flow {
	return &Flow{
		session:   s,
		loader:    loader,
		carts:     carts,
		coupons:   coupons,
		submitter: submitter,
		payments:  payments,
		nav:       n,
		notifier:  notifier,
		country:   pricing.HomeCountry,
	}
}

// Load pulls the cart and address books; returns false when the user
// was redirected away.
func (f *Flow) Load(ctx context.Context) (bool, error) {
	data, err := f.loader.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrRedirected) {
			return false, nil
		}
		f.notifier.Error(api.Message(err, "could not load checkout"))
		return false, err
	}
	f.data = data
	f.cartSt = cart.NewState(data.Cart)
	f.editor = cart.NewEditor(f.cartSt, f.carts, quantityUpdateDelay, func(lineID string, err error) {
		f.notifier.Warn(api.Message(err, "could not update your cart - the quantity was restored"))
	})
	f.loaded = true
	return true, nil
}

// Close cancels pending cart updates. Called on view teardown.
func (f *Flow) Close() {
	if f.editor != nil {
		f.editor.Close()
	}
}

// ChangeQuantity edits one cart line optimistically; the backend call is
// debounced and a failure rolls the line back with a notice.
func (f *Flow) ChangeQuantity(ctx context.Context, lineID string, quantity int) error {
	if !f.loaded {
		return ErrNotLoaded
	}
	return f.editor.SetQuantity(ctx, lineID, quantity)
}

func (f *Flow) Data() PageData         { return f.data }
func (f *Flow) State() State           { return f.submitter.State() }
func (f *Flow) Coupon() *coupon.Coupon { return f.applied }

func (f *Flow) Cart() cart.Cart {
	if !f.loaded {
		return cart.Cart{}
	}
	return f.cartSt.Cart()
}

// Selection edits. The quote is recomputed from scratch on every read,
// so these never need to touch price state.

func (f *Flow) SelectShippingAddress(id string) { f.data.SelectedShippingID = id }
func (f *Flow) SelectBillingAddress(id string)  { f.data.SelectedBillingID = id }
func (f *Flow) SetContactEmail(email string)    { f.email = email }

func (f *Flow) SetCountry(country string) {
	f.country = country
	if country != pricing.HomeCountry {
		// shipping methods only apply to home-country orders
		f.method = ""
	}
}

func (f *Flow) SelectMethod(code string) error {
	if _, ok := pricing.MethodByCode(code); !ok {
		return FieldError{Field: "shipping_method", Message: "unknown shipping method"}
	}
	f.method = code
	return nil
}

// ApplyCoupon validates the code against the current subtotal. A newly
// applied coupon replaces any existing one.
func (f *Flow) ApplyCoupon(ctx context.Context, code string) error {
	if !f.loaded {
		return ErrNotLoaded
	}
	c, err := f.coupons.Validate(ctx, code, f.cartSt.Cart().Subtotal)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			f.session.ForceLogout(f.nav, "/checkout")
			return err
		}
		f.notifier.Error(api.Message(err, "could not validate that code"))
		return err
	}
	f.applied = &c
	return nil
}

// RemoveCoupon clears all coupon state; the next Quote() reflects it.
func (f *Flow) RemoveCoupon() {
	f.applied = nil
}

// Quote is the reactive price summary, recomputed from current inputs
// through the same pure function the submitter uses.
func (f *Flow) Quote() pricing.Quote {
	if !f.loaded {
		return pricing.Quote{}
	}
	couponAmount := decimal.Zero
	if f.applied != nil {
		couponAmount = f.applied.Amount
	}
	return pricing.Calculate(pricing.Input{
		Subtotal:       f.cartSt.Cart().Subtotal,
		FirstOrder:     f.session.FirstOrder(),
		CouponDiscount: couponAmount,
		Country:        f.country,
		MethodCode:     f.method,
	})
}

// PlaceOrder runs the full submission: create the order, then
// initialize payment under the same reference.
func (f *Flow) PlaceOrder(ctx context.Context) error {
	if !f.loaded {
		return ErrNotLoaded
	}
	sel := f.selection()

	ord, err := f.submitter.Submit(ctx, f.cartSt.Cart(), sel)
	if err != nil {
		return f.surfaceSubmitError(err)
	}

	f.submitter.BeginPayment()
	err = f.payments.Start(ctx, payment.StartParams{
		OrderID:   ord.ID,
		Reference: ord.Reference,
		Email:     f.resolveEmail(sel),
		Amount:    ord.Quote.Total,
	})
	if err != nil {
		f.submitter.Fail()
		f.notifier.Error(api.Message(err, "could not start your payment"))
		return err
	}
	f.submitter.PaymentReady()
	return nil
}

func (f *Flow) selection() Selection {
	sel := Selection{
		Country:      f.country,
		MethodCode:   f.method,
		Coupon:       f.applied,
		ContactEmail: f.email,
	}
	for i := range f.data.Shipping {
		if f.data.Shipping[i].ID.String() == f.data.SelectedShippingID && f.data.SelectedShippingID != "" {
			sel.ShippingAddress = &f.data.Shipping[i]
		}
	}
	for i := range f.data.Billing {
		if f.data.Billing[i].ID.String() == f.data.SelectedBillingID && f.data.SelectedBillingID != "" {
			sel.BillingAddress = &f.data.Billing[i]
		}
	}
	return sel
}

// resolveEmail falls back billing address email -> contact form email ->
// session email.
func (f *Flow) resolveEmail(sel Selection) string {
	if sel.BillingAddress != nil && sel.BillingAddress.Email != "" {
		return sel.BillingAddress.Email
	}
	if f.email != "" {
		return f.email
	}
	if u, ok := f.session.User(); ok {
		return u.Email
	}
	return ""
}

func (f *Flow) surfaceSubmitError(err error) error {
	var (
		fieldErr    FieldError
		currencyErr CurrencyError
	)
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		f.session.ForceLogout(f.nav, "/checkout")
	case errors.As(err, &fieldErr):
		// field errors render inline; no toast
	case errors.As(err, &currencyErr):
		f.notifier.Error(currencyErr.Message)
	default:
		f.notifier.Error(api.Message(err, "could not place your order"))
	}
	return err
}

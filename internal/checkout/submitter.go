package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adaora-dev/storefront-checkout/internal/address"
	"github.com/adaora-dev/storefront-checkout/internal/api"
	"github.com/adaora-dev/storefront-checkout/internal/cart"
	"github.com/adaora-dev/storefront-checkout/internal/coupon"
	"github.com/adaora-dev/storefront-checkout/internal/notify"
	"github.com/adaora-dev/storefront-checkout/internal/pricing"
	"github.com/adaora-dev/storefront-checkout/internal/session"
)

// Selection is everything the user has chosen on the checkout page.
type Selection struct {
	ShippingAddress *address.Address
	BillingAddress  *address.Address
	Country         string
	MethodCode      string
	Coupon          *coupon.Coupon
	ContactEmail    string
}

// Order is the outcome of a successful submission.
type Order struct {
	ID        string
	Reference string
	Quote     pricing.Quote
}

// Submitter assembles and posts the order payload, then hands off to the
// payment initiator. One Submitter handles one attempt at a time.
type Submitter struct {
	api      *api.Client
	session  *session.Session
	notifier notify.Notifier

	mu    sync.Mutex
	state State
}

func NewSubmitter(a *api.Client, s *session.Session, n notify.Notifier) *Submitter {
	return &Submitter{api: a, session: s, notifier: n, state: StateIdle}
}

func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Submitter) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// BeginPayment and PaymentReady record the handoff to the payment
// initiator; order creation must already have succeeded.
func (s *Submitter) BeginPayment() { s.setState(StateInitializingPayment) }
func (s *Submitter) PaymentReady() { s.setState(StatePaymentReady) }
func (s *Submitter) Fail()         { s.setState(StateFailed) }

type orderItem struct {
	Kind     string          `json:"type"`
	ItemID   string          `json:"item_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image,omitempty"`
	Color    string          `json:"color,omitempty"`
	Size     string          `json:"size,omitempty"`
	Products []orderItem     `json:"products,omitempty"`
}

type orderPayload struct {
	UserID            string          `json:"user_id"`
	CartID            string          `json:"cart_id"`
	Reference         string          `json:"reference"`
	ShippingAddressID string          `json:"shipping_address_id"`
	BillingAddressID  string          `json:"billing_address_id"`
	Country           string          `json:"country"`
	ShippingMethod    string          `json:"shipping_method,omitempty"`
	Currency          string          `json:"currency"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Discount          decimal.Decimal `json:"discount"`
	Tax               decimal.Decimal `json:"tax"`
	Shipping          decimal.Decimal `json:"shipping"`
	Total             decimal.Decimal `json:"total"`
	Items             []orderItem     `json:"items"`
}

// Submit validates the selection, posts the order, and runs the
// best-effort first-order flag clear. The returned Order carries the
// reference the payment initialization must reuse.
func (s *Submitter) Submit(ctx context.Context, crt cart.Cart, sel Selection) (Order, error) {
	s.setState(StateValidating)

	if err := validate(crt, sel); err != nil {
		s.setState(StateFailed)
		return Order{}, err
	}

	// fresh reference per attempt; it correlates this order with its
	// payment initialization so the backend can associate them
	reference := uuid.NewString()

	couponAmount := decimal.Zero
	if sel.Coupon != nil {
		couponAmount = sel.Coupon.Amount
	}
	// recomputed here from the base-currency subtotal through the same
	// pure function the visible summary uses
	quote := pricing.Calculate(pricing.Input{
		Subtotal:       crt.Subtotal,
		FirstOrder:     s.session.FirstOrder(),
		CouponDiscount: couponAmount,
		Country:        sel.Country,
		MethodCode:     sel.MethodCode,
	})

	payload := orderPayload{
		UserID:            s.session.UserID(),
		CartID:            crt.ID,
		Reference:         reference,
		ShippingAddressID: sel.ShippingAddress.ID.String(),
		BillingAddressID:  sel.BillingAddress.ID.String(),
		Country:           sel.Country,
		ShippingMethod:    sel.MethodCode,
		Currency:          pricing.BaseCurrency,
		Subtotal:          quote.Subtotal,
		Discount:          quote.Discount,
		Tax:               quote.Tax,
		Shipping:          quote.Shipping,
		Total:             quote.Total,
		Items:             snapshotItems(crt),
	}

	s.setState(StateSubmittingOrder)
	var raw json.RawMessage
	if err := s.api.Post(ctx, "/api/orders", payload, &raw); err != nil {
		s.setState(StateFailed)
		return Order{}, classify(err)
	}

	orderID := extractOrderID(raw)
	if orderID == "" {
		s.setState(StateFailed)
		return Order{}, ErrMissingOrderID
	}
	s.setState(StateOrderCreated)

	// the order is placed; clearing the first-order flag may fail
	// independently without blocking it
	if sel.Country == pricing.HomeCountry && s.session.FirstOrder() {
		s.clearFirstOrderFlag(ctx)
	}

	return Order{ID: orderID, Reference: reference, Quote: quote}, nil
}

func validate(crt cart.Cart, sel Selection) error {
	if crt.Empty() {
		return ErrEmptyCart
	}
	if sel.ShippingAddress == nil {
		return FieldError{Field: "shipping_address", Message: "select a shipping address"}
	}
	if sel.BillingAddress == nil {
		return FieldError{Field: "billing_address", Message: "select a billing address"}
	}
	if sel.Country == pricing.HomeCountry && sel.MethodCode == "" {
		return FieldError{Field: "shipping_method", Message: "select a shipping method"}
	}
	return nil
}

// snapshotItems flattens cart lines into the backend order shape; the
// prices, names and images are captured now, decoupled from any later
// cart mutation.
func snapshotItems(crt cart.Cart) []orderItem {
	items := make([]orderItem, 0, len(crt.Items))
	for _, line := range crt.Items {
		items = append(items, snapshotLine(line))
	}
	return items
}

func snapshotLine(line cart.Line) orderItem {
	it := orderItem{
		Kind:     "product",
		ItemID:   line.Item.ID,
		Name:     line.Item.Name,
		Price:    line.Item.Price,
		Quantity: line.Quantity,
		Image:    line.Item.ResolveImage(),
		Color:    line.Item.Color,
		Size:     line.Item.Size,
	}
	if line.Item.IsBundle() {
		it.Kind = "bundle"
		it.Products = make([]orderItem, 0, len(line.Item.Products))
		for _, p := range line.Item.Products {
			it.Products = append(it.Products, orderItem{
				Kind:   "product",
				ItemID: p.ID,
				Name:   p.Name,
				Price:  p.Price,
				Image:  p.ResolveImage(),
				Color:  p.Color,
				Size:   p.Size,
			})
		}
	}
	return it
}

// extractOrderID tolerates the known response shapes: {order:{id}},
// {id}, and {data:{id}}.
func extractOrderID(raw json.RawMessage) string {
	var res struct {
		ID    idValue `json:"id"`
		Order struct {
			ID idValue `json:"id"`
		} `json:"order"`
		Data struct {
			ID idValue `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return ""
	}
	for _, id := range []string{string(res.Order.ID), string(res.ID), string(res.Data.ID)} {
		if id != "" {
			return id
		}
	}
	return ""
}

// idValue accepts a numeric or string id.
type idValue string

func (v *idValue) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = idValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = idValue(n.String())
	return nil
}

func (s *Submitter) clearFirstOrderFlag(ctx context.Context) {
	body := map[string]bool{"first_order": false}
	if err := s.api.Patch(ctx, "/api/auth/users/"+s.session.UserID(), body, nil); err != nil {
		log.Printf("clear first-order flag: %v", err)
		s.notifier.Warn("could not update your first-order discount status")
		return
	}
	if err := s.session.SetFirstOrder(false); err != nil {
		log.Printf("resync first-order flag: %v", err)
	}
}

// classify maps a transport error into the checkout failure taxonomy.
func classify(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return err
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && strings.Contains(strings.ToLower(apiErr.Message), "currency") {
		return CurrencyError{
			Message: fmt.Sprintf("%s - try switching your delivery country", apiErr.Message),
		}
	}
	return err
}

package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/adaora-dev/storefront-checkout/internal/address"
	"github.com/adaora-dev/storefront-checkout/internal/api"
	"github.com/adaora-dev/storefront-checkout/internal/cart"
	"github.com/adaora-dev/storefront-checkout/internal/nav"
	"github.com/adaora-dev/storefront-checkout/internal/notify"
	"github.com/adaora-dev/storefront-checkout/internal/session"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRedirected       = errors.New("redirected away from checkout")
)

// PageData is what checkout entry loads: the cart plus both address
// books, with the first address of each type preselected. Selection ids
// are strings throughout.
type PageData struct {
	Cart               cart.Cart
	Shipping           []address.Address
	Billing            []address.Address
	SelectedShippingID string
	SelectedBillingID  string
}

// Loader fetches the cart and both address lists concurrently on
// checkout entry. Address failures are soft; cart failures are not.
type Loader struct {
	session   *session.Session
	carts     *cart.Client
	addresses *address.Client
	nav       nav.Navigator
	notifier  notify.Notifier
}

func NewLoader(s *session.Session, carts *cart.Client, addresses *address.Client, n nav.Navigator, notifier notify.Notifier) *Loader {
	return &Loader{session: s, carts: carts, addresses: addresses, nav: n, notifier: notifier}
}

// Load returns the page data, or ErrRedirected/ErrNotAuthenticated when
// the user was routed away (login for missing credentials, cart view
// for an empty cart).
func (l *Loader) Load(ctx context.Context) (PageData, error) {
	if !l.session.Authenticated() {
		l.nav.GotoLogin("/checkout")
		return PageData{}, ErrNotAuthenticated
	}
	userID := l.session.UserID()

	var (
		wg          sync.WaitGroup
		crt         cart.Cart
		cartErr     error
		shipping    []address.Address
		shippingErr error
		billing     []address.Address
		billingErr  error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		crt, cartErr = l.carts.Fetch(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		shipping, shippingErr = l.addresses.List(ctx, address.TypeShipping, userID)
	}()
	go func() {
		defer wg.Done()
		billing, billingErr = l.addresses.List(ctx, address.TypeBilling, userID)
	}()
	wg.Wait()

	if cartErr != nil {
		if errors.Is(cartErr, api.ErrUnauthorized) {
			l.session.ForceLogout(l.nav, "/checkout")
			return PageData{}, ErrNotAuthenticated
		}
		return PageData{}, cartErr
	}
	if crt.Empty() {
		l.nav.GotoCart("your cart is empty - add something before checking out")
		return PageData{}, ErrRedirected
	}

	// address lists degrade independently to empty; the user can still
	// add a new address and proceed
	if shippingErr != nil {
		shipping = []address.Address{}
		l.notifier.Warn("could not load your saved shipping addresses")
	}
	if billingErr != nil {
		billing = []address.Address{}
		l.notifier.Warn("could not load your saved billing addresses")
	}

	data := PageData{Cart: crt, Shipping: shipping, Billing: billing}
	if len(shipping) > 0 {
		data.SelectedShippingID = shipping[0].ID.String()
	}
	if len(billing) > 0 {
		data.SelectedBillingID = billing[0].ID.String()
	}
	return data, nil
}

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/adaora-dev/storefront-checkout/internal/api"
	"github.com/adaora-dev/storefront-checkout/internal/nav"
	"github.com/adaora-dev/storefront-checkout/internal/notify"
	"github.com/adaora-dev/storefront-checkout/internal/reconcile"
	"github.com/adaora-dev/storefront-checkout/internal/storage"
)

// ErrNoPaymentHandle means the backend returned neither an access code
// nor an authorization URL, so there is no way to collect payment.
var ErrNoPaymentHandle = errors.New("payment initialization returned no access code or authorization url")

// Initiator starts the provider transaction for a created order and
// reconciles ambiguous popup outcomes with the backend.
type Initiator struct {
	api      *api.Client
	store    storage.Store
	popup    Popup
	nav      nav.Navigator
	notifier notify.Notifier
	verifier *reconcile.Verifier

	publicKey   string
	currency    string
	callbackURL string
}

func NewInitiator(a *api.Client, store storage.Store, popup Popup, n nav.Navigator, notifier notify.Notifier, verifier *reconcile.Verifier, publicKey, currency, callbackURL string) *Initiator {
	return &Initiator{
		api:         a,
		store:       store,
		popup:       popup,
		nav:         n,
		notifier:    notifier,
		verifier:    verifier,
		publicKey:   publicKey,
		currency:    currency,
		callbackURL: callbackURL,
	}
}

// StartParams carries the created order into payment. Amount is in the
// base currency's major units.
type StartParams struct {
	OrderID   string
	Reference string
	Email     string
	Amount    decimal.Decimal
}

type initializeRequest struct {
	OrderID     string `json:"order_id"`
	Reference   string `json:"reference"`
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type initializeResponse struct {
	AccessCode       string `json:"access_code"`
	AuthorizationURL string `json:"authorization_url"`
}

// Start requests a provider transaction with the same reference the
// order was created under, then opens the popup or redirects.
func (i *Initiator) Start(ctx context.Context, p StartParams) error {
	// persist the markers before any payment UI opens, so a later run
	// can detect and resume an interrupted payment
	if err := i.store.Set(storage.KeyLastReference, p.Reference); err != nil {
		return fmt.Errorf("persist reference: %w", err)
	}
	if err := i.store.Set(storage.KeyPendingOrderID, p.OrderID); err != nil {
		return fmt.Errorf("persist pending order: %w", err)
	}

	req := initializeRequest{
		OrderID:     p.OrderID,
		Reference:   p.Reference,
		Email:       p.Email,
		Amount:      p.Amount.Shift(2).IntPart(), // provider wants minor units
		Currency:    i.currency,
		CallbackURL: i.callbackURL,
	}
	var raw json.RawMessage
	if err := i.api.Post(ctx, "/api/paystack/initialize", req, &raw); err != nil {
		return err
	}
	var res initializeResponse
	if err := json.Unmarshal(api.Unwrap(raw), &res); err != nil {
		return fmt.Errorf("decode initialize response: %w", err)
	}

	switch {
	case res.AccessCode != "":
		return i.openPopup(ctx, p, res.AccessCode)
	case res.AuthorizationURL != "":
		i.nav.Redirect(res.AuthorizationURL)
		return nil
	default:
		return ErrNoPaymentHandle
	}
}

func (i *Initiator) openPopup(ctx context.Context, p StartParams, accessCode string) error {
	result, err := i.popup.Open(ctx, Transaction{
		PublicKey:  i.publicKey,
		Email:      p.Email,
		Amount:     p.Amount.Shift(2).IntPart(),
		Currency:   i.currency,
		Reference:  p.Reference,
		AccessCode: accessCode,
	})
	if err != nil {
		return err
	}

	if result == ResultSuccess {
		i.nav.GotoThankYou(p.Reference, p.OrderID)
		return nil
	}
	return i.reconcileClose(ctx, p)
}

// reconcileClose handles a popup closed without explicit success: the
// payment may still have gone through, so ask the backend before
// deciding where to send the user.
func (i *Initiator) reconcileClose(ctx context.Context, p StartParams) error {
	res, err := i.verifier.VerifyPayment(ctx, p.Reference)
	if ctx.Err() != nil {
		// the view is gone; drop the late answer instead of navigating
		return nil
	}
	if err == nil && res.Status == reconcile.StatusCompleted {
		i.nav.GotoThankYou(p.Reference, p.OrderID)
		return nil
	}
	if err != nil {
		i.notifier.Warn(api.Message(err, "we could not confirm your payment yet"))
	}
	i.nav.GotoOrderDetail(p.OrderID, "your payment may still complete - check back on this order")
	return nil
}

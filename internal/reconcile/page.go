package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/adaora-dev/storefront-checkout/internal/api"
	"github.com/adaora-dev/storefront-checkout/internal/notify"
	"github.com/adaora-dev/storefront-checkout/internal/storage"
)

// ErrNoReference means neither the URL nor storage held a reference, so
// there is nothing to verify and no retry is possible.
var ErrNoReference = errors.New("no order reference to verify")

// PageState tracks the thank-you view.
type PageState string

const (
	PageLoading      PageState = "loading"
	PageVerifiedPaid PageState = "verified-paid"
	PagePolling      PageState = "polling"
	PageResolved     PageState = "resolved"
	PageError        PageState = "error"
)

// Page drives the thank-you reconciliation: verify by reference, poll
// while pending, and clear the pending-payment markers once resolved.
type Page struct {
	verifier *Verifier
	store    storage.Store
	notifier notify.Notifier

	mu        sync.Mutex
	state     PageState
	reference string
}

func NewPage(v *Verifier, store storage.Store, n notify.Notifier) *Page {
	return &Page{verifier: v, store: store, notifier: n, state: PageLoading}
}

func (p *Page) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Page) setState(s PageState) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Run resolves the final order state. referenceFromURL may be empty, in
// which case the last stored reference is used. Polling stops silently
// at the verifier's timeout; the caller may re-run or ManualVerify.
func (p *Page) Run(ctx context.Context, referenceFromURL string) (Result, error) {
	reference := referenceFromURL
	if reference == "" {
		reference, _ = p.store.Get(storage.KeyLastReference)
	}
	if reference == "" {
		p.setState(PageError)
		return Result{}, ErrNoReference
	}
	p.mu.Lock()
	p.reference = reference
	p.mu.Unlock()

	res, err := p.verifier.VerifyOrder(ctx, reference)
	if err != nil {
		p.setState(PageError)
		p.notifier.Error(api.Message(err, "we could not confirm your payment - try manual verification"))
		return Result{}, err
	}

	if res.Status == StatusCompleted {
		p.setState(PageVerifiedPaid)
		p.resolve()
		return res, nil
	}

	p.setState(PagePolling)
	polled, err := p.verifier.Poll(ctx, reference)
	if err != nil {
		// view torn down; keep the pending markers for the next load
		return polled, err
	}
	if polled.Status == StatusCompleted {
		p.resolve()
	}
	return polled, nil
}

// ManualVerify is the user-initiated fallback when polling gave up.
func (p *Page) ManualVerify(ctx context.Context) (Result, error) {
	p.mu.Lock()
	reference := p.reference
	p.mu.Unlock()
	if reference == "" {
		return Result{}, ErrNoReference
	}

	res, err := p.verifier.ManualVerify(ctx, reference)
	if err != nil {
		p.notifier.Error(api.Message(err, "verification failed - please try again"))
		return Result{}, err
	}
	if res.Status == StatusCompleted {
		p.resolve()
	}
	return res, nil
}

func (p *Page) resolve() {
	p.setState(PageResolved)
	p.store.Delete(storage.KeyLastReference)
	p.store.Delete(storage.KeyPendingOrderID)
}

// PendingPayment reports whether a previous run left an interrupted
// payment behind, so startup can offer to resume verification.
func PendingPayment(store storage.Store) (reference, orderID string, ok bool) {
	reference, _ = store.Get(storage.KeyLastReference)
	orderID, _ = store.Get(storage.KeyPendingOrderID)
	return reference, orderID, reference != "" && orderID != ""
}

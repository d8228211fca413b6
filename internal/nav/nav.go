package nav

import "sync"

// Navigator is the navigation capability handed to the flow packages in
// place of window.location, so routing decisions are observable in tests.
type Navigator interface {
	// GotoLogin routes to the login view, preserving the originating
	// path for post-login return.
	GotoLogin(returnTo string)
	// GotoCart routes back to the cart view with an explanatory message.
	GotoCart(message string)
	// GotoThankYou routes to the order confirmation view.
	GotoThankYou(reference, orderID string)
	// GotoOrderDetail routes to the order detail / pending view.
	GotoOrderDetail(orderID, message string)
	// Redirect performs a full-page redirect to an external URL.
	Redirect(url string)
}

// Visit records one navigation for assertions.
type Visit struct {
	Route string
	Args  []string
}

// Recorder is the Navigator used in tests.
type Recorder struct {
	mu     sync.Mutex
	Visits []Visit
}

func (r *Recorder) record(route string, args ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Visits = append(r.Visits, Visit{Route: route, Args: args})
}

func (r *Recorder) GotoLogin(returnTo string) { r.record("login", returnTo) }
func (r *Recorder) GotoCart(message string)   { r.record("cart", message) }
func (r *Recorder) GotoThankYou(ref, orderID string) {
	r.record("thank-you", ref, orderID)
}
func (r *Recorder) GotoOrderDetail(orderID, message string) {
	r.record("order-detail", orderID, message)
}
func (r *Recorder) Redirect(url string) { r.record("redirect", url) }

// Last returns the most recent visit, if any.
func (r *Recorder) Last() (Visit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Visits) == 0 {
		return Visit{}, false
	}
	return r.Visits[len(r.Visits)-1], true
}

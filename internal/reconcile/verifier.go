package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/adaora-dev/storefront-checkout/internal/api"
)

// Status is the backend-stored payment status for an order.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusUnknown   Status = "unknown"
)

// Result is one verification answer.
type Result struct {
	Status  Status
	OrderID string
}

// Verifier wraps the three verification endpoints. The retry and
// polling knobs are exported so tests can shrink them.
type Verifier struct {
	api *api.Client

	Retries      int
	RetryDelay   time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration
}

func NewVerifier(a *api.Client) *Verifier {
	return &Verifier{
		api:          a,
		Retries:      3,
		RetryDelay:   2 * time.Second,
		PollInterval: 5 * time.Second,
		PollTimeout:  2 * time.Minute,
	}
}

type referenceRequest struct {
	Reference string `json:"reference"`
}

// VerifyPayment asks the provider-backed verify endpoint. Used when the
// popup closes without an explicit success.
func (v *Verifier) VerifyPayment(ctx context.Context, reference string) (Result, error) {
	var raw json.RawMessage
	if err := v.api.Post(ctx, "/api/paystack/verify", referenceRequest{Reference: reference}, &raw); err != nil {
		return Result{}, err
	}
	return parseResult(raw), nil
}

// VerifyOrder verifies by reference. A 404 is expected right after
// payment while the webhook catches up, so it is retried a bounded
// number of times with a fixed delay before giving up.
func (v *Verifier) VerifyOrder(ctx context.Context, reference string) (Result, error) {
	var lastErr error
	for attempt := 0; attempt < v.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(v.RetryDelay):
			case <-ctx.Done():
				return Result{}, ctx.Err()
			}
		}

		var raw json.RawMessage
		err := v.api.Get(ctx, "/api/orders/verify/"+reference, &raw)
		if err == nil {
			return parseResult(raw), nil
		}
		lastErr = err
		if !api.IsNotFound(err) {
			return Result{}, err
		}
	}
	return Result{}, fmt.Errorf("order not found after %d attempts: %w", v.Retries, lastErr)
}

// ManualVerify triggers the webhook-backed verification as a
// user-initiated fallback to polling.
func (v *Verifier) ManualVerify(ctx context.Context, reference string) (Result, error) {
	var raw json.RawMessage
	if err := v.api.Post(ctx, "/api/webhooks/verify", referenceRequest{Reference: reference}, &raw); err != nil {
		return Result{}, err
	}
	return parseResult(raw), nil
}

// Poll re-verifies on a fixed interval until the status leaves pending,
// the context is cancelled, or the outer timeout elapses. On timeout it
// stops silently and returns the last pending result.
func (v *Verifier) Poll(ctx context.Context, reference string) (Result, error) {
	deadline := time.NewTimer(v.PollTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(v.PollInterval)
	defer ticker.Stop()

	last := Result{Status: StatusPending}
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-deadline.C:
			return last, nil
		case <-ticker.C:
			res, err := v.VerifyOrder(ctx, reference)
			if err != nil {
				// transient; keep polling until the deadline
				continue
			}
			last = res
			if res.Status == StatusCompleted {
				return res, nil
			}
		}
	}
}

// parseResult tolerates the handful of shapes the verify endpoints use:
// a bare status, a payment_status field, and order/data wrappers.
func parseResult(raw json.RawMessage) Result {
	raw = api.Unwrap(raw)

	var res struct {
		Status        string  `json:"status"`
		PaymentStatus string  `json:"payment_status"`
		ID            orderID `json:"id"`
		Order         struct {
			ID            orderID `json:"id"`
			PaymentStatus string  `json:"payment_status"`
			Status        string  `json:"status"`
		} `json:"order"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{Status: StatusUnknown}
	}

	status := firstNonEmpty(res.Order.PaymentStatus, res.Order.Status, res.PaymentStatus, res.Status)
	id := string(res.Order.ID)
	if id == "" {
		id = string(res.ID)
	}

	out := Result{OrderID: id}
	switch status {
	case "completed", "success", "paid":
		out.Status = StatusCompleted
	case "pending":
		out.Status = StatusPending
	default:
		out.Status = StatusUnknown
	}
	return out
}

// orderID accepts a numeric or string id.
type orderID string

func (v *orderID) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = orderID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = orderID(n.String())
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

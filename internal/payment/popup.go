package payment

import "context"

// Result is how the provider popup concluded. A close without explicit
// success is not a failure; the backend is asked before deciding.
type Result string

const (
	ResultSuccess Result = "success"
	ResultClosed  Result = "closed"
)

// Transaction is what the provider's embedded popup needs to start.
// Amount is in minor units.
type Transaction struct {
	PublicKey  string
	Email      string
	Amount     int64
	Currency   string
	Reference  string
	AccessCode string
}

// Popup is the injected stand-in for the provider's client script, so
// the flow is testable without a real payment UI.
type Popup interface {
	Open(ctx context.Context, tx Transaction) (Result, error)
}

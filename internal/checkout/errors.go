package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrMissingOrderID = errors.New("order was created but no order id came back")
	ErrEmptyCart      = errors.New("cart is empty, nothing to check out")
	ErrNotLoaded      = errors.New("checkout page is not loaded")
)

// FieldError is a precondition failure tied to a checkout form field.
// It is raised before any network call.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CurrencyError is a backend business-rule rejection of the settlement
// currency. It gets a specific, actionable message instead of the
// generic failure toast.
type CurrencyError struct {
	Message string
}

func (e CurrencyError) Error() string {
	return e.Message
}

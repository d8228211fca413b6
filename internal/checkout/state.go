package checkout

// State tracks one order-submission attempt.
type State string

const (
	StateIdle                State = "idle"
	StateValidating          State = "validating"
	StateSubmittingOrder     State = "submitting-order"
	StateOrderCreated        State = "order-created"
	StateInitializingPayment State = "initializing-payment"
	StatePaymentReady        State = "payment-ready"
	StateFailed              State = "failed"
)

func (s State) Terminal() bool {
	return s == StatePaymentReady || s == StateFailed
}

func (s State) String() string {
	return string(s)
}

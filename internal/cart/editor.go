package cart

import (
	"context"
	"time"
)

// Editor ties the optimistic reducer, the debouncer, and the backend
// client together: a quantity change shows immediately, the network
// call waits out the debounce window, and a failed call rolls the line
// back to what the server last confirmed.
type Editor struct {
	state    *State
	client   *Client
	debounce *Debouncer
	onError  func(lineID string, err error)
}

// NewEditor builds an editor over the given local state. onError fires
// after a rollback so the caller can surface a toast; it may be nil.
func NewEditor(state *State, client *Client, delay time.Duration, onError func(lineID string, err error)) *Editor {
	return &Editor{
		state:    state,
		client:   client,
		debounce: NewDebouncer(delay),
		onError:  onError,
	}
}

// SetQuantity applies the change locally right away and schedules the
// matching backend call. Rapid calls for the same line coalesce into
// one request carrying the final quantity. A quantity of zero removes
// the line.
func (e *Editor) SetQuantity(ctx context.Context, lineID string, quantity int) error {
	ch, err := e.state.Apply(lineID, quantity)
	if err != nil {
		return err
	}
	e.debounce.Schedule(lineID, func() {
		var err error
		if ch.To <= 0 {
			err = e.client.RemoveLine(ctx, lineID)
		} else {
			err = e.client.UpdateQuantity(ctx, lineID, ch.To)
		}
		if err != nil {
			e.state.Rollback(ch)
			if e.onError != nil {
				e.onError(lineID, err)
			}
		}
	})
	return nil
}

// Close cancels any pending network calls. Called on view teardown.
func (e *Editor) Close() {
	e.debounce.Stop()
}

package cart

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid quantity clicks into one network update per
// line. The visible state updates immediately via State.Apply; only the
// network call waits out the delay.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

// Schedule runs fn after the delay, resetting any pending run for the
// same line.
func (d *Debouncer) Schedule(lineID string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[lineID]; ok {
		t.Stop()
	}
	d.timers[lineID] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, lineID)
		d.mu.Unlock()
		fn()
	})
}

// Stop cancels all pending runs. Called on view teardown so no timer
// fires after the cart is gone.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, t := range d.timers {
		t.Stop()
		delete(d.timers, id)
	}
}

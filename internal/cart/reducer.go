package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

var ErrLineNotFound = errors.New("cart line not found")

// Change is one optimistic quantity mutation, kept so a failed network
// update can be rolled back exactly.
type Change struct {
	LineID string
	From   int
	To     int
}

// State is the single source of truth for the locally displayed cart.
// Quantity edits apply optimistically and immediately; the matching
// network call either commits the change or rolls it back.
type State struct {
	mu   sync.Mutex
	cart Cart
}

func NewState(c Cart) *State {
	return &State{cart: c}
}

// Cart returns a copy of the current local cart.
func (s *State) Cart() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Apply sets a line's quantity locally and returns the Change needed to
// undo it. A quantity of zero removes the line.
func (s *State) Apply(lineID string, quantity int) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, line := range s.cart.Items {
		if line.ID != lineID {
			continue
		}
		ch := Change{LineID: lineID, From: line.Quantity, To: quantity}
		s.setQuantity(i, quantity)
		return ch, nil
	}
	return Change{}, ErrLineNotFound
}

// Rollback restores the quantity a failed Change had before Apply.
func (s *State) Rollback(ch Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, line := range s.cart.Items {
		if line.ID == ch.LineID {
			s.setQuantity(i, ch.From)
			return
		}
	}
	// the line was removed by Apply; without the server copy it cannot
	// be restored here, so a Replace from the next fetch wins
}

// Replace swaps in a fresh server snapshot, dropping local edits.
func (s *State) Replace(c Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = c
}

func (s *State) setQuantity(i, quantity int) {
	if quantity <= 0 {
		s.cart.Items = append(s.cart.Items[:i], s.cart.Items[i+1:]...)
	} else {
		s.cart.Items[i].Quantity = quantity
	}
	s.recompute()
}

// recompute refreshes the displayed subtotal after a local edit. The
// backend remains authoritative; this only keeps the summary coherent
// until the next fetch.
func (s *State) recompute() {
	subtotal := decimal.Zero
	for _, line := range s.cart.Items {
		subtotal = subtotal.Add(line.Item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	s.cart.Subtotal = subtotal.Round(2)
}

func (s *State) snapshot() Cart {
	c := s.cart
	c.Items = make([]Line, len(s.cart.Items))
	copy(c.Items, s.cart.Items)
	return c
}

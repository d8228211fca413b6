package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adaora-dev/storefront-checkout/internal/api"
)

func newEditor(t *testing.T, handler http.HandlerFunc, onError func(string, error)) (*Editor, *State) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	state := NewState(testCart())
	ed := NewEditor(state, NewClient(api.NewClient(srv.URL, token("tok"))), 20*time.Millisecond, onError)
	t.Cleanup(ed.Close)
	return ed, state
}

func TestEditor_OptimisticUpdateThenCommit(t *testing.T) {
	var gotBody map[string]int
	done := make(chan struct{})
	ed, state := newEditor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/cart/items/l1" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
		close(done)
	}, nil)

	if err := ed.SetQuantity(context.Background(), "l1", 5); err != nil {
		t.Fatal(err)
	}

	// the visible cart updates before any network call completes
	if q := lineQuantity(t, state, "l1"); q != 5 {
		t.Errorf("expected immediate quantity 5, got %d", q)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("backend call never fired")
	}
	if gotBody["quantity"] != 5 {
		t.Errorf("expected quantity 5 on the wire, got %v", gotBody)
	}
	if q := lineQuantity(t, state, "l1"); q != 5 {
		t.Errorf("committed quantity should stand, got %d", q)
	}
}

func TestEditor_RollsBackFailedUpdate(t *testing.T) {
	failed := make(chan error, 1)
	ed, state := newEditor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, func(lineID string, err error) {
		if lineID != "l1" {
			t.Errorf("unexpected line %q", lineID)
		}
		failed <- err
	})

	if err := ed.SetQuantity(context.Background(), "l1", 5); err != nil {
		t.Fatal(err)
	}
	if q := lineQuantity(t, state, "l1"); q != 5 {
		t.Errorf("expected optimistic quantity 5, got %d", q)
	}

	select {
	case err := <-failed:
		if err == nil {
			t.Fatal("expected an error from the failed update")
		}
	case <-time.After(time.Second):
		t.Fatal("failure callback never fired")
	}

	if q := lineQuantity(t, state, "l1"); q != 2 {
		t.Errorf("expected rollback to 2, got %d", q)
	}
	if !state.Cart().Subtotal.Equal(decimal.NewFromInt(13000)) {
		t.Errorf("expected subtotal restored to 13000, got %s", state.Cart().Subtotal)
	}
}

func TestEditor_RapidChangesCoalesce(t *testing.T) {
	var calls int32
	var gotQuantity int
	done := make(chan struct{})
	ed, _ := newEditor(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)
		gotQuantity = body["quantity"]
		w.Write([]byte(`{}`))
		close(done)
	}, nil)

	ctx := context.Background()
	for _, q := range []int{3, 4, 5, 6} {
		if err := ed.SetQuantity(ctx, "l1", q); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("backend call never fired")
	}
	time.Sleep(10 * time.Millisecond)
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected one coalesced call, got %d", calls)
	}
	if gotQuantity != 6 {
		t.Errorf("expected final quantity 6 on the wire, got %d", gotQuantity)
	}
}

func TestEditor_ZeroQuantityRemovesLine(t *testing.T) {
	done := make(chan struct{})
	ed, state := newEditor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/cart/items/l2" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
		close(done)
	}, nil)

	if err := ed.SetQuantity(context.Background(), "l2", 0); err != nil {
		t.Fatal(err)
	}
	if len(state.Cart().Items) != 1 {
		t.Errorf("expected line removed locally, got %d lines", len(state.Cart().Items))
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("delete call never fired")
	}
}

func lineQuantity(t *testing.T, s *State, lineID string) int {
	t.Helper()
	for _, line := range s.Cart().Items {
		if line.ID == lineID {
			return line.Quantity
		}
	}
	t.Fatalf("line %s not found", lineID)
	return 0
}

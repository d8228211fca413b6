package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testCart() Cart {
	return Cart{
		ID: "c1",
		Items: []Line{
			{ID: "l1", Quantity: 2, Item: Item{ID: "p1", Name: "Tote", Price: decimal.NewFromInt(5000)}},
			{ID: "l2", Quantity: 1, Item: Item{ID: "p2", Name: "Scarf", Price: decimal.NewFromInt(3000)}},
		},
		Subtotal: decimal.NewFromInt(13000),
	}
}

func TestState_ApplyUpdatesQuantityAndSubtotal(t *testing.T) {
	s := NewState(testCart())

	ch, err := s.Apply("l1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if ch.From != 2 || ch.To != 3 {
		t.Errorf("unexpected change %+v", ch)
	}

	c := s.Cart()
	if c.Items[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", c.Items[0].Quantity)
	}
	if !c.Subtotal.Equal(decimal.NewFromInt(18000)) {
		t.Errorf("expected subtotal 18000, got %s", c.Subtotal)
	}
}

func TestState_RollbackRestoresQuantity(t *testing.T) {
	s := NewState(testCart())

	ch, err := s.Apply("l2", 5)
	if err != nil {
		t.Fatal(err)
	}
	s.Rollback(ch)

	c := s.Cart()
	if c.Items[1].Quantity != 1 {
		t.Errorf("expected rollback to 1, got %d", c.Items[1].Quantity)
	}
	if !c.Subtotal.Equal(decimal.NewFromInt(13000)) {
		t.Errorf("expected subtotal back to 13000, got %s", c.Subtotal)
	}
}

func TestState_ZeroQuantityRemovesLine(t *testing.T) {
	s := NewState(testCart())
	if _, err := s.Apply("l2", 0); err != nil {
		t.Fatal(err)
	}
	c := s.Cart()
	if len(c.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Items))
	}
	if !c.Subtotal.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("expected subtotal 10000, got %s", c.Subtotal)
	}
}

func TestState_UnknownLine(t *testing.T) {
	s := NewState(testCart())
	if _, err := s.Apply("nope", 1); err != ErrLineNotFound {
		t.Errorf("expected ErrLineNotFound, got %v", err)
	}
}

func TestState_ReplaceDropsLocalEdits(t *testing.T) {
	s := NewState(testCart())
	s.Apply("l1", 9)

	fresh := testCart()
	s.Replace(fresh)
	if got := s.Cart().Items[0].Quantity; got != 2 {
		t.Errorf("expected server snapshot to win, got quantity %d", got)
	}
}

func TestItem_ResolveImageFallback(t *testing.T) {
	cases := []struct {
		name string
		item Item
		want string
	}{
		{"primary", Item{Image: "a.jpg", ImageURL: "b.jpg"}, "a.jpg"},
		{"url", Item{ImageURL: "b.jpg", Thumbnail: "c.jpg"}, "b.jpg"},
		{"thumbnail", Item{Thumbnail: "c.jpg"}, "c.jpg"},
		{"bundle", Item{Products: []Item{{}, {Thumbnail: "d.jpg"}}}, "d.jpg"},
		{"none", Item{}, ""},
	}
	for _, tc := range cases {
		if got := tc.item.ResolveImage(); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adaora-dev/storefront-checkout/internal/api"
)

// Client fetches and mutates the backend cart. The client never computes
// cart totals authoritatively; it mirrors what the backend returns.
type Client struct {
	api *api.Client
}

func NewClient(a *api.Client) *Client {
	return &Client{api: a}
}

func (c *Client) Fetch(ctx context.Context, userID string) (Cart, error) {
	var raw json.RawMessage
	if err := c.api.Get(ctx, "/api/cart/"+userID, &raw); err != nil {
		return Cart{}, err
	}
	var crt Cart
	if err := json.Unmarshal(api.Unwrap(raw), &crt); err != nil {
		return Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return crt, nil
}

// UpdateQuantity sets the quantity of one cart line server-side.
func (c *Client) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.api.Patch(ctx, "/api/cart/items/"+lineID, body, nil)
}

// RemoveLine deletes one cart line server-side.
func (c *Client) RemoveLine(ctx context.Context, lineID string) error {
	return c.api.Delete(ctx, "/api/cart/items/"+lineID)
}

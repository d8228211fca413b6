package address

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adaora-dev/storefront-checkout/internal/api"
)

// Client speaks to the two address-book endpoints.
type Client struct {
	api *api.Client
}

func NewClient(a *api.Client) *Client {
	return &Client{api: a}
}

func basePath(t Type) string {
	if t == TypeBilling {
		return "/api/billing-addresses"
	}
	return "/api/addresses"
}

// List fetches the user's addresses of the given type. The backend may
// answer with an object, an array, or a {data} wrapper; all three are
// normalized into a flat slice.
func (c *Client) List(ctx context.Context, t Type, userID string) ([]Address, error) {
	var raw json.RawMessage
	if err := c.api.Get(ctx, fmt.Sprintf("%s/user/%s", basePath(t), userID), &raw); err != nil {
		return nil, err
	}
	items, err := api.NormalizeList(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize %s addresses: %w", t, err)
	}
	addrs := make([]Address, 0, len(items))
	for _, item := range items {
		var a Address
		if err := json.Unmarshal(item, &a); err != nil {
			return nil, fmt.Errorf("decode %s address: %w", t, err)
		}
		addrs = append(addrs, a)
	}
	return addrs, nil
}

// Create posts a new address and returns the created record, tolerating
// a {data} wrapper in the response.
func (c *Client) Create(ctx context.Context, t Type, a Address) (Address, error) {
	if err := a.Validate(t); err != nil {
		return Address{}, err
	}
	var raw json.RawMessage
	if err := c.api.Post(ctx, basePath(t), a, &raw); err != nil {
		return Address{}, err
	}
	var created Address
	if err := json.Unmarshal(api.Unwrap(raw), &created); err != nil {
		return Address{}, fmt.Errorf("decode created address: %w", err)
	}
	return created, nil
}

// Delete removes an address by id. A backend 404 maps to ErrNotFound so
// callers can treat an already-deleted address as settled.
func (c *Client) Delete(ctx context.Context, t Type, id ID) error {
	err := c.api.Delete(ctx, fmt.Sprintf("%s/%s", basePath(t), id))
	if api.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

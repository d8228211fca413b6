package cart

import (
	"github.com/shopspring/decimal"
)

// Cart is the backend-owned snapshot mirrored read-only on the client.
// All amounts are denominated in the base currency (NGN); display
// conversion never touches these fields.
type Cart struct {
	ID       string          `json:"cart_id"`
	Items    []Line          `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// Empty reports whether there is nothing to check out.
func (c Cart) Empty() bool {
	return c.ID == "" || len(c.Items) == 0
}

// Line is one cart entry: a product or a bundle with its quantity.
type Line struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Item     Item   `json:"item"`
}

// Item is the product or bundle a line points at. A non-empty Products
// list marks a bundle carrying its constituent products.
type Item struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	ImageURL  string          `json:"image_url,omitempty"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	Color     string          `json:"color,omitempty"`
	Size      string          `json:"size,omitempty"`
	Products  []Item          `json:"products,omitempty"`
}

// IsBundle reports whether the item carries constituent products.
func (i Item) IsBundle() bool { return len(i.Products) > 0 }

// ResolveImage falls back through the possible image source fields, then
// into the first bundled product.
func (i Item) ResolveImage() string {
	for _, src := range []string{i.Image, i.ImageURL, i.Thumbnail} {
		if src != "" {
			return src
		}
	}
	for _, p := range i.Products {
		if img := p.ResolveImage(); img != "" {
			return img
		}
	}
	return ""
}

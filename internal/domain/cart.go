package domain

import "github.com/shopspring/decimal"

// LineItem is a single (product, size) entry in a cart.
// Name, ImageURL and Price are captured when the item is first added.
type LineItem struct {
	Key       string          `json:"key"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url"`
	Size      string          `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns unit price times quantity
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineKey builds the composite cart key of a product and size
func LineKey(productID, size string) string {
	return productID + "-" + size
}

package domain

import (
	"strings"
	"time"
)

// CartItem is one line of a shopper's cart. A (UserID, ProductID, Size, Color)
// tuple identifies at most one item; absent size and color are stored as "".
type CartItem struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine is a cart item joined with its product.
type CartLine struct {
	CartItem
	Product Product `json:"product"`
}

// LineTotal is the product price times the quantity.
func (l CartLine) LineTotal() Money {
	return l.Product.Price.Times(l.Quantity)
}

// Cart is the priced view of a shopper's items, newest first.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartLine `json:"items"`
	ItemCount int        `json:"item_count"`
	Total     Money      `json:"total"`
}

// NewCart sums quantities and line totals over lines.
func NewCart(userID string, lines []CartLine) *Cart {
	if lines == nil {
		lines = []CartLine{}
	}
	c := &Cart{UserID: userID, Items: lines}
	for _, l := range lines {
		c.ItemCount += l.Quantity
		c.Total = c.Total.Plus(l.LineTotal())
	}
	return c
}

// NormalizeVariant collapses a missing or blank size/color to "".
func NormalizeVariant(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

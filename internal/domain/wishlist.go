package domain

import "time"

// WishlistItem marks a product as saved by a shopper. A user saves a given
// product at most once.
type WishlistItem struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID int64     `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

// WishlistEntry is a wishlist item joined with its product.
type WishlistEntry struct {
	WishlistItem
	Product Product `json:"product"`
}

package domain

import "time"

// Product is a catalog entry. Cart, wishlist and order code only read it.
type Product struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         Money     `json:"price"`
	OriginalPrice *Money    `json:"original_price,omitempty"`
	CategoryID    *int64    `json:"category_id,omitempty"`
	Images        []string  `json:"images"`
	Stock         int       `json:"stock"`
	Sizes         []string  `json:"sizes"`
	Colors        []string  `json:"colors"`
	IsNew         bool      `json:"is_new"`
	IsSale        bool      `json:"is_sale"`
	IsLimited     bool      `json:"is_limited"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Normalize replaces nil slices with empty ones so they encode as [] rather
// than null.
func (p *Product) Normalize() {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Colors == nil {
		p.Colors = []string{}
	}
}

// Category groups products. Slugs are unique.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

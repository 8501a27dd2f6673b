package repository

import (
	"context"

	"github.com/utafrali/storefront/internal/domain"
)

// ProductRepository defines the interface for product persistence operations.
// All list methods return newest products first.
type ProductRepository interface {
	// ListAll returns every product.
	ListAll(ctx context.Context) ([]domain.Product, error)

	// ListByCategory returns the products of one category.
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)

	// Search matches query case-insensitively against product names only.
	Search(ctx context.Context, query string) ([]domain.Product, error)

	// GetByID retrieves a product by its identifier.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Create inserts a product and fills in its ID and timestamps.
	Create(ctx context.Context, product *domain.Product) error

	// Update overwrites a product's mutable fields.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product.
	Delete(ctx context.Context, id int64) error

	// CountByCategory returns how many products reference a category.
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// List returns all categories ordered by name.
	List(ctx context.Context) ([]domain.Category, error)

	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// Create inserts a category. A duplicate slug yields ErrAlreadyExists.
	Create(ctx context.Context, category *domain.Category) error

	// Delete removes a category. A category still referenced by products
	// yields ErrConflict.
	Delete(ctx context.Context, id int64) error
}

// CartRepository defines the interface for cart item persistence.
type CartRepository interface {
	// Upsert inserts item, or adds item.Quantity to the existing line with the
	// same user, product, size and color. item is updated in place with the
	// stored row.
	Upsert(ctx context.Context, item *domain.CartItem) error

	// GetByID retrieves a cart item regardless of owner.
	GetByID(ctx context.Context, id int64) (*domain.CartItem, error)

	// UpdateQuantity sets the quantity of an item owned by userID.
	UpdateQuantity(ctx context.Context, id int64, userID string, quantity int) (*domain.CartItem, error)

	// Delete removes an item owned by userID and reports whether a row was deleted.
	Delete(ctx context.Context, id int64, userID string) (bool, error)

	// Clear removes all items of userID.
	Clear(ctx context.Context, userID string) error

	// ListWithProducts returns the user's items joined with products, newest first.
	ListWithProducts(ctx context.Context, userID string) ([]domain.CartLine, error)
}

// WishlistRepository defines the interface for wishlist persistence.
type WishlistRepository interface {
	// Add saves productID for userID. Adding an existing entry returns the
	// stored row unchanged.
	Add(ctx context.Context, userID string, productID int64) (*domain.WishlistItem, error)

	// Remove deletes the entry and reports whether one existed.
	Remove(ctx context.Context, userID string, productID int64) (bool, error)

	Exists(ctx context.Context, userID string, productID int64) (bool, error)

	// ListWithProducts returns the user's entries joined with products, newest first.
	ListWithProducts(ctx context.Context, userID string) ([]domain.WishlistEntry, error)
}

// OrderRepository defines the interface for order persistence. Orders are
// immutable, so there is no update.
type OrderRepository interface {
	// Create inserts the order and its items atomically and fills in IDs and
	// the creation time.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its items regardless of owner.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// ListByUser returns the user's orders with items, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// WishlistRepository implements repository.WishlistRepository using PostgreSQL.
type WishlistRepository struct {
	pool database.DBTX
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(pool database.DBTX) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

// Add saves a product to the user's wishlist. The unique index on
// (user_id, product_id) makes the insert a no-op for an existing entry, in
// which case the stored row is returned.
func (r *WishlistRepository) Add(ctx context.Context, userID string, productID int64) (*domain.WishlistItem, error) {
	query := `
		WITH inserted AS (
			INSERT INTO wishlist_items (user_id, product_id)
			VALUES ($1, $2)
			ON CONFLICT (user_id, product_id) DO NOTHING
			RETURNING id, user_id, product_id, created_at
		)
		SELECT id, user_id, product_id, created_at FROM inserted
		UNION ALL
		SELECT id, user_id, product_id, created_at FROM wishlist_items
		WHERE user_id = $1 AND product_id = $2
		LIMIT 1`

	ctx, end := database.TraceQuery(ctx, "add_wishlist_item", query)
	var item domain.WishlistItem
	err := r.pool.QueryRow(ctx, query, userID, productID).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt)
	end(err)
	if errors.Is(err, pgx.ErrNoRows) {
		// A concurrent add committed after this statement's snapshot was taken.
		return r.get(ctx, userID, productID)
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}
	return &item, nil
}

func (r *WishlistRepository) get(ctx context.Context, userID string, productID int64) (*domain.WishlistItem, error) {
	query := `SELECT id, user_id, product_id, created_at FROM wishlist_items WHERE user_id = $1 AND product_id = $2`

	ctx, end := database.TraceQuery(ctx, "get_wishlist_item", query)
	var item domain.WishlistItem
	err := r.pool.QueryRow(ctx, query, userID, productID).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("wishlist item", productID)
		}
		return nil, fmt.Errorf("get wishlist item: %w", err)
	}
	return &item, nil
}

// Remove deletes a product from the user's wishlist and reports whether it
// was there.
func (r *WishlistRepository) Remove(ctx context.Context, userID string, productID int64) (bool, error) {
	query := `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`

	ctx, end := database.TraceQuery(ctx, "remove_wishlist_item", query)
	ct, err := r.pool.Exec(ctx, query, userID, productID)
	end(err)
	if err != nil {
		return false, fmt.Errorf("remove from wishlist: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Exists checks whether a product is in the user's wishlist.
func (r *WishlistRepository) Exists(ctx context.Context, userID string, productID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE user_id = $1 AND product_id = $2)`

	ctx, end := database.TraceQuery(ctx, "check_wishlist_item", query)
	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, productID).Scan(&exists)
	end(err)
	if err != nil {
		return false, fmt.Errorf("check wishlist item exists: %w", err)
	}
	return exists, nil
}

// ListWithProducts returns the user's wishlist joined with products, newest first.
func (r *WishlistRepository) ListWithProducts(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	query := `
		SELECT w.id, w.user_id, w.product_id, w.created_at,
			` + joinedProductColumns + `
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC, w.id DESC`

	ctx, end := database.TraceQuery(ctx, "list_wishlist_items", query)
	entries, err := r.collect(ctx, query, userID)
	end(err)
	return entries, err
}

func (r *WishlistRepository) collect(ctx context.Context, query, userID string) ([]domain.WishlistEntry, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.WishlistEntry, 0)
	for rows.Next() {
		var (
			e  domain.WishlistEntry
			ps productScan
		)
		dest := append([]any{&e.ID, &e.UserID, &e.ProductID, &e.CreatedAt}, ps.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		if e.Product, err = ps.product(); err != nil {
			return nil, fmt.Errorf("scan wishlist item product: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist rows: %w", err)
	}
	return entries, nil
}

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

const cartItemColumns = `id, user_id, product_id, quantity, size, color, created_at, updated_at`

// CartRepository implements repository.CartRepository using PostgreSQL.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// Upsert adds item to the cart in one statement. When a line for the same
// user, product, size and color exists, the requested quantity is added to it,
// so concurrent adds converge on a single row.
func (r *CartRepository) Upsert(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity, size, color)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id, size, color)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, quantity, created_at, updated_at`

	ctx, end := database.TraceQuery(ctx, "upsert_cart_item", query)
	err := r.pool.QueryRow(ctx, query, item.UserID, item.ProductID, item.Quantity, item.Size, item.Color).
		Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	end(err)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("product", item.ProductID)
		}
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

// GetByID retrieves a cart item by its ID regardless of owner.
func (r *CartRepository) GetByID(ctx context.Context, id int64) (*domain.CartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM cart_items WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "get_cart_item", query)
	item, err := scanCartItem(r.pool.QueryRow(ctx, query, id))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("cart item", id)
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return item, nil
}

// UpdateQuantity overwrites the quantity of an item owned by userID.
func (r *CartRepository) UpdateQuantity(ctx context.Context, id int64, userID string, quantity int) (*domain.CartItem, error) {
	query := `
		UPDATE cart_items SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING ` + cartItemColumns

	ctx, end := database.TraceQuery(ctx, "update_cart_item_quantity", query)
	item, err := scanCartItem(r.pool.QueryRow(ctx, query, quantity, id, userID))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("cart item", id)
		}
		return nil, fmt.Errorf("update cart item quantity: %w", err)
	}
	return item, nil
}

// Delete removes an item owned by userID and reports whether it existed.
func (r *CartRepository) Delete(ctx context.Context, id int64, userID string) (bool, error) {
	query := `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`

	ctx, end := database.TraceQuery(ctx, "delete_cart_item", query)
	ct, err := r.pool.Exec(ctx, query, id, userID)
	end(err)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Clear removes every item in the user's cart.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	query := `DELETE FROM cart_items WHERE user_id = $1`

	ctx, end := database.TraceQuery(ctx, "clear_cart", query)
	_, err := r.pool.Exec(ctx, query, userID)
	end(err)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// ListWithProducts returns the user's items joined with their products,
// newest first.
func (r *CartRepository) ListWithProducts(ctx context.Context, userID string) ([]domain.CartLine, error) {
	query := `
		SELECT c.id, c.user_id, c.product_id, c.quantity, c.size, c.color, c.created_at, c.updated_at,
			` + joinedProductColumns + `
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC, c.id DESC`

	ctx, end := database.TraceQuery(ctx, "list_cart_items", query)
	lines, err := r.collectLines(ctx, query, userID)
	end(err)
	return lines, err
}

func (r *CartRepository) collectLines(ctx context.Context, query, userID string) ([]domain.CartLine, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.CartLine, 0)
	for rows.Next() {
		var (
			line domain.CartLine
			ps   productScan
		)
		c := &line.CartItem
		dest := append([]any{
			&c.ID, &c.UserID, &c.ProductID, &c.Quantity, &c.Size, &c.Color, &c.CreatedAt, &c.UpdatedAt,
		}, ps.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		if line.Product, err = ps.product(); err != nil {
			return nil, fmt.Errorf("scan cart item product: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart rows: %w", err)
	}
	return lines, nil
}

func scanCartItem(row pgx.Row) (*domain.CartItem, error) {
	var c domain.CartItem
	err := row.Scan(&c.ID, &c.UserID, &c.ProductID, &c.Quantity, &c.Size, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

const (
	orderColumns     = `id, user_id, status, total_amount::text, shipping_address, notes, created_at`
	orderItemColumns = `id, order_id, product_id, name, unit_price::text, quantity, size, color, line_total::text`
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
// Orders are written once and never updated.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts the order and its items in one transaction and fills in the
// generated IDs and creation time.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	var shippingJSON []byte
	if o.ShippingAddress != nil {
		var err error
		if shippingJSON, err = json.Marshal(o.ShippingAddress); err != nil {
			return fmt.Errorf("marshal shipping address: %w", err)
		}
	}

	orderQuery := `
		INSERT INTO orders (user_id, status, total_amount, shipping_address, notes)
		VALUES ($1, $2, $3::numeric, $4, $5)
		RETURNING id, created_at`

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, size, color, line_total)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8::numeric)
		RETURNING id`

	ctx, end := database.TraceQuery(ctx, "create_order", orderQuery)
	err := database.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, orderQuery,
			o.UserID, o.Status, o.TotalAmount.String(), shippingJSON, o.Notes,
		).Scan(&o.ID, &o.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for i := range o.Items {
			item := &o.Items[i]
			item.OrderID = o.ID
			err := tx.QueryRow(ctx, itemQuery,
				item.OrderID, item.ProductID, item.Name, item.UnitPrice.String(),
				item.Quantity, item.Size, item.Color, item.LineTotal.String(),
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
	end(err)
	return err
}

// GetByID retrieves an order and its items regardless of owner.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "get_order", query)
	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.loadItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}
	return o, nil
}

// ListByUser returns the user's orders with items, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	ctx, end := database.TraceQuery(ctx, "list_orders", query)
	orders, err := r.collect(ctx, query, userID)
	end(err)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	// Batch-load items for all orders in a single query to avoid N+1.
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].Items = items[orders[i].ID]; orders[i].Items == nil {
			orders[i].Items = []domain.OrderItem{}
		}
	}
	return orders, nil
}

func (r *OrderRepository) collect(ctx context.Context, query, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = ANY($1) ORDER BY id`

	ctx, end := database.TraceQuery(ctx, "list_order_items", query)
	items, err := r.collectItems(ctx, query, orderIDs)
	end(err)
	return items, err
}

func (r *OrderRepository) collectItems(ctx context.Context, query string, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	byOrder := make(map[int64][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var (
			item             domain.OrderItem
			unitPrice, total string
		)
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Name, &unitPrice,
			&item.Quantity, &item.Size, &item.Color, &total,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if item.UnitPrice, err = domain.NewMoney(unitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if item.LineTotal, err = domain.NewMoney(total); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item rows: %w", err)
	}
	return byOrder, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o            domain.Order
		total        string
		shippingJSON []byte
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.Status, &total, &shippingJSON, &o.Notes, &o.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if o.TotalAmount, err = domain.NewMoney(total); err != nil {
		return nil, err
	}
	if len(shippingJSON) > 0 && string(shippingJSON) != "null" {
		var addr domain.Address
		if err := json.Unmarshal(shippingJSON, &addr); err != nil {
			return nil, fmt.Errorf("unmarshal shipping address: %w", err)
		}
		o.ShippingAddress = &addr
	}
	return &o, nil
}

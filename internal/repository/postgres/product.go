package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Prices are selected as text and parsed into decimals so NUMERIC values
// never pass through float64.
const productColumns = `id, name, description, price::text, original_price::text, category_id,
	images, stock, sizes, colors, is_new, is_sale, is_limited, created_at, updated_at`

// joinedProductColumns is productColumns qualified with the "p" alias.
const joinedProductColumns = `p.id, p.name, p.description, p.price::text, p.original_price::text, p.category_id,
	p.images, p.stock, p.sizes, p.colors, p.is_new, p.is_sale, p.is_limited, p.created_at, p.updated_at`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// ListAll returns every product, newest first.
func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, id DESC`
	return r.list(ctx, "list_products", query)
}

// ListByCategory returns the products of one category, newest first.
func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, "list_products_by_category", query, categoryID)
}

// Search returns products whose name contains q, ignoring case. LIKE
// metacharacters in q match literally.
func (r *ProductRepository) Search(ctx context.Context, q string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name ILIKE $1 ESCAPE '\' ORDER BY created_at DESC, id DESC`
	return r.list(ctx, "search_products", query, "%"+escapeLike(q)+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "get_product", query)
	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Create inserts a new product and fills in its ID and timestamps.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, original_price, category_id,
			images, stock, sizes, colors, is_new, is_sale, is_limited)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`

	ctx, end := database.TraceQuery(ctx, "create_product", query)
	p.Normalize()
	err := r.pool.QueryRow(ctx, query, productArgs(p)...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	end(err)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("category does not exist")
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update overwrites a product's mutable fields and refreshes updated_at.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3::numeric, original_price = $4::numeric,
			category_id = $5, images = $6, stock = $7, sizes = $8, colors = $9,
			is_new = $10, is_sale = $11, is_limited = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at`

	ctx, end := database.TraceQuery(ctx, "update_product", query)
	p.Normalize()
	args := append(productArgs(p), p.ID)
	err := r.pool.QueryRow(ctx, query, args...).Scan(&p.UpdatedAt)
	end(err)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return apperrors.NotFound("product", p.ID)
		case isForeignKeyViolation(err):
			return apperrors.InvalidInput("category does not exist")
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete removes a product. Cart and wishlist rows referencing it cascade;
// order lines keep their snapshot.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "delete_product", query)
	ct, err := r.pool.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

// CountByCategory returns how many products reference a category.
func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE category_id = $1`

	ctx, end := database.TraceQuery(ctx, "count_products_by_category", query)
	var n int
	err := r.pool.QueryRow(ctx, query, categoryID).Scan(&n)
	end(err)
	if err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}

func (r *ProductRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Product, error) {
	ctx, end := database.TraceQuery(ctx, op, query)
	products, err := r.collect(ctx, query, args...)
	end(err)
	return products, err
}

func (r *ProductRepository) collect(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

func productArgs(p *domain.Product) []any {
	var original *string
	if p.OriginalPrice != nil {
		s := p.OriginalPrice.String()
		original = &s
	}
	return []any{
		p.Name, p.Description, p.Price.String(), original, p.CategoryID,
		p.Images, p.Stock, p.Sizes, p.Colors, p.IsNew, p.IsSale, p.IsLimited,
	}
}

// productScan collects the destinations for productColumns and converts
// the text-encoded prices afterwards.
type productScan struct {
	p        domain.Product
	price    string
	original *string
}

func (s *productScan) dest() []any {
	p := &s.p
	return []any{
		&p.ID, &p.Name, &p.Description, &s.price, &s.original, &p.CategoryID,
		&p.Images, &p.Stock, &p.Sizes, &p.Colors, &p.IsNew, &p.IsSale, &p.IsLimited,
		&p.CreatedAt, &p.UpdatedAt,
	}
}

func (s *productScan) product() (domain.Product, error) {
	var err error
	if s.p.Price, err = domain.NewMoney(s.price); err != nil {
		return domain.Product{}, err
	}
	if s.original != nil {
		m, err := domain.NewMoney(*s.original)
		if err != nil {
			return domain.Product{}, err
		}
		s.p.OriginalPrice = &m
	}
	s.p.Normalize()
	return s.p, nil
}

// scanProduct reads one row selected with productColumns.
func scanProduct(row pgx.Row) (*domain.Product, error) {
	var ps productScan
	if err := row.Scan(ps.dest()...); err != nil {
		return nil, err
	}
	p, err := ps.product()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

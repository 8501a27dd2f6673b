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

// CategoryRepository implements repository.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	pool database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool database.DBTX) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// List returns all categories in alphabetical order.
func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, slug, description, created_at FROM categories ORDER BY name, id`

	ctx, end := database.TraceQuery(ctx, "list_categories", query)
	categories, err := r.collect(ctx, query)
	end(err)
	return categories, err
}

func (r *CategoryRepository) collect(ctx context.Context, query string) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return categories, nil
}

// GetByID retrieves a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `SELECT id, name, slug, description, created_at FROM categories WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "get_category", query)
	var c domain.Category
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("category", id)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// GetBySlug retrieves a category by its slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := `SELECT id, name, slug, description, created_at FROM categories WHERE slug = $1`

	ctx, end := database.TraceQuery(ctx, "get_category_by_slug", query)
	var c domain.Category
	err := r.pool.QueryRow(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	end(err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("category %q: %w", slug, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return &c, nil
}

// Create inserts a category and fills in its ID and creation time.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	ctx, end := database.TraceQuery(ctx, "create_category", query)
	err := r.pool.QueryRow(ctx, query, c.Name, c.Slug, c.Description).Scan(&c.ID, &c.CreatedAt)
	end(err)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "slug", c.Slug)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// Delete removes a category. Products reference categories with ON DELETE
// RESTRICT, so deleting a category in use fails with a conflict.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "delete_category", query)
	ct, err := r.pool.Exec(ctx, query, id)
	end(err)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.Conflict("category is still referenced by products")
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", id)
	}
	return nil
}

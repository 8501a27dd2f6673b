package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosimple/slug"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CatalogService implements product and category operations.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	producer   *event.Producer
	logger     *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		producer:   producer,
		logger:     logger,
	}
}

// ProductFilter selects which products ListProducts returns. A non-empty
// Search wins over CategoryID; with neither set every product is returned.
type ProductFilter struct {
	Search     string
	CategoryID *int64
}

// ListProducts returns products newest first according to filter.
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	switch {
	case strings.TrimSpace(filter.Search) != "":
		return s.Search(ctx, filter.Search)
	case filter.CategoryID != nil:
		return s.ListByCategory(ctx, *filter.CategoryID)
	default:
		return s.ListAll(ctx)
	}
}

// ListAll returns every product, newest first.
func (s *CatalogService) ListAll(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListByCategory returns the products of one category, newest first. An
// unknown category yields an empty list.
func (s *CatalogService) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return products, nil
}

// Search matches query case-insensitively against product names.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.products.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

// GetProduct retrieves a product by its ID.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name          string
	Description   string
	Price         domain.Money
	OriginalPrice *domain.Money
	CategoryID    *int64
	Images        []string
	Stock         int
	Sizes         []string
	Colors        []string
	IsNew         bool
	IsSale        bool
	IsLimited     bool
}

// UpdateProductInput holds the fields to change. Nil fields are left as is.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	Price         *domain.Money
	OriginalPrice *domain.Money
	CategoryID    *int64
	Images        []string
	Stock         *int
	Sizes         []string
	Colors        []string
	IsNew         *bool
	IsSale        *bool
	IsLimited     *bool
}

func validateProduct(p *domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperrors.InvalidInput("product name is required")
	}
	if p.Price.IsNegative() {
		return apperrors.InvalidInput("price must not be negative")
	}
	if p.OriginalPrice != nil && p.OriginalPrice.IsNegative() {
		return apperrors.InvalidInput("original price must not be negative")
	}
	if p.Stock < 0 {
		return apperrors.InvalidInput("stock must not be negative")
	}
	return nil
}

// CreateProduct creates a new product.
func (s *CatalogService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	product := &domain.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		CategoryID:    input.CategoryID,
		Images:        input.Images,
		Stock:         input.Stock,
		Sizes:         input.Sizes,
		Colors:        input.Colors,
		IsNew:         input.IsNew,
		IsSale:        input.IsSale,
		IsLimited:     input.IsLimited,
	}
	product.Normalize()
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
	)
	return product, nil
}

// UpdateProduct applies a partial update to a product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		product.OriginalPrice = input.OriginalPrice
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.Images != nil {
		product.Images = input.Images
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Sizes != nil {
		product.Sizes = input.Sizes
	}
	if input.Colors != nil {
		product.Colors = input.Colors
	}
	if input.IsNew != nil {
		product.IsNew = *input.IsNew
	}
	if input.IsSale != nil {
		product.IsSale = *input.IsSale
	}
	if input.IsLimited != nil {
		product.IsLimited = *input.IsLimited
	}
	product.Normalize()
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated", slog.Int64("product_id", product.ID))
	return product, nil
}

// DeleteProduct removes a product. Cart and wishlist entries referencing it
// are removed by the database; past orders keep their snapshot.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))
	return nil
}

// ListCategories returns every category in alphabetical order.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetCategory retrieves a category by its ID.
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return category, nil
}

// CreateCategoryInput holds the parameters for creating a category. Slug is
// derived from Name when empty.
type CreateCategoryInput struct {
	Name        string
	Slug        string
	Description string
}

// CreateCategory creates a new category.
func (s *CatalogService) CreateCategory(ctx context.Context, input *CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("category name is required")
	}

	categorySlug := input.Slug
	if categorySlug == "" {
		categorySlug = name
	}
	categorySlug = slug.Make(categorySlug)
	if categorySlug == "" {
		return nil, apperrors.InvalidInput("category slug must contain letters or digits")
	}

	category := &domain.Category{
		Name:        name,
		Slug:        categorySlug,
		Description: input.Description,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	if err := s.producer.PublishCategoryCreated(ctx, category); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.created event",
			slog.Int64("category_id", category.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "category created",
		slog.Int64("category_id", category.ID),
		slog.String("slug", category.Slug),
	)
	return category, nil
}

// DeleteCategory removes a category that no product references. A category
// still in use yields a conflict.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get category for delete: %w", err)
	}

	n, err := s.products.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count products in category: %w", err)
	}
	if n > 0 {
		return apperrors.Conflict(fmt.Sprintf("category %d still has %d products", id, n))
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if err := s.producer.PublishCategoryDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish category.deleted event",
			slog.Int64("category_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "category deleted", slog.Int64("category_id", id))
	return nil
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func newTestCatalog() (*CatalogService, *mockProductRepository, *mockCategoryRepository) {
	products := new(mockProductRepository)
	categories := new(mockCategoryRepository)
	return NewCatalogService(products, categories, newTestProducer(), newTestLogger()), products, categories
}

func TestCatalogService_ListProducts_Routing(t *testing.T) {
	dress := []domain.Product{*product(1, "Flowing Summer Dress", "89.99")}
	tops := []domain.Product{*product(2, "Silk Blouse", "79.99")}
	all := append(append([]domain.Product{}, tops...), dress...)

	tests := []struct {
		name   string
		filter ProductFilter
		setup  func(*mockProductRepository)
		want   []domain.Product
	}{
		{
			name:   "search wins over category",
			filter: ProductFilter{Search: " dress ", CategoryID: int64Ptr(2)},
			setup: func(m *mockProductRepository) {
				m.On("Search", mock.Anything, "dress").Return(dress, nil)
			},
			want: dress,
		},
		{
			name:   "category",
			filter: ProductFilter{CategoryID: int64Ptr(2)},
			setup: func(m *mockProductRepository) {
				m.On("ListByCategory", mock.Anything, int64(2)).Return(tops, nil)
			},
			want: tops,
		},
		{
			name:   "blank search falls back to all",
			filter: ProductFilter{Search: "   "},
			setup: func(m *mockProductRepository) {
				m.On("ListAll", mock.Anything).Return(all, nil)
			},
			want: all,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, products, _ := newTestCatalog()
			tt.setup(products)

			got, err := svc.ListProducts(context.Background(), tt.filter)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			products.AssertExpectations(t)
		})
	}
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	svc, products, _ := newTestCatalog()
	products.On("GetByID", mock.Anything, int64(42)).Return(nil, apperrors.NotFound("product", 42))

	_, err := svc.GetProduct(context.Background(), 42)

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCatalogService_CreateProduct(t *testing.T) {
	svc, products, _ := newTestCatalog()
	products.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Name == "Leather Ankle Boots" && p.Price.String() == "149.99" && p.Sizes != nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Product).ID = 5
	}).Return(nil)

	p, err := svc.CreateProduct(context.Background(), &CreateProductInput{
		Name:       "  Leather Ankle Boots ",
		Price:      domain.MustMoney("149.99"),
		CategoryID: int64Ptr(4),
		Stock:      20,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	assert.Equal(t, []string{}, p.Images)
	products.AssertExpectations(t)
}

func TestCatalogService_CreateProduct_Invalid(t *testing.T) {
	neg := domain.MustMoney("-1.00")

	tests := []struct {
		name  string
		input CreateProductInput
		msg   string
	}{
		{"blank name", CreateProductInput{Name: " ", Price: domain.MustMoney("1.00")}, "name is required"},
		{"negative price", CreateProductInput{Name: "Hat", Price: neg}, "price must not be negative"},
		{"negative original price", CreateProductInput{Name: "Hat", Price: domain.MustMoney("1.00"), OriginalPrice: &neg}, "original price"},
		{"negative stock", CreateProductInput{Name: "Hat", Price: domain.MustMoney("1.00"), Stock: -1}, "stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, products, _ := newTestCatalog()

			_, err := svc.CreateProduct(context.Background(), &tt.input)

			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
			assert.Contains(t, err.Error(), tt.msg)
			products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCatalogService_UpdateProduct_Partial(t *testing.T) {
	svc, products, _ := newTestCatalog()
	existing := product(3, "High-Waisted Jeans", "69.99")
	existing.Stock = 30
	products.On("GetByID", mock.Anything, int64(3)).Return(existing, nil)
	products.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	price := domain.MustMoney("59.99")
	sale := true
	p, err := svc.UpdateProduct(context.Background(), 3, &UpdateProductInput{Price: &price, IsSale: &sale})

	require.NoError(t, err)
	assert.Equal(t, "High-Waisted Jeans", p.Name)
	assert.Equal(t, "59.99", p.Price.String())
	assert.Equal(t, 30, p.Stock)
	assert.True(t, p.IsSale)
	products.AssertExpectations(t)
}

func TestCatalogService_UpdateProduct_NotFound(t *testing.T) {
	svc, products, _ := newTestCatalog()
	products.On("GetByID", mock.Anything, int64(9)).Return(nil, apperrors.NotFound("product", 9))

	_, err := svc.UpdateProduct(context.Background(), 9, &UpdateProductInput{Name: strPtr("x")})

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	svc, products, _ := newTestCatalog()
	products.On("Delete", mock.Anything, int64(3)).Return(nil)

	require.NoError(t, svc.DeleteProduct(context.Background(), 3))
	products.AssertExpectations(t)
}

func TestCatalogService_CreateCategory_Slug(t *testing.T) {
	tests := []struct {
		name     string
		input    CreateCategoryInput
		wantSlug string
	}{
		{"derived from name", CreateCategoryInput{Name: "Summer Sale 2026"}, "summer-sale-2026"},
		{"explicit slug normalized", CreateCategoryInput{Name: "Shoes", Slug: "Foot Wear"}, "foot-wear"},
		{"accents transliterated", CreateCategoryInput{Name: "Café Accessoires"}, "cafe-accessoires"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, categories := newTestCatalog()
			categories.On("Create", mock.Anything, mock.AnythingOfType("*domain.Category")).Return(nil)

			c, err := svc.CreateCategory(context.Background(), &tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, c.Slug)
		})
	}
}

func TestCatalogService_CreateCategory_Invalid(t *testing.T) {
	svc, _, categories := newTestCatalog()

	_, err := svc.CreateCategory(context.Background(), &CreateCategoryInput{Name: "  "})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = svc.CreateCategory(context.Background(), &CreateCategoryInput{Name: "!!!"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	categories.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_CreateCategory_Duplicate(t *testing.T) {
	svc, _, categories := newTestCatalog()
	categories.On("Create", mock.Anything, mock.Anything).Return(apperrors.AlreadyExists("category", "slug", "tops"))

	_, err := svc.CreateCategory(context.Background(), &CreateCategoryInput{Name: "Tops"})

	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestCatalogService_DeleteCategory(t *testing.T) {
	svc, products, categories := newTestCatalog()
	categories.On("GetByID", mock.Anything, int64(1)).Return(&domain.Category{ID: 1}, nil)
	products.On("CountByCategory", mock.Anything, int64(1)).Return(0, nil)
	categories.On("Delete", mock.Anything, int64(1)).Return(nil)

	require.NoError(t, svc.DeleteCategory(context.Background(), 1))
	categories.AssertExpectations(t)
}

func TestCatalogService_DeleteCategory_InUse(t *testing.T) {
	svc, products, categories := newTestCatalog()
	categories.On("GetByID", mock.Anything, int64(1)).Return(&domain.Category{ID: 1}, nil)
	products.On("CountByCategory", mock.Anything, int64(1)).Return(2, nil)

	err := svc.DeleteCategory(context.Background(), 1)

	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, 409, apperrors.HTTPStatus(err))
	categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCatalogService_DeleteCategory_NotFound(t *testing.T) {
	svc, products, categories := newTestCatalog()
	categories.On("GetByID", mock.Anything, int64(8)).Return(nil, apperrors.NotFound("category", 8))

	err := svc.DeleteCategory(context.Background(), 8)

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	products.AssertNotCalled(t, "CountByCategory", mock.Anything, mock.Anything)
}

func TestCatalogService_ListCategories(t *testing.T) {
	svc, _, categories := newTestCatalog()
	categories.On("List", mock.Anything).Return([]domain.Category{{ID: 4, Name: "Accessories"}}, nil)

	got, err := svc.ListCategories(context.Background())

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

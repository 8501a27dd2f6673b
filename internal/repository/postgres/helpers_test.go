package postgres

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/database"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

var productCols = []string{
	"id", "name", "description", "price", "original_price", "category_id",
	"images", "stock", "sizes", "colors", "is_new", "is_sale", "is_limited", "created_at", "updated_at",
}

func sampleProduct() domain.Product {
	orig := domain.MustMoney("99.99")
	return domain.Product{
		ID:            3,
		Name:          "High-Waisted Jeans",
		Description:   "Classic high-waisted jeans with a modern fit.",
		Price:         domain.MustMoney("69.99"),
		OriginalPrice: &orig,
		CategoryID:    int64Ptr(3),
		Images:        []string{"https://images.example.com/jeans.jpg"},
		Stock:         30,
		Sizes:         []string{"24", "26", "28"},
		Colors:        []string{"Dark Blue", "Black"},
		IsSale:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// productRow renders p the way the text-cast SELECT returns it.
func productRow(p domain.Product) []any {
	var original *string
	if p.OriginalPrice != nil {
		original = strPtr(p.OriginalPrice.String())
	}
	return []any{
		p.ID, p.Name, p.Description, p.Price.String(), original, p.CategoryID,
		p.Images, p.Stock, p.Sizes, p.Colors, p.IsNew, p.IsSale, p.IsLimited, p.CreatedAt, p.UpdatedAt,
	}
}

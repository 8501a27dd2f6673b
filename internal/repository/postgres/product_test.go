package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func TestProductRepository_ListAll(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	p1 := sampleProduct()
	p2 := sampleProduct()
	p2.ID, p2.Name, p2.OriginalPrice, p2.CategoryID = 1, "Flowing Summer Dress", nil, nil

	mock.ExpectQuery("FROM products ORDER BY created_at DESC").
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p1)...).AddRow(productRow(p2)...))

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "69.99", got[0].Price.String())
	require.NotNil(t, got[0].OriginalPrice)
	assert.Equal(t, "99.99", got[0].OriginalPrice.String())
	assert.Nil(t, got[1].OriginalPrice)
	assert.Nil(t, got[1].CategoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_ListAll_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery("FROM products ORDER BY").WillReturnRows(pgxmock.NewRows(productCols))

	got, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProductRepository_ListByCategory(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery("FROM products WHERE category_id =").
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(sampleProduct())...))

	got, err := repo.ListByCategory(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Search_NameOnlyAndEscaped(t *testing.T) {
	tests := []struct {
		query   string
		pattern string
	}{
		{"dress", "%dress%"},
		{"50%", `%50\%%`},
		{"a_b", `%a\_b%`},
		{`c:\x`, `%c:\\x%`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			mock := newMock(t)
			repo := NewProductRepository(mock)

			mock.ExpectQuery("FROM products WHERE name ILIKE").
				WithArgs(tt.pattern).
				WillReturnRows(pgxmock.NewRows(productCols))

			_, err := repo.Search(context.Background(), tt.query)
			require.NoError(t, err)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProductRepository_GetByID(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("FROM products WHERE id =").
		WithArgs(p.ID).
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(productRow(p)...))

	got, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Sizes, got.Sizes)
	assert.Equal(t, 30, got.Stock)
	assert.True(t, got.IsSale)
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery("FROM products WHERE id =").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestProductRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	p := sampleProduct()
	p.ID = 0

	mock.ExpectQuery("INSERT INTO products").
		WithArgs(
			p.Name, p.Description, "69.99", strPtr("99.99"), p.CategoryID,
			p.Images, p.Stock, p.Sizes, p.Colors, p.IsNew, p.IsSale, p.IsLimited,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	require.NoError(t, repo.Create(context.Background(), &p))
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, now, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_UnknownCategory(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	p := sampleProduct()
	mock.ExpectQuery("INSERT INTO products").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

	err := repo.Create(context.Background(), &p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	p := sampleProduct()
	p.ID = 99
	mock.ExpectQuery("UPDATE products").WillReturnError(pgx.ErrNoRows)

	err := repo.Update(context.Background(), &p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestProductRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products WHERE id =").
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM products WHERE id =").
		WithArgs(int64(6)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.Delete(context.Background(), 5))
	err := repo.Delete(context.Background(), 6)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_CountByCategory(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByCategory(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestScanProduct_InvalidPrice(t *testing.T) {
	mock := newMock(t)
	repo := NewProductRepository(mock)

	row := productRow(sampleProduct())
	row[3] = "not-a-number"
	mock.ExpectQuery("FROM products WHERE id =").
		WillReturnRows(pgxmock.NewRows(productCols).AddRow(row...))

	_, err := repo.GetByID(context.Background(), 3)
	assert.Error(t, err)
}

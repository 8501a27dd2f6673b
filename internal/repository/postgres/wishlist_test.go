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

var wishlistCols = []string{"id", "user_id", "product_id", "created_at"}

func TestWishlistRepository_Add(t *testing.T) {
	mock := newMock(t)
	repo := NewWishlistRepository(mock)

	mock.ExpectQuery(`ON CONFLICT \(user_id, product_id\) DO NOTHING`).
		WithArgs("user-1", int64(4)).
		WillReturnRows(pgxmock.NewRows(wishlistCols).AddRow(int64(21), "user-1", int64(4), now))

	item, err := repo.Add(context.Background(), "user-1", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(21), item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWishlistRepository_Add_ConcurrentInsertFallsBackToRead(t *testing.T) {
	mock := newMock(t)
	repo := NewWishlistRepository(mock)

	mock.ExpectQuery("INSERT INTO wishlist_items").
		WithArgs("user-1", int64(4)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("FROM wishlist_items WHERE user_id =").
		WithArgs("user-1", int64(4)).
		WillReturnRows(pgxmock.NewRows(wishlistCols).AddRow(int64(21), "user-1", int64(4), now))

	item, err := repo.Add(context.Background(), "user-1", 4)
	require.NoError(t, err)
	assert.Equal(t, int64(21), item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWishlistRepository_Add_UnknownProduct(t *testing.T) {
	mock := newMock(t)
	repo := NewWishlistRepository(mock)

	mock.ExpectQuery("INSERT INTO wishlist_items").
		WithArgs("user-1", int64(404)).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})

	_, err := repo.Add(context.Background(), "user-1", 404)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestWishlistRepository_Remove(t *testing.T) {
	mock := newMock(t)
	repo := NewWishlistRepository(mock)

	mock.ExpectExec("DELETE FROM wishlist_items WHERE user_id =").
		WithArgs("user-1", int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	removed, err := repo.Remove(context.Background(), "user-1", 4)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestWishlistRepository_Exists(t *testing.T) {
	mock := newMock(t)
	repo := NewWishlistRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("user-1", int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), "user-1", 4)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWishlistRepository_ListWithProducts(t *testing.T) {
	mock := newMock(t)
	repo := NewWishlistRepository(mock)

	p := sampleProduct()
	cols := append(append([]string{}, wishlistCols...), productCols...)
	row := append([]any{int64(21), "user-1", p.ID, now}, productRow(p)...)

	mock.ExpectQuery("JOIN products p ON p.id = w.product_id").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(cols).AddRow(row...))

	entries, err := repo.ListWithProducts(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, p.ID, entries[0].ProductID)
	assert.Equal(t, "69.99", entries[0].Product.Price.String())
}

package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) (Response, map[string]json.RawMessage) {
	t.Helper()
	body := rec.Body.Bytes()

	var resp Response
	require.NoError(t, json.Unmarshal(body, &resp))
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	return resp, raw
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, Response{Data: map[string]any{"id": 7, "total": "59.97"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp, raw := decode(t, rec)
	assert.Equal(t, "59.97", resp.Data.(map[string]any)["total"])
	assert.NotContains(t, raw, "error")
}

func TestWriteError_Classification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "app error keeps its message",
			err:        fmt.Errorf("get product: %w", apperrors.NotFound("product", 42)),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "product with id 42 not found",
		},
		{
			name:       "bare sentinel gets a generic message",
			err:        fmt.Errorf("cart item 9: %w", apperrors.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "resource not found",
		},
		{
			name:       "duplicate slug",
			err:        apperrors.AlreadyExists("category", "slug", "tops"),
			wantStatus: http.StatusConflict,
			wantCode:   "ALREADY_EXISTS",
		},
		{
			name:       "category in use",
			err:        apperrors.Conflict("category has products"),
			wantStatus: http.StatusConflict,
			wantCode:   "CONFLICT",
			wantMsg:    "category has products",
		},
		{
			name:       "quantity rule",
			err:        apperrors.Validation("quantity must be at least 1"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
		{
			name:       "other user's order",
			err:        fmt.Errorf("get order: %w", apperrors.ErrForbidden),
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name:       "unknown error hides details",
			err:        errors.New("pq: relation does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "an internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)

			WriteError(rec, req, tt.err, slog.New(slog.NewTextHandler(io.Discard, nil)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			resp, raw := decode(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, resp.Error.Message)
			}
			assert.NotContains(t, raw, "data")
		})
	}
}

func TestWriteError_ValidationFields(t *testing.T) {
	type addToCart struct {
		ProductID int64 `json:"product_id" validate:"required,gt=0"`
	}
	verr := validator.Validate(addToCart{})
	require.Error(t, verr)

	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart", nil), verr, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp, _ := decode(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "product_id")
}

func TestWriteError_LogsServerErrorsToFallback(t *testing.T) {
	var buf bytes.Buffer
	fallback := slog.New(slog.NewJSONHandler(&buf, nil))

	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), errors.New("connection refused"), fallback)
	assert.Contains(t, buf.String(), "connection refused")

	buf.Reset()
	WriteError(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/orders/1", nil), apperrors.ErrNotFound, fallback)
	assert.Empty(t, buf.String(), "client errors are not logged")
}

func TestWriteError_RequestID(t *testing.T) {
	t.Run("from correlation id", func(t *testing.T) {
		ctx := logger.WithCorrelationID(context.Background(), "corr-123")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/5", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		WriteError(rec, req, apperrors.NotFound("order", 5), slog.New(slog.NewTextHandler(io.Discard, nil)))

		resp, _ := decode(t, rec)
		assert.Equal(t, "corr-123", resp.Error.RequestID)
	})

	t.Run("omitted without one", func(t *testing.T) {
		rec := httptest.NewRecorder()
		WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), apperrors.ErrNotFound, slog.New(slog.NewTextHandler(io.Discard, nil)))

		_, raw := decode(t, rec)
		var errObj map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw["error"], &errObj))
		assert.NotContains(t, errObj, "request_id")
	})
}

func TestWriteValidationError_PlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, errors.New("expected a JSON object"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp, _ := decode(t, rec)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Equal(t, "expected a JSON object", resp.Error.Message)
}

func TestParseID(t *testing.T) {
	rec := httptest.NewRecorder()
	id, ok := ParseID(rec, "42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Zero(t, rec.Body.Len(), "nothing written on success")

	for _, param := range []string{"abc", "", "0", "-3", "1.5"} {
		t.Run(param, func(t *testing.T) {
			rec := httptest.NewRecorder()
			id, ok := ParseID(rec, param)
			assert.False(t, ok)
			assert.Zero(t, id)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			resp, _ := decode(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
		})
	}
}

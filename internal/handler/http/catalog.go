package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

// CatalogHandler handles HTTP requests for product and category endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
// Prices are decimal strings such as "89.99".
type CreateProductRequest struct {
	Name          string   `json:"name" validate:"required,min=1,max=255"`
	Description   string   `json:"description" validate:"max=5000"`
	Price         string   `json:"price" validate:"required,price"`
	OriginalPrice *string  `json:"original_price" validate:"omitempty,price"`
	CategoryID    *int64   `json:"category_id" validate:"omitempty,gt=0"`
	Images        []string `json:"images" validate:"omitempty,dive,url"`
	Stock         int      `json:"stock" validate:"gte=0"`
	Sizes         []string `json:"sizes" validate:"omitempty,dive,min=1,max=32"`
	Colors        []string `json:"colors" validate:"omitempty,dive,min=1,max=64"`
	IsNew         bool     `json:"is_new"`
	IsSale        bool     `json:"is_sale"`
	IsLimited     bool     `json:"is_limited"`
}

// UpdateProductRequest is the JSON request body for updating a product. All
// fields are optional.
type UpdateProductRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description   *string  `json:"description" validate:"omitempty,max=5000"`
	Price         *string  `json:"price" validate:"omitempty,price"`
	OriginalPrice *string  `json:"original_price" validate:"omitempty,price"`
	CategoryID    *int64   `json:"category_id" validate:"omitempty,gt=0"`
	Images        []string `json:"images" validate:"omitempty,dive,url"`
	Stock         *int     `json:"stock" validate:"omitempty,gte=0"`
	Sizes         []string `json:"sizes" validate:"omitempty,dive,min=1,max=32"`
	Colors        []string `json:"colors" validate:"omitempty,dive,min=1,max=64"`
	IsNew         *bool    `json:"is_new"`
	IsSale        *bool    `json:"is_sale"`
	IsLimited     *bool    `json:"is_limited"`
}

// CreateCategoryRequest is the JSON request body for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// parseMoney converts an optional price string.
func parseMoney(s *string) (*domain.Money, error) {
	if s == nil {
		return nil, nil
	}
	m, err := domain.NewMoney(*s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid price: " + *s)
	}
	return &m, nil
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
// A search query takes precedence over a category filter; a category that is
// not a positive integer is ignored.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.ProductFilter{
		Search:     q.Get("search"),
		CategoryID: optionalID(q.Get("category")),
	}

	products, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	price, err := parseMoney(&req.Price)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	original, err := parseMoney(req.OriginalPrice)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	input := &service.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         *price,
		OriginalPrice: original,
		CategoryID:    req.CategoryID,
		Images:        req.Images,
		Stock:         req.Stock,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		IsNew:         req.IsNew,
		IsSale:        req.IsSale,
		IsLimited:     req.IsLimited,
	}

	product, err := h.service.CreateProduct(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	price, err := parseMoney(req.Price)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	original, err := parseMoney(req.OriginalPrice)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	input := &service.UpdateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         price,
		OriginalPrice: original,
		CategoryID:    req.CategoryID,
		Images:        req.Images,
		Stock:         req.Stock,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		IsNew:         req.IsNew,
		IsSale:        req.IsSale,
		IsLimited:     req.IsLimited,
	}

	product, err := h.service.UpdateProduct(r.Context(), id, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// GetCategory handles GET /api/v1/categories/{id}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: category})
}

// CreateCategory handles POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &service.CreateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: category})
}

// DeleteCategory handles DELETE /api/v1/categories/{id}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
)

// WishlistHandler handles HTTP requests for the authenticated user's wishlist.
type WishlistHandler struct {
	service *service.WishlistService
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: svc,
		logger:  logger,
	}
}

// WishlistRequest is the JSON request body for adding or toggling a product.
type WishlistRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

// MembershipResponse reports whether a product is in the wishlist.
type MembershipResponse struct {
	ProductID    int64 `json:"product_id"`
	IsInWishlist bool  `json:"is_in_wishlist"`
}

// List handles GET /api/v1/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListWithProducts(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: entries})
}

// Add handles POST /api/v1/wishlist
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req WishlistRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	item, err := h.service.Add(r.Context(), middleware.UserIDFromContext(r.Context()), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: item})
}

// Toggle handles POST /api/v1/wishlist/toggle
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req WishlistRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	in, err := h.service.Toggle(r.Context(), middleware.UserIDFromContext(r.Context()), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: MembershipResponse{ProductID: req.ProductID, IsInWishlist: in},
	})
}

// Remove handles DELETE /api/v1/wishlist/{productId}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), middleware.UserIDFromContext(r.Context()), productID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Check handles GET /api/v1/wishlist/check/{productId}
func (h *WishlistHandler) Check(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	in, err := h.service.IsInWishlist(r.Context(), middleware.UserIDFromContext(r.Context()), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: MembershipResponse{ProductID: productID, IsInWishlist: in},
	})
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
)

// OrderHandler handles HTTP requests for the authenticated user's orders.
type OrderHandler struct {
	orders *service.OrderService
	cart   *service.CartService
	logger *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(orders *service.OrderService, cart *service.CartService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		cart:   cart,
		logger: logger,
	}
}

// --- Request DTOs ---

// AddressRequest is a shipping address.
type AddressRequest struct {
	FullName    string `json:"full_name" validate:"required,max=200"`
	AddressLine string `json:"address_line" validate:"required,max=500"`
	City        string `json:"city" validate:"required,max=100"`
	State       string `json:"state" validate:"max=100"`
	PostalCode  string `json:"postal_code" validate:"required,max=20"`
	Country     string `json:"country" validate:"required,max=100"`
	Phone       string `json:"phone" validate:"max=32"`
}

func (a *AddressRequest) toDomain() *domain.Address {
	if a == nil {
		return nil
	}
	return &domain.Address{
		FullName:    a.FullName,
		AddressLine: a.AddressLine,
		City:        a.City,
		State:       a.State,
		PostalCode:  a.PostalCode,
		Country:     a.Country,
		Phone:       a.Phone,
	}
}

// OrderItemRequest is one line of a CreateOrderRequest.
type OrderItemRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,max=255"`
	Price     string `json:"price" validate:"required,price"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Size      string `json:"size" validate:"max=32"`
	Color     string `json:"color" validate:"max=64"`
}

// CreateOrderRequest is the JSON request body for placing an order with
// caller-supplied lines.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress *AddressRequest    `json:"shipping_address" validate:"omitempty"`
	Notes           string             `json:"notes" validate:"max=1000"`
}

// CheckoutRequest is the optional JSON request body for checking out the cart.
type CheckoutRequest struct {
	ShippingAddress *AddressRequest `json:"shipping_address" validate:"omitempty"`
	Notes           string          `json:"notes" validate:"max=1000"`
}

// --- Handlers ---

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListForUser(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: orders})
}

// Get handles GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.orders.GetByID(r.Context(), middleware.UserIDFromContext(r.Context()), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}

// Create handles POST /api/v1/orders
// The order is recorded from the request lines and the cart is cleared
// afterwards.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	payload := domain.OrderPayload{
		Items:           make([]domain.OrderLine, 0, len(req.Items)),
		ShippingAddress: req.ShippingAddress.toDomain(),
		Notes:           req.Notes,
	}
	for _, item := range req.Items {
		price, err := parseMoney(&item.Price)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		payload.Items = append(payload.Items, domain.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: *price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	userID := middleware.UserIDFromContext(r.Context())
	order, err := h.orders.CreateOrder(r.Context(), userID, payload)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.cart.Clear(r.Context(), userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// Checkout handles POST /api/v1/orders/checkout
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	order, err := h.orders.Checkout(r.Context(), middleware.UserIDFromContext(r.Context()), &service.CheckoutInput{
		ShippingAddress: req.ShippingAddress.toDomain(),
		Notes:           req.Notes,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

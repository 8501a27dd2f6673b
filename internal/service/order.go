package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Cart is the part of the cart the order flow needs.
type Cart interface {
	ListWithProducts(ctx context.Context, userID string) ([]domain.CartLine, error)
	Clear(ctx context.Context, userID string) error
}

// OrderService implements order placement and lookup. Orders are immutable
// once recorded; stock is not reserved or decremented.
type OrderService struct {
	repo     repository.OrderRepository
	cart     Cart
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, cart Cart, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		cart:     cart,
		producer: producer,
		logger:   logger,
	}
}

func validatePayload(p domain.OrderPayload) error {
	if len(p.Items) == 0 {
		return apperrors.Validation("order must contain at least one item")
	}
	for i, item := range p.Items {
		if item.Quantity < 1 {
			return apperrors.Validation(fmt.Sprintf("item %d: quantity must be at least 1", i))
		}
		if item.UnitPrice.IsNegative() {
			return apperrors.Validation(fmt.Sprintf("item %d: unit price must not be negative", i))
		}
	}
	return nil
}

// CreateOrder records an order for userID from payload. Line totals and the
// order total are computed here; the cart is not read or changed.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, payload domain.OrderPayload) (*domain.Order, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	order := domain.NewOrder(userID, payload)
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.Int64("order_id", order.ID),
		slog.String("user_id", userID),
		slog.String("total_amount", order.TotalAmount.String()),
	)
	return order, nil
}

// GetByID returns one of the user's orders. Another user's order is
// forbidden.
func (s *OrderService) GetByID(ctx context.Context, userID string, id int64) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	if order.UserID != userID {
		s.logger.WarnContext(ctx, "order ownership mismatch",
			slog.Int64("order_id", id),
			slog.String("user_id", userID),
		)
		return nil, apperrors.Forbidden("order belongs to another user")
	}
	return order, nil
}

// ListForUser returns the user's orders with items, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// CheckoutInput holds the optional details attached to a checkout.
type CheckoutInput struct {
	ShippingAddress *domain.Address
	Notes           string
}

// Checkout turns the user's cart into an order at current product prices and
// then empties the cart. The two steps are not atomic: when clearing fails the
// order is already recorded and the error is returned.
func (s *OrderService) Checkout(ctx context.Context, userID string, input *CheckoutInput) (*domain.Order, error) {
	lines, err := s.cart.ListWithProducts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read cart for checkout: %w", err)
	}
	if len(lines) == 0 {
		return nil, apperrors.Validation("cart is empty")
	}

	order, err := s.CreateOrder(ctx, userID, domain.PayloadFromCart(lines, input.ShippingAddress, input.Notes))
	if err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "cart not cleared after checkout",
			slog.Int64("order_id", order.ID),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return order, fmt.Errorf("clear cart after order %d: %w", order.ID, err)
	}
	return order, nil
}

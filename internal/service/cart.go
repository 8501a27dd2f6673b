package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// CartService implements the shopper's cart. Every operation is scoped to
// the calling user; items owned by someone else are never read back or
// changed.
type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	repo repository.CartRepository,
	products repository.ProductRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		producer: producer,
		logger:   logger,
	}
}

// AddToCartInput holds the parameters for adding a product to the cart. A nil
// or blank Size or Color means the product has no such variant.
type AddToCartInput struct {
	ProductID int64
	Quantity  int
	Size      *string
	Color     *string
}

// AddToCart adds a product to the cart. Adding a variant that is already in
// the cart increases that line's quantity.
func (s *CartService) AddToCart(ctx context.Context, userID string, input *AddToCartInput) (*domain.CartItem, error) {
	if input.Quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}
	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("get product for cart: %w", err)
	}

	item := &domain.CartItem{
		UserID:    userID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Size:      domain.NormalizeVariant(input.Size),
		Color:     domain.NormalizeVariant(input.Color),
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	if err := s.producer.PublishCartItemAdded(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.item_added event",
			slog.Int64("item_id", item.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("user_id", userID),
		slog.Int64("product_id", item.ProductID),
		slog.Int("quantity", item.Quantity),
	)
	return item, nil
}

// UpdateQuantity sets the quantity of one of the user's cart items.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, itemID int64, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, apperrors.Validation("quantity must be at least 1")
	}
	if _, err := s.owned(ctx, userID, itemID); err != nil {
		return nil, err
	}

	item, err := s.repo.UpdateQuantity(ctx, itemID, userID, quantity)
	if err != nil {
		return nil, fmt.Errorf("update cart item quantity: %w", err)
	}
	return item, nil
}

// RemoveItem deletes one of the user's cart items. Removing an item that no
// longer exists succeeds.
func (s *CartService) RemoveItem(ctx context.Context, userID string, itemID int64) error {
	if _, err := s.owned(ctx, userID, itemID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}

	if _, err := s.repo.Delete(ctx, itemID, userID); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

// owned loads a cart item and checks that it belongs to userID.
func (s *CartService) owned(ctx context.Context, userID string, itemID int64) (*domain.CartItem, error) {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	if item.UserID != userID {
		s.logger.WarnContext(ctx, "cart item ownership mismatch",
			slog.Int64("item_id", itemID),
			slog.String("user_id", userID),
		)
		return nil, apperrors.Forbidden("cart item belongs to another user")
	}
	return item, nil
}

// Clear empties the user's cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// ListWithProducts returns the user's cart items with their products, newest
// first.
func (s *CartService) ListWithProducts(ctx context.Context, userID string) ([]domain.CartLine, error) {
	lines, err := s.repo.ListWithProducts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return lines, nil
}

// GetCart returns the user's cart with item count and total.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	lines, err := s.ListWithProducts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.NewCart(userID, lines), nil
}

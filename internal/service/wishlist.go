package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
)

// WishlistService implements the shopper's wishlist.
type WishlistService struct {
	repo     repository.WishlistRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(repo repository.WishlistRepository, products repository.ProductRepository, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:     repo,
		products: products,
		logger:   logger,
	}
}

// IsInWishlist reports whether the user has saved the product.
func (s *WishlistService) IsInWishlist(ctx context.Context, userID string, productID int64) (bool, error) {
	ok, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return ok, nil
}

// Add saves a product to the wishlist. Saving it twice returns the existing
// entry.
func (s *WishlistService) Add(ctx context.Context, userID string, productID int64) (*domain.WishlistItem, error) {
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("get product for wishlist: %w", err)
	}

	item, err := s.repo.Add(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}

	s.logger.InfoContext(ctx, "product added to wishlist",
		slog.String("user_id", userID),
		slog.Int64("product_id", productID),
	)
	return item, nil
}

// Remove deletes a product from the wishlist. Removing an absent product
// succeeds.
func (s *WishlistService) Remove(ctx context.Context, userID string, productID int64) error {
	if _, err := s.repo.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return nil
}

// Toggle removes the product when it is saved and adds it otherwise. It
// returns whether the product is in the wishlist afterwards.
func (s *WishlistService) Toggle(ctx context.Context, userID string, productID int64) (bool, error) {
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return false, fmt.Errorf("toggle wishlist: %w", err)
	}
	if removed {
		return false, nil
	}
	if _, err := s.Add(ctx, userID, productID); err != nil {
		return false, err
	}
	return true, nil
}

// ListWithProducts returns the user's wishlist with products, newest first.
func (s *WishlistService) ListWithProducts(ctx context.Context, userID string) ([]domain.WishlistEntry, error) {
	entries, err := s.repo.ListWithProducts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return entries, nil
}

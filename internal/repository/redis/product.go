package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
)

const productKeyPrefix = "product:"

// ProductRepository caches single-product reads in Redis in front of another
// repository.ProductRepository. Lists are not cached; writes invalidate the
// affected key. Redis failures are logged and the call falls through to the
// underlying store.
type ProductRepository struct {
	repository.ProductRepository

	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProductRepository wraps next with a Redis read-through cache.
func NewProductRepository(next repository.ProductRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProductRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductRepository{
		ProductRepository: next,
		client:            client,
		ttl:               ttl,
		logger:            logger,
	}
}

func productKey(id int64) string {
	return productKeyPrefix + strconv.FormatInt(id, 10)
}

// GetByID returns the cached product, loading and caching it on a miss.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	key := productKey(id)

	data, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p domain.Product
		if err := json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
		r.logger.WarnContext(ctx, "discarding undecodable cached product", slog.String("key", key))
	case !errors.Is(err, redis.Nil):
		r.logger.WarnContext(ctx, "product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	p, err := r.ProductRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.store(ctx, p); err != nil {
		r.logger.WarnContext(ctx, "product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return p, nil
}

// Update writes through and drops the cached copy.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if err := r.ProductRepository.Update(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, p.ID)
	return nil
}

// Delete removes the product and its cached copy.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ProductRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *ProductRepository) store(ctx context.Context, p *domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	if err := r.client.Set(ctx, productKey(p.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set product: %w", err)
	}
	return nil
}

func (r *ProductRepository) invalidate(ctx context.Context, id int64) {
	if err := r.client.Del(ctx, productKey(id)).Err(); err != nil {
		r.logger.WarnContext(ctx, "product cache invalidation failed",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}
}

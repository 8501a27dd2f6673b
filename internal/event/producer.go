package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// Kafka topics for storefront domain events.
var (
	TopicProductCreated  = pkgkafka.Topic("product", "created")
	TopicProductUpdated  = pkgkafka.Topic("product", "updated")
	TopicProductDeleted  = pkgkafka.Topic("product", "deleted")
	TopicCategoryCreated = pkgkafka.Topic("category", "created")
	TopicCategoryDeleted = pkgkafka.Topic("category", "deleted")
	TopicCartItemAdded   = pkgkafka.Topic("cart", "item_added")
	TopicCartCleared     = pkgkafka.Topic("cart", "cleared")
	TopicOrderPlaced     = pkgkafka.Topic("order", "placed")
)

// Aggregate types.
const (
	AggregateTypeProduct  = "product"
	AggregateTypeCategory = "category"
	AggregateTypeCart     = "cart"
	AggregateTypeOrder    = "order"
)

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront"

// ProductData is the payload for product.created and product.updated.
type ProductData struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Price      domain.Money `json:"price"`
	CategoryID *int64       `json:"category_id,omitempty"`
	Stock      int          `json:"stock"`
}

// ProductDeletedData is the payload for product.deleted.
type ProductDeletedData struct {
	ID int64 `json:"id"`
}

// CategoryData is the payload for category events.
type CategoryData struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// CartItemAddedData is the payload for cart.item_added. Quantity is the
// line's quantity after the merge.
type CartItemAddedData struct {
	UserID    string `json:"user_id"`
	ItemID    int64  `json:"item_id"`
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// CartClearedData is the payload for cart.cleared.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// OrderPlacedData is the payload for order.placed.
type OrderPlacedData struct {
	ID          int64        `json:"id"`
	UserID      string       `json:"user_id"`
	ItemCount   int          `json:"item_count"`
	TotalAmount domain.Money `json:"total_amount"`
}

// Producer publishes storefront domain events. A Producer with a nil
// publisher drops every event, which is how the service runs without Kafka.
type Producer struct {
	publisher pkgkafka.Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(publisher pkgkafka.Publisher, logger *slog.Logger) *Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Producer{publisher: publisher, logger: logger}
}

func (p *Producer) publish(ctx context.Context, topic, aggregateType, aggregateID string, data any) error {
	if p == nil || p.publisher == nil {
		return nil
	}

	event, err := pkgkafka.NewEvent(topic, aggregateType, aggregateID, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx)).
		WithUser(logger.UserIDFromContext(ctx))

	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, AggregateTypeProduct, pkgkafka.IDString(product.ID), productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, AggregateTypeProduct, pkgkafka.IDString(product.ID), productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, TopicProductDeleted, AggregateTypeProduct, pkgkafka.IDString(id), ProductDeletedData{ID: id})
}

// PublishCategoryCreated publishes a category.created event.
func (p *Producer) PublishCategoryCreated(ctx context.Context, c *domain.Category) error {
	return p.publish(ctx, TopicCategoryCreated, AggregateTypeCategory, pkgkafka.IDString(c.ID),
		CategoryData{ID: c.ID, Name: c.Name, Slug: c.Slug})
}

// PublishCategoryDeleted publishes a category.deleted event.
func (p *Producer) PublishCategoryDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, TopicCategoryDeleted, AggregateTypeCategory, pkgkafka.IDString(id), CategoryData{ID: id})
}

// PublishCartItemAdded publishes a cart.item_added event keyed by user.
func (p *Producer) PublishCartItemAdded(ctx context.Context, item *domain.CartItem) error {
	return p.publish(ctx, TopicCartItemAdded, AggregateTypeCart, item.UserID, CartItemAddedData{
		UserID:    item.UserID,
		ItemID:    item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Size:      item.Size,
		Color:     item.Color,
	})
}

// PublishCartCleared publishes a cart.cleared event keyed by user.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicCartCleared, AggregateTypeCart, userID, CartClearedData{UserID: userID})
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, o *domain.Order) error {
	return p.publish(ctx, TopicOrderPlaced, AggregateTypeOrder, pkgkafka.IDString(o.ID), OrderPlacedData{
		ID:          o.ID,
		UserID:      o.UserID,
		ItemCount:   len(o.Items),
		TotalAmount: o.TotalAmount,
	})
}

func productData(product *domain.Product) ProductData {
	return ProductData{
		ID:         product.ID,
		Name:       product.Name,
		Price:      product.Price,
		CategoryID: product.CategoryID,
		Stock:      product.Stock,
	}
}

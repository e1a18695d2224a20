// Package event consumes catalog mutation events and keeps the search index
// and cache in step with the product and vendor services.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/service"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/kafka"
)

// Topics consumed by the search gateway.
const (
	TopicProductCreated     = "zakamall.product.created"
	TopicProductUpdated     = "zakamall.product.updated"
	TopicProductDeleted     = "zakamall.product.deleted"
	TopicVendorStatusChange = "zakamall.vendor.status_changed"
)

// Topics returns all topics the consumer subscribes to.
func Topics() []string {
	return []string{
		TopicProductCreated,
		TopicProductUpdated,
		TopicProductDeleted,
		TopicVendorStatusChange,
	}
}

// productPayload is the product document carried by catalog events.
type productPayload struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Currency    string   `json:"currency"`
	Images      []string `json:"images"`
	CategoryIDs []string `json:"category_ids"`
	Brand       string   `json:"brand"`
	VendorID    string   `json:"vendor_id"`
	VendorName  string   `json:"vendor_name"`
	InStock     bool     `json:"in_stock"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Popularity  int64    `json:"popularity"`
	Published   bool     `json:"published"`
	Approved    bool     `json:"approved"`
}

// Consumer dispatches catalog events to the indexer.
type Consumer struct {
	indexer *service.Indexer
	logger  *slog.Logger
}

// NewConsumer creates an event consumer over the given indexer.
func NewConsumer(indexer *service.Indexer, logger *slog.Logger) *Consumer {
	return &Consumer{indexer: indexer, logger: logger}
}

// Handle processes one event. Errors bubble up to the Kafka consumer's
// retry/poison-pill logic.
func (c *Consumer) Handle(ctx context.Context, event *kafka.Event) error {
	c.logger.DebugContext(ctx, "processing event",
		slog.String("event_type", event.EventType),
		slog.String("aggregate_id", event.AggregateID),
	)

	switch event.EventType {
	case "product.created", "product.updated":
		var payload productPayload
		if err := event.UnmarshalData(&payload); err != nil {
			return fmt.Errorf("unmarshal product payload: %w", err)
		}
		return c.indexer.IndexProduct(ctx, &service.ProductInput{
			ID:          payload.ID,
			Title:       payload.Title,
			Description: payload.Description,
			Price:       payload.Price,
			Currency:    payload.Currency,
			Images:      payload.Images,
			CategoryIDs: payload.CategoryIDs,
			Brand:       payload.Brand,
			VendorID:    payload.VendorID,
			VendorName:  payload.VendorName,
			InStock:     payload.InStock,
			Rating:      payload.Rating,
			ReviewCount: payload.ReviewCount,
			Popularity:  payload.Popularity,
			Published:   payload.Published,
			Approved:    payload.Approved,
		})

	case "product.deleted":
		return c.indexer.DeleteProduct(ctx, event.AggregateID)

	case "vendor.status_changed":
		c.indexer.VendorStatusChanged(ctx, event.AggregateID)
		return nil

	default:
		// Unknown event types are committed without processing so a topic
		// schema addition never wedges the consumer group.
		c.logger.WarnContext(ctx, "unknown event type, skipping",
			slog.String("event_type", event.EventType),
		)
		return nil
	}
}

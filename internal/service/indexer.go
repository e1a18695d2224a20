package service

import (
	"context"
	"time"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/backend/elastic"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/cache"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/errors"
)

// ProductInput is the backend-agnostic payload for index maintenance,
// fed by both the HTTP admin endpoints and the Kafka consumer.
type ProductInput struct {
	ID          string
	Title       string
	Description string
	Price       int64
	Currency    string
	Images      []string
	CategoryIDs []string
	Brand       string
	VendorID    string
	VendorName  string
	InStock     bool
	Rating      float64
	ReviewCount int
	Popularity  int64
	Published   bool
	Approved    bool
}

// Indexer maintains the primary search index and invalidates affected cache
// entries after each mutation.
type Indexer struct {
	engine      *elastic.Engine
	invalidator *cache.Invalidator
}

// NewIndexer creates an indexer. engine may be nil when the primary backend
// is unconfigured; every mutation then fails with a 503-mapped error.
func NewIndexer(engine *elastic.Engine, invalidator *cache.Invalidator) *Indexer {
	return &Indexer{engine: engine, invalidator: invalidator}
}

// IndexProduct adds or updates one product document.
func (s *Indexer) IndexProduct(ctx context.Context, input *ProductInput) error {
	if s.engine == nil {
		return errors.Unavailable("search index is not configured")
	}

	doc := toDocument(input)
	if err := s.engine.Index(ctx, doc); err != nil {
		return errors.Wrap(err, "index product")
	}

	s.invalidator.ProductChanged(ctx, input.ID)
	return nil
}

// DeleteProduct removes a product document.
func (s *Indexer) DeleteProduct(ctx context.Context, id string) error {
	if s.engine == nil {
		return errors.Unavailable("search index is not configured")
	}

	if err := s.engine.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete product")
	}

	s.invalidator.ProductChanged(ctx, id)
	return nil
}

// BulkIndex adds or updates many product documents in one call.
func (s *Indexer) BulkIndex(ctx context.Context, inputs []ProductInput) error {
	if s.engine == nil {
		return errors.Unavailable("search index is not configured")
	}

	docs := make([]elastic.Document, 0, len(inputs))
	for i := range inputs {
		docs = append(docs, *toDocument(&inputs[i]))
	}

	if err := s.engine.BulkIndex(ctx, docs); err != nil {
		return errors.Wrap(err, "bulk index products")
	}

	s.invalidator.ProductsChanged(ctx)
	return nil
}

// VendorStatusChanged reacts to a vendor visibility change. The documents
// themselves are re-indexed by the catalog pipeline; here only the caches
// go.
func (s *Indexer) VendorStatusChanged(ctx context.Context, vendorID string) {
	s.invalidator.VendorChanged(ctx, vendorID)
}

func toDocument(in *ProductInput) *elastic.Document {
	now := time.Now().UTC()
	return &elastic.Document{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Currency:    in.Currency,
		Images:      in.Images,
		CategoryIDs: in.CategoryIDs,
		Brand:       in.Brand,
		VendorID:    in.VendorID,
		VendorName:  in.VendorName,
		InStock:     in.InStock,
		Rating:      in.Rating,
		ReviewCount: in.ReviewCount,
		Popularity:  in.Popularity,
		Published:   in.Published,
		Approved:    in.Approved,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

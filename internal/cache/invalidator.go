package cache

import (
	"context"
	"log/slog"
)

// Invalidator issues cache invalidations after write-path mutations commit.
// Calls are fire-and-forget: a failed invalidation is a logged correctness
// bug bounded by the entry's TTL, never a crash for the caller.
type Invalidator struct {
	store  Store
	logger *slog.Logger
}

// NewInvalidator creates an invalidator over the given store.
func NewInvalidator(store Store, logger *slog.Logger) *Invalidator {
	return &Invalidator{store: store, logger: logger}
}

// ProductChanged invalidates the caches affected by a product create,
// update, or delete.
func (i *Invalidator) ProductChanged(ctx context.Context, productID string) {
	i.del(ctx, "product:"+productID)
	i.pattern(ctx, "products:*")
	i.pattern(ctx, "similar:"+productID+":*")
	i.pattern(ctx, "reviews:"+productID+":*")
}

// ProductsChanged invalidates collection-level product caches, e.g. after a
// bulk import.
func (i *Invalidator) ProductsChanged(ctx context.Context) {
	i.pattern(ctx, "products:*")
}

// VendorChanged invalidates the caches affected by a vendor status
// transition. Vendor visibility gates every product listing, so product
// collections go too.
func (i *Invalidator) VendorChanged(ctx context.Context, vendorID string) {
	i.del(ctx, "vendor:"+vendorID)
	i.pattern(ctx, "vendors:*")
	i.pattern(ctx, "products:*")
}

// CartChanged invalidates a user's cached cart view after a cart mutation.
func (i *Invalidator) CartChanged(ctx context.Context, userID string) {
	i.pattern(ctx, "*:/api/v1/cart:"+userID)
}

func (i *Invalidator) del(ctx context.Context, key string) {
	if err := i.store.Del(ctx, key); err != nil {
		i.logger.WarnContext(ctx, "cache invalidation failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (i *Invalidator) pattern(ctx context.Context, pattern string) {
	count, err := i.store.InvalidatePattern(ctx, pattern)
	if err != nil {
		i.logger.WarnContext(ctx, "cache pattern invalidation failed",
			slog.String("pattern", pattern),
			slog.String("error", err.Error()),
		)
		return
	}
	i.logger.DebugContext(ctx, "cache invalidated",
		slog.String("pattern", pattern),
		slog.Int("keys", count),
	)
}

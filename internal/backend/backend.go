// Package backend defines the search execution contract shared by the
// primary index-backed path and the relational fallback path.
package backend

import (
	"context"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
)

// SearchBackend executes a normalized search request. expandedText is the
// synonym-expanded query text; implementations must not expand further.
// Both implementations populate the same ProductHit field set so consumers
// are backend-agnostic.
type SearchBackend interface {
	Search(ctx context.Context, req *domain.SearchRequest, expandedText string) (*domain.SearchResultPage, error)
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
}

// Pinger is implemented by backends that support a lightweight liveness
// probe. The gateway probes before executing against the primary backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

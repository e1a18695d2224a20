package http

import (
	"log/slog"
	"net/http"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/query"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/service"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/httputil"
)

// Cache disposition headers exposed on search responses.
const (
	headerCache    = "X-Cache"
	headerCacheKey = "X-Cache-Key"
)

// SearchHandler handles the public search endpoints.
type SearchHandler struct {
	gateway *service.Gateway
	logger  *slog.Logger
}

// NewSearchHandler creates a search HTTP handler.
func NewSearchHandler(gateway *service.Gateway, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{gateway: gateway, logger: logger}
}

// Search handles GET /api/v1/search. Query parameters are coerced, never
// rejected; even a total backend failure returns a schema-valid page.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	req := query.ParseSearchRequest(r.URL.Query())

	outcome, err := h.gateway.Search(r.Context(), req)
	writeCacheHeaders(w, outcome.CacheHit, outcome.CacheKey)

	if err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Response{Data: outcome.Page})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: outcome.Page})
}

// Suggest handles GET /api/v1/search/suggestions. Autocomplete never errors
// visibly: failures degrade to an empty suggestion list.
func (h *SearchHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("q")

	outcome, err := h.gateway.Suggest(r.Context(), prefix)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	writeCacheHeaders(w, outcome.CacheHit, outcome.CacheKey)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: outcome.Result})
}

func writeCacheHeaders(w http.ResponseWriter, hit bool, key string) {
	if hit {
		w.Header().Set(headerCache, "HIT")
	} else {
		w.Header().Set(headerCache, "MISS")
	}
	if key != "" {
		w.Header().Set(headerCacheKey, key)
	}
}

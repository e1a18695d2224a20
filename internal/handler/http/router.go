// Package http wires the gateway's HTTP surface: public search endpoints,
// index maintenance, health checks and metrics.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/service"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/health"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/middleware"
)

// NewRouter creates a chi router with all gateway routes registered.
func NewRouter(
	gateway *service.Gateway,
	indexer *service.Indexer,
	healthHandler *health.Handler,
	allowedOrigins []string,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing("search-gateway"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("search_gateway"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	searchHandler := NewSearchHandler(gateway, logger)
	indexHandler := NewIndexHandler(indexer, logger)

	r.Route("/api/v1/search", func(r chi.Router) {
		r.Get("/", searchHandler.Search)
		r.Get("/suggestions", searchHandler.Suggest)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/index", indexHandler.IndexProduct)
			r.Post("/bulk", indexHandler.BulkIndex)
			r.Delete("/{id}", indexHandler.DeleteProduct)
		})
	})

	return r
}

// ContentTypeJSON rejects write requests without a JSON content type.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && ct != "application/json" && ct != "application/json; charset=utf-8" {
				http.Error(w, `{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`, http.StatusUnsupportedMediaType)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

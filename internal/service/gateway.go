// Package service orchestrates search execution: cache, primary backend
// with health probe and circuit breaker, and relational fallback.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sony/gobreaker/v2"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/backend"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/cache"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/synonym"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/errors"
)

// Cache TTLs and backend timeouts. Failover is immediate: a failed probe or
// primary call goes straight to the fallback, never a retry.
const (
	DefaultSearchTTL  = 600 * time.Second
	DefaultSuggestTTL = 300 * time.Second

	defaultProbeTimeout   = 2 * time.Second
	defaultPrimaryTimeout = 5 * time.Second

	maxPrimarySuggestions  = 12
	maxFallbackSuggestions = 10
)

const (
	searchPath  = "/api/v1/search"
	suggestPath = "/api/v1/search/suggestions"
)

// GatewayConfig tunes caching and failover behavior. Zero values fall back
// to the package defaults.
type GatewayConfig struct {
	SearchTTL      time.Duration
	SuggestTTL     time.Duration
	ProbeTimeout   time.Duration
	PrimaryTimeout time.Duration
}

// Gateway is the search orchestrator. primary may be nil, in which case
// every request takes the fallback path.
type Gateway struct {
	primary  backend.SearchBackend
	fallback backend.SearchBackend
	store    cache.Store
	expander *synonym.Expander
	breaker  *gobreaker.CircuitBreaker[any]
	logger   *slog.Logger

	searchTTL      time.Duration
	suggestTTL     time.Duration
	probeTimeout   time.Duration
	primaryTimeout time.Duration
}

// SearchOutcome is a search result annotated with its cache disposition.
type SearchOutcome struct {
	Page     *domain.SearchResultPage
	CacheHit bool
	CacheKey string
	Degraded bool
}

// SuggestOutcome is an autocomplete result annotated with its cache
// disposition.
type SuggestOutcome struct {
	Result   *domain.SuggestResult
	CacheHit bool
	CacheKey string
}

// NewGateway creates the orchestrator. store may be nil to disable caching
// entirely (used in tests and degraded deployments).
func NewGateway(primary, fallback backend.SearchBackend, store cache.Store, expander *synonym.Expander, cfg GatewayConfig, logger *slog.Logger) *Gateway {
	if cfg.SearchTTL <= 0 {
		cfg.SearchTTL = DefaultSearchTTL
	}
	if cfg.SuggestTTL <= 0 {
		cfg.SuggestTTL = DefaultSuggestTTL
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaultProbeTimeout
	}
	if cfg.PrimaryTimeout <= 0 {
		cfg.PrimaryTimeout = defaultPrimaryTimeout
	}
	if expander == nil {
		expander = synonym.NewExpander(nil)
	}

	settings := gobreaker.Settings{
		Name:        "search-primary",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &Gateway{
		primary:        primary,
		fallback:       fallback,
		store:          store,
		expander:       expander,
		breaker:        gobreaker.NewCircuitBreaker[any](settings),
		logger:         logger,
		searchTTL:      cfg.SearchTTL,
		suggestTTL:     cfg.SuggestTTL,
		probeTimeout:   cfg.ProbeTimeout,
		primaryTimeout: cfg.PrimaryTimeout,
	}
}

// Search runs the full search pipeline for a normalized request. On total
// failure it returns a structurally valid empty page alongside the error so
// the transport layer never has to invent a payload.
func (g *Gateway) Search(ctx context.Context, req *domain.SearchRequest) (*SearchOutcome, error) {
	key := cache.SearchKey("GET", searchPath, req)

	if page, ok := g.cachedPage(ctx, key); ok {
		return &SearchOutcome{Page: page, CacheHit: true, CacheKey: key}, nil
	}

	if g.primary == nil {
		failoversTotal.WithLabelValues("unconfigured").Inc()
		return g.searchFallback(ctx, req, key)
	}

	if err := g.probePrimary(ctx); err != nil {
		g.logger.WarnContext(ctx, "primary backend probe failed",
			slog.String("error", err.Error()),
		)
		failoversTotal.WithLabelValues("probe_failed").Inc()
		return g.searchFallback(ctx, req, key)
	}

	expanded := g.expander.Expand(req.Text)

	result, err := g.breaker.Execute(func() (any, error) {
		execCtx, cancel := context.WithTimeout(ctx, g.primaryTimeout)
		defer cancel()
		return g.primary.Search(execCtx, req, expanded)
	})
	if err != nil {
		reason := "primary_error"
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			reason = "breaker_open"
		}
		g.logger.WarnContext(ctx, "primary backend search failed",
			slog.String("error", err.Error()),
			slog.String("reason", reason),
		)
		failoversTotal.WithLabelValues(reason).Inc()
		return g.searchFallback(ctx, req, key)
	}

	page := result.(*domain.SearchResultPage)
	searchRequestsTotal.WithLabelValues("primary").Inc()
	g.storePage(ctx, key, page, g.searchTTL)

	return &SearchOutcome{Page: page, CacheKey: key}, nil
}

// Suggest runs the autocomplete pipeline. It never returns a user-visible
// error: any failure degrades to an empty suggestion list.
func (g *Gateway) Suggest(ctx context.Context, prefix string) (*SuggestOutcome, error) {
	prefix = strings.TrimSpace(prefix)

	result := &domain.SuggestResult{
		Suggestions: []string{},
		Query:       prefix,
	}
	if utf8.RuneCountInString(prefix) < synonym.MinQueryLen {
		return &SuggestOutcome{Result: result}, nil
	}

	key := cache.SuggestKey("GET", suggestPath, strings.ToLower(prefix), maxPrimarySuggestions)
	if cached, ok := g.cachedSuggestions(ctx, key); ok {
		return &SuggestOutcome{Result: cached, CacheHit: true, CacheKey: key}, nil
	}

	start := time.Now()

	suggestions, primary := g.fetchSuggestions(ctx, prefix)

	limit := maxFallbackSuggestions
	if primary {
		limit = maxPrimarySuggestions
	}
	result.Suggestions = mergeSuggestions(suggestions, synonym.KeywordHints(prefix), limit)
	result.ProcessingTimeMs = time.Since(start).Milliseconds()

	if primary {
		g.storeSuggestions(ctx, key, result)
	}

	return &SuggestOutcome{Result: result, CacheKey: key}, nil
}

// fetchSuggestions tries the primary backend and falls back on any failure.
// The boolean reports whether the primary served the request.
func (g *Gateway) fetchSuggestions(ctx context.Context, prefix string) ([]string, bool) {
	if g.primary != nil {
		if err := g.probePrimary(ctx); err == nil {
			result, err := g.breaker.Execute(func() (any, error) {
				execCtx, cancel := context.WithTimeout(ctx, g.primaryTimeout)
				defer cancel()
				return g.primary.Suggest(execCtx, prefix, maxPrimarySuggestions)
			})
			if err == nil {
				searchRequestsTotal.WithLabelValues("primary").Inc()
				return result.([]string), true
			}
			g.logger.WarnContext(ctx, "primary backend suggest failed",
				slog.String("error", err.Error()),
			)
		}
	}

	searchRequestsTotal.WithLabelValues("fallback").Inc()
	suggestions, err := g.fallback.Suggest(ctx, prefix, maxFallbackSuggestions)
	if err != nil {
		g.logger.ErrorContext(ctx, "fallback suggest failed",
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	return suggestions, false
}

// searchFallback executes the degraded path. Fallback pages are never
// cached: once the primary recovers it must not be shadowed by stale
// degraded results.
func (g *Gateway) searchFallback(ctx context.Context, req *domain.SearchRequest, key string) (*SearchOutcome, error) {
	expanded := g.expander.Expand(req.Text)

	page, err := g.fallback.Search(ctx, req, expanded)
	if err != nil {
		g.logger.ErrorContext(ctx, "fallback backend search failed",
			slog.String("error", err.Error()),
		)
		hardFailuresTotal.Inc()

		failed := domain.EmptyPage(req)
		failed.Error = "search temporarily unavailable"
		return &SearchOutcome{Page: failed, CacheKey: key, Degraded: true},
			errors.Unavailable("search backends unavailable")
	}

	searchRequestsTotal.WithLabelValues("fallback").Inc()
	return &SearchOutcome{Page: page, CacheKey: key, Degraded: true}, nil
}

// probePrimary issues the lightweight liveness check when the primary
// supports one.
func (g *Gateway) probePrimary(ctx context.Context) error {
	p, ok := g.primary.(backend.Pinger)
	if !ok {
		return nil
	}
	probeCtx, cancel := context.WithTimeout(ctx, g.probeTimeout)
	defer cancel()
	return p.Ping(probeCtx)
}

func (g *Gateway) cachedPage(ctx context.Context, key string) (*domain.SearchResultPage, bool) {
	data, ok := g.cachedBytes(ctx, key)
	if !ok {
		return nil, false
	}
	var page domain.SearchResultPage
	if err := json.Unmarshal(data, &page); err != nil {
		g.logger.WarnContext(ctx, "corrupt cache entry dropped",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	return &page, true
}

func (g *Gateway) cachedSuggestions(ctx context.Context, key string) (*domain.SuggestResult, bool) {
	data, ok := g.cachedBytes(ctx, key)
	if !ok {
		return nil, false
	}
	var result domain.SuggestResult
	if err := json.Unmarshal(data, &result); err != nil {
		g.logger.WarnContext(ctx, "corrupt cache entry dropped",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	return &result, true
}

func (g *Gateway) cachedBytes(ctx context.Context, key string) ([]byte, bool) {
	if g.store == nil {
		return nil, false
	}
	data, err := g.store.Get(ctx, key)
	if err != nil {
		if err != cache.ErrMiss {
			g.logger.WarnContext(ctx, "cache lookup failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		cacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	cacheLookupsTotal.WithLabelValues("hit").Inc()
	return data, true
}

// storePage caches a primary result. Concurrent identical misses may both
// reach this point; last write wins, which is harmless for identical
// payloads.
func (g *Gateway) storePage(ctx context.Context, key string, page *domain.SearchResultPage, ttl time.Duration) {
	if g.store == nil {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		g.logger.WarnContext(ctx, "cache store skipped: marshal failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := g.store.Set(ctx, key, data, ttl); err != nil {
		g.logger.WarnContext(ctx, "cache store failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (g *Gateway) storeSuggestions(ctx context.Context, key string, result *domain.SuggestResult) {
	if g.store == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := g.store.Set(ctx, key, data, g.suggestTTL); err != nil {
		g.logger.WarnContext(ctx, "cache store failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// mergeSuggestions deduplicates backend suggestions, appends curated hints,
// and caps the combined list.
func mergeSuggestions(suggestions, hints []string, limit int) []string {
	seen := make(map[string]struct{}, len(suggestions)+len(hints))
	merged := make([]string, 0, limit)

	add := func(s string) {
		if len(merged) >= limit {
			return
		}
		norm := strings.ToLower(strings.TrimSpace(s))
		if norm == "" {
			return
		}
		if _, ok := seen[norm]; ok {
			return
		}
		seen[norm] = struct{}{}
		merged = append(merged, s)
	}

	for _, s := range suggestions {
		add(s)
	}
	for _, h := range hints {
		add(h)
	}

	return merged
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/cache"
	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
)

// fakeStore is an in-memory cache.Store for deterministic tests.
type fakeStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return v, nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *fakeStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *fakeStore) InvalidatePattern(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (s *fakeStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// stubBackend is a scriptable SearchBackend with an optional liveness probe.
type stubBackend struct {
	mu          sync.Mutex
	searchCalls int

	page       *domain.SearchResultPage
	searchErr  error
	suggest    []string
	suggestErr error
	pingErr    error
}

func (b *stubBackend) Search(_ context.Context, req *domain.SearchRequest, _ string) (*domain.SearchResultPage, error) {
	b.mu.Lock()
	b.searchCalls++
	b.mu.Unlock()
	if b.searchErr != nil {
		return nil, b.searchErr
	}
	page := *b.page
	page.Query = req.Text
	return &page, nil
}

func (b *stubBackend) Suggest(_ context.Context, _ string, _ int) ([]string, error) {
	if b.suggestErr != nil {
		return nil, b.suggestErr
	}
	return b.suggest, nil
}

func (b *stubBackend) Ping(_ context.Context) error {
	return b.pingErr
}

func (b *stubBackend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.searchCalls
}

func primaryPage() *domain.SearchResultPage {
	return &domain.SearchResultPage{
		Hits:       []domain.ProductHit{{ID: "p1", Title: "Tecno Spark 10", Price: 65000}},
		Page:       1,
		Limit:      24,
		TotalHits:  1,
		TotalPages: 1,
		FacetDistribution: map[string]map[string]int{
			"categories": {"electro": 1},
		},
	}
}

func fallbackPage() *domain.SearchResultPage {
	return &domain.SearchResultPage{
		Hits:       []domain.ProductHit{{ID: "p1", Title: "Tecno Spark 10", Price: 65000}},
		Page:       1,
		Limit:      24,
		TotalHits:  1,
		TotalPages: 1,
	}
}

func testRequest() *domain.SearchRequest {
	return &domain.SearchRequest{Text: "tel", Page: 1, Limit: 24, Sort: "popularity:desc"}
}

func TestGateway_PrimarySuccessIsCached(t *testing.T) {
	primary := &stubBackend{page: primaryPage()}
	fallback := &stubBackend{page: fallbackPage()}
	store := newFakeStore()

	g := NewGateway(primary, fallback, store, nil, GatewayConfig{}, slog.Default())

	outcome, err := g.Search(context.Background(), testRequest())
	require.NoError(t, err)
	assert.False(t, outcome.CacheHit)
	assert.False(t, outcome.Degraded)
	assert.NotEmpty(t, outcome.CacheKey)
	assert.NotNil(t, outcome.Page.FacetDistribution)
	assert.Equal(t, 1, store.len(), "primary result must be cached")

	// Second identical request is served from cache without touching the
	// backend again.
	outcome2, err := g.Search(context.Background(), testRequest())
	require.NoError(t, err)
	assert.True(t, outcome2.CacheHit)
	assert.Equal(t, outcome.CacheKey, outcome2.CacheKey)
	assert.Equal(t, outcome.Page.Hits, outcome2.Page.Hits)
	assert.Equal(t, 1, primary.calls())
}

func TestGateway_UnconfiguredPrimaryGoesStraightToFallback(t *testing.T) {
	fallback := &stubBackend{page: fallbackPage()}
	store := newFakeStore()

	g := NewGateway(nil, fallback, store, nil, GatewayConfig{}, slog.Default())

	outcome, err := g.Search(context.Background(), testRequest())
	require.NoError(t, err)

	assert.True(t, outcome.Degraded)
	assert.Empty(t, outcome.Page.FacetDistribution)
	assert.Equal(t, 0, store.len(), "fallback results are never cached")
	assert.Equal(t, 1, fallback.calls())
}

func TestGateway_ProbeFailureFailsOver(t *testing.T) {
	primary := &stubBackend{page: primaryPage(), pingErr: errors.New("connection refused")}
	fallback := &stubBackend{page: fallbackPage()}
	store := newFakeStore()

	g := NewGateway(primary, fallback, store, nil, GatewayConfig{}, slog.Default())

	outcome, err := g.Search(context.Background(), testRequest())
	require.NoError(t, err)

	assert.True(t, outcome.Degraded)
	assert.Empty(t, outcome.Page.FacetDistribution)
	assert.Equal(t, 0, primary.calls(), "primary search must not run after a failed probe")
	assert.Equal(t, 1, fallback.calls())
	assert.Equal(t, 0, store.len())
}

func TestGateway_PrimaryErrorFailsOver(t *testing.T) {
	primary := &stubBackend{page: primaryPage(), searchErr: errors.New("index corrupt")}
	fallback := &stubBackend{page: fallbackPage()}
	store := newFakeStore()

	g := NewGateway(primary, fallback, store, nil, GatewayConfig{}, slog.Default())

	outcome, err := g.Search(context.Background(), testRequest())
	require.NoError(t, err)

	assert.True(t, outcome.Degraded)
	assert.Equal(t, 1, fallback.calls())
	assert.Equal(t, 0, store.len())
}

func TestGateway_HardFailureReturnsValidEmptyPage(t *testing.T) {
	primary := &stubBackend{page: primaryPage(), pingErr: errors.New("down")}
	fallback := &stubBackend{page: fallbackPage(), searchErr: errors.New("db down")}

	g := NewGateway(primary, fallback, newFakeStore(), nil, GatewayConfig{}, slog.Default())

	outcome, err := g.Search(context.Background(), testRequest())
	require.Error(t, err)
	require.NotNil(t, outcome.Page, "even total failure must produce a page")

	assert.NotNil(t, outcome.Page.Hits)
	assert.Empty(t, outcome.Page.Hits)
	assert.Equal(t, "tel", outcome.Page.Query)
	assert.Equal(t, 1, outcome.Page.Page)
	assert.Equal(t, 24, outcome.Page.Limit)
	assert.Equal(t, 0, outcome.Page.TotalHits)
	assert.NotEmpty(t, outcome.Page.Error)
}

func TestGateway_ConcurrentIdenticalMisses(t *testing.T) {
	primary := &stubBackend{page: primaryPage()}
	fallback := &stubBackend{page: fallbackPage()}
	store := newFakeStore()

	g := NewGateway(primary, fallback, store, nil, GatewayConfig{}, slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := g.Search(context.Background(), testRequest())
			assert.NoError(t, err)
			assert.NotNil(t, outcome.Page)
		}()
	}
	wg.Wait()

	// Last write wins; exactly one entry remains.
	assert.Equal(t, 1, store.len())
}

func TestGateway_SuggestShortQueryShortCircuits(t *testing.T) {
	primary := &stubBackend{suggest: []string{"should not appear"}}
	fallback := &stubBackend{}

	g := NewGateway(primary, fallback, newFakeStore(), nil, GatewayConfig{}, slog.Default())

	outcome, err := g.Suggest(context.Background(), "t")
	require.NoError(t, err)

	assert.NotNil(t, outcome.Result.Suggestions)
	assert.Empty(t, outcome.Result.Suggestions)
	assert.False(t, outcome.CacheHit)
}

func TestGateway_SuggestPrimaryWithHints(t *testing.T) {
	primary := &stubBackend{suggest: []string{
		"Tecno Spark 10", "Samsung Galaxy A14", "iPhone",
	}}
	fallback := &stubBackend{}
	store := newFakeStore()

	g := NewGateway(primary, fallback, store, nil, GatewayConfig{}, slog.Default())

	outcome, err := g.Suggest(context.Background(), "tel")
	require.NoError(t, err)

	s := outcome.Result.Suggestions
	assert.LessOrEqual(t, len(s), 12)
	assert.Contains(t, s, "Tecno Spark 10")
	// Curated phone hints are appended after backend suggestions.
	assert.Contains(t, s, "telephone portable")
	// "iPhone" from the backend deduplicates the "iphone" hint.
	count := 0
	for _, v := range s {
		if v == "iPhone" || v == "iphone" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	assert.Equal(t, 1, store.len(), "primary suggestions are cached")
}

func TestGateway_SuggestFallbackCapAndNoCache(t *testing.T) {
	many := make([]string, 0, 20)
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		many = append(many, "produit "+s)
	}
	primary := &stubBackend{pingErr: errors.New("down")}
	fallback := &stubBackend{suggest: many}
	store := newFakeStore()

	g := NewGateway(primary, fallback, store, nil, GatewayConfig{}, slog.Default())

	outcome, err := g.Suggest(context.Background(), "produit")
	require.NoError(t, err)

	assert.LessOrEqual(t, len(outcome.Result.Suggestions), 10)
	assert.Equal(t, 0, store.len(), "fallback suggestions are never cached")
}

func TestGateway_SuggestTotalFailureDegradesSilently(t *testing.T) {
	primary := &stubBackend{pingErr: errors.New("down")}
	fallback := &stubBackend{suggestErr: errors.New("db down")}

	g := NewGateway(primary, fallback, newFakeStore(), nil, GatewayConfig{}, slog.Default())

	outcome, err := g.Suggest(context.Background(), "marmite")
	require.NoError(t, err, "autocomplete never errors visibly")

	assert.NotNil(t, outcome.Result.Suggestions)
	assert.Empty(t, outcome.Result.Suggestions)
}

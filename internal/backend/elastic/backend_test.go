package elastic

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
)

// newTestEngine starts a stub Elasticsearch server and returns an engine
// pointed at it.
func newTestEngine(t *testing.T, handler http.HandlerFunc) *Engine {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	eng, err := New(srv.URL, "test_products", slog.Default())
	require.NoError(t, err)
	return eng
}

func TestEngine_Search(t *testing.T) {
	var capturedBody map[string]interface{}

	eng := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &capturedBody)

		_, _ = w.Write([]byte(`{
			"took": 7,
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_source": {"id": "p1", "title": "Tecno Spark 10", "price": 65000, "currency": "XOF", "vendor_id": "v1", "vendor_name": "TechShop", "in_stock": true, "published": true, "approved": true}},
					{"_source": {"id": "p2", "title": "Samsung Galaxy A14", "price": 95000, "currency": "XOF", "vendor_id": "v2", "vendor_name": "PhoneWorld", "in_stock": true, "published": true, "approved": true}}
				]
			},
			"aggregations": {
				"categories": {"buckets": [{"key": "electro", "doc_count": 2}]},
				"brands": {"buckets": [{"key": "tecno", "doc_count": 1}, {"key": "samsung", "doc_count": 1}]}
			}
		}`))
	})

	req := &domain.SearchRequest{
		Text: "tel", Page: 1, Limit: 24, Sort: "popularity:desc",
		Filters: domain.Filters{Categories: []string{"electro"}},
	}

	page, err := eng.Search(context.Background(), req, "tel telephone phone smartphone")
	require.NoError(t, err)

	assert.Equal(t, "tel", page.Query, "page must carry the original, unexpanded query")
	assert.Equal(t, 2, page.TotalHits)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, int64(7), page.ProcessingTimeMs)
	require.Len(t, page.Hits, 2)
	assert.Equal(t, "p1", page.Hits[0].ID)
	assert.Equal(t, int64(65000), page.Hits[0].Price)

	require.NotNil(t, page.FacetDistribution)
	assert.Equal(t, 2, page.FacetDistribution["categories"]["electro"])
	assert.Equal(t, 1, page.FacetDistribution["brands"]["samsung"])

	// The filter expression reaches the index as a query_string clause.
	require.NotNil(t, capturedBody)
	raw, _ := json.Marshal(capturedBody)
	assert.Contains(t, string(raw), `approved:true AND published:true AND (category_ids:\"electro\")`)
	assert.Contains(t, string(raw), "tel telephone phone smartphone")
}

func TestEngine_SearchError(t *testing.T) {
	eng := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"type": "search_phase_execution_exception", "reason": "boom"}, "status": 500}`))
	})

	req := &domain.SearchRequest{Text: "tel", Page: 1, Limit: 24, Sort: "popularity:desc"}

	_, err := eng.Search(context.Background(), req, "tel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search_phase_execution_exception")
}

func TestEngine_Suggest(t *testing.T) {
	eng := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"hits": {"hits": [
				{"_source": {"title": "Tecno Spark 10"}},
				{"_source": {"title": "Tecno Spark 10"}},
				{"_source": {"title": "Tecno Camon 20"}}
			]}
		}`))
	})

	suggestions, err := eng.Suggest(context.Background(), "tec", 12)
	require.NoError(t, err)

	assert.Equal(t, []string{"Tecno Spark 10", "Tecno Camon 20"}, suggestions)
}

func TestEngine_Ping(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		eng := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		assert.NoError(t, eng.Ping(context.Background()))
	})

	t.Run("erroring", func(t *testing.T) {
		eng := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
		assert.Error(t, eng.Ping(context.Background()))
	})
}

// Package elastic implements the primary, Elasticsearch-backed search path.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
)

// facet fields exposed to clients, keyed by response facet name.
var facetFields = map[string]string{
	"categories": "category_ids",
	"brands":     "brand",
	"vendors":    "vendor_name.keyword",
}

const maxFacetBuckets = 20

// Engine is the Elasticsearch-backed SearchBackend implementation.
type Engine struct {
	client    *elasticsearch.Client
	indexName string
	logger    *slog.Logger
}

// esSearchResponse decodes Elasticsearch search responses.
type esSearchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]struct {
		Buckets []struct {
			Key      string `json:"key"`
			DocCount int    `json:"doc_count"`
		} `json:"buckets"`
	} `json:"aggregations"`
}

// esErrorResponse decodes Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// New creates an Elasticsearch engine connected to the given URL. It does
// not require the cluster to be reachable: the gateway probes per request
// and fails over, so a cluster that is down at startup can still serve
// once it recovers. If indexName is empty, DefaultIndexName is used.
func New(esURL string, indexName string, logger *slog.Logger) (*Engine, error) {
	if indexName == "" {
		indexName = DefaultIndexName
	}

	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	return &Engine{
		client:    client,
		indexName: indexName,
		logger:    logger,
	}, nil
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// Search executes a normalized search request against the index. The text
// clause uses the already-expanded query; filters are compiled into a single
// query-string expression so visibility predicates apply on every request.
func (e *Engine) Search(ctx context.Context, req *domain.SearchRequest, expandedText string) (*domain.SearchResultPage, error) {
	esQuery := e.buildSearchQuery(req, expandedText)

	data, err := json.Marshal(esQuery)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
		e.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return nil, fmt.Errorf("elasticsearch search: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch search: unexpected status %s", res.Status())
	}

	var esResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch search: decode response: %w", err)
	}

	hits := make([]domain.ProductHit, 0, len(esResp.Hits.Hits))
	for i := range esResp.Hits.Hits {
		hits = append(hits, esResp.Hits.Hits[i].Source.ToHit())
	}

	page := &domain.SearchResultPage{
		Hits:             hits,
		Query:            req.Text,
		Page:             req.Page,
		Limit:            req.Limit,
		TotalHits:        esResp.Hits.Total.Value,
		TotalPages:       domain.TotalPagesFor(esResp.Hits.Total.Value, req.Limit),
		ProcessingTimeMs: int64(esResp.Took),
	}

	facets := make(map[string]map[string]int)
	for name, agg := range esResp.Aggregations {
		if len(agg.Buckets) == 0 {
			continue
		}
		dist := make(map[string]int, len(agg.Buckets))
		for _, b := range agg.Buckets {
			dist[b.Key] = b.DocCount
		}
		facets[name] = dist
	}
	if len(facets) > 0 {
		page.FacetDistribution = facets
	}

	return page, nil
}

// buildSearchQuery constructs the Elasticsearch query DSL as a map.
func (e *Engine) buildSearchQuery(req *domain.SearchRequest, expandedText string) map[string]interface{} {
	var mustClause interface{}
	if strings.TrimSpace(expandedText) != "" {
		mustClause = map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":         expandedText,
				"fields":        []string{"title^3", "title.autocomplete^2", "description", "vendor_name"},
				"type":          "best_fields",
				"fuzziness":     "AUTO",
				"prefix_length": 1,
			},
		}
	} else {
		mustClause = map[string]interface{}{
			"match_all": map[string]interface{}{},
		}
	}

	boolQuery := map[string]interface{}{
		"must": []interface{}{mustClause},
		"filter": []interface{}{
			map[string]interface{}{
				"query_string": map[string]interface{}{
					"query":            CompileFilters(req.Filters),
					"default_operator": "AND",
				},
			},
		},
	}

	aggs := make(map[string]interface{}, len(facetFields))
	for name, field := range facetFields {
		aggs[name] = map[string]interface{}{
			"terms": map[string]interface{}{
				"field": field,
				"size":  maxFacetBuckets,
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
		"aggs":             aggs,
		"sort":             buildSort(req.Sort),
		"from":             (req.Page - 1) * req.Limit,
		"size":             req.Limit,
		"track_total_hits": true,
	}
}

// buildSort translates a normalized "field:direction" sort into the
// Elasticsearch sort clause. Relevance is always the tiebreaker.
func buildSort(sort string) []interface{} {
	field, direction, _ := strings.Cut(sort, ":")

	var key string
	switch field {
	case domain.SortPopularity:
		key = "popularity"
	case domain.SortPrice:
		key = "price"
	case domain.SortRating:
		key = "rating"
	case domain.SortNewest:
		key = "created_at"
	default:
		return []interface{}{
			map[string]interface{}{"_score": "desc"},
		}
	}

	if direction != "asc" {
		direction = "desc"
	}
	return []interface{}{
		map[string]interface{}{key: direction},
		map[string]interface{}{"_score": "desc"},
	}
}

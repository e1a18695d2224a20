package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// esSuggestResponse decodes Elasticsearch suggest responses.
type esSuggestResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				Title string `json:"title"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Suggest returns autocomplete suggestions for the given prefix. It queries
// the title.autocomplete field restricted to visible products and returns
// unique titles in relevance order.
func (e *Engine) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"match": map[string]interface{}{
							"title.autocomplete": prefix,
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"approved": true},
					},
					map[string]interface{}{
						"term": map[string]interface{}{"published": true},
					},
				},
			},
		},
		"size":    limit,
		"_source": []string{"title"},
		"sort": []interface{}{
			map[string]interface{}{"_score": "desc"},
		},
	}

	data, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch suggest: marshal query: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch suggest: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return nil, fmt.Errorf("elasticsearch suggest: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch suggest: unexpected status %s", res.Status())
	}

	var esResp esSuggestResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch suggest: decode response: %w", err)
	}

	// Deduplicate titles while preserving order.
	seen := make(map[string]struct{})
	var titles []string
	for _, hit := range esResp.Hits.Hits {
		title := hit.Source.Title
		if _, exists := seen[title]; !exists {
			seen[title] = struct{}{}
			titles = append(titles, title)
		}
	}

	return titles, nil
}

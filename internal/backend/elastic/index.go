package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// esBulkResponse decodes Elasticsearch bulk responses.
type esBulkResponse struct {
	Errors bool `json:"errors"`
	Items  []struct {
		Index struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"index"`
	} `json:"items"`
}

// EnsureIndex checks whether the products index exists and creates it with
// the full mapping if not. Called at startup; a failure is not fatal to the
// gateway since the fallback path does not depend on the index.
func (e *Engine) EnsureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists(
		[]string{e.indexName},
		e.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 200 {
		e.logger.Info("elasticsearch index already exists", "index", e.indexName)
		return nil
	}

	mapping := buildIndexMapping()
	res, err = e.client.Indices.Create(
		e.indexName,
		e.client.Indices.Create.WithBody(strings.NewReader(mapping)),
		e.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("create index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("create index: unexpected status %s", res.Status())
	}

	e.logger.Info("elasticsearch index created", "index", e.indexName)
	return nil
}

// Index adds or updates a single product document.
func (e *Engine) Index(ctx context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("elasticsearch index: marshal document: %w", err)
	}

	res, err := e.client.Index(
		e.indexName,
		bytes.NewReader(data),
		e.client.Index.WithDocumentID(doc.ID),
		e.client.Index.WithRefresh("true"),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch index: unexpected status %s", res.Status())
	}

	e.logger.Debug("indexed product", "id", doc.ID, "title", doc.Title)
	return nil
}

// Delete removes a product document by ID. A 404 is not an error: the
// document may never have been indexed.
func (e *Engine) Delete(ctx context.Context, id string) error {
	res, err := e.client.Delete(
		e.indexName,
		id,
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch delete: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch delete: unexpected status %s", res.Status())
	}

	e.logger.Debug("deleted product", "id", id)
	return nil
}

// BulkIndex adds or updates multiple product documents using the bulk
// NDJSON API. Per-item failures are collected into a single error.
func (e *Engine) BulkIndex(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for i := range docs {
		action := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": e.indexName,
				"_id":    docs[i].ID,
			},
		}
		if err := json.NewEncoder(&buf).Encode(action); err != nil {
			return fmt.Errorf("elasticsearch bulk index: encode action: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(docs[i]); err != nil {
			return fmt.Errorf("elasticsearch bulk index: encode document: %w", err)
		}
	}

	res, err := e.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithIndex(e.indexName),
		e.client.Bulk.WithRefresh("true"),
		e.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch bulk index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch bulk index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch bulk index: unexpected status %s", res.Status())
	}

	var bulkResp esBulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return fmt.Errorf("elasticsearch bulk index: decode response: %w", err)
	}

	if bulkResp.Errors {
		var errMsgs []string
		for _, item := range bulkResp.Items {
			if item.Index.Error.Type != "" {
				errMsgs = append(errMsgs, fmt.Sprintf("id=%s: %s: %s", item.Index.ID, item.Index.Error.Type, item.Index.Error.Reason))
			}
		}
		return fmt.Errorf("elasticsearch bulk index: partial errors: %s", strings.Join(errMsgs, "; "))
	}

	e.logger.Info("bulk indexed products", "count", len(docs))
	return nil
}

// DeleteIndex removes the entire index. Administrative use only; a 404 is
// treated as success.
func (e *Engine) DeleteIndex(ctx context.Context) error {
	res, err := e.client.Indices.Delete(
		[]string{e.indexName},
		e.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch delete index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() && res.StatusCode != 404 {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return fmt.Errorf("elasticsearch delete index: %s: %s", errResp.Error.Type, errResp.Error.Reason)
		}
		return fmt.Errorf("elasticsearch delete index: unexpected status %s", res.Status())
	}

	e.logger.Info("elasticsearch index deleted", "index", e.indexName)
	return nil
}

package elastic

// DefaultIndexName is the default Elasticsearch index for product documents.
const DefaultIndexName = "zakamall_products"

// buildIndexMapping returns the full JSON mapping for the products index,
// including custom analyzers for autocomplete and French language support.
func buildIndexMapping() string {
	return `{
  "settings": {
    "number_of_shards": 1,
    "number_of_replicas": 0,
    "analysis": {
      "analyzer": {
        "french_analyzer": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "asciifolding", "french_stop", "french_stemmer"]
        },
        "autocomplete_analyzer": {
          "type": "custom",
          "tokenizer": "autocomplete_tokenizer",
          "filter": ["lowercase", "asciifolding"]
        },
        "autocomplete_search": {
          "type": "custom",
          "tokenizer": "standard",
          "filter": ["lowercase", "asciifolding"]
        }
      },
      "tokenizer": {
        "autocomplete_tokenizer": {
          "type": "edge_ngram",
          "min_gram": 2,
          "max_gram": 20,
          "token_chars": ["letter", "digit"]
        }
      },
      "filter": {
        "french_stop": {
          "type": "stop",
          "stopwords": "_french_"
        },
        "french_stemmer": {
          "type": "stemmer",
          "language": "light_french"
        }
      }
    }
  },
  "mappings": {
    "properties": {
      "id":           { "type": "keyword" },
      "title":        { "type": "text", "analyzer": "french_analyzer", "fields": { "keyword": { "type": "keyword", "ignore_above": 256 }, "autocomplete": { "type": "text", "analyzer": "autocomplete_analyzer", "search_analyzer": "autocomplete_search" } } },
      "description":  { "type": "text", "analyzer": "french_analyzer" },
      "price":        { "type": "long" },
      "currency":     { "type": "keyword" },
      "images":       { "type": "keyword", "index": false },
      "category_ids": { "type": "keyword" },
      "brand":        { "type": "keyword" },
      "vendor_id":    { "type": "keyword" },
      "vendor_name":  { "type": "text", "analyzer": "french_analyzer", "fields": { "keyword": { "type": "keyword" } } },
      "in_stock":     { "type": "boolean" },
      "rating":       { "type": "float" },
      "review_count": { "type": "integer" },
      "popularity":   { "type": "long" },
      "published":    { "type": "boolean" },
      "approved":     { "type": "boolean" },
      "created_at":   { "type": "date" },
      "updated_at":   { "type": "date" }
    }
  }
}`
}

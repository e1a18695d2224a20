package domain

// Pagination and sorting defaults for the search surface. Out-of-range
// values are clamped, never rejected.
const (
	DefaultPage  = 1
	DefaultLimit = 24
	MaxLimit     = 60

	DefaultSort = "popularity:desc"
)

// Sortable fields accepted from callers. Anything else falls back to
// DefaultSort.
const (
	SortPopularity = "popularity"
	SortPrice      = "price"
	SortRating     = "rating"
	SortNewest     = "created_at"
)

// ValidSortField reports whether the given field may be sorted on.
func ValidSortField(field string) bool {
	switch field {
	case SortPopularity, SortPrice, SortRating, SortNewest:
		return true
	}
	return false
}

// Filters holds the backend-agnostic filter set of a search request.
// Price bounds are always minor currency units (integer cents); the query
// normalizer is the only place where unit conversion happens.
type Filters struct {
	VendorID   string   `json:"vendor_id,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Brands     []string `json:"brands,omitempty"`
	PriceMin   *int64   `json:"price_min,omitempty"`
	PriceMax   *int64   `json:"price_max,omitempty"`
	InStock    *bool    `json:"in_stock,omitempty"`
	Currency   string   `json:"currency,omitempty"`
}

// SearchRequest is the canonical, backend-agnostic search request produced
// by the query normalizer.
type SearchRequest struct {
	Text    string  `json:"text"`
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	Sort    string  `json:"sort"` // "field:direction"
	Filters Filters `json:"filters"`
}

// ProductHit is a single search result. Both backends populate the same
// field set so downstream consumers are backend-agnostic.
type ProductHit struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       int64    `json:"price"` // minor units
	Currency    string   `json:"currency"`
	Images      []string `json:"images"`
	CategoryIDs []string `json:"category_ids"`
	VendorID    string   `json:"vendor_id"`
	VendorName  string   `json:"vendor_name"`
	InStock     bool     `json:"in_stock"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Published   bool     `json:"published"`
	Approved    bool     `json:"approved"`
}

// SearchResultPage is one page of search results. FacetDistribution is
// present only when the page was served by the primary backend.
type SearchResultPage struct {
	Hits              []ProductHit              `json:"hits"`
	Query             string                    `json:"query"`
	Page              int                       `json:"page"`
	Limit             int                       `json:"limit"`
	TotalPages        int                       `json:"total_pages"`
	TotalHits         int                       `json:"total_hits"`
	ProcessingTimeMs  int64                     `json:"processing_time_ms"`
	FacetDistribution map[string]map[string]int `json:"facet_distribution,omitempty"`
	Error             string                    `json:"error,omitempty"`
}

// EmptyPage returns a structurally valid, empty result page for the given
// request. Used for the total-failure response so clients never have to
// special-case a malformed payload.
func EmptyPage(req *SearchRequest) *SearchResultPage {
	return &SearchResultPage{
		Hits:       []ProductHit{},
		Query:      req.Text,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: 0,
		TotalHits:  0,
	}
}

// TotalPagesFor computes the page count for a hit total and page size.
func TotalPagesFor(totalHits, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := totalHits / limit
	if totalHits%limit > 0 {
		pages++
	}
	return pages
}

// SuggestResult is the autocomplete response payload.
type SuggestResult struct {
	Suggestions      []string `json:"suggestions"`
	Query            string   `json:"query"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
}

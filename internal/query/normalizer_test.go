package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
)

func TestParseSearchRequest_Defaults(t *testing.T) {
	req := ParseSearchRequest(url.Values{})

	assert.Equal(t, "", req.Text)
	assert.Equal(t, domain.DefaultPage, req.Page)
	assert.Equal(t, domain.DefaultLimit, req.Limit)
	assert.Equal(t, domain.DefaultSort, req.Sort)
	assert.Nil(t, req.Filters.PriceMin)
	assert.Nil(t, req.Filters.PriceMax)
	assert.Nil(t, req.Filters.InStock)
}

func TestParseSearchRequest_LimitClamping(t *testing.T) {
	tests := []struct {
		name  string
		limit string
		want  int
	}{
		{"below minimum", "0", 1},
		{"negative", "-5", 1},
		{"in range", "30", 30},
		{"at maximum", "60", 60},
		{"above maximum", "500", 60},
		{"malformed", "abc", domain.DefaultLimit},
		{"empty", "", domain.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.limit != "" {
				values.Set("limit", tt.limit)
			}
			req := ParseSearchRequest(values)
			assert.Equal(t, tt.want, req.Limit)
		})
	}
}

func TestParseSearchRequest_PageFloor(t *testing.T) {
	tests := []struct {
		name string
		page string
		want int
	}{
		{"zero", "0", 1},
		{"negative", "-3", 1},
		{"one", "1", 1},
		{"large", "42", 42},
		{"malformed", "two", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{"page": {tt.page}}
			req := ParseSearchRequest(values)
			assert.Equal(t, tt.want, req.Page)
		})
	}
}

func TestParseSearchRequest_SortNormalization(t *testing.T) {
	tests := []struct {
		name string
		sort string
		want string
	}{
		{"valid field and direction", "price:asc", "price:asc"},
		{"valid field no direction", "rating", "rating:desc"},
		{"unknown field", "slug:asc", domain.DefaultSort},
		{"bad direction", "price:sideways", domain.DefaultSort},
		{"uppercase coerced", "PRICE:ASC", "price:asc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{"sort": {tt.sort}}
			req := ParseSearchRequest(values)
			assert.Equal(t, tt.want, req.Sort)
		})
	}
}

func TestParseSearchRequest_PriceMajorToMinor(t *testing.T) {
	values := url.Values{
		"price_min": {"5000"},
		"price_max": {"12.5"},
	}

	req := ParseSearchRequest(values)

	require.NotNil(t, req.Filters.PriceMin)
	require.NotNil(t, req.Filters.PriceMax)
	assert.Equal(t, int64(500000), *req.Filters.PriceMin)
	assert.Equal(t, int64(1250), *req.Filters.PriceMax)
}

func TestParseSearchRequest_MalformedPriceIsAbsent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"letters", "cheap"},
		{"nan", "NaN"},
		{"infinity", "Inf"},
		{"negative", "-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{"price_min": {tt.raw}}
			req := ParseSearchRequest(values)
			assert.Nil(t, req.Filters.PriceMin)
		})
	}
}

func TestParseSearchRequest_ZeroPriceIsExplicit(t *testing.T) {
	// An explicit zero bound must survive normalization so it produces a
	// different cache key than an absent bound.
	values := url.Values{"price_min": {"0"}}

	req := ParseSearchRequest(values)

	require.NotNil(t, req.Filters.PriceMin)
	assert.Equal(t, int64(0), *req.Filters.PriceMin)
}

func TestParseSearchRequest_ArrayFilters(t *testing.T) {
	t.Run("repeated parameters", func(t *testing.T) {
		values := url.Values{"category[]": {"electro", "mode"}}
		req := ParseSearchRequest(values)
		assert.Equal(t, []string{"electro", "mode"}, req.Filters.Categories)
	})

	t.Run("comma separated", func(t *testing.T) {
		values := url.Values{"brand": {"samsung,tecno"}}
		req := ParseSearchRequest(values)
		assert.Equal(t, []string{"samsung", "tecno"}, req.Filters.Brands)
	})

	t.Run("both keys merged and deduplicated", func(t *testing.T) {
		values := url.Values{
			"category[]": {"electro"},
			"category":   {"mode,electro"},
		}
		req := ParseSearchRequest(values)
		assert.Equal(t, []string{"electro", "mode"}, req.Filters.Categories)
	})

	t.Run("output sorted for key determinism", func(t *testing.T) {
		values := url.Values{"brand": {"tecno,infinix,samsung"}}
		req := ParseSearchRequest(values)
		assert.Equal(t, []string{"infinix", "samsung", "tecno"}, req.Filters.Brands)
	})
}

func TestParseSearchRequest_InStock(t *testing.T) {
	tests := []struct {
		raw  string
		want *bool
	}{
		{"true", boolPtr(true)},
		{"1", boolPtr(true)},
		{"yes", boolPtr(true)},
		{"false", boolPtr(false)},
		{"0", boolPtr(false)},
		{"maybe", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			values := url.Values{"in_stock": {tt.raw}}
			req := ParseSearchRequest(values)
			if tt.want == nil {
				assert.Nil(t, req.Filters.InStock)
			} else {
				require.NotNil(t, req.Filters.InStock)
				assert.Equal(t, *tt.want, *req.Filters.InStock)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }

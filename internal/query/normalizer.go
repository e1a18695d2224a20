// Package query turns raw HTTP query parameters into the canonical
// SearchRequest. Malformed values are coerced to defaults or dropped;
// no search parameter ever produces a 4xx.
package query

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
)

// ParseSearchRequest builds a canonical SearchRequest from raw query
// parameters. Price bounds arrive in major currency units and leave in minor
// units; nothing downstream re-interprets scale.
func ParseSearchRequest(values url.Values) *domain.SearchRequest {
	req := &domain.SearchRequest{
		Text:  strings.TrimSpace(values.Get("q")),
		Page:  domain.DefaultPage,
		Limit: domain.DefaultLimit,
		Sort:  domain.DefaultSort,
	}

	if v := values.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 1 {
			req.Page = page
		}
	}
	if v := values.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			req.Limit = clampLimit(limit)
		}
	}
	if v := values.Get("sort"); v != "" {
		req.Sort = normalizeSort(v)
	}

	req.Filters = domain.Filters{
		VendorID:   strings.TrimSpace(values.Get("vendor_id")),
		Categories: collectSet(values, "category[]", "category"),
		Brands:     collectSet(values, "brand[]", "brand"),
		PriceMin:   parsePrice(values.Get("price_min")),
		PriceMax:   parsePrice(values.Get("price_max")),
		InStock:    parseBool(values.Get("in_stock")),
		Currency:   strings.ToUpper(strings.TrimSpace(values.Get("currency"))),
	}

	return req
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > domain.MaxLimit {
		return domain.MaxLimit
	}
	return limit
}

// normalizeSort validates a "field:direction" value, falling back to the
// default ordering on anything unrecognized.
func normalizeSort(raw string) string {
	field, dir, found := strings.Cut(strings.ToLower(strings.TrimSpace(raw)), ":")
	if !found {
		dir = "desc"
	}
	if dir != "asc" && dir != "desc" {
		return domain.DefaultSort
	}
	if !domain.ValidSortField(field) {
		return domain.DefaultSort
	}
	return field + ":" + dir
}

// collectSet merges values supplied under any of the given keys, whether as
// repeated parameters or comma-separated lists, into a sorted, deduplicated
// slice. Sorting keeps cache keys deterministic.
func collectSet(values url.Values, keys ...string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, key := range keys {
		for _, raw := range values[key] {
			for _, part := range strings.Split(raw, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				if _, ok := seen[part]; ok {
					continue
				}
				seen[part] = struct{}{}
				out = append(out, part)
			}
		}
	}

	sort.Strings(out)
	return out
}

// parsePrice converts a major-unit price bound into minor units (cents).
// Malformed values are treated as absent rather than rejected.
func parsePrice(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	major, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(major) || math.IsInf(major, 0) || major < 0 {
		return nil
	}
	minor := int64(math.Round(major * 100))
	return &minor
}

func parseBool(raw string) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		v := true
		return &v
	case "false", "0", "no":
		v := false
		return &v
	}
	return nil
}

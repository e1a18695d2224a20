package cache

import (
	"strconv"
	"strings"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
)

// personalizedPaths is the fixed allow-list of path substrings whose cached
// responses differ per user. Anything else is cached anonymously.
var personalizedPaths = []string{"/cart", "/orders", "/profile", "/wishlist"}

// RequestKey builds a cache key for an HTTP-shaped resource:
// METHOD:PATH for public resources, METHOD:PATH:USERID for personalized ones.
func RequestKey(method, path, userID string) string {
	key := method + ":" + path
	if userID == "" {
		return key
	}
	for _, p := range personalizedPaths {
		if strings.Contains(path, p) {
			return key + ":" + userID
		}
	}
	return key
}

// SearchKey builds a deterministic cache key for a normalized search
// request: method + path + canonical parameter serialization. Two requests
// normalize to the same key exactly when every canonical field matches;
// an absent price bound and an explicit zero bound produce different keys.
func SearchKey(method, path string, req *domain.SearchRequest) string {
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(':')
	b.WriteString(path)
	b.WriteByte(':')
	b.WriteString(canonicalParams(req))
	return b.String()
}

// SuggestKey builds a deterministic cache key for an autocomplete request.
func SuggestKey(method, path, prefix string, limit int) string {
	return method + ":" + path + ":q=" + prefix + "&limit=" + strconv.Itoa(limit)
}

// canonicalParams serializes the normalized request as sorted key=value
// pairs. Set-valued filters are comma-joined (the normalizer already sorts
// them); absent optionals are omitted entirely.
func canonicalParams(req *domain.SearchRequest) string {
	pairs := []string{
		"limit=" + strconv.Itoa(req.Limit),
		"page=" + strconv.Itoa(req.Page),
		"q=" + req.Text,
		"sort=" + req.Sort,
	}

	f := req.Filters
	if len(f.Brands) > 0 {
		pairs = append(pairs, "brand="+strings.Join(f.Brands, ","))
	}
	if len(f.Categories) > 0 {
		pairs = append(pairs, "category="+strings.Join(f.Categories, ","))
	}
	if f.Currency != "" {
		pairs = append(pairs, "currency="+f.Currency)
	}
	if f.InStock != nil {
		pairs = append(pairs, "in_stock="+strconv.FormatBool(*f.InStock))
	}
	if f.PriceMax != nil {
		pairs = append(pairs, "price_max="+strconv.FormatInt(*f.PriceMax, 10))
	}
	if f.PriceMin != nil {
		pairs = append(pairs, "price_min="+strconv.FormatInt(*f.PriceMin, 10))
	}
	if f.VendorID != "" {
		pairs = append(pairs, "vendor="+f.VendorID)
	}

	return strings.Join(pairs, "&")
}

package elastic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
)

// CompileFilters translates canonical filters into a single query-string
// filter expression for the index. Visibility predicates always come first
// and are never optional: unapproved or unpublished products must not leak
// through any search path.
func CompileFilters(f domain.Filters) string {
	clauses := []string{"approved:true", "published:true"}

	if f.VendorID != "" {
		clauses = append(clauses, fmt.Sprintf("vendor_id:%q", f.VendorID))
	}
	if len(f.Categories) > 0 {
		clauses = append(clauses, orGroup("category_ids", f.Categories))
	}
	if len(f.Brands) > 0 {
		clauses = append(clauses, orGroup("brand", f.Brands))
	}
	if f.PriceMin != nil {
		clauses = append(clauses, "price:>="+strconv.FormatInt(*f.PriceMin, 10))
	}
	if f.PriceMax != nil {
		clauses = append(clauses, "price:<="+strconv.FormatInt(*f.PriceMax, 10))
	}
	if f.InStock != nil {
		clauses = append(clauses, "in_stock:"+strconv.FormatBool(*f.InStock))
	}
	if f.Currency != "" {
		clauses = append(clauses, fmt.Sprintf("currency:%q", f.Currency))
	}

	return strings.Join(clauses, " AND ")
}

// orGroup renders a list-valued filter as a parenthesized OR-group of
// equality clauses.
func orGroup(field string, values []string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%s:%q", field, v))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

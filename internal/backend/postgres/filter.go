package postgres

import (
	"fmt"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
)

// CompileConditions builds the ordered WHERE predicates for the fallback
// query. Visibility predicates always come first and are not optional. Each
// expanded token becomes a case-insensitive substring disjunction over
// title, description and SKU, ANDed with the remaining filters.
func CompileConditions(f domain.Filters, tokens []string) ([]string, []interface{}) {
	conditions := []string{"approved = TRUE", "published = TRUE"}
	args := []interface{}{}
	argPos := 1

	for _, tok := range tokens {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d OR sku ILIKE $%d)",
			argPos, argPos, argPos,
		))
		args = append(args, "%"+tok+"%")
		argPos++
	}

	if f.VendorID != "" {
		conditions = append(conditions, fmt.Sprintf("vendor_id = $%d", argPos))
		args = append(args, f.VendorID)
		argPos++
	}
	if len(f.Categories) > 0 {
		conditions = append(conditions, fmt.Sprintf("category_ids && $%d", argPos))
		args = append(args, f.Categories)
		argPos++
	}
	if len(f.Brands) > 0 {
		conditions = append(conditions, fmt.Sprintf("brand = ANY($%d)", argPos))
		args = append(args, f.Brands)
		argPos++
	}
	if f.PriceMin != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argPos))
		args = append(args, normalizePriceBound(*f.PriceMin))
		argPos++
	}
	if f.PriceMax != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argPos))
		args = append(args, normalizePriceBound(*f.PriceMax))
		argPos++
	}
	if f.InStock != nil {
		conditions = append(conditions, fmt.Sprintf("in_stock = $%d", argPos))
		args = append(args, *f.InStock)
		argPos++
	}
	if f.Currency != "" {
		conditions = append(conditions, fmt.Sprintf("currency = $%d", argPos))
		args = append(args, f.Currency)
	}

	return conditions, args
}

// normalizePriceBound re-normalizes a price bound for the fallback path.
// A bound whose magnitude exceeds 10000 is assumed to already be in minor
// units and is used as-is; anything smaller is multiplied by 100. Inherited
// from the legacy parameter convention of this path; see DESIGN.md before
// changing it.
func normalizePriceBound(v int64) int64 {
	if v > 10000 || v < -10000 {
		return v
	}
	return v * 100
}

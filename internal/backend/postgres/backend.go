// Package postgres implements the relational fallback search path. It is
// slower and facet-free but keeps search available when the index service
// is unreachable.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
)

// DB is the subset of pgxpool.Pool used by the backend. Satisfied by
// *pgxpool.Pool and by pgxmock pools in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// Backend is the Postgres-backed SearchBackend implementation.
type Backend struct {
	db     DB
	logger *slog.Logger
}

// NewBackend creates a fallback backend over the given connection pool.
func NewBackend(db DB, logger *slog.Logger) *Backend {
	return &Backend{db: db, logger: logger}
}

// Ping checks database connectivity.
func (b *Backend) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}

// Search executes the fallback query. Facets are never computed on this
// path; result pages carry an empty FacetDistribution so callers can tell
// a degraded page from a primary one.
func (b *Backend) Search(ctx context.Context, req *domain.SearchRequest, expandedText string) (*domain.SearchResultPage, error) {
	start := time.Now()

	tokens := strings.Fields(expandedText)
	conditions, args := CompileConditions(req.Filters, tokens)

	query := fmt.Sprintf(`
		SELECT id, title, description, price, currency, images, category_ids,
		       vendor_id, vendor_name, in_stock, rating, review_count,
		       published, approved, count(*) OVER() AS total_count
		FROM products
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		strings.Join(conditions, " AND "),
		orderClause(req.Sort),
		len(args)+1, len(args)+2,
	)
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fallback search: query: %w", err)
	}
	defer rows.Close()

	hits := make([]domain.ProductHit, 0, req.Limit)
	total := 0
	for rows.Next() {
		var h domain.ProductHit
		if err := rows.Scan(
			&h.ID, &h.Title, &h.Description, &h.Price, &h.Currency,
			&h.Images, &h.CategoryIDs, &h.VendorID, &h.VendorName,
			&h.InStock, &h.Rating, &h.ReviewCount,
			&h.Published, &h.Approved, &total,
		); err != nil {
			return nil, fmt.Errorf("fallback search: scan row: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fallback search: iterate rows: %w", err)
	}

	return &domain.SearchResultPage{
		Hits:             hits,
		Query:            req.Text,
		Page:             req.Page,
		Limit:            req.Limit,
		TotalHits:        total,
		TotalPages:       domain.TotalPagesFor(total, req.Limit),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// Suggest returns distinct visible product titles starting with the prefix.
func (b *Backend) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := b.db.Query(ctx, `
		SELECT DISTINCT title
		FROM products
		WHERE approved = TRUE AND published = TRUE AND title ILIKE $1
		ORDER BY title
		LIMIT $2`,
		prefix+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fallback suggest: query: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("fallback suggest: scan row: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fallback suggest: iterate rows: %w", err)
	}

	return titles, nil
}

// orderClause maps a normalized "field:direction" sort onto a safe ORDER BY
// clause. The field set is a fixed whitelist; anything else sorts by
// popularity.
func orderClause(sort string) string {
	field, direction, _ := strings.Cut(sort, ":")

	var column string
	switch field {
	case domain.SortPopularity:
		column = "popularity"
	case domain.SortPrice:
		column = "price"
	case domain.SortRating:
		column = "rating"
	case domain.SortNewest:
		column = "created_at"
	default:
		column = "popularity"
	}

	if direction == "asc" {
		return column + " ASC"
	}
	return column + " DESC"
}

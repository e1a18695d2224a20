package elastic

import (
	"time"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/domain"
)

// Document is the product representation stored in the search index.
// Prices are minor currency units. Popularity is a denormalized score
// maintained by the indexing pipeline and used as the default sort key.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Currency    string    `json:"currency"`
	Images      []string  `json:"images,omitempty"`
	CategoryIDs []string  `json:"category_ids,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	VendorID    string    `json:"vendor_id"`
	VendorName  string    `json:"vendor_name"`
	InStock     bool      `json:"in_stock"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	Popularity  int64     `json:"popularity"`
	Published   bool      `json:"published"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToHit converts an indexed document into the transport-facing hit shape.
func (d *Document) ToHit() domain.ProductHit {
	return domain.ProductHit{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Currency:    d.Currency,
		Images:      d.Images,
		CategoryIDs: d.CategoryIDs,
		VendorID:    d.VendorID,
		VendorName:  d.VendorName,
		InStock:     d.InStock,
		Rating:      d.Rating,
		ReviewCount: d.ReviewCount,
		Published:   d.Published,
		Approved:    d.Approved,
	}
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Fabricesimpore/ZakaMall-sub001/internal/service"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/httputil"
	"github.com/Fabricesimpore/ZakaMall-sub001/pkg/validator"
)

// IndexHandler handles the index maintenance endpoints used by the catalog
// pipeline and by operators.
type IndexHandler struct {
	indexer *service.Indexer
	logger  *slog.Logger
}

// NewIndexHandler creates an index maintenance HTTP handler.
func NewIndexHandler(indexer *service.Indexer, logger *slog.Logger) *IndexHandler {
	return &IndexHandler{indexer: indexer, logger: logger}
}

// IndexProductRequest is the JSON request body for indexing a product.
type IndexProductRequest struct {
	ID          string   `json:"id" validate:"required,uuid"`
	Title       string   `json:"title" validate:"required,min=1"`
	Description string   `json:"description"`
	Price       int64    `json:"price" validate:"gte=0"`
	Currency    string   `json:"currency" validate:"required,len=3"`
	Images      []string `json:"images"`
	CategoryIDs []string `json:"category_ids"`
	Brand       string   `json:"brand"`
	VendorID    string   `json:"vendor_id" validate:"required"`
	VendorName  string   `json:"vendor_name"`
	InStock     bool     `json:"in_stock"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount int      `json:"review_count" validate:"gte=0"`
	Popularity  int64    `json:"popularity" validate:"gte=0"`
	Published   bool     `json:"published"`
	Approved    bool     `json:"approved"`
}

// BulkIndexRequest is the JSON request body for bulk indexing products.
type BulkIndexRequest struct {
	Products []IndexProductRequest `json:"products" validate:"required,min=1,max=500,dive"`
}

// IndexProduct handles POST /api/v1/search/index
func (h *IndexHandler) IndexProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req IndexProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.indexer.IndexProduct(r.Context(), toInput(&req)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": req.ID, "status": "indexed"}})
}

// DeleteProduct handles DELETE /api/v1/search/{id}
func (h *IndexHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.indexer.DeleteProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"id": id.String(), "status": "deleted"}})
}

// BulkIndex handles POST /api/v1/search/bulk
func (h *IndexHandler) BulkIndex(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20) // 10MB limit for bulk endpoint

	var req BulkIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	inputs := make([]service.ProductInput, 0, len(req.Products))
	for i := range req.Products {
		inputs = append(inputs, *toInput(&req.Products[i]))
	}

	if err := h.indexer.BulkIndex(r.Context(), inputs); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"indexed": len(inputs), "status": "ok"}})
}

func toInput(req *IndexProductRequest) *service.ProductInput {
	return &service.ProductInput{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Images:      req.Images,
		CategoryIDs: req.CategoryIDs,
		Brand:       req.Brand,
		VendorID:    req.VendorID,
		VendorName:  req.VendorName,
		InStock:     req.InStock,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
		Popularity:  req.Popularity,
		Published:   req.Published,
		Approved:    req.Approved,
	}
}

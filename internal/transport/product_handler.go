package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"product-catalog/internal/domain"
	"product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ListResponse is the collection envelope for GET /products/.
type ListResponse struct {
	Count   int                      `json:"count"`
	Results []domain.ProductResponse `json:"results"`
}

// MessageResponse is the confirmation body for operations without an
// entity payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes. Trailing-slash variants are
// handled by the router's StripSlashes middleware.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// decodeFields parses the request body into an untyped field mapping.
// UseNumber keeps numeric literals as json.Number so the validator can
// coerce them without binary float drift.
func decodeFields(r *http.Request) (map[string]any, error) {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// List handles GET /products/
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "failed to retrieve products")
		return
	}

	results := make([]domain.ProductResponse, 0, len(products))
	for _, product := range products {
		results = append(results, product.Response())
	}

	middleware.RespondWithJSON(w, http.StatusOK, ListResponse{
		Count:   len(results),
		Results: results,
	})
}

// Create handles POST /products/
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		h.logger.Debug("Product create decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), fields)
	if err != nil {
		h.respondServiceError(w, err, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusCreated, product.Response())
}

// Get handles GET /products/{id}/
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, err, "failed to retrieve product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product.Response())
}

// Update handles PUT /products/{id}/ as a full replacement.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		h.logger.Debug("Product update decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		h.respondServiceError(w, err, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusOK, product.Response())
}

// Delete handles DELETE /products/{id}/
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{
		Message: "Product deleted successfully",
	})
}

// respondServiceError maps pipeline errors onto the HTTP error taxonomy:
// validation and malformed identifiers are client errors, a missing
// document is 404, anything else is a store failure reported as 500 with a
// non-sensitive message.
func (h *ProductHandler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var verrs service.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		middleware.RespondWithValidationErrors(w, verrs)
	case errors.Is(err, domain.ErrInvalidProductID):
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id format")
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

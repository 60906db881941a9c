package transport

import (
	"errors"
	"net/http"

	"attar-store/internal/browse"
	"attar-store/internal/catalog"
	"attar-store/internal/domain"
	"attar-store/internal/middleware"
	"attar-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SetImageRequest carries a custom product image, either a URL or a data URL
type SetImageRequest struct {
	Image string `json:"image" validate:"required"`
}

// SearchResponse lists every product matching a query
type SearchResponse struct {
	Query string           `json:"query"`
	Sort  browse.SortOrder `json:"sort"`
	Items []domain.Product `json:"items"`
	Count int              `json:"count"`
}

// CatalogHandler handles HTTP requests for browsing the catalog
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers the public catalog routes. The client id is optional
// here; when present the client's custom images are applied.
func (h *CatalogHandler) RegisterRoutes(r chi.Router, optionalClient, requireClient func(http.Handler) http.Handler) {
	r.Get("/api/catalog", h.GetState)
	r.Post("/api/catalog/reload", h.Reload)
	r.Get("/api/categories", h.ListCategories)
	r.Get("/api/notes", h.ListNotes)

	r.Group(func(r chi.Router) {
		r.Use(optionalClient)
		r.Get("/api/products", h.ListProducts)
		r.Get("/api/products/{id}", h.GetProduct)
		r.Get("/api/categories/{category}/products", h.CategoryProducts)
		r.Get("/api/search", h.Search)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireClient)
		r.Put("/api/products/{id}/image", h.SetImage)
	})
}

// GetState reports whether the catalog is loading, ready or unavailable
func (h *CatalogHandler) GetState(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.State())
}

// Reload refetches the remote catalog
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Reload(r.Context()); err != nil {
		h.logger.Warn("Catalog reload failed", zap.Error(err))
		middleware.RespondWithErrorDetails(w, http.StatusServiceUnavailable, catalog.UnavailableMessage, map[string]interface{}{
			"state": h.catalog.State(),
		})
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.State())
}

// ListProducts filters, sorts and pages the catalog
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	q, errs := parseProductQuery(r)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	result, err := h.catalog.ListProducts(r.Context(), middleware.GetClientID(r.Context()), q)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// CategoryProducts browses one category
func (h *CatalogHandler) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	q, errs := parseProductQuery(r)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	category := chi.URLParam(r, "category")
	result, err := h.catalog.CategoryProducts(r.Context(), middleware.GetClientID(r.Context()), category, q)
	if err != nil {
		h.logger.Error("Failed to list category products", zap.String("category", category), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// GetProduct returns one product with its related products
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	id := chi.URLParam(r, "id")
	detail, err := h.catalog.GetProduct(r.Context(), middleware.GetClientID(r.Context()), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.String("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

// Search matches the query against names, descriptions and notes
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	var errs []middleware.ValidationError
	order := sortParam(r, &errs)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	query := r.URL.Query().Get("q")
	products, err := h.catalog.Search(r.Context(), middleware.GetClientID(r.Context()), query, order)
	if err != nil {
		h.logger.Error("Search failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to search products")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, SearchResponse{
		Query: query,
		Sort:  order,
		Items: products,
		Count: len(products),
	})
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.Categories())
}

func (h *CatalogHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.catalog.Notes())
}

// SetImage stores a client-local image override for a product
func (h *CatalogHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	var req SetImageRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	id := chi.URLParam(r, "id")
	err := h.catalog.SetCustomImage(r.Context(), middleware.GetClientID(r.Context()), id, req.Image)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, service.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrInvalidImage):
		middleware.RespondWithError(w, http.StatusBadRequest, "image reference is required")
	default:
		h.logger.Error("Failed to set custom image", zap.String("product_id", id), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to save image")
	}
}

// unavailable answers 503 while there is nothing to show yet
func (h *CatalogHandler) unavailable(w http.ResponseWriter) bool {
	state := h.catalog.State()
	if state.Count > 0 {
		return false
	}

	switch state.Status {
	case catalog.StatusFailed:
		middleware.RespondWithErrorDetails(w, http.StatusServiceUnavailable, catalog.UnavailableMessage, map[string]interface{}{
			"status": state.Status,
		})
		return true
	case catalog.StatusLoading:
		w.Header().Set("Retry-After", "1")
		middleware.RespondWithErrorDetails(w, http.StatusServiceUnavailable, "catalog is loading", map[string]interface{}{
			"status": state.Status,
		})
		return true
	}
	return false
}

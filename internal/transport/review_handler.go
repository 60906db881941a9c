package transport

import (
	"errors"
	"net/http"

	"attar-store/internal/middleware"
	"attar-store/internal/review"
	"attar-store/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReviewRequest is a new review. Rating and comment are checked by the review store.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewHandler handles HTTP requests for product reviews
type ReviewHandler struct {
	reviews service.ReviewService
	logger  *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger,
	}
}

// RegisterRoutes registers review routes. Reading needs a client id, writing a signed-in user.
func (h *ReviewHandler) RegisterRoutes(r chi.Router, requireClient, session, requireSession func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireClient)
		r.Get("/api/products/{id}/reviews", h.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(session, requireSession)
			r.Post("/api/products/{id}/reviews", h.CreateReview)
			r.Delete("/api/reviews/{id}", h.DeleteReview)
		})
	})
}

// ListReviews returns a product's reviews, newest first, with the average rating
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	reviews, err := h.reviews.ForProduct(r.Context(), middleware.GetClientID(r.Context()), productID)
	if err != nil {
		h.logger.Error("Failed to list reviews", zap.String("product_id", productID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}

// CreateReview records a review authored by the signed-in user
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	user, _ := middleware.GetUser(r.Context())
	productID := chi.URLParam(r, "id")

	created, err := h.reviews.Add(r.Context(), middleware.GetClientID(r.Context()), user, productID, review.Submission{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		var verr *review.ValidationError
		switch {
		case errors.As(err, &verr):
			middleware.RespondWithErrorDetails(w, http.StatusUnprocessableEntity, verr.Error(), map[string]interface{}{
				"fields": verr,
			})
		case errors.Is(err, review.ErrUnauthenticated):
			middleware.RespondWithError(w, http.StatusUnauthorized, "sign in required")
		case errors.Is(err, service.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		default:
			h.logger.Error("Failed to add review", zap.String("product_id", productID), zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add review")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

// DeleteReview removes a review. Only its author can remove it; anything else is a not found.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reviewID := chi.URLParam(r, "id")

	deleted, err := h.reviews.Delete(r.Context(), middleware.GetClientID(r.Context()), reviewID, user)
	if err != nil {
		h.logger.Error("Failed to delete review", zap.String("review_id", reviewID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete review")
		return
	}
	if !deleted {
		middleware.RespondWithError(w, http.StatusNotFound, "review not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

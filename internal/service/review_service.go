package service

import (
	"context"

	"attar-store/internal/domain"
	"attar-store/internal/repository"
	"attar-store/internal/review"

	"go.uber.org/zap"
)

// ProductReviews lists the reviews of a product with their aggregate rating
type ProductReviews struct {
	Reviews []domain.Review      `json:"reviews"`
	Summary domain.RatingSummary `json:"summary"`
}

// ReviewService defines the interface for review operations
type ReviewService interface {
	ForProduct(ctx context.Context, clientID, productID string) (ProductReviews, error)
	Add(ctx context.Context, clientID string, author *domain.User, productID string, sub review.Submission) (domain.Review, error)
	Delete(ctx context.Context, clientID, reviewID string, caller *domain.User) (bool, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	catalog CatalogSource
	opts    []review.Option
	logger  *zap.Logger
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(reviews repository.ReviewRepository, catalog CatalogSource, logger *zap.Logger, opts ...review.Option) ReviewService {
	return &reviewService{
		reviews: reviews,
		catalog: catalog,
		opts:    opts,
		logger:  logger,
	}
}

func (s *reviewService) open(ctx context.Context, clientID string) (*review.Store, error) {
	return review.Open(ctx, s.reviews, clientID, s.logger, s.opts...)
}

func (s *reviewService) ForProduct(ctx context.Context, clientID, productID string) (ProductReviews, error) {
	store, err := s.open(ctx, clientID)
	if err != nil {
		return ProductReviews{}, err
	}
	return ProductReviews{
		Reviews: store.ForProduct(productID),
		Summary: store.Summary(productID),
	}, nil
}

func (s *reviewService) Add(ctx context.Context, clientID string, author *domain.User, productID string, sub review.Submission) (domain.Review, error) {
	if _, ok := s.catalog.ByID(productID); !ok {
		return domain.Review{}, ErrProductNotFound
	}

	store, err := s.open(ctx, clientID)
	if err != nil {
		return domain.Review{}, err
	}
	return store.Add(ctx, author, productID, sub)
}

func (s *reviewService) Delete(ctx context.Context, clientID, reviewID string, caller *domain.User) (bool, error) {
	store, err := s.open(ctx, clientID)
	if err != nil {
		return false, err
	}
	return store.Delete(ctx, reviewID, caller), nil
}

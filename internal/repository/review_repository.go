package repository

import (
	"context"
	"fmt"

	"attar-store/internal/domain"
	"attar-store/internal/storage"

	"go.uber.org/zap"
)

// ReviewRepository defines the interface for persisted reviews of a client
type ReviewRepository interface {
	Load(ctx context.Context, clientID string) ([]domain.Review, error)
	Save(ctx context.Context, clientID string, reviews []domain.Review) error
}

type reviewRepository struct {
	store  storage.Store
	logger *zap.Logger
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(store storage.Store, logger *zap.Logger) ReviewRepository {
	return &reviewRepository{store: store, logger: logger}
}

func (r *reviewRepository) Load(ctx context.Context, clientID string) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := readOrEmpty(ctx, r.store, r.logger, storage.NamespaceReviews, clientID, &reviews); err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) Save(ctx context.Context, clientID string, reviews []domain.Review) error {
	if reviews == nil {
		reviews = []domain.Review{}
	}
	if err := storage.WriteJSON(ctx, r.store, storage.NamespaceReviews, clientID, reviews); err != nil {
		return fmt.Errorf("failed to save reviews: %w", err)
	}
	return nil
}

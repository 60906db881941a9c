package repository

import (
	"context"
	"fmt"

	"attar-store/internal/domain"
	"attar-store/internal/storage"

	"go.uber.org/zap"
)

// CartRepository defines the interface for persisted cart lines of a client
type CartRepository interface {
	Load(ctx context.Context, clientID string) ([]domain.LineItem, error)
	Save(ctx context.Context, clientID string, items []domain.LineItem) error
}

type cartRepository struct {
	store  storage.Store
	logger *zap.Logger
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(store storage.Store, logger *zap.Logger) CartRepository {
	return &cartRepository{store: store, logger: logger}
}

// Load returns the stored lines; an absent or malformed value yields an empty cart
func (r *cartRepository) Load(ctx context.Context, clientID string) ([]domain.LineItem, error) {
	var items []domain.LineItem
	if err := readOrEmpty(ctx, r.store, r.logger, storage.NamespaceCart, clientID, &items); err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return items, nil
}

// Save overwrites the stored lines with the full list
func (r *cartRepository) Save(ctx context.Context, clientID string, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	if err := storage.WriteJSON(ctx, r.store, storage.NamespaceCart, clientID, items); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"fmt"

	"attar-store/internal/storage"

	"go.uber.org/zap"
)

// ImageRepository stores per-client custom product images keyed by product id
type ImageRepository interface {
	Load(ctx context.Context, clientID string) (map[string]string, error)
	Set(ctx context.Context, clientID, productID, image string) error
}

type imageRepository struct {
	store  storage.Store
	logger *zap.Logger
}

// NewImageRepository creates a new instance of ImageRepository
func NewImageRepository(store storage.Store, logger *zap.Logger) ImageRepository {
	return &imageRepository{store: store, logger: logger}
}

func (r *imageRepository) Load(ctx context.Context, clientID string) (map[string]string, error) {
	images := map[string]string{}
	if err := readOrEmpty(ctx, r.store, r.logger, storage.NamespaceCustomImages, clientID, &images); err != nil {
		return nil, fmt.Errorf("failed to load custom images: %w", err)
	}
	if images == nil {
		images = map[string]string{}
	}
	return images, nil
}

// Set records an override and rewrites the whole namespace value
func (r *imageRepository) Set(ctx context.Context, clientID, productID, image string) error {
	images, err := r.Load(ctx, clientID)
	if err != nil {
		return err
	}
	images[productID] = image

	if err := storage.WriteJSON(ctx, r.store, storage.NamespaceCustomImages, clientID, images); err != nil {
		return fmt.Errorf("failed to save custom images: %w", err)
	}
	return nil
}

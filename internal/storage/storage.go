// Package storage provides the durable key-value storage that backs client-local state
// (cart, reviews, custom images, session token). Values are opaque bytes grouped by namespace.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Namespaces used by the storefront
const (
	NamespaceCart         = "cart"
	NamespaceCustomImages = "custom_images"
	NamespaceReviews      = "reviews"
	NamespaceAuthToken    = "auth_token"
)

var (
	ErrNotFound = errors.New("storage: key not found")
	ErrCorrupt  = errors.New("storage: stored value is malformed")
)

// Store is a namespaced key-value store. Writes are last-write-wins.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
	Close() error
}

// ReadJSON loads and decodes a JSON value. A missing key yields ErrNotFound,
// an undecodable one ErrCorrupt.
func ReadJSON(ctx context.Context, s Store, namespace, key string, dst any) error {
	raw, err := s.Get(ctx, namespace, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s/%s: %v", ErrCorrupt, namespace, key, err)
	}
	return nil
}

// WriteJSON encodes and stores a JSON value
func WriteJSON(ctx context.Context, s Store, namespace, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", namespace, key, err)
	}
	return s.Put(ctx, namespace, key, raw)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"attar-store/internal/storage"
)

var ErrTokenNotFound = errors.New("session token not found")

// SessionTokenRepository stores the raw bearer token of a client's session
type SessionTokenRepository interface {
	Load(ctx context.Context, clientID string) (string, error)
	Save(ctx context.Context, clientID, token string) error
	Delete(ctx context.Context, clientID string) error
}

type sessionTokenRepository struct {
	store storage.Store
}

// NewSessionTokenRepository creates a new instance of SessionTokenRepository
func NewSessionTokenRepository(store storage.Store) SessionTokenRepository {
	return &sessionTokenRepository{store: store}
}

// Load returns ErrTokenNotFound when no usable token is stored
func (r *sessionTokenRepository) Load(ctx context.Context, clientID string) (string, error) {
	raw, err := r.store.Get(ctx, storage.NamespaceAuthToken, clientID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to load session token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (r *sessionTokenRepository) Save(ctx context.Context, clientID, token string) error {
	if err := r.store.Put(ctx, storage.NamespaceAuthToken, clientID, []byte(token)); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func (r *sessionTokenRepository) Delete(ctx context.Context, clientID string) error {
	if err := r.store.Delete(ctx, storage.NamespaceAuthToken, clientID); err != nil {
		return fmt.Errorf("failed to delete session token: %w", err)
	}
	return nil
}

package cart

import (
	"context"
	"fmt"
	"sync"

	"attar-store/internal/repository"

	"go.uber.org/zap"
)

// Store owns the cart of one client. Every dispatched event persists the full
// line list; a failed write is logged and the in-memory state still advances.
type Store struct {
	mu       sync.Mutex
	repo     repository.CartRepository
	clientID string
	state    State
	logger   *zap.Logger
}

// Open rehydrates the cart of clientID. Missing or malformed stored carts start empty.
func Open(ctx context.Context, repo repository.CartRepository, clientID string, logger *zap.Logger) (*Store, error) {
	items, err := repo.Load(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to open cart: %w", err)
	}

	return &Store{
		repo:     repo,
		clientID: clientID,
		state:    Reduce(State{}, ReplaceAll{Items: items}),
		logger:   logger.With(zap.String("client_id", clientID)),
	}, nil
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies e, persists the result and returns the new state
func (s *Store) Dispatch(ctx context.Context, e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, e)
	if err := s.repo.Save(ctx, s.clientID, s.state.Items); err != nil {
		s.logger.Error("Failed to persist cart", zap.Error(err))
	}
	return s.state
}

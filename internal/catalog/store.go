package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"attar-store/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// UnavailableMessage is shown to shoppers while the catalog cannot be loaded
const UnavailableMessage = "We are updating our collection. Please check back shortly."

var ErrStoreClosed = errors.New("catalog store is closed")

// Status is the lifecycle state of the catalog
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// State is a snapshot of the catalog lifecycle for display
type State struct {
	Status   Status    `json:"status"`
	Message  string    `json:"message,omitempty"`
	Count    int       `json:"count"`
	LoadedAt time.Time `json:"loaded_at,omitempty"`
}

// DefaultLoadTimeout bounds a shared load once it no longer follows the caller's context
const DefaultLoadTimeout = 30 * time.Second

// StoreOption configures a Store
type StoreOption func(*Store)

// WithLoadTimeout overrides DefaultLoadTimeout
func WithLoadTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.timeout = d
	}
}

// Store holds the product list fetched from the remote catalog.
// Products are immutable once loaded; a reload swaps the whole list.
type Store struct {
	fetcher Fetcher
	logger  *zap.Logger
	group   singleflight.Group
	now     func() time.Time
	timeout time.Duration

	mu       sync.RWMutex
	products []domain.Product
	index    map[string]int
	status   Status
	message  string
	loadedAt time.Time
	closed   bool
}

// NewStore creates an empty store in the loading state
func NewStore(fetcher Fetcher, logger *zap.Logger, opts ...StoreOption) *Store {
	s := &Store{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
		timeout: DefaultLoadTimeout,
		index:   map[string]int{},
		status:  StatusLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the catalog once. Concurrent callers share the in-flight request,
// which keeps running when the caller that started it gives up.
// On failure the store enters the failed state; the previous products stay readable.
func (s *Store) Load(ctx context.Context) error {
	ch := s.group.DoChan("catalog", func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return nil, s.load(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("Joined in-flight catalog load")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reload is the manual retry after a failed load
func (s *Store) Reload(ctx context.Context) error {
	s.logger.Info("Reloading catalog")
	return s.Load(ctx)
}

func (s *Store) load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	s.status = StatusLoading
	s.message = ""
	s.mu.Unlock()

	started := s.now()
	products, err := s.fetcher.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Debug("Ignoring catalog response after close")
		return ErrStoreClosed
	}

	if err != nil {
		s.status = StatusFailed
		s.message = UnavailableMessage
		s.logger.Error("Failed to load catalog", zap.Error(err))
		return err
	}

	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}
	s.products = products
	s.index = index
	s.status = StatusReady
	s.loadedAt = s.now()

	s.logger.Info("Catalog loaded",
		zap.Int("products", len(products)),
		zap.Duration("duration", s.loadedAt.Sub(started)),
	)
	return nil
}

// Products returns the loaded products in catalog order
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// ByID looks up a product by identifier
func (s *Store) ByID(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// Status returns the current lifecycle state
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// State returns the current lifecycle snapshot
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{
		Status:   s.status,
		Message:  s.message,
		Count:    len(s.products),
		LoadedAt: s.loadedAt,
	}
}

// Close tears the store down; responses that arrive afterwards are discarded
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

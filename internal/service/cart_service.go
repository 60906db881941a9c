package service

import (
	"context"
	"fmt"

	"attar-store/internal/cart"
	"attar-store/internal/checkout"
	"attar-store/internal/domain"
	"attar-store/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartView is a cart snapshot with its derived totals
type CartView struct {
	Items []domain.LineItem `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

func newCartView(s cart.State) CartView {
	items := s.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return CartView{Items: items, Count: s.Count(), Total: s.Total()}
}

// CartService defines the interface for cart and checkout operations
type CartService interface {
	Get(ctx context.Context, clientID string) (CartView, error)
	AddItem(ctx context.Context, clientID, productID, size string, quantity int) (CartView, error)
	SetQuantity(ctx context.Context, clientID, key string, quantity int) (CartView, error)
	RemoveItem(ctx context.Context, clientID, key string) (CartView, error)
	Clear(ctx context.Context, clientID string) (CartView, error)
	Checkout(ctx context.Context, clientID string, details checkout.DeliveryDetails) (checkout.Handoff, error)
}

type cartService struct {
	carts   repository.CartRepository
	catalog CatalogService
	opts    checkout.Options
	logger  *zap.Logger
}

// NewCartService creates a new instance of CartService
func NewCartService(carts repository.CartRepository, catalog CatalogService, opts checkout.Options, logger *zap.Logger) CartService {
	return &cartService{
		carts:   carts,
		catalog: catalog,
		opts:    opts,
		logger:  logger,
	}
}

func (s *cartService) open(ctx context.Context, clientID string) (*cart.Store, error) {
	return cart.Open(ctx, s.carts, clientID, s.logger)
}

func (s *cartService) dispatch(ctx context.Context, clientID string, e cart.Event) (CartView, error) {
	store, err := s.open(ctx, clientID)
	if err != nil {
		return CartView{}, err
	}
	return newCartView(store.Dispatch(ctx, e)), nil
}

func (s *cartService) Get(ctx context.Context, clientID string) (CartView, error) {
	store, err := s.open(ctx, clientID)
	if err != nil {
		return CartView{}, err
	}
	return newCartView(store.State()), nil
}

// AddItem resolves the product and size against the catalog and adds the line.
// The client's custom image, if any, is what the line snapshots.
func (s *cartService) AddItem(ctx context.Context, clientID, productID, size string, quantity int) (CartView, error) {
	detail, err := s.catalog.GetProduct(ctx, clientID, productID)
	if err != nil {
		return CartView{}, err
	}

	variant, ok := detail.Product.VariantBySize(size)
	if !ok {
		return CartView{}, ErrVariantNotFound
	}

	return s.dispatch(ctx, clientID, cart.Add{Product: detail.Product, Variant: variant, Quantity: quantity})
}

func (s *cartService) SetQuantity(ctx context.Context, clientID, key string, quantity int) (CartView, error) {
	return s.dispatch(ctx, clientID, cart.SetQuantity{Key: key, Quantity: quantity})
}

func (s *cartService) RemoveItem(ctx context.Context, clientID, key string) (CartView, error) {
	return s.dispatch(ctx, clientID, cart.Remove{Key: key})
}

func (s *cartService) Clear(ctx context.Context, clientID string) (CartView, error) {
	return s.dispatch(ctx, clientID, cart.Clear{})
}

// Checkout composes the order message and clears the cart. Invalid details or
// an empty cart leave the cart untouched.
func (s *cartService) Checkout(ctx context.Context, clientID string, details checkout.DeliveryDetails) (checkout.Handoff, error) {
	store, err := s.open(ctx, clientID)
	if err != nil {
		return checkout.Handoff{}, err
	}

	state := store.State()
	handoff, err := checkout.Prepare(state.Items, state.Total(), details, s.opts)
	if err != nil {
		return checkout.Handoff{}, fmt.Errorf("failed to compose order: %w", err)
	}

	store.Dispatch(ctx, cart.Clear{})
	s.logger.Info("Order handed off",
		zap.String("client_id", clientID),
		zap.Int("items", state.Count()),
		zap.String("total", state.Total().StringFixed(2)),
	)
	return handoff, nil
}

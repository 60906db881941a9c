package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"attar-store/internal/browse"
	"attar-store/internal/catalog"
	"attar-store/internal/domain"
	"attar-store/internal/pricerange"
	"attar-store/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
	ErrInvalidImage    = errors.New("image reference is required")
)

// CatalogSource is the read side of the catalog store
type CatalogSource interface {
	Products() []domain.Product
	ByID(id string) (domain.Product, bool)
	State() catalog.State
	Reload(ctx context.Context) error
}

// ProductQuery describes one browse request. Nil bounds default to the derived price bounds.
type ProductQuery struct {
	Categories []string
	Min        *decimal.Decimal
	Max        *decimal.Decimal
	Notes      []string
	Sort       browse.SortOrder
	Page       int
}

// ProductDetail is a product together with its related products
type ProductDetail struct {
	Product domain.Product   `json:"product"`
	Related []domain.Product `json:"related"`
}

// CatalogService defines the interface for browsing the catalog
type CatalogService interface {
	State() catalog.State
	Reload(ctx context.Context) error
	ListProducts(ctx context.Context, clientID string, q ProductQuery) (browse.Result, error)
	CategoryProducts(ctx context.Context, clientID, category string, q ProductQuery) (browse.Result, error)
	GetProduct(ctx context.Context, clientID, id string) (ProductDetail, error)
	Search(ctx context.Context, clientID, query string, order browse.SortOrder) ([]domain.Product, error)
	Categories() []string
	Notes() []browse.NoteCount
	SetCustomImage(ctx context.Context, clientID, productID, image string) error
}

type catalogService struct {
	source CatalogSource
	images repository.ImageRepository
	logger *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(source CatalogSource, images repository.ImageRepository, logger *zap.Logger) CatalogService {
	return &catalogService{
		source: source,
		images: images,
		logger: logger,
	}
}

func (s *catalogService) State() catalog.State {
	return s.source.State()
}

func (s *catalogService) Reload(ctx context.Context) error {
	if err := s.source.Reload(ctx); err != nil {
		return fmt.Errorf("failed to reload catalog: %w", err)
	}
	return nil
}

// ListProducts filters, sorts and pages the whole catalog
func (s *catalogService) ListProducts(ctx context.Context, clientID string, q ProductQuery) (browse.Result, error) {
	products, err := s.products(ctx, clientID)
	if err != nil {
		return browse.Result{}, err
	}
	return runQuery(products, q), nil
}

// CategoryProducts browses a single category; price bounds come from that category alone
func (s *catalogService) CategoryProducts(ctx context.Context, clientID, category string, q ProductQuery) (browse.Result, error) {
	products, err := s.products(ctx, clientID)
	if err != nil {
		return browse.Result{}, err
	}
	q.Categories = nil
	return runQuery(browse.InCategory(products, category), q), nil
}

func (s *catalogService) GetProduct(ctx context.Context, clientID, id string) (ProductDetail, error) {
	products, err := s.products(ctx, clientID)
	if err != nil {
		return ProductDetail{}, err
	}

	for _, p := range products {
		if p.ID == id {
			return ProductDetail{
				Product: p,
				Related: browse.Related(products, p, browse.RelatedLimit),
			}, nil
		}
	}
	return ProductDetail{}, ErrProductNotFound
}

func (s *catalogService) Search(ctx context.Context, clientID, query string, order browse.SortOrder) ([]domain.Product, error) {
	products, err := s.products(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return browse.Sort(browse.Search(products, query), order), nil
}

func (s *catalogService) Categories() []string {
	return browse.Categories(s.source.Products())
}

func (s *catalogService) Notes() []browse.NoteCount {
	return browse.Notes(s.source.Products())
}

// SetCustomImage records a per-client image override for a product
func (s *catalogService) SetCustomImage(ctx context.Context, clientID, productID, image string) error {
	if _, ok := s.source.ByID(productID); !ok {
		return ErrProductNotFound
	}
	image = strings.TrimSpace(image)
	if image == "" {
		return ErrInvalidImage
	}

	if err := s.images.Set(ctx, clientID, productID, image); err != nil {
		return fmt.Errorf("failed to save custom image: %w", err)
	}
	s.logger.Info("Custom image set",
		zap.String("client_id", clientID),
		zap.String("product_id", productID),
	)
	return nil
}

// products returns the catalog with the client's image overrides applied
func (s *catalogService) products(ctx context.Context, clientID string) ([]domain.Product, error) {
	products := s.source.Products()
	if clientID == "" {
		return products, nil
	}

	overrides, err := s.images.Load(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom images: %w", err)
	}
	if len(overrides) == 0 {
		return products, nil
	}

	for i, p := range products {
		if image, ok := overrides[p.ID]; ok {
			products[i].ImageURL = image
		}
	}
	return products, nil
}

func runQuery(products []domain.Product, q ProductQuery) browse.Result {
	view := browse.NewView(products)

	view.SetFilters(browse.Filters{
		Categories: q.Categories,
		PriceRange: pricerange.Resolve(view.Bounds(), q.Min, q.Max),
		Notes:      q.Notes,
	})
	view.SetSort(q.Sort)
	view.SetPage(q.Page)
	return view.Result()
}

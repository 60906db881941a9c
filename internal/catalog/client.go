package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"attar-store/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrCatalogUnavailable = errors.New("catalog is unavailable")

// Fetcher loads the full product list from the remote source
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.Product, error)
}

type remoteVariant struct {
	Size  string          `json:"size"`
	Price json.RawMessage `json:"price"`
}

type remoteProduct struct {
	ID           string              `json:"_id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	ImageURL     string              `json:"imageUrl"`
	ScentProfile domain.ScentProfile `json:"scentProfile"`
	Variants     []remoteVariant     `json:"variants"`
	Categories   []string            `json:"categories"`
}

// Client fetches the catalog over HTTP
type Client struct {
	url        string
	httpClient *http.Client
	rules      []CategoryRule
	logger     *zap.Logger
}

// NewClient creates a catalog client for the given products endpoint
func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		rules:      DefaultRules,
		logger:     logger,
	}
}

// Fetch performs a single GET; it never retries
func (c *Client) Fetch(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	var raw []remoteProduct
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode products: %v", ErrCatalogUnavailable, err)
	}

	return c.mapProducts(raw), nil
}

func (c *Client) mapProducts(raw []remoteProduct) []domain.Product {
	products := make([]domain.Product, 0, len(raw))
	for _, rp := range raw {
		variants := make([]domain.Variant, 0, len(rp.Variants))
		for _, rv := range rp.Variants {
			price, err := parsePrice(rv.Price)
			if err != nil {
				c.logger.Warn("Skipping variant with invalid price",
					zap.String("product_id", rp.ID),
					zap.String("size", rv.Size),
					zap.Error(err),
				)
				continue
			}
			variants = append(variants, domain.Variant{Size: rv.Size, Price: price})
		}

		if rp.ID == "" || len(variants) == 0 {
			c.logger.Warn("Skipping product without id or variants",
				zap.String("product_id", rp.ID),
				zap.String("name", rp.Name),
			)
			continue
		}

		products = append(products, domain.Product{
			ID:           rp.ID,
			Name:         rp.Name,
			Description:  rp.Description,
			ImageURL:     NormalizeImageURL(rp.ImageURL),
			ScentProfile: rp.ScentProfile,
			Variants:     variants,
			Categories:   DeriveCategories(c.rules, rp.Name, rp.Categories),
		})
	}
	return products
}

// parsePrice accepts a JSON number or numeric string and rejects negative prices
func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if text == "" || text == "null" {
		return decimal.Zero, errors.New("missing price")
	}
	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %s", price)
	}
	return price, nil
}

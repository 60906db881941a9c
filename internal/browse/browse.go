// Package browse derives the visible product list from the catalog: filtering,
// sorting, pagination and the price bounds offered to the range control.
// Every function here is pure and safe for concurrent use.
package browse

import (
	"slices"
	"strings"

	"attar-store/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PageSize is the number of products on one page
const PageSize = 12

// SortOrder selects how a product list is ordered
type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
)

// ParseSortOrder maps a query value to a SortOrder; blank means SortDefault
func ParseSortOrder(raw string) (SortOrder, bool) {
	switch order := SortOrder(strings.TrimSpace(raw)); order {
	case "":
		return SortDefault, true
	case SortDefault, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return order, true
	default:
		return SortDefault, false
	}
}

var (
	fallbackMin = decimal.Zero
	fallbackMax = decimal.NewFromInt(1000)
	equalMargin = decimal.NewFromInt(500)
	minSpan     = decimal.NewFromInt(100)
)

// Filters narrows a product list. Categories match with OR semantics,
// notes with AND semantics; PriceRange applies to the canonical price.
type Filters struct {
	Categories []string          `json:"categories"`
	PriceRange domain.PriceRange `json:"price_range"`
	Notes      []string          `json:"notes"`
}

// Matches reports whether a single product passes every criterion
func (f Filters) Matches(p domain.Product) bool {
	if len(f.Categories) > 0 && !slices.ContainsFunc(f.Categories, p.HasCategory) {
		return false
	}
	if !f.PriceRange.Contains(p.BasePrice()) {
		return false
	}
	for _, note := range f.Notes {
		if !p.MatchesNote(note) {
			return false
		}
	}
	return true
}

// Filter returns the products that match f, preserving input order
func Filter(products []domain.Product, f Filters) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a stably ordered copy of products. SortDefault and unknown
// orders keep the input order.
func Sort(products []domain.Product, order SortOrder) []domain.Product {
	out := slices.Clone(products)
	if out == nil {
		out = []domain.Product{}
	}

	switch order {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return a.BasePrice().Cmp(b.BasePrice())
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return b.BasePrice().Cmp(a.BasePrice())
		})
	case SortNameAsc, SortNameDesc:
		// a Collator keeps internal buffers and must not be shared
		c := collate.New(language.English)
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			if order == SortNameDesc {
				return c.CompareString(b.Name, a.Name)
			}
			return c.CompareString(a.Name, b.Name)
		})
	}
	return out
}

// PageCount is the number of pages needed for n products, never less than 1
func PageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// ClampPage brings a zero-based page index into [0, pageCount-1]
func ClampPage(page, pageCount int) int {
	return max(0, min(page, max(pageCount, 1)-1))
}

// Page is one slice of a sorted result
type Page struct {
	Items      []domain.Product `json:"items"`
	Page       int              `json:"page"`
	PageCount  int              `json:"page_count"`
	TotalCount int              `json:"total_count"`
}

// Paginate clamps page and returns the corresponding slice of products
func Paginate(products []domain.Product, page int) Page {
	count := PageCount(len(products))
	page = ClampPage(page, count)

	start := min(page*PageSize, len(products))
	end := min(start+PageSize, len(products))

	items := make([]domain.Product, end-start)
	copy(items, products[start:end])

	return Page{
		Items:      items,
		Page:       page,
		PageCount:  count,
		TotalCount: len(products),
	}
}

// PriceBounds derives the selectable price interval from the canonical prices.
// An empty list yields [0, 1000]. Equal prices are widened by 500 on each side
// (floored at 0) and any span under 100 is stretched to exactly 100.
func PriceBounds(products []domain.Product) domain.PriceRange {
	if len(products) == 0 {
		return domain.PriceRange{Min: fallbackMin, Max: fallbackMax}
	}

	lo := products[0].BasePrice()
	hi := lo
	for _, p := range products[1:] {
		price := p.BasePrice()
		lo = decimal.Min(lo, price)
		hi = decimal.Max(hi, price)
	}

	if lo.Equal(hi) {
		lo = decimal.Max(decimal.Zero, lo.Sub(equalMargin))
		hi = hi.Add(equalMargin)
	}
	if hi.Sub(lo).LessThan(minSpan) {
		hi = lo.Add(minSpan)
	}

	return domain.PriceRange{Min: lo.Floor(), Max: hi.Ceil()}
}


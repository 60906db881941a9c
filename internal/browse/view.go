package browse

import (
	"slices"

	"attar-store/internal/domain"
)

// Result is what a browse view currently displays
type Result struct {
	Page
	Bounds  domain.PriceRange `json:"bounds"`
	Filters Filters           `json:"filters"`
	Sort    SortOrder         `json:"sort"`
}

// View owns the browse state of a single listing: products, derived bounds,
// active filters, sort order and page. It is not safe for concurrent use.
type View struct {
	products []domain.Product
	bounds   domain.PriceRange
	filters  Filters
	sort     SortOrder

	sorted []domain.Product
	page   int
}

// NewView starts a listing with no filters and the price range spanning the bounds
func NewView(products []domain.Product) *View {
	v := &View{sort: SortDefault}
	v.products = slices.Clone(products)
	v.bounds = PriceBounds(v.products)
	v.filters.PriceRange = v.bounds
	v.recompute()
	return v
}

// SetProducts replaces the listing. When the derived bounds move, the price
// filter snaps back to the new bounds and the page resets.
func (v *View) SetProducts(products []domain.Product) {
	v.products = slices.Clone(products)

	bounds := PriceBounds(v.products)
	if !bounds.Equal(v.bounds) {
		v.bounds = bounds
		v.filters.PriceRange = bounds
		v.page = 0
	}
	v.recompute()
}

// SetFilters applies new filters and returns to the first page
func (v *View) SetFilters(f Filters) {
	v.filters = Filters{
		Categories: slices.Clone(f.Categories),
		PriceRange: f.PriceRange,
		Notes:      slices.Clone(f.Notes),
	}
	v.page = 0
	v.recompute()
}

// SetSort changes the order and returns to the first page
func (v *View) SetSort(order SortOrder) {
	v.sort = order
	v.page = 0
	v.recompute()
}

// SetPage moves to page, clamped to the valid range
func (v *View) SetPage(page int) {
	v.page = ClampPage(page, PageCount(len(v.sorted)))
}

// Next advances one page, stopping at the last
func (v *View) Next() {
	v.SetPage(v.page + 1)
}

// Prev goes back one page, stopping at the first
func (v *View) Prev() {
	v.SetPage(v.page - 1)
}

func (v *View) Bounds() domain.PriceRange { return v.bounds }

func (v *View) Filters() Filters { return v.filters }

func (v *View) Sort() SortOrder { return v.sort }

func (v *View) CurrentPage() int { return v.page }

// Result returns the current page together with the state that produced it
func (v *View) Result() Result {
	return Result{
		Page:    Paginate(v.sorted, v.page),
		Bounds:  v.bounds,
		Filters: v.filters,
		Sort:    v.sort,
	}
}

func (v *View) recompute() {
	v.sorted = Sort(Filter(v.products, v.filters), v.sort)
	v.page = ClampPage(v.page, PageCount(len(v.sorted)))
}

package browse

import (
	"fmt"
	"testing"

	"attar-store/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testCategories = []string{"Best Sellers", "Floral & Fresh", "Woody & Musk"}
	testNotes      = []string{"Rose", "Oud", "Musk", "Citrus", "Amber"}
	testNames      = []string{"Amber", "oud", "Rose", "Éclat", "musk", "Zafran"}
)

func product(id string, price int64, categories ...string) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       "Product " + id,
		Variants:   []domain.Variant{{Size: "6ml", Price: decimal.NewFromInt(price)}},
		Categories: categories,
	}
}

// catalogFromPrices builds a deterministic catalog whose shape depends only on the prices
func catalogFromPrices(prices []int) []domain.Product {
	products := make([]domain.Product, len(prices))
	for i, price := range prices {
		products[i] = domain.Product{
			ID:   fmt.Sprintf("p%d", i),
			Name: testNames[(i+price)%len(testNames)],
			ScentProfile: domain.ScentProfile{
				Top:   testNotes[i%len(testNotes)],
				Heart: testNotes[price%len(testNotes)],
				Base:  "Musk",
			},
			Variants:   []domain.Variant{{Size: "6ml", Price: decimal.NewFromInt(int64(price))}},
			Categories: []string{testCategories[price%len(testCategories)]},
		}
	}
	return products
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func genFilters() gopter.Gen {
	return gopter.CombineGens(
		gen.SliceOf(gen.OneConstOf(testCategories[0], testCategories[1], testCategories[2])),
		gen.IntRange(0, 1000),
		gen.IntRange(0, 1000),
		gen.SliceOf(gen.OneConstOf("rose", "OUD", "musk", "amber")),
	).Map(func(values []interface{}) Filters {
		lo, hi := values[1].(int), values[2].(int)
		if lo > hi {
			lo, hi = hi, lo
		}
		return Filters{
			Categories: values[0].([]string),
			PriceRange: domain.PriceRange{Min: decimal.NewFromInt(int64(lo)), Max: decimal.NewFromInt(int64(hi))},
			Notes:      values[3].([]string),
		}
	})
}

// Property: filtering yields an order-preserving subset and is idempotent
func TestProperty_FilterIsIdempotentSubset(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("filtered set is a subsequence of the input and filtering twice changes nothing", prop.ForAll(
		func(prices []int, f Filters) bool {
			products := catalogFromPrices(prices)
			once := Filter(products, f)
			twice := Filter(once, f)

			if !cmp.Equal(ids(once), ids(twice)) {
				t.Logf("FAIL: filter not idempotent: %v vs %v", ids(once), ids(twice))
				return false
			}

			// subsequence check
			j := 0
			for _, p := range products {
				if j < len(once) && once[j].ID == p.ID {
					j++
				}
			}
			return j == len(once)
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
		genFilters(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: sorting is stable and sorting a sorted list again changes nothing
func TestProperty_SortIsStableAndIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sort by the same order twice keeps the element order", prop.ForAll(
		func(prices []int, order SortOrder) bool {
			products := catalogFromPrices(prices)
			once := Sort(products, order)
			twice := Sort(once, order)

			if len(once) != len(products) {
				return false
			}
			return cmp.Equal(ids(once), ids(twice))
		},
		gen.SliceOf(gen.IntRange(0, 50)),
		gen.OneConstOf(SortDefault, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc),
	))

	properties.Property("equal prices keep their input order", prop.ForAll(
		func(prices []int) bool {
			products := catalogFromPrices(prices)
			sorted := Sort(products, SortPriceAsc)

			for i := 1; i < len(sorted); i++ {
				a, b := sorted[i-1], sorted[i]
				if a.BasePrice().GreaterThan(b.BasePrice()) {
					return false
				}
				if a.BasePrice().Equal(b.BasePrice()) && indexOf(products, a.ID) > indexOf(products, b.ID) {
					t.Logf("FAIL: %s moved ahead of %s", b.ID, a.ID)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func indexOf(products []domain.Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Property: page count follows ceil(n/12) with a minimum of one, and pages are always clamped
func TestProperty_PaginationBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("page count and clamped page stay in range", prop.ForAll(
		func(n int, requested int) bool {
			count := PageCount(n)
			if n == 0 && count != 1 {
				return false
			}
			if n > 0 && count != (n+11)/12 {
				return false
			}

			page := ClampPage(requested, count)
			return page >= 0 && page <= count-1
		},
		gen.IntRange(0, 500),
		gen.IntRange(-20, 60),
	))

	properties.Property("paginate returns at most one page of items", prop.ForAll(
		func(n int, requested int) bool {
			products := catalogFromPrices(make([]int, n))
			page := Paginate(products, requested)
			if len(page.Items) > PageSize || page.TotalCount != n {
				return false
			}
			if page.Page < page.PageCount-1 && len(page.Items) != PageSize {
				return false
			}
			return page.Page == ClampPage(requested, page.PageCount)
		},
		gen.IntRange(0, 60),
		gen.IntRange(-5, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: a catalog with a single price P yields [max(0, P-500), P+500]
func TestProperty_PriceBoundsForUniformPrice(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("uniform price widens by 500 each side", prop.ForAll(
		func(price int, n int) bool {
			prices := make([]int, n)
			for i := range prices {
				prices[i] = price
			}
			bounds := PriceBounds(catalogFromPrices(prices))

			wantMin := max(0, price-500)
			return bounds.Min.Equal(decimal.NewFromInt(int64(wantMin))) &&
				bounds.Max.Equal(decimal.NewFromInt(int64(price+500)))
		},
		gen.IntRange(0, 5000),
		gen.IntRange(1, 10),
	))

	properties.Property("span is never under 100", prop.ForAll(
		func(prices []int) bool {
			bounds := PriceBounds(catalogFromPrices(prices))
			return bounds.Max.Sub(bounds.Min).GreaterThanOrEqual(decimal.NewFromInt(100))
		},
		gen.SliceOf(gen.IntRange(0, 3000)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPriceBounds(t *testing.T) {
	tests := []struct {
		name    string
		prices  []string
		wantMin int64
		wantMax int64
	}{
		{name: "empty catalog", wantMin: 0, wantMax: 1000},
		{name: "two equal prices", prices: []string{"100", "100"}, wantMin: 0, wantMax: 600},
		{name: "narrow span stretched", prices: []string{"200", "250"}, wantMin: 200, wantMax: 300},
		{name: "fractions floored and ceiled", prices: []string{"99.5", "450.25"}, wantMin: 99, wantMax: 451},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var products []domain.Product
			for i, raw := range tt.prices {
				products = append(products, domain.Product{
					ID:       fmt.Sprint(i),
					Variants: []domain.Variant{{Size: "6ml", Price: decimal.RequireFromString(raw)}},
				})
			}

			bounds := PriceBounds(products)
			assert.True(t, bounds.Min.Equal(decimal.NewFromInt(tt.wantMin)), "min = %s", bounds.Min)
			assert.True(t, bounds.Max.Equal(decimal.NewFromInt(tt.wantMax)), "max = %s", bounds.Max)
		})
	}
}

func TestFilterByNotes(t *testing.T) {
	rose := domain.Product{
		ID:           "rose",
		ScentProfile: domain.ScentProfile{Top: "Citrus", Heart: "Rose", Base: "Musk"},
		Variants:     []domain.Variant{{Size: "6ml", Price: decimal.NewFromInt(100)}},
	}
	jasmine := domain.Product{
		ID:           "jasmine",
		ScentProfile: domain.ScentProfile{Top: "Citrus", Heart: "Jasmine", Base: "Musk"},
		Variants:     []domain.Variant{{Size: "6ml", Price: decimal.NewFromInt(100)}},
	}
	all := domain.PriceRange{Min: decimal.Zero, Max: decimal.NewFromInt(1000)}

	got := Filter([]domain.Product{rose, jasmine}, Filters{PriceRange: all, Notes: []string{"rose"}})
	assert.Equal(t, []string{"rose"}, ids(got))

	got = Filter([]domain.Product{rose, jasmine}, Filters{PriceRange: all, Notes: []string{"citrus", "MUSK"}})
	assert.Equal(t, []string{"rose", "jasmine"}, ids(got))

	got = Filter([]domain.Product{rose, jasmine}, Filters{PriceRange: all, Notes: []string{"citrus", "oud"}})
	assert.Empty(t, got)
}

func TestFilterCategoriesAndPrice(t *testing.T) {
	products := []domain.Product{
		product("a", 100, "Best Sellers"),
		product("b", 300, "Woody & Musk"),
		product("c", 500, "Floral & Fresh", "Best Sellers"),
	}

	got := Filter(products, Filters{
		Categories: []string{"Woody & Musk", "Floral & Fresh"},
		PriceRange: domain.PriceRange{Min: decimal.Zero, Max: decimal.NewFromInt(1000)},
	})
	assert.Equal(t, []string{"b", "c"}, ids(got))

	got = Filter(products, Filters{
		PriceRange: domain.PriceRange{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(300)},
	})
	assert.Equal(t, []string{"a", "b"}, ids(got))
}

func TestSortOrders(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "oud royale", Variants: []domain.Variant{{Price: decimal.NewFromInt(300)}}},
		{ID: "2", Name: "Amber", Variants: []domain.Variant{{Price: decimal.NewFromInt(100)}}},
		{ID: "3", Name: "Éclat", Variants: []domain.Variant{{Price: decimal.NewFromInt(200)}}},
		{ID: "4", Name: "Zafran", Variants: []domain.Variant{{Price: decimal.NewFromInt(100)}}},
	}

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(Sort(products, SortDefault)))
	assert.Equal(t, []string{"2", "4", "3", "1"}, ids(Sort(products, SortPriceAsc)))
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(Sort(products, SortPriceDesc)))
	assert.Equal(t, []string{"2", "3", "1", "4"}, ids(Sort(products, SortNameAsc)))
	assert.Equal(t, []string{"4", "1", "3", "2"}, ids(Sort(products, SortNameDesc)))

	// input is left untouched
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(products))
}

func TestParseSortOrder(t *testing.T) {
	order, ok := ParseSortOrder("")
	assert.True(t, ok)
	assert.Equal(t, SortDefault, order)

	order, ok = ParseSortOrder("name-desc")
	assert.True(t, ok)
	assert.Equal(t, SortNameDesc, order)

	_, ok = ParseSortOrder("popularity")
	assert.False(t, ok)
}

func TestPaginateClampsPastTheEnd(t *testing.T) {
	products := catalogFromPrices(make([]int, 25))

	page := Paginate(products, 5)
	assert.Equal(t, 3, page.PageCount)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, "p24", page.Items[0].ID)

	empty := Paginate(nil, 3)
	assert.Equal(t, 1, empty.PageCount)
	assert.Equal(t, 0, empty.Page)
	assert.Empty(t, empty.Items)
}

func TestViewResetsPageOnFilterAndSortChange(t *testing.T) {
	view := NewView(catalogFromPrices(make([]int, 30)))
	require.Equal(t, 3, view.Result().PageCount)

	view.Next()
	view.Next()
	view.Next()
	assert.Equal(t, 2, view.CurrentPage())

	view.Prev()
	assert.Equal(t, 1, view.CurrentPage())

	view.SetSort(SortNameAsc)
	assert.Equal(t, 0, view.CurrentPage())

	view.SetPage(2)
	f := view.Filters()
	f.Notes = []string{"musk"}
	view.SetFilters(f)
	assert.Equal(t, 0, view.CurrentPage())

	view.Prev()
	assert.Equal(t, 0, view.CurrentPage())
}

func TestViewSnapsPriceRangeWhenBoundsMove(t *testing.T) {
	view := NewView([]domain.Product{product("a", 100), product("b", 900)})
	bounds := view.Bounds()
	assert.True(t, bounds.Min.Equal(decimal.NewFromInt(100)))
	assert.True(t, bounds.Max.Equal(decimal.NewFromInt(900)))
	assert.True(t, view.Filters().PriceRange.Equal(bounds))

	f := view.Filters()
	f.PriceRange = domain.PriceRange{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(200)}
	view.SetFilters(f)
	assert.Equal(t, 1, view.Result().TotalCount)

	// same bounds: the narrowed range survives
	view.SetProducts([]domain.Product{product("a", 100), product("c", 150), product("b", 900)})
	assert.Equal(t, 2, view.Result().TotalCount)

	// new bounds: the range snaps back
	view.SetProducts([]domain.Product{product("a", 100), product("d", 1500)})
	assert.True(t, view.Filters().PriceRange.Equal(view.Bounds()))
	assert.Equal(t, 2, view.Result().TotalCount)
}

func TestViewClampsPageWhenProductsShrink(t *testing.T) {
	products := catalogFromPrices(make([]int, 30))
	view := NewView(products)
	view.SetPage(2)
	require.Equal(t, 2, view.CurrentPage())

	// same uniform price keeps the bounds, so only the clamp applies
	view.SetProducts(products[:13])
	assert.Equal(t, 1, view.CurrentPage())
	assert.Equal(t, 2, view.Result().PageCount)
}

func TestSearch(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "Rose Oud", Description: "deep"},
		{ID: "2", Name: "Blue", Description: "A fresh ROSE accord"},
		{ID: "3", Name: "Night", ScentProfile: domain.ScentProfile{Base: "Rosewood"}},
		{ID: "4", Name: "Vanilla"},
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(Search(products, "rose")))
	assert.Empty(t, Search(products, ""))
	assert.Empty(t, Search(products, "saffron"))
}

func TestRelated(t *testing.T) {
	products := []domain.Product{
		product("a", 100, "Oud"),
		product("b", 100, "Oud", "Rose"),
		product("c", 100, "Rose"),
		product("d", 100, "Musk"),
		product("e", 100, "Oud"),
		product("f", 100, "Oud"),
		product("g", 100, "Rose"),
	}

	got := Related(products, products[1], RelatedLimit)
	assert.Equal(t, []string{"a", "c", "e", "f"}, ids(got))

	assert.Empty(t, Related(products, product("x", 100), RelatedLimit))
}

func TestCategoriesAndInCategory(t *testing.T) {
	products := []domain.Product{
		product("a", 100, "Woody & Musk", "Best Sellers"),
		product("b", 100, "Best Sellers"),
		product("c", 100),
	}

	assert.Equal(t, []string{"Best Sellers", "Woody & Musk"}, Categories(products))
	assert.Equal(t, []string{"a", "b"}, ids(InCategory(products, "Best Sellers")))
	assert.Empty(t, InCategory(products, "Gourmand & Spicy"))
}

func TestNotesRankedByFrequency(t *testing.T) {
	products := []domain.Product{
		{ScentProfile: domain.ScentProfile{Top: "Bergamot, Lemon", Heart: "Rose", Base: "Musk"}},
		{ScentProfile: domain.ScentProfile{Top: "Lemon", Heart: "", Base: "Musk"}},
		{ScentProfile: domain.ScentProfile{Top: "Saffron", Heart: "Rose", Base: "Musk"}},
	}

	want := []NoteCount{
		{Note: "Musk", Count: 3},
		{Note: "Lemon", Count: 2},
		{Note: "Rose", Count: 2},
		{Note: "Bergamot", Count: 1},
		{Note: "Saffron", Count: 1},
	}
	if diff := cmp.Diff(want, Notes(products)); diff != "" {
		t.Errorf("Notes() mismatch (-want +got):\n%s", diff)
	}
}

package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Variant is a purchasable size of a product
type Variant struct {
	Size  string          `json:"size"`
	Price decimal.Decimal `json:"price"`
}

// ScentProfile holds the free-text top, heart and base notes of a fragrance
type ScentProfile struct {
	Top   string `json:"top"`
	Heart string `json:"heart"`
	Base  string `json:"base"`
}

// Text joins the three note fields the way they are matched and displayed
func (s ScentProfile) Text() string {
	return s.Top + ", " + s.Heart + ", " + s.Base
}

// Product represents a product in the catalog.
// Variants always holds at least one entry; the first one is the canonical price.
type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	ImageURL     string       `json:"image_url"`
	ScentProfile ScentProfile `json:"scent_profile"`
	Variants     []Variant    `json:"variants"`
	Categories   []string     `json:"categories"`
}

// BasePrice returns the price of the first variant
func (p Product) BasePrice() decimal.Decimal {
	if len(p.Variants) == 0 {
		return decimal.Zero
	}
	return p.Variants[0].Price
}

// VariantBySize looks up a variant by its size label
func (p Product) VariantBySize(size string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Size == size {
			return v, true
		}
	}
	return Variant{}, false
}

// HasCategory reports whether the product carries the category tag
func (p Product) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// MatchesNote reports whether note is a case-insensitive substring of the scent profile
func (p Product) MatchesNote(note string) bool {
	return strings.Contains(strings.ToLower(p.ScentProfile.Text()), strings.ToLower(note))
}

// PriceRange is an inclusive [Min, Max] price interval
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Contains reports whether price lies within the inclusive range
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

// Equal compares two ranges numerically
func (r PriceRange) Equal(other PriceRange) bool {
	return r.Min.Equal(other.Min) && r.Max.Equal(other.Max)
}

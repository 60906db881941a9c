// Package cart models the shopping cart as a pure reducer over events plus a
// store that rehydrates from and persists to client storage.
package cart

import (
	"slices"

	"attar-store/internal/domain"

	"github.com/shopspring/decimal"
)

// Event is a cart transition. The set of events is closed.
type Event interface {
	apply(State) State
}

// Add puts Quantity units of a product variant in the cart. An existing line
// with the same key accumulates; a new line snapshots name, image and price.
type Add struct {
	Product  domain.Product
	Variant  domain.Variant
	Quantity int
}

// Remove deletes a line unconditionally
type Remove struct {
	Key string
}

// SetQuantity sets an absolute quantity; zero or less removes the line
type SetQuantity struct {
	Key      string
	Quantity int
}

// ReplaceAll swaps the whole line list, used for rehydration
type ReplaceAll struct {
	Items []domain.LineItem
}

// Clear empties the cart
type Clear struct{}

// State is an immutable cart snapshot
type State struct {
	Items []domain.LineItem `json:"items"`
}

// Reduce applies e to s and returns the next state; s is not modified
func Reduce(s State, e Event) State {
	if e == nil {
		return s
	}
	return e.apply(s)
}

// Count is the total number of units across all lines
func (s State) Count() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// Total is the sum of line subtotals
func (s State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Item looks up a line by key
func (s State) Item(key string) (domain.LineItem, bool) {
	i := s.index(key)
	if i < 0 {
		return domain.LineItem{}, false
	}
	return s.Items[i], true
}

// IsEmpty reports whether the cart has no lines
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s State) index(key string) int {
	return slices.IndexFunc(s.Items, func(item domain.LineItem) bool {
		return item.Key == key
	})
}

func (e Add) apply(s State) State {
	if e.Quantity < 1 {
		return s
	}

	key := domain.LineKey(e.Product.ID, e.Variant.Size)
	items := slices.Clone(s.Items)
	if i := s.index(key); i >= 0 {
		items[i].Quantity += e.Quantity
		return State{Items: items}
	}

	items = append(items, domain.LineItem{
		Key:       key,
		ProductID: e.Product.ID,
		Name:      e.Product.Name,
		ImageURL:  e.Product.ImageURL,
		Size:      e.Variant.Size,
		Price:     e.Variant.Price,
		Quantity:  e.Quantity,
	})
	return State{Items: items}
}

func (e Remove) apply(s State) State {
	items := slices.DeleteFunc(slices.Clone(s.Items), func(item domain.LineItem) bool {
		return item.Key == e.Key
	})
	return State{Items: items}
}

func (e SetQuantity) apply(s State) State {
	if e.Quantity <= 0 {
		return Remove{Key: e.Key}.apply(s)
	}

	i := s.index(e.Key)
	if i < 0 {
		return s
	}
	items := slices.Clone(s.Items)
	items[i].Quantity = e.Quantity
	return State{Items: items}
}

func (e ReplaceAll) apply(State) State {
	items := make([]domain.LineItem, 0, len(e.Items))
	seen := make(map[string]int, len(e.Items))
	for _, item := range e.Items {
		if item.Quantity <= 0 || item.Key == "" {
			continue
		}
		if i, ok := seen[item.Key]; ok {
			items[i].Quantity += item.Quantity
			continue
		}
		seen[item.Key] = len(items)
		items = append(items, item)
	}
	return State{Items: items}
}

func (Clear) apply(State) State {
	return State{Items: []domain.LineItem{}}
}

package browse

import (
	"slices"
	"strings"

	"attar-store/internal/domain"
)

// RelatedLimit is how many related products a product page shows
const RelatedLimit = 4

// Search matches query case-insensitively against the name, description and
// scent notes. An empty query matches nothing.
func Search(products []domain.Product, query string) []domain.Product {
	out := []domain.Product{}
	if query == "" {
		return out
	}

	q := strings.ToLower(query)
	for _, p := range products {
		fields := []string{p.Name, p.Description, p.ScentProfile.Top, p.ScentProfile.Heart, p.ScentProfile.Base}
		if slices.ContainsFunc(fields, func(f string) bool {
			return strings.Contains(strings.ToLower(f), q)
		}) {
			out = append(out, p)
		}
	}
	return out
}

// Related returns up to limit other products sharing at least one category, in catalog order
func Related(products []domain.Product, product domain.Product, limit int) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if len(out) >= limit {
			break
		}
		if p.ID == product.ID {
			continue
		}
		if slices.ContainsFunc(product.Categories, p.HasCategory) {
			out = append(out, p)
		}
	}
	return out
}

// InCategory returns the products tagged with category
func InCategory(products []domain.Product, category string) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if p.HasCategory(category) {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists every category tag once, sorted
func Categories(products []domain.Product) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, p := range products {
		for _, c := range p.Categories {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	}
	slices.Sort(out)
	return out
}

// NoteCount is a scent note and how many products mention it
type NoteCount struct {
	Note  string `json:"note"`
	Count int    `json:"count"`
}

// Notes splits every scent profile on commas and ranks the notes by how often
// they occur. Ties keep the order of first appearance.
func Notes(products []domain.Product) []NoteCount {
	index := map[string]int{}
	out := []NoteCount{}
	for _, p := range products {
		for _, raw := range strings.Split(p.ScentProfile.Text(), ",") {
			note := strings.TrimSpace(raw)
			if note == "" {
				continue
			}
			if i, ok := index[note]; ok {
				out[i].Count++
				continue
			}
			index[note] = len(out)
			out = append(out, NoteCount{Note: note, Count: 1})
		}
	}

	slices.SortStableFunc(out, func(a, b NoteCount) int {
		return b.Count - a.Count
	})
	return out
}

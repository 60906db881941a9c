package catalog

import "strings"

// CategoryRule assigns Category to any product whose name contains one of Keywords
type CategoryRule struct {
	Category string
	Keywords []string
}

// DefaultRules is the keyword table used to tag products by name
var DefaultRules = []CategoryRule{
	{
		Category: "Best Sellers",
		Keywords: []string{"cool water", "one million", "poison", "hugo", "tom ford", "savage", "imperial"},
	},
	{
		Category: "Floral & Fresh",
		Keywords: []string{"cool water", "satin", "sabaya", "rose", "jasmine", "jasmin", "lovely", "lavender", "dove", "brute", "charlie", "titan"},
	},
	{
		Category: "Woody & Musk",
		Keywords: []string{"rolex", "jawad", "sandal", "majuma", "musk", "aseel", "dunhill", "oud", "afc", "nabeel"},
	},
	{
		Category: "Gourmand & Spicy",
		Keywords: []string{"barbary", "million", "ultra male", "shanaya", "chocolate", "biscuit", "vanilla", "vennila", "strawberry", "magnet", "desire"},
	},
}

// DeriveCategories returns existing followed by every rule category whose keywords
// match name case-insensitively. Each category appears once.
func DeriveCategories(rules []CategoryRule, name string, existing []string) []string {
	out := make([]string, 0, len(existing)+len(rules))
	seen := make(map[string]struct{}, len(existing)+len(rules))
	add := func(c string) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	for _, c := range existing {
		add(c)
	}

	lower := strings.ToLower(name)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				add(rule.Category)
				break
			}
		}
	}
	return out
}

const (
	uploadSegment    = "/upload/"
	optimizedSegment = "/upload/q_auto:good,f_auto/"
)

// NormalizeImageURL asks the image CDN for automatic format and quality
func NormalizeImageURL(raw string) string {
	if raw == "" || strings.Contains(raw, optimizedSegment) {
		return raw
	}
	return strings.Replace(raw, uploadSegment, optimizedSegment, 1)
}

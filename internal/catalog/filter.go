package catalog

import (
	"strconv"
	"strings"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/shopspring/decimal"
)

// Filter criteria are ANDed; empty fields impose no constraint.
type Filter struct {
	Query    string
	Category string
	MaxPrice string
	Color    string
	Size     string
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Apply returns the products matching every supplied criterion, in input order.
func Apply(products []domain.Product, f Filter) []domain.Product {
	q := strings.ToLower(f.Query)
	category := strings.ToLower(f.Category)
	color := strings.ToLower(f.Color)

	// a max price that is not an integer is ignored
	var (
		maxPrice    decimal.Decimal
		hasMaxPrice bool
	)
	if f.MaxPrice != "" {
		if n, err := strconv.ParseInt(strings.TrimSpace(f.MaxPrice), 10, 64); err == nil {
			maxPrice, hasMaxPrice = decimal.NewFromInt(n), true
		}
	}

	result := []domain.Product{}
	for _, p := range products {
		if category != "" && !strings.Contains(strings.ToLower(p.Category), category) {
			continue
		}
		if hasMaxPrice && p.Price.Amount.GreaterThan(maxPrice) {
			continue
		}
		if color != "" && color != strings.ToLower(p.Color) {
			continue
		}
		if f.Size != "" && (!p.Sized() || !p.HasSize(f.Size)) {
			continue
		}
		if q != "" && !matchesQuery(p, q) {
			continue
		}
		result = append(result, p)
	}

	return result
}

func matchesQuery(p domain.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}

func (s *Store) List(f Filter) []domain.Product {
	return Apply(s.Products(), f)
}

var categorySynonyms = map[string]string{
	"tee":      "tshirt",
	"tees":     "tshirt",
	"tshirt":   "tshirt",
	"t-shirts": "tshirt",
	"glove":    "gloves",
	"gloves":   "gloves",
}

// NormalizeCategory maps spoken category variants onto catalog categories.
func NormalizeCategory(category string) string {
	if c, ok := categorySynonyms[strings.ToLower(strings.TrimSpace(category))]; ok {
		return c
	}
	return category
}

// Search is the browse entry point. A query that is itself a category synonym
// is searched both as free text and as the category, results merged by id.
func (s *Store) Search(f Filter) []domain.Product {
	if f.Category != "" {
		f.Category = NormalizeCategory(f.Category)
	}

	if f.Query == "" {
		return s.List(f)
	}

	normalized, ok := categorySynonyms[strings.ToLower(strings.TrimSpace(f.Query))]
	if !ok {
		return s.List(f)
	}

	byQuery := s.List(Filter{Query: f.Query, MaxPrice: f.MaxPrice, Color: f.Color, Size: f.Size})
	byCategory := s.List(Filter{Category: normalized, MaxPrice: f.MaxPrice, Color: f.Color, Size: f.Size})

	return mergeByID(byQuery, byCategory)
}

func mergeByID(lists ...[]domain.Product) []domain.Product {
	seen := make(map[string]bool)
	merged := []domain.Product{}

	for _, list := range lists {
		for _, p := range list {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			merged = append(merged, p)
		}
	}

	return merged
}

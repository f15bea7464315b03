// Package catalog holds the read-only product table together with the
// filtering and free-text reference resolution that tools run against it.
package catalog

import (
	"fmt"
	"slices"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"golang.org/x/text/currency"
)

// Store is an immutable, ordered product table.
type Store struct {
	products []domain.Product
	byID     map[string]int
}

func New(products []domain.Product) (*Store, error) {
	s := &Store{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}

	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product id is empty")
		}
		if _, ok := s.byID[p.ID]; ok {
			return nil, fmt.Errorf("product id[%s] is duplicated", p.ID)
		}

		p.Sizes = slices.Clone(p.Sizes)
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}

	return s, nil
}

// Products returns a copy of the catalog in declaration order.
func (s *Store) Products() []domain.Product {
	out := make([]domain.Product, len(s.products))
	for i, p := range s.products {
		p.Sizes = slices.Clone(p.Sizes)
		out[i] = p
	}
	return out
}

func (s *Store) Get(id string) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	p := s.products[i]
	p.Sizes = slices.Clone(p.Sizes)
	return p, true
}

func (s *Store) Len() int {
	return len(s.products)
}

// Currency is the currency of the first product, used for cart totals and orders.
func (s *Store) Currency() currency.Unit {
	if len(s.products) == 0 {
		return currency.INR
	}
	return s.products[0].Price.Currency
}

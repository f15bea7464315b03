package service

import (
	"fmt"

	"github.com/nikolayk812/voiceshop/internal/catalog"
	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/shopspring/decimal"
)

// CartLine is a cart item priced against the current catalog.
type CartLine struct {
	Product   domain.Product
	Quantity  int
	Size      string
	LineTotal domain.Money
}

type CartView struct {
	Lines []CartLine
	Total domain.Money
}

func (v CartView) IsEmpty() bool {
	return len(v.Lines) == 0
}

// Browse lists catalog products for the given filter.
func (s *Shop) Browse(f catalog.Filter) []domain.Product {
	if f.IsZero() {
		return s.catalog.Products()
	}
	return s.catalog.Search(f)
}

// AddToCart resolves ref against the whole catalog and appends a new cart line.
// Adding the same product twice yields two lines.
func (s *Shop) AddToCart(session *domain.Session, ref string, quantity int, size string) (domain.Product, error) {
	if quantity < 1 {
		return domain.Product{}, fmt.Errorf("%w: quantity[%d] must be positive", domain.ErrValidation, quantity)
	}

	product, ok := s.catalog.Resolve(ref)
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: product reference[%s]", domain.ErrNotFound, ref)
	}

	attrs := map[string]string{}
	if size != "" {
		attrs[domain.AttrSize] = size
	}

	now := s.now().UTC()
	session.PendingOrderID = ""
	session.Cart.OwnerID = session.ID
	session.Cart.Add(domain.CartItem{
		ProductID: product.ID,
		Quantity:  quantity,
		Attrs:     attrs,
		CreatedAt: now,
	})
	session.Record(domain.Event{
		Time:      now,
		Action:    domain.ActionAddToCart,
		ProductID: product.ID,
		Quantity:  quantity,
	})

	return product, nil
}

// Suggest is the fallback after a failed AddToCart: products matching ref as
// free text, or failing that as a category.
func (s *Shop) Suggest(ref string) []domain.Product {
	if found := s.catalog.List(catalog.Filter{Query: ref}); len(found) > 0 {
		return found
	}
	return s.catalog.List(catalog.Filter{Category: ref})
}

// CartView prices the cart. Lines whose product left the catalog are skipped.
func (s *Shop) CartView(session *domain.Session) CartView {
	view := CartView{
		Total: domain.Money{Amount: decimal.Zero, Currency: s.catalog.Currency()},
	}

	for _, item := range session.Cart.Items {
		p, ok := s.catalog.Get(item.ProductID)
		if !ok {
			continue
		}

		lineTotal := p.Price.Times(item.Quantity)
		view.Total.Amount = view.Total.Amount.Add(lineTotal.Amount)
		view.Lines = append(view.Lines, CartLine{
			Product:   p,
			Quantity:  item.Quantity,
			Size:      item.Size(),
			LineTotal: lineTotal,
		})
	}

	return view
}

// ClearCart empties the cart. Clearing an empty cart is fine.
func (s *Shop) ClearCart(session *domain.Session) {
	session.Cart.Clear()
	session.PendingOrderID = ""
	session.Record(domain.Event{
		Time:   s.now().UTC(),
		Action: domain.ActionClearCart,
	})
}

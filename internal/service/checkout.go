package service

import (
	"context"
	"fmt"
	"maps"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// CreateOrder prices the items against the catalog and appends the order to
// the ledger. An unknown product aborts before anything is written.
func (s *Shop) CreateOrder(ctx context.Context, items []domain.CartItem, cur currency.Unit) (domain.Order, error) {
	return s.createOrder(ctx, s.orderID(), items, cur)
}

func (s *Shop) createOrder(ctx context.Context, orderID string, items []domain.CartItem, cur currency.Unit) (domain.Order, error) {
	if len(items) == 0 {
		return domain.Order{}, fmt.Errorf("%w: no items to order", domain.ErrValidation)
	}

	lines := make([]domain.OrderLine, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		p, ok := s.catalog.Get(item.ProductID)
		if !ok {
			return domain.Order{}, fmt.Errorf("%w: product[%s] not found", domain.ErrValidation, item.ProductID)
		}
		if item.Quantity < 1 {
			return domain.Order{}, fmt.Errorf("%w: quantity[%d] of product[%s] must be positive", domain.ErrValidation, item.Quantity, item.ProductID)
		}

		lineTotal := p.Price.Times(item.Quantity).Amount
		total = total.Add(lineTotal)

		attrs := maps.Clone(item.Attrs)
		if attrs == nil {
			attrs = map[string]string{}
		}

		lines = append(lines, domain.OrderLine{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price.Amount,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
			Attrs:     attrs,
		})
	}

	order := domain.Order{
		ID:        orderID,
		Items:     lines,
		Total:     total,
		Currency:  cur,
		CreatedAt: s.now().UTC(),
	}

	if err := s.ledger.Append(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("ledger.Append: %w", err)
	}

	return order, nil
}

// PlaceOrder checks out the session cart. The cart is only cleared once the
// order is durably recorded.
//
// The order id is reserved on the session, and saved when a session store is
// configured, before the ledger append. A checkout retried after the append
// succeeded but the session was not saved reuses the id, and the ledger
// keeps the first copy.
func (s *Shop) PlaceOrder(ctx context.Context, session *domain.Session) (domain.Order, error) {
	if session.Cart.IsEmpty() {
		return domain.Order{}, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}

	if session.PendingOrderID == "" {
		session.PendingOrderID = s.orderID()

		if s.sessions != nil {
			if err := s.sessions.Save(ctx, *session); err != nil {
				return domain.Order{}, fmt.Errorf("sessions.Save: %w", err)
			}
		}
	}

	order, err := s.createOrder(ctx, session.PendingOrderID, session.Cart.Items, s.catalog.Currency())
	if err != nil {
		return domain.Order{}, fmt.Errorf("createOrder: %w", err)
	}

	session.Orders = append(session.Orders, order)
	session.Record(domain.Event{
		Time:    order.CreatedAt,
		Action:  domain.ActionPlaceOrder,
		OrderID: order.ID,
	})
	session.Cart.Clear()
	session.PendingOrderID = ""

	return order, nil
}

// LastOrder returns the most recently appended order across all sessions.
func (s *Shop) LastOrder(ctx context.Context) (domain.Order, bool, error) {
	order, ok, err := s.ledger.Last(ctx)
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("ledger.Last: %w", err)
	}

	return order, ok, nil
}

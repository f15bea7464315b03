package repository

import (
	"fmt"
	"time"

	"github.com/nikolayk812/voiceshop/internal/domain"
)

type sessionRecord struct {
	ID           string           `json:"id"`
	CustomerName string           `json:"customer_name,omitempty"`
	StartedAt    time.Time        `json:"started_at"`
	Cart         []cartItemRecord `json:"cart"`
	Orders       []orderRecord    `json:"orders"`
	History      []eventRecord    `json:"history"`

	PendingOrderID string `json:"pending_order_id,omitempty"`
}

type cartItemRecord struct {
	ProductID string            `json:"product_id"`
	Quantity  int               `json:"quantity"`
	Attrs     map[string]string `json:"attrs"`
	CreatedAt time.Time         `json:"created_at"`
}

type eventRecord struct {
	Time      time.Time `json:"time"`
	Action    string    `json:"action"`
	ProductID string    `json:"product_id,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	OrderID   string    `json:"order_id,omitempty"`
}

func mapSessionToRecord(s domain.Session) sessionRecord {
	r := sessionRecord{
		ID:           s.ID,
		CustomerName: s.CustomerName,
		StartedAt:    s.StartedAt,
		Cart:         make([]cartItemRecord, 0, len(s.Cart.Items)),
		Orders:       make([]orderRecord, 0, len(s.Orders)),
		History:      make([]eventRecord, 0, len(s.History)),

		PendingOrderID: s.PendingOrderID,
	}

	for _, item := range s.Cart.Items {
		r.Cart = append(r.Cart, cartItemRecord(item))
	}
	for _, o := range s.Orders {
		r.Orders = append(r.Orders, mapOrderToRecord(o))
	}
	for _, e := range s.History {
		r.History = append(r.History, eventRecord(e))
	}

	return r
}

func mapSessionRecordToDomain(r sessionRecord) (domain.Session, error) {
	orders, err := mapRecordsToDomain(r.Orders)
	if err != nil {
		return domain.Session{}, fmt.Errorf("mapRecordsToDomain: %w", err)
	}

	s := domain.Session{
		ID:           r.ID,
		CustomerName: r.CustomerName,
		StartedAt:    r.StartedAt,
		Cart:         domain.Cart{OwnerID: r.ID},
		Orders:       orders,

		PendingOrderID: r.PendingOrderID,
	}

	for _, item := range r.Cart {
		s.Cart.Items = append(s.Cart.Items, domain.CartItem(item))
	}
	for _, e := range r.History {
		s.History = append(s.History, domain.Event(e))
	}

	return s, nil
}

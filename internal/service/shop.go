// Package service implements the shop operations behind the voice tools:
// cart bookkeeping, checkout into the order ledger and order history.
//
// A Session is mutated by one call at a time; the caller serializes calls
// per session.
package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/voiceshop/internal/catalog"
	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/port"
)

type Shop struct {
	catalog  *catalog.Store
	ledger   port.OrderLedger
	sessions port.SessionStore

	now     func() time.Time
	orderID func() string
}

type Option func(*Shop)

// WithClock replaces time.Now for order and history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Shop) {
		s.now = now
	}
}

// WithSessionStore makes PlaceOrder save the session with its reserved order
// id before the ledger append.
func WithSessionStore(sessions port.SessionStore) Option {
	return func(s *Shop) {
		s.sessions = sessions
	}
}

// WithOrderIDs replaces the order id generator.
func WithOrderIDs(next func() string) Option {
	return func(s *Shop) {
		s.orderID = next
	}
}

func NewShop(store *catalog.Store, ledger port.OrderLedger, opts ...Option) (*Shop, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if ledger == nil {
		return nil, fmt.Errorf("ledger is nil")
	}

	s := &Shop{
		catalog: store,
		ledger:  ledger,
		now:     time.Now,
		orderID: newOrderID,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Shop) Catalog() *catalog.Store {
	return s.catalog
}

// NewSession starts an empty conversation session.
func (s *Shop) NewSession(customerName string) domain.Session {
	id := uuid.NewString()[:8]

	return domain.Session{
		ID:           id,
		CustomerName: customerName,
		StartedAt:    s.now().UTC(),
		Cart:         domain.Cart{OwnerID: id},
	}
}

func newOrderID() string {
	return "order-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

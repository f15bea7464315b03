package domain

import "time"

const (
	ActionAddToCart  = "add_to_cart"
	ActionClearCart  = "clear_cart"
	ActionPlaceOrder = "place_order"
)

// Session is the per-conversation state handed to every tool call.
type Session struct {
	ID           string
	CustomerName string
	StartedAt    time.Time

	Cart    Cart
	Orders  []Order
	History []Event

	// PendingOrderID is reserved for the current cart before the order is
	// appended; a retried checkout reuses it.
	PendingOrderID string
}

type Event struct {
	Time      time.Time
	Action    string
	ProductID string
	Quantity  int
	OrderID   string
}

func (s *Session) Record(e Event) {
	s.History = append(s.History, e)
}

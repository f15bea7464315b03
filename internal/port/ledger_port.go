package port

import (
	"context"

	"github.com/nikolayk812/voiceshop/internal/domain"
)

// OrderLedger is the append-only log of finalized orders, in insertion order.
type OrderLedger interface {
	// Append records the order. An order whose ID is already recorded is
	// left as is and Append returns nil.
	Append(ctx context.Context, order domain.Order) error
	List(ctx context.Context) ([]domain.Order, error)
	Last(ctx context.Context) (domain.Order, bool, error)
}

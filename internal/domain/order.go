package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Order is a finalized checkout. It is never mutated after creation.
type Order struct {
	ID        string
	Items     []OrderLine
	Total     decimal.Decimal
	Currency  currency.Unit
	CreatedAt time.Time
}

// OrderLine is a point-in-time price snapshot of one cart line.
type OrderLine struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
	Attrs     map[string]string
}

func (o Order) TotalMoney() Money {
	return Money{Amount: o.Total, Currency: o.Currency}
}

package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount int64, cur currency.Unit) Money {
	return Money{Amount: decimal.NewFromInt(amount), Currency: cur}
}

// Times returns the money multiplied by a line quantity.
func (m Money) Times(quantity int) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(int64(quantity))),
		Currency: m.Currency,
	}
}

// String renders the amount the way it is spoken back: "2499 INR".
func (m Money) String() string {
	return m.Amount.String() + " " + m.Currency.String()
}

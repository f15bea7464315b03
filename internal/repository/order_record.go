package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// orderRecord is the persisted JSON shape of an order. Field names and order
// are part of the ledger format and must not change.
type orderRecord struct {
	ID        string            `json:"id"`
	Items     []orderLineRecord `json:"items"`
	Total     json.Number       `json:"total"`
	Currency  string            `json:"currency"`
	CreatedAt string            `json:"created_at"`
}

type orderLineRecord struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice json.Number       `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	LineTotal json.Number       `json:"line_total"`
	Attrs     map[string]string `json:"attrs"`
}

const createdAtLayout = "2006-01-02T15:04:05.999999Z"

func mapOrderToRecord(o domain.Order) orderRecord {
	items := make([]orderLineRecord, 0, len(o.Items))
	for _, line := range o.Items {
		attrs := line.Attrs
		if attrs == nil {
			attrs = map[string]string{}
		}

		items = append(items, orderLineRecord{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: json.Number(line.UnitPrice.String()),
			Quantity:  line.Quantity,
			LineTotal: json.Number(line.LineTotal.String()),
			Attrs:     attrs,
		})
	}

	return orderRecord{
		ID:        o.ID,
		Items:     items,
		Total:     json.Number(o.Total.String()),
		Currency:  o.Currency.String(),
		CreatedAt: o.CreatedAt.UTC().Format(createdAtLayout),
	}
}

func mapRecordToDomain(r orderRecord) (domain.Order, error) {
	parsedCurrency, err := currency.ParseISO(r.Currency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", r.Currency, err)
	}

	total, err := decimal.NewFromString(r.Total.String())
	if err != nil {
		return domain.Order{}, fmt.Errorf("total[%s] is not valid: %w", r.Total, err)
	}

	// RFC3339 parsing accepts any fractional second precision
	createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("created_at[%s] is not valid: %w", r.CreatedAt, err)
	}

	items := make([]domain.OrderLine, 0, len(r.Items))
	for _, line := range r.Items {
		item, err := mapLineRecordToDomain(line)
		if err != nil {
			return domain.Order{}, fmt.Errorf("mapLineRecordToDomain: %w", err)
		}
		items = append(items, item)
	}

	return domain.Order{
		ID:        r.ID,
		Items:     items,
		Total:     total,
		Currency:  parsedCurrency,
		CreatedAt: createdAt,
	}, nil
}

func mapLineRecordToDomain(r orderLineRecord) (domain.OrderLine, error) {
	unitPrice, err := decimal.NewFromString(r.UnitPrice.String())
	if err != nil {
		return domain.OrderLine{}, fmt.Errorf("unit_price[%s] is not valid: %w", r.UnitPrice, err)
	}

	lineTotal, err := decimal.NewFromString(r.LineTotal.String())
	if err != nil {
		return domain.OrderLine{}, fmt.Errorf("line_total[%s] is not valid: %w", r.LineTotal, err)
	}

	return domain.OrderLine{
		ProductID: r.ProductID,
		Name:      r.Name,
		UnitPrice: unitPrice,
		Quantity:  r.Quantity,
		LineTotal: lineTotal,
		Attrs:     r.Attrs,
	}, nil
}

func mapRecordsToDomain(records []orderRecord) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(records))

	for _, r := range records {
		order, err := mapRecordToDomain(r)
		if err != nil {
			return nil, fmt.Errorf("mapRecordToDomain: %w", err)
		}

		orders = append(orders, order)
	}

	return orders, nil
}

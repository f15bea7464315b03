package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// orderRepository is the Postgres order ledger. Insertion order is the orders.seq column.
type orderRepository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderLedger {
	return &orderRepository{
		db:   pool,
		pool: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderLedger {
	return &orderRepository{
		db:   tx,
		pool: nil, // use provided transaction instead
	}
}

type orderRow struct {
	ID        string          `db:"id"`
	Total     decimal.Decimal `db:"total"`
	Currency  string          `db:"currency"`
	CreatedAt time.Time       `db:"created_at"`
}

type orderItemRow struct {
	OrderID   string            `db:"order_id"`
	ProductID string            `db:"product_id"`
	Name      string            `db:"name"`
	UnitPrice decimal.Decimal   `db:"unit_price"`
	Quantity  int32             `db:"quantity"`
	LineTotal decimal.Decimal   `db:"line_total"`
	Attrs     map[string]string `db:"attrs"`
}

const (
	insertOrderSQL = `INSERT INTO orders (id, total, currency, created_at) VALUES ($1, $2, $3, $4)
	                  ON CONFLICT (id) DO NOTHING`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, position, product_id, name, unit_price, quantity, line_total, attrs)
	                      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	listOrdersSQL = `SELECT id, total, currency, created_at FROM orders ORDER BY seq`

	lastOrderSQL = `SELECT id, total, currency, created_at FROM orders ORDER BY seq DESC LIMIT 1`

	listOrderItemsSQL = `SELECT order_id, product_id, name, unit_price, quantity, line_total, attrs
	                     FROM order_items ORDER BY order_id, position`

	orderItemsSQL = `SELECT order_id, product_id, name, unit_price, quantity, line_total, attrs
	                 FROM order_items WHERE order_id = $1 ORDER BY position`
)

func (r *orderRepository) Append(ctx context.Context, order domain.Order) error {
	if order.ID == "" {
		return fmt.Errorf("order ID is empty")
	}

	_, err := withTx(ctx, r.pool, r.db, func(db dbtx) (struct{}, error) {
		tag, err := db.Exec(ctx, insertOrderSQL, order.ID, order.Total, order.Currency.String(), order.CreatedAt.UTC())
		if err != nil {
			return struct{}{}, fmt.Errorf("db.Exec orders: %w", err)
		}
		if tag.RowsAffected() == 0 {
			// already recorded
			return struct{}{}, nil
		}

		for i, line := range order.Items {
			attrs := line.Attrs
			if attrs == nil {
				attrs = map[string]string{}
			}

			_, err := db.Exec(ctx, insertOrderItemSQL,
				order.ID, i, line.ProductID, line.Name, line.UnitPrice, line.Quantity, line.LineTotal, attrs)
			if err != nil {
				return struct{}{}, fmt.Errorf("db.Exec order_items[%d]: %w", i, err)
			}
		}

		return struct{}{}, nil
	})
	if err != nil {
		return &domain.PersistenceError{Op: "append", Err: err}
	}

	return nil
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list", Err: fmt.Errorf("db.Query orders: %w", err)}
	}

	orderRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[orderRow])
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list", Err: fmt.Errorf("pgx.CollectRows orders: %w", err)}
	}

	rows, err = r.db.Query(ctx, listOrderItemsSQL)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list", Err: fmt.Errorf("db.Query order_items: %w", err)}
	}

	itemRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[orderItemRow])
	if err != nil {
		return nil, &domain.PersistenceError{Op: "list", Err: fmt.Errorf("pgx.CollectRows order_items: %w", err)}
	}

	itemsByOrder := make(map[string][]orderItemRow, len(orderRows))
	for _, item := range itemRows {
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	orders := make([]domain.Order, 0, len(orderRows))
	for _, row := range orderRows {
		order, err := mapOrderRowToDomain(row, itemsByOrder[row.ID])
		if err != nil {
			return nil, fmt.Errorf("mapOrderRowToDomain: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (r *orderRepository) Last(ctx context.Context) (domain.Order, bool, error) {
	rows, err := r.db.Query(ctx, lastOrderSQL)
	if err != nil {
		return domain.Order{}, false, &domain.PersistenceError{Op: "last", Err: fmt.Errorf("db.Query orders: %w", err)}
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[orderRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, false, nil
	}
	if err != nil {
		return domain.Order{}, false, &domain.PersistenceError{Op: "last", Err: fmt.Errorf("pgx.CollectExactlyOneRow: %w", err)}
	}

	rows, err = r.db.Query(ctx, orderItemsSQL, row.ID)
	if err != nil {
		return domain.Order{}, false, &domain.PersistenceError{Op: "last", Err: fmt.Errorf("db.Query order_items: %w", err)}
	}

	itemRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[orderItemRow])
	if err != nil {
		return domain.Order{}, false, &domain.PersistenceError{Op: "last", Err: fmt.Errorf("pgx.CollectRows order_items: %w", err)}
	}

	order, err := mapOrderRowToDomain(row, itemRows)
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("mapOrderRowToDomain: %w", err)
	}

	return order, true, nil
}

func mapOrderRowToDomain(row orderRow, items []orderItemRow) (domain.Order, error) {
	parsedCurrency, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	lines := make([]domain.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, domain.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  int(item.Quantity),
			LineTotal: item.LineTotal,
			Attrs:     item.Attrs,
		})
	}

	return domain.Order{
		ID:        row.ID,
		Items:     lines,
		Total:     row.Total,
		Currency:  parsedCurrency,
		CreatedAt: row.CreatedAt,
	}, nil
}

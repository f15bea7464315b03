package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_orders.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func randomOrder() domain.Order {
	var (
		total decimal.Decimal
		lines []domain.OrderLine
	)

	for range gofakeit.IntRange(1, 3) {
		price := decimal.NewFromInt(int64(gofakeit.IntRange(1, 5000)))
		quantity := gofakeit.IntRange(1, 5)
		lineTotal := price.Mul(decimal.NewFromInt(int64(quantity)))
		total = total.Add(lineTotal)

		lines = append(lines, domain.OrderLine{
			ProductID: gofakeit.UUID(),
			Name:      gofakeit.ProductName(),
			UnitPrice: price,
			Quantity:  quantity,
			LineTotal: lineTotal,
			Attrs:     map[string]string{domain.AttrSize: gofakeit.RandomString([]string{"S", "M", "L"})},
		})
	}

	return domain.Order{
		ID:        "order-" + gofakeit.UUID()[:8],
		Items:     lines,
		Total:     total,
		Currency:  currency.INR,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func assertOrder(t *testing.T, expected, actual domain.Order) {
	t.Helper()

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})

	opts := cmp.Options{
		cmpopts.EquateEmpty(),
		currencyComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}

func assertOrders(t *testing.T, expected, actual []domain.Order) {
	t.Helper()

	if !assert.Len(t, actual, len(expected)) {
		return
	}
	for i := range expected {
		assertOrder(t, expected[i], actual[i])
	}
}

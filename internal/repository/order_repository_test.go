package repository_test

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/port"
	"github.com/nikolayk812/voiceshop/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type orderRepositorySuite struct {
	suite.Suite

	repo port.OrderLedger
	pool *pgxpool.Pool
}

// entry point to run the tests in the suite
func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(orderRepositorySuite))
}

// before all tests in the suite
func (suite *orderRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo = repository.NewOrder(suite.pool)
}

// after all tests in the suite
func (suite *orderRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *orderRepositorySuite) TestAppend() {
	defer suite.deleteAll()

	noAttrs := randomOrder()
	noAttrs.Items[0].Attrs = nil

	tests := []struct {
		name      string
		order     domain.Order
		wantError string
	}{
		{
			name:  "append order: ok",
			order: randomOrder(),
		},
		{
			name:  "append order with empty attrs: ok",
			order: noAttrs,
		},
		{
			name:      "append order with empty ID: error",
			order:     domain.Order{},
			wantError: "order ID is empty",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			err := suite.repo.Append(ctx, tt.order)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			last, ok, err := suite.repo.Last(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assertOrder(t, tt.order, last)
		})
	}
}

func (suite *orderRepositorySuite) TestAppend_RecordedIDIsNoop() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	order := randomOrder()
	require.NoError(t, suite.repo.Append(ctx, order))

	retried := order
	retried.CreatedAt = order.CreatedAt.Add(time.Minute)
	require.NoError(t, suite.repo.Append(ctx, retried))

	orders, err := suite.repo.List(ctx)
	require.NoError(t, err)
	assertOrders(t, []domain.Order{order}, orders)
}

func (suite *orderRepositorySuite) TestList() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	orders, err := suite.repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	var want []domain.Order
	for range 4 {
		order := randomOrder()
		require.NoError(t, suite.repo.Append(ctx, order))
		want = append(want, order)
	}

	orders, err = suite.repo.List(ctx)
	require.NoError(t, err)
	assertOrders(t, want, orders)
}

func (suite *orderRepositorySuite) TestLast_Empty() {
	defer suite.deleteAll()

	_, ok, err := suite.repo.Last(suite.T().Context())
	suite.NoError(err)
	suite.False(ok)
}

func (suite *orderRepositorySuite) TestAppendWithTx_Rollback() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	txRepo := repository.NewOrderWithTx(tx)
	require.NoError(t, txRepo.Append(ctx, randomOrder()))

	_, ok, err := txRepo.Last(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "visible inside the transaction")

	require.NoError(t, tx.Rollback(ctx))

	_, ok, err = suite.repo.Last(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "gone after rollback")
}

func (suite *orderRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE orders, order_items CASCADE")
	suite.NoError(err)
}

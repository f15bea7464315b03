package catalog_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/voiceshop/internal/catalog"
	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		products  []domain.Product
		wantLen   int
		wantError string
	}{
		{
			name:     "default products: ok",
			products: catalog.DefaultProducts(),
			wantLen:  8,
		},
		{
			name:     "empty catalog: ok",
			products: nil,
			wantLen:  0,
		},
		{
			name:      "duplicated id: error",
			products:  []domain.Product{{ID: "mug-001"}, {ID: "mug-001"}},
			wantError: "product id[mug-001] is duplicated",
		},
		{
			name:      "empty id: error",
			products:  []domain.Product{randomProduct(), {Name: "nameless"}},
			wantError: "product id is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := catalog.New(tt.products)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, store.Len())
		})
	}
}

func TestStore_IsReadOnly(t *testing.T) {
	store := catalog.Default()

	products := store.Products()
	products[0].Name = "changed"
	products[0].Sizes[0] = "changed"

	got, ok := store.Get(products[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Yak Wool Shawl", got.Name)
	assert.Equal(t, []string{"One-size"}, got.Sizes)
}

func TestStore_Get(t *testing.T) {
	store := catalog.Default()

	p, ok := store.Get("glove-001")
	require.True(t, ok)
	assert.Equal(t, "Insulated Wool Gloves", p.Name)

	_, ok = store.Get("GLOVE-001")
	assert.False(t, ok)

	assert.Equal(t, currency.INR.String(), store.Currency().String())
}

func randomProduct() domain.Product {
	return domain.Product{
		ID:          gofakeit.UUID(),
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Category:    gofakeit.ProductCategory(),
		Color:       gofakeit.Color(),
		Price:       domain.NewMoney(int64(gofakeit.IntRange(1, 5000)), currency.INR),
	}
}

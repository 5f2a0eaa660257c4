package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
	"github.com/joao-fontenele/ecom-rpc/internal/store"
)

func TestMemory_InTxRestoresStateOnError(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	boom := errors.New("boom")
	err := m.InTx(ctx, func(q store.Querier) error {
		if _, err := q.CreateProduct(ctx, domain.Product{Name: "A", Price: decimal.NewFromInt(1)}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	products, err := m.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)
}

func TestMemory_RemoveFromCartDropsEveryOccurrence(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	u, err := m.CreateUser(ctx, domain.UserAccount{Username: "ana", Cart: []int64{}, Orders: []int64{}})
	require.NoError(t, err)

	for _, id := range []int64{4, 7, 4} {
		_, err := m.AppendToCart(ctx, u.ID, id)
		require.NoError(t, err)
	}

	after, err := m.RemoveFromCart(ctx, u.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, after.Cart)

	missing, err := m.AppendToCart(ctx, 999, 4)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemory_ErrFailsEveryCall(t *testing.T) {
	m := NewMemory()
	m.Err = errors.New("connection refused")

	_, err := m.GetProduct(context.Background(), 1)
	assert.ErrorIs(t, err, store.ErrStoreFailure)
}

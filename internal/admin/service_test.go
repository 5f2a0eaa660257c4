package admin

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/ecom-rpc/internal/auth"
	"github.com/joao-fontenele/ecom-rpc/internal/domain"
	"github.com/joao-fontenele/ecom-rpc/internal/store"
	"github.com/joao-fontenele/ecom-rpc/internal/store/storetest"
)

func newService(t *testing.T) (*Service, *storetest.Memory) {
	t.Helper()
	mem := storetest.NewMemory()
	svc := NewService(mem, auth.NewIssuer("secret", time.Hour))
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc, mem
}

func TestService_Products(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	created, err := svc.CreateProduct(ctx, domain.ProductInput{Name: "Lamp", Description: "Desk", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, svc.now(), created.CreatedAt)

	updated, err := svc.UpdateProduct(ctx, created.ID, domain.ProductInput{Name: "Lamp XL", Price: decimal.NewFromInt(12)})
	require.NoError(t, err)
	assert.Equal(t, "Lamp XL", updated.Name)
	assert.Empty(t, updated.Description)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	deleted, err := svc.DeleteProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp XL", deleted.Name)

	_, err = svc.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.UpdateProduct(ctx, created.ID, domain.ProductInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.DeleteProduct(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_UpdateOrder(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)

	o, err := mem.CreateOrder(ctx, domain.Order{
		UserID:   1,
		Products: []int64{1, 2},
		Total:    decimal.NewFromInt(25),
		Status:   domain.OrderStatusPending,
	})
	require.NoError(t, err)

	t.Run("overrides ownership and total without recomputation", func(t *testing.T) {
		got, err := svc.UpdateOrder(ctx, o.ID, domain.OrderInput{
			UserID:   9,
			Products: []int64{1, 2},
			Total:    decimal.NewFromInt(1),
			Status:   domain.OrderStatusFulfilled,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(9), got.UserID)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(1)))
		assert.Equal(t, domain.OrderStatusFulfilled, got.Status)
	})

	t.Run("nil products become an empty list", func(t *testing.T) {
		got, err := svc.UpdateOrder(ctx, o.ID, domain.OrderInput{UserID: 9, Status: "Shipped"})
		require.NoError(t, err)
		assert.Equal(t, []int64{}, got.Products)
		assert.Equal(t, domain.OrderStatus("Shipped"), got.Status)
	})

	t.Run("absent order", func(t *testing.T) {
		_, err := svc.UpdateOrder(ctx, 404, domain.OrderInput{Status: "Pending"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_UpdateSelf(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)

	require.NoError(t, mem.EnsureAdmin(ctx, domain.AdminAccount{ID: domain.BootstrapAdminID, Username: "admin", Password: "admin", Email: "admin"}))
	other, err := svc.CreateAdmin(ctx, domain.AccountInput{Username: "other", Password: "pw", Email: "o@example.com"})
	require.NoError(t, err)

	t.Run("updates only the principal's row", func(t *testing.T) {
		pctx := auth.WithPrincipal(ctx, auth.Principal{ID: domain.BootstrapAdminID, Role: auth.RoleAdmin})
		got, err := svc.UpdateSelf(pctx, domain.AccountInput{Username: "root", Password: "new", Email: "root@example.com"})
		require.NoError(t, err)
		assert.Equal(t, domain.BootstrapAdminID, got.ID)
		assert.Equal(t, "root", got.Username)

		untouched, err := svc.GetAdmin(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, "other", untouched.Username)
	})

	t.Run("requires a principal", func(t *testing.T) {
		_, err := svc.UpdateSelf(ctx, domain.AccountInput{Username: "x", Password: "y", Email: "z"})
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("principal without a row", func(t *testing.T) {
		pctx := auth.WithPrincipal(ctx, auth.Principal{ID: 77, Role: auth.RoleAdmin})
		_, err := svc.UpdateSelf(pctx, domain.AccountInput{Username: "x", Password: "y", Email: "z"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("duplicate username is a store failure", func(t *testing.T) {
		pctx := auth.WithPrincipal(ctx, auth.Principal{ID: other.ID, Role: auth.RoleAdmin})
		_, err := svc.UpdateSelf(pctx, domain.AccountInput{Username: "root", Password: "y", Email: "z"})
		assert.ErrorIs(t, err, store.ErrStoreFailure)
	})
}

func TestService_GetProductsByUser(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)

	a, _ := mem.CreateProduct(ctx, domain.Product{Name: "A", Price: decimal.NewFromInt(10)})
	b, _ := mem.CreateProduct(ctx, domain.Product{Name: "B", Price: decimal.NewFromInt(15)})
	u, err := svc.CreateUser(ctx, domain.AccountInput{Username: "ana", Password: "pw", Email: "ana@example.com"})
	require.NoError(t, err)

	t.Run("empty cart yields an empty list", func(t *testing.T) {
		products, err := svc.GetProductsByUser(ctx, u.ID)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("distinct products, deleted ones skipped", func(t *testing.T) {
		for _, id := range []int64{a.ID, b.ID, a.ID} {
			_, err := mem.AppendToCart(ctx, u.ID, id)
			require.NoError(t, err)
		}
		_, err := mem.DeleteProduct(ctx, b.ID)
		require.NoError(t, err)

		products, err := svc.GetProductsByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, a.ID, products[0].ID)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.GetProductsByUser(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestService_GetOrdersByUser(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)

	_, _ = mem.CreateOrder(ctx, domain.Order{UserID: 1, Status: domain.OrderStatusPending})
	_, _ = mem.CreateOrder(ctx, domain.Order{UserID: 2, Status: domain.OrderStatusPending})
	_, _ = mem.CreateOrder(ctx, domain.Order{UserID: 1, Status: domain.OrderStatusCancelled})

	orders, err := svc.GetOrdersByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, domain.OrderStatusCancelled, orders[1].Status)

	orders, err = svc.GetOrdersByUser(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	svc, mem := newService(t)
	require.NoError(t, mem.EnsureAdmin(ctx, domain.AdminAccount{ID: domain.BootstrapAdminID, Username: "admin", Password: "admin", Email: "admin"}))

	token, err := svc.Login(ctx, domain.LoginInput{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	p, err := svc.issuer.Verify(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, auth.Principal{ID: domain.BootstrapAdminID, Role: auth.RoleAdmin}, p)

	_, err = svc.Login(ctx, domain.LoginInput{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/ecom-rpc/internal/auth"
	"github.com/joao-fontenele/ecom-rpc/internal/domain"
	"github.com/joao-fontenele/ecom-rpc/internal/store"
	"github.com/joao-fontenele/ecom-rpc/internal/store/storetest"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OrderCheckedOutEvent
	err    error
}

func (p *recordingPublisher) PublishOrderCheckedOut(_ context.Context, e domain.OrderCheckedOutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type fixture struct {
	svc  *Service
	mem  *storetest.Memory
	pub  *recordingPublisher
	ctx  context.Context
	user *domain.UserAccount
	a, b *domain.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := storetest.NewMemory()
	pub := &recordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := context.Background()
	u, err := mem.CreateUser(ctx, domain.UserAccount{Username: "ana", Password: "pw", Email: "ana@example.com", Cart: []int64{}, Orders: []int64{}})
	require.NoError(t, err)
	a, err := mem.CreateProduct(ctx, domain.Product{Name: "A", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	b, err := mem.CreateProduct(ctx, domain.Product{Name: "B", Price: decimal.NewFromInt(15)})
	require.NoError(t, err)

	return &fixture{
		svc:  NewService(mem, pub, logger),
		mem:  mem,
		pub:  pub,
		ctx:  auth.WithPrincipal(ctx, auth.Principal{ID: u.ID, Role: auth.RoleUser}),
		user: u,
		a:    a,
		b:    b,
	}
}

func TestService_RequiresPrincipal(t *testing.T) {
	f := newFixture(t)
	bare := context.Background()
	adminCtx := auth.WithPrincipal(bare, auth.Principal{ID: f.user.ID, Role: auth.RoleAdmin})

	for _, ctx := range []context.Context{bare, adminCtx} {
		_, err := f.svc.GetMyAccount(ctx)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		_, err = f.svc.Checkout(ctx)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		_, err = f.svc.AddToCart(ctx, f.a.ID)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	}
}

func TestService_Account(t *testing.T) {
	f := newFixture(t)
	other, err := f.mem.CreateUser(context.Background(), domain.UserAccount{Username: "bob", Password: "pw", Email: "bob@example.com"})
	require.NoError(t, err)

	got, err := f.svc.GetMyAccount(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana", got.Username)

	updated, err := f.svc.UpdateMyAccount(f.ctx, domain.AccountInput{Username: "ana2", Password: "new", Email: "ana2@example.com"})
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, updated.ID)
	assert.Equal(t, "ana2", updated.Username)

	untouched, err := f.mem.GetUser(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", untouched.Username)

	deleted, err := f.svc.DeleteMyAccount(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, deleted.ID)

	_, err = f.svc.GetMyAccount(f.ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.DeleteMyAccount(f.ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Cart(t *testing.T) {
	t.Run("add appends duplicates", func(t *testing.T) {
		f := newFixture(t)

		for range 2 {
			p, err := f.svc.AddToCart(f.ctx, f.a.ID)
			require.NoError(t, err)
			assert.Equal(t, f.a.ID, p.ID)
		}

		u, _ := f.mem.GetUser(context.Background(), f.user.ID)
		assert.Equal(t, []int64{f.a.ID, f.a.ID}, u.Cart)
	})

	t.Run("add rejects unknown products", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.AddToCart(f.ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		u, _ := f.mem.GetUser(context.Background(), f.user.ID)
		assert.Empty(t, u.Cart)
	})

	t.Run("remove drops every occurrence", func(t *testing.T) {
		f := newFixture(t)
		for _, id := range []int64{f.a.ID, f.b.ID, f.a.ID} {
			_, err := f.svc.AddToCart(f.ctx, id)
			require.NoError(t, err)
		}

		p, err := f.svc.RemoveFromCart(f.ctx, f.a.ID)
		require.NoError(t, err)
		assert.Equal(t, "A", p.Name)

		u, _ := f.mem.GetUser(context.Background(), f.user.ID)
		assert.Equal(t, []int64{f.b.ID}, u.Cart)
	})

	t.Run("remove of a deleted product fails every time", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.AddToCart(f.ctx, f.b.ID)
		require.NoError(t, err)
		_, err = f.mem.DeleteProduct(context.Background(), f.b.ID)
		require.NoError(t, err)

		for range 2 {
			_, err := f.svc.RemoveFromCart(f.ctx, f.b.ID)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		}

		u, _ := f.mem.GetUser(context.Background(), f.user.ID)
		assert.Empty(t, u.Cart)
	})

	t.Run("my products are distinct", func(t *testing.T) {
		f := newFixture(t)
		products, err := f.svc.GetMyProducts(f.ctx)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)

		for _, id := range []int64{f.b.ID, f.a.ID, f.b.ID} {
			_, err := f.svc.AddToCart(f.ctx, id)
			require.NoError(t, err)
		}
		products, err = f.svc.GetMyProducts(f.ctx)
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})
}

func TestService_Checkout(t *testing.T) {
	t.Run("totals the cart, clears it and announces the order", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.svc.AddToCart(f.ctx, f.a.ID)
		_, _ = f.svc.AddToCart(f.ctx, f.b.ID)

		order, err := f.svc.Checkout(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, f.user.ID, order.UserID)
		assert.Equal(t, []int64{f.a.ID, f.b.ID}, order.Products)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(25)), "total %s", order.Total)
		assert.Equal(t, domain.OrderStatusPending, order.Status)

		u, _ := f.mem.GetUser(context.Background(), f.user.ID)
		assert.Empty(t, u.Cart)

		require.Len(t, f.pub.events, 1)
		assert.Equal(t, order.ID, f.pub.events[0].OrderID)
		assert.Equal(t, "ana@example.com", f.pub.events[0].Email)

		_, err = f.mem.DeleteProduct(context.Background(), f.b.ID)
		require.NoError(t, err)
		orders, err := f.svc.GetMyOrders(f.ctx)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.True(t, orders[0].Total.Equal(decimal.NewFromInt(25)))
		assert.Equal(t, []int64{f.a.ID, f.b.ID}, orders[0].Products)
	})

	t.Run("duplicates count per entry", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.svc.AddToCart(f.ctx, f.a.ID)
		_, _ = f.svc.AddToCart(f.ctx, f.a.ID)

		order, err := f.svc.Checkout(f.ctx)
		require.NoError(t, err)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, []int64{f.a.ID, f.a.ID}, order.Products)
	})

	t.Run("deleted products are dropped", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.svc.AddToCart(f.ctx, f.a.ID)
		_, _ = f.svc.AddToCart(f.ctx, f.b.ID)
		_, _ = f.mem.DeleteProduct(context.Background(), f.a.ID)

		order, err := f.svc.Checkout(f.ctx)
		require.NoError(t, err)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(15)))
		assert.Equal(t, []int64{f.b.ID}, order.Products)
	})

	t.Run("empty cart yields an empty order", func(t *testing.T) {
		f := newFixture(t)

		order, err := f.svc.Checkout(f.ctx)
		require.NoError(t, err)
		assert.True(t, order.Total.IsZero())
		assert.Equal(t, []int64{}, order.Products)
	})

	t.Run("concurrent checkouts do not double book", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.svc.AddToCart(f.ctx, f.a.ID)
		_, _ = f.svc.AddToCart(f.ctx, f.b.ID)

		var wg sync.WaitGroup
		orders := make([]*domain.Order, 2)
		for i := range orders {
			wg.Add(1)
			go func() {
				defer wg.Done()
				o, err := f.svc.Checkout(f.ctx)
				assert.NoError(t, err)
				orders[i] = o
			}()
		}
		wg.Wait()

		sum := orders[0].Total.Add(orders[1].Total)
		assert.True(t, sum.Equal(decimal.NewFromInt(25)), "combined total %s", sum)
		assert.Equal(t, 2, len(orders[0].Products)+len(orders[1].Products))
	})

	t.Run("publish failure does not fail the checkout", func(t *testing.T) {
		f := newFixture(t)
		f.pub.err = errors.New("broker down")
		_, _ = f.svc.AddToCart(f.ctx, f.a.ID)

		order, err := f.svc.Checkout(f.ctx)
		require.NoError(t, err)
		assert.NotNil(t, order)
	})

	t.Run("unknown principal", func(t *testing.T) {
		f := newFixture(t)
		ctx := auth.WithPrincipal(context.Background(), auth.Principal{ID: 404, Role: auth.RoleUser})

		_, err := f.svc.Checkout(ctx)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, f.pub.events)
	})

	t.Run("a failed step rolls the whole checkout back", func(t *testing.T) {
		f := newFixture(t)
		_, _ = f.svc.AddToCart(f.ctx, f.a.ID)
		f.svc.store = clearCartFails{f.mem}

		_, err := f.svc.Checkout(f.ctx)
		assert.ErrorIs(t, err, store.ErrStoreFailure)

		orders, _ := f.mem.ListOrders(context.Background())
		assert.Empty(t, orders)
		u, _ := f.mem.GetUser(context.Background(), f.user.ID)
		assert.Equal(t, []int64{f.a.ID}, u.Cart)
		assert.Empty(t, f.pub.events)
	})
}

type clearCartFails struct {
	store.Querier
}

func (c clearCartFails) InTx(ctx context.Context, fn func(store.Querier) error) error {
	return c.Querier.InTx(ctx, func(q store.Querier) error {
		return fn(clearCartFails{q})
	})
}

func (clearCartFails) ClearCart(context.Context, int64) (*domain.UserAccount, error) {
	return nil, store.ErrStoreFailure
}

// Package storetest provides an in-memory store.Querier for facade tests.
package storetest

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
	"github.com/joao-fontenele/ecom-rpc/internal/store"
)

var _ store.Querier = (*Memory)(nil)

// Memory keeps every table in maps. InTx serializes transactions and restores
// the previous state when the callback fails.
type Memory struct {
	mu   sync.Mutex
	txMu sync.Mutex

	// Err, when set, makes every call fail with it wrapped in store.ErrStoreFailure.
	Err error

	state
}

type state struct {
	nextProduct, nextOrder, nextUser, nextAdmin int64

	products map[int64]domain.Product
	orders   map[int64]domain.Order
	users    map[int64]domain.UserAccount
	admins   map[int64]domain.AdminAccount
}

func NewMemory() *Memory {
	return &Memory{state: state{
		nextProduct: 1,
		nextOrder:   1,
		nextUser:    1,
		nextAdmin:   1,
		products:    map[int64]domain.Product{},
		orders:      map[int64]domain.Order{},
		users:       map[int64]domain.UserAccount{},
		admins:      map[int64]domain.AdminAccount{},
	}}
}

func (m *Memory) fail(op string) error {
	if m.Err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, store.ErrStoreFailure, m.Err)
}

func (m *Memory) InTx(ctx context.Context, fn func(store.Querier) error) error {
	if err := m.fail("begin"); err != nil {
		return err
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	saved := m.state.clone()
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.state = saved
		m.mu.Unlock()
		return err
	}
	return nil
}

func (s state) clone() state {
	c := s
	c.products = maps.Clone(s.products)
	c.orders = maps.Clone(s.orders)
	c.users = maps.Clone(s.users)
	c.admins = maps.Clone(s.admins)
	return c
}

func sorted[T any](values map[int64]T, id func(T) int64) []T {
	out := append([]T{}, slices.Collect(maps.Values(values))...)
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return out
}

func clone(ids []int64) []int64 {
	return append([]int64{}, ids...)
}

func copyOrder(o domain.Order) domain.Order {
	o.Products = clone(o.Products)
	return o
}

func copyUser(u domain.UserAccount) domain.UserAccount {
	u.Cart = clone(u.Cart)
	u.Orders = clone(u.Orders)
	return u
}

// Products

func (m *Memory) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := m.fail("list_products"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sorted(m.products, func(p domain.Product) int64 { return p.ID }), nil
}

func (m *Memory) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := m.fail("get_product"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if err := m.fail("get_products_by_ids"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	found := map[int64]domain.Product{}
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			found[id] = p
		}
	}
	return sorted(found, func(p domain.Product) int64 { return p.ID }), nil
}

func (m *Memory) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := m.fail("create_product"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextProduct
	m.nextProduct++
	m.products[p.ID] = p
	return &p, nil
}

func (m *Memory) UpdateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := m.fail("update_product"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.products[p.ID]
	if !ok {
		return nil, nil
	}
	existing.Name = p.Name
	existing.Description = p.Description
	existing.Price = p.Price
	m.products[p.ID] = existing
	return &existing, nil
}

func (m *Memory) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if err := m.fail("delete_product"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	delete(m.products, id)
	return &p, nil
}

// Orders

func (m *Memory) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if err := m.fail("list_orders"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := sorted(m.orders, func(o domain.Order) int64 { return o.ID })
	for i := range out {
		out[i] = copyOrder(out[i])
	}
	return out, nil
}

func (m *Memory) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	if err := m.fail("list_orders_by_user"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for _, o := range sorted(m.orders, func(o domain.Order) int64 { return o.ID }) {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func (m *Memory) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if err := m.fail("get_order"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	o = copyOrder(o)
	return &o, nil
}

func (m *Memory) CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if err := m.fail("create_order"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o = copyOrder(o)
	o.ID = m.nextOrder
	m.nextOrder++
	m.orders[o.ID] = o
	o = copyOrder(o)
	return &o, nil
}

func (m *Memory) UpdateOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if err := m.fail("update_order"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.orders[o.ID]
	if !ok {
		return nil, nil
	}
	existing.UserID = o.UserID
	existing.Products = clone(o.Products)
	existing.Total = o.Total
	existing.Status = o.Status
	m.orders[o.ID] = existing
	existing = copyOrder(existing)
	return &existing, nil
}

func (m *Memory) DeleteOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if err := m.fail("delete_order"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	delete(m.orders, id)
	return &o, nil
}

// Admins

func (m *Memory) ListAdmins(ctx context.Context) ([]domain.AdminAccount, error) {
	if err := m.fail("list_admins"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sorted(m.admins, func(a domain.AdminAccount) int64 { return a.ID }), nil
}

func (m *Memory) GetAdmin(ctx context.Context, id int64) (*domain.AdminAccount, error) {
	if err := m.fail("get_admin"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *Memory) GetAdminByUsername(ctx context.Context, username string) (*domain.AdminAccount, error) {
	if err := m.fail("get_admin_by_username"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, nil
}

func (m *Memory) adminNameTaken(username string, except int64) bool {
	for id, a := range m.admins {
		if id != except && a.Username == username {
			return true
		}
	}
	return false
}

func (m *Memory) CreateAdmin(ctx context.Context, a domain.AdminAccount) (*domain.AdminAccount, error) {
	if err := m.fail("create_admin"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.adminNameTaken(a.Username, -1) {
		return nil, fmt.Errorf("create_admin: %w: duplicate username", store.ErrStoreFailure)
	}
	a.ID = m.nextAdmin
	m.nextAdmin++
	m.admins[a.ID] = a
	return &a, nil
}

func (m *Memory) UpdateAdmin(ctx context.Context, a domain.AdminAccount) (*domain.AdminAccount, error) {
	if err := m.fail("update_admin"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.admins[a.ID]
	if !ok {
		return nil, nil
	}
	if m.adminNameTaken(a.Username, a.ID) {
		return nil, fmt.Errorf("update_admin: %w: duplicate username", store.ErrStoreFailure)
	}
	existing.Username = a.Username
	existing.Password = a.Password
	existing.Email = a.Email
	m.admins[a.ID] = existing
	return &existing, nil
}

func (m *Memory) DeleteAdmin(ctx context.Context, id int64) (*domain.AdminAccount, error) {
	if err := m.fail("delete_admin"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, nil
	}
	delete(m.admins, id)
	return &a, nil
}

func (m *Memory) EnsureAdmin(ctx context.Context, a domain.AdminAccount) error {
	if err := m.fail("ensure_admin"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[a.ID]; ok || m.adminNameTaken(a.Username, a.ID) {
		return nil
	}
	m.admins[a.ID] = a
	return nil
}

// Users

func (m *Memory) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	if err := m.fail("list_users"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := sorted(m.users, func(u domain.UserAccount) int64 { return u.ID })
	for i := range out {
		out[i] = copyUser(out[i])
	}
	return out, nil
}

func (m *Memory) GetUser(ctx context.Context, id int64) (*domain.UserAccount, error) {
	if err := m.fail("get_user"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	u = copyUser(u)
	return &u, nil
}

// GetUserForUpdate relies on InTx serialization instead of row locks.
func (m *Memory) GetUserForUpdate(ctx context.Context, id int64) (*domain.UserAccount, error) {
	return m.GetUser(ctx, id)
}

func (m *Memory) GetUserByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	if err := m.fail("get_user_by_username"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			u = copyUser(u)
			return &u, nil
		}
	}
	return nil, nil
}

func (m *Memory) userNameTaken(username string, except int64) bool {
	for id, u := range m.users {
		if id != except && u.Username == username {
			return true
		}
	}
	return false
}

func (m *Memory) CreateUser(ctx context.Context, u domain.UserAccount) (*domain.UserAccount, error) {
	if err := m.fail("create_user"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userNameTaken(u.Username, -1) {
		return nil, fmt.Errorf("create_user: %w: duplicate username", store.ErrStoreFailure)
	}
	u = copyUser(u)
	u.ID = m.nextUser
	m.nextUser++
	m.users[u.ID] = u
	u = copyUser(u)
	return &u, nil
}

func (m *Memory) UpdateUser(ctx context.Context, u domain.UserAccount) (*domain.UserAccount, error) {
	if err := m.fail("update_user"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[u.ID]
	if !ok {
		return nil, nil
	}
	if m.userNameTaken(u.Username, u.ID) {
		return nil, fmt.Errorf("update_user: %w: duplicate username", store.ErrStoreFailure)
	}
	existing.Username = u.Username
	existing.Password = u.Password
	existing.Email = u.Email
	m.users[u.ID] = existing
	existing = copyUser(existing)
	return &existing, nil
}

func (m *Memory) DeleteUser(ctx context.Context, id int64) (*domain.UserAccount, error) {
	if err := m.fail("delete_user"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	delete(m.users, id)
	return &u, nil
}

func (m *Memory) mutateCart(op string, userID int64, fn func([]int64) []int64) (*domain.UserAccount, error) {
	if err := m.fail(op); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, nil
	}
	u.Cart = fn(clone(u.Cart))
	m.users[userID] = u
	u = copyUser(u)
	return &u, nil
}

func (m *Memory) AppendToCart(ctx context.Context, userID, productID int64) (*domain.UserAccount, error) {
	return m.mutateCart("append_to_cart", userID, func(cart []int64) []int64 {
		return append(cart, productID)
	})
}

func (m *Memory) RemoveFromCart(ctx context.Context, userID, productID int64) (*domain.UserAccount, error) {
	return m.mutateCart("remove_from_cart", userID, func(cart []int64) []int64 {
		return slices.DeleteFunc(cart, func(id int64) bool { return id == productID })
	})
}

func (m *Memory) ClearCart(ctx context.Context, userID int64) (*domain.UserAccount, error) {
	return m.mutateCart("clear_cart", userID, func([]int64) []int64 {
		return []int64{}
	})
}

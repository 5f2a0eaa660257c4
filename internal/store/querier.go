package store

import (
	"context"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
)

// Querier is every logical operation the facades may issue against the store.
// Single-row lookups return (nil, nil) when the row does not exist; any other
// failure wraps ErrStoreFailure.
type Querier interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*domain.Product, error)

	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error)
	UpdateOrder(ctx context.Context, o domain.Order) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) (*domain.Order, error)

	ListAdmins(ctx context.Context) ([]domain.AdminAccount, error)
	GetAdmin(ctx context.Context, id int64) (*domain.AdminAccount, error)
	GetAdminByUsername(ctx context.Context, username string) (*domain.AdminAccount, error)
	CreateAdmin(ctx context.Context, a domain.AdminAccount) (*domain.AdminAccount, error)
	UpdateAdmin(ctx context.Context, a domain.AdminAccount) (*domain.AdminAccount, error)
	DeleteAdmin(ctx context.Context, id int64) (*domain.AdminAccount, error)
	EnsureAdmin(ctx context.Context, a domain.AdminAccount) error

	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	GetUser(ctx context.Context, id int64) (*domain.UserAccount, error)
	GetUserForUpdate(ctx context.Context, id int64) (*domain.UserAccount, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.UserAccount, error)
	CreateUser(ctx context.Context, u domain.UserAccount) (*domain.UserAccount, error)
	UpdateUser(ctx context.Context, u domain.UserAccount) (*domain.UserAccount, error)
	DeleteUser(ctx context.Context, id int64) (*domain.UserAccount, error)
	AppendToCart(ctx context.Context, userID, productID int64) (*domain.UserAccount, error)
	RemoveFromCart(ctx context.Context, userID, productID int64) (*domain.UserAccount, error)
	ClearCart(ctx context.Context, userID int64) (*domain.UserAccount, error)

	// InTx runs fn against a Querier bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Querier) error) error
}

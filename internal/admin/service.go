// Package admin is the administrative facade: full CRUD over products,
// orders, admin accounts and user accounts, plus per-user reads.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/joao-fontenele/ecom-rpc/internal/auth"
	"github.com/joao-fontenele/ecom-rpc/internal/domain"
	"github.com/joao-fontenele/ecom-rpc/internal/store"
)

type Service struct {
	store  store.Querier
	issuer *auth.Issuer
	now    func() time.Time
}

func NewService(store store.Querier, issuer *auth.Issuer) *Service {
	return &Service{
		store:  store,
		issuer: issuer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Login(ctx context.Context, in domain.LoginInput) (*auth.Token, error) {
	if s.issuer == nil {
		return nil, fmt.Errorf("%w: token login is disabled", domain.ErrUnavailable)
	}

	a, err := s.store.GetAdminByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if a == nil || !auth.PasswordMatches(a.Password, in.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}

	return s.issuer.Grant(auth.Principal{ID: a.ID, Role: auth.RoleAdmin})
}

// Products

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	return domain.Found(p, err, "product", id)
}

func (s *Service) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	return s.store.CreateProduct(ctx, domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CreatedAt:   s.now(),
	})
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	p, err := s.store.UpdateProduct(ctx, domain.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
	})
	return domain.Found(p, err, "product", id)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.store.DeleteProduct(ctx, id)
	return domain.Found(p, err, "product", id)
}

// Orders

func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.store.ListOrders(ctx)
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	return domain.Found(o, err, "order", id)
}

// UpdateOrder replaces owner, line items, total and status verbatim. The
// total is not recomputed from the catalog.
func (s *Service) UpdateOrder(ctx context.Context, id int64, in domain.OrderInput) (*domain.Order, error) {
	products := in.Products
	if products == nil {
		products = []int64{}
	}
	o, err := s.store.UpdateOrder(ctx, domain.Order{
		ID:       id,
		UserID:   in.UserID,
		Products: products,
		Total:    in.Total,
		Status:   in.Status,
	})
	return domain.Found(o, err, "order", id)
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.store.DeleteOrder(ctx, id)
	return domain.Found(o, err, "order", id)
}

// Admin accounts

func (s *Service) ListAdmins(ctx context.Context) ([]domain.AdminAccount, error) {
	return s.store.ListAdmins(ctx)
}

func (s *Service) GetAdmin(ctx context.Context, id int64) (*domain.AdminAccount, error) {
	a, err := s.store.GetAdmin(ctx, id)
	return domain.Found(a, err, "admin", id)
}

func (s *Service) CreateAdmin(ctx context.Context, in domain.AccountInput) (*domain.AdminAccount, error) {
	return s.store.CreateAdmin(ctx, domain.AdminAccount{
		Username:  in.Username,
		Password:  in.Password,
		Email:     in.Email,
		CreatedAt: s.now(),
	})
}

// UpdateSelf rewrites the calling admin's own record. The id comes from the
// principal in ctx, never from the payload.
func (s *Service) UpdateSelf(ctx context.Context, in domain.AccountInput) (*domain.AdminAccount, error) {
	p, ok := auth.PrincipalFrom(ctx)
	if !ok || p.Role != auth.RoleAdmin {
		return nil, fmt.Errorf("%w: no admin principal", domain.ErrUnauthenticated)
	}

	a, err := s.store.UpdateAdmin(ctx, domain.AdminAccount{
		ID:       p.ID,
		Username: in.Username,
		Password: in.Password,
		Email:    in.Email,
	})
	return domain.Found(a, err, "admin", p.ID)
}

func (s *Service) DeleteAdmin(ctx context.Context, id int64) (*domain.AdminAccount, error) {
	a, err := s.store.DeleteAdmin(ctx, id)
	return domain.Found(a, err, "admin", id)
}

// User accounts

func (s *Service) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	return s.store.ListUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.UserAccount, error) {
	u, err := s.store.GetUser(ctx, id)
	return domain.Found(u, err, "user", id)
}

func (s *Service) CreateUser(ctx context.Context, in domain.AccountInput) (*domain.UserAccount, error) {
	return s.store.CreateUser(ctx, domain.UserAccount{
		Username:  in.Username,
		Password:  in.Password,
		Email:     in.Email,
		CreatedAt: s.now(),
		Cart:      []int64{},
		Orders:    []int64{},
	})
}

func (s *Service) DeleteUser(ctx context.Context, id int64) (*domain.UserAccount, error) {
	u, err := s.store.DeleteUser(ctx, id)
	return domain.Found(u, err, "user", id)
}

// GetProductsByUser resolves the distinct catalog products in a user's cart.
// Cart entries whose product was deleted are skipped.
func (s *Service) GetProductsByUser(ctx context.Context, userID int64) ([]domain.Product, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.GetProductsByIDs(ctx, u.Cart)
}

// GetOrdersByUser lists orders placed by userID. Orders outlive the account,
// so a deleted user still reports its orders.
func (s *Service) GetOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.store.ListOrdersByUser(ctx, userID)
}

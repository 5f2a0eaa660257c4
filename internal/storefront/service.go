// Package storefront is the public facade: catalog reads, self-registration
// and user login. No operation requires an identity.
package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/joao-fontenele/ecom-rpc/internal/auth"
	"github.com/joao-fontenele/ecom-rpc/internal/domain"
)

type Store interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.UserAccount, error)
	CreateUser(ctx context.Context, u domain.UserAccount) (*domain.UserAccount, error)
}

type Service struct {
	store  Store
	issuer *auth.Issuer
	now    func() time.Time
}

// NewService accepts a nil issuer, in which case Login reports Unavailable.
func NewService(store Store, issuer *auth.Issuer) *Service {
	return &Service{
		store:  store,
		issuer: issuer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	return domain.Found(p, err, "product", id)
}

func (s *Service) RegisterUser(ctx context.Context, in domain.AccountInput) (*domain.UserAccount, error) {
	return s.store.CreateUser(ctx, domain.UserAccount{
		Username:  in.Username,
		Password:  in.Password,
		Email:     in.Email,
		CreatedAt: s.now(),
		Cart:      []int64{},
		Orders:    []int64{},
	})
}

func (s *Service) Login(ctx context.Context, in domain.LoginInput) (*auth.Token, error) {
	if s.issuer == nil {
		return nil, fmt.Errorf("%w: token login is disabled", domain.ErrUnavailable)
	}

	u, err := s.store.GetUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if u == nil || !auth.PasswordMatches(u.Password, in.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthenticated)
	}

	return s.issuer.Grant(auth.Principal{ID: u.ID, Role: auth.RoleUser})
}

// Package user is the facade for authenticated shoppers. Every operation acts
// on the principal resolved from identity metadata.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/ecom-rpc/internal/auth"
	"github.com/joao-fontenele/ecom-rpc/internal/domain"
	"github.com/joao-fontenele/ecom-rpc/internal/store"
)

var (
	tracer = otel.Tracer("user")
	meter  = otel.Meter("user")
)

// EventPublisher announces committed checkouts.
type EventPublisher interface {
	PublishOrderCheckedOut(ctx context.Context, event domain.OrderCheckedOutEvent) error
}

type Service struct {
	store     store.Querier
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	checkouts metric.Int64Counter
}

// NewService accepts a nil publisher, in which case no events are sent.
func NewService(store store.Querier, publisher EventPublisher, logger *slog.Logger) *Service {
	checkouts, _ := meter.Int64Counter("orders.checked_out",
		metric.WithDescription("Committed checkouts"))

	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		checkouts: checkouts,
	}
}

func principal(ctx context.Context) (int64, error) {
	p, ok := auth.PrincipalFrom(ctx)
	if !ok || p.Role != auth.RoleUser {
		return 0, fmt.Errorf("%w: no user principal", domain.ErrUnauthenticated)
	}
	return p.ID, nil
}

func (s *Service) GetMyAccount(ctx context.Context) (*domain.UserAccount, error) {
	id, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.store.GetUser(ctx, id)
	return domain.Found(u, err, "user", id)
}

func (s *Service) UpdateMyAccount(ctx context.Context, in domain.AccountInput) (*domain.UserAccount, error) {
	id, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.store.UpdateUser(ctx, domain.UserAccount{
		ID:       id,
		Username: in.Username,
		Password: in.Password,
		Email:    in.Email,
	})
	return domain.Found(u, err, "user", id)
}

func (s *Service) DeleteMyAccount(ctx context.Context) (*domain.UserAccount, error) {
	id, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.store.DeleteUser(ctx, id)
	return domain.Found(u, err, "user", id)
}

// AddToCart appends productID to the caller's cart, duplicates included.
func (s *Service) AddToCart(ctx context.Context, productID int64) (*domain.Product, error) {
	id, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.store.GetProduct(ctx, productID)
	if p, err = domain.Found(p, err, "product", productID); err != nil {
		return nil, err
	}

	u, err := s.store.AppendToCart(ctx, id, productID)
	if _, err := domain.Found(u, err, "user", id); err != nil {
		return nil, err
	}
	return p, nil
}

// RemoveFromCart drops every occurrence of productID, then reports the
// product. It fails NotFound whenever the product is gone from the catalog,
// whether or not the cart changed.
func (s *Service) RemoveFromCart(ctx context.Context, productID int64) (*domain.Product, error) {
	id, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	u, err := s.store.RemoveFromCart(ctx, id, productID)
	if _, err := domain.Found(u, err, "user", id); err != nil {
		return nil, err
	}

	p, err := s.store.GetProduct(ctx, productID)
	return domain.Found(p, err, "product", productID)
}

func (s *Service) GetMyProducts(ctx context.Context) ([]domain.Product, error) {
	u, err := s.GetMyAccount(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.GetProductsByIDs(ctx, u.Cart)
}

func (s *Service) GetMyOrders(ctx context.Context) ([]domain.Order, error) {
	id, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListOrdersByUser(ctx, id)
}

// Checkout turns the caller's cart into a Pending order and empties the cart
// in one transaction. The user row stays locked until commit, so a second
// concurrent checkout sees the emptied cart. Cart entries whose product no
// longer exists are left out of both the total and the order.
func (s *Service) Checkout(ctx context.Context) (*domain.Order, error) {
	id, err := principal(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "user.checkout",
		trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	var (
		order *domain.Order
		email string
	)
	err = s.store.InTx(ctx, func(q store.Querier) error {
		u, err := q.GetUserForUpdate(ctx, id)
		if u, err = domain.Found(u, err, "user", id); err != nil {
			return err
		}

		catalog, err := q.GetProductsByIDs(ctx, u.Cart)
		if err != nil {
			return err
		}
		total, resolved := domain.SumPrices(u.Cart, catalog)

		order, err = q.CreateOrder(ctx, domain.Order{
			UserID:    id,
			Products:  resolved,
			Total:     total,
			Status:    domain.OrderStatusPending,
			CreatedAt: s.now(),
		})
		if err != nil {
			return err
		}

		if _, err := q.ClearCart(ctx, id); err != nil {
			return err
		}
		email = u.Email
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("order.id", order.ID),
		attribute.Int("order.items", len(order.Products)),
	)
	s.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.Bool("order.empty", len(order.Products) == 0)))
	s.announce(ctx, order, email)

	return order, nil
}

func (s *Service) announce(ctx context.Context, order *domain.Order, email string) {
	if s.publisher == nil {
		return
	}

	event := domain.OrderCheckedOutEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Email:     email,
		Products:  order.Products,
		Total:     order.Total,
		Timestamp: order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCheckedOut(ctx, event); err != nil {
		s.logger.Error("failed to publish order checked out event", "error", err, "order_id", order.ID)
	}
}

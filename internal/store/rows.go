package store

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
)

const (
	productColumns = "product_id, name, description, price, created_at"
	orderColumns   = "order_id, user_id, products, total, status, created_at"
	userColumns    = "user_id, username, password, email, created_at, products, orders"
	adminColumns   = "admin_id, username, password, email, created_at"
)

type productRow struct {
	ID          int64           `db:"product_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CreatedAt:   r.CreatedAt,
	}
}

type orderRow struct {
	ID        int64           `db:"order_id"`
	UserID    int64           `db:"user_id"`
	Products  pq.Int64Array   `db:"products"`
	Total     decimal.Decimal `db:"total"`
	Status    string          `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
}

func (r orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:        r.ID,
		UserID:    r.UserID,
		Products:  ids(r.Products),
		Total:     r.Total,
		Status:    domain.OrderStatus(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

type userRow struct {
	ID        int64         `db:"user_id"`
	Username  string        `db:"username"`
	Password  string        `db:"password"`
	Email     string        `db:"email"`
	CreatedAt time.Time     `db:"created_at"`
	Products  pq.Int64Array `db:"products"`
	Orders    pq.Int64Array `db:"orders"`
}

func (r userRow) toDomain() domain.UserAccount {
	return domain.UserAccount{
		ID:        r.ID,
		Username:  r.Username,
		Password:  r.Password,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
		Cart:      ids(r.Products),
		Orders:    ids(r.Orders),
	}
}

type adminRow struct {
	ID        int64     `db:"admin_id"`
	Username  string    `db:"username"`
	Password  string    `db:"password"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

func (r adminRow) toDomain() domain.AdminAccount {
	return domain.AdminAccount{
		ID:        r.ID,
		Username:  r.Username,
		Password:  r.Password,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}

type row[T any] interface {
	toDomain() T
}

func one[T any, R row[T]](r *R) *T {
	if r == nil {
		return nil
	}
	v := (*r).toDomain()
	return &v
}

func many[T any, R row[T]](rs []R) []T {
	out := make([]T, len(rs))
	for i, r := range rs {
		out[i] = r.toDomain()
	}
	return out
}

func ids(a pq.Int64Array) []int64 {
	if a == nil {
		return []int64{}
	}
	return []int64(a)
}

// int64Array never yields NULL, which the NOT NULL array columns reject.
func int64Array(v []int64) pq.Int64Array {
	if v == nil {
		return pq.Int64Array{}
	}
	return pq.Int64Array(v)
}

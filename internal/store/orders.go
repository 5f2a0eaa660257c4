package store

import (
	"context"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
)

func (g *Gateway) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := selectAll[orderRow](ctx, g, "list_orders", `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY order_id
	`)
	if err != nil {
		return nil, err
	}
	return many[domain.Order](rows), nil
}

func (g *Gateway) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := selectAll[orderRow](ctx, g, "list_orders_by_user", `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY order_id
	`, userID)
	if err != nil {
		return nil, err
	}
	return many[domain.Order](rows), nil
}

func (g *Gateway) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	row, err := getOne[orderRow](ctx, g, "get_order", `
		SELECT `+orderColumns+`
		FROM orders
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return one[domain.Order](row), nil
}

func (g *Gateway) CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	row, err := getOne[orderRow](ctx, g, "create_order", `
		INSERT INTO orders (user_id, products, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+orderColumns,
		o.UserID, int64Array(o.Products), o.Total, string(o.Status), o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return one[domain.Order](row), nil
}

// UpdateOrder replaces ownership, line items, total and status as given. The
// total is not recomputed from the catalog.
func (g *Gateway) UpdateOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	row, err := getOne[orderRow](ctx, g, "update_order", `
		UPDATE orders
		SET user_id = $1, products = $2, total = $3, status = $4
		WHERE order_id = $5
		RETURNING `+orderColumns,
		o.UserID, int64Array(o.Products), o.Total, string(o.Status), o.ID)
	if err != nil {
		return nil, err
	}
	return one[domain.Order](row), nil
}

func (g *Gateway) DeleteOrder(ctx context.Context, id int64) (*domain.Order, error) {
	row, err := getOne[orderRow](ctx, g, "delete_order", `
		DELETE FROM orders
		WHERE order_id = $1
		RETURNING `+orderColumns, id)
	if err != nil {
		return nil, err
	}
	return one[domain.Order](row), nil
}

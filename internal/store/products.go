package store

import (
	"context"

	"github.com/lib/pq"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
)

func (g *Gateway) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := selectAll[productRow](ctx, g, "list_products", `
		SELECT `+productColumns+`
		FROM products
		ORDER BY product_id
	`)
	if err != nil {
		return nil, err
	}
	return many[domain.Product](rows), nil
}

func (g *Gateway) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row, err := getOne[productRow](ctx, g, "get_product", `
		SELECT `+productColumns+`
		FROM products
		WHERE product_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return one[domain.Product](row), nil
}

// GetProductsByIDs returns each matching product once, whatever the number of
// times its id appears in ids.
func (g *Gateway) GetProductsByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	rows, err := selectAll[productRow](ctx, g, "get_products_by_ids", `
		SELECT `+productColumns+`
		FROM products
		WHERE product_id = ANY($1)
		ORDER BY product_id
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	return many[domain.Product](rows), nil
}

func (g *Gateway) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	row, err := getOne[productRow](ctx, g, "create_product", `
		INSERT INTO products (name, description, price, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return one[domain.Product](row), nil
}

func (g *Gateway) UpdateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	row, err := getOne[productRow](ctx, g, "update_product", `
		UPDATE products
		SET name = $1, description = $2, price = $3
		WHERE product_id = $4
		RETURNING `+productColumns,
		p.Name, p.Description, p.Price, p.ID)
	if err != nil {
		return nil, err
	}
	return one[domain.Product](row), nil
}

func (g *Gateway) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	row, err := getOne[productRow](ctx, g, "delete_product", `
		DELETE FROM products
		WHERE product_id = $1
		RETURNING `+productColumns, id)
	if err != nil {
		return nil, err
	}
	return one[domain.Product](row), nil
}

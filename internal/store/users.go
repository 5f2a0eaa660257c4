package store

import (
	"context"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
)

func (g *Gateway) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := selectAll[userRow](ctx, g, "list_users", `
		SELECT `+userColumns+`
		FROM users
		ORDER BY user_id
	`)
	if err != nil {
		return nil, err
	}
	return many[domain.UserAccount](rows), nil
}

func (g *Gateway) GetUser(ctx context.Context, id int64) (*domain.UserAccount, error) {
	row, err := getOne[userRow](ctx, g, "get_user", `
		SELECT `+userColumns+`
		FROM users
		WHERE user_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return one[domain.UserAccount](row), nil
}

// GetUserForUpdate locks the user row until the surrounding transaction ends.
func (g *Gateway) GetUserForUpdate(ctx context.Context, id int64) (*domain.UserAccount, error) {
	row, err := getOne[userRow](ctx, g, "get_user_for_update", `
		SELECT `+userColumns+`
		FROM users
		WHERE user_id = $1
		FOR UPDATE
	`, id)
	if err != nil {
		return nil, err
	}
	return one[domain.UserAccount](row), nil
}

func (g *Gateway) GetUserByUsername(ctx context.Context, username string) (*domain.UserAccount, error) {
	row, err := getOne[userRow](ctx, g, "get_user_by_username", `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1
	`, username)
	if err != nil {
		return nil, err
	}
	return one[domain.UserAccount](row), nil
}

func (g *Gateway) CreateUser(ctx context.Context, u domain.UserAccount) (*domain.UserAccount, error) {
	row, err := getOne[userRow](ctx, g, "create_user", `
		INSERT INTO users (username, password, email, created_at, products, orders)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		u.Username, u.Password, u.Email, u.CreatedAt, int64Array(u.Cart), int64Array(u.Orders))
	if err != nil {
		return nil, err
	}
	return one[domain.UserAccount](row), nil
}

func (g *Gateway) UpdateUser(ctx context.Context, u domain.UserAccount) (*domain.UserAccount, error) {
	row, err := getOne[userRow](ctx, g, "update_user", `
		UPDATE users
		SET username = $1, password = $2, email = $3
		WHERE user_id = $4
		RETURNING `+userColumns,
		u.Username, u.Password, u.Email, u.ID)
	if err != nil {
		return nil, err
	}
	return one[domain.UserAccount](row), nil
}

func (g *Gateway) DeleteUser(ctx context.Context, id int64) (*domain.UserAccount, error) {
	row, err := getOne[userRow](ctx, g, "delete_user", `
		DELETE FROM users
		WHERE user_id = $1
		RETURNING `+userColumns, id)
	if err != nil {
		return nil, err
	}
	return one[domain.UserAccount](row), nil
}

func (g *Gateway) AppendToCart(ctx context.Context, userID, productID int64) (*domain.UserAccount, error) {
	row, err := getOne[userRow](ctx, g, "append_to_cart", `
		UPDATE users
		SET products = array_append(products, $1::bigint)
		WHERE user_id = $2
		RETURNING `+userColumns,
		productID, userID)
	if err != nil {
		return nil, err
	}
	return one[domain.UserAccount](row), nil
}

// RemoveFromCart drops every occurrence of productID from the cart.
func (g *Gateway) RemoveFromCart(ctx context.Context, userID, productID int64) (*domain.UserAccount, error) {
	row, err := getOne[userRow](ctx, g, "remove_from_cart", `
		UPDATE users
		SET products = array_remove(products, $1::bigint)
		WHERE user_id = $2
		RETURNING `+userColumns,
		productID, userID)
	if err != nil {
		return nil, err
	}
	return one[domain.UserAccount](row), nil
}

func (g *Gateway) ClearCart(ctx context.Context, userID int64) (*domain.UserAccount, error) {
	row, err := getOne[userRow](ctx, g, "clear_cart", `
		UPDATE users
		SET products = '{}'
		WHERE user_id = $1
		RETURNING `+userColumns, userID)
	if err != nil {
		return nil, err
	}
	return one[domain.UserAccount](row), nil
}

package store

import (
	"context"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
)

func (g *Gateway) ListAdmins(ctx context.Context) ([]domain.AdminAccount, error) {
	rows, err := selectAll[adminRow](ctx, g, "list_admins", `
		SELECT `+adminColumns+`
		FROM admins
		ORDER BY admin_id
	`)
	if err != nil {
		return nil, err
	}
	return many[domain.AdminAccount](rows), nil
}

func (g *Gateway) GetAdmin(ctx context.Context, id int64) (*domain.AdminAccount, error) {
	row, err := getOne[adminRow](ctx, g, "get_admin", `
		SELECT `+adminColumns+`
		FROM admins
		WHERE admin_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return one[domain.AdminAccount](row), nil
}

func (g *Gateway) GetAdminByUsername(ctx context.Context, username string) (*domain.AdminAccount, error) {
	row, err := getOne[adminRow](ctx, g, "get_admin_by_username", `
		SELECT `+adminColumns+`
		FROM admins
		WHERE username = $1
	`, username)
	if err != nil {
		return nil, err
	}
	return one[domain.AdminAccount](row), nil
}

func (g *Gateway) CreateAdmin(ctx context.Context, a domain.AdminAccount) (*domain.AdminAccount, error) {
	row, err := getOne[adminRow](ctx, g, "create_admin", `
		INSERT INTO admins (username, password, email, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+adminColumns,
		a.Username, a.Password, a.Email, a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return one[domain.AdminAccount](row), nil
}

func (g *Gateway) UpdateAdmin(ctx context.Context, a domain.AdminAccount) (*domain.AdminAccount, error) {
	row, err := getOne[adminRow](ctx, g, "update_admin", `
		UPDATE admins
		SET username = $1, password = $2, email = $3
		WHERE admin_id = $4
		RETURNING `+adminColumns,
		a.Username, a.Password, a.Email, a.ID)
	if err != nil {
		return nil, err
	}
	return one[domain.AdminAccount](row), nil
}

func (g *Gateway) DeleteAdmin(ctx context.Context, id int64) (*domain.AdminAccount, error) {
	row, err := getOne[adminRow](ctx, g, "delete_admin", `
		DELETE FROM admins
		WHERE admin_id = $1
		RETURNING `+adminColumns, id)
	if err != nil {
		return nil, err
	}
	return one[domain.AdminAccount](row), nil
}

// EnsureAdmin inserts a with its explicit id unless a conflicting row exists.
func (g *Gateway) EnsureAdmin(ctx context.Context, a domain.AdminAccount) error {
	_, err := g.exec(ctx, "ensure_admin", `
		INSERT INTO admins (admin_id, username, password, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`, a.ID, a.Username, a.Password, a.Email, a.CreatedAt)
	return err
}

package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/joao-fontenele/ecom-rpc/internal/domain"
)

type AdminSeeder interface {
	EnsureAdmin(ctx context.Context, a domain.AdminAccount) error
}

// SeedAdmin inserts the bootstrap admin if it is missing. Failures are logged
// and never stop start-up.
func SeedAdmin(ctx context.Context, store AdminSeeder, username, password, email string, logger *slog.Logger) {
	err := store.EnsureAdmin(ctx, domain.AdminAccount{
		ID:        domain.BootstrapAdminID,
		Username:  username,
		Password:  password,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		logger.Warn("failed to seed bootstrap admin", "error", err, "admin_id", domain.BootstrapAdminID)
		return
	}
	logger.Info("bootstrap admin ensured", "admin_id", domain.BootstrapAdminID, "username", username)
}

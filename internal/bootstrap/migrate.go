// Package bootstrap prepares the store before the server accepts calls:
// schema migrations and the well-known admin account.
package bootstrap

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type Migrator struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

func NewMigrator(sourceURL, databaseURL string, logger *slog.Logger) (*Migrator, error) {
	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

func (m *Migrator) Up() error {
	err := m.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("no pending migrations")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	m.logger.Info("migrations applied successfully")
	return nil
}

// Down rolls back the most recent migration only.
func (m *Migrator) Down() error {
	err := m.m.Steps(-1)
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("no migrations to rollback")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	m.logger.Info("migration rolled back successfully")
	return nil
}

// Version reports 0 when no migration has been applied yet.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration version: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Migrate applies every pending migration.
func Migrate(sourceURL, databaseURL string, logger *slog.Logger) error {
	m, err := NewMigrator(sourceURL, databaseURL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()

	return m.Up()
}

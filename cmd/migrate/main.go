package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joao-fontenele/ecom-rpc/internal/bootstrap"
	"github.com/joao-fontenele/ecom-rpc/internal/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		logger.Error("usage: migrate <up|down|version>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m, err := bootstrap.NewMigrator(cfg.MigrationsPath, cfg.PostgresURL, logger)
	if err != nil {
		logger.Error("failed to create migrator", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = m.Close() }()

	switch command := args[0]; command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var (
			version uint
			dirty   bool
		)
		version, dirty, err = m.Version()
		if err == nil {
			logger.Info("current migration version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		}
	default:
		logger.Error("unknown command", slog.String("command", command))
		os.Exit(1)
	}

	if err != nil {
		logger.Error("migrate failed", slog.String("command", args[0]), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

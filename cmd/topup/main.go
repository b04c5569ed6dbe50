package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/odyssey-erp/topup/cmd/topup/cli"
	"github.com/odyssey-erp/topup/internal/app"
	"github.com/odyssey-erp/topup/internal/ledger"
	"github.com/odyssey-erp/topup/internal/platform/db"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var store ledger.Store
	if cfg.UseMemoryStore() {
		store = ledger.NewMemoryStore()
	} else {
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()

		pgStore := ledger.NewPostgresStore(pool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			logger.Error("ensure schema", slog.Any("error", err))
			os.Exit(1)
		}
		store = pgStore
	}

	os.Exit(cli.RunCommand(ctx, cli.RunOptions{
		CompaniesPath: cfg.CompaniesJSON,
		UsersPath:     cfg.UsersJSON,
		Store:         store,
		Logger:        logger,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
	}))
}

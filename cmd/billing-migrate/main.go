// Command billing-migrate copies the full ledger from the configured data
// files into the configured target store, seeding it in one shot.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/acunningham2/billing/internal/app"
	"github.com/acunningham2/billing/internal/store"
	"github.com/acunningham2/billing/internal/store/postgres"
	"github.com/acunningham2/billing/internal/store/redis"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := app.NewLogger(cfg)

	reg, err := cfg.Registry()
	if err != nil {
		return fmt.Errorf("build parser registry: %w", err)
	}
	source := store.NewCache(store.NewFileSource(cfg.CustomersFile, cfg.InvoicesFile, reg, log), log)

	var targetSrc store.Source
	switch cfg.Store {
	case "postgres":
		pg, err := postgres.New(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		targetSrc = pg
	case "redis":
		rs, err := redis.New(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rs.Close()
		targetSrc = rs
	default:
		return fmt.Errorf("migration target must be postgres or redis, got %q", cfg.Store)
	}

	target := store.NewCache(targetSrc, log)
	if err := store.Migrate(ctx, source, target); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("migration complete",
		slog.String("target", cfg.Store),
		slog.Int("customers", len(target.Customers())),
		slog.Int("invoices", len(target.Invoices())))
	return nil
}

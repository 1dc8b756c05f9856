package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/server"
	"storefront/internal/services"
	"storefront/pkg/database"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply database migrations and exit")
	flag.Parse()

	if err := run(*migrateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "purchases: %v\n", err)
		os.Exit(1)
	}
}

func run(migrateOnly bool) error {
	cfg, err := config.LoadPurchases()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).With(slog.String("service", "purchases"))

	if cfg.RunMigrations || migrateOnly {
		if err := database.Migrate(cfg.DatabaseURL, database.PurchasesMigrations, log); err != nil {
			return err
		}
	}
	if migrateOnly {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	identity, err := middleware.Identity(cfg.IdentityMode, cfg.JWTSecret)
	if err != nil {
		return err
	}

	orderService := services.NewOrderService(repositories.NewOrderRepo(pool), log)

	e := server.New(server.Options{BodyLimit: cfg.BodyLimit, RequestTimeout: cfg.RequestTimeout}, log)
	handlers.RegisterPurchasesRoutes(e,
		handlers.NewOrderHandlers(orderService),
		handlers.NewHealthHandlers(map[string]handlers.Pinger{"database": pool}),
		identity,
	)

	log.Info("purchases service configured", slog.String("identity_mode", cfg.IdentityMode))
	return server.Run(ctx, e, cfg.Port, log)
}

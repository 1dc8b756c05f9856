package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/random"

	"storefront/internal/caching"
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
		fmt.Fprintf(os.Stderr, "accounts: %v\n", err)
		os.Exit(1)
	}
}

func run(migrateOnly bool) error {
	cfg, err := config.LoadAccounts()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).With(slog.String("service", "accounts"))

	if cfg.RunMigrations || migrateOnly {
		if err := database.Migrate(cfg.DatabaseURL, database.AccountsMigrations, log); err != nil {
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

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		// Tokens signed with this secret do not survive a restart
		jwtSecret = random.String(32)
		log.Warn("JWT_SECRET not set, using a generated secret")
	}

	checks := map[string]handlers.Pinger{"database": pool}

	limiter := caching.NewNoopLoginLimiter()
	if cfg.RedisAddr != "" {
		client := caching.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer client.Close()
		limiter = caching.NewRedisLoginLimiter(client, cfg.LoginMaxFailures, cfg.LoginLockout, log)
		checks["redis"] = limiter
	}

	identity, err := middleware.Identity(cfg.IdentityMode, jwtSecret)
	if err != nil {
		return err
	}

	userRepo := repositories.NewUserRepo(pool)
	userService := services.NewUserService(
		userRepo,
		services.NewPasswordHasher(cfg.BcryptCost),
		services.NewTokenService(jwtSecret, cfg.TokenTTL),
		limiter,
		cfg.ProtectedUserIDs,
		log,
	)

	e := server.New(server.Options{BodyLimit: cfg.BodyLimit, RequestTimeout: cfg.RequestTimeout}, log)
	handlers.RegisterAccountsRoutes(e,
		handlers.NewAuthHandlers(userService),
		handlers.NewUserHandlers(userService),
		handlers.NewHealthHandlers(checks),
		identity,
	)

	log.Info("accounts service configured",
		slog.String("identity_mode", cfg.IdentityMode),
		slog.Bool("login_throttling", cfg.RedisAddr != ""),
		slog.Any("protected_user_ids", cfg.ProtectedUserIDs))
	return server.Run(ctx, e, cfg.Port, log)
}

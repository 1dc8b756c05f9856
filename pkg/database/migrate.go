package database

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationFiles embed.FS

// Migration sets, one per service
const (
	AccountsMigrations  = "accounts"
	PurchasesMigrations = "purchases"
)

// Migrate applies the embedded migrations of the named set. Each set keeps its
// own version table so both services can share one database.
func Migrate(databaseURL, set string, log *slog.Logger) error {
	source, err := fs.Sub(migrationFiles, "migrations/"+set)
	if err != nil {
		return fmt.Errorf("unknown migration set %q: %w", set, err)
	}
	driver, err := iofs.New(source, ".")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	target, err := migrationURL(databaseURL, set)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", driver, target)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("database schema is up to date", slog.String("set", set))
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	logApplied(log, set, version, dirty, err)
	return nil
}

func logApplied(log *slog.Logger, set string, version uint, dirty bool, err error) {
	if err != nil {
		log.Warn("migrations applied, version unavailable", slog.String("set", set), slog.String("error", err.Error()))
		return
	}
	log.Info("migrations applied", slog.String("set", set), slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
}

// migrationURL rewrites a postgres URL for the pgx/v5 migrate driver
func migrationURL(databaseURL, set string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
		u.Scheme = "pgx5"
	default:
		return "", fmt.Errorf("unsupported database url scheme %q", u.Scheme)
	}

	q := u.Query()
	if q.Get("x-migrations-table") == "" {
		q.Set("x-migrations-table", set+"_schema_migrations")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

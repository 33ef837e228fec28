package database

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"threadline/internal/config"
	"threadline/internal/middleware"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers the pgx5:// scheme
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationStatus describes the schema version recorded by golang-migrate.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Applied bool
}

// MigrationURL builds the golang-migrate database URL for cfg.
func MigrationURL(cfg *config.Config) string {
	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme: "pgx5",
		User:   url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:   cfg.DBHost + ":" + cfg.DBPort,
		Path:   "/" + cfg.DBName,
	}
	q := u.Query()
	q.Set("sslmode", sslMode)
	q.Set("connect_timeout", fmt.Sprint(cfg.DBConnectTimeoutSecs))
	u.RawQuery = q.Encode()
	return u.String()
}

func newMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, MigrationURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		middleware.Logger.Warn("closing migrator", slog.Any("source_error", srcErr), slog.Any("database_error", dbErr))
	}
}

// RunMigrations applies every pending up migration.
func RunMigrations(cfg *config.Config) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// RollbackMigrations reverts the given number of migrations.
func RollbackMigrations(cfg *config.Config, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	return nil
}

// GetMigrationStatus reports the current schema version.
func GetMigrationStatus(cfg *config.Config) (MigrationStatus, error) {
	m, err := newMigrator(cfg)
	if err != nil {
		return MigrationStatus{}, err
	}
	defer closeMigrator(m)

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return MigrationStatus{}, nil
	}
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("read migration version: %w", err)
	}
	return MigrationStatus{Version: version, Dirty: dirty, Applied: true}, nil
}

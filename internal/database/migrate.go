package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/local/*.sql migrations/remote/*.sql
var migrations embed.FS

// MigrateLocal applies the scoped store schema to an open sqlite database.
func MigrateLocal(db *sql.DB) error {
	src, err := iofs.New(migrations, "migrations/local")
	if err != nil {
		return fmt.Errorf("loading local migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("preparing local migrations: %w", err)
	}

	// m is not closed: closing it would close db, which the caller still owns.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("preparing local migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying local migrations: %w", err)
	}

	return nil
}

// MigrateRemote applies the remote sync schema. connStr is the postgres:// URL
// returned by config.ConnectionString.
func MigrateRemote(connStr string) error {
	src, err := iofs.New(migrations, "migrations/remote")
	if err != nil {
		return fmt.Errorf("loading remote migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, pgx5URL(connStr))
	if err != nil {
		return fmt.Errorf("preparing remote migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying remote migrations: %w", err)
	}

	return nil
}

func pgx5URL(connStr string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(connStr, scheme) {
			return "pgx5://" + strings.TrimPrefix(connStr, scheme)
		}
	}

	return connStr
}

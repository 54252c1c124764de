package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const baselineMigration = "migrations/000001_init.up.sql"

// runMigrations applies the embedded migrations on db itself, so in-memory
// stores and the single-connection pool see the same schema. An
// already-initialized database is left untouched.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}
	// m.Close would also close db through the driver; only the source is released.
	defer src.Close()

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// applyBaseline runs the baseline schema through conn. It is used when the
// handle's statements go through a substituted connection.
func applyBaseline(ctx context.Context, conn Conn) error {
	ddl, err := migrationsFS.ReadFile(baselineMigration)
	if err != nil {
		return fmt.Errorf("read baseline schema: %w", err)
	}
	if _, err := conn.ExecContext(ctx, string(ddl)); err != nil {
		return fmt.Errorf("apply baseline schema: %w", err)
	}
	return nil
}

package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/migrations"
	"github.com/pressly/goose/v3"
)

// runMigrations applies any outstanding embedded migrations. Running against
// an up-to-date database is a no-op, so this is safe on every start.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	logger.Info("Database migrations up to date", "version", version)
	return nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/dungeonrpg/internal/db/migrations"
)

// имена диалектов goose
const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite3"
)

// RunMigrations применяет схему сохранений к PostgreSQL по dsn.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	return migrate(ctx, sqlDB, dialectPostgres)
}

// migrate применяет встроенные миграции к уже открытой базе.
// Используется обоими бэкендами, отличается только диалект.
func migrate(ctx context.Context, sqlDB *sql.DB, dialect string) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("setting goose dialect %s: %w", dialect, err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("migrating save schema (%s): %w", dialect, err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	slog.Debug("save schema ready", "dialect", dialect, "version", version)
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/udisondev/dungeonrpg/internal/config"
	"github.com/udisondev/dungeonrpg/internal/db"
	"github.com/udisondev/dungeonrpg/internal/game/session"
)

// openStore opens the save store selected by database.driver.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (session.ProgressStore, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		database, err := db.OpenPostgres(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres store: %w", err)
		}
		slog.Info("database connected", "host", cfg.Host, "dbname", cfg.DBName)
		return database.Progress(), database.Close, nil

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating save dir: %w", err)
			}
		}
		repo, err := db.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("save file opened", "path", cfg.Path)
		return repo, func() {
			if err := repo.Close(); err != nil {
				slog.Error("closing save file", "error", err)
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

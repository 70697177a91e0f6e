package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// сим играет одним персонажем, больше соединений не нужно
const maxPoolConns = 4

// DB — пул PostgreSQL с уже применённой схемой сейвов.
type DB struct {
	pool *pgxpool.Pool
}

// OpenPostgres прогоняет миграции и открывает пул соединений.
func OpenPostgres(ctx context.Context, dsn string) (*DB, error) {
	if err := RunMigrations(ctx, dsn); err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	cfg.MaxConns = maxPoolConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	slog.Debug("postgres save store opened", "host", cfg.ConnConfig.Host, "database", cfg.ConnConfig.Database)
	return &DB{pool: pool}, nil
}

// Progress возвращает репозиторий прогресса поверх этого пула.
func (d *DB) Progress() *PostgresProgressRepository {
	return NewPostgresProgressRepository(d.pool)
}

func (d *DB) Close() {
	d.pool.Close()
}

func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}

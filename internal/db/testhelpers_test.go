package db

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/udisondev/dungeonrpg/internal/model"
)

var (
	pgOnce sync.Once
	pgPool *pgxpool.Pool
	pgErr  error
)

// startPostgres запускает PostgreSQL 16 testcontainer один раз на пакет.
func startPostgres() {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		pgErr = fmt.Errorf("starting postgres container: %w", err)
		return
	}

	host, err := container.Host(ctx)
	if err != nil {
		pgErr = fmt.Errorf("getting container host: %w", err)
		return
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		pgErr = fmt.Errorf("getting container port: %w", err)
		return
	}
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	d, err := OpenPostgres(ctx, dsn)
	if err != nil {
		pgErr = err
		return
	}
	pgPool = d.Pool()
}

// setupPostgres возвращает shared pool с чистыми таблицами.
// Пропускает тест в -short режиме и без Docker.
func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres tests skipped in short mode")
	}
	pgOnce.Do(startPostgres)
	if pgErr != nil {
		t.Skipf("postgres unavailable: %v", pgErr)
	}

	ctx := context.Background()
	for _, q := range []string{
		"TRUNCATE player_progress CASCADE",
		"TRUNCATE game_settings",
	} {
		if _, err := pgPool.Exec(ctx, q); err != nil {
			t.Logf("cleanup warning: %v", err)
		}
	}
	return pgPool
}

func setupSQLite(t *testing.T) *SQLiteProgressRepository {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "save.db"))
	if err != nil {
		t.Fatalf("opening sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// sampleProgress — запись со всеми заполненными частями.
func sampleProgress(id string) *model.Progress {
	pr := model.NewProgress(id, model.Inventory{"potion_small": 2, "slime_gel": 7})
	pr.Level = 4
	pr.Exp = 13
	pr.ExpToNext = 60
	pr.StatPoints = 3
	pr.HP = 77
	pr.Allocated = model.Stats{Attack: 4, MagicResist: 1, MaxHP: 7}
	pr.Equipment[model.SlotWeapon] = "iron_sword"
	pr.Equipment[model.SlotAccessory] = "bleed_ring"
	pr.Dungeon = model.DungeonProgress{
		UnlockedZones:       []string{"1", "2", "3"},
		UnlockedStageByZone: map[string]int{"1": 5, "2": 5, "3": 2},
	}
	return pr
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/udisondev/dungeonrpg/internal/model"
)

// SQLiteProgressRepository хранит прогресс в локальном файле SQLite.
type SQLiteProgressRepository struct {
	sqlDB *sql.DB
}

// OpenSQLite открывает (или создаёт) файл сохранений по path и применяет миграции.
func OpenSQLite(ctx context.Context, path string) (*SQLiteProgressRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// один writer: SQLite не любит конкурентные транзакции
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(ctx, sqlDB, dialectSQLite); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	slog.Debug("sqlite save store opened", "path", path)
	return &SQLiteProgressRepository{sqlDB: sqlDB}, nil
}

// Close закрывает соединение с базой.
func (r *SQLiteProgressRepository) Close() error {
	if r == nil || r.sqlDB == nil {
		return nil
	}
	return r.sqlDB.Close()
}

// LoadProgress возвращает nil, nil, если записи персонажа нет.
func (r *SQLiteProgressRepository) LoadProgress(ctx context.Context, playerID string) (*model.Progress, error) {
	pr := newLoadedProgress(playerID)
	err := r.sqlDB.QueryRowContext(ctx,
		`SELECT level, exp, exp_to_next, stat_points, hp,
		        alloc_attack, alloc_magic, alloc_defense, alloc_magic_resist, alloc_max_hp
		 FROM player_progress WHERE player_id = ?`, playerID,
	).Scan(&pr.Level, &pr.Exp, &pr.ExpToNext, &pr.StatPoints, &pr.HP,
		&pr.Allocated.Attack, &pr.Allocated.Magic, &pr.Allocated.Defense,
		&pr.Allocated.MagicResist, &pr.Allocated.MaxHP)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying progress of %s: %w", playerID, err)
	}

	inv, err := r.sqlDB.QueryContext(ctx,
		`SELECT item_id, qty FROM player_inventory WHERE player_id = ? ORDER BY item_id`, playerID)
	if err != nil {
		return nil, fmt.Errorf("querying inventory of %s: %w", playerID, err)
	}
	err = scanEach(inv, func(rows *sql.Rows) error {
		var id string
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return err
		}
		if qty > 0 {
			pr.Inventory.Add(model.NormalizeItemID(id), qty)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading inventory of %s: %w", playerID, err)
	}

	eq, err := r.sqlDB.QueryContext(ctx,
		`SELECT slot, item_id FROM player_equipment WHERE player_id = ?`, playerID)
	if err != nil {
		return nil, fmt.Errorf("querying equipment of %s: %w", playerID, err)
	}
	err = scanEach(eq, func(rows *sql.Rows) error {
		var slot, id string
		if err := rows.Scan(&slot, &id); err != nil {
			return err
		}
		setEquipment(pr, slot, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading equipment of %s: %w", playerID, err)
	}

	dg, err := r.sqlDB.QueryContext(ctx,
		`SELECT zone_id, unlock_order, unlocked_stage
		 FROM dungeon_progress WHERE player_id = ?
		 ORDER BY unlock_order, zone_id`, playerID)
	if err != nil {
		return nil, fmt.Errorf("querying dungeon progress of %s: %w", playerID, err)
	}
	var dr []dungeonRow
	err = scanEach(dg, func(rows *sql.Rows) error {
		var row dungeonRow
		if err := rows.Scan(&row.ZoneID, &row.UnlockOrder, &row.UnlockedStage); err != nil {
			return err
		}
		dr = append(dr, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading dungeon progress of %s: %w", playerID, err)
	}
	pr.Dungeon = dungeonFromRows(dr)

	return pr, nil
}

func scanEach(rows *sql.Rows, fn func(*sql.Rows) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// SaveProgress атомарно заменяет сохранённую запись pr.PlayerID.
func (r *SQLiteProgressRepository) SaveProgress(ctx context.Context, pr *model.Progress) error {
	tx, err := r.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction for %s: %w", pr.PlayerID, err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("rollback failed", "player", pr.PlayerID, "error", err)
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO player_progress (player_id, level, exp, exp_to_next, stat_points, hp,
		     alloc_attack, alloc_magic, alloc_defense, alloc_magic_resist, alloc_max_hp, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (player_id) DO UPDATE SET
		     level = excluded.level,
		     exp = excluded.exp,
		     exp_to_next = excluded.exp_to_next,
		     stat_points = excluded.stat_points,
		     hp = excluded.hp,
		     alloc_attack = excluded.alloc_attack,
		     alloc_magic = excluded.alloc_magic,
		     alloc_defense = excluded.alloc_defense,
		     alloc_magic_resist = excluded.alloc_magic_resist,
		     alloc_max_hp = excluded.alloc_max_hp,
		     updated_at = CURRENT_TIMESTAMP`,
		pr.PlayerID, pr.Level, pr.Exp, pr.ExpToNext, pr.StatPoints, pr.HP,
		pr.Allocated.Attack, pr.Allocated.Magic, pr.Allocated.Defense,
		pr.Allocated.MagicResist, pr.Allocated.MaxHP,
	)
	if err != nil {
		return fmt.Errorf("upserting progress of %s: %w", pr.PlayerID, err)
	}

	for _, table := range []string{"player_inventory", "player_equipment", "dungeon_progress"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE player_id = ?`, pr.PlayerID); err != nil {
			return fmt.Errorf("clearing %s of %s: %w", table, pr.PlayerID, err)
		}
	}
	for _, row := range inventoryRows(pr.Inventory) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO player_inventory (player_id, item_id, qty) VALUES (?, ?, ?)`,
			pr.PlayerID, row.ItemID, row.Qty); err != nil {
			return fmt.Errorf("saving inventory of %s: %w", pr.PlayerID, err)
		}
	}
	for _, row := range equipmentRows(pr.Equipment) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO player_equipment (player_id, slot, item_id) VALUES (?, ?, ?)`,
			pr.PlayerID, row.Key, row.ItemID); err != nil {
			return fmt.Errorf("saving equipment of %s: %w", pr.PlayerID, err)
		}
	}
	for _, row := range dungeonRows(pr.Dungeon) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dungeon_progress (player_id, zone_id, unlock_order, unlocked_stage) VALUES (?, ?, ?, ?)`,
			pr.PlayerID, row.ZoneID, row.UnlockOrder, row.UnlockedStage); err != nil {
			return fmt.Errorf("saving dungeon progress of %s: %w", pr.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit progress of %s: %w", pr.PlayerID, err)
	}
	return nil
}

// DeleteProgress удаляет сохранённую запись. Удаление отсутствующей записи не ошибка.
func (r *SQLiteProgressRepository) DeleteProgress(ctx context.Context, playerID string) error {
	if _, err := r.sqlDB.ExecContext(ctx, `DELETE FROM player_progress WHERE player_id = ?`, playerID); err != nil {
		return fmt.Errorf("deleting progress of %s: %w", playerID, err)
	}
	return nil
}

// SelectedPlayer возвращает id последнего активного персонажа, "" если его нет.
func (r *SQLiteProgressRepository) SelectedPlayer(ctx context.Context) (string, error) {
	var id string
	err := r.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM game_settings WHERE key = ?`, settingSelectedPlayer,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying selected player: %w", err)
	}
	return id, nil
}

// SetSelectedPlayer сохраняет id активного персонажа.
func (r *SQLiteProgressRepository) SetSelectedPlayer(ctx context.Context, playerID string) error {
	_, err := r.sqlDB.ExecContext(ctx,
		`INSERT INTO game_settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		settingSelectedPlayer, playerID,
	)
	if err != nil {
		return fmt.Errorf("saving selected player: %w", err)
	}
	return nil
}

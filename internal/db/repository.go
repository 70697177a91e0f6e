package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/dungeonrpg/internal/model"
)

// PostgresProgressRepository хранит прогресс персонажей в PostgreSQL.
type PostgresProgressRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProgressRepository создаёт новый PostgreSQL repository.
func NewPostgresProgressRepository(pool *pgxpool.Pool) *PostgresProgressRepository {
	return &PostgresProgressRepository{pool: pool}
}

// LoadProgress загружает прогресс персонажа.
// Возвращает nil, nil если записи нет.
func (r *PostgresProgressRepository) LoadProgress(ctx context.Context, playerID string) (*model.Progress, error) {
	pr := newLoadedProgress(playerID)
	err := r.pool.QueryRow(ctx,
		`SELECT level, exp, exp_to_next, stat_points, hp,
		        alloc_attack, alloc_magic, alloc_defense, alloc_magic_resist, alloc_max_hp
		 FROM player_progress WHERE player_id = $1`, playerID,
	).Scan(&pr.Level, &pr.Exp, &pr.ExpToNext, &pr.StatPoints, &pr.HP,
		&pr.Allocated.Attack, &pr.Allocated.Magic, &pr.Allocated.Defense,
		&pr.Allocated.MagicResist, &pr.Allocated.MaxHP)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying progress of %s: %w", playerID, err)
	}

	if err := r.loadInventory(ctx, pr); err != nil {
		return nil, err
	}
	if err := r.loadEquipment(ctx, pr); err != nil {
		return nil, err
	}
	if err := r.loadDungeon(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *PostgresProgressRepository) loadInventory(ctx context.Context, pr *model.Progress) error {
	rows, err := r.pool.Query(ctx,
		`SELECT item_id, qty FROM player_inventory WHERE player_id = $1 ORDER BY item_id`, pr.PlayerID)
	if err != nil {
		return fmt.Errorf("querying inventory of %s: %w", pr.PlayerID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return fmt.Errorf("scanning inventory row: %w", err)
		}
		if qty > 0 {
			pr.Inventory.Add(model.NormalizeItemID(id), qty)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating inventory rows: %w", err)
	}
	return nil
}

func (r *PostgresProgressRepository) loadEquipment(ctx context.Context, pr *model.Progress) error {
	rows, err := r.pool.Query(ctx,
		`SELECT slot, item_id FROM player_equipment WHERE player_id = $1`, pr.PlayerID)
	if err != nil {
		return fmt.Errorf("querying equipment of %s: %w", pr.PlayerID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slot, id string
		if err := rows.Scan(&slot, &id); err != nil {
			return fmt.Errorf("scanning equipment row: %w", err)
		}
		setEquipment(pr, slot, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating equipment rows: %w", err)
	}
	return nil
}

func (r *PostgresProgressRepository) loadDungeon(ctx context.Context, pr *model.Progress) error {
	rows, err := r.pool.Query(ctx,
		`SELECT zone_id, unlock_order, unlocked_stage
		 FROM dungeon_progress WHERE player_id = $1
		 ORDER BY unlock_order, zone_id`, pr.PlayerID)
	if err != nil {
		return fmt.Errorf("querying dungeon progress of %s: %w", pr.PlayerID, err)
	}
	dr, err := pgx.CollectRows(rows, pgx.RowToStructByPos[dungeonRow])
	if err != nil {
		return fmt.Errorf("scanning dungeon progress rows: %w", err)
	}
	pr.Dungeon = dungeonFromRows(dr)
	return nil
}

// SaveProgress атомарно заменяет сохранённую запись pr.PlayerID.
func (r *PostgresProgressRepository) SaveProgress(ctx context.Context, pr *model.Progress) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for %s: %w", pr.PlayerID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "player", pr.PlayerID, "error", err)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO player_progress (player_id, level, exp, exp_to_next, stat_points, hp,
		     alloc_attack, alloc_magic, alloc_defense, alloc_magic_resist, alloc_max_hp, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP)
		 ON CONFLICT (player_id) DO UPDATE SET
		     level = EXCLUDED.level,
		     exp = EXCLUDED.exp,
		     exp_to_next = EXCLUDED.exp_to_next,
		     stat_points = EXCLUDED.stat_points,
		     hp = EXCLUDED.hp,
		     alloc_attack = EXCLUDED.alloc_attack,
		     alloc_magic = EXCLUDED.alloc_magic,
		     alloc_defense = EXCLUDED.alloc_defense,
		     alloc_magic_resist = EXCLUDED.alloc_magic_resist,
		     alloc_max_hp = EXCLUDED.alloc_max_hp,
		     updated_at = CURRENT_TIMESTAMP`,
		pr.PlayerID, pr.Level, pr.Exp, pr.ExpToNext, pr.StatPoints, pr.HP,
		pr.Allocated.Attack, pr.Allocated.Magic, pr.Allocated.Defense,
		pr.Allocated.MagicResist, pr.Allocated.MaxHP,
	)
	if err != nil {
		return fmt.Errorf("upserting progress of %s: %w", pr.PlayerID, err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM player_inventory WHERE player_id = $1`, pr.PlayerID)
	batch.Queue(`DELETE FROM player_equipment WHERE player_id = $1`, pr.PlayerID)
	batch.Queue(`DELETE FROM dungeon_progress WHERE player_id = $1`, pr.PlayerID)
	for _, row := range inventoryRows(pr.Inventory) {
		batch.Queue(`INSERT INTO player_inventory (player_id, item_id, qty) VALUES ($1, $2, $3)`,
			pr.PlayerID, row.ItemID, row.Qty)
	}
	for _, row := range equipmentRows(pr.Equipment) {
		batch.Queue(`INSERT INTO player_equipment (player_id, slot, item_id) VALUES ($1, $2, $3)`,
			pr.PlayerID, row.Key, row.ItemID)
	}
	for _, row := range dungeonRows(pr.Dungeon) {
		batch.Queue(`INSERT INTO dungeon_progress (player_id, zone_id, unlock_order, unlocked_stage) VALUES ($1, $2, $3, $4)`,
			pr.PlayerID, row.ZoneID, row.UnlockOrder, row.UnlockedStage)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving rows of %s: %w", pr.PlayerID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit progress of %s: %w", pr.PlayerID, err)
	}
	return nil
}

// DeleteProgress удаляет сохранённую запись. Удаление отсутствующей записи не ошибка.
func (r *PostgresProgressRepository) DeleteProgress(ctx context.Context, playerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM player_progress WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("deleting progress of %s: %w", playerID, err)
	}
	return nil
}

// SelectedPlayer возвращает id последнего активного персонажа, "" если его нет.
func (r *PostgresProgressRepository) SelectedPlayer(ctx context.Context) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM game_settings WHERE key = $1`, settingSelectedPlayer,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying selected player: %w", err)
	}
	return id, nil
}

// SetSelectedPlayer сохраняет id активного персонажа.
func (r *PostgresProgressRepository) SetSelectedPlayer(ctx context.Context, playerID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO game_settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		settingSelectedPlayer, playerID,
	)
	if err != nil {
		return fmt.Errorf("saving selected player: %w", err)
	}
	return nil
}

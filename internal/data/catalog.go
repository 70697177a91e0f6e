package data

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/udisondev/dungeonrpg/internal/model"
)

// Catalog is the validated game content.
// It is read-only during battle; Reload swaps the whole snapshot atomically.
// Lookups never fail: an unknown id yields a fallback and a warning.
type Catalog struct {
	fsys fs.FS

	mu sync.RWMutex
	c  *content
}

// Load reads and validates the content files in fsys.
// Any structural violation is returned as a *ValidationError wrapping ErrInvalidContent.
func Load(ctx context.Context, fsys fs.FS) (*Catalog, error) {
	files, err := readFiles(ctx, fsys)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	c, err := build(files)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	slog.Info("catalog loaded",
		"players", len(c.players),
		"skills", len(c.skills),
		"items", len(c.items),
		"monsters", len(c.monsters),
		"bosses", len(c.dungeonBosses)+len(c.specialBosses),
		"zones", len(c.zones),
		"fingerprint", c.fingerprint[:12])
	return &Catalog{fsys: fsys, c: c}, nil
}

// Reload re-reads and re-validates content. On failure the previous
// content stays active and the error is returned.
// Returns true when the content actually changed.
func (cat *Catalog) Reload(ctx context.Context) (bool, error) {
	files, err := readFiles(ctx, cat.fsys)
	if err != nil {
		return false, fmt.Errorf("reloading catalog: %w", err)
	}
	if files.fingerprint() == cat.Fingerprint() {
		slog.Info("catalog unchanged, reload skipped")
		return false, nil
	}
	c, err := build(files)
	if err != nil {
		return false, fmt.Errorf("reloading catalog: %w", err)
	}

	cat.mu.Lock()
	cat.c = c
	cat.mu.Unlock()

	slog.Info("catalog reloaded", "fingerprint", c.fingerprint[:12])
	return true, nil
}

func (cat *Catalog) snapshot() *content {
	cat.mu.RLock()
	defer cat.mu.RUnlock()
	return cat.c
}

// Fingerprint returns the blake2b-256 hex digest of the loaded files.
func (cat *Catalog) Fingerprint() string {
	return cat.snapshot().fingerprint
}

// Version returns the version field of a content file ("" if absent).
func (cat *Catalog) Version(file string) string {
	return cat.snapshot().version[file]
}

// DefaultPlayerID returns default_player_id from players.yaml, falling
// back to the first profile id in sorted order.
func (cat *Catalog) DefaultPlayerID() string {
	c := cat.snapshot()
	if c.defaultPlayerID != "" {
		return c.defaultPlayerID
	}
	if ids := sortedKeys(c.players); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// PlayerIDs returns all profile ids in sorted order.
func (cat *Catalog) PlayerIDs() []string {
	return sortedKeys(cat.snapshot().players)
}

// HasPlayer reports whether a profile exists.
func (cat *Catalog) HasPlayer(id string) bool {
	_, ok := cat.snapshot().players[id]
	return ok
}

// Profile returns a player profile. Unknown id: 100 max hp, basic attack only.
func (cat *Catalog) Profile(id string) *model.PlayerProfile {
	if p, ok := cat.snapshot().players[id]; ok {
		return p
	}
	slog.Warn("player profile not found, using fallback", "player", id)
	return &model.PlayerProfile{
		ID:        id,
		Name:      id,
		BaseStats: model.Stats{MaxHP: 100},
		Skills:    []string{model.BasicAttackID},
	}
}

// Skill returns a skill template. Unknown id resolves to the basic attack.
func (cat *Catalog) Skill(id string) *model.SkillTemplate {
	if s, ok := cat.snapshot().skills[id]; ok {
		return s
	}
	slog.Warn("skill not found, using basic attack", "skill", id)
	return model.BasicAttack()
}

// LookupItem implements model.ItemCatalog.
func (cat *Catalog) LookupItem(id string) (*model.ItemTemplate, bool) {
	t, ok := cat.snapshot().items[id]
	return t, ok
}

// Item returns an item template. Unknown id: a stat-less material named after the id.
func (cat *Catalog) Item(id string) *model.ItemTemplate {
	if t, ok := cat.LookupItem(id); ok {
		return t
	}
	slog.Warn("item not found, using fallback", "item", id)
	return &model.ItemTemplate{ID: id, Name: id, Type: model.ItemTypeMaterial, Rarity: "common"}
}

// ItemName returns the display name of an item, or the id itself.
func (cat *Catalog) ItemName(id string) string {
	if t, ok := cat.LookupItem(id); ok {
		return t.Name
	}
	return id
}

// DropTable returns the entries of a drop table. Unknown id: nil.
func (cat *Catalog) DropTable(id string) []model.DropEntry {
	entries, ok := cat.snapshot().dropTables[id]
	if !ok {
		slog.Warn("drop table not found", "drop_table", id)
		return nil
	}
	return entries
}

// Monster returns a monster template. Unknown id: 1 hp, basic attack only.
func (cat *Catalog) Monster(id string) *model.MonsterTemplate {
	if m, ok := cat.snapshot().monsters[id]; ok {
		return m
	}
	slog.Warn("monster not found, using fallback", "monster", id)
	return fallbackMonster(id)
}

// Boss returns a dungeon or special boss template. Unknown id: fallback monster.
func (cat *Catalog) Boss(id string) *model.MonsterTemplate {
	if b := cat.snapshot().boss(id); b != nil {
		return b
	}
	slog.Warn("boss not found, using fallback", "boss", id)
	return fallbackMonster(id)
}

// HasBoss reports whether id names a dungeon or special boss.
func (cat *Catalog) HasBoss(id string) bool {
	return cat.snapshot().boss(id) != nil
}

// SpecialBossIDs returns special boss ids in sorted order.
func (cat *Catalog) SpecialBossIDs() []string {
	return sortedKeys(cat.snapshot().specialBosses)
}

// IsSpecialBoss reports whether id names a special boss.
func (cat *Catalog) IsSpecialBoss(id string) bool {
	_, ok := cat.snapshot().specialBosses[id]
	return ok
}

// DungeonBossID finds the dungeon boss for a zone.
func (cat *Catalog) DungeonBossID(zone string) (string, bool) {
	return cat.snapshot().dungeonBossID(zone)
}

// Stage returns a dungeon stage. Unknown zone or stage: an empty stage.
func (cat *Catalog) Stage(zone, stage string) *model.StageTemplate {
	c := cat.snapshot()
	z, ok := c.zones[zone]
	if !ok {
		slog.Warn("zone not found, using empty stage", "zone", zone, "stage", stage)
		return &model.StageTemplate{ID: stage}
	}
	st, ok := z.Stages[stage]
	if !ok {
		slog.Warn("stage not found, using empty stage", "zone", zone, "stage", stage)
		return &model.StageTemplate{ID: stage}
	}
	return st
}

// HasStage reports whether zone/stage is defined in dungeons.yaml.
func (cat *Catalog) HasStage(zone, stage string) bool {
	z, ok := cat.snapshot().zones[zone]
	if !ok {
		return false
	}
	_, ok = z.Stages[stage]
	return ok
}

func fallbackMonster(id string) *model.MonsterTemplate {
	return &model.MonsterTemplate{
		ID:     id,
		Name:   id,
		Stats:  model.Stats{MaxHP: 1},
		AI:     model.AIBasic,
		Skills: []string{model.BasicAttackID},
	}
}

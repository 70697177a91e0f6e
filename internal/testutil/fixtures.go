package testutil

import (
	"context"
	"maps"
	"testing"
	"testing/fstest"

	"github.com/udisondev/dungeonrpg/internal/data"
)

// FixtureFiles is a small but complete content set for tests.
var FixtureFiles = map[string]string{
	data.FilePlayers: `
version: "1.0.0"
default_player_id: knight
players:
  knight:
    name: Knight
    base_stats: {attack: 20, magic: 0, defense: 5, magic_resist: 2, max_hp: 100}
    skills: [power_strike, stun_bash, drain, war_cry, rend, __basic__]
  mage:
    name: Mage
    base_stats: {attack: 5, magic: 20, defense: 2, magic_resist: 8, max_hp: 80}
    skills: [fireball, forgotten_spell]
`,
	data.FileSkills: `
version: "1.0.0"
skills:
  power_strike:
    name: Power Strike
    type: physical
    base_physical: 20
    base_magic: 0
    scale: {attack: 1.0, magic: 0}
  stun_bash:
    name: Stun Bash
    base_physical: 5
    base_magic: 0
    scale: {attack: 0.5, magic: 0}
    apply_effect: {type: stun, target: enemy, duration: 1}
  drain:
    name: Drain
    base_physical: 10
    base_magic: 0
    scale: {attack: 0.5, magic: 0}
    apply_effect:
      - {type: lifesteal, power: 0.5}
  war_cry:
    name: War Cry
    base_physical: 0
    base_magic: 0
    scale: {attack: 0, magic: 0}
    apply_effect:
      - {type: buff_stats, target: self, duration: 2, stats: {attack: 10}}
  rend:
    name: Rend
    base_physical: 0
    base_magic: 0
    scale: {attack: 0, magic: 0}
    apply_effect: {effect: bleed, target: enemy, duration: 3, power: 4}
  fireball:
    name: Fireball
    type: magic
    base_physical: 0
    base_magic: 15
    scale: {attack: 0, magic: 1.0}
`,
	data.FileItems: `
version: "1.0.0"
items:
  potion_small:
    name: Small Potion
    type: consumable
    stats: {attack: 0, magic: 0, defense: 0, magic_resist: 0, max_hp: 0}
    use_effect: {type: heal, target: self, power: 30}
  antidote:
    name: Antidote
    type: consumable
    stats: {attack: 0, magic: 0, defense: 0, magic_resist: 0, max_hp: 0}
    use_effect: {type: cleanse, target: self, remove: [bleed, debuff_stats]}
  elixir:
    name: Elixir
    type: consumable
    stats: {attack: 0, magic: 0, defense: 0, magic_resist: 0, max_hp: 0}
    use_effect: {type: buff_stats, target: self, duration: 3, stats: {attack: 5, max_hp: 20}}
  iron_sword:
    name: Iron Sword
    type: equipment
    slot: weapon
    stats: {attack: 5, magic: 0, defense: 0, magic_resist: 0, max_hp: 0}
  leather_armor:
    name: Leather Armor
    type: equipment
    slot: armor
    stats: {attack: 0, magic: 0, defense: 3, magic_resist: 0, max_hp: 20}
  bleed_ring:
    name: Ring of Thorns
    type: equipment
    slot: accessory
    stats: {attack: 0, magic: 0, defense: 0, magic_resist: 0, max_hp: 0}
    special: {type: on_hit, chance: 1.0, effect: bleed, duration: 2, power: 3}
  power_ring:
    name: Ring of Might
    type: equipment
    slot: accessory
    stats: {attack: 0, magic: 0, defense: 0, magic_resist: 0, max_hp: 0}
    special: {type: stat_multiplier, stat: attack, mult: 1.5}
  slime_gel:
    name: Slime Gel
    type: material
    stats: {attack: 0, magic: 0, defense: 0, magic_resist: 0, max_hp: 0}
drop_tables:
  slime_drops:
    - {item: slime_gel, chance: 1.0, min: 2, max: 2}
    - {item: potion_small, chance: 0.0, min: 1, max: 1}
  boss_drops:
    - {item: iron_sword, chance: 1.0, min: 1, max: 1}
`,
	data.FileMonsters: `
version: "1.0.0"
monsters:
  slime:
    name: Slime
    stats: {attack: 8, magic: 0, defense: 2, magic_resist: 0, max_hp: 30}
    ai: basic
    skills: [__basic__]
    drop_table: slime_drops
  goblin:
    name: Goblin
    stats: {attack: 12, magic: 0, defense: 3, magic_resist: 1, max_hp: 50}
    skills: [__basic__, power_strike]
`,
	data.FileBosses: `
version: "1.0.0"
dungeon_bosses:
  zone1_boss:
    name: Slime King
    stats: {attack: 15, magic: 0, defense: 4, magic_resist: 2, max_hp: 200}
    ai: boss
    skills: [__basic__]
    drop_table: boss_drops
    gimmicks:
      - trigger: every_n_turns
        n: 3
        once: false
        action: {type: apply_effect, target: self, effect: buff_stats, duration: 1, stats: {defense: 1}}
  crypt_2_lord:
    name: Crypt Lord
    stats: {attack: 25, magic: 10, defense: 8, magic_resist: 6, max_hp: 300}
    ai: boss
    skills: [__basic__]
special_bosses:
  ancient_dragon:
    name: Ancient Dragon
    stats: {attack: 40, magic: 30, defense: 15, magic_resist: 15, max_hp: 1000}
    ai: boss
    skills: [__basic__]
    gimmicks:
      - trigger: hp_below
        ratio: 0.5
        once: true
        action: {type: apply_effect, target: player, effect: stun, duration: 2}
`,
	data.FileDungeons: `
version: "1.0.0"
zones:
  "1":
    stages:
      "1": {monster_pool: [slime], exp: 10}
      "2": {monster_pool: [slime, goblin], exp: 12}
      "3": {monster_pool: [goblin], exp: 15}
      "4": {monster_pool: [goblin], exp: 18}
      "5": {monster_pool: [goblin], exp: 40}
  "2":
    stages:
      "1": {monster_pool: [goblin], exp: 20}
      "5": {monster_pool: [], exp: 80}
`,
}

// FixtureFS returns the fixture content as an fs.FS. overrides replace
// (or with "" remove) individual files.
func FixtureFS(overrides map[string]string) fstest.MapFS {
	files := maps.Clone(FixtureFiles)
	maps.Copy(files, overrides)

	fsys := fstest.MapFS{}
	for name, body := range files {
		if body == "" {
			continue
		}
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

// Catalog loads the fixture content through the real loader.
func Catalog(tb testing.TB) *data.Catalog {
	tb.Helper()
	cat, err := data.Load(context.Background(), FixtureFS(nil))
	if err != nil {
		tb.Fatalf("loading fixture catalog: %v", err)
	}
	return cat
}

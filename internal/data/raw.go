package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Raw YAML shapes. Pointer fields distinguish "missing" from zero.

type rawStats struct {
	Attack      *float64 `yaml:"attack"`
	Magic       *float64 `yaml:"magic"`
	Defense     *float64 `yaml:"defense"`
	MagicResist *float64 `yaml:"magic_resist"`
	MaxHP       *float64 `yaml:"max_hp"`
}

type rawPlayersFile struct {
	Version         string                `yaml:"version"`
	DefaultPlayerID string                `yaml:"default_player_id"`
	Players         map[string]*rawPlayer `yaml:"players"`
}

type rawPlayer struct {
	Name      string    `yaml:"name"`
	BaseStats *rawStats `yaml:"base_stats"`
	Skills    []string  `yaml:"skills"`
}

type rawSkillsFile struct {
	Version string               `yaml:"version"`
	Skills  map[string]*rawSkill `yaml:"skills"`
}

type rawSkill struct {
	Name         *string       `yaml:"name"`
	Type         string        `yaml:"type"`
	BasePhysical *float64      `yaml:"base_physical"`
	BaseMagic    *float64      `yaml:"base_magic"`
	Scale        *rawScale     `yaml:"scale"`
	Cost         int           `yaml:"cost"`
	Cooldown     int           `yaml:"cooldown"`
	ApplyEffect  rawEffectList `yaml:"apply_effect"`
}

type rawScale struct {
	Attack *float64 `yaml:"attack"`
	Magic  *float64 `yaml:"magic"`
}

// rawEffect is one apply_effect entry. "effect" is accepted as an alias of "type".
type rawEffect struct {
	Type     string         `yaml:"type"`
	Effect   string         `yaml:"effect"`
	Target   string         `yaml:"target"`
	Chance   *float64       `yaml:"chance"`
	Duration int            `yaml:"duration"`
	Power    float64        `yaml:"power"`
	Stats    map[string]int `yaml:"stats"`
	Source   string         `yaml:"source"`
	Note     string         `yaml:"note"`
}

func (r *rawEffect) kind() string {
	if r.Type != "" {
		return r.Type
	}
	return r.Effect
}

// rawEffectList accepts apply_effect as a single mapping or a list of mappings.
// Non-mapping list entries are dropped.
type rawEffectList []rawEffect

func (l *rawEffectList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var one rawEffect
		if err := node.Decode(&one); err != nil {
			return err
		}
		*l = rawEffectList{one}
		return nil
	case yaml.SequenceNode:
		out := make(rawEffectList, 0, len(node.Content))
		for _, child := range node.Content {
			if child.Kind != yaml.MappingNode {
				continue
			}
			var e rawEffect
			if err := child.Decode(&e); err != nil {
				return err
			}
			out = append(out, e)
		}
		*l = out
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
	}
	return fmt.Errorf("line %d: apply_effect must be a mapping or a list", node.Line)
}

type rawItemsFile struct {
	Version    string                  `yaml:"version"`
	Items      map[string]*rawItem     `yaml:"items"`
	DropTables map[string][]rawDropRow `yaml:"drop_tables"`
}

type rawItem struct {
	Name      string        `yaml:"name"`
	Type      string        `yaml:"type"`
	Rarity    string        `yaml:"rarity"`
	Desc      string        `yaml:"desc"`
	Slot      string        `yaml:"slot"`
	Stats     *rawStats     `yaml:"stats"`
	Special   *rawSpecial   `yaml:"special"`
	UseEffect *rawUseEffect `yaml:"use_effect"`
}

type rawSpecial struct {
	Type     string  `yaml:"type"`
	Chance   float64 `yaml:"chance"`
	Effect   string  `yaml:"effect"`
	Duration *int    `yaml:"duration"`
	Power    float64 `yaml:"power"`
	Stat     string  `yaml:"stat"`
	Mult     float64 `yaml:"mult"`
}

type rawUseEffect struct {
	Type     string         `yaml:"type"`
	Target   string         `yaml:"target"`
	Power    float64        `yaml:"power"`
	Remove   yaml.Node      `yaml:"remove"`
	Duration int            `yaml:"duration"`
	Stats    map[string]int `yaml:"stats"`
}

type rawDropRow struct {
	Item   string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	Min    *int    `yaml:"min"`
	Max    *int    `yaml:"max"`
}

type rawMonstersFile struct {
	Version  string                 `yaml:"version"`
	Monsters map[string]*rawMonster `yaml:"monsters"`
}

type rawBossesFile struct {
	Version       string                 `yaml:"version"`
	DungeonBosses map[string]*rawMonster `yaml:"dungeon_bosses"`
	SpecialBosses map[string]*rawMonster `yaml:"special_bosses"`
}

type rawMonster struct {
	Name      string       `yaml:"name"`
	Stats     *rawStats    `yaml:"stats"`
	AI        string       `yaml:"ai"`
	Skills    []string     `yaml:"skills"`
	Gimmicks  []rawGimmick `yaml:"gimmicks"`
	DropTable string       `yaml:"drop_table"`
}

type rawGimmick struct {
	Trigger string           `yaml:"trigger"`
	N       *int             `yaml:"n"`
	Ratio   float64          `yaml:"ratio"`
	Once    bool             `yaml:"once"`
	Action  rawGimmickAction `yaml:"action"`
}

type rawGimmickAction struct {
	Type     string         `yaml:"type"`
	Target   string         `yaml:"target"`
	Effect   string         `yaml:"effect"`
	Duration *int           `yaml:"duration"`
	Power    float64        `yaml:"power"`
	Stats    map[string]int `yaml:"stats"`
}

type rawDungeonsFile struct {
	Version string              `yaml:"version"`
	Zones   map[string]*rawZone `yaml:"zones"`
}

type rawZone struct {
	Stages map[string]*rawStage `yaml:"stages"`
}

type rawStage struct {
	MonsterPool []string `yaml:"monster_pool"`
	BossID      string   `yaml:"boss_id"`
	Exp         int      `yaml:"exp"`
}

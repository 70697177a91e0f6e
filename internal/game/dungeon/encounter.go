package dungeon

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/random"
)

var (
	// ErrUnknownStage is returned for a zone/stage pair absent from the content.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrEmptyPool is returned when a stage has neither a boss nor monsters.
	ErrEmptyPool = errors.New("stage has no monsters")
)

// StageCatalog is what enemy selection needs from the content catalog.
type StageCatalog interface {
	HasStage(zone, stage string) bool
	Stage(zone, stage string) *model.StageTemplate
	DungeonBossID(zone string) (string, bool)
	HasBoss(id string) bool
	Boss(id string) *model.MonsterTemplate
	Monster(id string) *model.MonsterTemplate
}

// Encounter is the opponent chosen for a stage.
type Encounter struct {
	Enemy       *model.Enemy
	ExpectedExp int
	DropTable   string
}

// Encounter picks the opponent for zone/stage.
//
// The final stage of a zone is fought against its boss: the stage's explicit
// boss id, else the zone's dungeon boss. Without a known boss, and on every
// other stage, a monster is drawn uniformly from the stage pool.
func (r Rules) Encounter(cat StageCatalog, rng random.Source, zone string, stage int) (*Encounter, error) {
	stageID := strconv.Itoa(stage)
	if !cat.HasStage(zone, stageID) {
		return nil, fmt.Errorf("zone %s stage %d: %w", zone, stage, ErrUnknownStage)
	}
	st := cat.Stage(zone, stageID)

	if r.IsBossStage(stage) {
		if bossID := r.bossFor(cat, st, zone); bossID != "" {
			enemy := model.NewEnemy(cat.Boss(bossID), true)
			return &Encounter{
				Enemy:       enemy,
				ExpectedExp: st.Exp,
				DropTable:   enemy.DropTable(),
			}, nil
		}
	}

	if len(st.MonsterPool) == 0 {
		return nil, fmt.Errorf("zone %s stage %d: %w", zone, stage, ErrEmptyPool)
	}
	monsterID := st.MonsterPool[rng.IntN(len(st.MonsterPool))]
	enemy := model.NewEnemy(cat.Monster(monsterID), false)
	return &Encounter{
		Enemy:       enemy,
		ExpectedExp: st.Exp,
		DropTable:   enemy.DropTable(),
	}, nil
}

func (r Rules) bossFor(cat StageCatalog, st *model.StageTemplate, zone string) string {
	bossID := st.BossID
	if bossID == "" {
		bossID, _ = cat.DungeonBossID(zone)
	}
	if bossID == "" || !cat.HasBoss(bossID) {
		return ""
	}
	return bossID
}

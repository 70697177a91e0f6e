package ai

import (
	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/random"
)

// BattleView is the read-only part of a battle an AI may look at.
type BattleView interface {
	// Turn returns the 1-based turn counter.
	Turn() int
	// TurnIndex returns the counter used by every_n_turns gimmicks.
	TurnIndex() int
	// Opponent returns the combatant the enemy fights against.
	Opponent() model.Combatant
}

// EnemyAI picks the skill an enemy uses on its turn.
// Gimmicks are evaluated by the battle engine before ChooseSkill is called.
type EnemyAI interface {
	// ChooseSkill returns a skill id from the enemy's list
	// (model.BasicAttackID when the list is empty).
	ChooseSkill(enemy *model.Enemy, view BattleView, rng random.Source) string
}

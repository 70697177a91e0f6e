package ai

import (
	"log/slog"

	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/random"
)

// RandomSkillAI picks a skill uniformly from the enemy skill list.
// Serves both "basic" and "boss"; bosses differ only by gimmicks.
type RandomSkillAI struct{}

// ChooseSkill implements EnemyAI.
func (RandomSkillAI) ChooseSkill(enemy *model.Enemy, view BattleView, rng random.Source) string {
	skills := enemy.Skills()
	if len(skills) == 0 {
		return model.BasicAttackID
	}

	choice := skills[rng.IntN(len(skills))]
	if IsDebugEnabled() {
		turn := 0
		if view != nil {
			turn = view.Turn()
		}
		slog.Debug("enemy skill chosen",
			"enemy", enemy.ID(),
			"skill", choice,
			"turn", turn,
			"options", len(skills))
	}
	return choice
}

package itemhandler

import (
	"strings"

	"github.com/udisondev/dungeonrpg/internal/game/skill"
	"github.com/udisondev/dungeonrpg/internal/model"
)

// healHandler restores power hp, clamped to total max hp.
type healHandler struct{}

func (healHandler) Use(env *skill.Env, player *model.Player, item *model.ItemTemplate) (string, bool) {
	skill.ApplyEffect(env, player, model.EffectSpec{
		Kind:   model.EffectHeal,
		Target: model.TargetSelf,
		Chance: 1,
		Power:  float64(item.UseEffect.Power),
		Source: item.ID,
	})
	return "healed", true
}

// cleanseHandler removes effects whose kind is listed in remove.
// Nothing to remove reports no change.
type cleanseHandler struct{}

func (cleanseHandler) Use(env *skill.Env, player *model.Player, item *model.ItemTemplate) (string, bool) {
	kinds := item.UseEffect.Remove
	if skill.Cleanse(env, player, kinds) == 0 {
		if env.Log != nil {
			env.Log.Add("Nothing to cleanse.")
		}
		return "no change", false
	}

	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	if env.Log != nil {
		env.Log.Addf("%s removed!", strings.Join(names, "/"))
	}
	return "cleansed", true
}

// buffHandler attaches a self buff_stats, then clamps hp to the new max.
type buffHandler struct{}

func (buffHandler) Use(env *skill.Env, player *model.Player, item *model.ItemTemplate) (string, bool) {
	skill.ApplyEffect(env, player, model.EffectSpec{
		Kind:     model.EffectBuffStats,
		Target:   model.TargetSelf,
		Chance:   1,
		Duration: max(1, item.UseEffect.Duration),
		Stats:    item.UseEffect.Stats,
		Source:   item.ID,
	})
	player.SyncHPToTotal(env.Items)
	return "buff applied", true
}

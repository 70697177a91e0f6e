package skill

import "github.com/udisondev/dungeonrpg/internal/model"

// StatsEffect handles buff_stats and debuff_stats. The delta is carried
// by the instance and summed by Actor.EffectBonus while active.
type StatsEffect struct {
	kind model.EffectKind
}

func (e StatsEffect) Kind() model.EffectKind { return e.kind }
func (StatsEffect) IsInstant() bool          { return false }

func (e StatsEffect) OnApply(env *Env, target model.Combatant, inst *model.EffectInstance) {
	label := "buff"
	if e.kind == model.EffectDebuffStats {
		label = "debuff"
	}
	env.logf("%s gains %s: %s (%d turns)", target.Name(), label, formatDelta(inst.Delta), inst.Remaining)
}

func (StatsEffect) OnTick(*Env, model.Combatant, *model.EffectInstance) {}

// OnExit clamps hp when an expiring max_hp bonus lowers the maximum.
func (StatsEffect) OnExit(env *Env, target model.Combatant, _ *model.EffectInstance) {
	if maxHP := env.maxHP(target); target.HP() > maxHP {
		target.SetHP(maxHP)
	}
}

package skill

import "github.com/udisondev/dungeonrpg/internal/model"

// HealEffect restores int(power) hp instantly, clamped to total max hp.
type HealEffect struct{}

func (HealEffect) Kind() model.EffectKind { return model.EffectHeal }
func (HealEffect) IsInstant() bool        { return true }

func (HealEffect) OnApply(env *Env, target model.Combatant, inst *model.EffectInstance) {
	amount := int(inst.Power)
	before := target.HP()
	target.SetHP(min(env.maxHP(target), before+amount))
	env.logf("%s recovers %d HP (%d -> %d)", target.Name(), amount, before, target.HP())
}

func (HealEffect) OnTick(*Env, model.Combatant, *model.EffectInstance) {}
func (HealEffect) OnExit(*Env, model.Combatant, *model.EffectInstance) {}

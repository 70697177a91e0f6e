package skill

import "github.com/udisondev/dungeonrpg/internal/model"

// BleedEffect deals int(power) damage at every end of turn. It can kill.
type BleedEffect struct{}

func (BleedEffect) Kind() model.EffectKind { return model.EffectBleed }
func (BleedEffect) IsInstant() bool        { return false }

func (BleedEffect) OnApply(env *Env, target model.Combatant, inst *model.EffectInstance) {
	env.logf("%s is bleeding! (%d turns)", target.Name(), inst.Remaining)
}

func (BleedEffect) OnTick(env *Env, target model.Combatant, inst *model.EffectInstance) {
	before := target.HP()
	target.ApplyDamage(int(inst.Power))
	env.logf("%s takes %d bleed damage (HP %d -> %d)", target.Name(), int(inst.Power), before, target.HP())
}

func (BleedEffect) OnExit(*Env, model.Combatant, *model.EffectInstance) {}

package skill

import "github.com/udisondev/dungeonrpg/internal/model"

// StunEffect blocks the holder's action while active. See CanAct.
type StunEffect struct{}

func (StunEffect) Kind() model.EffectKind { return model.EffectStun }
func (StunEffect) IsInstant() bool        { return false }

func (StunEffect) OnApply(env *Env, target model.Combatant, inst *model.EffectInstance) {
	env.logf("%s is stunned! (%d turns)", target.Name(), inst.Remaining)
}

func (StunEffect) OnTick(*Env, model.Combatant, *model.EffectInstance) {}
func (StunEffect) OnExit(*Env, model.Combatant, *model.EffectInstance) {}

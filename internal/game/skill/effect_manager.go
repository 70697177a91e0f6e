package skill

import (
	"log/slog"
	"slices"

	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/random"
)

// ApplyEffect resolves one effect spec against target.
//
// The chance gate runs first (chance >= 1 skips the roll). heal resolves
// immediately; buff_stats, debuff_stats, bleed and stun append a new
// instance without merging with existing ones of the same kind.
// lifesteal is resolved by the attacker's skill code and ignored here.
// Unknown kinds are logged and ignored.
// Returns true when the effect took place.
func ApplyEffect(env *Env, target model.Combatant, spec model.EffectSpec) bool {
	if spec.Chance < 1 && !random.Roll(env.Rand, spec.Chance) {
		env.logf("%s effect on %s failed!", spec.Kind, target.Name())
		return false
	}
	if spec.Kind == model.EffectLifesteal {
		return false
	}

	e, ok := LookupEffect(spec.Kind)
	if !ok {
		slog.Warn("unknown effect kind ignored", "kind", spec.Kind, "target", target.Name())
		env.logf("Unknown effect: %s", spec.Kind)
		return false
	}

	inst := &model.EffectInstance{
		Kind:      spec.Kind,
		Remaining: spec.Duration,
		Power:     spec.Power,
		Delta:     spec.Stats,
		Source:    spec.Source,
	}
	if !e.IsInstant() {
		target.AddEffect(inst)
	}
	e.OnApply(env, target, inst)
	return true
}

// TickEndOfTurn runs per-turn damage and decrements every effect's duration.
// For each instance, in order: OnTick (bleed damage), decrement, drop on 0.
func TickEndOfTurn(env *Env, target model.Combatant) {
	current := target.Effects()
	if len(current) == 0 {
		return
	}

	kept := make([]*model.EffectInstance, 0, len(current))
	var expired []*model.EffectInstance
	for _, inst := range current {
		e, known := LookupEffect(inst.Kind)
		if known {
			e.OnTick(env, target, inst)
		}
		if inst.Tick() {
			kept = append(kept, inst)
			continue
		}
		expired = append(expired, inst)
	}
	target.SetEffects(kept)

	for _, inst := range expired {
		env.logf("%s's %s wore off", target.Name(), inst.Kind)
		if e, ok := LookupEffect(inst.Kind); ok {
			e.OnExit(env, target, inst)
		}
	}
}

// CanAct reports false (and logs) when actor carries an active stun.
func CanAct(env *Env, actor model.Combatant) bool {
	for _, inst := range actor.Effects() {
		if inst.Kind == model.EffectStun && inst.Active() {
			env.logf("%s is stunned and cannot move!", actor.Name())
			return false
		}
	}
	return true
}

// ClearAll drops every effect on actor.
func ClearAll(actor model.Combatant) {
	actor.ClearEffects()
}

// Cleanse removes effects whose kind is listed in kinds.
// Returns the number of removed instances.
func Cleanse(env *Env, actor model.Combatant, kinds []model.EffectKind) int {
	current := actor.Effects()
	kept := make([]*model.EffectInstance, 0, len(current))
	var removed []*model.EffectInstance
	for _, inst := range current {
		if slices.Contains(kinds, inst.Kind) {
			removed = append(removed, inst)
			continue
		}
		kept = append(kept, inst)
	}
	if len(removed) == 0 {
		return 0
	}
	actor.SetEffects(kept)
	for _, inst := range removed {
		if e, ok := LookupEffect(inst.Kind); ok {
			e.OnExit(env, actor, inst)
		}
	}
	return len(removed)
}

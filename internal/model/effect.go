package model

// EffectKind is the tag of a timed or instant effect.
type EffectKind string

const (
	EffectHeal        EffectKind = "heal"
	EffectLifesteal   EffectKind = "lifesteal"
	EffectBuffStats   EffectKind = "buff_stats"
	EffectDebuffStats EffectKind = "debuff_stats"
	EffectBleed       EffectKind = "bleed"
	EffectStun        EffectKind = "stun"
)

// ModifiesStats reports whether instances of this kind contribute stat deltas.
func (k EffectKind) ModifiesStats() bool {
	return k == EffectBuffStats || k == EffectDebuffStats
}

// EffectTarget resolves relative to the actor that applies the effect.
type EffectTarget string

const (
	TargetSelf  EffectTarget = "self"
	TargetEnemy EffectTarget = "enemy"
)

// EffectSpec is a normalized effect description from the catalog
// (skill apply_effect, accessory on_hit or boss gimmick action).
type EffectSpec struct {
	Kind     EffectKind
	Target   EffectTarget
	Chance   float64 // 1.0 = always
	Duration int     // turns
	Power    float64
	Stats    Stats // delta for buff_stats/debuff_stats
	Source   string
}

// EffectInstance is a timed effect attached to exactly one actor.
type EffectInstance struct {
	Kind      EffectKind
	Remaining int // turns left
	Power     float64
	Delta     Stats
	Source    string
}

// Active reports whether the effect still has turns left.
func (e *EffectInstance) Active() bool {
	return e.Remaining > 0
}

// Tick decrements the remaining duration by one turn.
// Returns true if the effect is still active.
func (e *EffectInstance) Tick() bool {
	e.Remaining--
	return e.Remaining > 0
}

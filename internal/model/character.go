package model

// Actor is the base battle entity (Player, Enemy).
// It holds base stats, current HP, the skill list and active effects.
type Actor struct {
	name    string
	stats   Stats
	hp      int
	skills  []string
	effects []*EffectInstance
}

// NewActor creates an actor. hp <= 0 means full HP (base max_hp).
func NewActor(name string, base Stats, hp int, skills []string) *Actor {
	if hp <= 0 {
		hp = base.MaxHP
	}
	return &Actor{
		name:   name,
		stats:  base,
		hp:     hp,
		skills: append([]string(nil), skills...),
	}
}

// Combatant is what the battle engine and the effect system operate on.
// *Player and *Enemy both implement it; Player overrides TotalStats.
type Combatant interface {
	Name() string
	HP() int
	SetHP(hp int)
	ApplyDamage(amount int)
	IsDead() bool
	Skills() []string
	TotalStats(items ItemCatalog) Stats
	Effects() []*EffectInstance
	AddEffect(e *EffectInstance)
	SetEffects(effects []*EffectInstance)
	ClearEffects()
}

// Name returns the actor name.
func (a *Actor) Name() string {
	return a.name
}

// BaseStats returns the base stats without bonuses.
func (a *Actor) BaseStats() Stats {
	return a.stats
}

// HP returns the current HP.
func (a *Actor) HP() int {
	return a.hp
}

// SetHP sets hp with a floor at 0. Upper clamping is the caller's job
// because the max depends on equipment and effects.
func (a *Actor) SetHP(hp int) {
	if hp < 0 {
		hp = 0
	}
	a.hp = hp
}

// ApplyDamage reduces hp by amount, never below 0.
func (a *Actor) ApplyDamage(amount int) {
	a.SetHP(a.hp - amount)
}

// IsDead returns true when hp reached 0.
func (a *Actor) IsDead() bool {
	return a.hp <= 0
}

// Skills returns the skill id list.
func (a *Actor) Skills() []string {
	return a.skills
}

// SetSkills replaces the skill id list.
func (a *Actor) SetSkills(skills []string) {
	a.skills = append([]string(nil), skills...)
}

// Effects returns active effects (live slice, not a copy).
func (a *Actor) Effects() []*EffectInstance {
	return a.effects
}

// AddEffect appends an effect instance. Same-kind instances coexist.
func (a *Actor) AddEffect(e *EffectInstance) {
	a.effects = append(a.effects, e)
}

// SetEffects replaces the effect list.
func (a *Actor) SetEffects(effects []*EffectInstance) {
	a.effects = effects
}

// ClearEffects drops every effect.
func (a *Actor) ClearEffects() {
	a.effects = nil
}

// HasEffect reports whether an active effect of the given kind is present.
func (a *Actor) HasEffect(kind EffectKind) bool {
	for _, e := range a.effects {
		if e.Kind == kind && e.Active() {
			return true
		}
	}
	return false
}

// EffectBonus sums stat deltas of active buff/debuff effects.
func (a *Actor) EffectBonus() Stats {
	var bonus Stats
	for _, e := range a.effects {
		if !e.Active() || !e.Kind.ModifiesStats() {
			continue
		}
		bonus = bonus.WithBonus(e.Delta)
	}
	return bonus
}

// TotalStats returns base stats plus active effect deltas.
// Items are ignored: only players carry equipment.
func (a *Actor) TotalStats(_ ItemCatalog) Stats {
	return a.stats.WithBonus(a.EffectBonus())
}

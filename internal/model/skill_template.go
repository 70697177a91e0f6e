package model

// BasicAttackID is the id of the built-in virtual basic attack skill.
const BasicAttackID = "__basic__"

// SkillScale multiplies the attacker's attack/magic stats.
type SkillScale struct {
	Attack float64
	Magic  float64
}

// SkillTemplate describes a skill from skills.yaml.
// Cost and Cooldown are tracked by the UI; the engine ignores them.
type SkillTemplate struct {
	ID           string
	Name         string
	DamageType   string
	BasePhysical float64
	BaseMagic    float64
	Scale        SkillScale
	Cost         int
	Cooldown     int
	Effects      []EffectSpec
}

// BasicAttack returns the built-in basic attack: 10 physical, 0.2 attack scale, no effects.
func BasicAttack() *SkillTemplate {
	return &SkillTemplate{
		ID:           BasicAttackID,
		Name:         "Basic Attack",
		DamageType:   "physical",
		BasePhysical: 10,
		Scale:        SkillScale{Attack: 0.2},
	}
}

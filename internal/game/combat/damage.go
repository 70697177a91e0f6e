package combat

import (
	"math"

	"github.com/udisondev/dungeonrpg/internal/model"
)

// CalcDamage computes skill damage from attacker stats atk against defender stats def.
//
//	physical   = base_physical + atk.attack * scale.attack
//	magical    = base_magic    + atk.magic  * scale.magic
//	phys_final = max(0, physical - def.defense      * scale.attack)
//	mag_final  = max(0, magical  - def.magic_resist * scale.magic)
//
// Mitigation uses the attacking skill's scale, not a separate defensive factor.
// Both components are floored separately; total damage is physical + magic.
func CalcDamage(s *model.SkillTemplate, atk, def model.Stats) (physical, magic int) {
	phys := s.BasePhysical + float64(atk.Attack)*s.Scale.Attack
	mag := s.BaseMagic + float64(atk.Magic)*s.Scale.Magic

	physFinal := math.Max(0, phys-float64(def.Defense)*s.Scale.Attack)
	magFinal := math.Max(0, mag-float64(def.MagicResist)*s.Scale.Magic)

	return int(math.Floor(physFinal)), int(math.Floor(magFinal))
}

package model

// PlayerProfile is a static character profile from players.yaml.
type PlayerProfile struct {
	ID        string
	Name      string
	BaseStats Stats
	Skills    []string
}

// Player is the controlled character: an Actor plus progression, inventory and equipment.
type Player struct {
	*Actor

	id         string
	level      int
	exp        int
	expToNext  int
	statPoints int
	inventory  Inventory
	equipment  Equipment
	allocated  Stats
}

// NewPlayer creates a level 1 player at full base hp with empty inventory and equipment.
func NewPlayer(profile *PlayerProfile) *Player {
	return &Player{
		Actor:     NewActor(profile.Name, profile.BaseStats, profile.BaseStats.MaxHP, profile.Skills),
		id:        profile.ID,
		level:     1,
		inventory: Inventory{},
		equipment: NewEquipment(),
	}
}

// ID returns the profile id.
func (p *Player) ID() string { return p.id }

// Level returns the current level.
func (p *Player) Level() int { return p.level }

// SetLevel sets the level.
func (p *Player) SetLevel(level int) { p.level = level }

// Exp returns the experience gathered on the current level.
func (p *Player) Exp() int { return p.exp }

// SetExp sets the experience.
func (p *Player) SetExp(exp int) { p.exp = exp }

// ExpToNext returns the experience threshold of the next level.
func (p *Player) ExpToNext() int { return p.expToNext }

// SetExpToNext sets the experience threshold.
func (p *Player) SetExpToNext(v int) { p.expToNext = v }

// StatPoints returns the unallocated stat points.
func (p *Player) StatPoints() int { return p.statPoints }

// SetStatPoints sets the unallocated stat points.
func (p *Player) SetStatPoints(v int) { p.statPoints = v }

// Inventory returns the live inventory map.
func (p *Player) Inventory() Inventory { return p.inventory }

// SetInventory replaces the inventory. nil becomes empty.
func (p *Player) SetInventory(inv Inventory) {
	if inv == nil {
		inv = Inventory{}
	}
	p.inventory = inv
}

// Equipment returns the live equipment map.
func (p *Player) Equipment() Equipment { return p.equipment }

// SetEquipment replaces equipment; missing slots are added empty.
func (p *Player) SetEquipment(eq Equipment) {
	out := NewEquipment()
	for _, s := range AllSlots {
		out[s] = eq[s]
	}
	p.equipment = out
}

// Allocated returns stat points spent per stat.
func (p *Player) Allocated() Stats { return p.allocated }

// SetAllocated replaces allocated stat points.
func (p *Player) SetAllocated(s Stats) { p.allocated = s }

// TotalStats computes effective stats.
//
// Additive step: base + allocated + equipped item stats + active buff/debuff deltas.
// Multiplicative step: each field is scaled by the product of stat_multiplier
// specials of equipped items (mult <= 0 ignored), then truncated.
// The multiplier applies to the already buffed value.
func (p *Player) TotalStats(items ItemCatalog) Stats {
	bonus := p.allocated
	mult := map[StatKey]float64{}
	for _, k := range AllStatKeys {
		mult[k] = 1.0
	}

	if items != nil {
		for _, slot := range AllSlots {
			id := p.equipment[slot]
			if id == "" {
				continue
			}
			item, ok := items.LookupItem(id)
			if !ok || item == nil {
				continue
			}
			bonus = bonus.WithBonus(item.Stats)
			if sp := item.Special; sp != nil && sp.Type == SpecialStatMultiplier {
				if _, known := mult[sp.Stat]; known && sp.Mult > 0 {
					mult[sp.Stat] *= sp.Mult
				}
			}
		}
	}

	bonus = bonus.WithBonus(p.EffectBonus())
	base := p.BaseStats().WithBonus(bonus)

	var total Stats
	for _, k := range AllStatKeys {
		total = total.With(k, int(float64(base.Get(k))*mult[k]))
	}
	return total
}

// SyncHPToTotal clamps hp down to the current total max hp.
func (p *Player) SyncHPToTotal(items ItemCatalog) {
	if maxHP := p.TotalStats(items).MaxHP; p.HP() > maxHP {
		p.SetHP(maxHP)
	}
}

// RestoreFullHP sets hp to the freshly computed total max hp.
func (p *Player) RestoreFullHP(items ItemCatalog) {
	p.SetHP(p.TotalStats(items).MaxHP)
}

package model

// StatKey names one of the five numeric stats.
type StatKey string

const (
	StatAttack      StatKey = "attack"
	StatMagic       StatKey = "magic"
	StatDefense     StatKey = "defense"
	StatMagicResist StatKey = "magic_resist"
	StatMaxHP       StatKey = "max_hp"
)

// AllStatKeys lists stat keys in display order.
var AllStatKeys = [...]StatKey{StatAttack, StatMagic, StatDefense, StatMagicResist, StatMaxHP}

// ParseStatKey validates a raw stat name.
func ParseStatKey(s string) (StatKey, bool) {
	for _, k := range AllStatKeys {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Stats holds the five integer stats.
// Value type: methods return a new Stats and leave the receiver untouched.
type Stats struct {
	Attack      int `yaml:"attack"`
	Magic       int `yaml:"magic"`
	Defense     int `yaml:"defense"`
	MagicResist int `yaml:"magic_resist"`
	MaxHP       int `yaml:"max_hp"`
}

// WithBonus returns s + bonus field by field.
func (s Stats) WithBonus(bonus Stats) Stats {
	return Stats{
		Attack:      s.Attack + bonus.Attack,
		Magic:       s.Magic + bonus.Magic,
		Defense:     s.Defense + bonus.Defense,
		MagicResist: s.MagicResist + bonus.MagicResist,
		MaxHP:       s.MaxHP + bonus.MaxHP,
	}
}

// Get returns the value of a single stat.
func (s Stats) Get(k StatKey) int {
	switch k {
	case StatAttack:
		return s.Attack
	case StatMagic:
		return s.Magic
	case StatDefense:
		return s.Defense
	case StatMagicResist:
		return s.MagicResist
	case StatMaxHP:
		return s.MaxHP
	}
	return 0
}

// With returns a copy of s with stat k set to v.
func (s Stats) With(k StatKey, v int) Stats {
	switch k {
	case StatAttack:
		s.Attack = v
	case StatMagic:
		s.Magic = v
	case StatDefense:
		s.Defense = v
	case StatMagicResist:
		s.MagicResist = v
	case StatMaxHP:
		s.MaxHP = v
	}
	return s
}

// IsZero reports whether every stat is 0.
func (s Stats) IsZero() bool {
	return s == Stats{}
}

// ToMap returns non-zero stats keyed by name (persistence helper).
func (s Stats) ToMap() map[StatKey]int {
	m := make(map[StatKey]int, len(AllStatKeys))
	for _, k := range AllStatKeys {
		if v := s.Get(k); v != 0 {
			m[k] = v
		}
	}
	return m
}

// StatsFromMap builds Stats from a keyed map; unknown keys are ignored.
func StatsFromMap(m map[StatKey]int) Stats {
	var s Stats
	for k, v := range m {
		s = s.With(k, s.Get(k)+v)
	}
	return s
}

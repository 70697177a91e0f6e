package model

// ItemTemplate is an item template from items.yaml.
type ItemTemplate struct {
	ID        string
	Name      string
	Type      ItemType
	Rarity    string
	Desc      string
	Slot      Slot // only for equipment
	Stats     Stats
	Special   *ItemSpecial
	UseEffect *UseEffect
}

// ItemType is the item category.
type ItemType string

const (
	ItemTypeEquipment  ItemType = "equipment"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeMaterial   ItemType = "material"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeEquipment, ItemTypeConsumable, ItemTypeMaterial:
		return true
	}
	return false
}

// Slot is an equipment slot.
type Slot string

const (
	SlotWeapon    Slot = "weapon"
	SlotArmor     Slot = "armor"
	SlotAccessory Slot = "accessory"
)

// AllSlots lists equipment slots in a fixed iteration order.
var AllSlots = [...]Slot{SlotWeapon, SlotArmor, SlotAccessory}

// Valid reports whether s is a known equipment slot.
func (s Slot) Valid() bool {
	switch s {
	case SlotWeapon, SlotArmor, SlotAccessory:
		return true
	}
	return false
}

// SpecialType tags the passive special of an equipment item.
type SpecialType string

const (
	SpecialOnHit          SpecialType = "on_hit"
	SpecialStatMultiplier SpecialType = "stat_multiplier"
)

// ItemSpecial describes an on-hit proc or a stat multiplier.
type ItemSpecial struct {
	Type SpecialType

	// on_hit
	Chance   float64
	Effect   EffectKind
	Duration int
	Power    float64

	// stat_multiplier
	Stat StatKey
	Mult float64
}

// UseEffectType tags what a consumable does.
type UseEffectType string

const (
	UseHeal      UseEffectType = "heal"
	UseCleanse   UseEffectType = "cleanse"
	UseBuffStats UseEffectType = "buff_stats"
)

// UseEffect describes a consumable's effect. Target is always self.
type UseEffect struct {
	Type     UseEffectType
	Power    int
	Remove   []EffectKind
	Duration int
	Stats    Stats
}

// IsEquipment returns true for equippable items.
func (t *ItemTemplate) IsEquipment() bool {
	return t.Type == ItemTypeEquipment
}

// IsConsumable returns true for usable items.
func (t *ItemTemplate) IsConsumable() bool {
	return t.Type == ItemTypeConsumable
}

// ItemCatalog is the single lookup capability used for equipment stat resolution.
type ItemCatalog interface {
	LookupItem(id string) (*ItemTemplate, bool)
}

// DropEntry is one independent roll of a drop table.
type DropEntry struct {
	ItemID string
	Chance float64 // [0, 1]
	Min    int
	Max    int
}

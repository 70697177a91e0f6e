package model

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"
)

// legacyItemIDs maps ids renamed since older saves.
var legacyItemIDs = map[string]string{
	"minor_potion": "potion_small",
}

// NormalizeItemID maps a legacy item id to its current id.
func NormalizeItemID(id string) string {
	if cur, ok := legacyItemIDs[id]; ok {
		return cur
	}
	return id
}

// Inventory counts items: itemID to quantity (> 0).
type Inventory map[string]int

// InventoryFromList converts the legacy list shape (one id per unit) to counted form.
func InventoryFromList(ids []string) Inventory {
	inv := make(Inventory, len(ids))
	for _, id := range ids {
		inv[NormalizeItemID(id)]++
	}
	return inv
}

// Count returns how many units of id are held.
func (inv Inventory) Count(id string) int {
	return inv[id]
}

// Add adds qty units of id. qty below 1 adds one unit.
func (inv Inventory) Add(id string, qty int) {
	inv[id] = max(0, inv[id]) + max(1, qty)
}

// Remove takes qty units of id. Returns false and changes nothing when short.
func (inv Inventory) Remove(id string, qty int) bool {
	need := max(1, qty)
	if inv[id] < need {
		return false
	}
	inv[id] -= need
	if inv[id] <= 0 {
		delete(inv, id)
	}
	return true
}

// Normalized returns a copy with legacy ids mapped to current ones and
// non-positive counts dropped. Every load path goes through it.
func (inv Inventory) Normalized() Inventory {
	out := make(Inventory, len(inv))
	for id, n := range inv {
		if n > 0 {
			out[NormalizeItemID(id)] += n
		}
	}
	return out
}

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	maps.Copy(out, inv)
	return out
}

// UnmarshalYAML accepts both the counted mapping and the legacy id list.
// Negative counts are an error, zero counts are dropped.
func (inv *Inventory) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var ids []string
		if err := node.Decode(&ids); err != nil {
			return fmt.Errorf("decoding legacy inventory list: %w", err)
		}
		*inv = InventoryFromList(ids)
		return nil
	case yaml.MappingNode:
		var raw map[string]int
		if err := node.Decode(&raw); err != nil {
			return fmt.Errorf("decoding inventory: %w", err)
		}
		for id, n := range raw {
			if n < 0 {
				return fmt.Errorf("line %d: negative count %d for %s", node.Line, n, id)
			}
		}
		*inv = Inventory(raw).Normalized()
		return nil
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*inv = Inventory{}
			return nil
		}
	}
	return fmt.Errorf("line %d: inventory must be a mapping or a list", node.Line)
}

// Equipment maps slot to the equipped itemID ("" means empty).
type Equipment map[Slot]string

// NewEquipment returns equipment with every slot empty.
func NewEquipment() Equipment {
	eq := make(Equipment, len(AllSlots))
	for _, s := range AllSlots {
		eq[s] = ""
	}
	return eq
}

// Get returns the item id in slot, or "".
func (e Equipment) Get(slot Slot) string {
	return e[slot]
}

// Clone returns an independent copy.
func (e Equipment) Clone() Equipment {
	out := NewEquipment()
	maps.Copy(out, e)
	return out
}

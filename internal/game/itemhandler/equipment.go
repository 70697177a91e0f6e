package itemhandler

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/dungeonrpg/internal/model"
)

// Equip puts itemID into its slot. The previously equipped item goes back
// to the inventory. hp is clamped to the new total max.
func Equip(items model.ItemCatalog, player *model.Player, itemID string) (string, error) {
	item, ok := items.LookupItem(itemID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	if !item.IsEquipment() {
		return "", fmt.Errorf("%w: %s", ErrNotEquipment, itemID)
	}
	if !item.Slot.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, item.Slot)
	}
	inv := player.Inventory()
	if inv.Count(itemID) <= 0 {
		return "", fmt.Errorf("%w: %s", ErrItemNotHeld, itemID)
	}

	eq := player.Equipment()
	if prev := eq.Get(item.Slot); prev != "" {
		inv.Add(prev, 1)
	}
	eq[item.Slot] = itemID
	inv.Remove(itemID, 1)
	player.SyncHPToTotal(items)

	slog.Debug("item equipped", "player", player.ID(), "item", itemID, "slot", item.Slot)
	return fmt.Sprintf("%s equipped!", item.Name), nil
}

// Unequip moves the item in slot back to the inventory.
func Unequip(items model.ItemCatalog, player *model.Player, slot model.Slot) (string, error) {
	if !slot.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	eq := player.Equipment()
	current := eq.Get(slot)
	if current == "" {
		return "", fmt.Errorf("%w: %s", ErrSlotEmpty, slot)
	}

	player.Inventory().Add(current, 1)
	eq[slot] = ""
	player.SyncHPToTotal(items)

	name := current
	if item, ok := items.LookupItem(current); ok {
		name = item.Name
	}
	slog.Debug("item unequipped", "player", player.ID(), "item", current, "slot", slot)
	return fmt.Sprintf("%s unequipped", name), nil
}

// Package itemhandler implements consumable use and equipment changes.
// Each use_effect type maps to a Handler implementation.
package itemhandler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/dungeonrpg/internal/game/skill"
	"github.com/udisondev/dungeonrpg/internal/model"
)

// Illegal player actions. A function returning one of these left the player untouched.
var (
	ErrUnknownItem      = errors.New("unknown item")
	ErrItemNotHeld      = errors.New("item not in inventory")
	ErrNotConsumable    = errors.New("item is not a consumable")
	ErrNotEquipment     = errors.New("item is not equipment")
	ErrInvalidSlot      = errors.New("invalid equipment slot")
	ErrSlotEmpty        = errors.New("nothing equipped in slot")
	ErrUnknownUseEffect = errors.New("unknown use effect")
	ErrNoEffect         = errors.New("item has no effect")
)

// Handler applies one use_effect type to the player.
type Handler interface {
	// Use applies the effect and returns a short outcome message and whether
	// the player changed. It must not touch the inventory.
	Use(env *skill.Env, player *model.Player, item *model.ItemTemplate) (string, bool)
}

// registry maps use_effect type → Handler implementation.
var registry = map[model.UseEffectType]Handler{}

// Register adds a handler to the registry.
func Register(t model.UseEffectType, h Handler) {
	registry[t] = h
}

// Get returns the handler for the given type, or nil if not registered.
func Get(t model.UseEffectType) Handler {
	return registry[t]
}

func init() {
	Register(model.UseHeal, healHandler{})
	Register(model.UseCleanse, cleanseHandler{})
	Register(model.UseBuffStats, buffHandler{})
}

// CheckConsumable validates that player holds a usable consumable itemID.
func CheckConsumable(items model.ItemCatalog, player *model.Player, itemID string) (*model.ItemTemplate, error) {
	item, ok := items.LookupItem(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	if !item.IsConsumable() || item.UseEffect == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotConsumable, itemID)
	}
	if Get(item.UseEffect.Type) == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUseEffect, item.UseEffect.Type)
	}
	if player.Inventory().Count(itemID) <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrItemNotHeld, itemID)
	}
	return item, nil
}

// UseConsumable applies itemID's use_effect to player and consumes one unit,
// also when the effect changed nothing (the turn is spent anyway).
// On error nothing changes; the reason is written to the battle log.
func UseConsumable(env *skill.Env, player *model.Player, itemID string) (string, error) {
	item, err := checkAndLog(env, player, itemID)
	if err != nil {
		return "", err
	}

	if env.Log != nil {
		env.Log.Addf("%s uses %s!", player.Name(), item.Name)
	}
	msg, _ := Get(item.UseEffect.Type).Use(env, player, item)
	player.Inventory().Remove(itemID, 1)
	return msg, nil
}

// UseConsumableIfEffective is UseConsumable outside battle: when the effect
// changes nothing the item is kept and ErrNoEffect is returned.
func UseConsumableIfEffective(env *skill.Env, player *model.Player, itemID string) (string, error) {
	item, err := checkAndLog(env, player, itemID)
	if err != nil {
		return "", err
	}

	var lines model.BattleLog
	scratch := &skill.Env{Log: &lines, Items: env.Items, Rand: env.Rand}
	msg, changed := Get(item.UseEffect.Type).Use(scratch, player, item)
	if !changed {
		if env.Log != nil {
			env.Log.Addf("%s has no effect.", item.Name)
		}
		slog.Debug("consumable kept, no effect", "player", player.ID(), "item", itemID)
		return "", fmt.Errorf("%w: %s", ErrNoEffect, itemID)
	}

	if env.Log != nil {
		env.Log.Addf("%s uses %s!", player.Name(), item.Name)
		for _, line := range lines.Lines() {
			env.Log.Add(line)
		}
	}
	player.Inventory().Remove(itemID, 1)
	return msg, nil
}

func checkAndLog(env *skill.Env, player *model.Player, itemID string) (*model.ItemTemplate, error) {
	item, err := CheckConsumable(env.Items, player, itemID)
	if err != nil {
		if env.Log != nil {
			env.Log.Addf("Cannot use %s: %v", itemID, err)
		}
		slog.Debug("consumable rejected", "player", player.ID(), "item", itemID, "error", err)
		return nil, err
	}
	return item, nil
}

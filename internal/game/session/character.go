package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/dungeonrpg/internal/game/itemhandler"
	"github.com/udisondev/dungeonrpg/internal/game/skill"
	"github.com/udisondev/dungeonrpg/internal/model"
)

// Equip equips an inventory item and saves.
func (s *Session) Equip(ctx context.Context, itemID string) (string, error) {
	if s.battle != nil {
		return "", ErrBattleInProgress
	}
	msg, err := itemhandler.Equip(s.catalog, s.player, itemID)
	if err != nil {
		return "", err
	}
	return msg, s.Save(ctx)
}

// Unequip returns the item in slot to the inventory and saves.
func (s *Session) Unequip(ctx context.Context, slot model.Slot) (string, error) {
	if s.battle != nil {
		return "", ErrBattleInProgress
	}
	msg, err := itemhandler.Unequip(s.catalog, s.player, slot)
	if err != nil {
		return "", err
	}
	return msg, s.Save(ctx)
}

// Allocate spends stat points. Non-positive entries are skipped; the
// positive total must not exceed the available points.
func (s *Session) Allocate(ctx context.Context, spend map[model.StatKey]int) error {
	if s.battle != nil {
		return ErrBattleInProgress
	}

	total := 0
	for k, v := range spend {
		if _, ok := model.ParseStatKey(string(k)); !ok {
			return fmt.Errorf("allocate %q: %w", k, ErrInvalidStat)
		}
		if v > 0 {
			total += v
		}
	}
	if total > s.player.StatPoints() {
		return fmt.Errorf("allocate %d of %d: %w", total, s.player.StatPoints(), ErrNotEnoughPoints)
	}
	if total == 0 {
		return nil
	}

	allocated := s.player.Allocated()
	for k, v := range spend {
		if v <= 0 {
			continue
		}
		allocated = allocated.With(k, allocated.Get(k)+v)
	}
	s.player.SetAllocated(allocated)
	s.player.SetStatPoints(s.player.StatPoints() - total)
	s.player.SyncHPToTotal(s.catalog)

	slog.Debug("stat points allocated", "player", s.player.ID(), "spent", total)
	return s.Save(ctx)
}

// UseItem uses a consumable outside battle and saves.
// An item whose effect would change nothing is kept (ErrNoEffect) and nothing is saved.
// Buffs applied this way last until the end of the next battle.
func (s *Session) UseItem(ctx context.Context, itemID string) ([]string, error) {
	if s.battle != nil {
		return nil, ErrBattleInProgress
	}

	var log model.BattleLog
	env := &skill.Env{Log: &log, Items: s.catalog, Rand: s.rng}
	if _, err := itemhandler.UseConsumableIfEffective(env, s.player, itemID); err != nil {
		return log.Lines(), err
	}
	return log.Lines(), s.Save(ctx)
}

// HealFull restores hp to the total max and saves.
func (s *Session) HealFull(ctx context.Context) error {
	if s.battle != nil {
		return ErrBattleInProgress
	}
	s.player.RestoreFullHP(s.catalog)
	return s.Save(ctx)
}

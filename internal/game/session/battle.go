package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/dungeonrpg/internal/game/combat"
	"github.com/udisondev/dungeonrpg/internal/model"
)

// StartStage starts a battle on an unlocked dungeon stage.
func (s *Session) StartStage(zone string, stage int) (*combat.BattleState, error) {
	if s.battle != nil {
		return nil, ErrBattleInProgress
	}
	if !s.rules.IsStageUnlocked(&s.progress.Dungeon, zone, stage) {
		return nil, fmt.Errorf("zone %s stage %d: %w", zone, stage, ErrStageLocked)
	}

	enc, err := s.rules.Encounter(s.catalog, s.rng, zone, stage)
	if err != nil {
		return nil, err
	}

	s.battle = s.engine.StartBattle(s.player, enc.Enemy, enc.ExpectedExp, enc.DropTable)
	s.stage = &stageRef{zone: zone, stage: stage}
	slog.Debug("stage battle started", "zone", zone, "stage", stage, "enemy", enc.Enemy.ID())
	return s.battle, nil
}

// StartSpecialBoss starts a battle against a special boss. No exp is awarded.
func (s *Session) StartSpecialBoss(id string) (*combat.BattleState, error) {
	if s.battle != nil {
		return nil, ErrBattleInProgress
	}
	if !s.catalog.IsSpecialBoss(id) {
		return nil, fmt.Errorf("boss %s: %w", id, ErrUnknownBoss)
	}

	enemy := model.NewEnemy(s.catalog.Boss(id), true)
	s.battle = s.engine.StartBattle(s.player, enemy, 0, enemy.DropTable())
	s.stage = nil
	return s.battle, nil
}

// Attack plays a basic attack turn.
func (s *Session) Attack(ctx context.Context) (*combat.BattleResult, error) {
	return s.UseSkill(ctx, model.BasicAttackID)
}

// UseSkill plays a turn with one of the character's skills.
// When the battle ends the result is concluded and saved before returning.
func (s *Session) UseSkill(ctx context.Context, skillID string) (*combat.BattleResult, error) {
	if s.battle == nil {
		return nil, ErrNoBattle
	}
	res, err := s.engine.PlayerUseSkill(s.battle, skillID)
	if err != nil {
		return nil, err
	}
	return s.conclude(ctx, res)
}

// UseBattleItem plays a turn with a consumable. An illegal item leaves the
// turn unplayed and returns the reason.
func (s *Session) UseBattleItem(ctx context.Context, itemID string) (*combat.BattleResult, error) {
	if s.battle == nil {
		return nil, ErrNoBattle
	}
	res, err := s.engine.PlayerUseItem(s.battle, itemID)
	if err != nil {
		return nil, err
	}
	return s.conclude(ctx, res)
}

func (s *Session) conclude(ctx context.Context, res *combat.BattleResult) (*combat.BattleResult, error) {
	if res == nil {
		return nil, nil
	}

	if res.Winner == combat.WinnerPlayer {
		res.Log = append(res.Log, combat.GainExp(s.player, res.Exp)...)
		for _, d := range res.Drops {
			s.player.Inventory().Add(d.ItemID, d.Qty)
		}
		if s.stage != nil {
			if zone := s.rules.ClearStage(&s.progress.Dungeon, s.stage.zone, s.stage.stage); zone != "" {
				res.Log = append(res.Log, fmt.Sprintf("Zone %s unlocked!", zone))
			}
		}
	}

	slog.Info("battle concluded",
		"player", s.player.ID(),
		"winner", res.Winner,
		"exp", res.Exp,
		"drops", len(res.Drops),
		"level", s.player.Level())

	s.battle = nil
	s.stage = nil
	if err := s.Save(ctx); err != nil {
		return res, err
	}
	return res, nil
}

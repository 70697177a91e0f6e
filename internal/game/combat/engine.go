package combat

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/dungeonrpg/internal/ai"
	"github.com/udisondev/dungeonrpg/internal/game/itemhandler"
	"github.com/udisondev/dungeonrpg/internal/game/skill"
	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/random"
)

// ErrBattleFinished is returned for player actions after the battle ended.
var ErrBattleFinished = errors.New("battle already finished")

// Catalog is the content the engine reads during a battle.
type Catalog interface {
	model.ItemCatalog
	Skill(id string) *model.SkillTemplate
	DropTable(id string) []model.DropEntry
	ItemName(id string) string
}

// Engine resolves battles turn by turn. It holds no per-battle state.
type Engine struct {
	catalog  Catalog
	rng      random.Source
	policies *ai.Registry
}

// NewEngine creates an Engine. A nil policies registry uses the built-in AIs.
func NewEngine(catalog Catalog, rng random.Source, policies *ai.Registry) *Engine {
	if policies == nil {
		policies = ai.NewRegistry()
	}
	return &Engine{
		catalog:  catalog,
		rng:      rng,
		policies: policies,
	}
}

// StartBattle creates a BattleState in the created phase, turn 1.
func (e *Engine) StartBattle(player *model.Player, enemy *model.Enemy, expectedExp int, dropTableID string) *BattleState {
	st := &BattleState{
		Player:      player,
		Enemy:       enemy,
		turn:        1,
		turnIndex:   1,
		expectedExp: expectedExp,
		dropTableID: dropTableID,
		gimmickUsed: make(map[int]bool),
		machine:     newTurnMachine(),
	}
	st.env = &skill.Env{Log: &st.log, Items: e.catalog, Rand: e.rng}
	st.log.Addf("Battle with %s begins!", enemy.Name())

	slog.Debug("battle started",
		"player", player.ID(),
		"enemy", enemy.ID(),
		"boss", enemy.IsBoss(),
		"exp", expectedExp,
		"dropTable", dropTableID)
	return st
}

// PlayerBasicAttack resolves a turn in which the player uses the basic attack.
func (e *Engine) PlayerBasicAttack(st *BattleState) (*BattleResult, error) {
	return e.PlayerUseSkill(st, model.BasicAttackID)
}

// PlayerUseSkill resolves a full turn: player skill, enemy action, end of turn.
// Returns a non-nil result when the battle ended during this turn.
func (e *Engine) PlayerUseSkill(st *BattleState, skillID string) (*BattleResult, error) {
	if st.Finished() {
		return nil, ErrBattleFinished
	}

	st.fire(eventPlayerTurn)
	if skill.CanAct(st.env, st.Player) {
		if res := e.useSkill(st, st.Player, st.Enemy, skillID, true); res != nil {
			return res, nil
		}
	}
	return e.afterPlayerAction(st), nil
}

// PlayerUseItem resolves a turn in which the player uses a consumable.
// An illegal item (not held, not consumable, unknown) does not consume the
// turn: the reason is logged and the error returned with state unchanged.
// A stunned player loses the turn and keeps the item.
func (e *Engine) PlayerUseItem(st *BattleState, itemID string) (*BattleResult, error) {
	if st.Finished() {
		return nil, ErrBattleFinished
	}
	if _, err := itemhandler.CheckConsumable(e.catalog, st.Player, itemID); err != nil {
		st.log.Addf("Cannot use %s: %v", itemID, err)
		return nil, fmt.Errorf("use item in battle: %w", err)
	}

	st.fire(eventPlayerTurn)
	if skill.CanAct(st.env, st.Player) {
		if _, err := itemhandler.UseConsumable(st.env, st.Player, itemID); err != nil {
			// CheckConsumable passed above, so this is unexpected.
			slog.Error("consumable failed after check", "item", itemID, "error", err)
		}
	}
	return e.afterPlayerAction(st), nil
}

func (e *Engine) afterPlayerAction(st *BattleState) *BattleResult {
	st.fire(eventEnemyTurn)
	if res := e.enemyAction(st); res != nil {
		return res
	}

	st.fire(eventEndTurn)
	if res := e.endOfTurn(st); res != nil {
		return res
	}

	st.turn++
	st.turnIndex++
	st.fire(eventNextTurn)
	return nil
}

func (e *Engine) enemyAction(st *BattleState) *BattleResult {
	if !skill.CanAct(st.env, st.Enemy) {
		return nil
	}
	if st.Enemy.AI() == model.AIBoss {
		e.handleGimmicks(st)
	}

	choice := e.policies.For(st.Enemy.AI()).ChooseSkill(st.Enemy, st, e.rng)
	return e.useSkill(st, st.Enemy, st.Player, choice, false)
}

// endOfTurn ticks player effects, then enemy effects.
// If both die in the same tick the player is checked first: the enemy wins.
func (e *Engine) endOfTurn(st *BattleState) *BattleResult {
	skill.TickEndOfTurn(st.env, st.Player)
	skill.TickEndOfTurn(st.env, st.Enemy)

	if st.Player.IsDead() {
		return e.finish(st, WinnerEnemy)
	}
	if st.Enemy.IsDead() {
		return e.finish(st, WinnerPlayer)
	}
	return nil
}

func (e *Engine) skillFor(id string) *model.SkillTemplate {
	if id == model.BasicAttackID {
		return model.BasicAttack()
	}
	return e.catalog.Skill(id)
}

// useSkill applies damage, effect specs, the player's on-hit proc and lifesteal.
// Returns the result when the defender died.
func (e *Engine) useSkill(st *BattleState, attacker, defender model.Combatant, skillID string, byPlayer bool) *BattleResult {
	s := e.skillFor(skillID)
	atk := attacker.TotalStats(e.catalog)
	def := defender.TotalStats(e.catalog)

	physical, magic := CalcDamage(s, atk, def)
	total := physical + magic
	defender.ApplyDamage(total)

	st.log.Addf("%s uses %s!", attacker.Name(), s.Name)
	st.log.Addf("%s takes %d physical / %d magic damage!", defender.Name(), physical, magic)
	st.log.Addf("%s HP: %d/%d", defender.Name(), defender.HP(), def.MaxHP)

	var lifesteal float64
	for _, spec := range s.Effects {
		if spec.Kind == model.EffectLifesteal {
			lifesteal += spec.Power
			continue
		}
		target := defender
		if spec.Target == model.TargetSelf {
			target = attacker
		}
		skill.ApplyEffect(st.env, target, spec)
	}

	if byPlayer {
		if p, ok := attacker.(*model.Player); ok {
			e.procOnHit(st, p, defender)
		}
	}

	if lifesteal > 0 {
		heal := int(float64(total) * lifesteal)
		before := attacker.HP()
		maxHP := attacker.TotalStats(e.catalog).MaxHP
		attacker.SetHP(min(maxHP, before+heal))
		st.log.Addf("Lifesteal! %s HP %d -> %d", attacker.Name(), before, attacker.HP())
	}

	if defender.IsDead() {
		if byPlayer {
			return e.finish(st, WinnerPlayer)
		}
		return e.finish(st, WinnerEnemy)
	}
	return nil
}

// procOnHit rolls the on_hit special of the player's accessory.
func (e *Engine) procOnHit(st *BattleState, p *model.Player, defender model.Combatant) {
	accessory := p.Equipment().Get(model.SlotAccessory)
	if accessory == "" {
		return
	}
	item, ok := e.catalog.LookupItem(accessory)
	if !ok || item.Special == nil || item.Special.Type != model.SpecialOnHit {
		return
	}
	if !random.Roll(e.rng, item.Special.Chance) {
		return
	}

	skill.ApplyEffect(st.env, defender, model.EffectSpec{
		Kind:     item.Special.Effect,
		Target:   model.TargetEnemy,
		Chance:   1,
		Duration: item.Special.Duration,
		Power:    item.Special.Power,
		Source:   item.ID,
	})
}

// handleGimmicks evaluates boss gimmicks in declaration order.
func (e *Engine) handleGimmicks(st *BattleState) {
	for idx, g := range st.Enemy.Gimmicks() {
		if g.Once && st.gimmickUsed[idx] {
			continue
		}
		if !gimmickTriggered(g, st) {
			continue
		}

		var target model.Combatant = st.Enemy
		if g.Action.Target == model.GimmickTargetPlayer {
			target = st.Player
		}
		st.log.Addf("%s unleashes a gimmick!", st.Enemy.Name())
		skill.ApplyEffect(st.env, target, g.Action.Effect)

		if g.Once {
			st.gimmickUsed[idx] = true
		}
		slog.Debug("boss gimmick fired",
			"enemy", st.Enemy.ID(),
			"index", idx,
			"trigger", g.Trigger,
			"turn", st.turnIndex)
	}
}

func gimmickTriggered(g model.Gimmick, st *BattleState) bool {
	switch g.Trigger {
	case model.TriggerEveryNTurns:
		return g.N > 0 && st.turnIndex%g.N == 0
	case model.TriggerHPBelow:
		maxHP := st.Enemy.BaseStats().MaxHP
		if maxHP == 0 {
			maxHP = 1
		}
		return float64(st.Enemy.HP())/float64(maxHP) <= g.Ratio
	}
	return false
}

// finish rolls loot on a player win, builds the result, purges effects on
// both sides and restores the player to full hp whatever the outcome.
func (e *Engine) finish(st *BattleState, winner Winner) *BattleResult {
	var drops []Drop
	if winner == WinnerPlayer && st.dropTableID != "" {
		drops = RollDrops(e.rng, e.catalog.DropTable(st.dropTableID))
		st.log.Addf("Drops: %s", FormatDrops(drops, e.catalog.ItemName))
	}

	exp := 0
	if winner == WinnerPlayer {
		exp = st.expectedExp
	}
	res := &BattleResult{
		Winner: winner,
		Exp:    exp,
		Drops:  drops,
		Log:    st.log.Lines(),
	}

	skill.ClearAll(st.Player)
	skill.ClearAll(st.Enemy)
	st.Player.RestoreFullHP(e.catalog)

	st.result = res
	st.fire(eventFinish)

	slog.Debug("battle finished",
		"player", st.Player.ID(),
		"enemy", st.Enemy.ID(),
		"winner", winner,
		"turns", st.turn,
		"drops", len(drops))
	return res
}

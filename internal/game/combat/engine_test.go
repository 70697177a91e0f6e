package combat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dungeonrpg/internal/data"
	"github.com/udisondev/dungeonrpg/internal/game/itemhandler"
	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/testutil"
)

type battleFixture struct {
	cat    *data.Catalog
	rng    *testutil.ScriptedRand
	engine *Engine
	knight *model.Player
}

func newBattleFixture(t *testing.T) *battleFixture {
	t.Helper()
	cat := testutil.Catalog(t)
	rng := testutil.NewScriptedRand()
	knight := model.NewPlayer(cat.Profile("knight"))
	return &battleFixture{
		cat:    cat,
		rng:    rng,
		engine: NewEngine(cat, rng, nil),
		knight: knight,
	}
}

func (f *battleFixture) start(t *testing.T, monsterID string) *BattleState {
	t.Helper()
	tpl := f.cat.Monster(monsterID)
	return f.engine.StartBattle(f.knight, model.NewEnemy(tpl, false), 10, tpl.DropTable)
}

func customEnemy(stats model.Stats, gimmicks ...model.Gimmick) *model.Enemy {
	return model.NewEnemy(&model.MonsterTemplate{
		ID:       "dummy_boss",
		Name:     "Dummy Boss",
		Stats:    stats,
		AI:       model.AIBoss,
		Gimmicks: gimmicks,
	}, true)
}

func countLines(lines []string, substr string) int {
	n := 0
	for _, l := range lines {
		if strings.Contains(l, substr) {
			n++
		}
	}
	return n
}

func TestStartBattle(t *testing.T) {
	f := newBattleFixture(t)

	st := f.start(t, "slime")

	assert.Equal(t, PhaseCreated, st.Phase())
	assert.Equal(t, 1, st.Turn())
	assert.Equal(t, 1, st.TurnIndex())
	assert.Equal(t, []string{"Battle with Slime begins!"}, st.Log())
	assert.Nil(t, st.Result())
	assert.Equal(t, "slime_drops", st.DropTableID())
}

func TestBattle_FullTurn(t *testing.T) {
	f := newBattleFixture(t)
	st := f.start(t, "slime")

	res, err := f.engine.PlayerBasicAttack(st)

	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 17, st.Enemy.HP(), "10 + 20*0.2 - 2*0.2 = 13.6 -> 13")
	assert.Equal(t, 90, st.Player.HP(), "10 + 8*0.2 - 5*0.2 = 10.6 -> 10")
	assert.Equal(t, 2, st.Turn())
	assert.Equal(t, 2, st.TurnIndex())
	assert.Equal(t, PhaseCreated, st.Phase())
}

func TestBattle_PlayerWins(t *testing.T) {
	f := newBattleFixture(t)
	st := f.start(t, "slime")

	var res *BattleResult
	var err error
	for range 3 {
		res, err = f.engine.PlayerBasicAttack(st)
		require.NoError(t, err)
	}

	require.NotNil(t, res)
	assert.Equal(t, WinnerPlayer, res.Winner)
	assert.Equal(t, 10, res.Exp)
	assert.Equal(t, []Drop{{ItemID: "slime_gel", Qty: 2}}, res.Drops)
	assert.Equal(t, "Drops: Slime Gel x2", res.Log[len(res.Log)-1])
	assert.Zero(t, countLines(res.Log[len(res.Log)-4:], "Slime uses"), "enemy does not act after dying")
	assert.Equal(t, 3, st.Turn(), "no end of turn after a kill")

	assert.True(t, st.Finished())
	assert.Same(t, res, st.Result())
	assert.Equal(t, 100, st.Player.HP())

	_, err = f.engine.PlayerBasicAttack(st)
	assert.True(t, errors.Is(err, ErrBattleFinished))
	_, err = f.engine.PlayerUseItem(st, "potion_small")
	assert.True(t, errors.Is(err, ErrBattleFinished))
}

func TestBattle_EnemyWinsPlayerRestored(t *testing.T) {
	f := newBattleFixture(t)
	weak := model.NewPlayer(&model.PlayerProfile{
		ID:        "weak",
		Name:      "Weakling",
		BaseStats: model.Stats{Attack: 1, MaxHP: 5},
	})
	goblin := model.NewEnemy(f.cat.Monster("goblin"), false)
	st := f.engine.StartBattle(weak, goblin, 20, "slime_drops")
	goblin.AddEffect(&model.EffectInstance{Kind: model.EffectBuffStats, Remaining: 5, Delta: model.Stats{Defense: 1}})

	res, err := f.engine.PlayerBasicAttack(st)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, WinnerEnemy, res.Winner)
	assert.Zero(t, res.Exp)
	assert.Empty(t, res.Drops)
	assert.Equal(t, 5, weak.HP(), "player is restored even on a loss")
	assert.Empty(t, weak.Effects())
	assert.Empty(t, goblin.Effects())
	assert.Equal(t, PhaseFinished, st.Phase())
}

func TestBattle_FinishRestoresToMaxWithoutBuffs(t *testing.T) {
	f := newBattleFixture(t)
	f.knight.SetInventory(model.Inventory{"elixir": 1})
	st := f.engine.StartBattle(f.knight, customEnemy(model.Stats{MaxHP: 1}), 0, "")

	_, err := f.engine.PlayerUseItem(st, "elixir")
	require.NoError(t, err)
	require.Equal(t, 120, f.knight.TotalStats(f.cat).MaxHP)

	res, err := f.engine.PlayerBasicAttack(st)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Empty(t, f.knight.Effects())
	assert.Equal(t, 100, f.knight.HP(), "max is recomputed after effects are purged")
	assert.Empty(t, res.Drops)
	assert.Zero(t, countLines(res.Log, "Drops:"), "no drop table, no summary")
}

func TestBattle_StunSkipsEnemyTurn(t *testing.T) {
	f := newBattleFixture(t)
	st := f.start(t, "goblin")

	_, err := f.engine.PlayerUseSkill(st, "stun_bash")
	require.NoError(t, err)
	assert.Equal(t, 37, st.Enemy.HP(), "5 + 20*0.5 - 3*0.5 = 13.5 -> 13")
	assert.Equal(t, 100, st.Player.HP(), "stunned goblin skipped its action")
	assert.Contains(t, st.Log(), "Goblin is stunned and cannot move!")
	assert.Empty(t, st.Enemy.Effects(), "stun of 1 turn expired at end of turn")

	_, err = f.engine.PlayerBasicAttack(st)
	require.NoError(t, err)
	assert.Equal(t, 89, st.Player.HP(), "goblin acts on the next turn")
}

func TestBattle_Lifesteal(t *testing.T) {
	f := newBattleFixture(t)
	st := f.start(t, "slime")
	f.knight.SetHP(50)

	_, err := f.engine.PlayerUseSkill(st, "drain")

	require.NoError(t, err)
	assert.Equal(t, 11, st.Enemy.HP(), "10 + 20*0.5 - 2*0.5 = 19")
	assert.Contains(t, st.Log(), "Lifesteal! Knight HP 50 -> 59")
	assert.Equal(t, 49, f.knight.HP())
	assert.Empty(t, f.knight.Effects(), "lifesteal never becomes an effect instance")
}

func TestBattle_LifestealClampsToMax(t *testing.T) {
	f := newBattleFixture(t)
	st := f.start(t, "slime")

	_, err := f.engine.PlayerUseSkill(st, "drain")

	require.NoError(t, err)
	assert.Contains(t, st.Log(), "Lifesteal! Knight HP 100 -> 100")
}

func TestBattle_SelfBuff(t *testing.T) {
	f := newBattleFixture(t)
	st := f.start(t, "goblin")

	_, err := f.engine.PlayerUseSkill(st, "war_cry")
	require.NoError(t, err)
	assert.Equal(t, 50, st.Enemy.HP(), "war cry deals no damage")
	assert.Equal(t, 30, f.knight.TotalStats(f.cat).Attack)

	_, err = f.engine.PlayerBasicAttack(st)
	require.NoError(t, err)
	assert.Equal(t, 35, st.Enemy.HP(), "buffed basic: 10 + 30*0.2 - 3*0.2 = 15.4 -> 15")
	assert.Equal(t, 20, f.knight.TotalStats(f.cat).Attack, "buff expired after two end-of-turn ticks")
}

func TestBattle_BleedTicksAtEndOfTurn(t *testing.T) {
	f := newBattleFixture(t)
	st := f.start(t, "slime")

	_, err := f.engine.PlayerUseSkill(st, "rend")
	require.NoError(t, err)
	assert.Equal(t, 26, st.Enemy.HP())
	require.Len(t, st.Enemy.Effects(), 1)
	assert.Equal(t, 2, st.Enemy.Effects()[0].Remaining)
}

func TestBattle_OnHitProc(t *testing.T) {
	f := newBattleFixture(t)
	f.knight.SetInventory(model.Inventory{"bleed_ring": 1})
	_, err := itemhandler.Equip(f.cat, f.knight, "bleed_ring")
	require.NoError(t, err)
	st := f.start(t, "goblin")

	_, err = f.engine.PlayerBasicAttack(st)

	require.NoError(t, err)
	assert.Equal(t, 34, st.Enemy.HP(), "13 from the hit, 3 from bleed")
	require.Len(t, st.Enemy.Effects(), 1)
	assert.Equal(t, "bleed_ring", st.Enemy.Effects()[0].Source)
	assert.Empty(t, f.knight.Effects(), "enemies never proc on-hit")
}

func TestBattle_OnHitFullChanceAlwaysFires(t *testing.T) {
	f := newBattleFixture(t)
	f.knight.SetInventory(model.Inventory{"bleed_ring": 1})
	_, err := itemhandler.Equip(f.cat, f.knight, "bleed_ring")
	require.NoError(t, err)
	f.rng.DefaultFloat = 0.999999
	st := f.start(t, "goblin")

	_, err = f.engine.PlayerBasicAttack(st)

	require.NoError(t, err)
	assert.Len(t, st.Enemy.Effects(), 1, "chance 1.0 fires even on the highest roll")
}

func TestBattle_GimmickEveryNTurns(t *testing.T) {
	f := newBattleFixture(t)
	boss := customEnemy(model.Stats{Defense: 100, MaxHP: 1000}, model.Gimmick{
		Trigger: model.TriggerEveryNTurns,
		N:       3,
		Action: model.GimmickAction{
			Type:   model.GimmickActionApplyEffect,
			Target: model.GimmickTargetSelf,
			Effect: model.EffectSpec{Kind: model.EffectBuffStats, Chance: 1, Duration: 1, Stats: model.Stats{Defense: 1}, Source: "gimmick"},
		},
	})
	st := f.engine.StartBattle(f.knight, boss, 0, "")

	var fired []int
	for range 9 {
		turn := st.TurnIndex()
		before := countLines(st.Log(), "unleashes a gimmick")
		res, err := f.engine.PlayerBasicAttack(st)
		require.NoError(t, err)
		require.Nil(t, res)
		if countLines(st.Log(), "unleashes a gimmick") > before {
			fired = append(fired, turn)
		}
	}

	assert.Equal(t, []int{3, 6, 9}, fired)
	assert.Equal(t, 1000, boss.HP())
	assert.Equal(t, 19, f.knight.HP(), "9 turns of 10 - 5*0.2 = 9")
}

func TestBattle_GimmickOnce(t *testing.T) {
	f := newBattleFixture(t)
	boss := customEnemy(model.Stats{MaxHP: 100}, model.Gimmick{
		Trigger: model.TriggerHPBelow,
		Ratio:   0.5,
		Once:    true,
		Action: model.GimmickAction{
			Type:   model.GimmickActionApplyEffect,
			Target: model.GimmickTargetSelf,
			Effect: model.EffectSpec{Kind: model.EffectBuffStats, Chance: 1, Duration: 1, Stats: model.Stats{Attack: 1}, Source: "gimmick"},
		},
	})
	st := f.engine.StartBattle(f.knight, boss, 0, "")

	for range 6 {
		res, err := f.engine.PlayerBasicAttack(st)
		require.NoError(t, err)
		require.Nil(t, res)
	}

	assert.Equal(t, 16, boss.HP(), "six hits of 14")
	assert.Equal(t, 1, countLines(st.Log(), "unleashes a gimmick"))
	assert.True(t, st.GimmickUsed(0))
}

func TestBattle_GimmickIgnoredForBasicAI(t *testing.T) {
	f := newBattleFixture(t)
	tpl := *f.cat.Boss("zone1_boss")
	tpl.AI = model.AIBasic
	st := f.engine.StartBattle(f.knight, model.NewEnemy(&tpl, true), 0, "")

	for range 3 {
		_, err := f.engine.PlayerBasicAttack(st)
		require.NoError(t, err)
	}

	assert.Zero(t, countLines(st.Log(), "unleashes a gimmick"))
}

func TestBattle_PlayerStunnedByGimmick(t *testing.T) {
	f := newBattleFixture(t)
	dragon := model.NewEnemy(f.cat.Boss("ancient_dragon"), true)
	dragon.SetHP(400)
	st := f.engine.StartBattle(f.knight, dragon, 0, "")

	_, err := f.engine.PlayerBasicAttack(st)
	require.NoError(t, err)
	assert.Contains(t, st.Log(), "Knight is stunned! (2 turns)")

	assert.Equal(t, 389, dragon.HP(), "10 + 20*0.2 - 15*0.2 = 11")
	assert.Equal(t, 83, f.knight.HP(), "10 + 40*0.2 - 5*0.2 = 17")

	res, err := f.engine.PlayerBasicAttack(st)
	require.NoError(t, err)
	require.Nil(t, res)
	assert.Equal(t, 389, dragon.HP(), "stunned player deals no damage")
	assert.Contains(t, st.Log(), "Knight is stunned and cannot move!")
	assert.Equal(t, 1, countLines(st.Log(), "unleashes a gimmick"), "once gimmick stays spent")

	_, err = f.engine.PlayerBasicAttack(st)
	require.NoError(t, err)
	assert.Equal(t, 378, dragon.HP(), "stun wore off")
}

// A stun landed in the player phase is first checked in that turn's enemy
// phase and blocks D enemy actions. A stun landed in the enemy phase is
// ticked at the end of the same turn, so the player loses D-1 actions.
func TestBattle_StunLengthDependsOnPhase(t *testing.T) {
	for _, d := range []int{1, 2, 3} {
		t.Run(fmt.Sprintf("player stuns enemy for %d", d), func(t *testing.T) {
			skills := testutil.FixtureFiles[data.FileSkills] + fmt.Sprintf(`
  long_stun:
    name: Long Stun
    base_physical: 0
    base_magic: 0
    scale: {attack: 0, magic: 0}
    apply_effect: {type: stun, target: enemy, duration: %d}
`, d)
			cat, err := data.Load(context.Background(), testutil.FixtureFS(map[string]string{data.FileSkills: skills}))
			require.NoError(t, err)
			engine := NewEngine(cat, testutil.NewScriptedRand(), nil)
			knight := model.NewPlayer(cat.Profile("knight"))
			enemy := customEnemy(model.Stats{MaxHP: 1000})
			st := engine.StartBattle(knight, enemy, 0, "")

			_, err = engine.PlayerUseSkill(st, "long_stun")
			require.NoError(t, err)
			for range d + 2 {
				_, err := engine.PlayerBasicAttack(st)
				require.NoError(t, err)
			}

			assert.Equal(t, d, countLines(st.Log(), "Dummy Boss is stunned and cannot move!"))
		})

		t.Run(fmt.Sprintf("enemy stuns player for %d", d), func(t *testing.T) {
			f := newBattleFixture(t)
			boss := customEnemy(model.Stats{MaxHP: 1000}, model.Gimmick{
				Trigger: model.TriggerEveryNTurns,
				N:       1,
				Once:    true,
				Action: model.GimmickAction{
					Type:   model.GimmickActionApplyEffect,
					Target: model.GimmickTargetPlayer,
					Effect: model.EffectSpec{Kind: model.EffectStun, Chance: 1, Duration: d},
				},
			})
			st := f.engine.StartBattle(f.knight, boss, 0, "")

			for range d + 3 {
				_, err := f.engine.PlayerBasicAttack(st)
				require.NoError(t, err)
			}

			assert.Equal(t, d-1, countLines(st.Log(), "Knight is stunned and cannot move!"))
		})
	}
}

func TestBattle_MutualKillEnemyWins(t *testing.T) {
	f := newBattleFixture(t)
	enemy := customEnemy(model.Stats{Defense: 100, MaxHP: 50})
	st := f.engine.StartBattle(f.knight, enemy, 99, "slime_drops")
	f.knight.SetHP(3)
	f.knight.AddEffect(&model.EffectInstance{Kind: model.EffectBleed, Remaining: 2, Power: 5})
	enemy.SetHP(3)
	enemy.AddEffect(&model.EffectInstance{Kind: model.EffectBleed, Remaining: 2, Power: 5})
	enemy.AddEffect(&model.EffectInstance{Kind: model.EffectStun, Remaining: 2})

	res, err := f.engine.PlayerBasicAttack(st)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, WinnerEnemy, res.Winner)
	assert.Zero(t, res.Exp)
	assert.Empty(t, res.Drops)
}

func TestBattle_IllegalItemKeepsTurn(t *testing.T) {
	f := newBattleFixture(t)
	st := f.start(t, "slime")

	res, err := f.engine.PlayerUseItem(st, "potion_small")

	assert.Nil(t, res)
	assert.True(t, errors.Is(err, itemhandler.ErrItemNotHeld))
	assert.Equal(t, 1, st.Turn())
	assert.Equal(t, PhaseCreated, st.Phase())
	assert.Equal(t, 30, st.Enemy.HP())
	assert.Equal(t, 100, f.knight.HP())
}

func TestBattle_ItemUseConsumesTurn(t *testing.T) {
	f := newBattleFixture(t)
	f.knight.SetInventory(model.Inventory{"potion_small": 1})
	st := f.start(t, "slime")
	f.knight.SetHP(50)

	res, err := f.engine.PlayerUseItem(st, "potion_small")

	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 70, f.knight.HP(), "healed 30, then hit for 10")
	assert.Zero(t, f.knight.Inventory().Count("potion_small"))
	assert.Equal(t, 2, st.Turn())
}

func TestBattle_StunnedPlayerKeepsItem(t *testing.T) {
	f := newBattleFixture(t)
	f.knight.SetInventory(model.Inventory{"potion_small": 1})
	st := f.start(t, "slime")
	f.knight.AddEffect(&model.EffectInstance{Kind: model.EffectStun, Remaining: 1})

	_, err := f.engine.PlayerUseItem(st, "potion_small")

	require.NoError(t, err)
	assert.Equal(t, 1, f.knight.Inventory().Count("potion_small"))
	assert.Equal(t, 90, f.knight.HP())
	assert.Equal(t, 2, st.Turn())
}

func TestBattle_UnknownSkillFallsBackToBasic(t *testing.T) {
	f := newBattleFixture(t)
	st := f.start(t, "slime")

	_, err := f.engine.PlayerUseSkill(st, "meteor")

	require.NoError(t, err)
	assert.Contains(t, st.Log(), "Knight uses Basic Attack!")
	assert.Equal(t, 17, st.Enemy.HP())
}

package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/testutil"
)

func newTestEnemy(t *testing.T, maxHP int) *model.Enemy {
	t.Helper()
	return model.NewEnemy(&model.MonsterTemplate{
		ID:    "dummy",
		Name:  "Dummy",
		Stats: model.Stats{Attack: 5, Defense: 5, MaxHP: maxHP},
	}, false)
}

func newTestEnv(floats ...float64) *Env {
	return &Env{Log: &model.BattleLog{}, Rand: testutil.NewScriptedRand(floats...)}
}

func TestApplyEffect_ChanceGate(t *testing.T) {
	tests := []struct {
		name    string
		chance  float64
		roll    float64
		applied bool
	}{
		{name: "roll below chance", chance: 0.5, roll: 0.1, applied: true},
		{name: "roll above chance", chance: 0.5, roll: 0.9, applied: false},
		{name: "zero chance never fires", chance: 0, roll: 0, applied: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(tt.roll)
			target := newTestEnemy(t, 50)

			got := ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectStun, Chance: tt.chance, Duration: 1})

			assert.Equal(t, tt.applied, got)
			assert.Equal(t, tt.applied, len(target.Effects()) == 1)
		})
	}
}

func TestApplyEffect_FullChanceSkipsRoll(t *testing.T) {
	env := newTestEnv()
	rng := env.Rand.(*testutil.ScriptedRand)
	target := newTestEnemy(t, 50)

	require.True(t, ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectBleed, Chance: 1, Duration: 2, Power: 3}))
	assert.Zero(t, rng.FloatCalls)
}

func TestApplyEffect_NoStacking(t *testing.T) {
	env := newTestEnv()
	target := newTestEnemy(t, 50)
	spec := model.EffectSpec{Kind: model.EffectBleed, Chance: 1, Duration: 2, Power: 3}

	ApplyEffect(env, target, spec)
	ApplyEffect(env, target, spec)

	require.Len(t, target.Effects(), 2, "same-kind instances coexist")
	assert.NotSame(t, target.Effects()[0], target.Effects()[1])
}

func TestApplyEffect_UnknownKindIgnored(t *testing.T) {
	env := newTestEnv()
	target := newTestEnemy(t, 50)

	got := ApplyEffect(env, target, model.EffectSpec{Kind: "petrify", Chance: 1, Duration: 3})

	assert.False(t, got)
	assert.Empty(t, target.Effects())
	assert.Contains(t, env.Log.Last(), "petrify")
}

func TestApplyEffect_LifestealIgnored(t *testing.T) {
	env := newTestEnv()
	target := newTestEnemy(t, 50)

	assert.False(t, ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectLifesteal, Chance: 1, Power: 0.5}))
	assert.Empty(t, target.Effects())
}

func TestApplyEffect_HealClamps(t *testing.T) {
	env := newTestEnv()
	target := newTestEnemy(t, 50)
	target.SetHP(40)

	ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectHeal, Chance: 1, Power: 25})

	assert.Equal(t, 50, target.HP())
	assert.Empty(t, target.Effects(), "heal is instant")
}

func TestApplyEffect_StatDelta(t *testing.T) {
	env := newTestEnv()
	target := newTestEnemy(t, 50)

	ApplyEffect(env, target, model.EffectSpec{
		Kind: model.EffectDebuffStats, Chance: 1, Duration: 2, Stats: model.Stats{Defense: -3},
	})

	assert.Equal(t, 2, target.TotalStats(nil).Defense)
}

func TestTickEndOfTurn_Bleed(t *testing.T) {
	env := newTestEnv()
	target := newTestEnemy(t, 50)
	ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectBleed, Chance: 1, Duration: 2, Power: 4.7})

	TickEndOfTurn(env, target)
	assert.Equal(t, 46, target.HP(), "power is truncated")
	require.Len(t, target.Effects(), 1)
	assert.Equal(t, 1, target.Effects()[0].Remaining)

	TickEndOfTurn(env, target)
	assert.Equal(t, 42, target.HP(), "damage lands on the expiring tick too")
	assert.Empty(t, target.Effects())
	assert.Contains(t, env.Log.Last(), "wore off")
}

func TestTickEndOfTurn_BleedFloorsAtZero(t *testing.T) {
	env := newTestEnv()
	target := newTestEnemy(t, 50)
	target.SetHP(2)
	ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectBleed, Chance: 1, Duration: 3, Power: 10})

	TickEndOfTurn(env, target)

	assert.Zero(t, target.HP())
	assert.True(t, target.IsDead())
}

func TestCanAct_StunDuration(t *testing.T) {
	env := newTestEnv()
	target := newTestEnemy(t, 50)
	ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectStun, Chance: 1, Duration: 2})

	blocked := 0
	for turn := 1; turn <= 4; turn++ {
		if !CanAct(env, target) {
			blocked++
		} else {
			assert.Equal(t, 3, turn, "first free action comes right after the stun")
			break
		}
		TickEndOfTurn(env, target)
	}
	assert.Equal(t, 2, blocked)
}

func TestTickEndOfTurn_ExpiredBuffClampsHP(t *testing.T) {
	env := newTestEnv()
	target := newTestEnemy(t, 50)
	ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectBuffStats, Chance: 1, Duration: 1, Stats: model.Stats{MaxHP: 20}})
	target.SetHP(70)

	TickEndOfTurn(env, target)

	assert.Equal(t, 50, target.HP())
}

func TestCleanse(t *testing.T) {
	env := newTestEnv()
	target := newTestEnemy(t, 50)
	ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectBleed, Chance: 1, Duration: 2, Power: 1})
	ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectStun, Chance: 1, Duration: 2})
	ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectBleed, Chance: 1, Duration: 3, Power: 1})

	removed := Cleanse(env, target, []model.EffectKind{model.EffectBleed, model.EffectDebuffStats})

	assert.Equal(t, 2, removed)
	require.Len(t, target.Effects(), 1)
	assert.Equal(t, model.EffectStun, target.Effects()[0].Kind)
	assert.Zero(t, Cleanse(env, target, []model.EffectKind{model.EffectBleed}))
}

func TestClearAll(t *testing.T) {
	env := newTestEnv()
	target := newTestEnemy(t, 50)
	ApplyEffect(env, target, model.EffectSpec{Kind: model.EffectStun, Chance: 1, Duration: 2})

	ClearAll(target)

	assert.Empty(t, target.Effects())
	assert.True(t, CanAct(env, target))
}

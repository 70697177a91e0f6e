package session

import (
	"context"
	"errors"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dungeonrpg/internal/data"
	"github.com/udisondev/dungeonrpg/internal/game/combat"
	"github.com/udisondev/dungeonrpg/internal/game/itemhandler"
	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/testutil"
)

// memStore is an in-memory ProgressStore that keeps copies of records.
type memStore struct {
	records  map[string]*model.Progress
	selected string
	saves    int
	failSave error
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*model.Progress)}
}

func cloneProgress(p *model.Progress) *model.Progress {
	c := *p
	c.Inventory = p.Inventory.Clone()
	c.Equipment = p.Equipment.Clone()
	c.Dungeon.UnlockedZones = slices.Clone(p.Dungeon.UnlockedZones)
	c.Dungeon.UnlockedStageByZone = maps.Clone(p.Dungeon.UnlockedStageByZone)
	return &c
}

func (m *memStore) LoadProgress(_ context.Context, id string) (*model.Progress, error) {
	p, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return cloneProgress(p), nil
}

func (m *memStore) SaveProgress(_ context.Context, p *model.Progress) error {
	if m.failSave != nil {
		return m.failSave
	}
	m.saves++
	m.records[p.PlayerID] = cloneProgress(p)
	return nil
}

func (m *memStore) SelectedPlayer(context.Context) (string, error) {
	return m.selected, nil
}

func (m *memStore) SetSelectedPlayer(_ context.Context, id string) error {
	m.selected = id
	return nil
}

func newSession(t *testing.T, store *memStore) (*Session, *testutil.ScriptedRand) {
	t.Helper()
	rng := &testutil.ScriptedRand{}
	s, err := New(context.Background(), testutil.Catalog(t), store, rng, Options{})
	require.NoError(t, err)
	return s, rng
}

// playUntilDone repeats action until the battle ends.
func playUntilDone(t *testing.T, action func() (*combat.BattleResult, error)) *combat.BattleResult {
	t.Helper()
	for range 100 {
		res, err := action()
		require.NoError(t, err)
		if res != nil {
			return res
		}
	}
	t.Fatal("battle did not finish")
	return nil
}

func TestNew_FreshCharacter(t *testing.T) {
	store := newMemStore()

	s, _ := newSession(t, store)

	p := s.Player()
	assert.Equal(t, "knight", p.ID())
	assert.Equal(t, 1, p.Level())
	assert.Equal(t, 30, p.ExpToNext())
	assert.Equal(t, 100, p.HP())
	assert.Equal(t, 1, p.Inventory().Count("potion_small"))
	assert.Equal(t, []string{"1"}, s.Dungeon().UnlockedZones)
	assert.Equal(t, "knight", store.selected)
}

func TestNew_ActivePlayerChoice(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		want     string
	}{
		{name: "saved selection", selected: "mage", want: "mage"},
		{name: "selection removed from content", selected: "ghost", want: "knight"},
		{name: "no selection", selected: "", want: "knight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.selected = tt.selected

			s, _ := newSession(t, store)

			assert.Equal(t, tt.want, s.Player().ID())
			assert.Equal(t, tt.want, store.selected)
		})
	}
}

func TestNew_LoadsSavedProgressAtFullHP(t *testing.T) {
	store := newMemStore()
	pr := model.NewProgress("knight", nil)
	pr.Level = 3
	pr.Exp = 12
	pr.ExpToNext = 999
	pr.StatPoints = 2
	pr.HP = 40
	pr.Allocated = model.Stats{MaxHP: 10}
	pr.Inventory = model.Inventory{"slime_gel": 5}
	store.records["knight"] = pr

	s, _ := newSession(t, store)

	p := s.Player()
	assert.Equal(t, 3, p.Level())
	assert.Equal(t, 12, p.Exp())
	assert.Equal(t, combat.ExpToNext(3), p.ExpToNext())
	assert.Equal(t, 2, p.StatPoints())
	assert.Equal(t, 110, p.HP())
	assert.Equal(t, 5, p.Inventory().Count("slime_gel"))
	assert.Zero(t, p.Inventory().Count("potion_small"), "starter items only for new characters")
}

func TestNew_LegacyInventoryNormalized(t *testing.T) {
	store := newMemStore()
	pr := model.NewProgress("knight", nil)
	pr.Inventory = model.Inventory{"minor_potion": 2, "potion_small": 1}
	store.records["knight"] = pr

	s, _ := newSession(t, store)

	assert.Equal(t, model.Inventory{"potion_small": 3}, s.Player().Inventory())
	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, model.Inventory{"potion_small": 3}, store.records["knight"].Inventory)
}

func TestStartStage_Rejected(t *testing.T) {
	store := newMemStore()
	pr := model.NewProgress("knight", nil)
	pr.Dungeon.UnlockedZones = []string{"1", "2"}
	pr.Dungeon.UnlockedStageByZone = map[string]int{"1": 1, "2": 2}
	store.records["knight"] = pr
	s, _ := newSession(t, store)

	tests := []struct {
		name    string
		zone    string
		stage   int
		wantErr error
	}{
		{name: "next stage locked", zone: "1", stage: 2, wantErr: ErrStageLocked},
		{name: "zone locked", zone: "3", stage: 1, wantErr: ErrStageLocked},
		{name: "unlocked but undefined", zone: "2", stage: 2, wantErr: ErrUnknownStage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := s.StartStage(tt.zone, tt.stage)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, st)
			assert.Nil(t, s.Battle())
		})
	}
}

func TestStageBattle_Win(t *testing.T) {
	store := newMemStore()
	s, _ := newSession(t, store)
	ctx := context.Background()

	st, err := s.StartStage("1", 1)
	require.NoError(t, err)
	require.Equal(t, "slime", st.Enemy.ID())

	_, err = s.StartStage("1", 1)
	assert.ErrorIs(t, err, ErrBattleInProgress)

	// knight deals 13 per hit to the 30 hp slime, the slime 10 back
	res, err := s.Attack(ctx)
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 90, s.Player().HP())

	res = playUntilDone(t, func() (*combat.BattleResult, error) { return s.Attack(ctx) })

	assert.Equal(t, combat.WinnerPlayer, res.Winner)
	assert.Equal(t, 10, res.Exp)
	assert.Contains(t, res.Log, "EXP +10")
	assert.Nil(t, s.Battle())

	p := s.Player()
	assert.Equal(t, 10, p.Exp())
	assert.Equal(t, 100, p.HP())
	assert.Empty(t, p.Effects())
	assert.Equal(t, 2, p.Inventory().Count("slime_gel"))
	assert.Equal(t, 2, s.Dungeon().UnlockedStageByZone["1"])

	saved := store.records["knight"]
	require.NotNil(t, saved)
	assert.Equal(t, 10, saved.Exp)
	assert.Equal(t, 100, saved.HP)
	assert.Equal(t, 2, saved.Inventory.Count("slime_gel"))
	assert.Equal(t, 2, saved.Dungeon.UnlockedStageByZone["1"])
}

func TestStageBattle_BossUnlocksNextZone(t *testing.T) {
	store := newMemStore()
	pr := model.NewProgress("knight", nil)
	pr.Dungeon.UnlockedStageByZone["1"] = 5
	store.records["knight"] = pr
	s, _ := newSession(t, store)
	ctx := context.Background()

	st, err := s.StartStage("1", 5)
	require.NoError(t, err)
	require.Equal(t, "zone1_boss", st.Enemy.ID())
	require.True(t, st.Enemy.IsBoss())

	// power strike: 20 + 20 - 4 = 36 per hit against 200 hp
	res := playUntilDone(t, func() (*combat.BattleResult, error) { return s.UseSkill(ctx, "power_strike") })

	require.Equal(t, combat.WinnerPlayer, res.Winner)
	assert.Equal(t, 40, res.Exp)
	assert.Contains(t, res.Log, "Zone 2 unlocked!")

	p := s.Player()
	assert.Equal(t, 2, p.Level())
	assert.Equal(t, 10, p.Exp())
	assert.Equal(t, 4, p.StatPoints())
	assert.Equal(t, 1, p.Inventory().Count("iron_sword"))

	saved := store.records["knight"]
	assert.Equal(t, []string{"1", "2"}, saved.Dungeon.UnlockedZones)
	assert.Equal(t, 1, saved.Dungeon.UnlockedStageByZone["2"])
	assert.Equal(t, 2, saved.Level)
}

func TestSpecialBoss_Loss(t *testing.T) {
	store := newMemStore()
	s, _ := newSession(t, store)
	ctx := context.Background()

	_, err := s.StartSpecialBoss("zone1_boss")
	assert.ErrorIs(t, err, ErrUnknownBoss)

	st, err := s.StartSpecialBoss("ancient_dragon")
	require.NoError(t, err)
	assert.Zero(t, st.ExpectedExp())

	res := playUntilDone(t, func() (*combat.BattleResult, error) { return s.Attack(ctx) })

	assert.Equal(t, combat.WinnerEnemy, res.Winner)
	assert.Zero(t, res.Exp)
	assert.Empty(t, res.Drops)

	p := s.Player()
	assert.Equal(t, 100, p.HP())
	assert.Zero(t, p.Exp())
	assert.Equal(t, map[string]int{"1": 1}, s.Dungeon().UnlockedStageByZone)
	assert.Equal(t, 100, store.records["knight"].HP)
}

func TestBattleActions_WithoutBattle(t *testing.T) {
	s, _ := newSession(t, newMemStore())
	ctx := context.Background()

	_, err := s.Attack(ctx)
	assert.ErrorIs(t, err, ErrNoBattle)
	_, err = s.UseSkill(ctx, "power_strike")
	assert.ErrorIs(t, err, ErrNoBattle)
	_, err = s.UseBattleItem(ctx, "potion_small")
	assert.ErrorIs(t, err, ErrNoBattle)
}

func TestUseBattleItem_IllegalKeepsTurn(t *testing.T) {
	s, _ := newSession(t, newMemStore())
	ctx := context.Background()

	st, err := s.StartStage("1", 1)
	require.NoError(t, err)

	res, err := s.UseBattleItem(ctx, "elixir")
	assert.ErrorIs(t, err, itemhandler.ErrItemNotHeld)
	assert.Nil(t, res)
	assert.Equal(t, 1, st.Turn())
	assert.Same(t, st, s.Battle())
}

func TestOutOfBattleActionsBlockedDuringBattle(t *testing.T) {
	s, _ := newSession(t, newMemStore())
	ctx := context.Background()
	_, err := s.StartStage("1", 1)
	require.NoError(t, err)

	_, err = s.Equip(ctx, "iron_sword")
	assert.ErrorIs(t, err, ErrBattleInProgress)
	_, err = s.Unequip(ctx, model.SlotWeapon)
	assert.ErrorIs(t, err, ErrBattleInProgress)
	assert.ErrorIs(t, s.Allocate(ctx, map[model.StatKey]int{model.StatAttack: 1}), ErrBattleInProgress)
	_, err = s.UseItem(ctx, "potion_small")
	assert.ErrorIs(t, err, ErrBattleInProgress)
	assert.ErrorIs(t, s.HealFull(ctx), ErrBattleInProgress)
	assert.ErrorIs(t, s.SwitchCharacter(ctx, "mage"), ErrBattleInProgress)
	_, err = s.ReloadCatalog(ctx)
	assert.ErrorIs(t, err, ErrBattleInProgress)
}

func TestEquipUnequip_Saves(t *testing.T) {
	store := newMemStore()
	pr := model.NewProgress("knight", model.Inventory{"iron_sword": 1})
	store.records["knight"] = pr
	s, _ := newSession(t, store)
	ctx := context.Background()

	msg, err := s.Equip(ctx, "iron_sword")
	require.NoError(t, err)
	assert.Equal(t, "Iron Sword equipped!", msg)
	assert.Equal(t, 25, s.Summary().Stats.Attack)
	assert.Equal(t, "iron_sword", store.records["knight"].Equipment.Get(model.SlotWeapon))
	assert.Zero(t, store.records["knight"].Inventory.Count("iron_sword"))

	_, err = s.Unequip(ctx, model.SlotWeapon)
	require.NoError(t, err)
	assert.Empty(t, store.records["knight"].Equipment.Get(model.SlotWeapon))
	assert.Equal(t, 1, store.records["knight"].Inventory.Count("iron_sword"))

	saves := store.saves
	_, err = s.Equip(ctx, "slime_gel")
	assert.Error(t, err)
	assert.Equal(t, saves, store.saves, "failed action does not save")
}

func TestAllocate(t *testing.T) {
	newAllocSession := func(t *testing.T) (*Session, *memStore) {
		store := newMemStore()
		pr := model.NewProgress("knight", nil)
		pr.StatPoints = 4
		store.records["knight"] = pr
		s, _ := newSession(t, store)
		return s, store
	}
	ctx := context.Background()

	t.Run("spends positive entries", func(t *testing.T) {
		s, store := newAllocSession(t)

		err := s.Allocate(ctx, map[model.StatKey]int{
			model.StatAttack:  2,
			model.StatMaxHP:   1,
			model.StatDefense: -3,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, s.Player().StatPoints())
		assert.Equal(t, model.Stats{Attack: 2, MaxHP: 1}, s.Player().Allocated())
		assert.Equal(t, 22, s.Summary().Stats.Attack)
		assert.Equal(t, 1, store.records["knight"].StatPoints)
	})

	tests := []struct {
		name    string
		spend   map[model.StatKey]int
		wantErr error
	}{
		{name: "more than available", spend: map[model.StatKey]int{model.StatAttack: 3, model.StatMagic: 2}, wantErr: ErrNotEnoughPoints},
		{name: "unknown stat", spend: map[model.StatKey]int{"luck": 1}, wantErr: ErrInvalidStat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store := newAllocSession(t)
			saves := store.saves

			err := s.Allocate(ctx, tt.spend)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 4, s.Player().StatPoints())
			assert.True(t, s.Player().Allocated().IsZero())
			assert.Equal(t, saves, store.saves)
		})
	}
}

func TestUseItem_OutOfBattle(t *testing.T) {
	store := newMemStore()
	s, _ := newSession(t, store)
	ctx := context.Background()
	s.Player().SetHP(50)

	lines, err := s.UseItem(ctx, "potion_small")
	require.NoError(t, err)
	assert.NotEmpty(t, lines)
	assert.Equal(t, 80, s.Player().HP())
	assert.Zero(t, store.records["knight"].Inventory.Count("potion_small"))
	assert.Equal(t, 80, store.records["knight"].HP)

	_, err = s.UseItem(ctx, "potion_small")
	assert.ErrorIs(t, err, itemhandler.ErrItemNotHeld)
}

func TestUseItem_CleanseWithoutEffectKeepsItem(t *testing.T) {
	store := newMemStore()
	s, _ := newSession(t, store)
	ctx := context.Background()
	s.Player().SetInventory(model.Inventory{"antidote": 1})
	saves := store.saves

	lines, err := s.UseItem(ctx, "antidote")

	assert.ErrorIs(t, err, itemhandler.ErrNoEffect)
	assert.Equal(t, []string{"Antidote has no effect."}, lines)
	assert.Equal(t, 1, s.Player().Inventory().Count("antidote"))
	assert.Equal(t, saves, store.saves, "nothing is saved")

	s.Player().AddEffect(&model.EffectInstance{Kind: model.EffectBleed, Remaining: 2, Power: 3})
	lines, err = s.UseItem(ctx, "antidote")

	require.NoError(t, err)
	assert.Equal(t, "Knight uses Antidote!", lines[0])
	assert.Empty(t, s.Player().Effects())
	assert.Zero(t, s.Player().Inventory().Count("antidote"))
	assert.Equal(t, saves+1, store.saves)
}

func TestHealFull(t *testing.T) {
	store := newMemStore()
	s, _ := newSession(t, store)
	s.Player().SetHP(1)

	require.NoError(t, s.HealFull(context.Background()))

	assert.Equal(t, 100, s.Player().HP())
	assert.Equal(t, 100, store.records["knight"].HP)
}

func TestSwitchCharacter(t *testing.T) {
	store := newMemStore()
	s, _ := newSession(t, store)
	ctx := context.Background()
	s.Player().Inventory().Add("slime_gel", 3)
	s.Player().SetHP(10)

	err := s.SwitchCharacter(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	assert.Equal(t, "knight", s.Player().ID())

	require.NoError(t, s.SwitchCharacter(ctx, "mage"))
	assert.Equal(t, "mage", s.Player().ID())
	assert.Equal(t, 80, s.Player().HP())
	assert.Equal(t, "mage", store.selected)
	assert.Equal(t, 3, store.records["knight"].Inventory.Count("slime_gel"))
	require.Contains(t, store.records, "mage")

	require.NoError(t, s.SwitchCharacter(ctx, "knight"))
	assert.Equal(t, 3, s.Player().Inventory().Count("slime_gel"))
	assert.Equal(t, 100, s.Player().HP(), "switching restores hp")
}

func TestSave_StoreError(t *testing.T) {
	store := newMemStore()
	s, _ := newSession(t, store)
	boom := errors.New("disk full")
	store.failSave = boom

	err := s.HealFull(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestReloadCatalog(t *testing.T) {
	ctx := context.Background()
	fsys := testutil.FixtureFS(nil)
	cat, err := data.Load(ctx, fsys)
	require.NoError(t, err)

	s, err := New(ctx, cat, newMemStore(), &testutil.ScriptedRand{}, Options{})
	require.NoError(t, err)

	changed, err := s.ReloadCatalog(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	players := `
version: "1.1.0"
default_player_id: knight
players:
  knight:
    name: Knight
    base_stats: {attack: 30, magic: 0, defense: 5, magic_resist: 2, max_hp: 150}
    skills: [power_strike]
`
	fsys[data.FilePlayers].Data = []byte(players)

	changed, err = s.ReloadCatalog(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 30, s.Summary().Stats.Attack)
	assert.Equal(t, 150, s.Summary().Stats.MaxHP)
	assert.Equal(t, 100, s.Player().HP())

	fsys[data.FilePlayers].Data = []byte("players: [broken")
	changed, err = s.ReloadCatalog(ctx)
	assert.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, 30, s.Summary().Stats.Attack)
}

// Package session owns the active character between battles: loading and
// switching characters, starting encounters, post-battle bookkeeping and
// persisting progress at every checkpoint.
//
// A Session is driven by one caller and is not safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/dungeonrpg/internal/ai"
	"github.com/udisondev/dungeonrpg/internal/game/combat"
	"github.com/udisondev/dungeonrpg/internal/game/dungeon"
	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/random"
)

var (
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrUnknownBoss      = errors.New("unknown special boss")
	ErrStageLocked      = errors.New("stage is locked")
	ErrUnknownStage     = dungeon.ErrUnknownStage
	ErrNoBattle         = errors.New("no battle in progress")
	ErrBattleInProgress = errors.New("battle in progress")
	ErrNotEnoughPoints  = errors.New("not enough stat points")
	ErrInvalidStat      = errors.New("invalid stat")
)

// ProgressStore persists character progress.
// LoadProgress returns nil, nil when the character has no saved record.
type ProgressStore interface {
	LoadProgress(ctx context.Context, playerID string) (*model.Progress, error)
	SaveProgress(ctx context.Context, p *model.Progress) error
	SelectedPlayer(ctx context.Context) (string, error)
	SetSelectedPlayer(ctx context.Context, playerID string) error
}

// Catalog is the content a session reads.
type Catalog interface {
	combat.Catalog
	dungeon.StageCatalog
	DefaultPlayerID() string
	HasPlayer(id string) bool
	Profile(id string) *model.PlayerProfile
	IsSpecialBoss(id string) bool
	Reload(ctx context.Context) (bool, error)
}

// Options configures a Session. Zero values use the defaults.
type Options struct {
	Rules        dungeon.Rules
	StarterItems model.Inventory
	Policies     *ai.Registry
}

// DefaultStarterItems is the inventory of a character without a save record.
func DefaultStarterItems() model.Inventory {
	return model.Inventory{"potion_small": 1}
}

// Session is the between-battle game state of one active character.
type Session struct {
	catalog Catalog
	store   ProgressStore
	engine  *combat.Engine
	rng     random.Source
	rules   dungeon.Rules
	starter model.Inventory

	player   *model.Player
	progress *model.Progress

	battle *combat.BattleState
	stage  *stageRef
}

type stageRef struct {
	zone  string
	stage int
}

// New creates a session and loads the active character: the saved
// selection if it still exists, else the catalog default.
func New(ctx context.Context, catalog Catalog, store ProgressStore, rng random.Source, opts Options) (*Session, error) {
	if opts.Rules == (dungeon.Rules{}) {
		opts.Rules = dungeon.DefaultRules()
	}
	if opts.StarterItems == nil {
		opts.StarterItems = DefaultStarterItems()
	}

	s := &Session{
		catalog: catalog,
		store:   store,
		engine:  combat.NewEngine(catalog, rng, opts.Policies),
		rng:     rng,
		rules:   opts.Rules,
		starter: opts.StarterItems.Clone(),
	}

	selected, err := store.SelectedPlayer(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading selected player: %w", err)
	}
	id := selected
	if id == "" || !catalog.HasPlayer(id) {
		if id != "" {
			slog.Warn("selected player no longer exists, using default", "player", id)
		}
		id = catalog.DefaultPlayerID()
	}
	if id == "" {
		return nil, fmt.Errorf("choosing active player: %w", ErrUnknownPlayer)
	}

	if err := s.load(ctx, id); err != nil {
		return nil, err
	}
	if id != selected {
		if err := store.SetSelectedPlayer(ctx, id); err != nil {
			return nil, fmt.Errorf("saving selected player: %w", err)
		}
	}

	slog.Info("session started", "player", id, "level", s.player.Level())
	return s, nil
}

// load builds the character from its profile and saved progress at full hp.
func (s *Session) load(ctx context.Context, id string) error {
	pr, err := s.store.LoadProgress(ctx, id)
	if err != nil {
		return fmt.Errorf("loading progress of %s: %w", id, err)
	}
	if pr == nil {
		pr = model.NewProgress(id, s.starter)
		slog.Debug("no saved progress, new character", "player", id)
	}
	normalizeProgress(pr)

	s.progress = pr
	s.player = s.buildPlayer()
	s.player.RestoreFullHP(s.catalog)
	return nil
}

func (s *Session) buildPlayer() *model.Player {
	p := model.NewPlayer(s.catalog.Profile(s.progress.PlayerID))
	s.progress.Apply(p, s.catalog)
	p.SetExpToNext(combat.ExpToNext(p.Level()))
	return p
}

func normalizeProgress(pr *model.Progress) {
	pr.Inventory = pr.Inventory.Normalized()
	if pr.Equipment == nil {
		pr.Equipment = model.NewEquipment()
	}
	if len(pr.Dungeon.UnlockedZones) == 0 {
		pr.Dungeon = model.NewDungeonProgress()
	}
	if pr.Dungeon.UnlockedStageByZone == nil {
		pr.Dungeon.UnlockedStageByZone = make(map[string]int)
	}
}

// Player returns the active character.
func (s *Session) Player() *model.Player {
	return s.player
}

// Dungeon returns the unlock state of the active character.
func (s *Session) Dungeon() *model.DungeonProgress {
	return &s.progress.Dungeon
}

// Rules returns the dungeon rules in effect.
func (s *Session) Rules() dungeon.Rules {
	return s.rules
}

// Battle returns the battle in progress, or nil.
func (s *Session) Battle() *combat.BattleState {
	return s.battle
}

// Save writes the active character and the selection to the store.
func (s *Session) Save(ctx context.Context) error {
	s.progress.Capture(s.player)
	if err := s.store.SaveProgress(ctx, s.progress); err != nil {
		return fmt.Errorf("saving progress of %s: %w", s.player.ID(), err)
	}
	if err := s.store.SetSelectedPlayer(ctx, s.player.ID()); err != nil {
		return fmt.Errorf("saving selected player: %w", err)
	}
	return nil
}

// SwitchCharacter stores the current character and makes id active at full hp.
func (s *Session) SwitchCharacter(ctx context.Context, id string) error {
	if s.battle != nil {
		return ErrBattleInProgress
	}
	if !s.catalog.HasPlayer(id) {
		return fmt.Errorf("switch to %s: %w", id, ErrUnknownPlayer)
	}

	prev := s.player.ID()
	s.progress.Capture(s.player)
	if err := s.store.SaveProgress(ctx, s.progress); err != nil {
		return fmt.Errorf("saving progress of %s: %w", prev, err)
	}
	if err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.Save(ctx); err != nil {
		return err
	}

	slog.Info("character switched", "from", prev, "to", id)
	return nil
}

// ReloadCatalog re-reads content and rebuilds the active character from
// its current progress. On failure the previous content stays active.
func (s *Session) ReloadCatalog(ctx context.Context) (bool, error) {
	if s.battle != nil {
		return false, ErrBattleInProgress
	}
	changed, err := s.catalog.Reload(ctx)
	if err != nil {
		return false, err
	}
	if changed {
		s.progress.Capture(s.player)
		s.player = s.buildPlayer()
	}
	return changed, nil
}

// Summary is a short overview of the active character.
type Summary struct {
	ID         string
	Name       string
	Level      int
	Exp        int
	ExpToNext  int
	StatPoints int
	HP         int
	Stats      model.Stats
}

// Summary returns the current figures of the active character.
func (s *Session) Summary() Summary {
	return Summary{
		ID:         s.player.ID(),
		Name:       s.player.Name(),
		Level:      s.player.Level(),
		Exp:        s.player.Exp(),
		ExpToNext:  combat.ExpToNext(s.player.Level()),
		StatPoints: s.player.StatPoints(),
		HP:         s.player.HP(),
		Stats:      s.player.TotalStats(s.catalog),
	}
}

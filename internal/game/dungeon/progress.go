package dungeon

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/udisondev/dungeonrpg/internal/model"
)

const (
	// DefaultMaxZone is the last zone a clear can unlock.
	DefaultMaxZone = 10
	// DefaultStagesPerZone is the final (boss) stage number of a zone.
	DefaultStagesPerZone = 5
)

// Rules bounds dungeon progress.
type Rules struct {
	MaxZone       int
	StagesPerZone int
}

// DefaultRules returns 10 zones of 5 stages.
func DefaultRules() Rules {
	return Rules{
		MaxZone:       DefaultMaxZone,
		StagesPerZone: DefaultStagesPerZone,
	}
}

func (r Rules) normalized() Rules {
	if r.MaxZone <= 0 {
		r.MaxZone = DefaultMaxZone
	}
	if r.StagesPerZone <= 0 {
		r.StagesPerZone = DefaultStagesPerZone
	}
	return r
}

// IsBossStage reports whether stage is the final stage of a zone.
func (r Rules) IsBossStage(stage int) bool {
	return stage == r.normalized().StagesPerZone
}

// IsStageUnlocked reports whether zone is unlocked and stage does not exceed
// the highest unlocked stage of that zone (0 when the zone has no entry).
func (r Rules) IsStageUnlocked(p *model.DungeonProgress, zone string, stage int) bool {
	if !slices.Contains(p.UnlockedZones, zone) {
		return false
	}
	return stage >= 1 && stage <= p.UnlockedStageByZone[zone]
}

// ClearStage records a cleared stage.
//
// Clearing the highest unlocked stage (or beyond) unlocks the next one,
// capped at StagesPerZone. Clearing the final stage unlocks the next zone
// at stage 1 unless it is already unlocked or past MaxZone.
// Returns the id of a newly unlocked zone, or "".
func (r Rules) ClearStage(p *model.DungeonProgress, zone string, stage int) string {
	r = r.normalized()
	if p.UnlockedStageByZone == nil {
		p.UnlockedStageByZone = make(map[string]int)
	}

	current, ok := p.UnlockedStageByZone[zone]
	if !ok {
		current = 1
	}
	if stage >= current {
		p.UnlockedStageByZone[zone] = min(r.StagesPerZone, stage+1)
	}

	if stage < r.StagesPerZone {
		return ""
	}

	n, err := strconv.Atoi(zone)
	if err != nil {
		slog.Warn("non-numeric zone id, next zone not unlocked", "zone", zone)
		return ""
	}
	next := n + 1
	if next > r.MaxZone {
		return ""
	}
	nextID := strconv.Itoa(next)
	if slices.Contains(p.UnlockedZones, nextID) {
		return ""
	}

	p.UnlockedZones = append(p.UnlockedZones, nextID)
	p.UnlockedStageByZone[nextID] = 1
	slog.Info("zone unlocked", "zone", nextID)
	return nextID
}

// HighestStage returns the highest unlocked stage of zone, 0 if locked.
func (r Rules) HighestStage(p *model.DungeonProgress, zone string) int {
	if !slices.Contains(p.UnlockedZones, zone) {
		return 0
	}
	return p.UnlockedStageByZone[zone]
}

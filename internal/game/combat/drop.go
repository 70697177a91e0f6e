package combat

import (
	"fmt"
	"strings"

	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/random"
)

// Drop is a single rolled reward.
type Drop struct {
	ItemID string
	Qty    int
}

// RollDrops rolls every drop table entry independently.
//
// Algorithm:
//  1. For each entry roll its chance (0 never fires, 1 always fires)
//  2. On success qty = uniform [min(min,max), max(min,max)]
//  3. Append Drop in table order
//
// An entry fires at most once per call.
func RollDrops(rng random.Source, entries []model.DropEntry) []Drop {
	var drops []Drop
	for _, e := range entries {
		if e.ItemID == "" || !random.Roll(rng, e.Chance) {
			continue
		}
		drops = append(drops, Drop{
			ItemID: e.ItemID,
			Qty:    random.IntRange(rng, e.Min, e.Max),
		})
	}
	return drops
}

// FormatDrops renders drops as "Name xQty, ..." or "none".
func FormatDrops(drops []Drop, name func(id string) string) string {
	if len(drops) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(drops))
	for _, d := range drops {
		label := d.ItemID
		if name != nil {
			label = name(d.ItemID)
		}
		parts = append(parts, fmt.Sprintf("%s x%d", label, d.Qty))
	}
	return strings.Join(parts, ", ")
}

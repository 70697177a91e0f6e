package db

import (
	"maps"
	"slices"

	"github.com/udisondev/dungeonrpg/internal/model"
)

const settingSelectedPlayer = "selected_player_id"

// itemRow — одна строка player_inventory или player_equipment.
type itemRow struct {
	Key    string
	ItemID string
	Qty    int
}

type dungeonRow struct {
	ZoneID        string
	UnlockOrder   int
	UnlockedStage int
}

func inventoryRows(inv model.Inventory) []itemRow {
	rows := make([]itemRow, 0, len(inv))
	for _, id := range slices.Sorted(maps.Keys(inv)) {
		if inv[id] <= 0 {
			continue
		}
		rows = append(rows, itemRow{ItemID: id, Qty: inv[id]})
	}
	return rows
}

func equipmentRows(eq model.Equipment) []itemRow {
	rows := make([]itemRow, 0, len(model.AllSlots))
	for _, slot := range model.AllSlots {
		if id := eq.Get(slot); id != "" {
			rows = append(rows, itemRow{Key: string(slot), ItemID: id})
		}
	}
	return rows
}

// dungeonRows раскладывает состояние разблокировки в строки. Зоны сохраняют
// порядок открытия; этапы закрытых зон получают order -1.
func dungeonRows(d model.DungeonProgress) []dungeonRow {
	seen := make(map[string]bool, len(d.UnlockedZones))
	rows := make([]dungeonRow, 0, len(d.UnlockedZones)+len(d.UnlockedStageByZone))
	for _, zone := range d.UnlockedZones {
		if seen[zone] {
			continue
		}
		seen[zone] = true
		rows = append(rows, dungeonRow{
			ZoneID:        zone,
			UnlockOrder:   len(rows),
			UnlockedStage: d.UnlockedStageByZone[zone],
		})
	}
	for _, zone := range slices.Sorted(maps.Keys(d.UnlockedStageByZone)) {
		if seen[zone] {
			continue
		}
		rows = append(rows, dungeonRow{
			ZoneID:        zone,
			UnlockOrder:   -1,
			UnlockedStage: d.UnlockedStageByZone[zone],
		})
	}
	return rows
}

// dungeonFromRows ожидает строки, упорядоченные по unlock_order.
// Нет строк: персонаж сохранён до появления состояния подземелья, берём начальное.
func dungeonFromRows(rows []dungeonRow) model.DungeonProgress {
	if len(rows) == 0 {
		return model.NewDungeonProgress()
	}
	d := model.DungeonProgress{
		UnlockedZones:       []string{},
		UnlockedStageByZone: make(map[string]int, len(rows)),
	}
	for _, r := range rows {
		if r.UnlockOrder >= 0 {
			d.UnlockedZones = append(d.UnlockedZones, r.ZoneID)
		}
		if r.UnlockedStage > 0 {
			d.UnlockedStageByZone[r.ZoneID] = r.UnlockedStage
		}
	}
	return d
}

func newLoadedProgress(playerID string) *model.Progress {
	return &model.Progress{
		PlayerID:  playerID,
		Inventory: model.Inventory{},
		Equipment: model.NewEquipment(),
	}
}

func setEquipment(pr *model.Progress, slot, itemID string) {
	s := model.Slot(slot)
	if !s.Valid() {
		return
	}
	pr.Equipment[s] = itemID
}

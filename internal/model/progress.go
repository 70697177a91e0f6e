package model

// Progress is the persisted character state written by the save store.
type Progress struct {
	PlayerID   string
	Level      int
	Exp        int
	ExpToNext  int
	StatPoints int
	HP         int
	Allocated  Stats
	Inventory  Inventory
	Equipment  Equipment
	Dungeon    DungeonProgress
}

// DungeonProgress tracks unlocked zones and the highest unlocked stage per zone.
type DungeonProgress struct {
	UnlockedZones       []string
	UnlockedStageByZone map[string]int
}

// NewDungeonProgress returns the initial unlock state: zone "1", stage 1.
func NewDungeonProgress() DungeonProgress {
	return DungeonProgress{
		UnlockedZones:       []string{"1"},
		UnlockedStageByZone: map[string]int{"1": 1},
	}
}

// NewProgress returns a fresh level 1 record with the given starter inventory.
func NewProgress(playerID string, starter Inventory) *Progress {
	return &Progress{
		PlayerID:  playerID,
		Level:     1,
		Inventory: starter.Normalized(),
		Equipment: NewEquipment(),
		Dungeon:   NewDungeonProgress(),
	}
}

// Apply copies persisted state into p. HP 0 means "full".
func (pr *Progress) Apply(p *Player, items ItemCatalog) {
	p.SetLevel(max(1, pr.Level))
	p.SetExp(pr.Exp)
	p.SetExpToNext(pr.ExpToNext)
	p.SetStatPoints(pr.StatPoints)
	p.SetAllocated(pr.Allocated)
	p.SetInventory(pr.Inventory.Normalized())
	p.SetEquipment(pr.Equipment)
	if pr.HP > 0 {
		p.SetHP(pr.HP)
	} else {
		p.RestoreFullHP(items)
	}
	p.SyncHPToTotal(items)
}

// Capture copies the player's mutable state into the record.
func (pr *Progress) Capture(p *Player) {
	pr.PlayerID = p.ID()
	pr.Level = p.Level()
	pr.Exp = p.Exp()
	pr.ExpToNext = p.ExpToNext()
	pr.StatPoints = p.StatPoints()
	pr.HP = p.HP()
	pr.Allocated = p.Allocated()
	pr.Inventory = p.Inventory().Clone()
	pr.Equipment = p.Equipment().Clone()
}

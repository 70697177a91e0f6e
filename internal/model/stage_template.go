package model

// ZoneTemplate groups the stages of one dungeon zone.
type ZoneTemplate struct {
	ID     string
	Stages map[string]*StageTemplate
}

// StageTemplate is a dungeon stage: monster pool, optional boss and exp reward.
type StageTemplate struct {
	ID          string
	MonsterPool []string
	BossID      string
	Exp         int
}
